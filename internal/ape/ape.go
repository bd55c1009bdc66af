// Package ape implements the APEv2 tag codec.
//
// An APE tag is an item list bracketed by 32-byte header and footer
// blocks (the header is optional on the wire; the footer is not). All
// fixed-width fields are little-endian. Item keys are printable ASCII,
// looked up case-insensitively.
//
// The continuation policy on a bad item is strict by default: one
// malformed item aborts the whole parse. A corrupt item list usually
// means the footer's size field pointed somewhere wrong, and decoding
// garbage as items would fabricate metadata. Pass types.ParseLenient to
// keep the items decoded before the failure instead.
package ape

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

const (
	// Magic is the 8-byte preamble of header and footer blocks.
	Magic = "APETAGEX"

	// BlockLen is the fixed size of a header or footer block.
	BlockLen = 32

	// Version2 is the APEv2 version field value (stored as 2000).
	Version2 = 2000

	// MinTagLen is the smallest renderable tag: header plus footer with
	// no items.
	MinTagLen = 2 * BlockLen

	// maxTagSize bounds the declared tag size before any allocation.
	// Real-world APE tags are a few KB plus cover art; 16 MiB is far
	// beyond anything legitimate.
	maxTagSize = 1 << 24

	// FlagHasHeader marks a tag that carries both header and footer.
	FlagHasHeader = 1 << 31
	flagIsHeader  = 1 << 29 // this block is the header, not the footer
	flagReadOnly  = 1 << 0
)

// DefaultPolicy is the documented continuation policy for APE: strict,
// abort the whole parse on one bad item.
const DefaultPolicy = types.ParseStrict

// Tag is a parsed APE container: an ordered item list plus the header
// facts needed to re-render it. Item order is preserved for round-trip
// stability.
type Tag struct {
	Version   uint32
	HasHeader bool
	Items     []Item

	// Warnings collected during a lenient parse.
	Warnings []types.Warning
}

// New returns an empty APEv2 tag that renders with both header and
// footer.
func New() *Tag {
	return &Tag{Version: Version2, HasHeader: true}
}

// block is a decoded header or footer.
type block struct {
	version uint32
	size    uint32 // items + footer, excluding the header block
	count   uint32
	flags   uint32
}

// Parse decodes an APE tag using the format's default strict policy.
func Parse(data []byte) (*Tag, error) {
	return ParseWithPolicy(data, DefaultPolicy)
}

// ParseWithPolicy decodes an APE tag from data.
//
// The buffer must hold the complete tag with the footer in its last 32
// bytes; a leading header block, when the footer announces one, is
// validated too. Header/footer-level failures abort under either policy;
// the policy only governs failures of individual items.
func ParseWithPolicy(data []byte, policy types.ParsePolicy) (*Tag, error) {
	if len(data) < BlockLen {
		return nil, &types.ParseError{
			Kind: types.ErrInsufficientData,
			What: "APE footer",
		}
	}

	footerOff := int64(len(data) - BlockLen)
	footer, err := readBlock(data[footerOff:], footerOff, "APE footer")
	if err != nil {
		return nil, err
	}

	size := int64(footer.size)
	switch {
	case size < BlockLen:
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "APE tag size",
			Detail: fmt.Sprintf("declared size %d smaller than a footer", size),
			Offset: footerOff + 12,
		}
	case size > maxTagSize:
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "APE tag size",
			Detail: fmt.Sprintf("declared size %d exceeds the %d sanity bound", size, maxTagSize),
			Offset: footerOff + 12,
		}
	case size > int64(len(data)):
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "APE tag size",
			Detail: fmt.Sprintf("declared size %d exceeds buffer length %d", size, len(data)),
			Offset: footerOff + 12,
		}
	}

	tag := &Tag{
		Version:   footer.version,
		HasHeader: footer.flags&FlagHasHeader != 0,
	}

	itemsStart := int64(len(data)) - size
	if tag.HasHeader {
		headerOff := itemsStart - BlockLen
		if headerOff < 0 {
			return nil, &types.ParseError{
				Kind:   types.ErrSizeOverflow,
				What:   "APE header",
				Detail: "footer announces a header but the buffer has no room for one",
				Offset: footerOff + 16,
			}
		}
		header, err := readBlock(data[headerOff:headerOff+BlockLen], headerOff, "APE header")
		if err != nil {
			return nil, err
		}
		if header.flags&flagIsHeader == 0 {
			return nil, &types.ParseError{
				Kind:   types.ErrInvalidMagic,
				What:   "APE header",
				Detail: "leading block is not flagged as a header",
				Offset: headerOff + 16,
			}
		}
	}

	items := data[itemsStart : int64(len(data))-BlockLen]
	if err := tag.parseItems(items, itemsStart, footer.count, policy); err != nil {
		return nil, err
	}
	return tag, nil
}

// readBlock decodes one 32-byte header/footer block. base is the block's
// offset in the original buffer, used for error reporting.
func readBlock(data []byte, base int64, what string) (block, error) {
	r := binary.NewReader(data)

	preamble, err := r.Fixed(8, what+" preamble")
	if err != nil {
		return block{}, err
	}
	if string(preamble) != Magic {
		return block{}, &types.ParseError{
			Kind:   types.ErrInvalidMagic,
			What:   what + " preamble",
			Offset: base,
		}
	}

	var b block
	if b.version, err = binary.ReadLE[uint32](r, what+" version"); err != nil {
		return block{}, err
	}
	if b.size, err = binary.ReadLE[uint32](r, what+" size"); err != nil {
		return block{}, err
	}
	if b.count, err = binary.ReadLE[uint32](r, what+" item count"); err != nil {
		return block{}, err
	}
	if b.flags, err = binary.ReadLE[uint32](r, what+" flags"); err != nil {
		return block{}, err
	}
	if err = r.Skip(8, what+" reserved bytes"); err != nil {
		return block{}, err
	}
	return b, nil
}

// parseItems walks the item region. count is advisory: iteration also
// stops when the region is exhausted.
func (t *Tag) parseItems(region []byte, base int64, count uint32, policy types.ParsePolicy) error {
	r := binary.NewReader(region)

	for i := uint32(0); i < count && r.Remaining() > 0; i++ {
		start := r.Offset()
		item, err := parseItem(r)
		if err != nil {
			var pe *types.ParseError
			if errors.As(err, &pe) {
				pe.Offset += base
			}
			if policy == types.ParseStrict {
				return err
			}
			t.Warnings = append(t.Warnings, types.Warning{
				Stage:   "records",
				Message: fmt.Sprintf("item %d: %v, stopping", i, err),
				Offset:  base + start,
			})
			return nil
		}
		t.Items = append(t.Items, item)
	}
	return nil
}

// parseItem extracts one length-prefixed item at the reader's cursor.
func parseItem(r *binary.Reader) (Item, error) {
	valueLen, err := binary.ReadLE[uint32](r, "item value length")
	if err != nil {
		return Item{}, err
	}
	flags, err := binary.ReadLE[uint32](r, "item flags")
	if err != nil {
		return Item{}, err
	}

	rest := r.Peek(r.Remaining())
	term := bytes.IndexByte(rest, 0)
	if term < 0 {
		return Item{}, &types.ParseError{
			Kind:   types.ErrMissingTerminator,
			What:   "item key",
			Offset: r.Offset(),
		}
	}
	key := string(rest[:term])
	if err := ValidateKey(key); err != nil {
		var pe *types.ParseError
		if errors.As(err, &pe) {
			pe.Offset = r.Offset()
		}
		return Item{}, err
	}
	if err := r.Skip(int64(term)+1, "item key"); err != nil {
		return Item{}, err
	}

	value, err := r.Take(int64(valueLen), fmt.Sprintf("item %q value", key))
	if err != nil {
		return Item{}, err
	}

	item := Item{
		Key:      key,
		Type:     ItemType(flags >> 1 & 0x3),
		ReadOnly: flags&flagReadOnly != 0,
	}
	if err := item.decodeValue(value); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Item returns the first item whose key matches case-insensitively, or
// nil.
func (t *Tag) Item(key string) *Item {
	for i := range t.Items {
		if strings.EqualFold(t.Items[i].Key, key) {
			return &t.Items[i]
		}
	}
	return nil
}

// Text returns the first value of a matching text item, or "".
func (t *Tag) Text(key string) string {
	if item := t.Item(key); item != nil {
		return item.Value()
	}
	return ""
}

// SetText replaces the values of a matching item (preserving its stored
// key spelling) or appends a new text item. The key is validated.
func (t *Tag) SetText(key string, values ...string) error {
	if item := t.Item(key); item != nil {
		item.Type = ItemText
		item.Values = append([]string(nil), values...)
		item.Data = nil
		return nil
	}
	item, err := NewTextItem(key, values...)
	if err != nil {
		return err
	}
	t.Items = append(t.Items, item)
	return nil
}

// SetItem replaces the first item with the same key, or appends.
func (t *Tag) SetItem(item Item) error {
	if err := ValidateKey(item.Key); err != nil {
		return err
	}
	if existing := t.Item(item.Key); existing != nil {
		*existing = item
		return nil
	}
	t.Items = append(t.Items, item)
	return nil
}

// Remove deletes every item with the given key (case-insensitive).
func (t *Tag) Remove(key string) {
	kept := t.Items[:0]
	for _, item := range t.Items {
		if !strings.EqualFold(item.Key, key) {
			kept = append(kept, item)
		}
	}
	t.Items = kept
}
