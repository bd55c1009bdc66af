// Package asf implements the ASF/WMA header tag codec.
//
// An ASF file opens with a Header Object whose payload is a sequence of
// size-prefixed child objects, each identified by a 16-byte GUID. Two of
// the children carry metadata: the Content Description object (five
// fixed slots) and the Extended Content Description object (typed
// name/value descriptors). Every other child passes through opaque and
// byte-identical, so re-rendering a header that was only partially
// understood loses nothing.
//
// The continuation policy on a bad child object is lenient by default:
// parsing stops at the first malformed child and returns everything
// decoded before it, with a warning. Pass types.ParseStrict to abort.
package asf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/textenc"
	"github.com/simonhull/audiotag/internal/types"
)

const (
	// headerLen is the fixed Header Object header: GUID, 8-byte size,
	// 4-byte child count, 2 reserved bytes.
	headerLen = 30

	// objectHeaderLen is the fixed child object header: GUID plus an
	// 8-byte size that includes the header itself.
	objectHeaderLen = 24

	// maxHeaderSize bounds the declared header size before any
	// allocation. Headers hold metadata and codec setup, not media
	// data; 64 MiB is far beyond anything legitimate.
	maxHeaderSize = 1 << 26
)

// DefaultPolicy is the documented continuation policy for ASF: lenient,
// keep whatever was decoded before a bad child object.
const DefaultPolicy = types.ParseLenient

// ObjectKind classifies a header child object.
type ObjectKind int

const (
	// ObjectOpaque is any child this codec does not decode; its payload
	// passes through byte-for-byte on render.
	ObjectOpaque ObjectKind = iota
	// ObjectContentDescription is the five-slot Content Description.
	ObjectContentDescription
	// ObjectExtendedContent is the typed descriptor list.
	ObjectExtendedContent
)

// ContentDescription holds the five fixed metadata slots.
type ContentDescription struct {
	Title       string
	Author      string
	Copyright   string
	Description string
	Rating      string
}

// Object is one child of the Header Object. Kind selects which fields
// are meaningful; opaque objects keep their raw payload.
type Object struct {
	ID   GUID
	Kind ObjectKind

	Content     *ContentDescription // ObjectContentDescription
	Descriptors []Descriptor        // ObjectExtendedContent
	Data        []byte              // ObjectOpaque payload, object header excluded
}

// Tag is a parsed ASF Header Object: an ordered child list. Order is
// preserved for round-trip stability.
type Tag struct {
	Objects []Object

	// Warnings collected during a lenient parse.
	Warnings []types.Warning
}

// New returns an empty header tag.
func New() *Tag {
	return &Tag{}
}

// Parse decodes an ASF Header Object using the format's default lenient
// policy.
func Parse(data []byte) (*Tag, error) {
	return ParseWithPolicy(data, DefaultPolicy)
}

// ParseWithPolicy decodes an ASF Header Object from data.
//
// The buffer must start at the Header Object GUID and contain at least
// the declared header size. Header-level failures (bad GUID, declared
// size past the buffer or the sanity bound) abort under either policy;
// the policy only governs failures of individual child objects.
func ParseWithPolicy(data []byte, policy types.ParsePolicy) (*Tag, error) {
	r := binary.NewReader(data)

	guidBytes, err := r.Fixed(guidLen, "header GUID")
	if err != nil {
		return nil, err
	}
	id, err := GUIDFromBytes(guidBytes)
	if err != nil {
		return nil, err
	}
	if id != HeaderObject {
		return nil, &types.ParseError{
			Kind:   types.ErrInvalidMagic,
			What:   "header GUID",
			Detail: fmt.Sprintf("got %s", id),
		}
	}

	size, err := binary.ReadLE[uint64](r, "header size")
	if err != nil {
		return nil, err
	}
	switch {
	case size < headerLen:
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "header size",
			Detail: fmt.Sprintf("declared %d bytes, minimum is %d", size, headerLen),
			Offset: guidLen,
		}
	case size > maxHeaderSize:
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "header size",
			Detail: fmt.Sprintf("declared %d bytes exceeds the %d sanity bound", size, maxHeaderSize),
			Offset: guidLen,
		}
	case size > uint64(len(data)):
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "header size",
			Detail: fmt.Sprintf("declared %d bytes, buffer has %d", size, len(data)),
			Offset: guidLen,
		}
	}

	count, err := binary.ReadLE[uint32](r, "header object count")
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2, "header reserved bytes"); err != nil {
		return nil, err
	}

	tag := &Tag{}
	body := data[headerLen:size]
	if err := tag.parseObjects(body, count, policy); err != nil {
		return nil, err
	}
	return tag, nil
}

// parseObjects walks the child sequence. count is advisory: iteration
// also stops when the body is exhausted.
func (t *Tag) parseObjects(body []byte, count uint32, policy types.ParsePolicy) error {
	r := binary.NewReader(body)

	for i := uint32(0); i < count && r.Remaining() > 0; i++ {
		start := r.Offset()
		obj, err := parseObject(r)
		if err != nil {
			if policy == types.ParseStrict {
				return err
			}
			t.Warnings = append(t.Warnings, types.Warning{
				Stage:   "records",
				Message: fmt.Sprintf("object %d: %v, stopping", i, err),
				Offset:  headerLen + start,
			})
			return nil
		}
		t.Objects = append(t.Objects, obj)
	}
	return nil
}

// parseObject extracts one size-prefixed child at the reader's cursor
// and decodes its payload per its GUID.
func parseObject(r *binary.Reader) (Object, error) {
	guidBytes, err := r.Fixed(guidLen, "object GUID")
	if err != nil {
		return Object{}, err
	}
	id, err := GUIDFromBytes(guidBytes)
	if err != nil {
		return Object{}, err
	}

	size, err := binary.ReadLE[uint64](r, "object size")
	if err != nil {
		return Object{}, err
	}
	if size < objectHeaderLen {
		return Object{}, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   fmt.Sprintf("object %s size", id.Name()),
			Detail: fmt.Sprintf("declared %d bytes, minimum is %d", size, objectHeaderLen),
			Offset: r.Offset() - 8,
		}
	}
	payload, err := r.Take(int64(size-objectHeaderLen), fmt.Sprintf("object %s payload", id.Name()))
	if err != nil {
		return Object{}, err
	}

	switch id {
	case ContentDescriptionObject:
		cd, err := decodeContentDescription(payload)
		if err != nil {
			return Object{}, err
		}
		return Object{ID: id, Kind: ObjectContentDescription, Content: cd}, nil

	case ExtendedContentDescriptionObject:
		descriptors, err := decodeExtendedContent(payload)
		if err != nil {
			return Object{}, err
		}
		return Object{ID: id, Kind: ObjectExtendedContent, Descriptors: descriptors}, nil

	default:
		return Object{ID: id, Kind: ObjectOpaque, Data: bytes.Clone(payload)}, nil
	}
}

// decodeContentDescription decodes the five length-prefixed UTF-16LE
// slots: five 16-bit lengths first, then the five strings back to back.
func decodeContentDescription(payload []byte) (*ContentDescription, error) {
	r := binary.NewReader(payload)

	var lengths [5]uint16
	for i := range lengths {
		n, err := binary.ReadLE[uint16](r, "content description length")
		if err != nil {
			return nil, err
		}
		lengths[i] = n
	}

	var slots [5]string
	for i, n := range lengths {
		raw, err := r.Take(int64(n), "content description string")
		if err != nil {
			return nil, err
		}
		s, err := textenc.Decode(raw, textenc.UTF16)
		if err != nil {
			return nil, err
		}
		slots[i] = s
	}

	return &ContentDescription{
		Title:       slots[0],
		Author:      slots[1],
		Copyright:   slots[2],
		Description: slots[3],
		Rating:      slots[4],
	}, nil
}

// decodeExtendedContent decodes the descriptor list.
func decodeExtendedContent(payload []byte) ([]Descriptor, error) {
	r := binary.NewReader(payload)

	count, err := binary.ReadLE[uint16](r, "descriptor count")
	if err != nil {
		return nil, err
	}

	descriptors := make([]Descriptor, 0, min(int(count), 64))
	for i := uint16(0); i < count; i++ {
		d, err := decodeDescriptor(r)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// ContentDescription returns the content description child, or nil.
func (t *Tag) ContentDescription() *ContentDescription {
	for i := range t.Objects {
		if t.Objects[i].Kind == ObjectContentDescription {
			return t.Objects[i].Content
		}
	}
	return nil
}

// EnsureContentDescription returns the content description child,
// creating an empty one if the header has none yet.
func (t *Tag) EnsureContentDescription() *ContentDescription {
	if cd := t.ContentDescription(); cd != nil {
		return cd
	}
	t.Objects = append(t.Objects, Object{
		ID:      ContentDescriptionObject,
		Kind:    ObjectContentDescription,
		Content: &ContentDescription{},
	})
	return t.Objects[len(t.Objects)-1].Content
}

// Descriptor returns the first descriptor whose name matches
// case-insensitively across all extended content objects, or nil.
func (t *Tag) Descriptor(name string) *Descriptor {
	for i := range t.Objects {
		if t.Objects[i].Kind != ObjectExtendedContent {
			continue
		}
		for j := range t.Objects[i].Descriptors {
			if strings.EqualFold(t.Objects[i].Descriptors[j].Name, name) {
				return &t.Objects[i].Descriptors[j]
			}
		}
	}
	return nil
}

// DescriptorText returns the text of a matching unicode descriptor, or "".
func (t *Tag) DescriptorText(name string) string {
	if d := t.Descriptor(name); d != nil && d.Type == TypeUnicode {
		return d.Text
	}
	return ""
}

// SetDescriptor replaces the first descriptor with the same name, or
// appends to the first extended content object, creating one if needed.
func (t *Tag) SetDescriptor(d Descriptor) {
	if existing := t.Descriptor(d.Name); existing != nil {
		*existing = d
		return
	}
	for i := range t.Objects {
		if t.Objects[i].Kind == ObjectExtendedContent {
			t.Objects[i].Descriptors = append(t.Objects[i].Descriptors, d)
			return
		}
	}
	t.Objects = append(t.Objects, Object{
		ID:          ExtendedContentDescriptionObject,
		Kind:        ObjectExtendedContent,
		Descriptors: []Descriptor{d},
	})
}

// AddDescriptor appends a descriptor without replacing existing ones
// with the same name. Names like WM/Picture legitimately repeat.
func (t *Tag) AddDescriptor(d Descriptor) {
	for i := range t.Objects {
		if t.Objects[i].Kind == ObjectExtendedContent {
			t.Objects[i].Descriptors = append(t.Objects[i].Descriptors, d)
			return
		}
	}
	t.Objects = append(t.Objects, Object{
		ID:          ExtendedContentDescriptionObject,
		Kind:        ObjectExtendedContent,
		Descriptors: []Descriptor{d},
	})
}

// RemoveDescriptor deletes every descriptor with the given name
// (case-insensitive).
func (t *Tag) RemoveDescriptor(name string) {
	for i := range t.Objects {
		if t.Objects[i].Kind != ObjectExtendedContent {
			continue
		}
		kept := t.Objects[i].Descriptors[:0]
		for _, d := range t.Objects[i].Descriptors {
			if !strings.EqualFold(d.Name, name) {
				kept = append(kept, d)
			}
		}
		t.Objects[i].Descriptors = kept
	}
}
