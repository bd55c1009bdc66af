// Package id3v2 implements the ID3v2.3/ID3v2.4 tag codec.
//
// The codec's boundary is Parse (bytes to *Tag) and Tag.Render (*Tag to
// bytes). A Tag is an ordered frame sequence; frames the codec does not
// understand are preserved byte-for-byte so a partially understood tag
// re-renders without losing anything.
//
// The continuation policy on a bad frame is lenient by default: parsing
// stops at the first malformed frame and returns everything decoded
// before it, with a warning. Pass types.ParseStrict to abort instead.
package id3v2

import (
	"fmt"
	"strings"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/textenc"
	"github.com/simonhull/audiotag/internal/types"
)

const (
	// headerLen is the fixed ID3v2 tag header size.
	headerLen = 10
	// frameHeaderLen is the fixed frame header size (v2.3/v2.4).
	frameHeaderLen = 10

	flagUnsynchronisation = 0x80
	flagExtendedHeader    = 0x40
)

// DefaultPolicy is the documented continuation policy for ID3v2:
// lenient, keep whatever was decoded before a bad frame.
const DefaultPolicy = types.ParseLenient

// Tag is a parsed ID3v2 container: header fields plus an ordered frame
// sequence. Frame order is preserved for round-trip stability.
type Tag struct {
	Version  byte // major version, 3 or 4
	Revision byte
	Flags    byte
	Frames   []Frame

	// Warnings collected during a lenient parse.
	Warnings []types.Warning
}

// New returns an empty ID3v2.4 tag.
func New() *Tag {
	return &Tag{Version: 4}
}

// Parse decodes an ID3v2 tag using the format's default lenient policy.
func Parse(data []byte) (*Tag, error) {
	return ParseWithPolicy(data, DefaultPolicy)
}

// ParseWithPolicy decodes an ID3v2 tag from data.
//
// The buffer must start at the "ID3" magic and contain at least the
// declared tag size. Header-level failures (bad magic, unsupported
// version, declared size past the buffer) abort under either policy;
// the policy only governs failures of individual frames.
func ParseWithPolicy(data []byte, policy types.ParsePolicy) (*Tag, error) {
	r := binary.NewReader(data)

	magic, err := r.Fixed(3, "ID3v2 magic")
	if err != nil {
		return nil, err
	}
	if string(magic) != "ID3" {
		return nil, &types.ParseError{
			Kind: types.ErrInvalidMagic,
			What: "ID3v2 magic",
		}
	}

	hdr, err := r.Fixed(7, "ID3v2 header")
	if err != nil {
		return nil, err
	}
	tag := &Tag{
		Version:  hdr[0],
		Revision: hdr[1],
		Flags:    hdr[2],
	}
	if tag.Version != 3 && tag.Version != 4 {
		return nil, &types.ParseError{
			Kind:   types.ErrInvalidMagic,
			What:   "ID3v2 version",
			Detail: fmt.Sprintf("unsupported version 2.%d", tag.Version),
			Offset: 3,
		}
	}

	size := decodeSynchsafe(hdr[3:7])
	if int64(headerLen)+int64(size) > int64(len(data)) {
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "ID3v2 tag size",
			Detail: fmt.Sprintf("declared %d bytes, buffer has %d", size, len(data)-headerLen),
			Offset: 6,
		}
	}

	body := data[headerLen : headerLen+int(size)]
	if tag.Flags&flagUnsynchronisation != 0 {
		tag.Warnings = append(tag.Warnings, types.Warning{
			Stage:   "tag",
			Message: "unsynchronised tag: frame data decoded as stored",
		})
	}
	body = skipExtendedHeader(body, tag)

	if err := tag.parseFrames(body, policy); err != nil {
		return nil, err
	}
	return tag, nil
}

// skipExtendedHeader drops the extended header from body if the tag
// flags announce one. The extended header carries nothing this codec
// uses; it is not reproduced on render.
func skipExtendedHeader(body []byte, tag *Tag) []byte {
	if tag.Flags&flagExtendedHeader == 0 || len(body) < 4 {
		return body
	}
	var skip int64
	if tag.Version == 4 {
		// v2.4: synchsafe size including the size field itself.
		skip = int64(decodeSynchsafe(body[0:4]))
	} else {
		// v2.3: plain size excluding the 4 size bytes.
		skip = int64(beUint32(body[0:4])) + 4
	}
	if skip < 4 || skip > int64(len(body)) {
		tag.Warnings = append(tag.Warnings, types.Warning{
			Stage:   "tag",
			Message: "extended header size out of range, ignoring",
		})
		return body
	}
	return body[skip:]
}

func (t *Tag) parseFrames(body []byte, policy types.ParsePolicy) error {
	r := binary.NewReader(body)

	for r.Remaining() >= frameHeaderLen {
		// A zero byte where a frame ID should start means padding.
		if r.Peek(1)[0] == 0 {
			break
		}
		start := r.Offset()

		idBytes, _ := r.Fixed(4, "frame ID")
		id := string(idBytes)
		if !validFrameID(id) {
			if policy == types.ParseStrict {
				return &types.ParseError{
					Kind:   types.ErrInvalidIdentifier,
					What:   "frame ID",
					Detail: fmt.Sprintf("%q", id),
					Offset: start,
				}
			}
			t.Warnings = append(t.Warnings, types.Warning{
				Stage:   "records",
				Message: fmt.Sprintf("invalid frame ID %q, stopping", id),
				Offset:  start,
			})
			return nil
		}

		sizeBytes, _ := r.Fixed(4, "frame size")
		size := frameSize(sizeBytes, t.Version)
		flags, _ := binary.ReadBE[uint16](r, "frame flags")

		payload, err := r.Take(int64(size), fmt.Sprintf("frame %s payload", id))
		if err == nil {
			var frame Frame
			frame, err = decodeFrame(id, flags, payload, t.Version)
			if err == nil {
				t.Frames = append(t.Frames, frame)
				continue
			}
		}

		if policy == types.ParseStrict {
			return err
		}
		t.Warnings = append(t.Warnings, types.Warning{
			Stage:   "records",
			Message: fmt.Sprintf("frame %s: %v, stopping", id, err),
			Offset:  start,
		})
		return nil
	}
	return nil
}

// Frame returns the first frame with the given ID, or nil. Frame IDs are
// stored uppercase; lookup is case-insensitive anyway to match the other
// formats' lookup rules.
func (t *Tag) Frame(id string) *Frame {
	for i := range t.Frames {
		if strings.EqualFold(t.Frames[i].ID, id) {
			return &t.Frames[i]
		}
	}
	return nil
}

// Text returns the decoded text of the first matching text frame, or "".
func (t *Tag) Text(id string) string {
	if f := t.Frame(id); f != nil {
		return f.Text
	}
	return ""
}

// SetText replaces the text of the first matching frame, or appends a new
// text frame using the narrowest lossless encoding.
func (t *Tag) SetText(id, text string) {
	if f := t.Frame(id); f != nil && (f.Kind == FrameText || f.Kind == FrameUserText || f.Kind == FrameComment) {
		f.Text = text
		f.Encoding = textenc.ChooseFor(text)
		return
	}
	t.Frames = append(t.Frames, Frame{
		ID:       strings.ToUpper(id),
		Kind:     classify(strings.ToUpper(id)),
		Encoding: textenc.ChooseFor(text),
		Text:     text,
	})
}

// SetFrame replaces the first frame with the same ID, or appends.
func (t *Tag) SetFrame(f Frame) {
	if existing := t.Frame(f.ID); existing != nil {
		*existing = f
		return
	}
	t.Frames = append(t.Frames, f)
}

// Remove deletes every frame with the given ID (case-insensitive).
func (t *Tag) Remove(id string) {
	kept := t.Frames[:0]
	for _, f := range t.Frames {
		if !strings.EqualFold(f.ID, id) {
			kept = append(kept, f)
		}
	}
	t.Frames = kept
}
