package id3v2

import (
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/textenc"
	"github.com/simonhull/audiotag/internal/types"
)

// Render serializes the tag. Every length field is computed from the
// actual encoded content; stored sizes are never reused. Frames this
// codec never decoded pass through byte-for-byte.
//
// A tag parsed from v2.3 bytes renders as v2.3 (plain big-endian frame
// sizes), v2.4 as v2.4 (synchsafe). The extended-header and
// unsynchronisation flags are cleared because the output contains
// neither.
func (t *Tag) Render() ([]byte, error) {
	version := t.Version
	if version == 0 {
		version = 4
	}

	frames := binary.NewWriter()
	for i := range t.Frames {
		if err := renderFrame(frames, &t.Frames[i], version); err != nil {
			return nil, err
		}
	}

	sizeField, err := encodeSynchsafe(uint32(frames.Len()))
	if err != nil {
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "ID3v2 tag size",
			Detail: fmt.Sprintf("%d bytes exceeds the synchsafe limit", frames.Len()),
		}
	}

	out := binary.NewWriter()
	out.WriteString("ID3")
	binary.WriteBE[uint8](out, version)
	binary.WriteBE[uint8](out, t.Revision)
	binary.WriteBE[uint8](out, t.Flags&^(flagExtendedHeader|flagUnsynchronisation))
	out.WriteBytes(sizeField)
	out.WriteBytes(frames.Bytes())
	return out.Bytes(), nil
}

func renderFrame(w *binary.Writer, f *Frame, version byte) error {
	payload, err := encodePayload(f, version)
	if err != nil {
		return err
	}

	if !validFrameID(f.ID) {
		return &types.ParseError{
			Kind:   types.ErrInvalidIdentifier,
			What:   "frame ID",
			Detail: fmt.Sprintf("%q", f.ID),
		}
	}
	w.WriteString(f.ID)
	if version == 4 {
		sizeField, err := encodeSynchsafe(uint32(len(payload)))
		if err != nil {
			return &types.ParseError{
				Kind:   types.ErrSizeOverflow,
				What:   fmt.Sprintf("frame %s size", f.ID),
				Detail: fmt.Sprintf("%d bytes exceeds the synchsafe limit", len(payload)),
			}
		}
		w.WriteBytes(sizeField)
	} else {
		binary.WriteBE[uint32](w, uint32(len(payload)))
	}
	binary.WriteBE[uint16](w, f.Flags)
	w.WriteBytes(payload)
	return nil
}

// encodePayload re-encodes a frame value, switching exhaustively over
// the closed kind set.
func encodePayload(f *Frame, version byte) ([]byte, error) {
	w := binary.NewWriter()

	switch f.Kind {
	case FrameText:
		binary.WriteBE[uint8](w, byte(f.Encoding))
		text, err := textenc.Encode(f.Text, f.Encoding)
		if err != nil {
			return nil, err
		}
		w.WriteBytes(text)

	case FrameUserText:
		binary.WriteBE[uint8](w, byte(f.Encoding))
		desc, err := textenc.Encode(f.Description, f.Encoding)
		if err != nil {
			return nil, err
		}
		w.WriteBytes(desc)
		w.WriteBytes(f.Encoding.Terminator())
		text, err := textenc.Encode(f.Text, f.Encoding)
		if err != nil {
			return nil, err
		}
		w.WriteBytes(text)

	case FrameComment:
		binary.WriteBE[uint8](w, byte(f.Encoding))
		lang := f.Language
		if len(lang) != 3 {
			lang = "XXX"
		}
		w.WriteString(lang)
		desc, err := textenc.Encode(f.Description, f.Encoding)
		if err != nil {
			return nil, err
		}
		w.WriteBytes(desc)
		w.WriteBytes(f.Encoding.Terminator())
		text, err := textenc.Encode(f.Text, f.Encoding)
		if err != nil {
			return nil, err
		}
		w.WriteBytes(text)

	case FrameChapter:
		elem, err := textenc.Encode(f.ElementID, textenc.Latin1)
		if err != nil {
			return nil, err
		}
		w.WriteBytes(elem)
		w.WriteZeros(1)
		binary.WriteBE[uint32](w, f.StartMS)
		binary.WriteBE[uint32](w, f.EndMS)
		binary.WriteBE[uint32](w, f.StartOffset)
		binary.WriteBE[uint32](w, f.EndOffset)
		for i := range f.SubFrames {
			if err := renderFrame(w, &f.SubFrames[i], version); err != nil {
				return nil, err
			}
		}

	case FramePicture:
		binary.WriteBE[uint8](w, byte(f.Encoding))
		w.WriteString(f.MIMEType)
		w.WriteZeros(1)
		binary.WriteBE[uint8](w, f.PictureType)
		desc, err := textenc.Encode(f.Description, f.Encoding)
		if err != nil {
			return nil, err
		}
		w.WriteBytes(desc)
		w.WriteBytes(f.Encoding.Terminator())
		w.WriteBytes(f.Data)

	case FrameBinary:
		w.WriteBytes(f.Data)

	default:
		return nil, &types.ParseError{
			Kind:   types.ErrInvalidIdentifier,
			What:   "frame kind",
			Detail: fmt.Sprintf("unknown kind %d", f.Kind),
		}
	}

	return w.Bytes(), nil
}
