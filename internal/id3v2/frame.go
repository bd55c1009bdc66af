package id3v2

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/simonhull/audiotag/internal/textenc"
	"github.com/simonhull/audiotag/internal/types"
)

// FrameKind classifies how a frame's payload is decoded. The set is
// closed: decode and render switch over it exhaustively.
type FrameKind int

const (
	// FrameText is a standard text frame (T*** except TXXX):
	// [encoding][text].
	FrameText FrameKind = iota

	// FrameUserText is a TXXX frame: [encoding][description\0][value].
	FrameUserText

	// FrameComment is a COMM or USLT frame:
	// [encoding][language(3)][description\0][text].
	FrameComment

	// FrameChapter is a CHAP frame: [element_id\0][start_ms(4)][end_ms(4)]
	// [start_offset(4)][end_offset(4)][embedded subframes...].
	FrameChapter

	// FramePicture is an APIC frame:
	// [encoding][mime\0][picture_type][description\0][image data].
	FramePicture

	// FrameBinary is any frame this codec does not decode; the payload
	// passes through byte-for-byte on render.
	FrameBinary
)

// Frame is a single ID3v2 frame. Kind selects which value fields are
// meaningful; the rest stay at their zero values.
type Frame struct {
	ID    string // 4-character frame ID ("TIT2", "CHAP", ...)
	Flags uint16

	Kind     FrameKind
	Encoding textenc.Encoding

	Text        string // FrameText, FrameUserText, FrameComment
	Description string // FrameUserText, FramePicture; COMM short description
	Language    string // FrameComment, 3 ASCII letters

	// FrameChapter fields
	ElementID   string
	StartMS     uint32
	EndMS       uint32
	StartOffset uint32
	EndOffset   uint32
	SubFrames   []Frame

	// FramePicture fields
	MIMEType    string
	PictureType byte

	// FrameBinary payload; also the APIC image data.
	Data []byte
}

// validFrameID reports whether id is 4 uppercase letters or digits.
func validFrameID(id string) bool {
	if len(id) != 4 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// classify maps a frame ID to its payload kind.
func classify(id string) FrameKind {
	switch {
	case id == "TXXX":
		return FrameUserText
	case id == "COMM", id == "USLT":
		return FrameComment
	case id == "CHAP":
		return FrameChapter
	case id == "APIC":
		return FramePicture
	case strings.HasPrefix(id, "T"):
		return FrameText
	default:
		return FrameBinary
	}
}

// decodeFrame decodes payload into exactly one frame value per the ID's
// kind. version is the tag's major version (3 or 4); it only matters for
// embedded subframe sizes.
func decodeFrame(id string, flags uint16, payload []byte, version byte) (Frame, error) {
	f := Frame{ID: id, Flags: flags, Kind: classify(id)}

	switch f.Kind {
	case FrameText:
		if len(payload) < 1 {
			return f, &types.ParseError{
				Kind: types.ErrInsufficientData,
				What: fmt.Sprintf("frame %s encoding byte", id),
			}
		}
		enc, err := textenc.FromByte(payload[0])
		if err != nil {
			return f, err
		}
		text, err := textenc.Decode(payload[1:], enc)
		if err != nil {
			return f, err
		}
		f.Encoding = enc
		f.Text = text

	case FrameUserText:
		enc, desc, rest, err := decodeDescribed(id, payload)
		if err != nil {
			return f, err
		}
		value, err := textenc.Decode(rest, enc)
		if err != nil {
			return f, err
		}
		f.Encoding = enc
		f.Description = desc
		f.Text = value

	case FrameComment:
		if len(payload) < 4 {
			return f, &types.ParseError{
				Kind: types.ErrInsufficientData,
				What: fmt.Sprintf("frame %s header", id),
			}
		}
		enc, err := textenc.FromByte(payload[0])
		if err != nil {
			return f, err
		}
		f.Encoding = enc
		f.Language = string(payload[1:4])
		data := payload[4:]
		// Producers routinely omit the short-description terminator;
		// treat the whole payload as comment text in that case.
		if idx := textenc.FindTerminator(data, enc); idx >= 0 {
			desc, err := textenc.Decode(data[:idx], enc)
			if err != nil {
				return f, err
			}
			f.Description = desc
			data = data[idx+enc.TerminatorSize():]
		}
		text, err := textenc.Decode(data, enc)
		if err != nil {
			return f, err
		}
		f.Text = text

	case FrameChapter:
		return decodeChapter(id, flags, payload, version)

	case FramePicture:
		return decodePicture(id, flags, payload)

	case FrameBinary:
		f.Data = bytes.Clone(payload)
	}

	return f, nil
}

// decodeDescribed handles the shared [encoding][description\0] prefix of
// TXXX and similar frames, returning the remaining payload.
func decodeDescribed(id string, payload []byte) (textenc.Encoding, string, []byte, error) {
	if len(payload) < 1 {
		return 0, "", nil, &types.ParseError{
			Kind: types.ErrInsufficientData,
			What: fmt.Sprintf("frame %s encoding byte", id),
		}
	}
	enc, err := textenc.FromByte(payload[0])
	if err != nil {
		return 0, "", nil, err
	}
	data := payload[1:]
	idx := textenc.FindTerminator(data, enc)
	if idx < 0 {
		return 0, "", nil, &types.ParseError{
			Kind: types.ErrMissingTerminator,
			What: fmt.Sprintf("frame %s description", id),
		}
	}
	desc, err := textenc.Decode(data[:idx], enc)
	if err != nil {
		return 0, "", nil, err
	}
	return enc, desc, data[idx+enc.TerminatorSize():], nil
}

// decodeChapter decodes a CHAP frame. The embedded subframe scan is
// bounded to the payload and stops silently on the first child that does
// not look like a frame; a malformed trailing child must not invalidate
// the chapter itself.
func decodeChapter(id string, flags uint16, payload []byte, version byte) (Frame, error) {
	f := Frame{ID: id, Flags: flags, Kind: FrameChapter}

	idx := bytes.IndexByte(payload, 0)
	if idx < 0 {
		return f, &types.ParseError{
			Kind: types.ErrMissingTerminator,
			What: "CHAP element ID",
		}
	}
	elementID, err := textenc.Decode(payload[:idx], textenc.Latin1)
	if err != nil {
		return f, err
	}
	f.ElementID = elementID

	rest := payload[idx+1:]
	if len(rest) < 16 {
		return f, &types.ParseError{
			Kind: types.ErrInsufficientData,
			What: "CHAP time fields",
		}
	}
	f.StartMS = beUint32(rest[0:4])
	f.EndMS = beUint32(rest[4:8])
	f.StartOffset = beUint32(rest[8:12])
	f.EndOffset = beUint32(rest[12:16])

	sub := rest[16:]
	for len(sub) >= frameHeaderLen {
		subID := string(sub[0:4])
		if !validFrameID(subID) {
			break
		}
		size := frameSize(sub[4:8], version)
		if int64(frameHeaderLen)+int64(size) > int64(len(sub)) {
			break
		}
		subFlags := beUint16(sub[8:10])
		child, err := decodeFrame(subID, subFlags, sub[frameHeaderLen:frameHeaderLen+int(size)], version)
		if err != nil {
			break
		}
		f.SubFrames = append(f.SubFrames, child)
		sub = sub[frameHeaderLen+int(size):]
	}

	return f, nil
}

// decodePicture decodes an APIC frame.
func decodePicture(id string, flags uint16, payload []byte) (Frame, error) {
	f := Frame{ID: id, Flags: flags, Kind: FramePicture}

	if len(payload) < 1 {
		return f, &types.ParseError{
			Kind: types.ErrInsufficientData,
			What: "APIC encoding byte",
		}
	}
	enc, err := textenc.FromByte(payload[0])
	if err != nil {
		return f, err
	}
	f.Encoding = enc

	data := payload[1:]
	// MIME type is always Latin-1 with a single-byte terminator.
	idx := bytes.IndexByte(data, 0)
	if idx < 0 {
		return f, &types.ParseError{
			Kind: types.ErrMissingTerminator,
			What: "APIC MIME type",
		}
	}
	f.MIMEType = string(data[:idx])
	data = data[idx+1:]

	if len(data) < 1 {
		return f, &types.ParseError{
			Kind: types.ErrInsufficientData,
			What: "APIC picture type",
		}
	}
	f.PictureType = data[0]
	data = data[1:]

	idx = textenc.FindTerminator(data, enc)
	if idx < 0 {
		return f, &types.ParseError{
			Kind: types.ErrMissingTerminator,
			What: "APIC description",
		}
	}
	desc, err := textenc.Decode(data[:idx], enc)
	if err != nil {
		return f, err
	}
	f.Description = desc
	f.Data = bytes.Clone(data[idx+enc.TerminatorSize():])

	return f, nil
}

// Title returns the chapter title carried by a TIT2 subframe, falling
// back to the element ID.
func (f *Frame) Title() string {
	for i := range f.SubFrames {
		if f.SubFrames[i].ID == "TIT2" {
			return f.SubFrames[i].Text
		}
	}
	return f.ElementID
}

func beUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// frameSize interprets a frame size field for the given major version:
// synchsafe in v2.4, plain big-endian in v2.3.
func frameSize(b []byte, version byte) uint32 {
	if version == 4 {
		return decodeSynchsafe(b)
	}
	return beUint32(b)
}
