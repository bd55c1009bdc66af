package asf

import (
	"bytes"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/textenc"
	"github.com/simonhull/audiotag/internal/types"
)

// Picture is the decoded form of a WM/Picture descriptor value: picture
// type byte, 4-byte little-endian data length, then null-terminated
// UTF-16LE MIME and description strings, then the image data.
type Picture struct {
	Type        byte // ID3v2 APIC picture-type table
	MIMEType    string
	Description string
	Data        []byte
}

// DecodePicture decodes a WM/Picture descriptor value.
func DecodePicture(value []byte) (Picture, error) {
	r := binary.NewReader(value)

	picType, err := r.Byte("picture type")
	if err != nil {
		return Picture{}, err
	}
	dataLen, err := binary.ReadLE[uint32](r, "picture data length")
	if err != nil {
		return Picture{}, err
	}

	mime, err := readNullTerminatedUTF16(r, "picture MIME type")
	if err != nil {
		return Picture{}, err
	}
	desc, err := readNullTerminatedUTF16(r, "picture description")
	if err != nil {
		return Picture{}, err
	}

	data, err := r.Take(int64(dataLen), "picture data")
	if err != nil {
		return Picture{}, err
	}

	return Picture{
		Type:        picType,
		MIMEType:    mime,
		Description: desc,
		Data:        bytes.Clone(data),
	}, nil
}

// Encode renders the WM/Picture descriptor value.
func (p Picture) Encode() []byte {
	w := binary.NewWriter()
	binary.WriteLE[uint8](w, p.Type)
	binary.WriteLE[uint32](w, uint32(len(p.Data)))
	w.WriteBytes(textenc.EncodeUTF16LE(p.MIMEType))
	w.WriteZeros(2)
	w.WriteBytes(textenc.EncodeUTF16LE(p.Description))
	w.WriteZeros(2)
	w.WriteBytes(p.Data)
	return w.Bytes()
}

// readNullTerminatedUTF16 consumes a UTF-16LE string up to and including
// its double-null terminator.
func readNullTerminatedUTF16(r *binary.Reader, what string) (string, error) {
	rest := r.Peek(r.Remaining())
	idx := textenc.FindTerminator(rest, textenc.UTF16)
	if idx < 0 {
		return "", &types.ParseError{
			Kind:   types.ErrMissingTerminator,
			What:   what,
			Offset: r.Offset(),
		}
	}
	raw, err := r.Take(int64(idx), what)
	if err != nil {
		return "", err
	}
	if err := r.Skip(2, what); err != nil {
		return "", err
	}
	s, err := textenc.Decode(raw, textenc.UTF16)
	if err != nil {
		return "", err
	}
	return s, nil
}
