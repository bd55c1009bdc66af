package asf

import (
	"bytes"
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/textenc"
	"github.com/simonhull/audiotag/internal/types"
)

// DataType is the value kind of an extended content descriptor. The set
// is closed; decode and render switch over it exhaustively.
type DataType uint16

const (
	// TypeUnicode is a UTF-16LE string with a trailing double-null.
	TypeUnicode DataType = 0
	// TypeBytes is opaque binary data.
	TypeBytes DataType = 1
	// TypeBool is a 4-byte little-endian integer; zero is false, any
	// non-zero is true, and rendering always emits exactly 0 or 1.
	TypeBool DataType = 2
	// TypeDword is a 4-byte little-endian integer.
	TypeDword DataType = 3
	// TypeQword is an 8-byte little-endian integer.
	TypeQword DataType = 4
	// TypeWord is a 2-byte little-endian integer.
	TypeWord DataType = 5
)

// String returns the descriptor type name.
func (t DataType) String() string {
	switch t {
	case TypeUnicode:
		return "unicode"
	case TypeBytes:
		return "bytes"
	case TypeBool:
		return "bool"
	case TypeDword:
		return "dword"
	case TypeQword:
		return "qword"
	case TypeWord:
		return "word"
	default:
		return "invalid"
	}
}

// Descriptor is one name/value pair of an Extended Content Description
// object. Type selects which value field is meaningful.
type Descriptor struct {
	Name string
	Type DataType

	Text string // TypeUnicode
	Data []byte // TypeBytes
	Bool bool   // TypeBool
	Uint uint64 // TypeDword, TypeQword, TypeWord
}

// NewTextDescriptor builds a unicode descriptor.
func NewTextDescriptor(name, text string) Descriptor {
	return Descriptor{Name: name, Type: TypeUnicode, Text: text}
}

// NewUintDescriptor builds a dword descriptor.
func NewUintDescriptor(name string, v uint32) Descriptor {
	return Descriptor{Name: name, Type: TypeDword, Uint: uint64(v)}
}

// Value returns a printable form of the value for dumps.
func (d *Descriptor) Value() string {
	switch d.Type {
	case TypeUnicode:
		return d.Text
	case TypeBytes:
		return fmt.Sprintf("<%d bytes>", len(d.Data))
	case TypeBool:
		return fmt.Sprintf("%t", d.Bool)
	case TypeDword, TypeQword, TypeWord:
		return fmt.Sprintf("%d", d.Uint)
	default:
		return "<invalid>"
	}
}

// decodeDescriptor extracts one descriptor at the reader's cursor:
// name length, UTF-16LE name, type, value length, value.
func decodeDescriptor(r *binary.Reader) (Descriptor, error) {
	nameLen, err := binary.ReadLE[uint16](r, "descriptor name length")
	if err != nil {
		return Descriptor{}, err
	}
	nameBytes, err := r.Take(int64(nameLen), "descriptor name")
	if err != nil {
		return Descriptor{}, err
	}
	name, err := textenc.Decode(nameBytes, textenc.UTF16)
	if err != nil {
		return Descriptor{}, err
	}

	typeField, err := binary.ReadLE[uint16](r, "descriptor type")
	if err != nil {
		return Descriptor{}, err
	}
	if typeField > uint16(TypeWord) {
		return Descriptor{}, &types.ParseError{
			Kind:   types.ErrInvalidEncoding,
			What:   "descriptor type",
			Detail: fmt.Sprintf("unknown type %d", typeField),
			Offset: r.Offset() - 2,
		}
	}

	valueLen, err := binary.ReadLE[uint16](r, "descriptor value length")
	if err != nil {
		return Descriptor{}, err
	}
	value, err := r.Take(int64(valueLen), fmt.Sprintf("descriptor %q value", name))
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{Name: name, Type: DataType(typeField)}
	switch d.Type {
	case TypeUnicode:
		if d.Text, err = textenc.Decode(value, textenc.UTF16); err != nil {
			return Descriptor{}, err
		}
	case TypeBytes:
		d.Data = bytes.Clone(value)
	case TypeBool:
		// Stored as a 4-byte integer; tolerate the 2-byte variant some
		// producers emit.
		for _, b := range value {
			if b != 0 {
				d.Bool = true
				break
			}
		}
	case TypeDword, TypeQword, TypeWord:
		width := map[DataType]int{TypeDword: 4, TypeQword: 8, TypeWord: 2}[d.Type]
		if len(value) < width {
			return Descriptor{}, &types.ParseError{
				Kind:   types.ErrTruncated,
				What:   fmt.Sprintf("descriptor %q integer value", name),
				Detail: fmt.Sprintf("%d bytes, need %d", len(value), width),
			}
		}
		for i := width - 1; i >= 0; i-- {
			d.Uint = d.Uint<<8 | uint64(value[i])
		}
	}
	return d, nil
}

// encodeDescriptor appends the wire form of d. Name and value lengths are
// 16-bit fields; content that can't fit fails with SizeOverflow.
func encodeDescriptor(w *binary.Writer, d *Descriptor) error {
	name := append(textenc.EncodeUTF16LE(d.Name), 0, 0)
	if len(name) > 0xFFFF {
		return &types.ParseError{
			Kind: types.ErrSizeOverflow,
			What: "descriptor name length",
		}
	}

	var value []byte
	switch d.Type {
	case TypeUnicode:
		value = append(textenc.EncodeUTF16LE(d.Text), 0, 0)
	case TypeBytes:
		value = d.Data
	case TypeBool:
		value = make([]byte, 4)
		if d.Bool {
			value[0] = 1
		}
	case TypeDword:
		value = leBytes(d.Uint, 4)
	case TypeQword:
		value = leBytes(d.Uint, 8)
	case TypeWord:
		value = leBytes(d.Uint, 2)
	default:
		return &types.ParseError{
			Kind:   types.ErrInvalidEncoding,
			What:   "descriptor type",
			Detail: fmt.Sprintf("unknown type %d", d.Type),
		}
	}
	if len(value) > 0xFFFF {
		return &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   fmt.Sprintf("descriptor %q value length", d.Name),
		}
	}

	binary.WriteLE[uint16](w, uint16(len(name)))
	w.WriteBytes(name)
	binary.WriteLE[uint16](w, uint16(d.Type))
	binary.WriteLE[uint16](w, uint16(len(value)))
	w.WriteBytes(value)
	return nil
}

func leBytes(v uint64, width int) []byte {
	b := make([]byte, width)
	for i := 0; i < width; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}
