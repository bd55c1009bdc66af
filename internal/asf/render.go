package asf

import (
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/textenc"
	"github.com/simonhull/audiotag/internal/types"
)

// Render serializes the Header Object. Every size field is computed from
// the actual encoded children; opaque objects are reproduced
// byte-for-byte in their original order. An empty tag renders to the
// documented 30-byte minimum header.
func (t *Tag) Render() ([]byte, error) {
	children := binary.NewWriter()
	for i := range t.Objects {
		if err := renderObject(children, &t.Objects[i]); err != nil {
			return nil, err
		}
	}

	out := binary.NewWriter()
	out.WriteBytes(HeaderObject.Bytes())
	binary.WriteLE[uint64](out, uint64(headerLen+children.Len()))
	binary.WriteLE[uint32](out, uint32(len(t.Objects)))
	// Reserved bytes; their conventional values.
	out.WriteBytes([]byte{0x01, 0x02})
	out.WriteBytes(children.Bytes())
	return out.Bytes(), nil
}

func renderObject(w *binary.Writer, obj *Object) error {
	payload, err := encodeObjectPayload(obj)
	if err != nil {
		return err
	}
	w.WriteBytes(obj.ID.Bytes())
	binary.WriteLE[uint64](w, uint64(objectHeaderLen+len(payload)))
	w.WriteBytes(payload)
	return nil
}

// encodeObjectPayload re-encodes a child's payload, switching
// exhaustively over the closed kind set.
func encodeObjectPayload(obj *Object) ([]byte, error) {
	w := binary.NewWriter()

	switch obj.Kind {
	case ObjectContentDescription:
		cd := obj.Content
		if cd == nil {
			cd = &ContentDescription{}
		}
		slots := [5]string{cd.Title, cd.Author, cd.Copyright, cd.Description, cd.Rating}
		var encoded [5][]byte
		for i, s := range slots {
			// Each slot is UTF-16LE with a trailing double-null,
			// counted by its length field.
			encoded[i] = append(textenc.EncodeUTF16LE(s), 0, 0)
			if len(encoded[i]) > 0xFFFF {
				return nil, &types.ParseError{
					Kind: types.ErrSizeOverflow,
					What: "content description string length",
				}
			}
			binary.WriteLE[uint16](w, uint16(len(encoded[i])))
		}
		for _, b := range encoded {
			w.WriteBytes(b)
		}

	case ObjectExtendedContent:
		if len(obj.Descriptors) > 0xFFFF {
			return nil, &types.ParseError{
				Kind: types.ErrSizeOverflow,
				What: "descriptor count",
			}
		}
		binary.WriteLE[uint16](w, uint16(len(obj.Descriptors)))
		for i := range obj.Descriptors {
			if err := encodeDescriptor(w, &obj.Descriptors[i]); err != nil {
				return nil, err
			}
		}

	case ObjectOpaque:
		w.WriteBytes(obj.Data)

	default:
		return nil, &types.ParseError{
			Kind:   types.ErrInvalidIdentifier,
			What:   "object kind",
			Detail: fmt.Sprintf("unknown kind %d", obj.Kind),
		}
	}

	return w.Bytes(), nil
}
