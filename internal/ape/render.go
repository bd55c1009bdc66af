package ape

import (
	"github.com/simonhull/audiotag/internal/binary"
)

// Render serializes the tag. The size and item-count fields of both
// blocks are computed from the actual encoded items, never copied from a
// parsed header. An empty tag renders to the documented minimum of 64
// bytes (header plus footer).
func (t *Tag) Render() ([]byte, error) {
	items := binary.NewWriter()
	for i := range t.Items {
		if err := renderItem(items, &t.Items[i]); err != nil {
			return nil, err
		}
	}

	version := t.Version
	if version == 0 {
		version = Version2
	}
	// Tag size excludes the header block.
	size := uint32(items.Len() + BlockLen)
	count := uint32(len(t.Items))

	out := binary.NewWriter()
	footerFlags := uint32(0)
	if t.HasHeader {
		writeBlock(out, version, size, count, FlagHasHeader|flagIsHeader)
		footerFlags = FlagHasHeader
	}
	out.WriteBytes(items.Bytes())
	writeBlock(out, version, size, count, footerFlags)
	return out.Bytes(), nil
}

func renderItem(w *binary.Writer, item *Item) error {
	value, err := item.valueBytes()
	if err != nil {
		return err
	}
	if err := ValidateKey(item.Key); err != nil {
		return err
	}

	flags := uint32(item.Type) << 1
	if item.ReadOnly {
		flags |= flagReadOnly
	}

	binary.WriteLE[uint32](w, uint32(len(value)))
	binary.WriteLE[uint32](w, flags)
	w.WriteString(item.Key)
	w.WriteZeros(1)
	w.WriteBytes(value)
	return nil
}

func writeBlock(w *binary.Writer, version, size, count, flags uint32) {
	w.WriteString(Magic)
	binary.WriteLE[uint32](w, version)
	binary.WriteLE[uint32](w, size)
	binary.WriteLE[uint32](w, count)
	binary.WriteLE[uint32](w, flags)
	w.WriteZeros(8)
}
