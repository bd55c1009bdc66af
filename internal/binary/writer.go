package binary

import (
	"bytes"
	gobinary "encoding/binary"
)

// Writer accumulates tag bytes during rendering.
//
// Writes cannot fail; renderers compute lengths from what was actually
// written (Len), never from stored sizes.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// WriteString appends a string as raw bytes.
func (w *Writer) WriteString(s string) {
	w.buf.WriteString(s)
}

// WriteZeros appends n zero bytes.
func (w *Writer) WriteZeros(n int) {
	w.buf.Write(make([]byte, n))
}

// WriteLE appends a fixed-width unsigned integer in little-endian byte order.
func WriteLE[T uint8 | uint16 | uint32 | uint64](w *Writer, val T) {
	writeInt(w, val, gobinary.ByteOrder(gobinary.LittleEndian))
}

// WriteBE appends a fixed-width unsigned integer in big-endian byte order.
func WriteBE[T uint8 | uint16 | uint32 | uint64](w *Writer, val T) {
	writeInt(w, val, gobinary.ByteOrder(gobinary.BigEndian))
}

func writeInt[T uint8 | uint16 | uint32 | uint64](w *Writer, val T, order gobinary.ByteOrder) {
	switch v := any(val).(type) {
	case uint8:
		w.buf.WriteByte(v)
	case uint16:
		buf := make([]byte, 2)
		order.PutUint16(buf, v)
		w.buf.Write(buf)
	case uint32:
		buf := make([]byte, 4)
		order.PutUint32(buf, v)
		w.buf.Write(buf)
	case uint64:
		buf := make([]byte, 8)
		order.PutUint64(buf, v)
		w.buf.Write(buf)
	}
}
