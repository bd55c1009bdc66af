// Package binary provides bounds-checked binary reading and writing
// primitives for walking tag buffers.
//
// Reader is a forward-only cursor over a byte slice. Every read validates
// the requested length against the remaining bytes before touching the
// slice, so a crafted length field can never cause an out-of-bounds read
// or an allocation proportional to the claimed size.
package binary

import (
	gobinary "encoding/binary"

	"github.com/simonhull/audiotag/internal/types"
)

// Reader walks a byte slice with bounds checking.
//
// Failed reads do not advance the cursor, so a caller can report the
// exact offset of the violation.
type Reader struct {
	data []byte
	off  int
}

// NewReader creates a Reader over data starting at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int64 {
	return int64(r.off)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Fixed reads exactly n bytes of a fixed-size field and advances the
// cursor. A shortfall fails with ErrInsufficientData.
//
// The returned slice aliases the source buffer; callers that retain it
// beyond the parse must clone it.
func (r *Reader) Fixed(n int, what string) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, &types.ParseError{
			Kind:   types.ErrInsufficientData,
			What:   what,
			Offset: int64(r.off),
		}
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Take reads n bytes of a variable-length payload whose length came from
// the input itself, and advances the cursor. A shortfall fails with
// ErrTruncated: the declared length claimed more bytes than the buffer
// holds.
func (r *Reader) Take(n int64, what string) ([]byte, error) {
	if n < 0 || int64(r.Remaining()) < n {
		return nil, &types.ParseError{
			Kind:   types.ErrTruncated,
			What:   what,
			Offset: int64(r.off),
		}
	}
	b := r.data[r.off : r.off+int(n)]
	r.off += int(n)
	return b, nil
}

// Skip advances the cursor past n bytes, failing with ErrTruncated if
// fewer remain.
func (r *Reader) Skip(n int64, what string) error {
	_, err := r.Take(n, what)
	return err
}

// Peek returns up to n upcoming bytes without advancing the cursor.
func (r *Reader) Peek(n int) []byte {
	if r.Remaining() < n {
		n = r.Remaining()
	}
	return r.data[r.off : r.off+n]
}

// Byte reads a single byte.
func (r *Reader) Byte(what string) (byte, error) {
	b, err := r.Fixed(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadLE reads a fixed-width unsigned integer in little-endian byte order
// and advances the cursor.
func ReadLE[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	return readInt[T](r, what, gobinary.LittleEndian)
}

// ReadBE reads a fixed-width unsigned integer in big-endian byte order
// and advances the cursor.
func ReadBE[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	return readInt[T](r, what, gobinary.ByteOrder(gobinary.BigEndian))
}

func readInt[T uint8 | uint16 | uint32 | uint64](r *Reader, what string, order gobinary.ByteOrder) (T, error) {
	var zero T
	buf, err := r.Fixed(intSize[T](), what)
	if err != nil {
		return zero, err
	}

	var val T
	switch any(zero).(type) {
	case uint8:
		val = T(buf[0])
	case uint16:
		val = T(order.Uint16(buf))
	case uint32:
		val = T(order.Uint32(buf))
	case uint64:
		val = T(order.Uint64(buf))
	}
	return val, nil
}

func intSize[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}
