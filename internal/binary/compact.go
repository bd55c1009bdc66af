package binary

// Compact integers are stored as the minimal number of big-endian bytes
// that represent the value: 0x00 is one byte 0x00 only when explicitly
// present, and a zero-length encoding means "absent" and decodes to 0.
// Widths above 8 bytes are rejected.

import (
	"github.com/simonhull/audiotag/internal/types"
)

// ParseCompact decodes a minimal-byte big-endian integer, accumulating
// bytes most-significant-first. An empty slice decodes to 0.
func ParseCompact(b []byte, what string) (uint64, error) {
	if len(b) > 8 {
		return 0, &types.ParseError{
			Kind: types.ErrSizeOverflow,
			What: what,
		}
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// RenderCompact encodes v as the smallest number of big-endian bytes that
// represent it. Zero encodes as no bytes at all.
func RenderCompact(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var tmp [8]byte
	i := 8
	for v > 0 {
		i--
		tmp[i] = byte(v)
		v >>= 8
	}
	return append([]byte(nil), tmp[i:]...)
}
