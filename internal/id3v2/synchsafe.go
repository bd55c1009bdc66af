package id3v2

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Synchsafe integers keep the top bit of every byte zero so a size field
// can never be mistaken for an MPEG sync marker: 4 bytes, 7 significant
// bits each, most-significant byte first, 28 usable bits.

// maxSynchsafe is the largest value a synchsafe integer can hold.
const maxSynchsafe = 1<<28 - 1

// decodeSynchsafe decodes a 4-byte synchsafe integer, masking the top bit
// of each byte.
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// encodeSynchsafe encodes v as a 4-byte synchsafe integer. Values that
// need more than 28 bits cannot be represented and fail.
func encodeSynchsafe(v uint32) ([]byte, error) {
	if v > maxSynchsafe {
		return nil, &types.ParseError{
			Kind: types.ErrSizeOverflow,
			What: "synchsafe integer",
		}
	}
	return []byte{
		byte(v >> 21 & 0x7F),
		byte(v >> 14 & 0x7F),
		byte(v >> 7 & 0x7F),
		byte(v & 0x7F),
	}, nil
}
