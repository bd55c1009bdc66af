// Package textenc implements the text encodings used by tag records:
// Latin-1 (ISO-8859-1), UTF-8, UTF-16 with byte-order mark, and UTF-16
// big-endian without mark.
//
// The encoding determines the terminator width (one zero byte for
// single-byte encodings, two for double-byte) and whether a leading mark
// is sniffed to pick the decode endianness. A missing mark falls back to
// little-endian decoding; plenty of producers omit the mark and those
// files are overwhelmingly little-endian.
package textenc

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/audiotag/internal/types"
)

// Encoding identifies a text encoding. The numeric values are the ID3v2
// encoding byte values, which the other formats never serialize.
type Encoding byte

const (
	// Latin1 is ISO-8859-1, one byte per character.
	Latin1 Encoding = 0
	// UTF16 is UTF-16 with a leading byte-order mark.
	UTF16 Encoding = 1
	// UTF16BE is UTF-16 big-endian without a mark.
	UTF16BE Encoding = 2
	// UTF8 is UTF-8.
	UTF8 Encoding = 3
)

// FromByte validates a serialized encoding tag. Values outside the
// recognized set fail with ErrInvalidEncoding before any decode is
// attempted.
func FromByte(b byte) (Encoding, error) {
	if b > byte(UTF8) {
		return 0, &types.ParseError{
			Kind: types.ErrInvalidEncoding,
			What: "text encoding tag",
		}
	}
	return Encoding(b), nil
}

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case Latin1:
		return "ISO-8859-1"
	case UTF16:
		return "UTF-16"
	case UTF16BE:
		return "UTF-16BE"
	case UTF8:
		return "UTF-8"
	default:
		return "invalid"
	}
}

// TerminatorSize returns the width of the null terminator for the
// encoding: one byte for single-byte encodings, two for double-byte.
func (e Encoding) TerminatorSize() int {
	switch e {
	case UTF16, UTF16BE:
		return 2
	default:
		return 1
	}
}

// Terminator returns the terminator bytes for the encoding.
func (e Encoding) Terminator() []byte {
	return make([]byte, e.TerminatorSize())
}

// Decode decodes raw bytes in the given encoding.
//
// At most one trailing terminator is stripped if present. For UTF16 a
// leading mark is sniffed and skipped; without a mark the bytes are
// decoded little-endian.
func Decode(data []byte, e Encoding) (string, error) {
	switch e {
	case Latin1:
		data = stripTerminator(data, 1)
		if isASCII(data) {
			return string(data), nil
		}
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(decoded), nil

	case UTF8:
		return string(stripTerminator(data, 1)), nil

	case UTF16:
		data = stripTerminator(data, 2)
		if len(data) >= 2 {
			switch {
			case data[0] == 0xFF && data[1] == 0xFE:
				return decodeUTF16(data[2:], false), nil
			case data[0] == 0xFE && data[1] == 0xFF:
				return decodeUTF16(data[2:], true), nil
			}
		}
		return decodeUTF16(data, false), nil

	case UTF16BE:
		return decodeUTF16(stripTerminator(data, 2), true), nil

	default:
		return "", &types.ParseError{
			Kind: types.ErrInvalidEncoding,
			What: "text encoding tag",
		}
	}
}

// Encode encodes s in the given encoding, without a terminator.
// Terminator emission is a record-level decision, not a codec-level one.
//
// The UTF16 variant emits a little-endian mark; UTF16BE emits no mark.
// Latin-1 replaces characters outside ISO-8859-1 with a substitute.
func Encode(s string, e Encoding) ([]byte, error) {
	switch e {
	case Latin1:
		if isASCII([]byte(s)) {
			return []byte(s), nil
		}
		enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
		return enc.Bytes([]byte(s))

	case UTF8:
		return []byte(s), nil

	case UTF16:
		units := utf16.Encode([]rune(s))
		out := make([]byte, 0, 2+len(units)*2)
		out = append(out, 0xFF, 0xFE)
		for _, u := range units {
			out = append(out, byte(u), byte(u>>8))
		}
		return out, nil

	case UTF16BE:
		units := utf16.Encode([]rune(s))
		out := make([]byte, 0, len(units)*2)
		for _, u := range units {
			out = append(out, byte(u>>8), byte(u))
		}
		return out, nil

	default:
		return nil, &types.ParseError{
			Kind: types.ErrInvalidEncoding,
			What: "text encoding tag",
		}
	}
}

// EncodeUTF16LE encodes s as UTF-16 little-endian code units without a
// byte-order mark and without a terminator. ASF strings are defined as
// UTF-16LE and never carry a mark.
func EncodeUTF16LE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

// FindTerminator returns the index of the first terminator appropriate to
// the encoding, or -1. For double-byte encodings the terminator must sit
// on an even boundary.
func FindTerminator(data []byte, e Encoding) int {
	if e.TerminatorSize() == 1 {
		return bytes.IndexByte(data, 0)
	}
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			return i
		}
	}
	return -1
}

// ChooseFor picks the narrowest encoding that represents s losslessly:
// Latin-1 when possible, otherwise UTF-8.
func ChooseFor(s string) Encoding {
	for _, r := range s {
		if r > 0xFF {
			return UTF8
		}
	}
	return Latin1
}

func stripTerminator(data []byte, width int) []byte {
	if width == 1 {
		if len(data) >= 1 && data[len(data)-1] == 0 {
			return data[:len(data)-1]
		}
		return data
	}
	if len(data) >= 2 && len(data)%2 == 0 &&
		data[len(data)-1] == 0 && data[len(data)-2] == 0 {
		return data[:len(data)-2]
	}
	return data
}

func decodeUTF16(data []byte, bigEndian bool) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		if bigEndian {
			u16[i] = uint16(data[i*2])<<8 | uint16(data[i*2+1])
		} else {
			u16[i] = uint16(data[i*2]) | uint16(data[i*2+1])<<8
		}
	}

	return string(utf16.Decode(u16))
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
