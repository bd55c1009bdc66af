package asf

import (
	"github.com/google/uuid"

	"github.com/simonhull/audiotag/internal/types"
)

// GUID is a 16-byte ASF object identifier.
//
// On the wire the first three sub-fields of a GUID are little-endian and
// the trailing 8 bytes are a plain byte array. Rather than model the
// sub-fields, the 16 wire bytes are held as two little-endian 64-bit
// units: equality and map hashing then reduce to two integer compares,
// and rendering is two fixed-width writes.
type GUID struct {
	Hi uint64 // wire bytes [0..8) as a little-endian unit
	Lo uint64 // wire bytes [8..16) as a little-endian unit
}

// guidLen is the fixed identifier width.
const guidLen = 16

// GUIDFromBytes decodes a GUID from the first 16 bytes of b.
func GUIDFromBytes(b []byte) (GUID, error) {
	if len(b) < guidLen {
		return GUID{}, &types.ParseError{
			Kind: types.ErrInsufficientData,
			What: "object GUID",
		}
	}
	return GUID{
		Hi: leUint64(b[0:8]),
		Lo: leUint64(b[8:16]),
	}, nil
}

// Bytes returns the 16 wire bytes.
func (g GUID) Bytes() []byte {
	b := make([]byte, guidLen)
	putLEUint64(b[0:8], g.Hi)
	putLEUint64(b[8:16], g.Lo)
	return b
}

// String renders the GUID in canonical textual form
// ("75B22630-668E-11CF-A6D9-00AA0062CE6C" style, lowercased by uuid).
func (g GUID) String() string {
	wire := g.Bytes()
	var canonical [16]byte
	// Undo the mixed-endian layout: Data1 (4 bytes), Data2 and Data3
	// (2 bytes each) are little-endian on the wire; Data4 is not.
	canonical[0], canonical[1], canonical[2], canonical[3] = wire[3], wire[2], wire[1], wire[0]
	canonical[4], canonical[5] = wire[5], wire[4]
	canonical[6], canonical[7] = wire[7], wire[6]
	copy(canonical[8:], wire[8:])
	u, err := uuid.FromBytes(canonical[:])
	if err != nil {
		return "invalid GUID"
	}
	return u.String()
}

// mustGUID builds a GUID from its canonical textual form. Only used for
// the well-known object identifiers below.
func mustGUID(s string) GUID {
	u := uuid.MustParse(s)
	var wire [16]byte
	wire[0], wire[1], wire[2], wire[3] = u[3], u[2], u[1], u[0]
	wire[4], wire[5] = u[5], u[4]
	wire[6], wire[7] = u[7], u[6]
	copy(wire[8:], u[8:])
	g, err := GUIDFromBytes(wire[:])
	if err != nil {
		panic(err)
	}
	return g
}

// Well-known ASF object GUIDs.
var (
	HeaderObject                     = mustGUID("75B22630-668E-11CF-A6D9-00AA0062CE6C")
	ContentDescriptionObject         = mustGUID("75B22633-668E-11CF-A6D9-00AA0062CE6C")
	ExtendedContentDescriptionObject = mustGUID("D2D0A440-E307-11D2-97F0-00A0C95EA850")
	FilePropertiesObject             = mustGUID("8CABDCA1-A947-11CF-8EE4-00C00C205365")
	StreamPropertiesObject           = mustGUID("B7DC0791-A9B7-11CF-8EE6-00C00C205365")
	HeaderExtensionObject            = mustGUID("5FBF03B5-A92E-11CF-8EE3-00C00C205365")
	CodecListObject                  = mustGUID("86D15240-311D-11D0-A3A4-00A0C90348F6")
	PaddingObject                    = mustGUID("1806D474-CADF-4509-A4BA-9AAB0BFA1A94")
	DataObject                       = mustGUID("75B22636-668E-11CF-A6D9-00AA0062CE6C")
)

// name returns a human-readable label for well-known GUIDs, used by the
// dump tool.
func (g GUID) name() string {
	switch g {
	case HeaderObject:
		return "Header"
	case ContentDescriptionObject:
		return "Content Description"
	case ExtendedContentDescriptionObject:
		return "Extended Content Description"
	case FilePropertiesObject:
		return "File Properties"
	case StreamPropertiesObject:
		return "Stream Properties"
	case HeaderExtensionObject:
		return "Header Extension"
	case CodecListObject:
		return "Codec List"
	case PaddingObject:
		return "Padding"
	case DataObject:
		return "Data"
	default:
		return ""
	}
}

// Name returns a label for well-known GUIDs, or the canonical form.
func (g GUID) Name() string {
	if n := g.name(); n != "" {
		return n
	}
	return g.String()
}

func leUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

func putLEUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
