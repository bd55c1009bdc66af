package asf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simonhull/audiotag/internal/types"
)

func TestGUID_String(t *testing.T) {
	if got := HeaderObject.String(); got != "75b22630-668e-11cf-a6d9-00aa0062ce6c" {
		t.Errorf("canonical form: got %q", got)
	}
}

func TestGUID_BytesRoundTrip(t *testing.T) {
	for _, g := range []GUID{
		HeaderObject,
		ExtendedContentDescriptionObject,
		{},
		{Hi: ^uint64(0), Lo: ^uint64(0)},
	} {
		back, err := GUIDFromBytes(g.Bytes())
		if err != nil {
			t.Fatalf("%v: %v", g, err)
		}
		if back != g {
			t.Errorf("round trip changed %v to %v", g, back)
		}
	}
}

func TestGUID_WireLayout(t *testing.T) {
	// Data1/Data2/Data3 are little-endian on the wire, Data4 is not.
	want := []byte{
		0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
		0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
	}
	if got := HeaderObject.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("wire bytes:\n got % x\nwant % x", got, want)
	}
}

func TestGUIDFromBytes_Short(t *testing.T) {
	_, err := GUIDFromBytes(make([]byte, guidLen-1))
	if !errors.Is(err, types.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestGUID_Name(t *testing.T) {
	if got := ContentDescriptionObject.Name(); got != "Content Description" {
		t.Errorf("well-known name: got %q", got)
	}
	unknown := GUID{Hi: 1, Lo: 2}
	if got := unknown.Name(); got != unknown.String() {
		t.Errorf("unknown GUID should fall back to canonical form, got %q", got)
	}
}
