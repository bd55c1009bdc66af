package asf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simonhull/audiotag/internal/types"
)

func TestPicture_RoundTrip(t *testing.T) {
	orig := Picture{
		Type:        3, // front cover
		MIMEType:    "image/jpeg",
		Description: "Cover",
		Data:        []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00},
	}

	decoded, err := DecodePicture(orig.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != orig.Type {
		t.Errorf("type: got %d, want %d", decoded.Type, orig.Type)
	}
	if decoded.MIMEType != orig.MIMEType {
		t.Errorf("MIME: got %q, want %q", decoded.MIMEType, orig.MIMEType)
	}
	if decoded.Description != orig.Description {
		t.Errorf("description: got %q, want %q", decoded.Description, orig.Description)
	}
	if !bytes.Equal(decoded.Data, orig.Data) {
		t.Errorf("data: got % x", decoded.Data)
	}
}

func TestPicture_EmptyStrings(t *testing.T) {
	orig := Picture{Type: 0, Data: []byte{1}}
	decoded, err := DecodePicture(orig.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.MIMEType != "" || decoded.Description != "" {
		t.Errorf("expected empty strings, got %q / %q", decoded.MIMEType, decoded.Description)
	}
}

func TestDecodePicture_MissingTerminator(t *testing.T) {
	// Type byte, length, then an unterminated UTF-16 string.
	value := []byte{3, 0, 0, 0, 0, 'i', 0x00, 'm', 0x00}
	_, err := DecodePicture(value)
	if !errors.Is(err, types.ErrMissingTerminator) {
		t.Fatalf("expected ErrMissingTerminator, got %v", err)
	}
}

func TestDecodePicture_TruncatedData(t *testing.T) {
	p := Picture{Type: 3, MIMEType: "image/png", Data: []byte{1, 2, 3, 4}}
	encoded := p.Encode()
	_, err := DecodePicture(encoded[:len(encoded)-2])
	if !errors.Is(err, types.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
