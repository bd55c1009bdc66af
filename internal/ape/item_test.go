package ape

import (
	"errors"
	"testing"

	"github.com/simonhull/audiotag/internal/types"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"simple", "Title", false},
		{"minimum length", "By", false},
		{"spaces allowed", "Album Artist", false},
		{"punctuation allowed", "Cover Art (Front)", false},
		{"too short", "X", true},
		{"empty", "", true},
		{"control character", "Ti\x01le", true},
		{"high byte", "Titl\xE9", true},
		{"reserved ID3", "ID3", true},
		{"reserved TAG", "TAG", true},
		{"reserved OggS", "OggS", true},
		{"reserved MP+", "MP+", true},
		{"reserved case-insensitive", "id3", true},
		{"reserved as prefix is fine", "ID3v2 Export", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr && !errors.Is(err, types.ErrInvalidIdentifier) {
				t.Errorf("key %q: expected ErrInvalidIdentifier, got %v", tt.key, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("key %q: unexpected error: %v", tt.key, err)
			}
		})
	}
}

func TestValidateKey_MaxLength(t *testing.T) {
	long := make([]byte, 255)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateKey(string(long)); err != nil {
		t.Errorf("255-character key should be valid: %v", err)
	}
	if err := ValidateKey(string(long) + "a"); !errors.Is(err, types.ErrInvalidIdentifier) {
		t.Errorf("256-character key should be invalid, got %v", err)
	}
}

func TestItem_MultiValueEncoding(t *testing.T) {
	item, err := NewTextItem("Genre", "Rock", "Jazz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, err := item.valueBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != "Rock\x00Jazz" {
		t.Errorf("expected values joined by a zero byte, got % x", value)
	}

	var decoded Item
	decoded.Type = ItemText
	if err := decoded.decodeValue(value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded.Values) != 2 || decoded.Values[0] != "Rock" || decoded.Values[1] != "Jazz" {
		t.Errorf("expected [Rock Jazz], got %v", decoded.Values)
	}
}

func TestItem_EmptyValue(t *testing.T) {
	var item Item
	item.Type = ItemText
	if err := item.decodeValue(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(item.Values) != 1 || item.Values[0] != "" {
		t.Errorf("empty value should decode to one empty string, got %v", item.Values)
	}
}

func TestItem_ReservedTypeRejected(t *testing.T) {
	item := Item{Key: "Weird", Type: ItemType(3)}
	if _, err := item.valueBytes(); !errors.Is(err, types.ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding for reserved type, got %v", err)
	}
}

func TestNewLocatorItem(t *testing.T) {
	item, err := NewLocatorItem("Related", "https://example.com/a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Type != ItemLocator {
		t.Errorf("expected ItemLocator, got %v", item.Type)
	}
	if item.Value() != "https://example.com/a.jpg" {
		t.Errorf("unexpected value %q", item.Value())
	}
}
