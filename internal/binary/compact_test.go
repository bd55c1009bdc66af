package binary

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simonhull/audiotag/internal/types"
)

func TestParseCompact(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint64
	}{
		{"empty means absent", nil, 0},
		{"single zero byte", []byte{0x00}, 0},
		{"single byte", []byte{0x7F}, 0x7F},
		{"two bytes", []byte{0x01, 0x00}, 0x100},
		{"full width", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, ^uint64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompact(tt.in, "value")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseCompact_TooWide(t *testing.T) {
	_, err := ParseCompact(make([]byte, 9), "value")
	if !errors.Is(err, types.ErrSizeOverflow) {
		t.Fatalf("expected ErrSizeOverflow, got %v", err)
	}
}

func TestRenderCompact(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want []byte
	}{
		{"zero renders empty", 0, nil},
		{"one byte", 0xAB, []byte{0xAB}},
		{"boundary 255", 255, []byte{0xFF}},
		{"boundary 256", 256, []byte{0x01, 0x00}},
		{"full width", ^uint64(0), bytes.Repeat([]byte{0xFF}, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderCompact(tt.in)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("expected % x, got % x", tt.want, got)
			}
		})
	}
}

func TestCompact_RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 255, 256, 65535, 65536, 1 << 40, ^uint64(0)} {
		got, err := ParseCompact(RenderCompact(v), "value")
		if err != nil {
			t.Fatalf("value %d: unexpected error: %v", v, err)
		}
		if got != v {
			t.Errorf("value %d round-tripped to %d", v, got)
		}
	}
}
