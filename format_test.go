package audiotag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/ape"
)

func TestDetectFormat_Magic(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Format
	}{
		{"id3v2 header", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), FormatMP3},
		{"asf header guid", []byte{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11, 0xA6, 0xD9}, FormatWMA},
		{"musepack sv8", []byte("MPCK...."), FormatMusepack},
		{"musepack sv7", []byte("MP+\x07...."), FormatMusepack},
		{"wavpack", []byte("wvpk...."), FormatWavPack},
		{"monkeys audio", []byte("MAC \x96\x0F"), FormatMonkeysAudio},
		{"raw mpeg sync", []byte{0xFF, 0xFB, 0x90, 0x00}, FormatMP3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(tt.head)
			got, err := DetectFormat(r, int64(len(tt.head)), "noext")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_ExtensionFallback(t *testing.T) {
	// A file whose tag lives only at the tail has no useful head bytes.
	silent := make([]byte, 64)

	tests := []struct {
		path string
		want Format
	}{
		{"song.mp3", FormatMP3},
		{"song.WMA", FormatWMA},
		{"song.asf", FormatWMA},
		{"song.mpc", FormatMusepack},
		{"song.mp+", FormatMusepack},
		{"song.wv", FormatWavPack},
		{"song.ape", FormatMonkeysAudio},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r := bytes.NewReader(silent)
			got, err := DetectFormat(r, int64(len(silent)), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_APEFooterFallback(t *testing.T) {
	// No recognizable head, no useful extension: the trailing APETAGEX
	// footer is the only identifier left.
	tag, err := ape.New().Render()
	require.NoError(t, err)
	data := append(make([]byte, 40), tag...)

	r := bytes.NewReader(data)
	got, err := DetectFormat(r, int64(len(data)), "stream.bin")
	require.NoError(t, err)
	assert.Equal(t, FormatMusepack, got)
}

func TestDetectFormat_Unsupported(t *testing.T) {
	r := bytes.NewReader([]byte("RIFF\x00\x00\x00\x00WAVE"))
	_, err := DetectFormat(r, 12, "song.wav")
	require.Error(t, err)

	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "song.wav", unsupported.Path)
}

func TestDetectFormat_TinyFile(t *testing.T) {
	r := bytes.NewReader([]byte{0xFF})
	_, err := DetectFormat(r, 1, "tiny.bin")
	require.Error(t, err)
}
