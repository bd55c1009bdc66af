package audiotag

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown      = types.FormatUnknown
	FormatMP3          = types.FormatMP3
	FormatWMA          = types.FormatWMA
	FormatMusepack     = types.FormatMusepack
	FormatWavPack      = types.FormatWavPack
	FormatMonkeysAudio = types.FormatMonkeysAudio
)

// TagFamily is an alias to types.TagFamily.
// Re-exporting from internal/types to maintain public API.
type TagFamily = types.TagFamily

// Re-export all tag family constants.
const (
	FamilyNone  = types.FamilyNone
	FamilyID3v2 = types.FamilyID3v2
	FamilyAPE   = types.FamilyAPE
	FamilyASF   = types.FamilyASF
)

// asfHeaderPrefix is the on-disk prefix of the ASF Header Object GUID.
var asfHeaderPrefix = []byte{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11}

// DetectFormat determines the audio format by sniffing magic bytes,
// falling back to the file extension when the head of the file is
// ambiguous (e.g. raw MPEG audio with no leading tag).
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	head := make([]byte, 12)
	n, err := r.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, err
	}
	head = head[:n]

	if f := detectByMagic(head); f != FormatUnknown {
		return f, nil
	}

	// An APEv2 or ID3v1 trailer with a silent head still identifies a
	// taggable file; the extension decides which container it is.
	if f := detectByExtension(path); f != FormatUnknown {
		return f, nil
	}

	// Last resort: an APETAGEX footer at the tail marks an APE-tagged
	// stream even when both head and extension say nothing.
	if size >= 32 {
		footer := make([]byte, 8)
		if _, err := r.ReadAt(footer, size-32); err == nil && string(footer) == "APETAGEX" {
			return FormatMusepack, nil
		}
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unrecognized file format",
	}
}

func detectByMagic(head []byte) Format {
	switch {
	case len(head) >= 3 && string(head[0:3]) == "ID3":
		return FormatMP3
	case len(head) >= 8 && string(head[0:8]) == string(asfHeaderPrefix):
		return FormatWMA
	case len(head) >= 4 && string(head[0:4]) == "MPCK":
		return FormatMusepack
	case len(head) >= 3 && string(head[0:3]) == "MP+":
		return FormatMusepack
	case len(head) >= 4 && string(head[0:4]) == "wvpk":
		return FormatWavPack
	case len(head) >= 4 && string(head[0:4]) == "MAC ":
		return FormatMonkeysAudio
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		// Raw MPEG audio frame sync, no leading tag.
		return FormatMP3
	}
	return FormatUnknown
}

func detectByExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return FormatMP3
	case ".wma", ".asf":
		return FormatWMA
	case ".mpc", ".mpp", ".mp+":
		return FormatMusepack
	case ".wv":
		return FormatWavPack
	case ".ape":
		return FormatMonkeysAudio
	}
	return FormatUnknown
}
