// Package types provides the shared data structures for audio tag metadata.
//
// This package defines the File, Tags, Chapter, and Artwork types plus the
// error and parse-policy vocabulary used across all supported tag formats.
// The root audiotag package re-exports the public pieces via type aliases.
package types

// Format represents the detected audio container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatMP3 represents MPEG audio files (ID3v2 tags).
	FormatMP3
	// FormatWMA represents ASF/Windows Media files (ASF header tags).
	FormatWMA
	// FormatMusepack represents Musepack files (APEv2 tags).
	FormatMusepack
	// FormatWavPack represents WavPack files (APEv2 tags).
	FormatWavPack
	// FormatMonkeysAudio represents Monkey's Audio files (APEv2 tags).
	FormatMonkeysAudio
)

// TagFamily identifies which tag codec serves a container format.
type TagFamily int

const (
	// FamilyNone means no tag codec is available for the format.
	FamilyNone TagFamily = iota
	// FamilyID3v2 is the ID3v2 frame sequence family (MP3).
	FamilyID3v2
	// FamilyAPE is the APEv2 item list family (Musepack, WavPack, Monkey's Audio).
	FamilyAPE
	// FamilyASF is the ASF object tree family (WMA).
	FamilyASF
)

// Family returns the tag codec family for this format.
func (f Format) Family() TagFamily {
	switch f {
	case FormatMP3:
		return FamilyID3v2
	case FormatWMA:
		return FamilyASF
	case FormatMusepack, FormatWavPack, FormatMonkeysAudio:
		return FamilyAPE
	default:
		return FamilyNone
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMP3:
		return []string{".mp3"}
	case FormatWMA:
		return []string{".wma", ".asf"}
	case FormatMusepack:
		return []string{".mpc", ".mp+", ".mpp"}
	case FormatWavPack:
		return []string{".wv"}
	case FormatMonkeysAudio:
		return []string{".ape"}
	default:
		return nil
	}
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatWMA:
		return "WMA"
	case FormatMusepack:
		return "Musepack"
	case FormatWavPack:
		return "WavPack"
	case FormatMonkeysAudio:
		return "Monkey's Audio"
	default:
		return "Unknown"
	}
}

// String returns the family name.
func (f TagFamily) String() string {
	switch f {
	case FamilyID3v2:
		return "ID3v2"
	case FamilyAPE:
		return "APEv2"
	case FamilyASF:
		return "ASF"
	default:
		return "none"
	}
}
