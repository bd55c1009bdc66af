package types

import "fmt"

// Artwork represents embedded artwork (cover art, images).
//
// Artwork can include album covers, artist photos, and other images
// embedded in tag records: ID3v2 APIC frames, APE "Cover Art" items,
// and ASF WM/Picture descriptors. Multiple artworks per file are
// supported.
type Artwork struct {
	// Type of artwork (front cover, back cover, artist photo, etc.)
	Type ArtworkType

	// MIME type of the image data
	MIMEType string // "image/jpeg", "image/png", "image/gif"

	// Description of the artwork (optional)
	Description string

	// Image binary data
	Data []byte
}

// ArtworkType categorizes the purpose/content of artwork.
//
// Types follow the ID3v2 APIC picture-type table, which ASF WM/Picture
// reuses verbatim.
type ArtworkType int

const (
	ArtworkOther ArtworkType = iota
	ArtworkIcon
	ArtworkOtherIcon
	ArtworkFrontCover
	ArtworkBackCover
	ArtworkLeaflet
	ArtworkMedia
	ArtworkLeadArtist
	ArtworkArtist
	ArtworkConductor
	ArtworkBand
	ArtworkComposer
	ArtworkLyricist
	ArtworkRecordingLocation
	ArtworkDuringRecording
	ArtworkDuringPerformance
	ArtworkVideoCapture
	ArtworkBrightFish
	ArtworkIllustration
	ArtworkBandLogotype
	ArtworkPublisherLogotype
)

// String returns the APIC table name for the type.
func (t ArtworkType) String() string {
	names := []string{
		"Other", "File icon", "Other file icon", "Front cover", "Back cover",
		"Leaflet page", "Media", "Lead artist", "Artist", "Conductor",
		"Band", "Composer", "Lyricist", "Recording location", "During recording",
		"During performance", "Movie capture", "A bright colored fish",
		"Illustration", "Band logotype", "Publisher logotype",
	}
	if int(t) >= 0 && int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("ArtworkType(%d)", int(t))
}

// String returns a human-readable description of the artwork.
//
// Example output: "Front cover (JPEG, 245KB)"
func (a Artwork) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.Type, mimeToFormat(a.MIMEType), formatSize(len(a.Data)))
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)

	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%dKB", bytes/kb)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// mimeToFormat converts MIME type to a short format name.
func mimeToFormat(mime string) string {
	switch mime {
	case "image/jpeg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	default:
		return "Image"
	}
}
