package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Artwork is an alias to types.Artwork.
// Re-exporting from internal/types to maintain public API.
type Artwork = types.Artwork

// ArtworkType is an alias to types.ArtworkType.
// Re-exporting from internal/types to maintain public API.
type ArtworkType = types.ArtworkType

// Re-export all artwork type constants.
const (
	ArtworkOther             = types.ArtworkOther
	ArtworkIcon              = types.ArtworkIcon
	ArtworkOtherIcon         = types.ArtworkOtherIcon
	ArtworkFrontCover        = types.ArtworkFrontCover
	ArtworkBackCover         = types.ArtworkBackCover
	ArtworkLeaflet           = types.ArtworkLeaflet
	ArtworkMedia             = types.ArtworkMedia
	ArtworkLeadArtist        = types.ArtworkLeadArtist
	ArtworkArtist            = types.ArtworkArtist
	ArtworkConductor         = types.ArtworkConductor
	ArtworkBand              = types.ArtworkBand
	ArtworkComposer          = types.ArtworkComposer
	ArtworkLyricist          = types.ArtworkLyricist
	ArtworkRecordingLocation = types.ArtworkRecordingLocation
	ArtworkDuringRecording   = types.ArtworkDuringRecording
	ArtworkDuringPerformance = types.ArtworkDuringPerformance
	ArtworkVideoCapture      = types.ArtworkVideoCapture
	ArtworkBrightFish        = types.ArtworkBrightFish
	ArtworkIllustration      = types.ArtworkIllustration
	ArtworkBandLogotype      = types.ArtworkBandLogotype
	ArtworkPublisherLogotype = types.ArtworkPublisherLogotype
)
