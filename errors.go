package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Sentinel parse failures. Wrapped errors carry position and field
// context; match with errors.Is.
var (
	ErrInsufficientData  = types.ErrInsufficientData
	ErrInvalidMagic      = types.ErrInvalidMagic
	ErrSizeOverflow      = types.ErrSizeOverflow
	ErrTruncated         = types.ErrTruncated
	ErrInvalidIdentifier = types.ErrInvalidIdentifier
	ErrInvalidEncoding   = types.ErrInvalidEncoding
	ErrMissingTerminator = types.ErrMissingTerminator
)

// ParseError is an alias to types.ParseError.
// Re-exporting from internal/types to maintain public API.
type ParseError = types.ParseError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to maintain public API.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// UnsupportedWriteError is an alias to types.UnsupportedWriteError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedWriteError = types.UnsupportedWriteError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning
