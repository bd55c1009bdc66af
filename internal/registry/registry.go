// Package registry manages format-specific parsers and writers for audio
// file types.
package registry

import (
	"io"

	"github.com/simonhull/audiotag/internal/types"
)

// FormatParser is the interface all format parsers implement.
type FormatParser interface {
	// Parse locates the tag region in an audio file, decodes it, and
	// returns a partially initialized File (Path, Format, Size set by
	// the caller). policy overrides the format's default continuation
	// policy when non-nil.
	Parse(r io.ReaderAt, size int64, path string, policy *types.ParsePolicy) (*types.File, error)
}

// FormatWriter is the interface format writers implement.
type FormatWriter interface {
	// Write writes the file's audio data and re-rendered tag to w.
	// original provides read access to the source file for copying the
	// untouched audio bytes.
	Write(w io.Writer, file *types.File, original io.ReaderAt, originalSize int64) error
}

// parsers maps formats to their parsers.
var parsers = make(map[types.Format]FormatParser)

// writers maps formats to their writers.
var writers = make(map[types.Format]FormatWriter)

// Register registers a parser for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, parser FormatParser) {
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) FormatParser {
	return parsers[format]
}

// RegisterWriter registers a writer for a format.
// This is called by format packages during initialization (init functions).
func RegisterWriter(format types.Format, writer FormatWriter) {
	writers[format] = writer
}

// GetWriter returns the writer for a given format.
// Returns nil if no writer is registered for the format.
func GetWriter(format types.Format) FormatWriter {
	return writers[format]
}
