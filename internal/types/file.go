package types

import (
	"io"
)

// File represents an opened audio file with parsed tag metadata.
//
// File provides access to format-agnostic metadata (Tags), chapter
// markers, and embedded artwork. The format-specific parsed container is
// held by the parser that produced the File and drives write-back.
type File struct {
	Reader_  io.ReaderAt //nolint:revive // Underscore indicates internal/unexported semantics
	Parser_  interface{} //nolint:revive // Underscore indicates internal/unexported semantics
	Tag_     interface{} //nolint:revive // Underscore indicates internal/unexported semantics
	Path     string
	Chapters []Chapter
	Warnings []Warning
	Artwork  []Artwork
	Tags     Tags
	Format   Format
	Size     int64

	// TagOffset and TagLength delimit the raw tag region inside the
	// source file (both zero when the file has no tag yet).
	TagOffset int64
	TagLength int64
}
