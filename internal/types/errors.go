package types

import (
	"errors"
	"fmt"
)

// Parse error kinds. Every structural failure reported by a codec wraps
// exactly one of these sentinels, so callers can classify failures with
// errors.Is without string matching.
var (
	// ErrInsufficientData indicates fewer bytes than a fixed-size field requires.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidMagic indicates a container header identifier mismatch.
	ErrInvalidMagic = errors.New("invalid magic")

	// ErrSizeOverflow indicates a declared size exceeding the buffer or a sanity bound.
	ErrSizeOverflow = errors.New("declared size overflow")

	// ErrTruncated indicates a declared length exceeding the remaining bytes.
	ErrTruncated = errors.New("truncated")

	// ErrInvalidIdentifier indicates an identifier violating length, charset,
	// or reserved-word constraints.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidEncoding indicates an unrecognized text-encoding tag.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrMissingTerminator indicates a required null terminator is absent.
	ErrMissingTerminator = errors.New("missing terminator")
)

// ParseError describes a structural failure while decoding tag bytes.
//
// Kind is one of the sentinel errors above and is exposed through Unwrap,
// so both errors.Is(err, types.ErrTruncated) and the formatted message
// work. Offset is relative to the start of the buffer handed to the
// codec, not the start of the file.
type ParseError struct {
	Kind   error  // sentinel classifying the failure
	What   string // what was being read ("item key", "frame size", ...)
	Detail string // optional extra context
	Offset int64
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at offset %d while reading %s: %s", e.Kind, e.Offset, e.What, e.Detail)
	}
	return fmt.Sprintf("%s at offset %d while reading %s", e.Kind, e.Offset, e.What)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when a file carries no recognized tag format.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// UnsupportedWriteError indicates write is not supported for this format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data: a frame skipped under a lenient
// parse policy, a descriptor with an unknown value type, a picture whose
// MIME string is unterminated. Warnings are collected in File.Warnings.
type Warning struct {
	// Stage where the warning occurred ("tag", "records", "artwork", "chapters")
	Stage string

	// Warning message
	Message string

	// Buffer offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
