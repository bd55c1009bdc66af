package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// ParsePolicy is an alias to types.ParsePolicy.
// Re-exporting from internal/types to maintain public API.
type ParsePolicy = types.ParsePolicy

// Re-export the policy constants.
const (
	ParseStrict  = types.ParseStrict
	ParseLenient = types.ParseLenient
)

// Option configures behavior when opening audio files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := audiotag.Open("song.mp3",
//	    audiotag.WithStrictParsing(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	policy         *ParsePolicy // nil means the format's default
	ignoreWarnings bool         // Suppress all warnings
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{}
}

// WithStrictParsing aborts the parse on the first malformed record.
//
// Each format has a sensible default policy (ID3v2 and ASF continue
// past damage, APEv2 does not). This option forces strict behavior for
// every format.
//
// Example:
//
//	file, err := audiotag.Open("song.mp3", audiotag.WithStrictParsing())
//	// err != nil if ANY record is malformed
func WithStrictParsing() Option {
	return WithParsePolicy(ParseStrict)
}

// WithLenientParsing keeps the valid prefix of a damaged tag and
// records a warning instead of failing, for every format.
func WithLenientParsing() Option {
	return WithParsePolicy(ParseLenient)
}

// WithParsePolicy overrides the format's default continuation policy.
func WithParsePolicy(p ParsePolicy) Option {
	return func(o *openOptions) {
		o.policy = &p
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, warnings about non-fatal issues (invalid encodings, etc.)
// are collected in File.Warnings. This option discards them.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}
