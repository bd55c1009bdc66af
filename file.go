package audiotag

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"

	// Format packages register their parsers and writers in init().
	_ "github.com/simonhull/audiotag/internal/mp3"
	_ "github.com/simonhull/audiotag/internal/mpc"
	_ "github.com/simonhull/audiotag/internal/wma"
)

// File represents an opened audio file with parsed tag metadata.
//
// File provides access to format-agnostic metadata (Tags), chapter
// markers, and embedded artwork. The underlying tag container is kept
// in parsed form so unknown records survive a Save byte for byte.
//
// Always call Close() when done to release file resources:
//
//	file, err := audiotag.Open("song.mp3")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	types.File
}

// Open opens an audio file and reads its tag metadata.
//
// Supported formats: MP3 (ID3v2), WMA (ASF), Musepack, WavPack and
// Monkey's Audio (APEv2).
//
// Open reads only the tag region, not the audio stream. If the tag is
// damaged, the format's continuation policy decides between failing and
// returning a partial File with warnings; see WithStrictParsing and
// WithLenientParsing.
//
// Example:
//
//	file, err := audiotag.Open("song.mp3")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//	fmt.Printf("%s - %s\n", file.Tags.Artist, file.Tags.Title)
func Open(path string, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := openReader(f, stat.Size(), path, options)
	if err != nil {
		f.Close()
		return nil, err
	}

	// Keep the handle; Save copies the audio stream out of it.
	file.Reader_ = f
	return file, nil
}

// openReader opens from an io.ReaderAt (internal, for testing).
func openReader(r io.ReaderAt, size int64, path string, options *openOptions) (*File, error) {
	format, err := DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	parser := registry.Get(format)
	if parser == nil {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no parser available for format %s", format),
		}
	}

	parsed, err := parser.Parse(r, size, path, options.policy)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	parsed.Path = path
	parsed.Format = format
	parsed.Size = size
	parsed.Parser_ = parser

	if options.ignoreWarnings {
		parsed.Warnings = nil
	}

	return &File{File: *parsed}, nil
}

// Close releases resources held by the file.
//
// After Close is called, the File should not be used.
func (f *File) Close() error {
	if closer, ok := f.Reader_.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OpenContext opens a file with context support for cancellation.
//
// This is a thin wrapper around Open() that checks context before
// starting.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// OpenMany opens multiple audio files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			file, err := Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}
	return results, nil
}
