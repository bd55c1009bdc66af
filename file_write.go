package audiotag

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// Save writes modified metadata back to the original file.
//
// This is an atomic operation: writes to a temporary file first, then
// renames to the original path. If any step fails, the original file
// remains unchanged.
//
// Options can be provided to customize save behavior:
//
//	err := file.Save(
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
//
// Returns UnsupportedWriteError if no writer is registered for the format.
func (f *File) Save(opts ...SaveOption) error {
	return f.SaveAs(f.Path, opts...)
}

// SaveAs writes the file to a new location.
//
// This is an atomic operation: writes to a temporary file first, then
// renames to the output path. If any step fails, any partially written
// data is cleaned up.
//
// Returns UnsupportedWriteError if no writer is registered for the format.
func (f *File) SaveAs(outputPath string, opts ...SaveOption) error {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	writer := registry.GetWriter(f.Format)
	if writer == nil {
		return &types.UnsupportedWriteError{
			Format: f.Format,
			Reason: "no writer registered",
		}
	}

	if f.Reader_ == nil {
		return fmt.Errorf("file not open: reader is nil")
	}

	var origInfo os.FileInfo
	if options.preserveModTime {
		if info, err := os.Stat(f.Path); err == nil {
			origInfo = info
		}
	}

	// Temp file in the output directory so the final rename is atomic.
	outputDir := filepath.Dir(outputPath)
	tempFile, err := os.CreateTemp(outputDir, ".audiotag-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	if err := writer.Write(tempFile, &f.File, f.Reader_, f.Size); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if options.backupSuffix != "" {
		backupPath := outputPath + options.backupSuffix
		if _, err := os.Stat(outputPath); err == nil {
			if err := os.Rename(outputPath, backupPath); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if options.preserveModTime && origInfo != nil {
		_ = os.Chtimes(outputPath, origInfo.ModTime(), origInfo.ModTime())
	}

	if options.validate {
		if err := f.validateWrittenFile(outputPath); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// validateWrittenFile re-opens the file and compares key metadata fields.
func (f *File) validateWrittenFile(path string) error {
	written, err := Open(path)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Close()

	if written.Tags.Title != f.Tags.Title {
		return fmt.Errorf("title mismatch: got %q, want %q", written.Tags.Title, f.Tags.Title)
	}
	if written.Tags.Artist != f.Tags.Artist {
		return fmt.Errorf("artist mismatch: got %q, want %q", written.Tags.Artist, f.Tags.Artist)
	}
	if written.Tags.Album != f.Tags.Album {
		return fmt.Errorf("album mismatch: got %q, want %q", written.Tags.Album, f.Tags.Album)
	}
	return nil
}
