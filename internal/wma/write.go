package wma

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/asf"
	"github.com/simonhull/audiotag/internal/types"
)

// Writer implements registry.FormatWriter for WMA files.
type Writer struct{}

// Write renders the updated Header Object followed by the untouched
// remainder of the file. The File Properties object's total-size field
// is patched so players that trust it keep working.
func (w *Writer) Write(dst io.Writer, file *types.File, original io.ReaderAt, originalSize int64) error {
	tag, ok := file.Tag_.(*asf.Tag)
	if !ok {
		tag = asf.New()
	}

	applyDescriptors(tag, file)

	rendered, err := tag.Render()
	if err != nil {
		return fmt.Errorf("rendering ASF header: %w", err)
	}

	newSize := originalSize - file.TagLength + int64(len(rendered))
	patchFileSize(tag, newSize)
	// File Properties lives inside the header, so render again with the
	// patched size. The header length itself does not change.
	rendered, err = tag.Render()
	if err != nil {
		return fmt.Errorf("rendering ASF header: %w", err)
	}

	if _, err := dst.Write(rendered); err != nil {
		return fmt.Errorf("writing ASF header: %w", err)
	}

	rest := io.NewSectionReader(original, file.TagLength, originalSize-file.TagLength)
	if _, err := io.Copy(dst, rest); err != nil {
		return fmt.Errorf("copying media data: %w", err)
	}
	return nil
}

// patchFileSize updates the File Size field of an opaque File
// Properties object. The field sits at payload offset 16, after the
// 16-byte File ID.
func patchFileSize(tag *asf.Tag, size int64) {
	for i := range tag.Objects {
		obj := &tag.Objects[i]
		if obj.ID != asf.FilePropertiesObject || obj.Kind != asf.ObjectOpaque || len(obj.Data) < 24 {
			continue
		}
		v := uint64(size)
		for j := 0; j < 8; j++ {
			obj.Data[16+j] = byte(v >> (8 * j))
		}
		return
	}
}

// applyDescriptors pushes the Tags model back into the Content
// Description slots and WM/ descriptors before rendering. Descriptors
// we do not map are left alone.
func applyDescriptors(tag *asf.Tag, file *types.File) {
	cd := tag.EnsureContentDescription()
	cd.Title = file.Tags.Title
	cd.Author = file.Tags.Artist
	cd.Copyright = file.Tags.Copyright
	cd.Description = file.Tags.Comment

	setText := func(name, value string) {
		if value == "" {
			tag.RemoveDescriptor(name)
			return
		}
		tag.SetDescriptor(asf.NewTextDescriptor(name, value))
	}

	setText("WM/AlbumTitle", file.Tags.Album)
	setText("WM/AlbumArtist", file.Tags.AlbumArtist)
	setText("WM/Publisher", file.Tags.Publisher)
	setText("WM/Lyrics", file.Tags.Lyrics)

	if len(file.Tags.Genres) > 0 {
		setText("WM/Genre", file.Tags.Genres[0])
	} else {
		tag.RemoveDescriptor("WM/Genre")
	}
	if len(file.Tags.Composers) > 0 {
		setText("WM/Composer", file.Tags.Composers[0])
	} else {
		tag.RemoveDescriptor("WM/Composer")
	}

	year := ""
	if file.Tags.Year > 0 {
		year = fmt.Sprintf("%d", file.Tags.Year)
	}
	setText("WM/Year", year)
	setText("WM/TrackNumber", formatTrackNumber(file.Tags.TrackNumber, file.Tags.TrackTotal))
	setText("WM/PartOfSet", formatTrackNumber(file.Tags.DiscNumber, file.Tags.DiscTotal))

	tag.RemoveDescriptor("WM/Picture")
	for _, art := range file.Artwork {
		pic := asf.Picture{
			Type:        byte(art.Type),
			MIMEType:    art.MIMEType,
			Description: art.Description,
			Data:        art.Data,
		}
		tag.AddDescriptor(asf.Descriptor{
			Name: "WM/Picture",
			Type: asf.TypeBytes,
			Data: pic.Encode(),
		})
	}
}

func formatTrackNumber(number, total int) string {
	switch {
	case number > 0 && total > 0:
		return fmt.Sprintf("%d/%d", number, total)
	case number > 0:
		return fmt.Sprintf("%d", number)
	}
	return ""
}
