package mpc

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/ape"
	"github.com/simonhull/audiotag/internal/types"
)

// Writer implements registry.FormatWriter for APE-tagged files.
type Writer struct{}

// Write copies the audio stream, renders the tag after it, and carries
// any trailing ID3v1 block through untouched.
func (w *Writer) Write(dst io.Writer, file *types.File, original io.ReaderAt, originalSize int64) error {
	tag, ok := file.Tag_.(*ape.Tag)
	if !ok {
		tag = ape.New()
	}

	if err := applyItems(tag, file); err != nil {
		return err
	}

	audio := io.NewSectionReader(original, 0, file.TagOffset)
	if _, err := io.Copy(dst, audio); err != nil {
		return fmt.Errorf("copying audio data: %w", err)
	}

	rendered, err := tag.Render()
	if err != nil {
		return fmt.Errorf("rendering APEv2 tag: %w", err)
	}
	if _, err := dst.Write(rendered); err != nil {
		return fmt.Errorf("writing APEv2 tag: %w", err)
	}

	trailerOff := file.TagOffset + file.TagLength
	if trailerOff < originalSize {
		trailer := io.NewSectionReader(original, trailerOff, originalSize-trailerOff)
		if _, err := io.Copy(dst, trailer); err != nil {
			return fmt.Errorf("copying trailing data: %w", err)
		}
	}
	return nil
}

// applyItems pushes the Tags model back into tag items before rendering.
// Binary items and keys we do not map are left alone.
func applyItems(tag *ape.Tag, file *types.File) error {
	set := func(key, value string) error {
		if value == "" {
			tag.Remove(key)
			return nil
		}
		return tag.SetText(key, value)
	}
	setMulti := func(key string, values []string) error {
		if len(values) == 0 {
			tag.Remove(key)
			return nil
		}
		item, err := ape.NewTextItem(key, values...)
		if err != nil {
			return err
		}
		return tag.SetItem(item)
	}

	if err := set("Title", file.Tags.Title); err != nil {
		return err
	}
	if err := set("Artist", file.Tags.Artist); err != nil {
		return err
	}
	if err := set("Album Artist", file.Tags.AlbumArtist); err != nil {
		return err
	}
	if err := set("Album", file.Tags.Album); err != nil {
		return err
	}
	if err := setMulti("Genre", file.Tags.Genres); err != nil {
		return err
	}
	if err := setMulti("Composer", file.Tags.Composers); err != nil {
		return err
	}
	if err := set("Comment", file.Tags.Comment); err != nil {
		return err
	}
	if err := set("Copyright", file.Tags.Copyright); err != nil {
		return err
	}
	if err := set("Publisher", file.Tags.Publisher); err != nil {
		return err
	}
	if err := set("Lyrics", file.Tags.Lyrics); err != nil {
		return err
	}

	year := ""
	if file.Tags.Year > 0 {
		year = fmt.Sprintf("%d", file.Tags.Year)
	}
	if err := set("Year", year); err != nil {
		return err
	}
	if err := set("Track", formatTrackNumber(file.Tags.TrackNumber, file.Tags.TrackTotal)); err != nil {
		return err
	}
	if err := set("Disc", formatTrackNumber(file.Tags.DiscNumber, file.Tags.DiscTotal)); err != nil {
		return err
	}

	return applyArtwork(tag, file)
}

// applyArtwork replaces cover art items from the Artwork slice. The
// binary value is a null-terminated description followed by image data.
func applyArtwork(tag *ape.Tag, file *types.File) error {
	tag.Remove("Cover Art (Front)")
	tag.Remove("Cover Art (Back)")
	for _, art := range file.Artwork {
		key := "Cover Art (Front)"
		if art.Type == types.ArtworkBackCover {
			key = "Cover Art (Back)"
		}
		value := make([]byte, 0, len(art.Description)+1+len(art.Data))
		value = append(value, art.Description...)
		value = append(value, 0)
		value = append(value, art.Data...)
		item, err := ape.NewBinaryItem(key, value)
		if err != nil {
			return err
		}
		if err := tag.SetItem(item); err != nil {
			return err
		}
	}
	return nil
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
