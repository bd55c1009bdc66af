package mp3

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/textenc"
	"github.com/simonhull/audiotag/internal/types"
)

// Writer implements registry.FormatWriter for MP3 files.
type Writer struct{}

// Write renders the file's tag followed by the untouched audio stream.
func (w *Writer) Write(dst io.Writer, file *types.File, original io.ReaderAt, originalSize int64) error {
	tag, ok := file.Tag_.(*id3v2.Tag)
	if !ok {
		tag = id3v2.New()
	}

	applyTags(tag, file)

	rendered, err := tag.Render()
	if err != nil {
		return fmt.Errorf("rendering ID3v2 tag: %w", err)
	}
	if _, err := dst.Write(rendered); err != nil {
		return fmt.Errorf("writing ID3v2 tag: %w", err)
	}

	audioStart := file.TagOffset + file.TagLength
	audio := io.NewSectionReader(original, audioStart, originalSize-audioStart)
	if _, err := io.Copy(dst, audio); err != nil {
		return fmt.Errorf("copying audio data: %w", err)
	}
	return nil
}

// applyTags pushes the Tags model back into frames before rendering.
// Unknown frames already in the tag are left alone.
func applyTags(tag *id3v2.Tag, file *types.File) {
	setOrRemove(tag, "TIT2", file.Tags.Title)
	setOrRemove(tag, "TPE1", file.Tags.Artist)
	setOrRemove(tag, "TPE2", file.Tags.AlbumArtist)
	setOrRemove(tag, "TALB", file.Tags.Album)
	setOrRemove(tag, "TCOP", file.Tags.Copyright)
	setOrRemove(tag, "TPUB", file.Tags.Publisher)

	if len(file.Tags.Genres) > 0 {
		tag.SetText("TCON", file.Tags.Genres[0])
	} else {
		tag.Remove("TCON")
	}
	if len(file.Tags.Composers) > 0 {
		tag.SetText("TCOM", file.Tags.Composers[0])
	} else {
		tag.Remove("TCOM")
	}

	yearFrame := "TDRC"
	if tag.Version == 3 {
		yearFrame = "TYER"
	}
	if file.Tags.Year > 0 {
		tag.SetText(yearFrame, fmt.Sprintf("%d", file.Tags.Year))
	} else {
		tag.Remove("TYER")
		tag.Remove("TDRC")
	}

	setOrRemove(tag, "TRCK", formatTrackNumber(file.Tags.TrackNumber, file.Tags.TrackTotal))
	setOrRemove(tag, "TPOS", formatTrackNumber(file.Tags.DiscNumber, file.Tags.DiscTotal))

	if file.Tags.Comment != "" {
		setComment(tag, "COMM", file.Tags.Comment)
	} else {
		tag.Remove("COMM")
	}
	if file.Tags.Lyrics != "" {
		setComment(tag, "USLT", file.Tags.Lyrics)
	} else {
		tag.Remove("USLT")
	}

	tag.Remove("APIC")
	for _, art := range file.Artwork {
		tag.Frames = append(tag.Frames, id3v2.Frame{
			ID:          "APIC",
			Kind:        id3v2.FramePicture,
			Encoding:    textenc.Latin1,
			MIMEType:    art.MIMEType,
			PictureType: byte(art.Type),
			Description: art.Description,
			Data:        art.Data,
		})
	}
}

func setOrRemove(tag *id3v2.Tag, id, value string) {
	if value != "" {
		tag.SetText(id, value)
	} else {
		tag.Remove(id)
	}
}

func setComment(tag *id3v2.Tag, id, text string) {
	if f := tag.Frame(id); f != nil {
		f.Text = text
		return
	}
	tag.Frames = append(tag.Frames, id3v2.Frame{
		ID:       id,
		Kind:     id3v2.FrameComment,
		Encoding: textenc.UTF8,
		Language: "XXX",
		Text:     text,
	})
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
