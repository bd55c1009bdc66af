// Package mp3 bridges MP3 files and the ID3v2 codec: it lifts the tag
// region off the front of the file, hands it to internal/id3v2, and maps
// the decoded frames into the format-agnostic Tags model.
package mp3

import (
	"fmt"
	"io"
	"strings"
	"time"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

func init() {
	registry.Register(types.FormatMP3, &Parser{})
	registry.RegisterWriter(types.FormatMP3, &Writer{})
}

// Parser implements registry.FormatParser for MP3 files.
type Parser struct{}

// Parse reads the leading ID3v2 tag, if any, and maps it into a File.
// An MP3 without a tag parses to an empty File ready to accept one.
func (p *Parser) Parse(r io.ReaderAt, size int64, path string, policy *types.ParsePolicy) (*types.File, error) {
	sr := binutil.NewSafeReader(r, size, path)
	file := &types.File{}

	header := make([]byte, 10)
	if size < 10 || sr.ReadAt(header, 0, "ID3v2 header") != nil || string(header[0:3]) != "ID3" {
		// No leading tag; a fresh one will be rendered on save.
		file.Tag_ = id3v2.New()
		return file, nil
	}

	tagLen := int64(10) + int64(decodeHeaderSize(header[6:10]))
	if tagLen > size {
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "ID3v2 tag size",
			Detail: fmt.Sprintf("declared %d bytes, file has %d", tagLen, size),
		}
	}

	buf := make([]byte, tagLen)
	if err := sr.ReadAt(buf, 0, "ID3v2 tag"); err != nil {
		return nil, err
	}

	pol := id3v2.DefaultPolicy
	if policy != nil {
		pol = *policy
	}
	tag, err := id3v2.ParseWithPolicy(buf, pol)
	if err != nil {
		return nil, err
	}

	file.Tag_ = tag
	file.TagOffset = 0
	file.TagLength = tagLen
	file.Warnings = append(file.Warnings, tag.Warnings...)
	mapFrames(tag, file)
	return file, nil
}

// decodeHeaderSize decodes the tag header's synchsafe size field.
func decodeHeaderSize(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}

// mapFrames maps decoded frames into the format-agnostic Tags model.
func mapFrames(tag *id3v2.Tag, file *types.File) {
	for i := range tag.Frames {
		f := &tag.Frames[i]
		switch f.Kind {
		case id3v2.FrameText:
			mapTextFrame(f, file)

		case id3v2.FrameUserText:
			if f.Description != "" {
				file.Tags.AddRaw(f.Description, f.Text)
			}

		case id3v2.FrameComment:
			if f.ID == "USLT" {
				file.Tags.Lyrics = f.Text
			} else {
				file.Tags.Comment = f.Text
			}

		case id3v2.FrameChapter:
			file.Chapters = append(file.Chapters, types.Chapter{
				Index:     len(file.Chapters) + 1,
				Title:     f.Title(),
				StartTime: time.Duration(f.StartMS) * time.Millisecond,
				EndTime:   time.Duration(f.EndMS) * time.Millisecond,
			})

		case id3v2.FramePicture:
			file.Artwork = append(file.Artwork, types.Artwork{
				Type:        types.ArtworkType(f.PictureType),
				MIMEType:    f.MIMEType,
				Description: f.Description,
				Data:        f.Data,
			})

		case id3v2.FrameBinary:
			// Unknown frames ride along for round-trip preservation.
		}
	}
}

func mapTextFrame(f *id3v2.Frame, file *types.File) {
	text := f.Text
	switch f.ID {
	case "TIT2":
		file.Tags.Title = text
	case "TPE1":
		file.Tags.Artist = text
	case "TPE2":
		file.Tags.AlbumArtist = text
	case "TALB":
		file.Tags.Album = text
	case "TCON":
		if text != "" {
			file.Tags.Genres = append(file.Tags.Genres, text)
		}
	case "TCOM":
		if text != "" {
			file.Tags.Composers = append(file.Tags.Composers, text)
		}
	case "TYER", "TDRC":
		if year := parseYear(text); year > 0 {
			file.Tags.Year = year
		}
	case "TRCK":
		file.Tags.TrackNumber, file.Tags.TrackTotal = parseTrackNumber(text)
	case "TPOS":
		file.Tags.DiscNumber, file.Tags.DiscTotal = parseTrackNumber(text)
	case "TCOP":
		file.Tags.Copyright = text
	case "TPUB":
		file.Tags.Publisher = text
	default:
		if text != "" {
			file.Tags.AddRaw(f.ID, text)
		}
	}
}

// parseYear extracts a year from "YYYY" or "YYYY-MM-DD" style values.
func parseYear(text string) int {
	if len(text) >= 4 {
		var year int
		fmt.Sscanf(text[:4], "%d", &year)
		if year >= 1000 && year <= 9999 {
			return year
		}
	}
	return 0
}

// parseTrackNumber parses "N" or "N/Total" format.
func parseTrackNumber(text string) (number, total int) {
	parts := strings.Split(text, "/")
	if len(parts) >= 1 {
		fmt.Sscanf(parts[0], "%d", &number)
	}
	if len(parts) >= 2 {
		fmt.Sscanf(parts[1], "%d", &total)
	}
	return
}
