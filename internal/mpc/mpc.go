// Package mpc handles the formats that keep an APEv2 tag at the end of
// the file: Musepack, WavPack and Monkey's Audio. The audio stream is
// opaque to us; only the trailing tag region is decoded and rewritten.
package mpc

import (
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/audiotag/internal/ape"
	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

const id3v1Len = 128

func init() {
	for _, f := range []types.Format{types.FormatMusepack, types.FormatWavPack, types.FormatMonkeysAudio} {
		registry.Register(f, &Parser{})
		registry.RegisterWriter(f, &Writer{})
	}
}

// Parser implements registry.FormatParser for APE-tagged files.
type Parser struct{}

// Parse locates the trailing APEv2 tag and maps it into a File. The tag
// may sit either at the very end of the file or just before a legacy
// 128-byte ID3v1 block.
func (p *Parser) Parse(r io.ReaderAt, size int64, path string, policy *types.ParsePolicy) (*types.File, error) {
	sr := binutil.NewSafeReader(r, size, path)
	file := &types.File{}

	tagEnd, tagLen, err := findTag(sr, size)
	if err != nil {
		return nil, err
	}
	if tagLen == 0 {
		// A new tag written later must land before any ID3v1 trailer.
		file.Tag_ = ape.New()
		file.TagOffset = tagEnd
		return file, nil
	}

	buf := make([]byte, tagLen)
	if err := sr.ReadAt(buf, tagEnd-tagLen, "APEv2 tag"); err != nil {
		return nil, err
	}

	pol := ape.DefaultPolicy
	if policy != nil {
		pol = *policy
	}
	tag, err := ape.ParseWithPolicy(buf, pol)
	if err != nil {
		return nil, err
	}

	file.Tag_ = tag
	file.TagOffset = tagEnd - tagLen
	file.TagLength = tagLen
	file.Warnings = append(file.Warnings, tag.Warnings...)
	mapItems(tag, file)
	return file, nil
}

// findTag returns the end offset and length of the APEv2 tag region, or
// a zero length when the file carries no tag. The end offset is where
// audio data stops even when no tag follows it.
func findTag(sr *binutil.SafeReader, size int64) (tagEnd, tagLen int64, err error) {
	tagEnd = size

	// An ID3v1 block, if present, trails everything else.
	if size >= id3v1Len {
		probe := make([]byte, 3)
		if err := sr.ReadAt(probe, size-id3v1Len, "ID3v1 probe"); err != nil {
			return 0, 0, err
		}
		if string(probe) == "TAG" {
			tagEnd = size - id3v1Len
		}
	}

	if tagEnd < ape.BlockLen {
		return tagEnd, 0, nil
	}
	footer := make([]byte, ape.BlockLen)
	if err := sr.ReadAt(footer, tagEnd-ape.BlockLen, "APEv2 footer probe"); err != nil {
		return 0, 0, err
	}
	if string(footer[0:8]) != ape.Magic {
		return tagEnd, 0, nil
	}

	declared := int64(leUint32(footer[12:16]))
	tagLen = declared
	if leUint32(footer[20:24])&ape.FlagHasHeader != 0 {
		tagLen += ape.BlockLen
	}
	if tagLen > tagEnd {
		return 0, 0, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "APEv2 tag size",
			Detail: fmt.Sprintf("declared %d bytes, only %d available", tagLen, tagEnd),
		}
	}
	return tagEnd, tagLen, nil
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// mapItems maps decoded items into the format-agnostic Tags model.
func mapItems(tag *ape.Tag, file *types.File) {
	for i := range tag.Items {
		item := &tag.Items[i]
		if item.Type == ape.ItemBinary {
			if strings.EqualFold(item.Key, "Cover Art (Front)") || strings.EqualFold(item.Key, "Cover Art (Back)") {
				mapCoverArt(item, file)
			}
			continue
		}

		value := item.Value()
		switch strings.ToLower(item.Key) {
		case "title":
			file.Tags.Title = value
		case "artist":
			file.Tags.Artist = value
		case "album artist":
			file.Tags.AlbumArtist = value
		case "album":
			file.Tags.Album = value
		case "genre":
			file.Tags.Genres = append(file.Tags.Genres, item.Values...)
		case "composer":
			file.Tags.Composers = append(file.Tags.Composers, item.Values...)
		case "year":
			if year := parseYear(value); year > 0 {
				file.Tags.Year = year
			}
		case "track":
			file.Tags.TrackNumber, file.Tags.TrackTotal = parseTrackNumber(value)
		case "disc":
			file.Tags.DiscNumber, file.Tags.DiscTotal = parseTrackNumber(value)
		case "comment":
			file.Tags.Comment = value
		case "copyright":
			file.Tags.Copyright = value
		case "publisher", "label":
			file.Tags.Publisher = value
		case "lyrics":
			file.Tags.Lyrics = value
		default:
			for _, v := range item.Values {
				file.Tags.AddRaw(item.Key, v)
			}
		}
	}
}

// mapCoverArt splits a cover art item into its description and image
// parts. The binary value starts with a null-terminated filename.
func mapCoverArt(item *ape.Item, file *types.File) {
	data := item.Data
	desc := ""
	if i := indexByte(data, 0); i >= 0 {
		desc = string(data[:i])
		data = data[i+1:]
	}

	artType := types.ArtworkFrontCover
	if strings.EqualFold(item.Key, "Cover Art (Back)") {
		artType = types.ArtworkBackCover
	}
	file.Artwork = append(file.Artwork, types.Artwork{
		Type:        artType,
		MIMEType:    sniffImageMIME(data),
		Description: desc,
		Data:        data,
	})
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// sniffImageMIME detects common image formats from their magic bytes.
func sniffImageMIME(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case len(data) >= 8 && string(data[0:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	case len(data) >= 6 && (string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a"):
		return "image/gif"
	}
	return "application/octet-stream"
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
