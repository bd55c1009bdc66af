// Package wma handles Windows Media files: the ASF Header Object at the
// front of the file is decoded by internal/asf and its Content
// Description and Extended Content Description children are mapped into
// the format-agnostic Tags model.
package wma

import (
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/audiotag/internal/asf"
	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

const headerLen = 30

func init() {
	registry.Register(types.FormatWMA, &Parser{})
	registry.RegisterWriter(types.FormatWMA, &Writer{})
}

// Parser implements registry.FormatParser for WMA files.
type Parser struct{}

// Parse reads the ASF Header Object and maps it into a File.
func (p *Parser) Parse(r io.ReaderAt, size int64, path string, policy *types.ParsePolicy) (*types.File, error) {
	sr := binutil.NewSafeReader(r, size, path)
	file := &types.File{}

	head := make([]byte, headerLen)
	if err := sr.ReadAt(head, 0, "ASF header object"); err != nil {
		return nil, err
	}

	headerSize := int64(leUint64(head[16:24]))
	if headerSize < headerLen || headerSize > size {
		return nil, &types.ParseError{
			Kind:   types.ErrSizeOverflow,
			What:   "ASF header object size",
			Detail: fmt.Sprintf("declared %d bytes, file has %d", headerSize, size),
		}
	}

	buf := make([]byte, headerSize)
	if err := sr.ReadAt(buf, 0, "ASF header object"); err != nil {
		return nil, err
	}

	pol := asf.DefaultPolicy
	if policy != nil {
		pol = *policy
	}
	tag, err := asf.ParseWithPolicy(buf, pol)
	if err != nil {
		return nil, err
	}

	file.Tag_ = tag
	file.TagOffset = 0
	file.TagLength = headerSize
	file.Warnings = append(file.Warnings, tag.Warnings...)
	mapObjects(tag, file)
	return file, nil
}

func leUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// mapObjects maps the Content Description and Extended Content
// Description children into the format-agnostic Tags model.
func mapObjects(tag *asf.Tag, file *types.File) {
	if cd := tag.ContentDescription(); cd != nil {
		file.Tags.Title = cd.Title
		file.Tags.Artist = cd.Author
		file.Tags.Copyright = cd.Copyright
		file.Tags.Comment = cd.Description
	}

	for i := range tag.Objects {
		obj := &tag.Objects[i]
		if obj.Kind != asf.ObjectExtendedContent {
			continue
		}
		for j := range obj.Descriptors {
			mapDescriptor(&obj.Descriptors[j], file)
		}
	}
}

func mapDescriptor(d *asf.Descriptor, file *types.File) {
	switch d.Name {
	case "WM/AlbumTitle":
		file.Tags.Album = d.Text
	case "WM/AlbumArtist":
		file.Tags.AlbumArtist = d.Text
	case "WM/Genre":
		if d.Text != "" {
			file.Tags.Genres = append(file.Tags.Genres, d.Text)
		}
	case "WM/Composer":
		if d.Text != "" {
			file.Tags.Composers = append(file.Tags.Composers, d.Text)
		}
	case "WM/Year":
		if year := parseYear(d.Text); year > 0 {
			file.Tags.Year = year
		}
	case "WM/TrackNumber":
		switch d.Type {
		case asf.TypeUnicode:
			file.Tags.TrackNumber, file.Tags.TrackTotal = parseTrackNumber(d.Text)
		case asf.TypeDword, asf.TypeQword, asf.TypeWord:
			file.Tags.TrackNumber = int(d.Uint)
		}
	case "WM/PartOfSet":
		file.Tags.DiscNumber, file.Tags.DiscTotal = parseTrackNumber(d.Text)
	case "WM/Publisher":
		file.Tags.Publisher = d.Text
	case "WM/Lyrics":
		file.Tags.Lyrics = d.Text
	case "WM/Picture":
		pic, err := asf.DecodePicture(d.Data)
		if err != nil {
			file.Warnings = append(file.Warnings, types.Warning{
				Stage:   "WM/Picture",
				Message: err.Error(),
			})
			return
		}
		file.Artwork = append(file.Artwork, types.Artwork{
			Type:        types.ArtworkType(pic.Type),
			MIMEType:    pic.MIMEType,
			Description: pic.Description,
			Data:        pic.Data,
		})
	default:
		if d.Type == asf.TypeUnicode && d.Text != "" {
			file.Tags.AddRaw(d.Name, d.Text)
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
