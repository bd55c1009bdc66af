package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag/internal/ape"
	"github.com/simonhull/audiotag/internal/asf"
	"github.com/simonhull/audiotag/internal/id3v2"
)

func recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records <file>...",
		Short: "Print the raw record tree of each tag container",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				file, err := openFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Printf("%s (%s, tag %d bytes at offset %d)\n",
					file.Path, file.Format, file.TagLength, file.TagOffset)
				dumpRecords(file.Tag_)
				file.Close()
			}
			return nil
		},
	}
}

func dumpRecords(tag interface{}) {
	switch t := tag.(type) {
	case *id3v2.Tag:
		fmt.Printf("  ID3v2.%d.%d, %d frames\n", t.Version, t.Revision, len(t.Frames))
		for i := range t.Frames {
			dumpFrame(&t.Frames[i], "  ")
		}
	case *ape.Tag:
		fmt.Printf("  APEv2 (version %d), %d items\n", t.Version, len(t.Items))
		for i := range t.Items {
			item := &t.Items[i]
			fmt.Printf("  %-24s %-8s %s\n", item.Key, item.Type, previewItem(item))
		}
	case *asf.Tag:
		fmt.Printf("  ASF header, %d objects\n", len(t.Objects))
		for i := range t.Objects {
			dumpObject(&t.Objects[i])
		}
	default:
		fmt.Println("  (no tag)")
	}
}

func dumpFrame(f *id3v2.Frame, indent string) {
	switch f.Kind {
	case id3v2.FrameText, id3v2.FrameComment:
		fmt.Printf("%s%s %s %q\n", indent, f.ID, f.Encoding, preview(f.Text))
	case id3v2.FrameUserText:
		fmt.Printf("%s%s %s %q = %q\n", indent, f.ID, f.Encoding, f.Description, preview(f.Text))
	case id3v2.FrameChapter:
		fmt.Printf("%s%s %q [%dms - %dms]\n", indent, f.ID, f.ElementID, f.StartMS, f.EndMS)
		for i := range f.SubFrames {
			dumpFrame(&f.SubFrames[i], indent+"  ")
		}
	case id3v2.FramePicture:
		fmt.Printf("%s%s %s %q (%d bytes)\n", indent, f.ID, f.MIMEType, f.Description, len(f.Data))
	default:
		fmt.Printf("%s%s (%d bytes)\n", indent, f.ID, len(f.Data))
	}
}

func previewItem(item *ape.Item) string {
	if item.Type == ape.ItemBinary {
		return fmt.Sprintf("(%d bytes)", len(item.Data))
	}
	return fmt.Sprintf("%q", preview(strings.Join(item.Values, ", ")))
}

func dumpObject(obj *asf.Object) {
	switch obj.Kind {
	case asf.ObjectContentDescription:
		fmt.Printf("  %s\n", obj.ID.Name())
		cd := obj.Content
		for _, pair := range [][2]string{
			{"Title", cd.Title}, {"Author", cd.Author}, {"Copyright", cd.Copyright},
			{"Description", cd.Description}, {"Rating", cd.Rating},
		} {
			if pair[1] != "" {
				fmt.Printf("    %-12s %q\n", pair[0], preview(pair[1]))
			}
		}
	case asf.ObjectExtendedContent:
		fmt.Printf("  %s, %d descriptors\n", obj.ID.Name(), len(obj.Descriptors))
		for i := range obj.Descriptors {
			d := &obj.Descriptors[i]
			fmt.Printf("    %-24s %-8s %s\n", d.Name, d.Type, preview(d.Value()))
		}
	default:
		fmt.Printf("  %s (%d bytes)\n", obj.ID.Name(), len(obj.Data))
	}
}

// preview truncates long values and strips control characters.
func preview(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
