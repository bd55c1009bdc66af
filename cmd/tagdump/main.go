// tagdump inspects audio metadata tags from the command line.
//
// Usage:
//
//	tagdump tags song.mp3 album/*.wma
//	tagdump records song.mp3
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

var strict bool

func main() {
	root := &cobra.Command{
		Use:   "tagdump",
		Short: "Inspect audio metadata tags",
		Long: `tagdump reads the tag containers of MP3 (ID3v2), WMA (ASF) and
APE-tagged files (Musepack, WavPack, Monkey's Audio) and prints either
the mapped metadata or the raw record tree.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&strict, "strict", false, "abort on the first malformed record")

	root.AddCommand(tagsCmd(), recordsCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openFile(path string) (*audiotag.File, error) {
	var opts []audiotag.Option
	if strict {
		opts = append(opts, audiotag.WithStrictParsing())
	}
	return audiotag.Open(path, opts...)
}

func tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <file>...",
		Short: "Print mapped metadata fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				file, err := openFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				printTags(file)
				file.Close()
			}
			return nil
		},
	}
}

func printTags(f *audiotag.File) {
	fmt.Printf("%s (%s, %d bytes)\n", f.Path, f.Format, f.Size)

	field := func(name, value string) {
		if value != "" {
			fmt.Printf("  %-12s %s\n", name, value)
		}
	}
	field("Title", f.Tags.Title)
	field("Artist", f.Tags.Artist)
	field("Album", f.Tags.Album)
	field("AlbumArtist", f.Tags.AlbumArtist)
	if len(f.Tags.Genres) > 0 {
		fmt.Printf("  %-12s %v\n", "Genres", f.Tags.Genres)
	}
	if len(f.Tags.Composers) > 0 {
		fmt.Printf("  %-12s %v\n", "Composers", f.Tags.Composers)
	}
	if f.Tags.Year > 0 {
		fmt.Printf("  %-12s %d\n", "Year", f.Tags.Year)
	}
	if f.Tags.TrackNumber > 0 {
		fmt.Printf("  %-12s %d/%d\n", "Track", f.Tags.TrackNumber, f.Tags.TrackTotal)
	}
	if f.Tags.DiscNumber > 0 {
		fmt.Printf("  %-12s %d/%d\n", "Disc", f.Tags.DiscNumber, f.Tags.DiscTotal)
	}
	field("Comment", f.Tags.Comment)
	field("Copyright", f.Tags.Copyright)
	field("Publisher", f.Tags.Publisher)

	for _, ch := range f.Chapters {
		fmt.Printf("  chapter %d: %q [%s - %s]\n", ch.Index, ch.Title, ch.StartTime, ch.EndTime)
	}
	for _, art := range f.Artwork {
		fmt.Printf("  artwork: %s\n", art)
	}
	for _, w := range f.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := audiotag.GetVersionInfo()
			fmt.Printf("tagdump %s (commit %s, built %s, %s)\n",
				info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
		},
	}
}
