// Package audiotag reads and writes audio metadata tags.
//
// audiotag supports the three classic binary tag containers with a
// unified API: ID3v2 frame sequences (MP3), APEv2 item lists (Musepack,
// WavPack, Monkey's Audio) and ASF header objects (WMA).
//
// # Quick Start
//
// Reading metadata from an audio file:
//
//	file, err := audiotag.Open("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	fmt.Printf("%s - %s\n", file.Tags.Artist, file.Tags.Title)
//
// Writing it back:
//
//	file.Tags.Title = "New Title"
//	err = file.Save()
//
// # Round-trip Preservation
//
// Parsing keeps every record it does not understand: unknown ID3v2
// frames, APE items and ASF objects survive a read-modify-write cycle
// byte for byte. Saving recomputes every length field from the actual
// encoded content, so a file whose tags were never touched re-renders
// identically.
//
// # Error Handling
//
// audiotag distinguishes between fatal errors and warnings:
//
//   - Fatal errors prevent parsing entirely (file not found, no
//     recognized format, structurally broken tag header)
//   - Warnings indicate non-fatal issues inside the tag (a malformed
//     frame, an invalid encoding byte)
//
// Each format has a default continuation policy; WithStrictParsing and
// WithLenientParsing override it per call. Always check file.Warnings
// after a lenient parse:
//
//	if len(file.Warnings) > 0 {
//		for _, w := range file.Warnings {
//			log.Printf("warning: %s", w)
//		}
//	}
//
// # Concurrency
//
// Parse multiple files concurrently:
//
//	files, err := audiotag.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
package audiotag
