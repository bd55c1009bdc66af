package types

import "time"

// Chapter represents a chapter marker in an audio file.
//
// Chapters come from ID3v2 CHAP frames (the only chapter carrier among
// the supported formats). Access them via file.Chapters:
//
//	file, _ := audiotag.Open("audiobook.mp3")
//	for _, chapter := range file.Chapters {
//	    fmt.Printf("[%d] %s: %s - %s\n",
//	        chapter.Index,
//	        chapter.Title,
//	        chapter.StartTime,
//	        chapter.EndTime)
//	}
type Chapter struct {
	Index     int           `json:"index"`
	Title     string        `json:"title"`
	StartTime time.Duration `json:"start_time"`
	EndTime   time.Duration `json:"end_time"`
}
