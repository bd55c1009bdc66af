package id3v2

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simonhull/audiotag/internal/types"
)

// buildTag assembles a v2.4 tag from raw frame bytes.
func buildTag(t *testing.T, frames ...[]byte) []byte {
	t.Helper()
	var body []byte
	for _, f := range frames {
		body = append(body, f...)
	}
	size, err := encodeSynchsafe(uint32(len(body)))
	if err != nil {
		t.Fatalf("tag too large: %v", err)
	}
	out := append([]byte("ID3"), 4, 0, 0)
	out = append(out, size...)
	return append(out, body...)
}

// buildFrame assembles one v2.4 frame with a synchsafe size field.
func buildFrame(t *testing.T, id string, payload []byte) []byte {
	t.Helper()
	size, err := encodeSynchsafe(uint32(len(payload)))
	if err != nil {
		t.Fatalf("frame too large: %v", err)
	}
	out := append([]byte(id), size...)
	out = append(out, 0, 0)
	return append(out, payload...)
}

func TestParse_TextFrame(t *testing.T) {
	payload := append([]byte{3}, "Test Song"...)
	data := buildTag(t, buildFrame(t, "TIT2", payload))

	tag, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tag.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(tag.Frames))
	}
	f := tag.Frames[0]
	if f.ID != "TIT2" || f.Kind != FrameText {
		t.Errorf("expected TIT2 text frame, got %s kind %d", f.ID, f.Kind)
	}
	if f.Text != "Test Song" {
		t.Errorf("expected %q, got %q", "Test Song", f.Text)
	}
}

func TestParse_Render_ByteIdentical(t *testing.T) {
	data := buildTag(t,
		buildFrame(t, "TIT2", append([]byte{3}, "Test Song"...)),
		buildFrame(t, "TPE1", append([]byte{3}, "Test Artist"...)),
		buildFrame(t, "PRIV", []byte{0xDE, 0xAD, 0xBE, 0xEF}),
	)

	tag, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := tag.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("re-render is not byte-identical:\n in: % x\nout: % x", data, out)
	}
}

func TestParse_UnknownFramePreserved(t *testing.T) {
	opaque := []byte{0x01, 0x02, 0x00, 0xFF}
	data := buildTag(t, buildFrame(t, "XYZW", opaque))

	tag, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tag.Frames) != 1 || tag.Frames[0].Kind != FrameBinary {
		t.Fatalf("expected one binary frame, got %+v", tag.Frames)
	}
	if !bytes.Equal(tag.Frames[0].Data, opaque) {
		t.Errorf("expected % x, got % x", opaque, tag.Frames[0].Data)
	}
}

func TestParse_InvalidMagic(t *testing.T) {
	_, err := Parse([]byte("NOT A TAG AT ALL"))
	if !errors.Is(err, types.ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestParse_UnsupportedVersion(t *testing.T) {
	data := append([]byte("ID3"), 2, 0, 0, 0, 0, 0, 0)
	_, err := Parse(data)
	if !errors.Is(err, types.ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestParse_DeclaredSizePastBuffer(t *testing.T) {
	data := append([]byte("ID3"), 4, 0, 0)
	size, _ := encodeSynchsafe(1000)
	data = append(data, size...)
	data = append(data, 0x00, 0x00) // far fewer than 1000 bytes

	_, err := Parse(data)
	if !errors.Is(err, types.ErrSizeOverflow) {
		t.Fatalf("expected ErrSizeOverflow, got %v", err)
	}
}

func TestParse_PaddingStopsFrameScan(t *testing.T) {
	frame := buildFrame(t, "TIT2", append([]byte{3}, "Title"...))
	padded := append(frame, make([]byte, 32)...)
	data := buildTag(t, padded)

	tag, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tag.Frames) != 1 {
		t.Errorf("expected 1 frame, got %d", len(tag.Frames))
	}
	if len(tag.Warnings) != 0 {
		t.Errorf("padding should not warn: %v", tag.Warnings)
	}
}

func TestParse_BadFrameID_Lenient(t *testing.T) {
	good := buildFrame(t, "TIT2", append([]byte{3}, "Title"...))
	bad := buildFrame(t, "ti!2", append([]byte{3}, "x"...))
	data := buildTag(t, good, bad)

	tag, err := ParseWithPolicy(data, types.ParseLenient)
	if err != nil {
		t.Fatalf("lenient parse should not fail: %v", err)
	}
	if len(tag.Frames) != 1 {
		t.Errorf("expected the valid prefix (1 frame), got %d", len(tag.Frames))
	}
	if len(tag.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", tag.Warnings)
	}
}

func TestParse_BadFrameID_Strict(t *testing.T) {
	bad := buildFrame(t, "ti!2", append([]byte{3}, "x"...))
	data := buildTag(t, bad)

	_, err := ParseWithPolicy(data, types.ParseStrict)
	if !errors.Is(err, types.ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestParse_OversizedFrame_NoHugeAllocation(t *testing.T) {
	// A frame claiming far more payload than the tag holds must fail
	// cleanly, not allocate the claimed size.
	frame := append([]byte("TIT2"), 0x07, 0x7F, 0x7F, 0x7F, 0, 0)
	frame = append(frame, 3, 'x')
	data := buildTag(t, frame)

	tag, err := ParseWithPolicy(data, types.ParseLenient)
	if err != nil {
		t.Fatalf("lenient parse should not fail: %v", err)
	}
	if len(tag.Frames) != 0 {
		t.Errorf("expected no frames, got %d", len(tag.Frames))
	}
	if len(tag.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", tag.Warnings)
	}

	_, err = ParseWithPolicy(data, types.ParseStrict)
	if !errors.Is(err, types.ErrTruncated) {
		t.Fatalf("expected ErrTruncated under strict policy, got %v", err)
	}
}

func TestParse_TruncationNeverPanics(t *testing.T) {
	data := buildTag(t,
		buildFrame(t, "TIT2", append([]byte{3}, "Test Song"...)),
		buildFrame(t, "TXXX", append(append([]byte{3}, "desc"...), append([]byte{0}, "value"...)...)),
		buildFrame(t, "COMM", append([]byte{3, 'e', 'n', 'g', 0}, "hi"...)),
	)

	for i := 0; i < len(data); i++ {
		// Every truncated prefix must produce an error or a partial
		// tag, never a panic.
		ParseWithPolicy(data[:i], types.ParseLenient) //nolint:errcheck
		ParseWithPolicy(data[:i], types.ParseStrict)  //nolint:errcheck
	}
}

func TestParse_CommentFrame(t *testing.T) {
	payload := append([]byte{3, 'e', 'n', 'g'}, "note"...)
	payload = append(payload, 0)
	payload = append(payload, "the comment"...)
	data := buildTag(t, buildFrame(t, "COMM", payload))

	tag, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := tag.Frames[0]
	if f.Language != "eng" || f.Description != "note" || f.Text != "the comment" {
		t.Errorf("unexpected comment: %+v", f)
	}
}

func TestParse_CommentWithoutDescriptionTerminator(t *testing.T) {
	// Some producers write COMM without the description terminator. The
	// whole payload after the language decodes as comment text.
	payload := append([]byte{3, 'e', 'n', 'g'}, "just text"...)
	data := buildTag(t, buildFrame(t, "COMM", payload))

	tag, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := tag.Frames[0]
	if f.Description != "" || f.Text != "just text" {
		t.Errorf("unexpected comment: %+v", f)
	}
}

func TestParse_ChapterFrame(t *testing.T) {
	payload := append([]byte("ch1"), 0)
	payload = append(payload,
		0x00, 0x00, 0x00, 0x00, // start ms
		0x00, 0x00, 0x75, 0x30, // end ms = 30000
		0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF,
	)
	payload = append(payload, buildFrame(t, "TIT2", append([]byte{3}, "Intro"...))...)
	// Trailing garbage after the last subframe must not invalidate the
	// chapter.
	payload = append(payload, 0xDE, 0xAD, 0xBE)

	data := buildTag(t, buildFrame(t, "CHAP", payload))
	tag, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := tag.Frames[0]
	if f.Kind != FrameChapter || f.ElementID != "ch1" {
		t.Fatalf("unexpected chapter frame: %+v", f)
	}
	if f.EndMS != 30000 {
		t.Errorf("expected end 30000ms, got %d", f.EndMS)
	}
	if f.Title() != "Intro" {
		t.Errorf("expected title from TIT2 subframe, got %q", f.Title())
	}
}

func TestParse_ChapterMissingElementTerminator(t *testing.T) {
	data := buildTag(t, buildFrame(t, "CHAP", []byte("no terminator here")))

	_, err := ParseWithPolicy(data, types.ParseStrict)
	if !errors.Is(err, types.ErrMissingTerminator) {
		t.Fatalf("expected ErrMissingTerminator, got %v", err)
	}
}

func TestParse_V23FrameSizes(t *testing.T) {
	// v2.3 frame sizes are plain big-endian, not synchsafe.
	payload := append([]byte{0}, "Old School"...)
	frame := append([]byte("TIT2"), 0x00, 0x00, 0x00, byte(len(payload)), 0, 0)
	frame = append(frame, payload...)

	size, _ := encodeSynchsafe(uint32(len(frame)))
	data := append([]byte("ID3"), 3, 0, 0)
	data = append(data, size...)
	data = append(data, frame...)

	tag, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Version != 3 {
		t.Fatalf("expected version 3, got %d", tag.Version)
	}
	if tag.Frames[0].Text != "Old School" {
		t.Errorf("expected %q, got %q", "Old School", tag.Frames[0].Text)
	}

	// A v2.3 tag renders back as v2.3, byte-identical.
	out, err := tag.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("v2.3 re-render is not byte-identical")
	}
}

func TestRender_EmptyTag(t *testing.T) {
	out, err := New().Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != headerLen {
		t.Errorf("expected %d-byte header only, got %d bytes", headerLen, len(out))
	}
}

func TestRender_RecomputesFrameSizes(t *testing.T) {
	data := buildTag(t, buildFrame(t, "TIT2", append([]byte{3}, "Short"...)))
	tag, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tag.SetText("TIT2", "A much longer title than before")
	out, err := tag.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	reparsed, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got := reparsed.Text("TIT2"); got != "A much longer title than before" {
		t.Errorf("expected updated title, got %q", got)
	}
}

func TestSetText_ChoosesEncoding(t *testing.T) {
	tag := New()
	tag.SetText("TIT2", "plain")
	tag.SetText("TPE1", "坂本龍一")

	if tag.Frame("TIT2").Encoding.String() != "ISO-8859-1" {
		t.Errorf("ASCII text should use Latin-1, got %v", tag.Frame("TIT2").Encoding)
	}
	if tag.Frame("TPE1").Encoding.String() != "UTF-8" {
		t.Errorf("CJK text should use UTF-8, got %v", tag.Frame("TPE1").Encoding)
	}
}

func TestRemove(t *testing.T) {
	tag := New()
	tag.SetText("TIT2", "one")
	tag.SetText("TPE1", "two")
	tag.Remove("tit2")

	if tag.Frame("TIT2") != nil {
		t.Error("TIT2 should be removed (case-insensitive)")
	}
	if tag.Frame("TPE1") == nil {
		t.Error("TPE1 should survive")
	}
}
