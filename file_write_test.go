package audiotag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/asf"
	"github.com/simonhull/audiotag/internal/id3v2"
)

func TestSave_MP3RoundTrip(t *testing.T) {
	path := writeTestMP3(t, t.TempDir(), "song.mp3", func(tag *id3v2.Tag) {
		tag.SetText("TIT2", "Original Title")
		tag.SetText("TPE1", "Artist")
	})

	file, err := Open(path)
	require.NoError(t, err)

	file.Tags.Title = "New Title"
	file.Tags.Album = "New Album"
	require.NoError(t, file.Save(WithValidation()))
	require.NoError(t, file.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, "New Title", reopened.Tags.Title)
	assert.Equal(t, "Artist", reopened.Tags.Artist)
	assert.Equal(t, "New Album", reopened.Tags.Album)

	// The audio stream after the tag survives untouched.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fakeMPEGAudio, data[len(data)-len(fakeMPEGAudio):])
}

func TestSave_PreservesUnknownFrames(t *testing.T) {
	private := []byte("owner\x00opaque payload")
	path := writeTestMP3(t, t.TempDir(), "song.mp3", func(tag *id3v2.Tag) {
		tag.SetText("TIT2", "Title")
		tag.SetFrame(id3v2.Frame{ID: "PRIV", Kind: id3v2.FrameBinary, Data: private})
	})

	file, err := Open(path)
	require.NoError(t, err)
	file.Tags.Title = "Edited"
	require.NoError(t, file.Save())
	require.NoError(t, file.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	tag, ok := reopened.Tag_.(*id3v2.Tag)
	require.True(t, ok)
	frame := tag.Frame("PRIV")
	require.NotNil(t, frame)
	assert.Equal(t, private, frame.Data)
}

func TestSaveAs(t *testing.T) {
	dir := t.TempDir()
	path := writeTestMP3(t, dir, "song.mp3", func(tag *id3v2.Tag) {
		tag.SetText("TIT2", "Title")
	})

	file, err := Open(path)
	require.NoError(t, err)
	defer file.Close()

	out := filepath.Join(dir, "copy.mp3")
	file.Tags.Artist = "Someone"
	require.NoError(t, file.SaveAs(out))

	// Original stays as parsed, copy has the edit.
	orig, err := Open(path)
	require.NoError(t, err)
	defer orig.Close()
	assert.Empty(t, orig.Tags.Artist)

	copied, err := Open(out)
	require.NoError(t, err)
	defer copied.Close()
	assert.Equal(t, "Someone", copied.Tags.Artist)
}

func TestSave_WithBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeTestMP3(t, dir, "song.mp3", func(tag *id3v2.Tag) {
		tag.SetText("TIT2", "Before")
	})

	file, err := Open(path)
	require.NoError(t, err)
	file.Tags.Title = "After"
	require.NoError(t, file.Save(WithBackup(".bak")))
	require.NoError(t, file.Close())

	backup, err := Open(path + ".bak")
	require.NoError(t, err)
	defer backup.Close()
	assert.Equal(t, "Before", backup.Tags.Title)

	saved, err := Open(path)
	require.NoError(t, err)
	defer saved.Close()
	assert.Equal(t, "After", saved.Tags.Title)
}

func TestSave_MusepackRoundTrip(t *testing.T) {
	path := writeTestMPC(t, t.TempDir(), "song.mpc", nil)

	file, err := Open(path)
	require.NoError(t, err)
	file.Tags.Title = "Track Title"
	file.Tags.Genres = []string{"Rock", "Jazz"}
	require.NoError(t, file.Save(WithValidation()))
	require.NoError(t, file.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, "Track Title", reopened.Tags.Title)
	assert.Equal(t, []string{"Rock", "Jazz"}, reopened.Tags.Genres)

	// The audio head stays in place.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("MPCK"), data[:4])
}

func TestSave_WMARoundTrip(t *testing.T) {
	tag := asf.New()
	cd := tag.EnsureContentDescription()
	cd.Title = "Old Title"
	rendered, err := tag.Render()
	require.NoError(t, err)

	fakeStream := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	path := filepath.Join(t.TempDir(), "song.wma")
	require.NoError(t, os.WriteFile(path, append(rendered, fakeStream...), 0o644))

	file, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "Old Title", file.Tags.Title)

	file.Tags.Title = "New Title"
	file.Tags.Album = "Album"
	require.NoError(t, file.Save())
	require.NoError(t, file.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, "New Title", reopened.Tags.Title)
	assert.Equal(t, "Album", reopened.Tags.Album)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fakeStream, data[len(data)-len(fakeStream):])
}

func TestSave_PreserveModTime(t *testing.T) {
	path := writeTestMP3(t, t.TempDir(), "song.mp3", nil)

	before, err := os.Stat(path)
	require.NoError(t, err)

	file, err := Open(path)
	require.NoError(t, err)
	file.Tags.Title = "Edited"
	require.NoError(t, file.Save(WithPreserveModTime()))
	require.NoError(t, file.Close())

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}
