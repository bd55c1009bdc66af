package audiotag

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/ape"
	"github.com/simonhull/audiotag/internal/id3v2"
)

// fakeMPEGAudio stands in for an audio stream in synthesized test files.
var fakeMPEGAudio = []byte{0xFF, 0xFB, 0x90, 0x64, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}

// writeTestMP3 builds an MP3 file with an ID3v2.4 tag in dir and returns
// its path.
func writeTestMP3(t *testing.T, dir, name string, set func(*id3v2.Tag)) string {
	t.Helper()

	tag := id3v2.New()
	if set != nil {
		set(tag)
	}
	rendered, err := tag.Render()
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, append(rendered, fakeMPEGAudio...), 0o644))
	return path
}

// writeTestMPC builds a Musepack file with a trailing APEv2 tag in dir
// and returns its path.
func writeTestMPC(t *testing.T, dir, name string, set func(*ape.Tag)) string {
	t.Helper()

	tag := ape.New()
	if set != nil {
		set(tag)
	}
	rendered, err := tag.Render()
	require.NoError(t, err)

	data := append([]byte("MPCK"), fakeMPEGAudio...)
	data = append(data, rendered...)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpen_MP3(t *testing.T) {
	path := writeTestMP3(t, t.TempDir(), "song.mp3", func(tag *id3v2.Tag) {
		tag.SetText("TIT2", "Test Song")
		tag.SetText("TPE1", "Test Artist")
		tag.SetText("TALB", "Test Album")
		tag.SetText("TRCK", "3/12")
	})

	file, err := Open(path)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, FormatMP3, file.Format)
	assert.Equal(t, "Test Song", file.Tags.Title)
	assert.Equal(t, "Test Artist", file.Tags.Artist)
	assert.Equal(t, "Test Album", file.Tags.Album)
	assert.Equal(t, 3, file.Tags.TrackNumber)
	assert.Equal(t, 12, file.Tags.TrackTotal)
	assert.Empty(t, file.Warnings)
}

func TestOpen_Musepack(t *testing.T) {
	path := writeTestMPC(t, t.TempDir(), "song.mpc", func(tag *ape.Tag) {
		require.NoError(t, tag.SetText("Title", "Test Song"))
		require.NoError(t, tag.SetText("Artist", "Test Artist"))
		require.NoError(t, tag.SetText("Genre", "Rock", "Jazz"))
	})

	file, err := Open(path)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, FormatMusepack, file.Format)
	assert.Equal(t, "Test Song", file.Tags.Title)
	assert.Equal(t, "Test Artist", file.Tags.Artist)
	assert.Equal(t, []string{"Rock", "Jazz"}, file.Tags.Genres)
}

func TestOpen_UntaggedMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.mp3")
	require.NoError(t, os.WriteFile(path, fakeMPEGAudio, 0o644))

	file, err := Open(path)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, FormatMP3, file.Format)
	assert.Empty(t, file.Tags.Title)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.mp3"))
	require.Error(t, err)
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVE"), 0o644))

	_, err := Open(path)
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
}

func TestOpenContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := OpenContext(ctx, "anything.mp3")
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpenMany(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		title := name
		paths = append(paths, writeTestMP3(t, dir, name, func(tag *id3v2.Tag) {
			tag.SetText("TIT2", title)
		}))
	}

	files, err := OpenMany(context.Background(), paths...)
	require.NoError(t, err)
	require.Len(t, files, 3)
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	// Order matches the input paths.
	assert.Equal(t, "a.mp3", files[0].Tags.Title)
	assert.Equal(t, "b.mp3", files[1].Tags.Title)
	assert.Equal(t, "c.mp3", files[2].Tags.Title)
}

func TestOpenMany_OneFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeTestMP3(t, dir, "good.mp3", nil)
	bad := filepath.Join(dir, "missing.mp3")

	_, err := OpenMany(context.Background(), good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.mp3")
}

func TestOpenMany_Empty(t *testing.T) {
	files, err := OpenMany(context.Background())
	require.NoError(t, err)
	assert.Nil(t, files)
}
