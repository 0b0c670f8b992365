//go:build !ci

package sound

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWav(t *testing.T, path string, rate beep.SampleRate) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(int(rate)/10), format))
}

func TestSoundManager_LoadSoundFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeWav(t, filepath.Join(dir, SoundStone+".wav"), 44100)
	writeWav(t, filepath.Join(dir, SoundWin+".wav"), 22050)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.wav"), []byte("not a wav"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))

	sm := NewSoundManager(dir)
	require.NoError(t, sm.loadSoundFiles(beep.SampleRate(44100)))

	assert.Len(t, sm.buffers, 2)
	assert.Contains(t, sm.buffers, SoundStone)
	assert.Contains(t, sm.buffers, SoundWin)
	assert.Positive(t, sm.buffers[SoundWin].Len())
}

func TestSoundManager_MissingDir(t *testing.T) {
	t.Parallel()

	sm := NewSoundManager(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, sm.loadSoundFiles(beep.SampleRate(44100)))
	assert.Empty(t, sm.buffers)
}

func TestNewSoundManager_DefaultDir(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultDir, NewSoundManager("").dir)
}
