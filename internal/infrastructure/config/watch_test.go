package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWatchedFile(t *testing.T) {
	assert.True(t, isWatchedFile("configs/controller.yaml"))
	assert.True(t, isWatchedFile("configs/stage.YML"))
	assert.True(t, isWatchedFile("scripts/item.tengo"))
	assert.False(t, isWatchedFile("configs/notes.txt"))
	assert.False(t, isWatchedFile("configs/controller.yaml~"))
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ControllerFileName)
	require.NoError(t, os.WriteFile(path, []byte("movement: {}\n"), 0o644))

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, os.WriteFile(path, []byte("movement: {moveSpeed: 3}\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, path, name)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := w.Poll()
	assert.False(t, ok)
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
