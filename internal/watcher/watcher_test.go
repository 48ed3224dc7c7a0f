package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTranscriptFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/in/meeting.txt", true},
		{"/in/MEETING.TXT", true},
		{"/in/.meeting.txt", false},
		{"/in/meeting.md", false},
		{"/in/meeting", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isTranscriptFile(tt.path), tt.path)
	}
}

func TestWatcherHandlesNewTranscripts(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 4)

	w, err := New(dir, func(_ context.Context, path string) error {
		handled <- path
		return nil
	}, logger.Nop(), 1)
	require.NoError(t, err)
	defer w.Stop()
	w.(*implWatcher).settleDelay = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644))
	want := filepath.Join(dir, "weekly.txt")
	require.NoError(t, os.WriteFile(want, []byte("Alice(1) hi"), 0644))

	select {
	case got := <-handled:
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("transcript was not handled")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), nil, logger.Nop(), 0)
	assert.Error(t, err)
}
