package watcher

import "context"

// Watcher monitors the input directory for new transcripts.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler handles one newly created transcript file.
type EventHandler func(ctx context.Context, filePath string) error
