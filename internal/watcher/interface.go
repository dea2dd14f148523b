package watcher

import "context"

// Watcher monitors a directory for new video files.
type Watcher interface {
	// Start blocks until ctx is done, handing each new video to the handler.
	// Handlers still running when ctx ends are waited for.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one newly detected video file.
type EventHandler func(ctx context.Context, filePath string) error
