package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/scribeflow/internal/job"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

const defaultSettleDelay = 500 * time.Millisecond

// New creates a Watcher on inputDir that runs at most maxConcurrent handlers
// at once.
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		slots:         job.NewSemaphore(maxConcurrent),
		settleDelay:   defaultSettleDelay,
	}, nil
}
