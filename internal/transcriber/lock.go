package transcriber

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

// acquire marks videoPath as active in this process and takes a lock file so
// another scribeflow process (e.g. watch mode) cannot work on it concurrently.
func (r *implRunner) acquire(videoPath string) (*flock.Flock, error) {
	r.mu.Lock()
	if _, busy := r.active[videoPath]; busy {
		r.mu.Unlock()
		return nil, apperr.Wrap(apperr.ErrBusy, "start transcription", videoPath, nil)
	}
	r.active[videoPath] = struct{}{}
	r.mu.Unlock()

	lock, err := r.lockFile(videoPath)
	if err != nil {
		r.forget(videoPath)
		return nil, err
	}
	return lock, nil
}

func (r *implRunner) lockFile(videoPath string) (*flock.Flock, error) {
	if err := os.MkdirAll(r.cfg.Paths.Temp, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.Temp, baseName(videoPath)+"-"+pathKey(videoPath)+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return nil, apperr.Wrap(apperr.ErrBusy, "start transcription", videoPath+" is locked by another process", nil)
	}
	return lock, nil
}

func (r *implRunner) release(ctx context.Context, videoPath string, lock *flock.Flock) {
	// The lock file is left in place so every process locks the same inode.
	if err := lock.Unlock(); err != nil {
		r.logger.Warn(ctx, "Failed to release lock %s: %v", lock.Path(), err)
	}
	r.forget(videoPath)
}

func (r *implRunner) forget(videoPath string) {
	r.mu.Lock()
	delete(r.active, videoPath)
	r.mu.Unlock()
}

// pathKey distinguishes videos that share a base name.
func pathKey(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:4])
}
