// Package playback follows a media player's position and reports which
// subtitle line is active.
package playback

import (
	"sync"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/timecode"
)

// PositionSource reports the current playback position in milliseconds.
type PositionSource interface {
	Position() (int64, error)
}

// PositionFunc adapts a function to PositionSource.
type PositionFunc func() (int64, error)

func (f PositionFunc) Position() (int64, error) { return f() }

// Clock is a PositionSource that advances with wall time from a start offset.
// It stands in for a player when subtitles are followed without one.
type Clock struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	offset  timecode.TimeCode
	paused  bool
}

// NewClock returns a running clock positioned at offset.
func NewClock(offset timecode.TimeCode) *Clock {
	return newClock(offset, time.Now)
}

func newClock(offset timecode.TimeCode, now func() time.Time) *Clock {
	return &Clock{now: now, started: now(), offset: offset}
}

func (c *Clock) Position() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(c.positionLocked()), nil
}

func (c *Clock) positionLocked() timecode.TimeCode {
	if c.paused {
		return c.offset
	}
	return c.offset + timecode.FromDuration(c.now().Sub(c.started))
}

// Seek moves the clock to pos without changing its paused state.
func (c *Clock) Seek(pos timecode.TimeCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = pos
	c.started = c.now()
}

// Pause freezes the clock at its current position.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		c.offset = c.positionLocked()
		c.paused = true
	}
}

// Resume restarts a paused clock.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		c.started = c.now()
		c.paused = false
	}
}
