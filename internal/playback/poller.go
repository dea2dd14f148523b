package playback

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/logger"
	"github.com/nguyentantai21042004/scribeflow/internal/subtitle"
	"github.com/nguyentantai21042004/scribeflow/internal/timecode"
)

const DefaultInterval = 100 * time.Millisecond

// Highlight reports a change of active line. Index is 0 when no line is active.
type Highlight struct {
	Index    int
	Entry    subtitle.Entry
	Position timecode.TimeCode
}

// Poller samples a PositionSource and reports active-line changes.
type Poller struct {
	track    subtitle.Track
	source   PositionSource
	interval time.Duration
	logger   logger.Logger
}

// NewPoller returns a Poller over track. A non-positive interval selects
// DefaultInterval.
func NewPoller(track subtitle.Track, source PositionSource, interval time.Duration, log logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Poller{track: track, source: source, interval: interval, logger: log}
}

// Lookup returns the highlight for pos.
func (p *Poller) Lookup(pos timecode.TimeCode) Highlight {
	if e, ok := p.track.ActiveAt(pos); ok {
		return Highlight{Index: e.Index, Entry: e, Position: pos}
	}
	return Highlight{Position: pos}
}

// Run polls until ctx is done. The first sample is always delivered; after
// that a Highlight is sent only when the active index changes. The channel is
// closed when Run stops.
func (p *Poller) Run(ctx context.Context) <-chan Highlight {
	out := make(chan Highlight, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		last := -1
		for {
			if h, ok := p.sample(ctx); ok && h.Index != last {
				last = h.Index
				select {
				case out <- h:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}

func (p *Poller) sample(ctx context.Context) (Highlight, bool) {
	ms, err := p.source.Position()
	if err != nil {
		p.logger.Warn(ctx, "Failed to read playback position: %v", err)
		return Highlight{}, false
	}
	if ms < 0 {
		ms = 0
	}
	return p.Lookup(timecode.TimeCode(ms)), true
}

// RepeatWindow returns where to seek and how long to play to repeat e: one
// millisecond past its start, for the length of the line.
func RepeatWindow(e subtitle.Entry) (seek timecode.TimeCode, hold time.Duration) {
	return e.Start + 1, (e.End - e.Start).Duration()
}
