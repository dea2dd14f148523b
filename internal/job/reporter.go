package job

import (
	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

// Reporter is handed to a RunFunc to publish progress and observe cancellation.
// It must only be used from the job's goroutine.
type Reporter struct {
	h *Handle
}

// Progress moves the job to state and reports pct. Progress never decreases
// and is clamped to [0, 100].
func (r *Reporter) Progress(state State, pct int) {
	r.report(state, pct, nil)
}

// Step reports done of total units of work. The derived percentage stays
// below 100 until the job itself finishes.
func (r *Reporter) Step(state State, done, total int) {
	pct := 99
	if total > 0 {
		pct = min(99, 100*done/total)
	}
	r.report(state, pct, &[2]int{done, total})
}

func (r *Reporter) report(state State, pct int, steps *[2]int) {
	h := r.h
	h.mu.Lock()
	h.state = state
	if steps != nil {
		h.steps = *steps
	}
	if pct > 100 {
		pct = 100
	}
	if pct > h.progress {
		h.progress = pct
	}
	ev := h.eventLocked(KindProgress)
	h.mu.Unlock()

	if len(h.events) < cap(h.events)-1 {
		h.events <- ev
	}
}

// Cancelled reports whether the job has been asked to stop.
func (r *Reporter) Cancelled() bool {
	return r.h.cancelRequested.Load()
}

// Checkpoint returns apperr.ErrCancelled when the job should stop.
func (r *Reporter) Checkpoint() error {
	if r.Cancelled() {
		return apperr.ErrCancelled
	}
	return nil
}
