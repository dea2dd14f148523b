package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

const eventBuffer = 64

// RunFunc is the body of a job. It returns the job's result, or an error.
// Returning apperr.ErrCancelled (or context.Canceled) ends the job as
// cancelled rather than failed.
type RunFunc func(ctx context.Context, r *Reporter) (any, error)

// Handle is the caller's view of a running job.
type Handle struct {
	id      string
	typ     string
	success State

	events chan Event
	done   chan struct{}

	cancelRequested atomic.Bool

	mu       sync.Mutex
	state    State
	progress int
	steps    [2]int // done, total
	outcome  Outcome
}

// Start runs fn on its own goroutine and returns immediately. success is the
// state the job enters when fn returns without error.
//
// fn receives a context that keeps ctx's values but is never cancelled, so
// commands and requests already in flight run to completion. Cancelling ctx
// has the same effect as Cancel: fn stops at its next checkpoint.
func Start(ctx context.Context, typ string, success State, fn RunFunc) *Handle {
	h := &Handle{
		id:      uuid.NewString(),
		typ:     typ,
		success: success,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		state:   StateIdle,
	}
	if ctx.Err() != nil {
		h.Cancel()
	}
	stop := context.AfterFunc(ctx, h.Cancel)
	go func() {
		defer stop()
		h.run(context.WithoutCancel(ctx), fn)
	}()
	return h
}

// ID returns the job's unique identifier.
func (h *Handle) ID() string { return h.id }

// Type returns the job type given to Start.
func (h *Handle) Type() string { return h.typ }

// Events returns the job's notification channel. Progress events may be
// coalesced when the reader falls behind; the terminal event is always
// delivered and the channel is closed after it.
func (h *Handle) Events() <-chan Event { return h.events }

// Cancel asks the job to stop at its next checkpoint. Work already in flight
// is allowed to finish.
func (h *Handle) Cancel() { h.cancelRequested.Store(true) }

// Done is closed once the job has reached a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the job ends and returns its outcome.
func (h *Handle) Wait() Outcome {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outcome
}

// State returns the current state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Progress returns the last reported progress percentage.
func (h *Handle) Progress() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.progress
}

func (h *Handle) run(ctx context.Context, fn RunFunc) {
	r := &Reporter{h: h}
	result, err := fn(ctx, r)

	var outcome Outcome
	switch {
	case err == nil:
		outcome = Outcome{State: h.success, Result: result}
	case errors.Is(err, apperr.ErrCancelled), errors.Is(err, context.Canceled):
		outcome = Outcome{State: StateCancelled}
	default:
		outcome = Outcome{State: StateFailed, Err: err}
	}
	h.finish(outcome)
}

func (h *Handle) finish(o Outcome) {
	h.mu.Lock()
	h.state = o.State
	h.outcome = o
	if o.State == h.success {
		h.progress = 100
	}
	ev := h.eventLocked(kindFor(o.State))
	ev.Result = o.Result
	if o.Err != nil {
		ev.Error = o.Err.Error()
	}
	h.mu.Unlock()

	// One slot is always left free for this send.
	h.events <- ev
	close(h.events)
	close(h.done)
}

func (h *Handle) eventLocked(kind Kind) Event {
	return Event{
		JobID:    h.id,
		Type:     h.typ,
		Kind:     kind,
		State:    h.state,
		Progress: h.progress,
		Done:     h.steps[0],
		Total:    h.steps[1],
		Time:     time.Now(),
	}
}

func kindFor(s State) Kind {
	switch s {
	case StateCancelled:
		return KindCancelled
	case StateFailed:
		return KindFailed
	default:
		return KindCompleted
	}
}
