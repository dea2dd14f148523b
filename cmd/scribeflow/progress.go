package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/nguyentantai21042004/scribeflow/internal/eventstream"
	"github.com/nguyentantai21042004/scribeflow/internal/job"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

// progressRenderer shows job progress on a terminal bar, or as log lines when
// stderr is not a terminal.
type progressRenderer struct {
	bar    *progressbar.ProgressBar
	logger logger.Logger
	label  string
	last   int
}

func newProgressRenderer(w io.Writer, label string, log logger.Logger) *progressRenderer {
	r := &progressRenderer{logger: log, label: label, last: -1}
	if w != nil && isTerminal(w) {
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
		)
	}
	return r
}

func (r *progressRenderer) update(ctx context.Context, ev job.Event) {
	if r.bar != nil {
		desc := fmt.Sprintf("%s [%s]", r.label, ev.State)
		if ev.Total > 0 {
			desc = fmt.Sprintf("%s [%d/%d]", r.label, ev.Done, ev.Total)
		}
		r.bar.Describe(desc)
		_ = r.bar.Set(ev.Progress)
		return
	}
	if ev.Kind == job.KindProgress && ev.Progress != r.last {
		r.last = ev.Progress
		r.logger.Info(ctx, "%s: %s %d%%", r.label, ev.State, ev.Progress)
	}
}

func (r *progressRenderer) finish(o job.Outcome) {
	if r.bar == nil {
		return
	}
	if o.State == job.StateFailed || o.State == job.StateCancelled {
		_ = r.bar.Exit()
		return
	}
	_ = r.bar.Finish()
}

// followJob drains h until it ends, rendering progress to barOut (or the log
// when barOut is nil or not a terminal) and forwarding each event to hub. When
// ctx is cancelled the job is asked to stop and draining continues until its
// terminal event.
func followJob(ctx context.Context, h *job.Handle, hub *eventstream.Hub, log logger.Logger, label string, barOut io.Writer) job.Outcome {
	r := newProgressRenderer(barOut, label, log)

	done := ctx.Done()
	for {
		select {
		case <-done:
			log.Info(ctx, "Cancellation requested, waiting for %s to reach a checkpoint", label)
			h.Cancel()
			done = nil
		case ev, ok := <-h.Events():
			if !ok {
				o := h.Wait()
				r.finish(o)
				return o
			}
			r.update(ctx, ev)
			if hub != nil {
				if err := hub.Publish(ev); err != nil {
					log.Warn(ctx, "Failed to publish event: %v", err)
				}
			}
		}
	}
}

// outcomeError converts a finished job into the command's error.
func outcomeError(ctx context.Context, log logger.Logger, label string, o job.Outcome) error {
	switch o.State {
	case job.StateCancelled:
		log.Info(ctx, "%s cancelled", label)
		return context.Canceled
	case job.StateFailed:
		return fmt.Errorf("%s failed: %w", label, o.Err)
	default:
		return nil
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
