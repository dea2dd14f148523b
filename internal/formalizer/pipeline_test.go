package formalizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
	"github.com/nguyentantai21042004/scribeflow/internal/document"
	"github.com/nguyentantai21042004/scribeflow/internal/job"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []string
	// block, when set, is waited on before the first call returns.
	block   chan struct{}
	started chan struct{}
	failOn  string
	// interrupted records a blocked call whose context ended before block
	// was released.
	interrupted bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, system, user string) (string, error) {
	var tag string
	switch system {
	case rewritePrompt:
		tag = "R"
	case summaryPrompt:
		tag = "S"
	case introPrompt:
		tag = "I"
	default:
		return "", fmt.Errorf("unexpected prompt %q", system)
	}
	call := fmt.Sprintf("%s(%s)", tag, user)

	f.mu.Lock()
	f.calls = append(f.calls, call)
	first := len(f.calls) == 1
	f.mu.Unlock()

	if first && f.block != nil {
		close(f.started)
		select {
		case <-f.block:
		case <-ctx.Done():
			f.mu.Lock()
			f.interrupted = true
			f.mu.Unlock()
			return "", ctx.Err()
		}
	}
	if call == f.failOn {
		return "", apperr.Wrap(apperr.ErrRemoteService, "fake complete", "http 500", nil)
	}
	return " " + call + " ", nil
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func drain(t *testing.T, h *job.Handle) []job.Event {
	t.Helper()
	var events []job.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-h.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("timed out waiting for formalization events")
		}
	}
}

func TestRunFormalizesInOrder(t *testing.T) {
	provider := &fakeProvider{}
	p := New(provider, logger.Nop())

	segments := []document.Segment{
		document.Text("1\n00:00:01,000 --> 00:00:02,000\nhello"),
		document.Image(`<p><img src="i1"/></p>`),
		document.Text("world"),
	}
	h, err := p.Run(context.Background(), segments)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	events := drain(t, h)
	var progress []int
	for _, ev := range events {
		progress = append(progress, ev.Progress)
	}
	wantProgress := []int{0, 33, 66, 99, 100}
	if fmt.Sprint(progress) != fmt.Sprint(wantProgress) {
		t.Errorf("progress = %v, want %v", progress, wantProgress)
	}

	o := h.Wait()
	if o.State != job.StateCompleted {
		t.Fatalf("state = %s, err = %v", o.State, o.Err)
	}
	res := o.Result.(*Result)

	wantBody := []Part{
		{Kind: document.KindText, Content: "R(hello)"},
		{Kind: document.KindImage, Content: `<p><img src="i1"/></p>`},
		{Kind: document.KindText, Content: "R(world)"},
	}
	if fmt.Sprint(res.Body) != fmt.Sprint(wantBody) {
		t.Errorf("body = %v, want %v", res.Body, wantBody)
	}
	if want := "I(S(R(hello))\nS(R(world)))"; res.Intro != want {
		t.Errorf("intro = %q, want %q", res.Intro, want)
	}

	rendered := res.Render("Introduction:")
	want := "Introduction:\nI(S(R(hello))\nS(R(world)))\n\nR(hello)\n\n<p><img src=\"i1\"/></p>\n\nR(world)"
	if rendered != want {
		t.Errorf("Render() = %q, want %q", rendered, want)
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	provider := &fakeProvider{}
	p := New(provider, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h, err := p.Run(ctx, []document.Segment{document.Text("a"), document.Text("b")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, ev := range drain(t, h) {
		if ev.Kind == job.KindCompleted {
			t.Errorf("unexpected completion event %+v", ev)
		}
	}
	o := h.Wait()
	if o.State != job.StateCancelled || o.Result != nil || o.Err != nil {
		t.Errorf("outcome = %+v, want cancelled with no result", o)
	}
	if calls := provider.Calls(); len(calls) != 0 {
		t.Errorf("provider called %v after cancellation", calls)
	}
}

func TestRunCancelStopsAtNextSegment(t *testing.T) {
	provider := &fakeProvider{block: make(chan struct{}), started: make(chan struct{})}
	p := New(provider, logger.Nop())

	h, err := p.Run(context.Background(), []document.Segment{document.Text("a"), document.Text("b")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	<-provider.started
	h.Cancel()
	close(provider.block)

	o := h.Wait()
	if o.State != job.StateCancelled || o.Result != nil {
		t.Fatalf("outcome = %+v, want cancelled", o)
	}
	// The in-flight segment finishes; nothing after it runs.
	want := []string{"R(a)", "S(R(a))"}
	if got := provider.Calls(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestRunParentCancelLetsInFlightCallFinish(t *testing.T) {
	provider := &fakeProvider{block: make(chan struct{}), started: make(chan struct{})}
	p := New(provider, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := p.Run(ctx, []document.Segment{document.Text("a"), document.Text("b")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	<-provider.started
	cancel()
	h.Cancel()

	select {
	case <-h.Done():
		t.Fatal("job ended while a completion was still in flight")
	case <-time.After(50 * time.Millisecond):
	}
	close(provider.block)

	o := h.Wait()
	if o.State != job.StateCancelled || o.Result != nil {
		t.Fatalf("outcome = %+v, want cancelled", o)
	}
	provider.mu.Lock()
	interrupted := provider.interrupted
	provider.mu.Unlock()
	if interrupted {
		t.Error("in-flight completion saw a cancelled context")
	}
	want := []string{"R(a)", "S(R(a))"}
	if got := provider.Calls(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestRunRemoteFailureDiscardsOutput(t *testing.T) {
	provider := &fakeProvider{failOn: "S(R(b))"}
	p := New(provider, logger.Nop())

	h, err := p.Run(context.Background(), []document.Segment{document.Text("a"), document.Text("b"), document.Text("c")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	events := drain(t, h)
	final := events[len(events)-1]
	if final.Kind != job.KindFailed || final.Error == "" || final.Result != nil {
		t.Errorf("final event = %+v", final)
	}

	o := h.Wait()
	if o.State != job.StateFailed || o.Result != nil {
		t.Fatalf("outcome = %+v, want failed", o)
	}
	if !errors.Is(o.Err, apperr.ErrRemoteService) {
		t.Errorf("error = %v, want ErrRemoteService", o.Err)
	}
	for _, c := range provider.Calls() {
		if c == "R(c)" {
			t.Error("segment after the failure was still processed")
		}
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	provider := &fakeProvider{block: make(chan struct{}), started: make(chan struct{})}
	p := New(provider, logger.Nop())

	h, err := p.Run(context.Background(), []document.Segment{document.Text("a")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	<-provider.started

	if _, err := p.Run(context.Background(), []document.Segment{document.Text("b")}); !errors.Is(err, apperr.ErrBusy) {
		t.Errorf("second Run() error = %v, want ErrBusy", err)
	}
	close(provider.block)
	h.Wait()

	h2, err := p.Run(context.Background(), []document.Segment{document.Image("<p>x</p>")})
	if err != nil {
		t.Fatalf("Run() after completion error = %v", err)
	}
	if o := h2.Wait(); o.State != job.StateCompleted || o.Result.(*Result).Intro != "" {
		t.Errorf("outcome = %+v", o)
	}
}

func TestStripSubtitleHeaders(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1\n00:00:00,000 --> 00:00:01,500\nhello\n", "hello\n"},
		{"12\r\n01:02:03,004 --> 01:02:04,000\r\nline", "line"},
		{"plain text 3\n", "plain text 3\n"},
		{"1\n00:00:00,000 --> 00:00:01,000\na\n\n2\n00:00:01,000 --> 00:00:02,000\nb", "a\n\nb"},
	}
	for _, tt := range tests {
		if got := StripSubtitleHeaders(tt.in); got != tt.want {
			t.Errorf("StripSubtitleHeaders(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
