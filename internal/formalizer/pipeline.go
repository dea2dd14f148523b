package formalizer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
	"github.com/nguyentantai21042004/scribeflow/internal/document"
	"github.com/nguyentantai21042004/scribeflow/internal/job"
)

// subtitleHeader matches the index and time-range lines of a pasted subtitle block.
var subtitleHeader = regexp.MustCompile(`\d+\r?\n\d{2,}:\d{2}:\d{2},\d{3} --> \d{2,}:\d{2}:\d{2},\d{3}\r?\n`)

// StripSubtitleHeaders removes subtitle index and time-range lines from text.
func StripSubtitleHeaders(text string) string {
	return subtitleHeader.ReplaceAllString(text, "")
}

func (p *implPipeline) Run(ctx context.Context, segments []document.Segment) (*job.Handle, error) {
	if !p.active.TryAcquire() {
		return nil, apperr.Wrap(apperr.ErrBusy, "formalize", "a formalization run is already active", nil)
	}

	input := append([]document.Segment(nil), segments...)
	h := job.Start(ctx, JobType, job.StateCompleted, func(ctx context.Context, rep *job.Reporter) (any, error) {
		defer p.active.Release()
		return p.process(ctx, rep, input)
	})
	p.logger.Info(ctx, "Formalization job %s started: %d segments via %s", h.ID(), len(input), p.provider.Name())
	return h, nil
}

func (p *implPipeline) process(ctx context.Context, rep *job.Reporter, segments []document.Segment) (any, error) {
	startTime := time.Now()
	total := len(segments)
	rep.Step(job.StateRunning, 0, total)

	body := make([]Part, 0, total)
	var summaries []string

	for i, seg := range segments {
		if err := rep.Checkpoint(); err != nil {
			p.logger.Info(ctx, "Formalization cancelled before segment %d/%d", i+1, total)
			return nil, err
		}

		switch seg.Kind {
		case document.KindImage:
			body = append(body, Part{Kind: document.KindImage, Content: seg.Content})

		default:
			text := strings.TrimSpace(StripSubtitleHeaders(seg.Content))
			if text == "" {
				body = append(body, Part{Kind: document.KindText})
				break
			}

			rewritten, err := p.complete(ctx, rewritePrompt, text, fmt.Sprintf("segment %d rewrite", i+1))
			if err != nil {
				return nil, err
			}
			body = append(body, Part{Kind: document.KindText, Content: rewritten})

			summary, err := p.complete(ctx, summaryPrompt, rewritten, fmt.Sprintf("segment %d summary", i+1))
			if err != nil {
				return nil, err
			}
			summaries = append(summaries, summary)
		}

		rep.Step(job.StateRunning, i+1, total)
		p.logger.Debug(ctx, "Formalized segment %d/%d (%s)", i+1, total, seg.Kind)
	}

	if err := rep.Checkpoint(); err != nil {
		return nil, err
	}

	var intro string
	if len(summaries) > 0 {
		var err error
		intro, err = p.complete(ctx, introPrompt, strings.Join(summaries, "\n"), "introduction")
		if err != nil {
			return nil, err
		}
	}

	p.logger.Info(ctx, "Formalization finished: %d segments in %s", total, time.Since(startTime).Round(time.Millisecond))
	return &Result{Intro: intro, Body: body}, nil
}

func (p *implPipeline) complete(ctx context.Context, system, user, step string) (string, error) {
	text, err := p.provider.Complete(ctx, system, user)
	if err != nil {
		if ctx.Err() != nil {
			return "", apperr.ErrCancelled
		}
		p.logger.Error(ctx, "Completion failed at %s: %v", step, err)
		return "", apperr.Wrap(nil, "formalize", step, err)
	}
	return strings.TrimSpace(text), nil
}
