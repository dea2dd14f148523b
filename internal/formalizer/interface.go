// Package formalizer rewrites transcribed speech into written prose through a
// remote completion service.
package formalizer

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/scribeflow/internal/document"
	"github.com/nguyentantai21042004/scribeflow/internal/job"
)

// JobType is the Event.Type of formalization runs.
const JobType = "formalization"

// Pipeline starts formalization runs.
type Pipeline interface {
	// Run processes segments in order on a background goroutine and returns
	// immediately. The completed job's result is a *Result. Only one run may
	// be active per Pipeline; a second Run fails with apperr.ErrBusy.
	Run(ctx context.Context, segments []document.Segment) (*job.Handle, error)
}

// Result is a formalized document. Body follows the input segment order, with
// text segments rewritten and image segments copied verbatim.
type Result struct {
	Intro string `json:"intro"`
	Body  []Part `json:"body"`
}

// Part is one entry of a formalized body.
type Part struct {
	Kind    document.Kind `json:"kind"`
	Content string        `json:"content"`
}

// Render lays the document out as label, intro, then body parts separated by
// blank lines. Empty parts are omitted.
func (r *Result) Render(label string) string {
	var b strings.Builder
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(r.Intro)
	b.WriteString("\n\n")

	body := make([]string, 0, len(r.Body))
	for _, p := range r.Body {
		if p.Content != "" {
			body = append(body, p.Content)
		}
	}
	b.WriteString(strings.Join(body, "\n\n"))
	return b.String()
}
