// Package whisper drives the whisper.cpp command-line transcriber.
package whisper

import (
	"context"

	"github.com/nguyentantai21042004/scribeflow/internal/subtitle"
)

// Options are the decoding hints passed to the model.
type Options struct {
	Language string // ISO code, or "auto"
	Task     string // transcribe or translate
	Prompt   string
	Threads  int
}

// SegmentFunc receives each transcribed segment in order. Returning an error
// stops transcription at that segment boundary.
type SegmentFunc func(index, total int, seg subtitle.Segment) error

// Engine loads speech-to-text models.
type Engine interface {
	Load(ctx context.Context, model string) (Model, error)
}

// Model transcribes audio files.
type Model interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string, opts Options, fn SegmentFunc) error
}
