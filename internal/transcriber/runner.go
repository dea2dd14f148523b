package transcriber

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
	"github.com/nguyentantai21042004/scribeflow/internal/job"
	"github.com/nguyentantai21042004/scribeflow/internal/subtitle"
	"github.com/nguyentantai21042004/scribeflow/internal/whisper"
)

// Progress checkpoints.
const (
	progressExtractStart = 10
	progressExtractDone  = 30
	progressModelLoaded  = 40
	progressTranscribed  = 80
	progressFormatted    = 90
	progressWritten      = 95
)

func (r *implRunner) Start(ctx context.Context, videoPath, model string) (*job.Handle, error) {
	absPath, err := filepath.Abs(videoPath)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrExtraction, "resolve video path", videoPath, err)
	}
	if model == "" {
		model = r.cfg.Whisper.Model
	}

	lock, err := r.acquire(absPath)
	if err != nil {
		return nil, err
	}

	h := job.Start(ctx, JobType, job.StateDone, func(ctx context.Context, rep *job.Reporter) (any, error) {
		defer r.release(ctx, absPath, lock)
		return r.process(ctx, rep, absPath, model)
	})
	r.logger.Info(ctx, "Transcription job %s started: %s (model %s)", h.ID(), absPath, model)
	return h, nil
}

// process runs extraction, transcription and formatting for one video.
func (r *implRunner) process(ctx context.Context, rep *job.Reporter, videoPath, model string) (any, error) {
	startTime := time.Now()

	// Step 1: Extract audio
	rep.Progress(job.StateExtractingAudio, progressExtractStart)
	audioPath, err := r.extractAudio(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	defer r.cleanupTempFile(ctx, audioPath)
	rep.Progress(job.StateExtractingAudio, progressExtractDone)
	if err := rep.Checkpoint(); err != nil {
		return nil, err
	}

	// Step 2: Load model
	m, err := r.engine.Load(ctx, model)
	if err != nil {
		return nil, err
	}
	rep.Progress(job.StateTranscribing, progressModelLoaded)
	if err := rep.Checkpoint(); err != nil {
		return nil, err
	}

	// Step 3: Transcribe, observing cancellation between segments
	opts := whisper.Options{
		Language: r.cfg.Whisper.Language,
		Task:     r.cfg.Whisper.Task,
		Prompt:   r.cfg.Whisper.Prompt,
		Threads:  r.cfg.Whisper.Threads,
	}
	var segments []subtitle.Segment
	err = m.Transcribe(ctx, audioPath, opts, func(index, total int, seg subtitle.Segment) error {
		if err := rep.Checkpoint(); err != nil {
			return err
		}
		segments = append(segments, seg)
		span := progressTranscribed - progressModelLoaded
		rep.Progress(job.StateTranscribing, progressModelLoaded+(index+1)*span/total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	rep.Progress(job.StateTranscribing, progressTranscribed)
	if err := rep.Checkpoint(); err != nil {
		return nil, err
	}

	// Step 4: Format and write the subtitle document
	rep.Progress(job.StateFormatting, progressFormatted)
	document := subtitle.Format(segments)
	srtPath := filepath.Join(r.cfg.Paths.Output, baseName(videoPath)+".srt")
	if err := writeFileAtomic(srtPath, []byte(document)); err != nil {
		return nil, apperr.Wrap(nil, "write subtitle", srtPath, err)
	}
	rep.Progress(job.StateFormatting, progressWritten)

	r.logger.Info(ctx, "Subtitle written: %s (%d segments, %s)", srtPath, len(segments), time.Since(startTime).Round(time.Millisecond))
	return Result{VideoPath: videoPath, SubtitlePath: srtPath, Segments: len(segments)}, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
