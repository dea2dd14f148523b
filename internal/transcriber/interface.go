// Package transcriber turns a video file into an SRT document in the background.
package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/scribeflow/internal/job"
)

// JobType is the Event.Type of transcription jobs.
const JobType = "transcription"

// Runner starts transcription jobs.
type Runner interface {
	// Start begins transcribing videoPath with the named model and returns
	// without waiting. An empty model selects the configured default. It fails
	// with apperr.ErrBusy while another job for the same video is active.
	Start(ctx context.Context, videoPath, model string) (*job.Handle, error)
}

// Result is the payload of a completed transcription job.
type Result struct {
	VideoPath    string `json:"video_path"`
	SubtitlePath string `json:"subtitle_path"`
	Segments     int    `json:"segments"`
}
