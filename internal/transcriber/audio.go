package transcriber

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

// extractAudio extracts the first audio stream of videoPath to 16kHz mono WAV,
// the input format whisper.cpp expects.
func (r *implRunner) extractAudio(ctx context.Context, videoPath string) (string, error) {
	if err := os.MkdirAll(r.cfg.Paths.Temp, 0755); err != nil {
		return "", apperr.Wrap(apperr.ErrExtraction, "ffmpeg", "create temp dir", err)
	}
	audioPath := filepath.Join(r.cfg.Paths.Temp, baseName(videoPath)+"-"+pathKey(videoPath)+"_audio.wav")

	r.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn:        drop video
	// -map 0:a:0: first audio stream, fails when the file has none
	// -ar/-ac:    sample rate and mono downmix
	// -c:a:       16-bit PCM
	args := []string{
		"-i", videoPath,
		"-vn",
		"-map", "0:a:0",
		"-ar", strconv.Itoa(r.cfg.FFmpeg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}

	if _, err := r.executor.Execute(ctx, r.cfg.FFmpeg.BinaryPath, args...); err != nil {
		os.Remove(audioPath)
		return "", apperr.Wrap(apperr.ErrExtraction, "ffmpeg", "extract audio", err)
	}

	r.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}
