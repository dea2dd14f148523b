package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
	"github.com/nguyentantai21042004/scribeflow/internal/subtitle"
	"github.com/nguyentantai21042004/scribeflow/internal/timecode"
)

type cliModel struct {
	engine *implEngine
	name   string
	path   string
}

type cliOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Load resolves a model name such as "small" to <models_dir>/ggml-small.bin.
// A value that already looks like a path is used as-is.
func (e *implEngine) Load(ctx context.Context, model string) (Model, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, apperr.Wrap(apperr.ErrTranscription, "load model", "model name is empty", nil)
	}

	path := model
	if !strings.ContainsRune(model, filepath.Separator) && filepath.Ext(model) != ".bin" {
		path = filepath.Join(e.modelsDir, "ggml-"+model+".bin")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrTranscription, "load model", path, err)
	}
	if info.IsDir() {
		return nil, apperr.Wrap(apperr.ErrTranscription, "load model", path+" is a directory", nil)
	}

	e.logger.Debug(ctx, "Whisper model resolved: %s -> %s", model, path)
	return &cliModel{engine: e, name: model, path: path}, nil
}

func (m *cliModel) Name() string { return m.name }

// Transcribe runs whisper.cpp with JSON output and hands each segment to fn.
func (m *cliModel) Transcribe(ctx context.Context, audioPath string, opts Options, fn SegmentFunc) error {
	e := m.engine
	if err := os.MkdirAll(e.workDir, 0755); err != nil {
		return apperr.Wrap(apperr.ErrTranscription, "whisper", "create work dir", err)
	}
	outDir, err := os.MkdirTemp(e.workDir, "whisper-*")
	if err != nil {
		return apperr.Wrap(apperr.ErrTranscription, "whisper", "create output dir", err)
	}
	defer os.RemoveAll(outDir)

	outputPrefix := filepath.Join(outDir, "transcript")

	// -oj: JSON output with millisecond offsets per segment
	// -of: output file prefix (whisper appends .json)
	// -l:  forced language, avoids drifting into translation
	args := []string{
		"-m", m.path,
		"-f", audioPath,
		"-oj",
		"-of", outputPrefix,
		"-l", opts.Language,
		"-t", strconv.Itoa(opts.Threads),
	}
	if opts.Task == "translate" {
		args = append(args, "-tr")
	}
	if opts.Prompt != "" {
		args = append(args, "--prompt", opts.Prompt)
	}

	e.logger.Info(ctx, "Starting transcription with %d threads: %s", opts.Threads, audioPath)
	if _, err := e.executor.ExecuteInDir(ctx, outDir, e.binaryPath, args...); err != nil {
		return apperr.Wrap(apperr.ErrTranscription, "whisper", "transcribe", err)
	}

	segments, err := readSegments(outputPrefix + ".json")
	if err != nil {
		return apperr.Wrap(apperr.ErrTranscription, "whisper", "read output", err)
	}
	e.logger.Info(ctx, "Transcription produced %d segments", len(segments))

	for i, seg := range segments {
		if err := fn(i, len(segments), seg); err != nil {
			return err
		}
	}
	return nil
}

func readSegments(path string) ([]subtitle.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var out cliOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	segments := make([]subtitle.Segment, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		start := timecode.TimeCode(t.Offsets.From)
		end := timecode.TimeCode(t.Offsets.To)
		if start < 0 {
			start = 0
		}
		if end < start {
			end = start
		}
		segments = append(segments, subtitle.Segment{
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(t.Text),
		})
	}
	return segments, nil
}
