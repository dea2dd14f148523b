package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/scribeflow/internal/config"
	"github.com/nguyentantai21042004/scribeflow/internal/eventstream"
	"github.com/nguyentantai21042004/scribeflow/internal/exporter"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
	"github.com/nguyentantai21042004/scribeflow/internal/transcriber"
	"github.com/nguyentantai21042004/scribeflow/internal/whisper"
	"github.com/nguyentantai21042004/scribeflow/pkg/executor"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var model string
	var docx bool

	cmd := &cobra.Command{
		Use:   "transcribe <video>",
		Short: "Transcribe a video into an SRT subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.log()

			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("video not found: %w", err)
			}

			runCtx, stop := interruptContext(cmd.Context())
			defer stop()

			hub := ctx.startEvents(runCtx)
			runner := newRunner(cfg, log)
			res, err := transcribeOne(runCtx, runner, hub, log, args[0], model, os.Stderr)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.SubtitlePath)
			if docx || cfg.Export.TranscriptDocx {
				path, err := exportTranscript(res.SubtitlePath)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Whisper model name or path (default: whisper.model)")
	cmd.Flags().BoolVar(&docx, "docx", false, "Also write a transcript .docx next to the subtitles")
	return cmd
}

func newRunner(cfg *config.Config, log logger.Logger) transcriber.Runner {
	exec := executor.New()
	engine := whisper.New(cfg.Whisper, filepath.Join(cfg.Paths.Temp, "whisper"), exec, log)
	return transcriber.New(cfg, exec, engine, log)
}

// transcribeOne runs a transcription job to completion.
func transcribeOne(ctx context.Context, runner transcriber.Runner, hub *eventstream.Hub, log logger.Logger, videoPath, model string, barOut io.Writer) (transcriber.Result, error) {
	h, err := runner.Start(ctx, videoPath, model)
	if err != nil {
		return transcriber.Result{}, err
	}

	label := filepath.Base(videoPath)
	o := followJob(ctx, h, hub, log, label, barOut)
	if err := outcomeError(ctx, log, label, o); err != nil {
		return transcriber.Result{}, err
	}
	res, _ := o.Result.(transcriber.Result)
	return res, nil
}

func exportTranscript(srtPath string) (string, error) {
	data, err := os.ReadFile(srtPath)
	if err != nil {
		return "", fmt.Errorf("read subtitles: %w", err)
	}
	title := strings.TrimSuffix(filepath.Base(srtPath), filepath.Ext(srtPath))
	out := replaceExt(srtPath, ".docx")
	if err := exporter.TranscriptToDocx(title, string(data), out); err != nil {
		return "", fmt.Errorf("export transcript: %w", err)
	}
	return out, nil
}
