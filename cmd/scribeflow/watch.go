package main

import (
	"context"
	"errors"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/scribeflow/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Transcribe every video dropped into paths.input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.log()

			runCtx, stop := interruptContext(cmd.Context())
			defer stop()

			log.Info(runCtx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
			log.Info(runCtx, "Whisper: model %s, %d threads, language %s", cfg.Whisper.Model, cfg.Whisper.Threads, cfg.Whisper.Language)

			hub := ctx.startEvents(runCtx)
			runner := newRunner(cfg, log)

			handle := func(ctx context.Context, path string) error {
				res, err := transcribeOne(ctx, runner, hub, log, path, "", nil)
				if err != nil {
					return err
				}
				log.Info(ctx, "[DONE] %s -> %s (%d segments)", path, res.SubtitlePath, res.Segments)
				if cfg.Export.TranscriptDocx {
					docx, err := exportTranscript(res.SubtitlePath)
					if err != nil {
						return err
					}
					log.Info(ctx, "Transcript written: %s", docx)
				}
				return nil
			}

			w, err := watcher.New(cfg.Paths.Input, handle, log, cfg.Performance.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			if !skipExisting {
				existing, err := watcher.ExistingVideos(cfg.Paths.Input)
				if err != nil {
					return err
				}
				for _, path := range existing {
					if err := handle(runCtx, path); err != nil {
						if errors.Is(err, context.Canceled) {
							return nil
						}
						log.Error(runCtx, "Failed to process %s: %v", path, err)
					}
				}
			}

			log.Info(runCtx, "Watching %s, writing subtitles to %s. Press Ctrl+C to stop", cfg.Paths.Input, cfg.Paths.Output)
			if err := w.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info(runCtx, "Watcher stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Do not process videos already in the input directory")
	return cmd
}
