package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/scribeflow/internal/document"
	"github.com/nguyentantai21042004/scribeflow/internal/exporter"
	"github.com/nguyentantai21042004/scribeflow/internal/formalizer"
	"github.com/nguyentantai21042004/scribeflow/internal/llm"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

const defaultChunkRunes = 1500

func newFormalizeCommand(ctx *commandContext) *cobra.Command {
	var output string
	var copyResult bool
	var chunkRunes int

	cmd := &cobra.Command{
		Use:   "formalize <document.html|transcript.srt|notes.txt>",
		Short: "Rewrite a transcript or rich-text document into written prose",
		Long: `Rewrite colloquial text into written-register prose with the configured
completion provider. HTML input keeps embedded images in place; other input is
treated as plain text and split into chunks between blank lines.

The output format follows the --output extension: .html, .docx, or plain text
for anything else.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.log()
			input := args[0]

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			var segments []document.Segment
			switch strings.ToLower(filepath.Ext(input)) {
			case ".html", ".htm":
				segments, err = document.Extract(string(data))
				if err != nil {
					return err
				}
			default:
				segments = document.FromText(string(data), chunkRunes)
			}
			if len(segments) == 0 {
				return fmt.Errorf("%s has no content to formalize", input)
			}

			runCtx, stop := interruptContext(cmd.Context())
			defer stop()

			provider, err := llm.New(cfg.LLM, log)
			if err != nil {
				return err
			}
			cache, err := llm.OpenCache(runCtx, cfg.Cache)
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
			}
			provider = llm.Cached(provider, cfg.LLM.Model, cache, log)

			hub := ctx.startEvents(runCtx)
			h, err := formalizer.New(provider, log).Run(runCtx, segments)
			if err != nil {
				return err
			}
			label := filepath.Base(input)
			o := followJob(runCtx, h, hub, log, label, os.Stderr)
			if err := outcomeError(runCtx, log, label, o); err != nil {
				return err
			}
			res := o.Result.(*formalizer.Result)

			if output == "" {
				base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
				output = filepath.Join(cfg.Paths.Output, base+".formal.html")
			}
			if err := writeFormalized(cmd, res, cfg.LLM.IntroLabel, output, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)

			if copyResult {
				if err := clipboard.WriteAll(res.Render(cfg.LLM.IntroLabel)); err != nil {
					log.Warn(runCtx, "Failed to copy result to clipboard: %v", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: <paths.output>/<input>.formal.html)")
	cmd.Flags().BoolVar(&copyResult, "copy", false, "Copy the formalized text to the clipboard")
	cmd.Flags().IntVar(&chunkRunes, "chunk", defaultChunkRunes, "Maximum characters per text segment for non-HTML input")
	return cmd
}

func writeFormalized(cmd *cobra.Command, res *formalizer.Result, label, output string, log logger.Logger) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".docx":
		return exporter.FormalizedToDocx(cmd.Context(), res, label, output, log)
	case ".html", ".htm":
		return os.WriteFile(output, []byte(exporter.FormalizedToHTML(res, label)), 0644)
	default:
		return os.WriteFile(output, []byte(res.Render(label)+"\n"), 0644)
	}
}
