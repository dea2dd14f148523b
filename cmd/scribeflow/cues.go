package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/scribeflow/internal/subtitle"
	"github.com/nguyentantai21042004/scribeflow/internal/timecode"
)

func newCuesCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:         "cues <file.srt>",
		Short:       "List the entries of a subtitle file",
		Args:        cobra.ExactArgs(1),
		Annotations: offline,
		RunE: func(cmd *cobra.Command, args []string) error {
			var track subtitle.Track
			if strict {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read subtitles: %w", err)
				}
				entries, err := subtitle.ParseStrict(string(data))
				if err != nil {
					return err
				}
				track = entries
			} else {
				t, skipped, err := readTrack(args[0])
				if err != nil {
					return err
				}
				for _, be := range skipped {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped block %d (line %d): %v\n", be.Block, be.Line, be.Err)
				}
				track = t
			}

			rows := make([][]string, 0, len(track))
			for _, e := range track {
				rows = append(rows, entryRow(e))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"#", "Start", "End", "Text"}, rows, []columnAlignment{alignRight}))
			fmt.Fprintf(out, "%d entries, %s total\n", len(track), timecode.Format(track.Duration()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first malformed block instead of skipping it")
	return cmd
}

func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "lookup <file.srt> <position>",
		Short:       "Show the subtitle line active at a playback position (ms or HH:MM:SS,mmm)",
		Args:        cobra.ExactArgs(2),
		Annotations: offline,
		RunE: func(cmd *cobra.Command, args []string) error {
			track, _, err := readTrack(args[0])
			if err != nil {
				return err
			}
			pos, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			e, ok := track.ActiveAt(pos)
			if !ok {
				fmt.Fprintf(out, "no active line at %s\n", timecode.Format(pos))
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Start", "End", "Text"}, [][]string{entryRow(e)}, []columnAlignment{alignRight}))
			return nil
		},
	}
}

func newConvertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:         "convert <file.srt>",
		Short:       "Convert an SRT file to WebVTT",
		Args:        cobra.ExactArgs(1),
		Annotations: offline,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read subtitles: %w", err)
			}
			vtt, err := subtitle.ToWebVTT(string(data))
			if err != nil {
				return err
			}
			if output == "" {
				output = replaceExt(args[0], ".vtt")
			}
			if output == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), vtt)
				return err
			}
			if err := os.WriteFile(output, []byte(vtt), 0644); err != nil {
				return fmt.Errorf("write webvtt: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path, or - for stdout (default: <input>.vtt)")
	return cmd
}
