package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/scribeflow/internal/logger"
	"github.com/nguyentantai21042004/scribeflow/internal/playback"
	"github.com/nguyentantai21042004/scribeflow/internal/timecode"
)

func newFollowCommand() *cobra.Command {
	var from string
	var interval time.Duration
	var repeat int

	cmd := &cobra.Command{
		Use:   "follow <file.srt>",
		Short: "Print subtitle lines in real time as a player would highlight them",
		Long: `Print subtitle lines in real time as a player would highlight them.

With --repeat N the clock seeks just past the start of line N, plays for the
length of that line and stops.`,
		Args:        cobra.ExactArgs(1),
		Annotations: offline,
		RunE: func(cmd *cobra.Command, args []string) error {
			track, _, err := readTrack(args[0])
			if err != nil {
				return err
			}
			if len(track) == 0 {
				return fmt.Errorf("%s has no subtitle entries", args[0])
			}
			var start timecode.TimeCode
			if from != "" {
				if start, err = parsePosition(from); err != nil {
					return err
				}
			}

			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			clock := playback.NewClock(start)
			if repeat > 0 {
				entry, ok := track.Entry(repeat)
				if !ok {
					return fmt.Errorf("%s has no line %d", args[0], repeat)
				}
				seek, hold := playback.RepeatWindow(entry)
				clock.Seek(seek)
				pause := time.AfterFunc(hold, func() {
					clock.Pause()
					stop()
				})
				defer pause.Stop()
			}
			poller := playback.NewPoller(track, clock, interval, logger.Nop())
			end := track.Duration()
			out := cmd.OutOrStdout()

			for h := range poller.Run(ctx) {
				if h.Index != 0 {
					fmt.Fprintf(out, "[%s] %s\n", timecode.Format(h.Entry.Start), h.Entry.Text)
				}
				if h.Index == 0 && h.Position > end {
					stop()
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start position (ms or HH:MM:SS,mmm)")
	cmd.Flags().IntVar(&repeat, "repeat", 0, "Play only the line with this index, then stop")
	cmd.Flags().DurationVar(&interval, "interval", playback.DefaultInterval, "Polling interval")
	return cmd
}
