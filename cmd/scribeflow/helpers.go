package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/nguyentantai21042004/scribeflow/internal/subtitle"
	"github.com/nguyentantai21042004/scribeflow/internal/timecode"
)

// interruptContext is cancelled on the first SIGINT or SIGTERM. Jobs then stop
// at their next checkpoint; the default handlers are restored so a second
// signal terminates the process.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}

// parsePosition accepts milliseconds ("1500") or a timestamp ("00:00:01,500").
func parsePosition(s string) (timecode.TimeCode, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("position must not be negative: %s", s)
		}
		return timecode.TimeCode(ms), nil
	}
	return timecode.Parse(s)
}

func readTrack(path string) (subtitle.Track, []subtitle.BlockError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read subtitles: %w", err)
	}
	entries, skipped := subtitle.ParseReport(string(data))
	return subtitle.Track(entries), skipped, nil
}

func entryRow(e subtitle.Entry) []string {
	return []string{
		strconv.Itoa(e.Index),
		timecode.Format(e.Start),
		timecode.Format(e.End),
		strings.ReplaceAll(e.Text, "\n", " / "),
	}
}

// replaceExt returns path with its extension replaced by ext.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
