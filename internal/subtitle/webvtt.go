package subtitle

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/asticode/go-astisub"
)

// ToWebVTT converts an SRT document to WebVTT.
func ToWebVTT(document string) (string, error) {
	subs, err := astisub.ReadFromSRT(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("read srt: %w", err)
	}

	var buf bytes.Buffer
	if err := subs.WriteToWebVTT(&buf); err != nil {
		return "", fmt.Errorf("write webvtt: %w", err)
	}
	return buf.String(), nil
}
