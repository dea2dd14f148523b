package document

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// FromText splits plain text (or an SRT document) into text segments of at
// most maxRunes, breaking only between blank-line separated blocks. A single
// block longer than maxRunes becomes its own segment. maxRunes <= 0 returns
// the whole text as one segment.
func FromText(text string, maxRunes int) []Segment {
	text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if maxRunes <= 0 {
		return []Segment{Text(strings.TrimSpace(text))}
	}

	var segments []Segment
	var buf strings.Builder
	size := 0
	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			segments = append(segments, Text(s))
		}
		buf.Reset()
		size = 0
	}

	for _, block := range strings.Split(text, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		n := utf8.RuneCountInString(block)
		if size > 0 && size+n > maxRunes {
			flush()
		}
		if size > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(block)
		size += n
	}
	flush()
	return segments
}
