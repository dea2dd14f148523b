package subtitle

import (
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/scribeflow/internal/timecode"
)

// Format renders segments as an SRT document: one block per segment in input
// order, each terminated by a blank line. Text is written as-is.
func Format(segments []Segment) string {
	var sb strings.Builder
	for i, seg := range segments {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')
		sb.WriteString(timecode.Format(seg.Start))
		sb.WriteString(" --> ")
		sb.WriteString(timecode.Format(seg.End))
		sb.WriteByte('\n')
		sb.WriteString(seg.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
