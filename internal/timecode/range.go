package timecode

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

// Separator joins the two timestamps of an SRT time-range line.
const Separator = "-->"

// Anchored at the start only; anything after the end time (SRT position hints) is ignored.
var reRange = regexp.MustCompile(`^\s*(\d{2,}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2,}:\d{2}:\d{2},\d{3})`)

// Range is an inclusive [Start, End] interval.
type Range struct {
	Start TimeCode
	End   TimeCode
}

// Contains reports whether pos falls inside r, bounds included.
func (r Range) Contains(pos TimeCode) bool {
	return r.Start <= pos && pos <= r.End
}

func (r Range) String() string {
	return Format(r.Start) + " " + Separator + " " + Format(r.End)
}

// ParseRange reads a "<time> --> <time>" line. ok is false without an error
// when line has no separator, which is how text lines are told apart from
// timing lines. A line with the separator but unreadable times is a format error.
func ParseRange(line string) (r Range, ok bool, err error) {
	if !strings.Contains(line, Separator) {
		return Range{}, false, nil
	}

	m := reRange.FindStringSubmatch(line)
	if m == nil {
		return Range{}, false, apperr.Wrap(apperr.ErrFormat, "parse time range", fmt.Sprintf("invalid range %q", strings.TrimSpace(line)), nil)
	}

	start, err := Parse(m[1])
	if err != nil {
		return Range{}, false, err
	}
	end, err := Parse(m[2])
	if err != nil {
		return Range{}, false, err
	}

	return Range{Start: start, End: end}, true, nil
}
