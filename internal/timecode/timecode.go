// Package timecode handles the millisecond timestamps used by SRT documents.
package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

// TimeCode is a non-negative offset from the start of a media file, in milliseconds.
type TimeCode int64

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// Hours are at least two digits wide; longer media widens the field.
var reTimeCode = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}),(\d{3})$`)

// FromSeconds converts a float offset reported by a speech engine, rounded to
// the nearest millisecond. Negative input clamps to zero.
func FromSeconds(seconds float64) TimeCode {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return TimeCode(math.Round(seconds * msPerSecond))
}

// FromDuration converts d, clamping negative values to zero.
func FromDuration(d time.Duration) TimeCode {
	if d <= 0 {
		return 0
	}
	return TimeCode(d.Milliseconds())
}

// Duration returns t as a time.Duration.
func (t TimeCode) Duration() time.Duration {
	return time.Duration(t) * time.Millisecond
}

// String formats t as HH:MM:SS,mmm.
func (t TimeCode) String() string {
	return Format(t)
}

// Format renders t as zero-padded HH:MM:SS,mmm. Negative values render as zero.
func Format(t TimeCode) string {
	if t < 0 {
		t = 0
	}
	ms := int64(t)
	hours := ms / msPerHour
	ms %= msPerHour
	minutes := ms / msPerMinute
	ms %= msPerMinute
	seconds := ms / msPerSecond
	ms %= msPerSecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}

// Parse reads a HH:MM:SS,mmm timestamp.
func Parse(s string) (TimeCode, error) {
	m := reTimeCode.FindStringSubmatch(s)
	if m == nil {
		return 0, apperr.Wrap(apperr.ErrFormat, "parse timecode", fmt.Sprintf("invalid timestamp %q", s), nil)
	}

	hours, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || hours > math.MaxInt64/msPerHour-1 {
		return 0, apperr.Wrap(apperr.ErrFormat, "parse timecode", fmt.Sprintf("hours out of range in %q", s), err)
	}
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	seconds, _ := strconv.ParseInt(m[3], 10, 64)
	millis, _ := strconv.ParseInt(m[4], 10, 64)
	if minutes > 59 || seconds > 59 {
		return 0, apperr.Wrap(apperr.ErrFormat, "parse timecode", fmt.Sprintf("field out of range in %q", s), nil)
	}

	return TimeCode((hours*3600+minutes*60+seconds)*msPerSecond + millis), nil
}
