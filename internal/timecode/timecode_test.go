package timecode

import (
	"errors"
	"testing"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   TimeCode
		want string
	}{
		{"zero", 0, "00:00:00,000"},
		{"millis", 1500, "00:00:01,500"},
		{"minutes", 61_001, "00:01:01,001"},
		{"hours", 3_723_456, "01:02:03,456"},
		{"99 hours", 99*msPerHour + 59*msPerMinute + 59*msPerSecond + 999, "99:59:59,999"},
		{"wide hours", 123 * msPerHour, "123:00:00,000"},
		{"negative clamps", -5, "00:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    TimeCode
		wantErr bool
	}{
		{"valid", "01:02:03,456", 3_723_456, false},
		{"zero", "00:00:00,000", 0, false},
		{"wide hours", "100:00:00,001", 100*msPerHour + 1, false},
		{"dot separator", "00:00:01.500", 0, true},
		{"short millis", "00:00:01,50", 0, true},
		{"single digit hour", "1:00:00,000", 0, true},
		{"minutes out of range", "00:60:00,000", 0, true},
		{"seconds out of range", "00:00:60,000", 0, true},
		{"surrounding space", " 00:00:01,000", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrFormat) {
					t.Errorf("expected ErrFormat, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	const limit = 360_000_000
	values := []TimeCode{0, 1, 999, 1000, 59_999, 60_000, 3_599_999, 3_600_000, limit - 1}
	for v := TimeCode(7); v < limit; v = v*3 + 11 {
		values = append(values, v)
	}

	for _, v := range values {
		got, err := Parse(Format(v))
		if err != nil {
			t.Fatalf("Parse(Format(%d)) error: %v", v, err)
		}
		if got != v {
			t.Errorf("Parse(Format(%d)) = %d", v, got)
		}
	}
}

func TestFromSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want TimeCode
	}{
		{0, 0},
		{1.5, 1500},
		{0.29, 290},
		{-3, 0},
		{3723.4564, 3_723_456},
	}

	for _, tt := range tests {
		if got := FromSeconds(tt.in); got != tt.want {
			t.Errorf("FromSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDurationConversion(t *testing.T) {
	tc := FromDuration(2*time.Second + 250*time.Millisecond)
	if tc != 2250 {
		t.Fatalf("FromDuration = %d, want 2250", tc)
	}
	if tc.Duration() != 2250*time.Millisecond {
		t.Errorf("Duration() = %v", tc.Duration())
	}
	if FromDuration(-time.Second) != 0 {
		t.Error("negative duration should clamp to zero")
	}
}
