package subtitle

import (
	"errors"
	"testing"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
	}{
		{
			name: "chinese speech",
			segments: []Segment{
				{Start: 0, End: 1500, Text: "嗯 这个 功能 很好用"},
				{Start: 1500, End: 3000, Text: "对 没错"},
			},
		},
		{
			name: "multi-line and empty text",
			segments: []Segment{
				{Start: 10, End: 10, Text: "first line\nsecond line"},
				{Start: 20, End: 4_000_000, Text: ""},
				{Start: 4_000_000, End: 400_000_000, Text: " leading space"},
			},
		},
		{
			name: "whitespace-only interior line",
			segments: []Segment{
				{Start: 0, End: 10, Text: "a\n \nb"},
				{Start: 10, End: 20, Text: "c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Parse(Format(tt.segments))
			if len(entries) != len(tt.segments) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.segments))
			}
			for i, e := range entries {
				seg := tt.segments[i]
				if e.Index != i+1 {
					t.Errorf("entry %d index = %d", i, e.Index)
				}
				if e.Start != seg.Start || e.End != seg.End || e.Text != seg.Text {
					t.Errorf("entry %d = %+v, want %+v", i, e, seg)
				}
			}
		})
	}
}

func TestParseWindowsLineEndings(t *testing.T) {
	doc := "\ufeff1\r\n00:00:01,000 --> 00:00:02,000\r\nhello\r\n\r\n2\r\n00:00:02,000 --> 00:00:03,000\r\nworld\r\n"
	entries := Parse(doc)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Text != "hello" || entries[1].Text != "world" {
		t.Errorf("unexpected texts %q %q", entries[0].Text, entries[1].Text)
	}
}

func TestParseWhitespaceSeparators(t *testing.T) {
	doc := "1\n00:00:01,000 --> 00:00:02,000\nhello\n   \n2\n00:00:02,000 --> 00:00:03,000\nworld\n\t\n"
	entries := Parse(doc)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Text != "hello" || entries[1].Text != "world" {
		t.Errorf("unexpected texts %q %q", entries[0].Text, entries[1].Text)
	}
}

func TestParseSkipsMalformedBlocks(t *testing.T) {
	doc := "1\n00:00:00,000 --> 00:00:01,000\nok\n\n" +
		"2\nnot a range\ntext\n\n" +
		"x\n00:00:02,000 --> 00:00:03,000\nbad index\n\n" +
		"4\n00:00:03 --> 00:00:04\nbroken times\n\n" +
		"00:00:05,000 --> 00:00:06,000\nno index line\n"

	entries, skipped := ParseReport(doc)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[1].Text != "no index line" || entries[1].Index != 2 {
		t.Errorf("unexpected second entry %+v", entries[1])
	}
	if len(skipped) != 3 {
		t.Fatalf("got %d skipped blocks, want 3", len(skipped))
	}
	wantBlocks := []int{2, 3, 4}
	for i, s := range skipped {
		if s.Block != wantBlocks[i] {
			t.Errorf("skipped[%d].Block = %d, want %d", i, s.Block, wantBlocks[i])
		}
		if !errors.Is(s, apperr.ErrFormat) {
			t.Errorf("skipped[%d] should carry ErrFormat: %v", i, s)
		}
	}
	if skipped[0].Line != 5 {
		t.Errorf("skipped[0].Line = %d, want 5", skipped[0].Line)
	}
}

func TestParseStrict(t *testing.T) {
	good := "1\n00:00:00,000 --> 00:00:01,000\nok\n"
	if _, err := ParseStrict(good); err != nil {
		t.Fatalf("ParseStrict(good) error: %v", err)
	}

	bad := good + "\n2\n\n"
	_, err := ParseStrict(good + "\n2\n")
	if !errors.Is(err, apperr.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if entries := Parse(bad); len(entries) != 1 {
		t.Errorf("Parse should keep the good block, got %d", len(entries))
	}
}

func TestParseEmpty(t *testing.T) {
	if entries := Parse("\n\n  \n"); len(entries) != 0 {
		t.Errorf("expected no entries, got %+v", entries)
	}
}
