package subtitle

import (
	"testing"
)

func TestFormat(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1500, Text: "嗯 这个 功能 很好用"},
		{Start: 1500, End: 3000, Text: "对 没错"},
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:01,500\n" +
		"嗯 这个 功能 很好用\n" +
		"\n" +
		"2\n" +
		"00:00:01,500 --> 00:00:03,000\n" +
		"对 没错\n" +
		"\n"

	if got := Format(segments); got != want {
		t.Errorf("Format() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
}
