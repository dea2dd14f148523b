package subtitle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
	"github.com/nguyentantai21042004/scribeflow/internal/timecode"
)

type block struct {
	number int
	line   int
	lines  []string
}

// Parse reads an SRT document. Blocks without a readable time range are
// skipped; ParseReport returns them alongside the entries.
func Parse(document string) []Entry {
	entries, _ := ParseReport(document)
	return entries
}

// ParseReport reads an SRT document and returns the entries together with the
// blocks that were skipped.
func ParseReport(document string) ([]Entry, []BlockError) {
	var (
		entries []Entry
		skipped []BlockError
	)
	for _, b := range splitBlocks(document) {
		entry, err := parseBlock(b)
		if err != nil {
			skipped = append(skipped, BlockError{Block: b.number, Line: b.line, Err: err})
			continue
		}
		entry.Index = len(entries) + 1
		entries = append(entries, entry)
	}
	return entries, skipped
}

// ParseStrict reads an SRT document and fails on the first malformed block.
func ParseStrict(document string) ([]Entry, error) {
	entries, skipped := ParseReport(document)
	if len(skipped) > 0 {
		return nil, skipped[0]
	}
	return entries, nil
}

func splitBlocks(document string) []block {
	document = strings.TrimPrefix(document, "\ufeff")
	document = strings.ReplaceAll(document, "\r\n", "\n")
	document = strings.ReplaceAll(document, "\r", "\n")

	var (
		blocks  []block
		current *block
	)
	lines := strings.Split(document, "\n")
	for i, line := range lines {
		if line == "" || (strings.TrimSpace(line) == "" && startsBlock(lines, i+1)) {
			if current != nil {
				blocks = append(blocks, *current)
				current = nil
			}
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			current = &block{number: len(blocks) + 1, line: i + 1}
		}
		current.lines = append(current.lines, line)
	}
	if current != nil {
		blocks = append(blocks, *current)
	}
	return blocks
}

// startsBlock reports whether lines[i:] begins a new block, or holds nothing
// but blank lines. A whitespace-only line ends a block only in that case, so
// cue text may contain such lines.
func startsBlock(lines []string, i int) bool {
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) {
		return true
	}
	if _, ok, _ := timecode.ParseRange(lines[i]); ok {
		return true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(lines[i])); err == nil && n > 0 && i+1 < len(lines) {
		_, ok, _ := timecode.ParseRange(lines[i+1])
		return ok
	}
	return false
}

func parseBlock(b block) (Entry, error) {
	lines := b.lines

	// The index line is optional; some writers start a block with the range.
	if _, ok, _ := timecode.ParseRange(lines[0]); !ok {
		if n, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil || n <= 0 {
			return Entry{}, apperr.Wrap(apperr.ErrFormat, "parse subtitle",
				fmt.Sprintf("block %d: invalid index %q", b.number, strings.TrimSpace(lines[0])), nil)
		}
		lines = lines[1:]
	}

	if len(lines) == 0 {
		return Entry{}, apperr.Wrap(apperr.ErrFormat, "parse subtitle",
			fmt.Sprintf("block %d: missing time range", b.number), nil)
	}

	r, ok, err := timecode.ParseRange(lines[0])
	if err != nil {
		return Entry{}, apperr.Wrap(nil, "parse subtitle", fmt.Sprintf("block %d", b.number), err)
	}
	if !ok {
		return Entry{}, apperr.Wrap(apperr.ErrFormat, "parse subtitle",
			fmt.Sprintf("block %d: missing time range", b.number), nil)
	}

	return Entry{
		Start: r.Start,
		End:   r.End,
		Text:  strings.Join(lines[1:], "\n"),
	}, nil
}
