// Package subtitle converts transcription segments to SRT documents and back.
package subtitle

import "github.com/nguyentantai21042004/scribeflow/internal/timecode"

// Segment is one unit of transcribed speech as produced by a speech engine.
type Segment struct {
	Start timecode.TimeCode `json:"start"`
	End   timecode.TimeCode `json:"end"`
	Text  string            `json:"text"`
}

// Entry is one block of an SRT document. Index is 1-based and equals the
// entry's position in the parsed sequence.
type Entry struct {
	Index int               `json:"index"`
	Start timecode.TimeCode `json:"start"`
	End   timecode.TimeCode `json:"end"`
	Text  string            `json:"text"`
}

// Range returns the entry's time span.
func (e Entry) Range() timecode.Range {
	return timecode.Range{Start: e.Start, End: e.End}
}

// BlockError describes a block that could not be read.
type BlockError struct {
	Block int // 1-based block number in the document
	Line  int // 1-based line number where the block starts
	Err   error
}

func (e BlockError) Error() string {
	return e.Err.Error()
}

func (e BlockError) Unwrap() error {
	return e.Err
}
