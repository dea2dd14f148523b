package subtitle

import "github.com/nguyentantai21042004/scribeflow/internal/timecode"

// Track is a parsed subtitle document used for playback-time lookups.
type Track []Entry

// NewTrack parses document into a Track, skipping malformed blocks.
func NewTrack(document string) Track {
	return Track(Parse(document))
}

// ActiveAt returns the first entry whose range contains pos, bounds included.
func (t Track) ActiveAt(pos timecode.TimeCode) (Entry, bool) {
	for _, e := range t {
		if e.Range().Contains(pos) {
			return e, true
		}
	}
	return Entry{}, false
}

// Entry returns the entry with the given 1-based index.
func (t Track) Entry(index int) (Entry, bool) {
	if index < 1 || index > len(t) {
		return Entry{}, false
	}
	return t[index-1], true
}

// Duration returns the largest end time in the track.
func (t Track) Duration() timecode.TimeCode {
	var last timecode.TimeCode
	for _, e := range t {
		if e.End > last {
			last = e.End
		}
	}
	return last
}
