// Package document splits rich-text HTML into ordered text and image segments.
package document

// Kind distinguishes segment variants.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Segment is a contiguous unit of document content. For KindImage, Content is
// the image markup wrapped in its own paragraph and must be passed through
// untouched.
type Segment struct {
	Kind    Kind   `json:"kind"`
	Content string `json:"content"`
}

// Text returns a text segment.
func Text(s string) Segment { return Segment{Kind: KindText, Content: s} }

// Image returns an image segment.
func Image(markup string) Segment { return Segment{Kind: KindImage, Content: markup} }
