package document

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Blockquote: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Td: true, atom.Th: true, atom.Caption: true, atom.Figcaption: true,
}

var skippedElements = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Title: true, atom.Template: true,
}

type extractor struct {
	segments []Segment
	buf      strings.Builder
	depth    int // nesting of block elements
}

// Extract walks the document in source order. Text runs accumulate into a
// pending buffer, one line per block; an image flushes the buffer as a text
// segment and is emitted as its own segment. Whitespace-only text is never
// emitted.
func Extract(markup string) ([]Segment, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	e := &extractor{}
	if err := e.walk(root); err != nil {
		return nil, err
	}
	e.flush()
	return e.segments, nil
}

func (e *extractor) walk(n *html.Node) error {
	switch n.Type {
	case html.TextNode:
		if e.depth > 0 || strings.TrimSpace(n.Data) != "" {
			e.buf.WriteString(norm.NFC.String(n.Data))
		}
		return nil

	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return nil
		}
		switch n.DataAtom {
		case atom.Img:
			e.flush()
			markup, err := renderImage(n)
			if err != nil {
				return err
			}
			e.segments = append(e.segments, Image(markup))
			return nil
		case atom.Br:
			e.buf.WriteByte('\n')
			return nil
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		e.endLine()
		e.depth++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := e.walk(c); err != nil {
			return err
		}
	}
	if block {
		e.depth--
		e.endLine()
	}
	return nil
}

// endLine terminates the current line unless the buffer already ends one.
func (e *extractor) endLine() {
	s := e.buf.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		e.buf.WriteByte('\n')
	}
}

func (e *extractor) flush() {
	text := strings.TrimSpace(e.buf.String())
	e.buf.Reset()
	if text != "" {
		e.segments = append(e.segments, Text(text))
	}
}

func renderImage(n *html.Node) (string, error) {
	img := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Data,
		DataAtom: n.DataAtom,
		Attr:     n.Attr,
	}
	var buf bytes.Buffer
	buf.WriteString("<p>")
	if err := html.Render(&buf, img); err != nil {
		return "", fmt.Errorf("render image: %w", err)
	}
	buf.WriteString("</p>")
	return buf.String(), nil
}
