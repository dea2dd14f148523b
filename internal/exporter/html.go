package exporter

import (
	"html"
	"strings"

	"github.com/nguyentantai21042004/scribeflow/internal/document"
	"github.com/nguyentantai21042004/scribeflow/internal/formalizer"
)

// FormalizedToHTML renders res as an HTML fragment: label and intro first,
// then one paragraph per text line, with image markup copied verbatim.
func FormalizedToHTML(res *formalizer.Result, label string) string {
	var b strings.Builder
	b.WriteString("<p><b>")
	b.WriteString(html.EscapeString(label))
	b.WriteString("</b></p>\n")
	writeParagraphs(&b, res.Intro)

	for _, part := range res.Body {
		if part.Kind == document.KindImage {
			b.WriteString(part.Content)
			b.WriteString("\n")
			continue
		}
		writeParagraphs(&b, part.Content)
	}
	return b.String()
}

func writeParagraphs(b *strings.Builder, text string) {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>\n")
	}
}
