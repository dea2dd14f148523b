// Package exporter writes formalized documents and transcripts to DOCX and HTML.
package exporter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/scribeflow/internal/document"
	"github.com/nguyentantai21042004/scribeflow/internal/formalizer"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

const (
	pageWidthInches = 6.0
	pixelsPerInch   = 96.0
)

var (
	reSrtTime  = regexp.MustCompile(`^\d{2,}:\d{2}:\d{2}`)
	reSrtIndex = regexp.MustCompile(`^\d+$`)
)

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// FormalizedToDocx writes res to outputPath: the intro under label, then each
// body part in order. Embedded data-URI images are scaled to the page width;
// images that reference external files are skipped with a warning.
func FormalizedToDocx(ctx context.Context, res *formalizer.Result, label, outputPath string, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), label, true, 16)
	writeMarkdown(doc, res.Intro)

	tmpDir, err := os.MkdirTemp("", "scribeflow-docx-*")
	if err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	for i, part := range res.Body {
		switch part.Kind {
		case document.KindImage:
			path, w, h, err := stageImage(tmpDir, i, part.Content)
			if err != nil {
				log.Warn(ctx, "Skipping image %d: %v", i+1, err)
				continue
			}
			if _, err := doc.AddPicture(path, units.Inch(w), units.Inch(h)); err != nil {
				return fmt.Errorf("add image %d: %w", i+1, err)
			}
		default:
			writeMarkdown(doc, part.Content)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return doc.SaveTo(outputPath)
}

// writeMarkdown adds one paragraph per non-empty line, rendering headings,
// bullets and bold spans.
func writeMarkdown(doc *docx.RootDoc, text string) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		addRichText(doc.AddParagraph(""), trimmed)
	}
}

// stageImage decodes the data URI in markup into dir and returns the file path
// with its display size in inches.
func stageImage(dir string, n int, markup string) (string, float64, float64, error) {
	src, ok := document.ImageSource(markup)
	if !ok {
		return "", 0, 0, fmt.Errorf("no image source")
	}
	mediaType, data, err := document.DecodeDataURI(src)
	if err != nil {
		return "", 0, 0, err
	}
	ext, ok := imageExt[mediaType]
	if !ok {
		return "", 0, 0, fmt.Errorf("unsupported image type %q", mediaType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("decode image: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("image%d%s", n+1, ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", 0, 0, fmt.Errorf("write image: %w", err)
	}
	w, h := imageSize(cfg.Width, cfg.Height)
	return path, w, h, nil
}

// imageSize converts pixel dimensions to inches, shrinking wide images to the
// page width while keeping the aspect ratio.
func imageSize(px, py int) (float64, float64) {
	w := float64(px) / pixelsPerInch
	h := float64(py) / pixelsPerInch
	if w > pageWidthInches {
		h = h * pageWidthInches / w
		w = pageWidthInches
	}
	return w, h
}

// TranscriptToDocx converts SRT content to a plain transcript document. Index
// and time-range lines are dropped and repeated consecutive lines collapse
// into one paragraph.
func TranscriptToDocx(title, srtContent, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	var last string
	for _, line := range strings.Split(srtContent, "\n") {
		trimmed := strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		if trimmed == "" || reSrtIndex.MatchString(trimmed) || reSrtTime.MatchString(trimmed) {
			continue
		}
		if trimmed == last {
			continue
		}
		last = trimmed
		doc.AddParagraph("").AddText(trimmed).Font(fontName).Size(fontSize).Color("000000")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return doc.SaveTo(outputPath)
}
