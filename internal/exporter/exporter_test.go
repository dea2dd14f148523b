package exporter

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/scribeflow/internal/document"
	"github.com/nguyentantai21042004/scribeflow/internal/formalizer"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// readDocx returns the main document XML and the names of embedded media.
func readDocx(t *testing.T, path string) (string, []string) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	defer zr.Close()

	var body string
	var media []string
	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			rc, err := f.Open()
			if err != nil {
				t.Fatal(err)
			}
			data, _ := io.ReadAll(rc)
			rc.Close()
			body = string(data)
		case strings.HasPrefix(f.Name, "word/media/"):
			media = append(media, f.Name)
		}
	}
	return body, media
}

func TestFormalizedToDocx(t *testing.T) {
	res := &formalizer.Result{
		Intro: "Short intro",
		Body: []formalizer.Part{
			{Kind: document.KindText, Content: "First paragraph\n**Key** point"},
			{Kind: document.KindImage, Content: `<p><img src="` + pngDataURI(t, 1200, 300) + `"/></p>`},
			{Kind: document.KindImage, Content: `<p><img src="images/missing.png"/></p>`},
			{Kind: document.KindText, Content: "Closing"},
		},
	}
	out := filepath.Join(t.TempDir(), "out", "formal.docx")
	if err := FormalizedToDocx(context.Background(), res, "Introduction:", out, logger.Nop()); err != nil {
		t.Fatalf("FormalizedToDocx() error = %v", err)
	}

	body, media := readDocx(t, out)
	for _, want := range []string{"Introduction:", "Short intro", "First paragraph", "Key", "Closing"} {
		if !strings.Contains(body, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if len(media) != 1 {
		t.Errorf("embedded media = %v, want exactly one image", media)
	}
}

func TestTranscriptToDocx(t *testing.T) {
	srt := "\ufeff1\n00:00:00,000 --> 00:00:01,000\nhello\n\n2\n00:00:01,000 --> 00:00:02,000\nhello\n\n3\n00:00:02,000 --> 00:00:03,000\nworld\n\n"
	out := filepath.Join(t.TempDir(), "t.docx")
	if err := TranscriptToDocx("Lecture", srt, out); err != nil {
		t.Fatalf("TranscriptToDocx() error = %v", err)
	}
	body, _ := readDocx(t, out)
	if strings.Count(body, "hello") != 1 {
		t.Errorf("repeated line should collapse, got %d", strings.Count(body, "hello"))
	}
	for _, unwanted := range []string{"-->", "00:00:01"} {
		if strings.Contains(body, unwanted) {
			t.Errorf("document still contains %q", unwanted)
		}
	}
	if !strings.Contains(body, "Lecture") || !strings.Contains(body, "world") {
		t.Error("document missing title or text")
	}
}

func TestImageSize(t *testing.T) {
	tests := []struct {
		px, py int
		w, h   float64
	}{
		{96, 48, 1, 0.5},
		{576, 96, 6, 1},
		{1152, 576, 6, 3},
	}
	for _, tt := range tests {
		w, h := imageSize(tt.px, tt.py)
		if w != tt.w || h != tt.h {
			t.Errorf("imageSize(%d, %d) = %v, %v, want %v, %v", tt.px, tt.py, w, h, tt.w, tt.h)
		}
	}
}

func TestFormalizedToHTML(t *testing.T) {
	res := &formalizer.Result{
		Intro: "Intro <1>",
		Body: []formalizer.Part{
			{Kind: document.KindText, Content: "a\n\nb"},
			{Kind: document.KindImage, Content: `<p><img src="x"/></p>`},
		},
	}
	got := FormalizedToHTML(res, "Introduction:")
	want := "<p><b>Introduction:</b></p>\n<p>Intro &lt;1&gt;</p>\n<p>a</p>\n<p>b</p>\n<p><img src=\"x\"/></p>\n"
	if got != want {
		t.Errorf("FormalizedToHTML() = %q, want %q", got, want)
	}
}
