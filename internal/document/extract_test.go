package document

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []Segment
	}{
		{
			name:   "text image text",
			markup: `<p>a</p><p><img src="i1"></p><p>b</p>`,
			want: []Segment{
				Text("a"),
				Image(`<p><img src="i1"/></p>`),
				Text("b"),
			},
		},
		{
			name:   "consecutive images",
			markup: `<p><img src="i1"><img src="i2"></p>`,
			want: []Segment{
				Image(`<p><img src="i1"/></p>`),
				Image(`<p><img src="i2"/></p>`),
			},
		},
		{
			name:   "image inside paragraph splits text",
			markup: `<p>before <img src="x"> after</p>`,
			want: []Segment{
				Text("before"),
				Image(`<p><img src="x"/></p>`),
				Text("after"),
			},
		},
		{
			name:   "blocks accumulate as lines",
			markup: `<h1>Title</h1><p>one <b>bold</b> line</p><p>next<br>line</p>`,
			want:   []Segment{Text("Title\none bold line\nnext\nline")},
		},
		{
			name:   "whitespace only yields nothing",
			markup: "<p>   </p>\n<div>\t</div>",
			want:   nil,
		},
		{
			name:   "script and style ignored",
			markup: `<html><head><title>t</title><style>p{}</style></head><body><script>x()</script><p>body</p></body></html>`,
			want:   []Segment{Text("body")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.markup)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExtractNoEmptyTextSegments(t *testing.T) {
	markup := `<p><img src="a"></p><p> </p><p><img src="b"></p><p>tail</p>`
	got, err := Extract(markup)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for i, s := range got {
		if s.Kind == KindText && strings.TrimSpace(s.Content) == "" {
			t.Errorf("segment %d is an empty text segment", i)
		}
	}
	if len(got) != 3 {
		t.Fatalf("Extract() returned %d segments, want 3", len(got))
	}
}

func TestImageSource(t *testing.T) {
	src, ok := ImageSource(`<p><img alt="x" src="data:image/png;base64,AAAA"/></p>`)
	if !ok || src != "data:image/png;base64,AAAA" {
		t.Errorf("ImageSource() = %q, %v", src, ok)
	}
	if _, ok := ImageSource("<p>no image</p>"); ok {
		t.Error("ImageSource() found an image in plain text")
	}
}

func TestDecodeDataURI(t *testing.T) {
	mt, data, err := DecodeDataURI("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("DecodeDataURI() error = %v", err)
	}
	if mt != "image/png" || string(data) != "hello" {
		t.Errorf("DecodeDataURI() = %q, %q", mt, data)
	}

	if _, _, err := DecodeDataURI("images/a.png"); err != ErrNotDataURI {
		t.Errorf("DecodeDataURI(path) error = %v, want ErrNotDataURI", err)
	}
	if _, _, err := DecodeDataURI("data:text/plain,hello"); err == nil {
		t.Error("DecodeDataURI(non-base64) expected error")
	}
}
