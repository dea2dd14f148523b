package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNotDataURI is returned for images that reference external files.
var ErrNotDataURI = errors.New("image source is not a data URI")

// ImageSource returns the src attribute of the first image in markup.
func ImageSource(markup string) (string, bool) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", false
	}
	for _, n := range nodes {
		if src, ok := findImageSource(n); ok {
			return src, true
		}
	}
	return "", false
}

func findImageSource(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for _, a := range n.Attr {
			if a.Key == "src" {
				return a.Val, true
			}
		}
		return "", false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if src, ok := findImageSource(c); ok {
			return src, true
		}
	}
	return "", false
}

// DecodeDataURI decodes a base64 data URI such as "data:image/png;base64,...".
func DecodeDataURI(uri string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data uri: missing payload")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data uri: only base64 payloads are supported")
	}
	data, err = base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", nil, fmt.Errorf("data uri: %w", err)
	}
	return mediaType, data, nil
}
