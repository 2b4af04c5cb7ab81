package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// minLineLength drops navigation crumbs, icons and separator junk that
// survive tag stripping.
const minLineLength = 3

// FromHTML turns a raw HTML page body into plain text.
//
// Script, style and noscript subtrees are dropped, then the most specific
// content container wins: <main>, else <article>, else the whole body. Text
// nodes are joined with newlines and lines shorter than three characters are
// discarded.
func FromHTML(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()

	container := doc.Find("main").First()
	if container.Length() == 0 {
		container = doc.Find("article").First()
	}
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}
	if container.Length() == 0 {
		return "", nil
	}

	var lines []string
	for _, node := range container.Nodes {
		collectText(node, &lines)
	}

	kept := lines[:0]
	for _, line := range lines {
		if len(line) >= minLineLength {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n"), nil
}

// collectText walks the node tree appending one trimmed line per text node,
// mirroring block-level joins.
func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if line := strings.TrimSpace(n.Data); line != "" {
			*lines = append(*lines, line)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}
