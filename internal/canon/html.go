package canon

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// FromHTML extracts the visible text of an HTML transcript export so it can
// be fed through the canonicalizer. Script, style, noscript and iframe
// subtrees are skipped; block elements contribute paragraph breaks so the
// structured canonical form keeps its paragraphs.
func FromHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "blockquote":
				buf.WriteString("\n\n")
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String(), nil
}
