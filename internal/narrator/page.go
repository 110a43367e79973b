package narrator

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoMain is returned when the page has no <main> region to read.
var ErrNoMain = errors.New("no main content found")

// Source supplies the text a narration session should read.
type Source interface {
	ReadableText() (string, error)
}

// HTMLSource extracts readable text from the page on every start, so the
// narration always reflects the current document.
type HTMLSource struct {
	// Fetch returns the page markup. The source closes the reader.
	Fetch func() (io.ReadCloser, error)
}

func (s HTMLSource) ReadableText() (string, error) {
	body, err := s.Fetch()
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := html.Parse(body)
	if err != nil {
		return "", err
	}

	return ExtractReadable(doc)
}

// readableTags are the textual elements worth reading aloud.
var readableTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "li": true, "label": true, "blockquote": true,
	"figcaption": true, "td": true, "th": true, "dd": true, "dt": true,
}

// ExtractReadable collects the visible text of the main content region in
// document order. Subtrees marked data-voice-ignore and elements hidden from
// assistive technology are skipped; an element's aria-label wins over its
// literal text. All whitespace collapses to single spaces.
func ExtractReadable(doc *html.Node) (string, error) {
	main := findElement(doc, "main")
	if main == nil {
		return "", ErrNoMain
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if hasAttr(n, "data-voice-ignore") {
				return
			}
			if readableTags[n.Data] {
				if attrValue(n, "aria-hidden") == "true" {
					return
				}
				if label := strings.TrimSpace(attrValue(n, "aria-label")); label != "" {
					parts = append(parts, label)
				} else {
					parts = append(parts, textContent(n))
				}
				// A matched element is read whole; descending again would
				// repeat its nested readable children.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(main)

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
