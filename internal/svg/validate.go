package svg

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	defaultWidth  = 400
	defaultHeight = 300
)

var (
	widthRe  = regexp.MustCompile(`(?i)width\s*=\s*["']?(\d+)`)
	heightRe = regexp.MustCompile(`(?i)height\s*=\s*["']?(\d+)`)
)

// IsValid reports whether raw, after sanitization, still parses to a
// document whose root element is <svg>. The recovering html parser is used
// deliberately: generated markup is frequently sloppy, and anything it can
// repair into an svg root is acceptable. Parse failures mean invalid, never
// an error.
func IsValid(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}

	doc, err := html.Parse(strings.NewReader(Sanitize(raw)))
	if err != nil {
		return false
	}
	return rootElement(doc) == atom.Svg
}

// rootElement returns the atom of the first element in the document body,
// which is where the fragment's root lands after lenient parsing.
func rootElement(doc *html.Node) atom.Atom {
	body := findNode(doc, atom.Body)
	if body == nil {
		return 0
	}
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return n.DataAtom
		}
	}
	return 0
}

func findNode(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, a); found != nil {
			return found
		}
	}
	return nil
}

// ExtractDimensions pulls the first numeric width/height attributes out of
// svg content, defaulting to 400x300 when absent.
func ExtractDimensions(content string) (width, height int) {
	width, height = defaultWidth, defaultHeight

	if m := widthRe.FindStringSubmatch(content); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			width = v
		}
	}
	if m := heightRe.FindStringSubmatch(content); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			height = v
		}
	}
	return width, height
}
