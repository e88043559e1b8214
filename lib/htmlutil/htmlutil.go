package htmlutil

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// FirstText returns the trimmed text of the first node in `scope` matching
// `selector`, ok is false when nothing matches.
func FirstText(scope *goquery.Selection, selector string) (text string, ok bool) {
	match := scope.Find(selector)
	if match.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(GetText(match.Nodes[0])), true
}

// AllText returns the trimmed text of every node in `scope` matching
// `selector`, in document order.
func AllText(scope *goquery.Selection, selector string) []string {
	var out []string
	for _, n := range scope.Find(selector).Nodes {
		out = append(out, strings.TrimSpace(GetText(n)))
	}
	return out
}

// FirstAttr returns attribute `attr` of the first node in `scope` matching `selector`.
func FirstAttr(scope *goquery.Selection, selector, attr string) (string, bool) {
	match := scope.Find(selector)
	if match.Length() == 0 {
		return "", false
	}
	return match.First().Attr(attr)
}

// ResolveUrl resolves a possibly relative (or protocol relative) reference
// against base, references that fail to parse are returned as-is. An empty
// reference resolves to base itself.
func ResolveUrl(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
