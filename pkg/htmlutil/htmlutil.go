package htmlutil

import (
	"bytes"
	"net/url"
	"strings"

	"inventory-adapter/internal/normalize"

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
	// <br> separates words the same way whitespace does
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteByte(' ')
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Text is the cleaned inner text of every node in the selection.
func Text(sel *goquery.Selection) string {
	var out strings.Builder
	for _, n := range sel.Nodes {
		out.WriteString(GetText(n))
		out.WriteByte(' ')
	}
	return normalize.CleanText(out.String())
}

// Anchor is a link split into its two independent parts: the target and the
// label.
type Anchor struct {
	Name string
	Href string
}

// Param returns a query parameter of the link target, or "" if the target is
// unparsable or does not carry it.
func (a Anchor) Param(name string) string {
	parsed, err := url.Parse(a.Href)
	if err != nil {
		return ""
	}
	return parsed.Query().Get(name)
}

// GetAnchor returns the first link inside the selection (or the selection
// itself if it is a link).
func GetAnchor(sel *goquery.Selection) (Anchor, bool) {
	link := sel.Filter("a[href]")
	if link.Length() == 0 {
		link = sel.Find("a[href]")
	}
	if link.Length() == 0 {
		return Anchor{}, false
	}
	link = link.First()
	return Anchor{
		Name: Text(link),
		Href: strings.TrimSpace(link.AttrOr("href", "")),
	}, true
}

func GetAnchors(sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	sel.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		anchors = append(anchors, Anchor{
			Name: Text(s),
			Href: strings.TrimSpace(href),
		})
	})
	return anchors
}
