// Package extract reads the backend's HTML pages into records.
//
// Each entity is read by an ordered list of strategies, most specific first.
// The strategies are pure functions over a parsed page so each one can be
// exercised against a fixture on its own; FirstNonEmpty and MaxByCount decide
// which strategy's output is used.
package extract

import (
	"bytes"
	"regexp"
	"strings"

	"inventory-adapter/internal/normalize"
	"inventory-adapter/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Page is a response body parsed once and shared by every strategy.
type Page struct {
	Raw string
	Doc *goquery.Document
}

func NewPage(body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &Page{Raw: string(body), Doc: doc}, nil
}

// MustPage is NewPage for bodies that are already in memory, where parsing
// cannot fail on read.
func MustPage(raw string) *Page {
	page, err := NewPage([]byte(raw))
	if err != nil {
		panic(err)
	}
	return page
}

type Strategy[T any] func(p *Page) []T

// FirstNonEmpty returns the output of the first strategy that finds anything.
func FirstNonEmpty[T any](strategies ...Strategy[T]) Strategy[T] {
	return func(p *Page) []T {
		for _, s := range strategies {
			out := s(p)
			if len(out) > 0 {
				return out
			}
		}
		return nil
	}
}

// MaxByCount runs every strategy and keeps the output with the most records.
// Ties go to the earlier strategy.
func MaxByCount[T any](strategies ...Strategy[T]) Strategy[T] {
	return func(p *Page) []T {
		var best []T
		for _, s := range strategies {
			out := s(p)
			if len(out) > len(best) {
				best = out
			}
		}
		return best
	}
}

// Last keeps only the final record a strategy found. Used where later tables
// on a page hold the real data and earlier ones are decorative summaries.
func Last[T any](s Strategy[T]) Strategy[T] {
	return func(p *Page) []T {
		out := s(p)
		if len(out) == 0 {
			return nil
		}
		return out[len(out)-1:]
	}
}

// Row is a table row split into its data cells.
type Row struct {
	Sel   *goquery.Selection
	Cells []*goquery.Selection
}

func (r Row) Len() int {
	return len(r.Cells)
}

func (r Row) Text(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return htmlutil.Text(r.Cells[i])
}

func (r Row) Anchor(i int) (htmlutil.Anchor, bool) {
	if i < 0 || i >= len(r.Cells) {
		return htmlutil.Anchor{}, false
	}
	return htmlutil.GetAnchor(r.Cells[i])
}

// AnchorWith finds the first link anywhere in the row whose target carries
// the given query parameter.
func (r Row) AnchorWith(param string) (htmlutil.Anchor, bool) {
	for _, a := range htmlutil.GetAnchors(r.Sel.Find("a[href]")) {
		if a.Param(param) != "" {
			return a, true
		}
	}
	return htmlutil.Anchor{}, false
}

// Rows returns every row of every table on the page that has <td> cells.
// Rows made only of <th> cells have no data and are dropped here.
func Rows(p *Page) []Row {
	var rows []Row
	p.Doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.ChildrenFiltered("td")
		if tds.Length() == 0 {
			return
		}
		row := Row{Sel: tr}
		tds.Each(func(_ int, td *goquery.Selection) {
			row.Cells = append(row.Cells, td)
		})
		rows = append(rows, row)
	})
	return rows
}

var sentinelLabels = map[string]bool{
	"":       true,
	"#":      true,
	"name":   true,
	"total":  true,
	"totals": true,
	"day":    true,
	"date":   true,
	"city":   true,
}

// IsSentinel reports whether a cell label marks a header or totals row.
func IsSentinel(label string) bool {
	label = strings.ToLower(normalize.CleanText(label))
	label = strings.TrimSuffix(label, ":")
	return sentinelLabels[label]
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

func isCount(text string) bool {
	return digitsOnly.MatchString(normalize.CleanText(text))
}

var tagPattern = regexp.MustCompile(`(?s)<[^>]*>`)

// stripTags is used by the regex tiers that work on raw markup.
func stripTags(fragment string) string {
	text := tagPattern.ReplaceAllString(fragment, " ")
	return normalize.CleanText(DecodeEntities(text))
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
)

// DecodeEntities decodes the four entities the backend double-escapes in
// places goquery has already unescaped once.
func DecodeEntities(text string) string {
	return entityReplacer.Replace(text)
}

// labeledValue finds a cell whose text equals one of the labels and returns
// the text of the cell right after it.
func labeledValue(p *Page, labels ...string) (string, bool) {
	wanted := map[string]bool{}
	for _, l := range labels {
		wanted[strings.ToLower(l)] = true
	}

	value := ""
	found := false
	p.Doc.Find("th, td, dt").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSuffix(htmlutil.Text(s), ":"))
		if !wanted[label] {
			return true
		}
		next := s.Next()
		if next.Length() == 0 {
			return true
		}
		value = htmlutil.Text(next)
		found = true
		return false
	})
	return value, found
}
