package extract

import (
	"strings"
	"time"

	"inventory-adapter/internal/model"
	"inventory-adapter/internal/normalize"
	"inventory-adapter/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const itemIDParam = "item"

// Items reads the item listing. The structured pattern and the row scan both
// run and whichever finds more rows wins: the structured pattern silently
// drops every row once the table gains or loses a column.
func Items(p *Page) []model.ListedItem {
	return MaxByCount(
		ItemsStructured,
		ItemsByRowScan,
	)(p)
}

const structuredItemCells = 10

// ItemsStructured reads rows with exactly ten cells:
//
//	# | name | group | category | purchase date | list date | price | sold | storage | actions
//
// The category column is no longer filled by the backend and is ignored.
func ItemsStructured(p *Page) []model.ListedItem {
	var items []model.ListedItem
	for _, row := range Rows(p) {
		if row.Len() != structuredItemCells || !isCount(row.Text(0)) {
			continue
		}
		link, ok := row.Anchor(1)
		if !ok || link.Param(itemIDParam) == "" || IsSentinel(link.Name) {
			continue
		}

		item := model.ListedItem{
			ID:      link.Param(itemIDParam),
			Name:    link.Name,
			Price:   normalize.ParseMoney(row.Text(6)),
			Sold:    isAffirmative(row.Text(7)),
			Storage: row.Text(8),
		}
		if group, ok := row.Anchor(2); ok {
			item.GroupID = group.Param(groupIDParam)
			item.GroupName = group.Name
		}
		item.PurchaseDate = optionalDate(row.Text(4))
		item.ListDate = optionalDate(row.Text(5))
		items = append(items, item)
	}
	return items
}

// ItemsByRowScan finds every row containing an item link and reads each field
// on its own, so a shifted or missing column only loses that one field.
func ItemsByRowScan(p *Page) []model.ListedItem {
	var items []model.ListedItem
	seen := map[string]bool{}
	for _, row := range Rows(p) {
		link, ok := itemLink(row)
		if !ok {
			continue
		}
		id := link.Param(itemIDParam)
		if seen[id] || IsSentinel(link.Name) {
			continue
		}
		seen[id] = true

		item := model.ListedItem{ID: id, Name: link.Name}
		if group, ok := row.AnchorWith(groupIDParam); ok {
			item.GroupID = group.Param(groupIDParam)
			item.GroupName = group.Name
		}

		item.Category = labeledCell(row, "category")
		item.Storage = labeledCell(row, "storage")

		var dates []time.Time
		priced := false
		for i := 0; i < row.Len(); i++ {
			text := row.Text(i)
			if strings.EqualFold(text, "sold") || isAffirmative(text) && isSoldColumn(row.Cells[i]) {
				item.Sold = true
				continue
			}
			if date, ok := normalize.ParseDate(text); ok {
				dates = append(dates, date)
				continue
			}
			if !priced && !isCount(text) && normalize.LooksLikeMoney(text, false) {
				item.Price = normalize.ParseMoney(text)
				priced = true
			}
		}
		if row.Sel.HasClass("sold") {
			item.Sold = true
		}
		if len(dates) > 0 {
			item.PurchaseDate = &dates[0]
		}
		if len(dates) > 1 {
			item.ListDate = &dates[1]
		}

		items = append(items, item)
	}
	return items
}

func itemLink(row Row) (htmlutil.Anchor, bool) {
	for _, a := range htmlutil.GetAnchors(row.Sel.Find("a[href]")) {
		if a.Param(itemIDParam) == "" {
			continue
		}
		if strings.Contains(a.Href, "describe") || strings.Contains(a.Href, "detail") {
			return a, true
		}
	}
	return htmlutil.Anchor{}, false
}

// labeledCell reads a cell marked by class or data-label, e.g.
// <td class="storage"> or <td data-label="Storage">.
func labeledCell(row Row, name string) string {
	value := ""
	for _, cell := range row.Cells {
		label := strings.ToLower(cell.AttrOr("data-label", ""))
		if label == name || cell.HasClass(name) {
			value = htmlutil.Text(cell)
			break
		}
	}
	return value
}

// isAffirmative reads a yes/no style cell.
func isAffirmative(text string) bool {
	switch strings.ToLower(normalize.CleanText(text)) {
	case "sold", "yes", "true", "✓":
		return true
	}
	return false
}

// isSoldColumn reports whether a cell is labelled as the sold or status
// column. A bare "Yes" elsewhere in the row (returned, shipped) says nothing
// about the sale.
func isSoldColumn(cell *goquery.Selection) bool {
	for _, name := range []string{"sold", "status"} {
		if strings.EqualFold(cell.AttrOr("data-label", ""), name) || cell.HasClass(name) {
			return true
		}
	}
	return false
}

func optionalDate(text string) *time.Time {
	date, ok := normalize.ParseDate(text)
	if !ok {
		return nil
	}
	return &date
}

// ItemsForGroup filters a listing down to one group.
func ItemsForGroup(items []model.ListedItem, groupID string) []model.GroupItem {
	out := []model.GroupItem{}
	for _, item := range items {
		if item.GroupID == groupID {
			out = append(out, item.GroupItem())
		}
	}
	return out
}
