package extract

import (
	"math"
	"regexp"
	"strings"
	"time"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/model"
	"inventory-adapter/internal/normalize"
	"inventory-adapter/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const summaryItemCells = 6

// ItemDetail reads an item's page. The six cell summary row is mandatory;
// without it there is nothing trustworthy to return.
//
// Sale fields are only read when the page says the item is sold, so a stale
// financial table on an available item never leaks into the record.
func ItemDetail(p *Page, itemID string) (model.ItemDetail, error) {
	detail, ok := itemSummary(p)
	if !ok {
		return model.ItemDetail{}, apperr.ParseFailure("item summary row")
	}
	detail.ID = itemID

	if price, ok := labeledValue(p, "purchase price", "price", "cost", "bought for"); ok {
		detail.Price = normalize.ParseMoney(price)
	}
	detail.Returned = itemReturned(p)
	detail.Sold = ItemSold(p)
	if !detail.Sold {
		detail.ClearSale()
		return detail, nil
	}

	if financial := SaleFinancials(p); len(financial) > 0 {
		f := financial[0]
		detail.SoldPrice = &f.SoldPrice
		detail.ShippingFee = &f.ShippingFee
		detail.NetPrice = &f.NetPrice
	}

	detail.SoldDate = soldDate(p)

	if days, ok := labeledValue(p, "days to sell", "days listed"); ok && isCount(days) {
		n := normalize.ParseInt(days)
		detail.DaysToSell = &n
	} else if detail.SoldDate != nil {
		from := detail.PurchaseDate
		if detail.ListDate != nil {
			from = *detail.ListDate
		}
		if !from.IsZero() {
			n := int(math.Round(detail.SoldDate.Sub(from).Hours() / 24))
			detail.DaysToSell = &n
		}
	}
	return detail, nil
}

// name | category | purchase date | list date | storage | group, first match
func itemSummary(p *Page) (model.ItemDetail, bool) {
	for _, row := range Rows(p) {
		if row.Len() != summaryItemCells {
			continue
		}
		group, ok := row.Anchor(5)
		if !ok || group.Param(groupIDParam) == "" {
			continue
		}
		name := row.Text(0)
		if IsSentinel(name) {
			continue
		}

		detail := model.ItemDetail{
			Name:      name,
			Category:  row.Text(1),
			Storage:   row.Text(4),
			GroupID:   group.Param(groupIDParam),
			GroupName: group.Name,
		}
		detail.CategoryID = categoryID(row.Cells[1])
		if date, ok := normalize.ParseDate(row.Text(2)); ok {
			detail.PurchaseDate = date
		}
		detail.ListDate = optionalDate(row.Text(3))
		return detail, true
	}
	return model.ItemDetail{}, false
}

func categoryID(cell *goquery.Selection) string {
	if id := cell.AttrOr("data-category-id", ""); id != "" {
		return id
	}
	if id := cell.Find("[data-category-id]").First().AttrOr("data-category-id", ""); id != "" {
		return id
	}
	if link, ok := htmlutil.GetAnchor(cell); ok {
		if id := link.Param("category_id"); id != "" {
			return id
		}
		return link.Param("category")
	}
	return ""
}

const markAvailableText = "mark as available"

// ItemSold combines three independent signals; any one is enough.
func ItemSold(p *Page) bool {
	return hasSoldCell(p) || hasSoldDateLink(p) || hasMarkAvailable(p)
}

func hasSoldCell(p *Page) bool {
	found := false
	p.Doc.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if strings.EqualFold(htmlutil.Text(td), "sold") {
			found = true
			return false
		}
		return true
	})
	return found
}

var soldDateLinkSelector = `a[href*="sale_date="], a[href*="sold_date="], a.sold-date`

func hasSoldDateLink(p *Page) bool {
	return p.Doc.Find(soldDateLinkSelector).Length() > 0
}

// hasMarkAvailable looks at the visible text of links and buttons, so markup
// inside the label (Mark as <b>Available</b>) does not hide it.
func hasMarkAvailable(p *Page) bool {
	found := false
	p.Doc.Find("a, button, input[type=submit], input[type=button]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := htmlutil.Text(s)
		if goquery.NodeName(s) == "input" {
			text = normalize.CleanText(s.AttrOr("value", ""))
		}
		if strings.Contains(strings.ToLower(text), markAvailableText) {
			found = true
			return false
		}
		return true
	})
	return found
}

func soldDate(p *Page) *time.Time {
	if date := optionalDate(htmlutil.Text(p.Doc.Find(soldDateLinkSelector).First())); date != nil {
		return date
	}
	if text, ok := labeledValue(p, "sold date", "sale date", "date sold"); ok {
		return optionalDate(text)
	}
	return nil
}

func itemReturned(p *Page) bool {
	if p.Doc.Find(".returned, .badge-returned").Length() > 0 {
		return true
	}
	text, ok := labeledValue(p, "returned")
	return ok && isAffirmative(text)
}

// Financials are sold price, shipping fee and net price.
type Financials struct {
	SoldPrice   float64
	ShippingFee float64
	NetPrice    float64
}

// SaleFinancials tries three progressively looser shapes of "three numeric
// cells in a row" and keeps the last match of the first shape that matches.
func SaleFinancials(p *Page) []Financials {
	return FirstNonEmpty(
		Last(FinancialsStrict),
		Last(FinancialsInRow),
		Last(FinancialsFromMarkup),
	)(p)
}

// FinancialsStrict matches rows of exactly three currency cells.
func FinancialsStrict(p *Page) []Financials {
	var out []Financials
	for _, row := range Rows(p) {
		if row.Len() != 3 || consecutiveMoney(row, 3, true) != 0 {
			continue
		}
		out = append(out, financialsFromRow(row, 0))
	}
	return out
}

// FinancialsInRow matches any row holding three consecutive numeric cells,
// with or without a currency sign.
func FinancialsInRow(p *Page) []Financials {
	var out []Financials
	for _, row := range Rows(p) {
		start := consecutiveMoney(row, 3, false)
		if start < 0 {
			continue
		}
		out = append(out, financialsFromRow(row, start))
	}
	return out
}

var numericCellTriple = regexp.MustCompile(
	`(?is)<td[^>]*>\s*([^<]*?\d[^<]*?)\s*</td>\s*<td[^>]*>\s*([^<]*?\d[^<]*?)\s*</td>\s*<td[^>]*>\s*([^<]*?\d[^<]*?)\s*</td>`,
)

// FinancialsFromMarkup works on the raw markup for pages whose tables are
// malformed enough that the parser regroups their cells.
func FinancialsFromMarkup(p *Page) []Financials {
	var out []Financials
	for _, match := range numericCellTriple.FindAllStringSubmatch(p.Raw, -1) {
		cells := []string{stripTags(match[1]), stripTags(match[2]), stripTags(match[3])}
		money := true
		for _, c := range cells {
			if !normalize.LooksLikeMoney(c, false) {
				money = false
				break
			}
		}
		if !money {
			continue
		}
		out = append(out, Financials{
			SoldPrice:   normalize.ParseMoney(cells[0]),
			ShippingFee: normalize.ParseMoney(cells[1]),
			NetPrice:    normalize.ParseMoney(cells[2]),
		})
	}
	return out
}

func financialsFromRow(row Row, start int) Financials {
	return Financials{
		SoldPrice:   normalize.ParseMoney(row.Text(start)),
		ShippingFee: normalize.ParseMoney(row.Text(start + 1)),
		NetPrice:    normalize.ParseMoney(row.Text(start + 2)),
	}
}
