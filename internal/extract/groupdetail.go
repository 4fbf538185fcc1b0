package extract

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/model"
	"inventory-adapter/internal/normalize"
	"inventory-adapter/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type groupSummary struct {
	Name       string
	Date       time.Time
	TotalItems int
	SoldItems  int
}

type groupMoney struct {
	Purchase float64
	Sale     float64
	Profit   float64
}

// GroupDetail reads a group's page. Only the summary row is mandatory; a
// missing money row leaves the money fields at zero.
func GroupDetail(p *Page, groupID string) (model.GroupDetail, error) {
	summaries := groupSummaryRows(p)
	if len(summaries) == 0 {
		return model.GroupDetail{}, apperr.ParseFailure("group summary row")
	}
	summary := summaries[0]

	detail := model.GroupDetail{
		ID:             groupID,
		Name:           summary.Name,
		Date:           summary.Date,
		TotalItems:     summary.TotalItems,
		TotalSoldItems: summary.SoldItems,
		Items:          []model.GroupItem{},
	}

	if money := groupMoneyRows(p); len(money) > 0 {
		detail.Price = money[0].Purchase
		detail.SoldPrice = money[0].Sale
		detail.Profit = money[0].Profit
	}

	for _, item := range ItemsByRowScan(p) {
		detail.Items = append(detail.Items, item.GroupItem())
	}

	detail.ImageFilename = groupImage(p)
	detail.Latitude, detail.Longitude = groupCoordinates(p)
	detail.LocationAddress = groupAddress(p)

	return detail, nil
}

// summary rows are "name | date | total items | sold items"
func groupSummaryRows(p *Page) []groupSummary {
	var out []groupSummary
	for _, row := range Rows(p) {
		if row.Len() < 4 {
			continue
		}
		name := row.Text(0)
		if IsSentinel(name) {
			continue
		}
		date, ok := normalize.ParseDate(row.Text(1))
		if !ok || !isCount(row.Text(2)) || !isCount(row.Text(3)) {
			continue
		}
		out = append(out, groupSummary{
			Name:       name,
			Date:       date,
			TotalItems: normalize.ParseInt(row.Text(2)),
			SoldItems:  normalize.ParseInt(row.Text(3)),
		})
	}
	return out
}

// money rows carry purchase, sale and profit as three consecutive currency cells
func groupMoneyRows(p *Page) []groupMoney {
	var out []groupMoney
	for _, row := range Rows(p) {
		start := consecutiveMoney(row, 3, true)
		if start < 0 {
			continue
		}
		out = append(out, groupMoney{
			Purchase: normalize.ParseMoney(row.Text(start)),
			Sale:     normalize.ParseMoney(row.Text(start + 1)),
			Profit:   normalize.ParseMoney(row.Text(start + 2)),
		})
	}
	return out
}

// consecutiveMoney returns the index of the first run of n money cells in the
// row, or -1.
func consecutiveMoney(row Row, n int, requireSymbol bool) int {
	run := 0
	for i := 0; i < row.Len(); i++ {
		if normalize.LooksLikeMoney(row.Text(i), requireSymbol) {
			run++
			if run == n {
				return i - n + 1
			}
			continue
		}
		run = 0
	}
	return -1
}

const uploadsPrefix = "/static/uploads/"

func groupImage(p *Page) string {
	src := p.Doc.Find(`img[src*="` + uploadsPrefix + `"]`).First().AttrOr("src", "")
	if src == "" {
		return ""
	}
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	return path.Base(src)
}

var mapsQueryPattern = regexp.MustCompile(`[?&](?:q|query|ll)=(-?\d+(?:\.\d+)?),\s*(-?\d+(?:\.\d+)?)`)

func groupCoordinates(p *Page) (*float64, *float64) {
	located := p.Doc.Find("[data-latitude][data-longitude]").First()
	if located.Length() > 0 {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(located.AttrOr("data-latitude", "")), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(located.AttrOr("data-longitude", "")), 64)
		if latErr == nil && lngErr == nil {
			return &lat, &lng
		}
	}

	var lat, lng *float64
	p.Doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		match := mapsQueryPattern.FindStringSubmatch(a.AttrOr("href", ""))
		if match == nil {
			return true
		}
		la, err1 := strconv.ParseFloat(match[1], 64)
		lo, err2 := strconv.ParseFloat(match[2], 64)
		if err1 != nil || err2 != nil {
			return true
		}
		lat, lng = &la, &lo
		return false
	})
	return lat, lng
}

func groupAddress(p *Page) string {
	if address := p.Doc.Find("[data-address]").First().AttrOr("data-address", ""); address != "" {
		return normalize.CleanText(address)
	}
	if address := htmlutil.Text(p.Doc.Find(".location-address").First()); address != "" {
		return address
	}
	address, _ := labeledValue(p, "location", "address")
	return address
}
