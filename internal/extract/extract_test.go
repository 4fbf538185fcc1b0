package extract

import (
	"embed"
	"errors"
	"testing"
	"time"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata
var fixtures embed.FS

func fixture(t testing.TB, name string) *Page {
	contents, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	page, err := NewPage(contents)
	if err != nil {
		t.Fatal(err)
	}
	return page
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCombinators(t *testing.T) {
	page := MustPage("<html></html>")
	var none Strategy[int] = func(*Page) []int { return nil }
	var two Strategy[int] = func(*Page) []int { return []int{1, 2} }
	var three Strategy[int] = func(*Page) []int { return []int{3, 4, 5} }
	var otherTwo Strategy[int] = func(*Page) []int { return []int{8, 9} }

	require.Equal(t, []int{1, 2}, FirstNonEmpty(none, two, three)(page))
	require.Nil(t, FirstNonEmpty(none, none)(page))

	require.Equal(t, []int{3, 4, 5}, MaxByCount(two, three)(page))
	require.Equal(t, []int{1, 2}, MaxByCount(two, otherTwo)(page), "ties keep the earlier strategy")
	require.Nil(t, MaxByCount(none)(page))

	require.Equal(t, []int{5}, Last(three)(page))
	require.Nil(t, Last(none)(page))
}

func TestGroupsExcludeHeaderAndTotals(t *testing.T) {
	table := []struct {
		fixture string
		ids     []string
	}{
		{
			fixture: "groups_with_count.html",
			ids: []string{
				"7f3c1a52-3a3e-4c7a-9d1e-0a1b2c3d4e5f",
				"1b2c3d4e-5f60-4a7b-8c9d-0e1f2a3b4c5d",
				"9a8b7c6d-5e4f-4a3b-2c1d-0e9f8a7b6c5d",
			},
		},
		{
			fixture: "groups_without_count.html",
			ids: []string{
				"7f3c1a52-3a3e-4c7a-9d1e-0a1b2c3d4e5f",
				"1b2c3d4e-5f60-4a7b-8c9d-0e1f2a3b4c5d",
			},
		},
		{
			fixture: "groups_links_only.html",
			ids: []string{
				"aaaa1111-2222-4333-8444-555566667777",
				"bbbb1111-2222-4333-8444-555566667777",
			},
		},
	}

	for _, row := range table {
		groups := Groups(fixture(t, row.fixture))
		require.Len(t, groups, len(row.ids), row.fixture)
		for i, g := range groups {
			require.Equal(t, row.ids[i], g.ID, row.fixture)
			require.NotEqual(t, "Name", g.Name)
			require.NotEqual(t, "Totals", g.Name)
		}
	}
}

func TestGroupsFieldValues(t *testing.T) {
	groups := Groups(fixture(t, "groups_with_count.html"))
	require.Equal(t, "Garage & Yard", groups[1].Name)
	require.Equal(t, date(2024, 2, 11), groups[1].CreatedAt)
	require.Equal(t, groups[1].CreatedAt, groups[1].UpdatedAt)
	require.Equal(t, date(2024, 3, 2), groups[2].CreatedAt)

	groups = Groups(fixture(t, "groups_without_count.html"))
	require.Equal(t, "Mostly tools", groups[0].Description)
	require.Equal(t, "", groups[1].Description)
}

func TestGroupsTiersAreIndependent(t *testing.T) {
	page := fixture(t, "groups_without_count.html")
	require.Empty(t, GroupsWithCountColumn(page))
	require.Len(t, GroupsWithoutCountColumn(page), 2)
	require.Len(t, GroupsFromLinks(page), 2)

	require.Empty(t, Groups(MustPage("<html><body><p>No groups yet</p></body></html>")))
}

func TestGroupIDFromLocation(t *testing.T) {
	require.Equal(t, "abc", GroupIDFromLocation("/groups/detail?group_id=abc"))
	require.Equal(t, "xyz", GroupIDFromLocation("https://example.com/groups/describe?id=xyz"))
	require.Equal(t, "", GroupIDFromLocation("/groups/list"))
}

func TestGroupDetail(t *testing.T) {
	detail, err := GroupDetail(fixture(t, "group_detail.html"), "7f3c1a52-3a3e-4c7a-9d1e-0a1b2c3d4e5f")
	require.NoError(t, err)

	lat, lng := 39.7392, -104.9903
	expected := model.GroupDetail{
		ID:             "7f3c1a52-3a3e-4c7a-9d1e-0a1b2c3d4e5f",
		Name:           "Estate Sale Lot",
		Date:           date(2024, 1, 5),
		Price:          120,
		SoldPrice:      310.25,
		Profit:         190.25,
		TotalItems:     12,
		TotalSoldItems: 5,
		Items: []model.GroupItem{
			{ID: "11111111-aaaa-4bbb-8ccc-000000000001", Name: "Xbox Controller", Price: 10, Sold: true, Storage: "Bin 3"},
			{ID: "11111111-aaaa-4bbb-8ccc-000000000002", Name: "Vintage Lamp", Price: 4, Storage: "Shelf A"},
		},
		ImageFilename:   "estate_sale.jpg",
		Latitude:        &lat,
		Longitude:       &lng,
		LocationAddress: "123 Main St, Denver, CO",
	}
	if diff := cmp.Diff(expected, detail); diff != "" {
		t.Fatalf("group detail mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupDetailMalformedMoneyRow(t *testing.T) {
	detail, err := GroupDetail(fixture(t, "group_detail_bad_money.html"), "9a8b7c6d-5e4f-4a3b-2c1d-0e9f8a7b6c5d")
	require.NoError(t, err)
	require.Equal(t, "Thrift Run", detail.Name)
	require.Equal(t, 3, detail.TotalItems)
	require.Equal(t, 0.0, detail.Price)
	require.Equal(t, 0.0, detail.SoldPrice)
	require.Equal(t, 0.0, detail.Profit)
	require.NotNil(t, detail.Items)
	require.Empty(t, detail.Items)
	require.InDelta(t, 40.015, *detail.Latitude, 0.00001)
	require.InDelta(t, -105.2705, *detail.Longitude, 0.00001)
}

func TestGroupDetailWithoutSummary(t *testing.T) {
	_, err := GroupDetail(fixture(t, "item_broken.html"), "x")
	require.True(t, errors.Is(err, apperr.ErrParseFailure))
}

func TestItemsStructured(t *testing.T) {
	page := fixture(t, "items_structured.html")
	items := Items(page)
	require.Len(t, items, 3)
	require.Len(t, ItemsStructured(page), 3)

	first := items[0]
	require.Equal(t, "11111111-aaaa-4bbb-8ccc-000000000001", first.ID)
	require.Equal(t, "Xbox Controller", first.Name)
	require.Equal(t, "7f3c1a52-3a3e-4c7a-9d1e-0a1b2c3d4e5f", first.GroupID)
	require.Equal(t, "Estate Sale Lot", first.GroupName)
	require.Equal(t, 10.0, first.Price)
	require.True(t, first.Sold)
	require.Equal(t, "Bin 3", first.Storage)
	require.Equal(t, date(2024, 1, 8), *first.ListDate)

	require.False(t, items[1].Sold)
	require.Nil(t, items[1].ListDate)
	require.Equal(t, "Garage & Yard", items[2].GroupName)
}

func TestItemsFallbackWins(t *testing.T) {
	page := fixture(t, "items_drifted.html")
	require.Empty(t, ItemsStructured(page))
	require.Len(t, ItemsByRowScan(page), 4)

	items := Items(page)
	require.Len(t, items, 4)
	require.True(t, items[0].Sold)
	require.Equal(t, 10.0, items[0].Price)
	require.Equal(t, "Bin 3", items[0].Storage)
	require.Equal(t, date(2024, 1, 5), *items[0].PurchaseDate)
	require.False(t, items[3].Sold)
	require.Equal(t, "LEGO Castle", items[3].Name)
}

func TestItemsByRowScanSoldColumn(t *testing.T) {
	page := MustPage(`<table>
<tr><td><a href="/items/describe?item=a1">Lamp</a></td><td>$4.00</td><td data-label="Returned">Yes</td></tr>
<tr><td><a href="/items/describe?item=a2">Radio</a></td><td>$6.00</td><td data-label="Status">Yes</td></tr>
<tr><td><a href="/items/describe?item=a3">Clock</a></td><td>$2.00</td><td class="sold">&#10003;</td></tr>
<tr><td><a href="/items/describe?item=a4">Vase</a></td><td>$3.00</td><td>Sold</td></tr>
<tr><td><a href="/items/describe?item=a5">Desk</a></td><td>$9.00</td><td>true</td></tr>
</table>`)

	items := ItemsByRowScan(page)
	require.Len(t, items, 5)
	sold := map[string]bool{}
	for _, item := range items {
		sold[item.Name] = item.Sold
	}
	require.Equal(t, map[string]bool{
		"Lamp":  false,
		"Radio": true,
		"Clock": true,
		"Vase":  true,
		"Desk":  false,
	}, sold)
	require.Equal(t, 4.0, items[0].Price)
}

func TestItemsForGroup(t *testing.T) {
	items := Items(fixture(t, "items_drifted.html"))
	forGroup := ItemsForGroup(items, "1b2c3d4e-5f60-4a7b-8c9d-0e1f2a3b4c5d")
	require.Len(t, forGroup, 2)
	require.Equal(t, "Golf Clubs", forGroup[0].Name)

	require.Empty(t, ItemsForGroup(items, "missing"))
}

func TestItemDetailSold(t *testing.T) {
	detail, err := ItemDetail(fixture(t, "item_sold.html"), "11111111-aaaa-4bbb-8ccc-000000000001")
	require.NoError(t, err)

	require.True(t, detail.Sold)
	require.Equal(t, "Xbox Controller", detail.Name)
	require.Equal(t, "Gaming", detail.Category)
	require.Equal(t, "c0ffee00-1111-4222-8333-444455556666", detail.CategoryID)
	require.Equal(t, "7f3c1a52-3a3e-4c7a-9d1e-0a1b2c3d4e5f", detail.GroupID)
	require.Equal(t, "Estate Sale Lot", detail.GroupName)
	require.Equal(t, date(2024, 1, 5), detail.PurchaseDate)
	require.Equal(t, 10.0, detail.Price)

	// the decorative overview table comes first, the real one last
	require.Equal(t, 45.0, *detail.SoldPrice)
	require.Equal(t, 7.5, *detail.ShippingFee)
	require.Equal(t, 37.5, *detail.NetPrice)
	require.Equal(t, date(2024, 1, 20), *detail.SoldDate)
	require.Equal(t, 12, *detail.DaysToSell)
}

func TestItemDetailAvailableHasNoSaleFields(t *testing.T) {
	detail, err := ItemDetail(fixture(t, "item_available.html"), "11111111-aaaa-4bbb-8ccc-000000000002")
	require.NoError(t, err)

	require.False(t, detail.Sold)
	require.Equal(t, "Home & Garden", detail.Category)
	require.Equal(t, "c0ffee00-2222-4222-8333-444455556666", detail.CategoryID)
	require.Equal(t, 4.0, detail.Price)
	require.Nil(t, detail.ListDate)
	require.Nil(t, detail.SoldPrice)
	require.Nil(t, detail.ShippingFee)
	require.Nil(t, detail.NetPrice)
	require.Nil(t, detail.SoldDate)
	require.Nil(t, detail.DaysToSell)
}

func TestItemDetailSoldDateLinkAlone(t *testing.T) {
	page := fixture(t, "item_sold_link_only.html")
	require.False(t, hasSoldCell(page))
	require.False(t, hasMarkAvailable(page))
	require.True(t, hasSoldDateLink(page))

	detail, err := ItemDetail(page, "11111111-aaaa-4bbb-8ccc-000000000003")
	require.NoError(t, err)
	require.True(t, detail.Sold)
	require.Equal(t, "", detail.CategoryID)
	require.Equal(t, 60.0, *detail.SoldPrice)
	require.Equal(t, 0.0, *detail.ShippingFee)
	require.Equal(t, 60.0, *detail.NetPrice)
	require.Equal(t, 10, *detail.DaysToSell)
}

func TestItemSoldSignals(t *testing.T) {
	table := []struct {
		name string
		html string
		sold bool
	}{
		{name: "sold cell", html: `<table><tr><td>Status</td><td>Sold</td></tr></table>`, sold: true},
		{name: "sold date link", html: `<a href="/reports/sales?sold_date=2024-01-01">2024-01-01</a>`, sold: true},
		{name: "mark available", html: `<button>Mark as Available</button>`, sold: true},
		{name: "mark available with markup", html: `<a href="/items/mark_sold?item=x&sold=0">Mark as <b>Available</b></a>`, sold: true},
		{name: "mark available input", html: `<form><input type="submit" value="Mark as Available"></form>`, sold: true},
		{name: "mark available outside an action", html: `<p>Use mark as available to undo a sale.</p>`, sold: false},
		{name: "none", html: `<table><tr><td>Status</td><td>Available</td></tr></table><button>Mark as Sold</button>`, sold: false},
	}

	for _, row := range table {
		require.Equal(t, row.sold, ItemSold(MustPage(row.html)), row.name)
	}
}

func TestItemDetailMissingSummary(t *testing.T) {
	_, err := ItemDetail(fixture(t, "item_broken.html"), "x")
	require.ErrorIs(t, err, apperr.ErrParseFailure)
}

func TestFinancialsMarkupTier(t *testing.T) {
	// cells outside of any <tr> are not seen by the row based tiers
	page := MustPage(`<div><td>$9.00</td><td>$1.00</td><td>$8.00</td></div><div><td>$20.00</td><td>$2.00</td><td>$18.00</td></div>`)
	require.Empty(t, FinancialsStrict(page))

	financials := SaleFinancials(page)
	require.Equal(t, []Financials{{SoldPrice: 20, ShippingFee: 2, NetPrice: 18}}, financials)
}

func TestCategories(t *testing.T) {
	categories := Categories(fixture(t, "categories.html"))

	four := 4
	expected := []model.Category{
		{ID: "c0ffee00-1111-4222-8333-444455556666", Name: "Gaming", UserID: &four},
		{ID: "c0ffee00-2222-4222-8333-444455556666", Name: "Home & Garden"},
		{ID: "c0ffee00-3333-4222-8333-444455556666", Name: "Books & Media"},
		{ID: "c0ffee00-4444-4222-8333-444455556666", Name: `"Vintage" <Misc>`},
	}
	if diff := cmp.Diff(expected, categories); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}

	require.Empty(t, Categories(fixture(t, "groups_with_count.html")))
}

func TestReportRows(t *testing.T) {
	rows := ReportRows(fixture(t, "report_sales.html"), 4)
	require.Len(t, rows, 2)
	require.Equal(t, "2024-01-20", rows[0].Label)
	require.Equal(t, "$45.00", rows[0].Value(1))
	require.Equal(t, "", rows[0].Value(9))
}

func TestErrorFlash(t *testing.T) {
	require.Equal(t, "Name is required", ErrorFlash(MustPage(`<div class="alert alert-danger"> Name is required </div>`)))
	require.Equal(t, "", ErrorFlash(MustPage(`<div class="alert alert-success">Saved</div>`)))
}
