package inventory

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"inventory-adapter/internal/components/batch"
	"inventory-adapter/internal/extract"
	"inventory-adapter/internal/model"
	"inventory-adapter/internal/normalize"
	"inventory-adapter/internal/transport"

	"github.com/google/uuid"
)

const (
	report_items_detail = "items.detail"
	report_items_enrich = "items.enrich-categories"
)

// UnknownCategoryName is what enrichment falls back to for an item whose
// page could not be read. Its id is UnknownCategoryID.
const UnknownCategoryName = "Uncategorized"

var UnknownCategoryID = uuid.Nil.String()

type ItemsService struct {
	backend
	batchSize int
}

// List returns every item of the listing page.
func (s *ItemsService) List(ctx context.Context) ([]model.ListedItem, error) {
	return s.list(ctx, "")
}

func (s *ItemsService) list(ctx context.Context, token string) ([]model.ListedItem, error) {
	page, err := s.page(ctx, transport.Get("/items/list", nil).WithToken(token))
	if err != nil {
		return nil, err
	}
	return nonNil(extract.Items(page)), nil
}

// ForGroup is the item listing filtered to one group. The backend has no
// per-group listing, the filter runs here.
func (s *ItemsService) ForGroup(ctx context.Context, groupID string) ([]model.GroupItem, error) {
	return s.forGroup(ctx, "", groupID)
}

func (s *ItemsService) forGroup(ctx context.Context, token, groupID string) ([]model.GroupItem, error) {
	items, err := s.list(ctx, token)
	if err != nil {
		return nil, err
	}
	return extract.ItemsForGroup(items, groupID), nil
}

// Detail reads an item's page. Sale fields are only set on sold items.
func (s *ItemsService) Detail(ctx context.Context, id string) (model.ItemDetail, error) {
	return s.detail(ctx, "", id)
}

func (s *ItemsService) detail(ctx context.Context, token, id string) (model.ItemDetail, error) {
	page, err := s.page(ctx, transport.Get("/items/describe", url.Values{"item": {id}}).WithToken(token))
	if err != nil {
		return model.ItemDetail{}, err
	}
	detail, err := extract.ItemDetail(page, id)
	if err != nil {
		s.tel.ReportBroken(report_items_detail, err, id)
		return model.ItemDetail{}, err
	}
	return detail, nil
}

type NewItems struct {
	// Names adds one item per name, all sharing the other fields.
	Names      []string
	GroupID    string
	CategoryID string
	Storage    string
	ListDate   *time.Time
}

func (s *ItemsService) Add(ctx context.Context, items NewItems) error {
	if len(items.Names) == 0 {
		return nil
	}
	form := url.Values{
		"group":    {items.GroupID},
		"category": {items.CategoryID},
		"storage":  {items.Storage},
	}
	for i, name := range items.Names {
		form.Set("item-"+strconv.Itoa(i), name)
	}
	if items.ListDate != nil {
		form.Set("list_date", normalize.FormatDate(*items.ListDate))
	}
	_, err := s.mutate(ctx, transport.PostForm("/items/bought", form))
	return err
}

func (s *ItemsService) Remove(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, transport.Get("/items/remove", url.Values{"id": {id}}))
	return err
}

type Sale struct {
	ItemID      string
	Price       float64
	ShippingFee float64
	Date        time.Time
}

func (s *ItemsService) MarkSold(ctx context.Context, sale Sale) error {
	_, err := s.mutate(ctx, transport.PostForm("/items/sold", url.Values{
		"id":           {sale.ItemID},
		"price":        {normalize.FormatMoney(sale.Price)},
		"sale_date":    {normalize.FormatDate(sale.Date)},
		"shipping_fee": {normalize.FormatMoney(sale.ShippingFee)},
	}))
	return err
}

func (s *ItemsService) MarkAvailable(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, transport.Get("/items/mark_sold", url.Values{
		"item": {id},
		"sold": {"0"},
	}))
	return err
}

// EnrichCategories fills in the category of every item from its own page.
// Pages are fetched in groups of the batch size, one group at a time, all
// with the token of the session current at the call. An item whose page
// fails gets the unknown category instead of failing the call. The result
// is in input order.
func (s *ItemsService) EnrichCategories(ctx context.Context, items []model.GroupItem) ([]model.GroupItem, error) {
	token, err := s.client.Token()
	if err != nil {
		return nil, err
	}

	var failed int64
	enriched := batch.Map(ctx, items, s.batchSize,
		func(ctx context.Context, item model.GroupItem) (model.GroupItem, error) {
			detail, err := s.detail(ctx, token, item.ID)
			if err != nil {
				return model.GroupItem{}, err
			}
			item.CategoryID = detail.CategoryID
			item.Category = detail.Category
			return item, nil
		},
		func(item model.GroupItem, err error) model.GroupItem {
			s.tel.ReportWarning(report_items_enrich, fmt.Errorf("item %s: %w", item.ID, err))
			item.CategoryID = UnknownCategoryID
			item.Category = UnknownCategoryName
			return item
		},
	)
	for _, item := range enriched {
		if item.CategoryID == UnknownCategoryID {
			failed++
		}
	}
	s.tel.ReportCount(report_items_enrich, failed)
	return enriched, nil
}

// GuessCategories labels items from their names alone, without any request.
// Items that already carry a category are left as they are.
func (s *ItemsService) GuessCategories(items []model.GroupItem) []model.GroupItem {
	return GuessCategories(items)
}

func GuessCategories(items []model.GroupItem) []model.GroupItem {
	out := make([]model.GroupItem, len(items))
	for i, item := range items {
		if item.Category == "" {
			item.Category = normalize.GuessCategory(item.Name)
			if category, ok := FallbackCategory(item.Category); ok {
				item.CategoryID = category.ID
			}
		}
		out[i] = item
	}
	return out
}
