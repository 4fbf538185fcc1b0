package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/components/deadline"
	"inventory-adapter/internal/extract"
	"inventory-adapter/internal/model"
	"inventory-adapter/internal/normalize"
	"inventory-adapter/internal/transport"
)

const (
	report_groups_list              = "groups.list"
	report_groups_detail            = "groups.detail"
	report_groups_detail_with_items = "groups.detail-with-items"
	report_groups_create            = "groups.create"
)

type GroupsService struct {
	backend
	items        *ItemsService
	itemsTimeout time.Duration
}

// GroupFilter narrows the group listing. Zero fields are not sent.
type GroupFilter struct {
	Date time.Time
	Year int
}

func (f GroupFilter) query() url.Values {
	query := url.Values{}
	if !f.Date.IsZero() {
		query.Set("date", normalize.FormatDate(f.Date))
	}
	if f.Year > 0 {
		query.Set("listYear", strconv.Itoa(f.Year))
	}
	return query
}

// List returns the groups of the listing page. A page no strategy can read
// is an empty list, not an error.
func (s *GroupsService) List(ctx context.Context, filter GroupFilter) ([]model.Group, error) {
	page, err := s.page(ctx, transport.Get("/groups/list", filter.query()))
	if err != nil {
		return nil, err
	}
	groups := extract.Groups(page)
	if len(groups) == 0 {
		s.tel.ReportDebug("no groups on listing page", report_groups_list)
	}
	return nonNil(groups), nil
}

// Search matches groups by name, the result has the listing's shape.
func (s *GroupsService) Search(ctx context.Context, name string) ([]model.Group, error) {
	page, err := s.page(ctx, transport.PostForm("/groups/search", url.Values{"name": {name}}))
	if err != nil {
		return nil, err
	}
	return nonNil(extract.Groups(page)), nil
}

// Detail reads a group's page. The result is provisional: the page may list
// none of the group's items, see DetailWithItems.
func (s *GroupsService) Detail(ctx context.Context, id string) (model.GroupDetail, error) {
	return s.detail(ctx, "", id)
}

func (s *GroupsService) detail(ctx context.Context, token, id string) (model.GroupDetail, error) {
	req := transport.Get("/groups/detail", url.Values{"group_id": {id}}).WithToken(token)
	page, err := s.page(ctx, req)
	if err != nil {
		return model.GroupDetail{}, err
	}
	detail, err := extract.GroupDetail(page, id)
	if err != nil {
		s.tel.ReportBroken(report_groups_detail, err, id)
		return model.GroupDetail{}, err
	}
	return detail, nil
}

// DetailWithItems is Detail followed, when the page listed no items, by a
// fetch of the item listing filtered to the group. The second fetch runs
// under the group items timeout. If it fails for any reason other than the
// session, the provisional detail is returned as is.
func (s *GroupsService) DetailWithItems(ctx context.Context, id string) (model.GroupDetail, error) {
	token, err := s.client.Token()
	if err != nil {
		return model.GroupDetail{}, err
	}
	detail, err := s.detail(ctx, token, id)
	if err != nil {
		return model.GroupDetail{}, err
	}
	if len(detail.Items) > 0 {
		return detail, nil
	}

	items, err := deadline.Race(ctx, s.itemsTimeout, func(ctx context.Context) ([]model.GroupItem, error) {
		return s.items.forGroup(ctx, token, id)
	})
	if errors.Is(err, apperr.ErrUnauthorized) {
		return model.GroupDetail{}, err
	}
	if err != nil {
		s.tel.ReportWarning(report_groups_detail_with_items, err, id)
		return detail, nil
	}
	detail.Items = items
	return detail, nil
}

type Image struct {
	Name        string
	ContentType string
	Content     []byte
}

type NewGroup struct {
	Name            string
	Price           float64
	Date            time.Time
	Latitude        *float64
	Longitude       *float64
	LocationAddress string
	// Image switches the request to a multipart upload.
	Image *Image
}

var groupFieldOrder = []string{"name", "price", "date", "latitude", "longitude", "location_address"}

func (g NewGroup) fields() url.Values {
	fields := url.Values{
		"name":  {g.Name},
		"price": {normalize.FormatMoney(g.Price)},
		"date":  {normalize.FormatDate(g.Date)},
	}
	if g.Latitude != nil && g.Longitude != nil {
		fields.Set("latitude", strconv.FormatFloat(*g.Latitude, 'f', -1, 64))
		fields.Set("longitude", strconv.FormatFloat(*g.Longitude, 'f', -1, 64))
	}
	if g.LocationAddress != "" {
		fields.Set("location_address", g.LocationAddress)
	}
	return fields
}

// Create adds a group and returns its id, read from the redirect target or,
// when the backend answers with a page, from the new group's link on it.
func (s *GroupsService) Create(ctx context.Context, group NewGroup) (string, error) {
	req := transport.Request{Method: http.MethodPost, Path: "/groups/create", Authenticated: true}
	if group.Image != nil {
		req.Multipart = &transport.Multipart{
			Fields: group.fields(),
			Order:  groupFieldOrder,
			Files: []transport.File{{
				Field:       "image",
				Name:        group.Image.Name,
				ContentType: group.Image.ContentType,
				Content:     group.Image.Content,
			}},
		}
	} else {
		req.Form = group.fields()
	}

	res, err := s.mutate(ctx, req)
	if err != nil {
		return "", err
	}
	if id := extract.GroupIDFromLocation(res.Location); id != "" {
		return id, nil
	}

	page, err := res.Page()
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperr.ErrParseFailure, err.Error())
	}
	candidates := extract.GroupsFromLinks(page)
	for _, candidate := range candidates {
		if strings.EqualFold(candidate.Name, normalize.CleanText(group.Name)) {
			return candidate.ID, nil
		}
	}
	if len(candidates) == 1 {
		return candidates[0].ID, nil
	}
	s.tel.ReportWarning(report_groups_create, "created group id not found", res.Status)
	return "", fmt.Errorf("%w: id of created group", apperr.ErrNoData)
}

type GroupUpdate struct {
	ID    string
	Name  string
	Price float64
	Date  time.Time
}

func (s *GroupsService) Modify(ctx context.Context, update GroupUpdate) error {
	_, err := s.mutate(ctx, transport.PostForm("/groups/modify", url.Values{
		"group_id": {update.ID},
		"name":     {update.Name},
		"price":    {normalize.FormatMoney(update.Price)},
		"date":     {normalize.FormatDate(update.Date)},
	}))
	return err
}

func (s *GroupsService) Remove(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, transport.Get("/groups/remove", url.Values{"id": {id}}))
	return err
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
