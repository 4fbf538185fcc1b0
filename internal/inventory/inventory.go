// Package inventory exposes the backend's resources (groups, items,
// categories and reports) as typed operations.
package inventory

import (
	"context"
	"fmt"
	"time"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/assert"
	"inventory-adapter/internal/components/batch"
	"inventory-adapter/internal/components/telemetry"
	"inventory-adapter/internal/config"
	"inventory-adapter/internal/extract"
	"inventory-adapter/internal/transport"
)

type Options struct {
	// GroupItemsTimeout bounds the item back-fill of Groups.DetailWithItems,
	// <= 0 leaves it to the transport timeouts.
	GroupItemsTimeout time.Duration
	// EnrichBatchSize is how many item pages EnrichCategories fetches at once.
	EnrichBatchSize int
}

func OptionsFromConfig(c config.Config) Options {
	return Options{
		GroupItemsTimeout: c.GroupItemsTimeout(),
		EnrichBatchSize:   batch.DefaultSize,
	}
}

// Service groups one service per resource family over a shared client.
type Service struct {
	Groups     *GroupsService
	Items      *ItemsService
	Categories *CategoriesService
	Reports    *ReportsService
}

func New(client *transport.Client, opts Options, tel telemetry.API) *Service {
	assert.NotNil(client, "client")
	assert.NotNil(tel, "telemetry")

	if opts.EnrichBatchSize <= 0 {
		opts.EnrichBatchSize = batch.DefaultSize
	}
	tel = telemetry.NewScopedAPI("inventory", tel)

	b := backend{client: client, tel: tel}
	items := &ItemsService{backend: b, batchSize: opts.EnrichBatchSize}
	return &Service{
		Groups:     &GroupsService{backend: b, items: items, itemsTimeout: opts.GroupItemsTimeout},
		Items:      items,
		Categories: &CategoriesService{backend: b},
		Reports:    &ReportsService{backend: b},
	}
}

// backend is what every service shares: a client and a way to report.
type backend struct {
	client *transport.Client
	tel    telemetry.API
}

// page sends req and parses the answer as html.
func (b backend) page(ctx context.Context, req transport.Request) (*extract.Page, error) {
	res, err := b.client.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	page, err := res.Page()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrParseFailure, err.Error())
	}
	return page, nil
}

// mutate sends a request that changes something. A 2xx page reporting an
// error of its own is turned into a ServerError.
func (b backend) mutate(ctx context.Context, req transport.Request) (*transport.Response, error) {
	res, err := b.client.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.Redirected() || len(res.Body) == 0 {
		return res, nil
	}
	page, err := res.Page()
	if err != nil {
		return res, nil
	}
	if message := extract.ErrorFlash(page); message != "" {
		return nil, &apperr.ServerError{Status: res.Status, Detail: message}
	}
	return res, nil
}
