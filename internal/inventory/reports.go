package inventory

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"inventory-adapter/internal/extract"
	"inventory-adapter/internal/model"
	"inventory-adapter/internal/normalize"
	"inventory-adapter/internal/transport"
)

// Interval is the report form's "type" code.
type Interval string

const (
	// Daily has one row per day of a month.
	Daily Interval = "daily"
	// Monthly has one row per month of a year.
	Monthly Interval = "monthly"
	// Yearly has one row per year.
	Yearly Interval = "yearly"
	// SingleDay has the one row of a date.
	SingleDay Interval = "date"
)

// Period selects what a report covers. Only the parts of Date that Interval
// needs are sent.
type Period struct {
	Interval Interval
	Date     time.Time
}

func (p Period) form() url.Values {
	form := url.Values{"type": {string(p.Interval)}}
	switch p.Interval {
	case Daily:
		form.Set("month", strconv.Itoa(int(p.Date.Month())))
		form.Set("year", strconv.Itoa(p.Date.Year()))
	case Monthly:
		form.Set("year", strconv.Itoa(p.Date.Year()))
	case SingleDay:
		form.Set("date", normalize.FormatDate(p.Date))
		form.Set("day", strconv.Itoa(p.Date.Day()))
	}
	return form
}

type ReportsService struct {
	backend
}

func (s *ReportsService) rows(ctx context.Context, path string, period Period, minValues int) ([]extract.ReportRow, error) {
	page, err := s.page(ctx, transport.PostForm(path, period.form()))
	if err != nil {
		return nil, err
	}
	return extract.ReportRows(page, minValues), nil
}

// Sales rows are a period label followed by items sold, sales, shipping and
// net.
func (s *ReportsService) Sales(ctx context.Context, period Period) ([]model.SalesRow, error) {
	rows, err := s.rows(ctx, "/reports/sales", period, 4)
	if err != nil {
		return nil, err
	}
	out := make([]model.SalesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.SalesRow{
			Day:         r.Label,
			ItemsSold:   normalize.ParseInt(r.Value(0)),
			Sales:       normalize.ParseMoney(r.Value(1)),
			ShippingFee: normalize.ParseMoney(r.Value(2)),
			Net:         normalize.ParseMoney(r.Value(3)),
		})
	}
	return out, nil
}

// Purchases rows are a period label followed by groups, items and total spent.
func (s *ReportsService) Purchases(ctx context.Context, period Period) ([]model.PurchasesRow, error) {
	rows, err := s.rows(ctx, "/reports/purchases", period, 3)
	if err != nil {
		return nil, err
	}
	out := make([]model.PurchasesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.PurchasesRow{
			Day:        r.Label,
			Groups:     normalize.ParseInt(r.Value(0)),
			Items:      normalize.ParseInt(r.Value(1)),
			TotalSpent: normalize.ParseMoney(r.Value(2)),
		})
	}
	return out, nil
}

// Profit rows are a period label followed by sales, cost, profit and margin.
func (s *ReportsService) Profit(ctx context.Context, period Period) ([]model.ProfitRow, error) {
	rows, err := s.rows(ctx, "/reports/profit", period, 4)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProfitRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.ProfitRow{
			Day:    r.Label,
			Sales:  normalize.ParseMoney(r.Value(0)),
			Cost:   normalize.ParseMoney(r.Value(1)),
			Profit: normalize.ParseMoney(r.Value(2)),
			Margin: normalize.ParsePercent(r.Value(3)),
		})
	}
	return out, nil
}

// City rows are five cells: a period label followed by the city name, groups,
// spent and sales.
func (s *ReportsService) City(ctx context.Context, period Period) ([]model.CityRow, error) {
	rows, err := s.rows(ctx, "/reports/city", period, 4)
	if err != nil {
		return nil, err
	}
	out := make([]model.CityRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.CityRow{
			Day:    r.Label,
			City:   r.Value(0),
			Groups: normalize.ParseInt(r.Value(1)),
			Spent:  normalize.ParseMoney(r.Value(2)),
			Sales:  normalize.ParseMoney(r.Value(3)),
		})
	}
	return out, nil
}
