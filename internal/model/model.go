// Package model holds the records the adapter hands to its callers. They are
// built fresh for every call and never cached.
package model

import "time"

type Group struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GroupDetail is the group's own page. Items may come back empty from the
// page itself; GroupsService.DetailWithItems fills them from the item listing.
type GroupDetail struct {
	ID             string
	Name           string
	Date           time.Time
	Price          float64
	SoldPrice      float64
	Profit         float64
	TotalItems     int
	TotalSoldItems int
	Items          []GroupItem

	ImageFilename   string
	Latitude        *float64
	Longitude       *float64
	LocationAddress string
}

// GroupItem is the partial item record shown in list contexts.
type GroupItem struct {
	ID         string
	Name       string
	Price      float64
	Sold       bool
	CategoryID string
	Category   string
	Storage    string
}

// ListedItem is one row of the global item listing.
type ListedItem struct {
	ID           string
	Name         string
	GroupID      string
	GroupName    string
	Category     string
	Storage      string
	Price        float64
	Sold         bool
	PurchaseDate *time.Time
	ListDate     *time.Time
}

func (i ListedItem) GroupItem() GroupItem {
	return GroupItem{
		ID:       i.ID,
		Name:     i.Name,
		Price:    i.Price,
		Sold:     i.Sold,
		Category: i.Category,
		Storage:  i.Storage,
	}
}

// ItemDetail is the full item record. SoldPrice, ShippingFee, NetPrice,
// SoldDate and DaysToSell are set if and only if Sold is true.
type ItemDetail struct {
	ID           string
	Name         string
	Sold         bool
	Returned     bool
	GroupID      string
	GroupName    string
	CategoryID   string
	Category     string
	Storage      string
	PurchaseDate time.Time
	ListDate     *time.Time
	Price        float64

	SoldPrice   *float64
	ShippingFee *float64
	NetPrice    *float64
	SoldDate    *time.Time
	DaysToSell  *int
}

// ClearSale drops every sale-only field.
func (d *ItemDetail) ClearSale() {
	d.SoldPrice = nil
	d.ShippingFee = nil
	d.NetPrice = nil
	d.SoldDate = nil
	d.DaysToSell = nil
}

type Category struct {
	ID     string
	Name   string
	UserID *int
}
