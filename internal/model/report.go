package model

// Report rows carry only data rows; any "Total" row is left to the caller.

type SalesRow struct {
	Day         string
	ItemsSold   int
	Sales       float64
	ShippingFee float64
	Net         float64
}

type PurchasesRow struct {
	Day        string
	Groups     int
	Items      int
	TotalSpent float64
}

type ProfitRow struct {
	Day    string
	Sales  float64
	Cost   float64
	Profit float64
	Margin float64
}

type CityRow struct {
	Day    string
	City   string
	Groups int
	Spent  float64
	Sales  float64
}
