package models

import "time"

// Record is a single sales transaction row. Sales is trusted as loaded and
// never recomputed from Quantity and UnitPrice.
type Record struct {
	OrderDate time.Time `json:"order_date"`
	Product   string    `json:"product"`
	Region    string    `json:"region"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Sales     float64   `json:"sales"`
	City      string    `json:"city,omitempty"`
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
}

// RowSet is the in-memory dataset under consideration. HasCity and HasGeo
// record which optional columns the source carried; they decide the geo
// fallback tier and the export column set. Records are treated as read-only
// after load.
type RowSet struct {
	Records []Record `json:"records"`
	HasCity bool     `json:"has_city"`
	HasGeo  bool     `json:"has_geo"`
}

func (rs RowSet) Len() int { return len(rs.Records) }

func (rs RowSet) Empty() bool { return len(rs.Records) == 0 }

// FilterCriteria narrows a RowSet. Date bounds are inclusive; Regions and
// Products are membership sets and an empty set matches nothing.
type FilterCriteria struct {
	DateFrom time.Time
	DateTo   time.Time
	Regions  map[string]bool
	Products map[string]bool
}

// KPISummary holds the headline counters. Values are integers; total sales
// is truncated toward zero, not rounded.
type KPISummary struct {
	TotalSales     int64 `json:"total_sales"`
	TotalOrders    int   `json:"total_orders"`
	TotalQuantity  int   `json:"total_quantity"`
	UniqueProducts int   `json:"unique_products"`
}

// TimeSeriesPoint is one day of the sales time series: the raw daily sum and
// its trailing 7-day rolling mean.
type TimeSeriesPoint struct {
	Date   string  `json:"date"`
	Sales  float64 `json:"sales"`
	Smooth float64 `json:"sales_smooth"`
}

// MonthlyCategorySales is one bar of a bar-race frame: sales of one product
// within one calendar month.
type MonthlyCategorySales struct {
	Month   string  `json:"month"`
	Product string  `json:"product"`
	Sales   float64 `json:"sales"`
}

// CategoryShare is a label with its sales total, used for the product and
// region donut charts.
type CategoryShare struct {
	Label string  `json:"label"`
	Sales float64 `json:"sales"`
}

// GeoPoint is an aggregated map marker. Synthetic marks demo-mode points
// whose coordinates carry no meaning beyond keeping the map populated.
type GeoPoint struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Sales     float64 `json:"sales"`
	Synthetic bool    `json:"synthetic,omitempty"`
}

// DashboardViews bundles the five chart-ready views derived from one
// filtered RowSet.
type DashboardViews struct {
	KPIs         KPISummary             `json:"kpis"`
	TimeSeries   []TimeSeriesPoint      `json:"time_series"`
	MonthlySales []MonthlyCategorySales `json:"monthly_sales"`
	ProductShare []CategoryShare        `json:"product_share"`
	RegionShare  []CategoryShare        `json:"region_share"`
	Geo          []GeoPoint             `json:"geo"`
}
