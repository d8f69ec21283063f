package services

import (
	"context"
	"math/rand"
	"slices"
	"time"

	"salesdash/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	rollingWindow = 7
	dateFormat    = "2006-01-02"
	monthFormat   = "2006-01"
)

// Known city coordinates for datasets that carry a city column but no
// latitude/longitude. Unknown cities land on (0,0).
var cityCoordinates = map[string][2]float64{
	"New Delhi":     {28.6139, 77.2090},
	"Mumbai":        {19.0760, 72.8777},
	"Bengaluru":     {12.9716, 77.5946},
	"London":        {51.5074, -0.1278},
	"New York":      {40.7128, -74.0060},
	"San Francisco": {37.7749, -122.4194},
}

// BuildViews derives all five chart views from one filtered RowSet. The
// derivations are independent, so they fan out over an errgroup; each is
// also callable on its own and total over empty input.
func BuildViews(ctx context.Context, rows models.RowSet) (models.DashboardViews, error) {
	var views models.DashboardViews

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		views.KPIs = SummarizeKPIs(rows)
		return nil
	})
	g.Go(func() error {
		views.TimeSeries = TimeSeries(rows)
		return nil
	})
	g.Go(func() error {
		views.MonthlySales = MonthlyProductSales(rows)
		return nil
	})
	g.Go(func() error {
		views.ProductShare = ShareByProduct(rows)
		return nil
	})
	g.Go(func() error {
		views.RegionShare = ShareByRegion(rows)
		views.Geo = GeoSales(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.DashboardViews{}, err
	}
	return views, nil
}

// SummarizeKPIs computes the headline counters. Total sales truncates
// toward zero so the counter animation always lands on a whole number.
func SummarizeKPIs(rows models.RowSet) models.KPISummary {
	var (
		sales    float64
		quantity int
		products = make(map[string]bool)
	)

	for _, rec := range rows.Records {
		sales += rec.Sales
		quantity += rec.Quantity
		products[rec.Product] = true
	}

	return models.KPISummary{
		TotalSales:     int64(sales),
		TotalOrders:    rows.Len(),
		TotalQuantity:  quantity,
		UniqueProducts: len(products),
	}
}

// TimeSeries sums sales per order date, sorts ascending and smooths with a
// trailing 7-day rolling mean. The window shrinks at the start of the
// series: the first point averages one value, the second two, up to seven.
func TimeSeries(rows models.RowSet) []models.TimeSeriesPoint {
	daily := make(map[time.Time]float64)
	for _, rec := range rows.Records {
		daily[rec.OrderDate] += rec.Sales
	}

	dates := make([]time.Time, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })

	points := make([]models.TimeSeriesPoint, 0, len(dates))
	sums := make([]float64, 0, len(dates))
	for i, d := range dates {
		sums = append(sums, daily[d])

		window := rollingWindow
		if i+1 < window {
			window = i + 1
		}
		var total float64
		for _, v := range sums[len(sums)-window:] {
			total += v
		}

		points = append(points, models.TimeSeriesPoint{
			Date:   d.Format(dateFormat),
			Sales:  daily[d],
			Smooth: total / float64(window),
		})
	}

	return points
}

// MonthlyProductSales groups sales by calendar month and product, ordered by
// month ascending and sales descending within each month. Each month is one
// frame of the bar race, highest bar first; ties keep first-appearance order.
func MonthlyProductSales(rows models.RowSet) []models.MonthlyCategorySales {
	type groupKey struct {
		month   time.Time
		product string
	}

	index := make(map[groupKey]int)
	months := make([]time.Time, 0)
	groups := make([]models.MonthlyCategorySales, 0)

	for _, rec := range rows.Records {
		month := time.Date(rec.OrderDate.Year(), rec.OrderDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		key := groupKey{month: month, product: rec.Product}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			months = append(months, month)
			groups = append(groups, models.MonthlyCategorySales{
				Month:   month.Format(monthFormat),
				Product: rec.Product,
			})
		}
		groups[i].Sales += rec.Sales
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := months[a].Compare(months[b]); c != 0 {
			return c
		}
		switch {
		case groups[a].Sales > groups[b].Sales:
			return -1
		case groups[a].Sales < groups[b].Sales:
			return 1
		default:
			return 0
		}
	})

	sorted := make([]models.MonthlyCategorySales, 0, len(groups))
	for _, i := range order {
		sorted = append(sorted, groups[i])
	}
	return sorted
}

// ShareByProduct sums sales per product for the product donut chart.
func ShareByProduct(rows models.RowSet) []models.CategoryShare {
	return shareBy(rows, func(rec models.Record) string { return rec.Product })
}

// ShareByRegion sums sales per region for the region donut chart.
func ShareByRegion(rows models.RowSet) []models.CategoryShare {
	return shareBy(rows, func(rec models.Record) string { return rec.Region })
}

func shareBy(rows models.RowSet, label func(models.Record) string) []models.CategoryShare {
	totals := make(map[string]float64)
	order := make([]string, 0)

	for _, rec := range rows.Records {
		l := label(rec)
		if _, ok := totals[l]; !ok {
			order = append(order, l)
		}
		totals[l] += rec.Sales
	}

	shares := make([]models.CategoryShare, 0, len(order))
	for _, l := range order {
		shares = append(shares, models.CategoryShare{Label: l, Sales: totals[l]})
	}
	slices.SortStableFunc(shares, func(a, b models.CategoryShare) int {
		switch {
		case a.Sales > b.Sales:
			return -1
		case a.Sales < b.Sales:
			return 1
		default:
			return 0
		}
	})
	return shares
}

// GeoSales aggregates sales for the map with three fallback tiers: exact
// coordinates when the dataset has them, a known-city lookup when only city
// names are present, and a synthetic per-product scatter when there is no
// location data at all. The synthetic tier exists purely so the map is never
// blank; its points are flagged so the UI can label them as demo output.
func GeoSales(rows models.RowSet) []models.GeoPoint {
	switch {
	case rows.HasGeo:
		return geoByCoordinates(rows)
	case rows.HasCity:
		return geoByCityLookup(rows)
	default:
		return geoDemo(rows)
	}
}

func geoByCoordinates(rows models.RowSet) []models.GeoPoint {
	type geoKey struct {
		city     string
		lat, lon float64
	}

	index := make(map[geoKey]int)
	points := make([]models.GeoPoint, 0)

	for _, rec := range rows.Records {
		key := geoKey{city: rec.City, lat: rec.Latitude, lon: rec.Longitude}
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, models.GeoPoint{
				Label:     rec.City,
				Latitude:  rec.Latitude,
				Longitude: rec.Longitude,
			})
		}
		points[i].Sales += rec.Sales
	}

	return points
}

func geoByCityLookup(rows models.RowSet) []models.GeoPoint {
	index := make(map[string]int)
	points := make([]models.GeoPoint, 0)

	for _, rec := range rows.Records {
		i, ok := index[rec.City]
		if !ok {
			coords := cityCoordinates[rec.City]
			i = len(points)
			index[rec.City] = i
			points = append(points, models.GeoPoint{
				Label:     rec.City,
				Latitude:  coords[0],
				Longitude: coords[1],
			})
		}
		points[i].Sales += rec.Sales
	}

	return points
}

// geoDemo assigns each product a fixed pseudo-random coordinate. The rng is
// seeded with a constant so repeated renders of the same selection do not
// make the markers jump around.
func geoDemo(rows models.RowSet) []models.GeoPoint {
	shares := ShareByProduct(rows)
	rng := rand.New(rand.NewSource(0))

	points := make([]models.GeoPoint, 0, len(shares))
	for _, s := range shares {
		points = append(points, models.GeoPoint{
			Label:     s.Label,
			Latitude:  -40 + rng.Float64()*100,
			Longitude: -120 + rng.Float64()*240,
			Sales:     s.Sales,
			Synthetic: true,
		})
	}

	return points
}
