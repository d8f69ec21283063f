package services

import (
	"time"

	"salesdash/internal/models"
)

// Filter narrows rows to those inside the criteria's inclusive date range
// whose region and product are members of the criteria sets. It is pure and
// stable: output order preserves input order, so filtering twice with the
// same criteria is an identity on the first result.
func Filter(rows models.RowSet, c models.FilterCriteria) models.RowSet {
	out := models.RowSet{
		HasCity: rows.HasCity,
		HasGeo:  rows.HasGeo,
	}

	for _, rec := range rows.Records {
		if rec.OrderDate.Before(c.DateFrom) || rec.OrderDate.After(c.DateTo) {
			continue
		}
		if !c.Regions[rec.Region] || !c.Products[rec.Product] {
			continue
		}
		out.Records = append(out.Records, rec)
	}

	return out
}

// CriteriaForRows is the no-op filter for a dataset: the full date span and
// every region and product label present. This is the dashboard's default
// selection state.
func CriteriaForRows(rows models.RowSet) models.FilterCriteria {
	c := models.FilterCriteria{
		Regions:  make(map[string]bool),
		Products: make(map[string]bool),
	}

	for i, rec := range rows.Records {
		if i == 0 || rec.OrderDate.Before(c.DateFrom) {
			c.DateFrom = rec.OrderDate
		}
		if i == 0 || rec.OrderDate.After(c.DateTo) {
			c.DateTo = rec.OrderDate
		}
		c.Regions[rec.Region] = true
		c.Products[rec.Product] = true
	}

	return c
}

// Labels returns the distinct region and product labels of a RowSet in first
// appearance order, for populating filter controls.
func Labels(rows models.RowSet) (regions, products []string) {
	seenRegion := make(map[string]bool)
	seenProduct := make(map[string]bool)

	for _, rec := range rows.Records {
		if !seenRegion[rec.Region] {
			seenRegion[rec.Region] = true
			regions = append(regions, rec.Region)
		}
		if !seenProduct[rec.Product] {
			seenProduct[rec.Product] = true
			products = append(products, rec.Product)
		}
	}
	return regions, products
}

// DateSpan reports the min and max order date of a RowSet. ok is false for
// an empty set.
func DateSpan(rows models.RowSet) (from, to time.Time, ok bool) {
	for i, rec := range rows.Records {
		if i == 0 || rec.OrderDate.Before(from) {
			from = rec.OrderDate
		}
		if i == 0 || rec.OrderDate.After(to) {
			to = rec.OrderDate
		}
	}
	return from, to, !rows.Empty()
}
