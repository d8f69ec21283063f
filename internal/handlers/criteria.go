package handlers

import (
	"net/http"
	"strings"
	"time"

	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/services"
)

const queryDateFormat = "2006-01-02"

// criteriaFromRequest builds the FilterCriteria for a request. Absent
// parameters fall back to the dataset's own extent, mirroring the sidebar
// defaults: full date range, every region, every product. A present but
// empty regions/products parameter is the empty set and matches nothing.
//
//	?from=2024-01-01&to=2024-03-31&regions=North,South&products=Laptop
func criteriaFromRequest(r *http.Request, rows models.RowSet) (models.FilterCriteria, error) {
	criteria := services.CriteriaForRows(rows)
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(queryDateFormat, v)
		if err != nil {
			return models.FilterCriteria{}, errors.ValidationWrap(err, "invalid 'from' date, expected YYYY-MM-DD")
		}
		criteria.DateFrom = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(queryDateFormat, v)
		if err != nil {
			return models.FilterCriteria{}, errors.ValidationWrap(err, "invalid 'to' date, expected YYYY-MM-DD")
		}
		criteria.DateTo = t
	}
	if criteria.DateTo.Before(criteria.DateFrom) {
		return models.FilterCriteria{}, errors.Validation("'from' date must not be after 'to' date")
	}

	if _, ok := q["regions"]; ok {
		criteria.Regions = labelSet(q.Get("regions"))
	}
	if _, ok := q["products"]; ok {
		criteria.Products = labelSet(q.Get("products"))
	}

	return criteria, nil
}

func labelSet(param string) map[string]bool {
	set := make(map[string]bool)
	for _, label := range strings.Split(param, ",") {
		if label = strings.TrimSpace(label); label != "" {
			set[label] = true
		}
	}
	return set
}
