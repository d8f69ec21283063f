package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/observability"
	"salesdash/internal/services"

	"github.com/starfederation/datastar-go/datastar"
)

const maxTableRows = 50

var filteredTableTemplate = template.Must(template.New("filteredTable").Parse(`
<div id="table-content">
<table class="modern-table">
<thead><tr><th>Date</th><th>Product</th><th>Region</th><th>Qty</th><th>Unit Price</th><th>Sales</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Date}}</td>
<td>{{.Product}}</td>
<td><span class="category-badge">{{.Region}}</span></td>
<td>{{.Quantity}}</td>
<td>${{printf "%.2f" .UnitPrice}}</td>
<td><strong>${{printf "%.2f" .Sales}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

type tableRow struct {
	Date      string
	Product   string
	Region    string
	Quantity  int
	UnitPrice float64
	Sales     float64
}

// renderFilteredTable renders the newest filtered rows, date descending,
// capped at maxTableRows.
func (h *SSEHandlers) renderFilteredTable(rows models.RowSet) (string, error) {
	display := make([]tableRow, 0, min(rows.Len(), maxTableRows))

	ordered := slices.Clone(rows.Records)
	slices.SortStableFunc(ordered, func(a, b models.Record) int {
		return b.OrderDate.Compare(a.OrderDate)
	})
	if len(ordered) > maxTableRows {
		ordered = ordered[:maxTableRows]
	}

	for _, rec := range ordered {
		display = append(display, tableRow{
			Date:      rec.OrderDate.Format("2006-01-02"),
			Product:   rec.Product,
			Region:    rec.Region,
			Quantity:  rec.Quantity,
			UnitPrice: rec.UnitPrice,
			Sales:     rec.Sales,
		})
	}

	var buf strings.Builder
	err := filteredTableTemplate.Execute(&buf, map[string]any{"Rows": display})
	return buf.String(), err
}

// HandleRefreshAll recomputes every view for the request's filter and pushes
// them as one SSE exchange: all chart signals in a single patch plus the
// rendered data table fragment.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	rows := h.dashboard.Rows()

	criteria, err := criteriaFromRequest(r, rows)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	filtered := services.Filter(rows, criteria)

	views, err := services.BuildViews(r.Context(), filtered)
	if err != nil {
		h.logger.Error("build views", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)

	signals, err := json.Marshal(map[string]any{
		"kpis":             views.KPIs,
		"timeSeriesData":   views.TimeSeries,
		"monthlyData":      views.MonthlySales,
		"productShareData": views.ProductShare,
		"regionShareData":  views.RegionShare,
		"geoData":          views.Geo,
	})
	if err != nil {
		h.logger.Error("marshal view signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	html, err := h.renderFilteredTable(filtered)
	if err != nil {
		h.logger.Error("render filtered table", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
