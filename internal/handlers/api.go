package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/observability"
	"salesdash/internal/services"
)

const viewCacheControl = "no-cache"

type APIHandlers struct {
	dashboard      *services.Dashboard
	logger         *slog.Logger
	maxUploadBytes int64
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger, maxUploadBytes int64) *APIHandlers {
	return &APIHandlers{
		dashboard:      dashboard,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// filteredRows applies the request's filter to the current dataset. On a bad
// filter it writes the error response and reports ok=false.
func (h *APIHandlers) filteredRows(w http.ResponseWriter, r *http.Request) (models.RowSet, bool) {
	rows := h.dashboard.Rows()

	criteria, err := criteriaFromRequest(r, rows)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return models.RowSet{}, false
	}

	return services.Filter(rows, criteria), true
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.filteredRows(w, r)
	if !ok {
		return
	}
	writeView(w, services.SummarizeKPIs(rows))
}

func (h *APIHandlers) HandleTimeSeries(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.filteredRows(w, r)
	if !ok {
		return
	}
	writeView(w, services.TimeSeries(rows))
}

func (h *APIHandlers) HandleMonthlyProducts(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.filteredRows(w, r)
	if !ok {
		return
	}
	writeView(w, services.MonthlyProductSales(rows))
}

func (h *APIHandlers) HandleProductShare(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.filteredRows(w, r)
	if !ok {
		return
	}
	writeView(w, services.ShareByProduct(rows))
}

func (h *APIHandlers) HandleRegionShare(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.filteredRows(w, r)
	if !ok {
		return
	}
	writeView(w, services.ShareByRegion(rows))
}

func (h *APIHandlers) HandleGeo(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.filteredRows(w, r)
	if !ok {
		return
	}
	writeView(w, services.GeoSales(rows))
}

// HandleUpload replaces the dataset with an uploaded CSV or XLSX file. An
// unparseable upload answers with LOAD_ERROR and leaves the dashboard on an
// empty dataset; that is the "no data available" state, not a server fault.
func (h *APIHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "missing or oversized 'file' form field"), requestID)
		return
	}
	defer file.Close()

	if err := h.dashboard.LoadUpload(file, header.Filename); err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"filename": header.Filename,
		"records":  h.dashboard.Rows().Len(),
	})
}

// HandleSample regenerates the deterministic sample dataset. Optional
// days/seed query parameters override the configured defaults.
func (h *APIHandlers) HandleSample(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", services.DefaultSampleDays)
	seed := int64(queryInt(r, "seed", services.DefaultSampleSeed))

	if days <= 0 {
		errors.WriteError(w, h.logger, errors.Validation("'days' must be positive"),
			observability.GetRequestID(r.Context()))
		return
	}

	h.dashboard.UseSample(days, seed)

	errors.WriteSuccess(w, map[string]any{
		"records": h.dashboard.Rows().Len(),
	})
}

func (h *APIHandlers) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.filteredRows(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_data.csv"`)

	if err := services.ExportCSV(w, rows); err != nil {
		h.logger.Error("csv export failed", "error", err,
			"request_id", observability.GetRequestID(r.Context()))
	}
}

func (h *APIHandlers) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.filteredRows(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_data.xlsx"`)

	if err := services.ExportXLSX(w, rows); err != nil {
		h.logger.Error("xlsx export failed", "error", err,
			"request_id", observability.GetRequestID(r.Context()))
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}

func writeView(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": viewCacheControl,
	})
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}
