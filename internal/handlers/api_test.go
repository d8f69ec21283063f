package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salesdash/internal/services"
)

const testCSV = `order_date,product,region,quantity,unit_price,sales
2024-01-15,Laptop,North,1,999.99,999.99
2024-02-10,Phone,South,2,600,1200
2024-02-11,Laptop,South,1,950,950`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestDashboard(t *testing.T) *services.Dashboard {
	t.Helper()
	d := services.NewDashboard(testLogger())
	if err := d.LoadUpload(strings.NewReader(testCSV), "test.csv"); err != nil {
		t.Fatal(err)
	}
	return d
}

func newAPIHandlers(t *testing.T) *APIHandlers {
	t.Helper()
	return NewAPIHandlers(createTestDashboard(t), testLogger(), 1<<20)
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type 'application/json', got %q", ct)
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if success, ok := response["success"].(bool); !ok || !success {
		t.Fatal("expected success=true in response")
	}
	return response
}

func TestAPIHandlers_HandleKPIs(t *testing.T) {
	h := newAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/kpis", nil)
	w := httptest.NewRecorder()
	h.HandleKPIs(w, req)

	response := decodeSuccess(t, w)
	data, ok := response["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data object in response")
	}

	// 999.99 + 1200 + 950 = 3149.99, truncated.
	if data["total_sales"].(float64) != 3149 {
		t.Errorf("total_sales = %v, want 3149", data["total_sales"])
	}
	if data["total_orders"].(float64) != 3 {
		t.Errorf("total_orders = %v, want 3", data["total_orders"])
	}
	if data["unique_products"].(float64) != 2 {
		t.Errorf("unique_products = %v, want 2", data["unique_products"])
	}
}

func TestAPIHandlers_HandleKPIs_Filtered(t *testing.T) {
	h := newAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/kpis?products=Laptop", nil)
	w := httptest.NewRecorder()
	h.HandleKPIs(w, req)

	response := decodeSuccess(t, w)
	data := response["data"].(map[string]any)

	if data["total_orders"].(float64) != 2 {
		t.Errorf("total_orders = %v, want the 2 Laptop rows", data["total_orders"])
	}
}

func TestAPIHandlers_HandleKPIs_BadFilter(t *testing.T) {
	h := newAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/kpis?from=tomorrow", nil)
	w := httptest.NewRecorder()
	h.HandleKPIs(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if success, ok := response["success"].(bool); !ok || success {
		t.Error("expected success=false in error response")
	}
}

func TestAPIHandlers_ViewEndpoints(t *testing.T) {
	h := newAPIHandlers(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"timeseries", h.HandleTimeSeries},
		{"monthly products", h.HandleMonthlyProducts},
		{"product share", h.HandleProductShare},
		{"region share", h.HandleRegionShare},
		{"geo", h.HandleGeo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
			w := httptest.NewRecorder()
			tt.handler(w, req)

			response := decodeSuccess(t, w)
			if data, ok := response["data"].([]any); !ok || len(data) == 0 {
				t.Error("expected non-empty data array in response")
			}
		})
	}
}

func TestAPIHandlers_EmptyDatasetYieldsEmptyViews(t *testing.T) {
	d := services.NewDashboard(testLogger())
	h := NewAPIHandlers(d, testLogger(), 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/api/timeseries", nil)
	w := httptest.NewRecorder()
	h.HandleTimeSeries(w, req)

	response := decodeSuccess(t, w)
	if data, ok := response["data"].([]any); ok && len(data) != 0 {
		t.Errorf("empty dataset must produce an empty view, got %d entries", len(data))
	}
}

func multipartBody(t *testing.T, fieldName, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatal(err)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestAPIHandlers_HandleUpload(t *testing.T) {
	h := newAPIHandlers(t)

	body, contentType := multipartBody(t, "file", "upload.csv", testCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.HandleUpload(w, req)

	response := decodeSuccess(t, w)
	data := response["data"].(map[string]any)
	if data["records"].(float64) != 3 {
		t.Errorf("records = %v, want 3", data["records"])
	}
}

func TestAPIHandlers_HandleUpload_Unparseable(t *testing.T) {
	h := newAPIHandlers(t)

	body, contentType := multipartBody(t, "file", "broken.csv", "\"unterminated quote")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.HandleUpload(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	errObj, ok := response["error"].(map[string]any)
	if !ok || errObj["code"] != "LOAD_ERROR" {
		t.Errorf("expected LOAD_ERROR code, got %v", response["error"])
	}
}

func TestAPIHandlers_HandleUpload_MissingField(t *testing.T) {
	h := newAPIHandlers(t)

	body, contentType := multipartBody(t, "wrong_field", "upload.csv", testCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.HandleUpload(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAPIHandlers_HandleSample(t *testing.T) {
	h := newAPIHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sample?days=10&seed=7", nil)
	w := httptest.NewRecorder()
	h.HandleSample(w, req)

	response := decodeSuccess(t, w)
	data := response["data"].(map[string]any)
	if data["records"].(float64) != 60 {
		t.Errorf("records = %v, want 60 (10 days x 6 products)", data["records"])
	}
}

func TestAPIHandlers_HandleExportCSV(t *testing.T) {
	h := newAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export.csv?products=Laptop", nil)
	w := httptest.NewRecorder()
	h.HandleExportCSV(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content-type = %q, want text/csv", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "filtered_data.csv") {
		t.Errorf("content-disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 { // header + 2 Laptop rows
		t.Errorf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "order_date,product,region,quantity,unit_price,sales" {
		t.Errorf("unexpected header: %q", lines[0])
	}
}

func TestAPIHandlers_HandleExportXLSX(t *testing.T) {
	h := newAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export.xlsx", nil)
	w := httptest.NewRecorder()
	h.HandleExportXLSX(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content-type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("expected a non-empty workbook body")
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	h := newAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	response := decodeSuccess(t, w)
	data := response["data"].(map[string]any)
	if data["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", data["status"])
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	h := newAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	response := decodeSuccess(t, w)
	data := response["data"].(map[string]any)
	if data["record_count"].(float64) != 3 {
		t.Errorf("record_count = %v, want 3", data["record_count"])
	}
}
