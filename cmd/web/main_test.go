package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salesdash/internal/server"
	"salesdash/internal/services"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dashboard := services.NewDashboard(logger)
	dashboard.UseSample(30, 42)

	templateHandlers := &server.TemplateHandlers{Dashboard: handleDashboard}
	return server.NewServer(dashboard, logger, 1<<20, templateHandlers)
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/admin/stats", http.StatusOK},
		{http.MethodGet, "/api/kpis", http.StatusOK},
		{http.MethodGet, "/api/timeseries", http.StatusOK},
		{http.MethodGet, "/api/monthly-products", http.StatusOK},
		{http.MethodGet, "/api/product-share", http.StatusOK},
		{http.MethodGet, "/api/region-share", http.StatusOK},
		{http.MethodGet, "/api/geo", http.StatusOK},
		{http.MethodGet, "/api/export.csv", http.StatusOK},
		{http.MethodGet, "/api/export.xlsx", http.StatusOK},
		{http.MethodPost, "/api/sample", http.StatusOK},
		{http.MethodGet, "/sse/refresh-all", http.StatusOK},
		{http.MethodGet, "/does-not-exist", http.StatusNotFound},
		{http.MethodPost, "/api/kpis", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestHandleDashboard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("dashboard should render an HTML document")
	}
	if !strings.Contains(body, "/sse/refresh-all") {
		t.Error("dashboard should wire the SSE refresh endpoint")
	}
}

func TestFullPipelineThroughAPI(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/kpis?regions=North,South,East,West", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			TotalOrders int `json:"total_orders"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true")
	}
	if response.Data.TotalOrders != 30*6 {
		t.Errorf("all-region filter should keep every record: got %d, want %d", response.Data.TotalOrders, 30*6)
	}
}
