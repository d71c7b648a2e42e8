package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	api "hostpulse/internal/api/application"
	metricsdomain "hostpulse/internal/metrics/domain"
)

// mockQueryService is a mock implementation of metricsdomain.Service
type mockQueryService struct {
	procs     []metricsdomain.ProcessSnapshot
	history   map[string][]metricsdomain.SamplePoint
	err       error
	lastLimit int
	resetKeys []string
	resetAll  bool
}

func (m *mockQueryService) SystemInfo(ctx context.Context) (metricsdomain.SystemDescriptor, error) {
	return metricsdomain.SystemDescriptor{Name: "Ubuntu", OSVersion: "24.04", Hostname: "build-01"}, m.err
}

func (m *mockQueryService) CPUInfo(ctx context.Context) (metricsdomain.CPUDescriptor, error) {
	return metricsdomain.CPUDescriptor{Brand: "Ryzen", Cores: 16, PhysicalCores: 8}, m.err
}

func (m *mockQueryService) MemoryInfo(ctx context.Context) (metricsdomain.MemoryDescriptor, error) {
	return metricsdomain.MemoryDescriptor{Total: 0, Used: 0, UsagePercent: 0}, m.err
}

func (m *mockQueryService) DiskInfo(ctx context.Context) ([]metricsdomain.DiskDescriptor, error) {
	return []metricsdomain.DiskDescriptor{}, m.err
}

func (m *mockQueryService) NetworkInfo(ctx context.Context) ([]metricsdomain.NetworkInterface, error) {
	return []metricsdomain.NetworkInterface{{Name: "eth0"}, {Name: "lo"}}, m.err
}

func (m *mockQueryService) RealTimeStats(ctx context.Context) (metricsdomain.RealTimeStats, error) {
	return metricsdomain.RealTimeStats{CPUPercent: 12.5, MemoryPercent: 40}, m.err
}

func (m *mockQueryService) ExtendedRealTimeStats(ctx context.Context) (metricsdomain.ExtendedStats, []metricsdomain.SamplePoint, error) {
	if m.err != nil {
		return metricsdomain.ExtendedStats{}, nil, m.err
	}
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return metricsdomain.ExtendedStats{
			RealTimeStats: metricsdomain.RealTimeStats{CPUPercent: 12.5},
			Temperatures:  []metricsdomain.Temperature{},
			TopProcesses:  m.procs,
			Timestamp:     ts,
		},
		[]metricsdomain.SamplePoint{metricsdomain.NewSamplePoint(ts, 12.5, 40, nil)},
		nil
}

func (m *mockQueryService) TopProcesses(ctx context.Context, limit int) ([]metricsdomain.ProcessSnapshot, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.procs) {
		return m.procs[:limit], nil
	}
	return m.procs, nil
}

func (m *mockQueryService) History(key string) []metricsdomain.SamplePoint {
	if pts, ok := m.history[key]; ok {
		return pts
	}
	return []metricsdomain.SamplePoint{}
}

func (m *mockQueryService) HistoryKeys() []string {
	keys := make([]string, 0, len(m.history))
	for k := range m.history {
		keys = append(keys, k)
	}
	return keys
}

func (m *mockQueryService) ResetHistory(key string) {
	m.resetKeys = append(m.resetKeys, key)
}

func (m *mockQueryService) ResetAllHistory() {
	m.resetAll = true
}

func newTestHandler(mock *mockQueryService) *MetricsHandler {
	return NewMetricsHandler(api.NewMetricsService(mock))
}

func TestMetricsHandler_Descriptors(t *testing.T) {
	tests := []struct {
		name           string
		handler        func(h *MetricsHandler) http.HandlerFunc
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "system info",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetSystem },
			expectedStatus: http.StatusOK,
			expectedBody:   `"os_version":"24.04"`,
		},
		{
			name:           "cpu info",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetCPU },
			expectedStatus: http.StatusOK,
			expectedBody:   `"physical_cores":8`,
		},
		{
			name:           "memory with zero total",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetMemory },
			expectedStatus: http.StatusOK,
			expectedBody:   `"usage_percent":0`,
		},
		{
			name:           "no disks",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetDisks },
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "network",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetNetwork },
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"eth0"`,
		},
		{
			name:           "realtime",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetRealTimeStats },
			expectedStatus: http.StatusOK,
			expectedBody:   `"cpu_percent":12.5`,
		},
		{
			name:           "extended",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetExtendedStats },
			expectedStatus: http.StatusOK,
			expectedBody:   `"temperatures":[]`,
		},
		{
			name:           "fatal sampler",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetSystem },
			serviceErr:     metricsdomain.NewSamplerError("host", metricsdomain.ErrSamplerFatal, errors.New("no /proc")),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "Sampler unavailable",
		},
		{
			name:           "unexpected error",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetRealTimeStats },
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "boom",
		},
		{
			name:           "deadline",
			handler:        func(h *MetricsHandler) http.HandlerFunc { return h.GetExtendedStats },
			serviceErr:     context.DeadlineExceeded,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "Request cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockQueryService{err: tt.serviceErr})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			tt.handler(h)(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %q", ct)
			}
			if !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestMetricsHandler_GetProcesses(t *testing.T) {
	procs := []metricsdomain.ProcessSnapshot{
		{PID: 50, Name: "b", CPUPercent: 12.3},
		{PID: 100, Name: "a", CPUPercent: 12.3},
		{PID: 7, Name: "c", CPUPercent: 1},
	}

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
		expectedLimit  int
	}{
		{name: "default limit", query: "", expectedStatus: http.StatusOK, expectedCount: 3, expectedLimit: 0},
		{name: "limit 2", query: "?limit=2", expectedStatus: http.StatusOK, expectedCount: 2, expectedLimit: 2},
		{name: "limit zero", query: "?limit=0", expectedStatus: http.StatusBadRequest},
		{name: "limit not a number", query: "?limit=abc", expectedStatus: http.StatusBadRequest},
		{name: "limit too large", query: "?limit=101", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockQueryService{procs: procs}
			h := newTestHandler(mock)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/processes"+tt.query, nil)
			w := httptest.NewRecorder()
			h.GetProcesses(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				var resp api.ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error == "" {
					t.Errorf("expected error body, got %q", w.Body.String())
				}
				return
			}

			var resp []api.ProcessResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp) != tt.expectedCount {
				t.Errorf("expected %d processes, got %d", tt.expectedCount, len(resp))
			}
			if resp[0].PID != 50 {
				t.Errorf("expected service order to be kept, got pid %d first", resp[0].PID)
			}
			if mock.lastLimit != tt.expectedLimit {
				t.Errorf("expected limit %d, got %d", tt.expectedLimit, mock.lastLimit)
			}
		})
	}
}

func TestMetricsHandler_History(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock := &mockQueryService{
		history: map[string][]metricsdomain.SamplePoint{
			"realtime": {
				metricsdomain.NewSamplePoint(ts, 10, 20, nil),
				metricsdomain.NewSamplePoint(ts.Add(2*time.Second), 11, 21, nil),
			},
		},
	}
	h := newTestHandler(mock)

	r := chi.NewRouter()
	r.Get("/history", h.ListHistory)
	r.Get("/history/{key}", h.GetHistory)
	r.Delete("/history/{key}", h.ResetHistory)
	r.Delete("/history", h.ResetAllHistory)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{name: "list keys", method: http.MethodGet, path: "/history", expectedStatus: http.StatusOK, expectedBody: `"keys":["realtime"]`},
		{name: "read series", method: http.MethodGet, path: "/history/realtime", expectedStatus: http.StatusOK, expectedBody: `"cpu_percent":11`},
		{name: "read absent", method: http.MethodGet, path: "/history/disk", expectedStatus: http.StatusOK, expectedBody: `"points":[]`},
		{name: "read bad key", method: http.MethodGet, path: "/history/Bad%20Key", expectedStatus: http.StatusBadRequest, expectedBody: "invalid series key"},
		{name: "reset one", method: http.MethodDelete, path: "/history/realtime", expectedStatus: http.StatusNoContent},
		{name: "reset all", method: http.MethodDelete, path: "/history", expectedStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, w.Body.String())
			}
		})
	}

	if len(mock.resetKeys) != 1 || mock.resetKeys[0] != "realtime" {
		t.Errorf("expected one reset of realtime, got %v", mock.resetKeys)
	}
	if !mock.resetAll {
		t.Error("expected reset all to reach the service")
	}
}

func TestMetricsHandler_Health(t *testing.T) {
	h := newTestHandler(&mockQueryService{})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil))

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health response: %d %s", w.Code, w.Body.String())
	}
}
