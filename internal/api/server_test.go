package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	configapp "hostpulse/internal/config/application"
	"hostpulse/internal/infrastructure/logger"
	metricsapp "hostpulse/internal/metrics/application"
	metricsdomain "hostpulse/internal/metrics/domain"
)

// staticReader is a fixed domain.SystemMetricsReader for router tests
type staticReader struct{}

func (staticReader) ReadHost(ctx context.Context) (metricsdomain.HostReading, error) {
	return metricsdomain.HostReading{Name: "Ubuntu", OSVersion: "24.04", Hostname: "build-01", UptimeSeconds: 3600}, nil
}

func (staticReader) ReadCPUInfo(ctx context.Context) (metricsdomain.CPUInfoReading, error) {
	return metricsdomain.CPUInfoReading{Brand: "test", LogicalCores: 2, PhysicalCores: 1}, nil
}

func (staticReader) ReadCPU(ctx context.Context) (metricsdomain.CPUReading, error) {
	return metricsdomain.CPUReading{PerCore: []float64{137, 50}}, nil
}

func (staticReader) ReadMemory(ctx context.Context) (metricsdomain.MemoryReading, error) {
	return metricsdomain.MemoryReading{Total: 4 << 30, Used: 1 << 30}, nil
}

func (staticReader) ReadDisks(ctx context.Context) ([]metricsdomain.DiskReading, error) {
	return []metricsdomain.DiskReading{{Name: "/dev/sda1", MountPoint: "/", Total: 100, Used: 50}}, nil
}

func (staticReader) ReadTemperatures(ctx context.Context) ([]metricsdomain.TemperatureReading, error) {
	return nil, metricsdomain.NewSamplerError("temperatures", metricsdomain.ErrSensorUnavailable, nil)
}

func (staticReader) ReadProcesses(ctx context.Context) ([]metricsdomain.ProcessReading, error) {
	return []metricsdomain.ProcessReading{{PID: 1, Name: "init"}}, nil
}

func (staticReader) ReadGPUProcesses(ctx context.Context) ([]metricsdomain.GPUProcessReading, error) {
	return nil, metricsdomain.NewSamplerError("gpu_processes", metricsdomain.ErrSensorUnavailable, nil)
}

func (staticReader) ReadNetwork(ctx context.Context) ([]metricsdomain.NetworkReading, error) {
	return []metricsdomain.NetworkReading{{Name: "eth0", Received: 10, Transmitted: 5}}, nil
}

func setupTestRouter(t *testing.T, devMode bool) http.Handler {
	t.Helper()
	log := logger.DefaultLogger()
	agg := metricsdomain.NewAggregator(50, 30*time.Minute, nil)
	svc := metricsapp.NewService(log, staticReader{}, agg, metricsapp.ServiceConfig{
		Sleep: func(ctx context.Context, d time.Duration) error { return nil },
	})

	cfg := &configapp.RuntimeConfig{
		APIPort:       "8787",
		Bind:          "127.0.0.1",
		LogFormat:     "text",
		DevMode:       devMode,
		AllowedOrigin: "http://localhost:1420",
	}
	return NewRouter(log, cfg, svc, nil)
}

func TestRouter_Routes(t *testing.T) {
	router := setupTestRouter(t, false)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{name: "health", method: http.MethodGet, path: "/api/v1/healthz", expectedStatus: http.StatusOK, expectedBody: `"status":"ok"`},
		{name: "system", method: http.MethodGet, path: "/api/v1/system", expectedStatus: http.StatusOK, expectedBody: `"hostname":"build-01"`},
		{name: "cpu clamps per core", method: http.MethodGet, path: "/api/v1/cpu", expectedStatus: http.StatusOK, expectedBody: `"usage":75`},
		{name: "memory", method: http.MethodGet, path: "/api/v1/memory", expectedStatus: http.StatusOK, expectedBody: `"usage_percent":25`},
		{name: "disks", method: http.MethodGet, path: "/api/v1/disks", expectedStatus: http.StatusOK, expectedBody: `"mount_point":"/"`},
		{name: "network", method: http.MethodGet, path: "/api/v1/network", expectedStatus: http.StatusOK, expectedBody: `"transmitted":5`},
		{name: "realtime", method: http.MethodGet, path: "/api/v1/stats/realtime", expectedStatus: http.StatusOK, expectedBody: `"memory_total_gb":4`},
		{name: "extended", method: http.MethodGet, path: "/api/v1/stats/extended", expectedStatus: http.StatusOK, expectedBody: `"temperatures":[]`},
		{name: "processes", method: http.MethodGet, path: "/api/v1/processes?limit=5", expectedStatus: http.StatusOK, expectedBody: `"pid":1`},
		{name: "bad limit", method: http.MethodGet, path: "/api/v1/processes?limit=-3", expectedStatus: http.StatusBadRequest},
		{name: "history", method: http.MethodGet, path: "/api/v1/history/realtime", expectedStatus: http.StatusOK, expectedBody: `"key":"realtime"`},
		{name: "reset history", method: http.MethodDelete, path: "/api/v1/history", expectedStatus: http.StatusNoContent},
		{name: "swagger disabled", method: http.MethodGet, path: "/swagger/index.html", expectedStatus: http.StatusNotFound},
		{name: "stream disabled", method: http.MethodGet, path: "/api/v1/stream", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, w.Body.String())
			}
			if strings.HasPrefix(tt.path, "/api/v1") && w.Header().Get("Cache-Control") != "no-store" {
				t.Errorf("expected no-store on api responses, got %q", w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestRouter_ExtendedStatsFeedsHistory(t *testing.T) {
	router := setupTestRouter(t, false)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats/extended", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/history/realtime", nil))
	if got := strings.Count(w.Body.String(), `"cpu_percent"`); got != 3 {
		t.Errorf("expected 3 recorded points, got %d: %s", got, w.Body.String())
	}
}

func TestRouter_CORS(t *testing.T) {
	router := setupTestRouter(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stats/realtime", nil)
	req.Header.Set("Origin", "http://localhost:1420")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected preflight 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:1420" {
		t.Errorf("expected allow-origin header, got %q", got)
	}
}

func TestRouter_SwaggerInDevMode(t *testing.T) {
	router := setupTestRouter(t, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	if w.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect to swagger UI, got %d", w.Code)
	}
}

func TestNewServer_InvalidConfig(t *testing.T) {
	cfg := &configapp.RuntimeConfig{APIPort: "not-a-port", LogFormat: "text"}
	if _, err := NewServer(logger.DefaultLogger(), cfg, nil, nil); err == nil {
		t.Error("expected invalid port to be rejected")
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	log := logger.DefaultLogger()
	cfg := &configapp.RuntimeConfig{APIPort: "18787", Bind: "127.0.0.1", LogFormat: "text"}
	agg := metricsdomain.NewAggregator(0, 0, nil)
	svc := metricsapp.NewService(log, staticReader{}, agg, metricsapp.ServiceConfig{})

	server, err := NewServer(log, cfg, svc, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://127.0.0.1:18787/api/v1/healthz")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never became reachable: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if err := <-errCh; err != http.ErrServerClosed {
		t.Errorf("expected ErrServerClosed, got %v", err)
	}
}
