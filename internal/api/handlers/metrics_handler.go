package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	api "hostpulse/internal/api/application"
)

// MetricsHandler handles host metrics queries
type MetricsHandler struct {
	service *api.MetricsService
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(service *api.MetricsService) *MetricsHandler {
	return &MetricsHandler{
		service: service,
	}
}

// GetSystem handles GET /api/v1/system
// @Summary      Get system info
// @Description  OS name and version, kernel, hostname, uptime and boot time
// @Tags         host
// @Produce      json
// @Success      200  {object}  application.SystemInfoResponse
// @Failure      503  {object}  application.ErrorResponse
// @Router       /system [get]
func (h *MetricsHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.SystemInfo(r.Context())
	if err != nil {
		respondServiceError(w, r, "read system info", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetCPU handles GET /api/v1/cpu
// @Summary      Get CPU info
// @Description  Brand, core counts, current frequency (0 if unavailable) and usage
// @Tags         host
// @Produce      json
// @Success      200  {object}  application.CPUInfoResponse
// @Failure      503  {object}  application.ErrorResponse
// @Router       /cpu [get]
func (h *MetricsHandler) GetCPU(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CPUInfo(r.Context())
	if err != nil {
		respondServiceError(w, r, "read cpu info", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetMemory handles GET /api/v1/memory
// @Summary      Get memory info
// @Tags         host
// @Produce      json
// @Success      200  {object}  application.MemoryInfoResponse
// @Failure      503  {object}  application.ErrorResponse
// @Router       /memory [get]
func (h *MetricsHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.MemoryInfo(r.Context())
	if err != nil {
		respondServiceError(w, r, "read memory info", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetDisks handles GET /api/v1/disks
// @Summary      List disks
// @Tags         host
// @Produce      json
// @Success      200  {array}   application.DiskInfoResponse
// @Failure      503  {object}  application.ErrorResponse
// @Router       /disks [get]
func (h *MetricsHandler) GetDisks(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DiskInfo(r.Context())
	if err != nil {
		respondServiceError(w, r, "read disk info", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetNetwork handles GET /api/v1/network
// @Summary      List network interfaces
// @Tags         host
// @Produce      json
// @Success      200  {array}   application.NetworkInfoResponse
// @Failure      503  {object}  application.ErrorResponse
// @Router       /network [get]
func (h *MetricsHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.NetworkInfo(r.Context())
	if err != nil {
		respondServiceError(w, r, "read network info", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetRealTimeStats handles GET /api/v1/stats/realtime
// @Summary      Get realtime stats
// @Description  Minimal snapshot without history
// @Tags         stats
// @Produce      json
// @Success      200  {object}  application.RealTimeStatsResponse
// @Failure      503  {object}  application.ErrorResponse
// @Router       /stats/realtime [get]
func (h *MetricsHandler) GetRealTimeStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.RealTimeStats(r.Context())
	if err != nil {
		respondServiceError(w, r, "read realtime stats", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetExtendedStats handles GET /api/v1/stats/extended
// @Summary      Get extended stats
// @Description  Full snapshot; the point is recorded into the realtime series which is returned as history
// @Tags         stats
// @Produce      json
// @Success      200  {object}  application.ExtendedStatsResponse
// @Failure      503  {object}  application.ErrorResponse
// @Router       /stats/extended [get]
func (h *MetricsHandler) GetExtendedStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ExtendedRealTimeStats(r.Context())
	if err != nil {
		respondServiceError(w, r, "read extended stats", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetProcesses handles GET /api/v1/processes
// @Summary      List top processes
// @Description  Sorted by cpu_percent descending, ties by pid ascending
// @Tags         stats
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries (1-100)"
// @Success      200    {array}   application.ProcessResponse
// @Failure      400    {object}  application.ErrorResponse
// @Failure      503    {object}  application.ErrorResponse
// @Router       /processes [get]
func (h *MetricsHandler) GetProcesses(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			respondJSONError(w, http.StatusBadRequest, api.ErrInvalidLimit.Error())
			return
		}
		limit = n
	}

	resp, err := h.service.TopProcesses(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, "list processes", err)
		return
	}

	logger.Debug("Listed processes", "count", len(resp), "limit", limit)
	respondJSON(w, http.StatusOK, resp)
}

// ListHistory handles GET /api/v1/history
// @Summary      List series keys
// @Tags         history
// @Produce      json
// @Success      200  {object}  application.HistoryKeysResponse
// @Router       /history [get]
func (h *MetricsHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.HistoryKeys())
}

// GetHistory handles GET /api/v1/history/{key}
// @Summary      Read a rolling series
// @Description  Empty when the series is absent or stale
// @Tags         history
// @Produce      json
// @Param        key  path      string  true  "Series key"
// @Success      200  {object}  application.HistoryResponse
// @Failure      400  {object}  application.ErrorResponse
// @Router       /history/{key} [get]
func (h *MetricsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.History(chi.URLParam(r, "key"))
	if err != nil {
		respondServiceError(w, r, "read history", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ResetHistory handles DELETE /api/v1/history/{key}
// @Summary      Clear a rolling series
// @Tags         history
// @Param        key  path  string  true  "Series key"
// @Success      204
// @Failure      400  {object}  application.ErrorResponse
// @Router       /history/{key} [delete]
func (h *MetricsHandler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetHistory(chi.URLParam(r, "key")); err != nil {
		respondServiceError(w, r, "reset history", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetAllHistory handles DELETE /api/v1/history
// @Summary      Clear every rolling series
// @Tags         history
// @Success      204
// @Router       /history [delete]
func (h *MetricsHandler) ResetAllHistory(w http.ResponseWriter, r *http.Request) {
	h.service.ResetAllHistory()
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /api/v1/healthz
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  application.HealthResponse
// @Router       /healthz [get]
func (h *MetricsHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}
