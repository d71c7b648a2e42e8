package application

import (
	"time"

	metricsdomain "hostpulse/internal/metrics/domain"
)

// UptimeResponse is uptime broken into units
type UptimeResponse struct {
	Days    uint64 `json:"days"`
	Hours   uint64 `json:"hours"`
	Minutes uint64 `json:"minutes"`
	Seconds uint64 `json:"seconds"`
}

// SystemInfoResponse represents OS and host facts in API responses
type SystemInfoResponse struct {
	Name            string         `json:"name"`
	OSVersion       string         `json:"os_version"`
	KernelVersion   string         `json:"kernel_version"`
	Hostname        string         `json:"hostname"`
	Uptime          uint64         `json:"uptime"`
	UptimeBreakdown UptimeResponse `json:"uptime_breakdown"`
	BootTime        uint64         `json:"boot_time"`
}

// CPUInfoResponse represents the CPU descriptor in API responses
type CPUInfoResponse struct {
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Usage         float64 `json:"usage"`
	Frequency     uint64  `json:"frequency"`
	Cores         int     `json:"cores"`
	PhysicalCores int     `json:"physical_cores"`
}

// MemoryInfoResponse represents memory in API responses. Sizes are bytes.
type MemoryInfoResponse struct {
	Total        uint64  `json:"total"`
	Used         uint64  `json:"used"`
	Available    uint64  `json:"available"`
	UsagePercent float64 `json:"usage_percent"`
	SwapTotal    uint64  `json:"swap_total"`
	SwapUsed     uint64  `json:"swap_used"`
}

// DiskInfoResponse represents one disk in API responses. Sizes are bytes.
type DiskInfoResponse struct {
	Name           string  `json:"name"`
	MountPoint     string  `json:"mount_point"`
	TotalSpace     uint64  `json:"total_space"`
	AvailableSpace uint64  `json:"available_space"`
	UsedSpace      uint64  `json:"used_space"`
	UsagePercent   float64 `json:"usage_percent"`
	FileSystem     string  `json:"file_system"`
}

// NetworkInfoResponse represents one interface's cumulative counters
type NetworkInfoResponse struct {
	Name        string `json:"name"`
	Received    uint64 `json:"received"`
	Transmitted uint64 `json:"transmitted"`
}

// RealTimeStatsResponse is the minimal snapshot
type RealTimeStatsResponse struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedGB  float64 `json:"memory_used_gb"`
	MemoryTotalGB float64 `json:"memory_total_gb"`
}

type TemperatureResponse struct {
	Sensor   string   `json:"sensor"`
	Value    float64  `json:"value"`
	Max      *float64 `json:"max,omitempty"`
	Critical *float64 `json:"critical,omitempty"`
}

type NetworkActivityResponse struct {
	Received        uint64  `json:"received"`
	Transmitted     uint64  `json:"transmitted"`
	ReceivedRate    float64 `json:"received_rate"`
	TransmittedRate float64 `json:"transmitted_rate"`
}

// ProcessResponse represents a process snapshot. gpu_percent is omitted
// when unavailable.
type ProcessResponse struct {
	PID         int32    `json:"pid"`
	Name        string   `json:"name"`
	CPUPercent  float64  `json:"cpu_percent"`
	MemoryBytes uint64   `json:"memory_bytes"`
	GPUPercent  *float64 `json:"gpu_percent,omitempty"`
}

// SamplePointResponse is one point of a rolling series
type SamplePointResponse struct {
	Timestamp          time.Time `json:"timestamp"`
	CPUPercent         float64   `json:"cpu_percent"`
	MemoryPercent      float64   `json:"memory_percent"`
	TemperaturePercent *float64  `json:"temperature_percent,omitempty"`
}

// ExtendedStatsResponse is the full snapshot plus the updated realtime series
type ExtendedStatsResponse struct {
	CPUPercent      float64                 `json:"cpu_percent"`
	MemoryPercent   float64                 `json:"memory_percent"`
	MemoryUsedGB    float64                 `json:"memory_used_gb"`
	MemoryTotalGB   float64                 `json:"memory_total_gb"`
	Temperatures    []TemperatureResponse   `json:"temperatures"`
	NetworkActivity NetworkActivityResponse `json:"network_activity"`
	TopProcesses    []ProcessResponse       `json:"top_processes"`
	Timestamp       time.Time               `json:"timestamp"`
	History         []SamplePointResponse   `json:"history,omitempty"`
}

// HistoryResponse is a rolling series read
type HistoryResponse struct {
	Key    string                `json:"key"`
	Points []SamplePointResponse `json:"points"`
}

type HistoryKeysResponse struct {
	Keys []string `json:"keys"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToSystemInfoResponse converts a system descriptor to an API response
func ToSystemInfoResponse(d metricsdomain.SystemDescriptor) SystemInfoResponse {
	return SystemInfoResponse{
		Name:          d.Name,
		OSVersion:     d.OSVersion,
		KernelVersion: d.KernelVersion,
		Hostname:      d.Hostname,
		Uptime:        d.UptimeSeconds,
		UptimeBreakdown: UptimeResponse{
			Days:    d.Uptime.Days,
			Hours:   d.Uptime.Hours,
			Minutes: d.Uptime.Minutes,
			Seconds: d.Uptime.Seconds,
		},
		BootTime: d.BootTime,
	}
}

func ToCPUInfoResponse(d metricsdomain.CPUDescriptor) CPUInfoResponse {
	return CPUInfoResponse{
		Name:          d.Name,
		Brand:         d.Brand,
		Usage:         d.UsagePercent,
		Frequency:     d.FrequencyMHz,
		Cores:         d.Cores,
		PhysicalCores: d.PhysicalCores,
	}
}

func ToMemoryInfoResponse(d metricsdomain.MemoryDescriptor) MemoryInfoResponse {
	return MemoryInfoResponse{
		Total:        d.Total,
		Used:         d.Used,
		Available:    d.Available,
		UsagePercent: d.UsagePercent,
		SwapTotal:    d.SwapTotal,
		SwapUsed:     d.SwapUsed,
	}
}

func ToDiskInfoResponse(d metricsdomain.DiskDescriptor) DiskInfoResponse {
	return DiskInfoResponse{
		Name:           d.Name,
		MountPoint:     d.MountPoint,
		TotalSpace:     d.TotalSpace,
		AvailableSpace: d.Available,
		UsedSpace:      d.UsedSpace,
		UsagePercent:   d.UsagePercent,
		FileSystem:     d.FileSystem,
	}
}

func ToNetworkInfoResponse(n metricsdomain.NetworkInterface) NetworkInfoResponse {
	return NetworkInfoResponse{
		Name:        n.Name,
		Received:    n.Received,
		Transmitted: n.Transmitted,
	}
}

func ToRealTimeStatsResponse(s metricsdomain.RealTimeStats) RealTimeStatsResponse {
	return RealTimeStatsResponse{
		CPUPercent:    s.CPUPercent,
		MemoryPercent: s.MemoryPercent,
		MemoryUsedGB:  s.MemoryUsedGB,
		MemoryTotalGB: s.MemoryTotalGB,
	}
}

func ToProcessResponse(p metricsdomain.ProcessSnapshot) ProcessResponse {
	return ProcessResponse{
		PID:         p.PID,
		Name:        p.Name,
		CPUPercent:  p.CPUPercent,
		MemoryBytes: p.MemoryBytes,
		GPUPercent:  p.GPUPercent,
	}
}

func ToSamplePointResponse(p metricsdomain.SamplePoint) SamplePointResponse {
	return SamplePointResponse{
		Timestamp:          p.Timestamp,
		CPUPercent:         p.CPUPercent,
		MemoryPercent:      p.MemoryPercent,
		TemperaturePercent: p.TemperaturePercent,
	}
}

// ToExtendedStatsResponse converts extended stats and, when given, the
// updated series. Lists are never nil so they encode as [].
func ToExtendedStatsResponse(s metricsdomain.ExtendedStats, history []metricsdomain.SamplePoint) ExtendedStatsResponse {
	resp := ExtendedStatsResponse{
		CPUPercent:    s.CPUPercent,
		MemoryPercent: s.MemoryPercent,
		MemoryUsedGB:  s.MemoryUsedGB,
		MemoryTotalGB: s.MemoryTotalGB,
		Temperatures:  make([]TemperatureResponse, 0, len(s.Temperatures)),
		NetworkActivity: NetworkActivityResponse{
			Received:        s.NetworkActivity.Received,
			Transmitted:     s.NetworkActivity.Transmitted,
			ReceivedRate:    s.NetworkActivity.ReceivedRate,
			TransmittedRate: s.NetworkActivity.TransmittedRate,
		},
		TopProcesses: make([]ProcessResponse, 0, len(s.TopProcesses)),
		Timestamp:    s.Timestamp,
	}
	for _, t := range s.Temperatures {
		resp.Temperatures = append(resp.Temperatures, TemperatureResponse{
			Sensor:   t.Sensor,
			Value:    t.Value,
			Max:      t.Max,
			Critical: t.Critical,
		})
	}
	for _, p := range s.TopProcesses {
		resp.TopProcesses = append(resp.TopProcesses, ToProcessResponse(p))
	}
	if history != nil {
		resp.History = ToSamplePointResponses(history)
	}
	return resp
}

func ToSamplePointResponses(points []metricsdomain.SamplePoint) []SamplePointResponse {
	out := make([]SamplePointResponse, len(points))
	for i, p := range points {
		out[i] = ToSamplePointResponse(p)
	}
	return out
}
