package domain

import (
	"context"
	"time"
)

// SystemMetricsReader defines the interface for reading raw host counters.
// It abstracts OS and driver access from the domain layer and keeps no state
// between calls beyond what the OS itself caches.
//
// Every method may fail with a *SamplerError classified as ErrSensorUnavailable,
// ErrSamplerTransient or ErrSamplerFatal.
type SystemMetricsReader interface {
	ReadHost(ctx context.Context) (HostReading, error)
	ReadCPUInfo(ctx context.Context) (CPUInfoReading, error)
	ReadCPU(ctx context.Context) (CPUReading, error)
	ReadMemory(ctx context.Context) (MemoryReading, error)
	ReadDisks(ctx context.Context) ([]DiskReading, error)
	ReadTemperatures(ctx context.Context) ([]TemperatureReading, error)
	ReadProcesses(ctx context.Context) ([]ProcessReading, error)
	// ReadGPUProcesses is best effort; hosts without a supported GPU report
	// ErrSensorUnavailable.
	ReadGPUProcesses(ctx context.Context) ([]GPUProcessReading, error)
	ReadNetwork(ctx context.Context) ([]NetworkReading, error)
}

type HostReading struct {
	Name          string
	OSVersion     string
	KernelVersion string
	Hostname      string
	UptimeSeconds uint64
	BootTime      uint64
}

type CPUInfoReading struct {
	Vendor        string
	Brand         string
	FrequencyMHz  uint64
	LogicalCores  int
	PhysicalCores int
}

// CPUReading holds raw usage as reported by the OS. PerCore values are
// percentages of a single core and may be out of range on noisy drivers.
type CPUReading struct {
	PerCore   []float64
	Aggregate float64
}

// MemoryReading values are in bytes.
type MemoryReading struct {
	Total     uint64
	Used      uint64
	Available uint64
	SwapTotal uint64
	SwapUsed  uint64
}

type DiskReading struct {
	Name       string
	MountPoint string
	FileSystem string
	Total      uint64
	Used       uint64
	Available  uint64
}

// TemperatureReading values are in degrees Celsius. Max and Critical are
// zero when the sensor does not report them.
type TemperatureReading struct {
	Sensor   string
	Value    float64
	Max      float64
	Critical float64
}

// ProcessReading carries cumulative CPU busy time (user+system) for a pid.
type ProcessReading struct {
	PID         int32
	Name        string
	BusyTime    time.Duration
	MemoryBytes uint64
}

type GPUProcessReading struct {
	PID        int32
	GPUPercent float64
}

// NetworkReading carries cumulative byte counters for one interface.
type NetworkReading struct {
	Name        string
	Received    uint64
	Transmitted uint64
}
