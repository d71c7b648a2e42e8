package domain

import "time"

// Uptime is an uptime duration broken into calendar-free units.
type Uptime struct {
	Days    uint64
	Hours   uint64
	Minutes uint64
	Seconds uint64
}

type SystemDescriptor struct {
	Name          string
	OSVersion     string
	KernelVersion string
	Hostname      string
	UptimeSeconds uint64
	Uptime        Uptime
	BootTime      uint64
}

type CPUDescriptor struct {
	Name          string
	Brand         string
	UsagePercent  float64
	FrequencyMHz  uint64
	Cores         int
	PhysicalCores int
}

type MemoryDescriptor struct {
	Total        uint64
	Used         uint64
	Available    uint64
	UsagePercent float64
	SwapTotal    uint64
	SwapUsed     uint64
}

type DiskDescriptor struct {
	Name         string
	MountPoint   string
	FileSystem   string
	TotalSpace   uint64
	UsedSpace    uint64
	Available    uint64
	UsagePercent float64
}

type NetworkInterface struct {
	Name        string
	Received    uint64
	Transmitted uint64
}

// Temperature is a normalized sensor reading. Max and Critical are nil
// when the sensor does not report them.
type Temperature struct {
	Sensor   string
	Value    float64
	Max      *float64
	Critical *float64
}

// NetworkActivity summarizes all interfaces. Rates are bytes per second
// since the previous extended sample and are zero on the first one.
type NetworkActivity struct {
	Received        uint64
	Transmitted     uint64
	ReceivedRate    float64
	TransmittedRate float64
}

// ProcessSnapshot is one process's usage at capture time.
type ProcessSnapshot struct {
	PID         int32
	Name        string
	CPUPercent  float64
	MemoryBytes uint64
	// GPUPercent is nil when per-process GPU usage is unavailable.
	GPUPercent *float64
}

type RealTimeStats struct {
	CPUPercent    float64
	MemoryPercent float64
	MemoryUsedGB  float64
	MemoryTotalGB float64
}

type ExtendedStats struct {
	RealTimeStats
	Temperatures    []Temperature
	NetworkActivity NetworkActivity
	TopProcesses    []ProcessSnapshot
	Timestamp       time.Time
}

// Point projects the stats onto the rolling series shape.
func (s ExtendedStats) Point() SamplePoint {
	return NewSamplePoint(s.Timestamp, s.CPUPercent, s.MemoryPercent, TemperaturePercent(s.Temperatures))
}
