package domain

import (
	"time"
)

// RealtimeSeries is the series key fed by extended realtime stats.
const RealtimeSeries = "realtime"

// SamplePoint is one normalized observation appended to a rolling series.
// All percent fields are within [0,100].
type SamplePoint struct {
	Timestamp     time.Time
	CPUPercent    float64
	MemoryPercent float64
	// TemperaturePercent is nil when the host exposes no temperature sensors.
	TemperaturePercent *float64
}

// NewSamplePoint creates a sample point, clamping every percent field.
func NewSamplePoint(ts time.Time, cpuPercent, memoryPercent float64, temperaturePercent *float64) SamplePoint {
	p := SamplePoint{
		Timestamp:     ts,
		CPUPercent:    ClampPercent(cpuPercent),
		MemoryPercent: ClampPercent(memoryPercent),
	}
	if temperaturePercent != nil {
		v := ClampPercent(*temperaturePercent)
		p.TemperaturePercent = &v
	}
	return p
}
