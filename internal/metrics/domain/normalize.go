package domain

import (
	"math"
	"sort"
	"time"
)

const (
	MinTemperature = -50.0
	MaxTemperature = 150.0

	// MinProcessInterval is the shortest wall interval a per-process CPU
	// delta is computed over.
	MinProcessInterval = 200 * time.Millisecond

	bytesPerGiB = 1024 * 1024 * 1024

	// fallbackCriticalTemp is the reference used for TemperaturePercent
	// when a sensor reports neither a max nor a critical threshold.
	fallbackCriticalTemp = 100.0
)

// ClampPercent bounds v to [0,100]. NaN maps to 0.
func ClampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// AverageCoreUsage averages per-core usage so the total stays within [0,100]
// regardless of the core count. When perCore is empty the raw aggregate is
// clamped and returned instead.
func AverageCoreUsage(perCore []float64, aggregate float64) float64 {
	if len(perCore) == 0 {
		return ClampPercent(aggregate)
	}
	var sum float64
	for _, v := range perCore {
		sum += ClampPercent(v)
	}
	return ClampPercent(sum / float64(len(perCore)))
}

// UsagePercent returns used/total as a clamped percentage, or 0 when total is 0.
func UsagePercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return ClampPercent(float64(used) / float64(total) * 100)
}

// BytesToGiB converts a byte count to binary gigabytes.
func BytesToGiB(b uint64) float64 {
	return float64(b) / bytesPerGiB
}

// ProcessCPUPercent converts a busy-time delta over a wall-time delta into a
// percentage of the whole machine. Intervals shorter than MinProcessInterval
// are ungrounded and report 0.
func ProcessCPUPercent(busy, wall time.Duration, cores int) float64 {
	if wall < MinProcessInterval || busy <= 0 {
		return 0
	}
	if cores < 1 {
		cores = 1
	}
	return ClampPercent(float64(busy) / float64(wall) / float64(cores) * 100)
}

// ClampTemperature bounds a sensor value to a sane physical range. The second
// return value is false for NaN or infinite readings.
func ClampTemperature(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return math.Max(MinTemperature, math.Min(MaxTemperature, v)), true
}

// NormalizeTemperatures clamps each reading and drops unusable ones. The
// result is never nil so an empty sensor list serializes as [].
func NormalizeTemperatures(readings []TemperatureReading) []Temperature {
	out := make([]Temperature, 0, len(readings))
	for _, r := range readings {
		value, ok := ClampTemperature(r.Value)
		if !ok {
			continue
		}
		t := Temperature{Sensor: r.Sensor, Value: value}
		if v, ok := ClampTemperature(r.Max); ok && r.Max > 0 {
			t.Max = &v
		}
		if v, ok := ClampTemperature(r.Critical); ok && r.Critical > 0 {
			t.Critical = &v
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sensor < out[j].Sensor
	})
	return out
}

// TemperaturePercent reports the hottest sensor relative to its own
// threshold (critical, else max, else 100C). Nil when there are no sensors.
func TemperaturePercent(temps []Temperature) *float64 {
	if len(temps) == 0 {
		return nil
	}
	hottest := 0.0
	for _, t := range temps {
		ref := fallbackCriticalTemp
		switch {
		case t.Critical != nil && *t.Critical > 0:
			ref = *t.Critical
		case t.Max != nil && *t.Max > 0:
			ref = *t.Max
		}
		if pct := ClampPercent(t.Value / ref * 100); pct > hottest {
			hottest = pct
		}
	}
	return &hottest
}

// BreakdownUptime splits an uptime in seconds into days/hours/minutes/seconds.
func BreakdownUptime(seconds uint64) Uptime {
	return Uptime{
		Days:    seconds / 86400,
		Hours:   seconds % 86400 / 3600,
		Minutes: seconds % 3600 / 60,
		Seconds: seconds % 60,
	}
}

// SortProcesses orders by CPU descending, ties broken by ascending pid.
func SortProcesses(procs []ProcessSnapshot) {
	sort.Slice(procs, func(i, j int) bool {
		if procs[i].CPUPercent != procs[j].CPUPercent {
			return procs[i].CPUPercent > procs[j].CPUPercent
		}
		return procs[i].PID < procs[j].PID
	})
}
