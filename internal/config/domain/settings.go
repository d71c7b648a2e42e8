package domain

import (
	"context"
	"fmt"
	"time"
)

const (
	MaxSeriesCapacity = 10000
	MaxTopProcesses   = 100
	MinPollInterval   = 100 * time.Millisecond
)

// Settings holds the tunables read from the optional YAML settings file
type Settings struct {
	SeriesCapacity    int           `yaml:"series_capacity"`
	Staleness         time.Duration `yaml:"staleness"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	CPUSampleInterval time.Duration `yaml:"cpu_sample_interval"`
	CallTimeout       time.Duration `yaml:"call_timeout"`
	TopProcesses      int           `yaml:"top_processes"`
}

func DefaultSettings() Settings {
	return Settings{
		SeriesCapacity:    50,
		Staleness:         30 * time.Minute,
		PollInterval:      2 * time.Second,
		CPUSampleInterval: 200 * time.Millisecond,
		CallTimeout:       time.Second,
		TopProcesses:      10,
	}
}

func (s *Settings) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string)

	if s.SeriesCapacity < 1 || s.SeriesCapacity > MaxSeriesCapacity {
		problems["series_capacity"] = fmt.Sprintf("must be between 1 and %d", MaxSeriesCapacity)
	}
	if s.Staleness <= 0 {
		problems["staleness"] = "must be positive"
	}
	if s.PollInterval < MinPollInterval {
		problems["poll_interval"] = fmt.Sprintf("must be at least %s", MinPollInterval)
	} else if s.PollInterval <= s.CPUSampleInterval {
		problems["poll_interval"] = "must exceed cpu_sample_interval"
	}
	if s.CPUSampleInterval <= 0 {
		problems["cpu_sample_interval"] = "must be positive"
	}
	// ReadCPU blocks for the sample interval inside a single call
	if s.CallTimeout <= s.CPUSampleInterval {
		problems["call_timeout"] = "must exceed cpu_sample_interval"
	}
	if s.TopProcesses < 1 || s.TopProcesses > MaxTopProcesses {
		problems["top_processes"] = fmt.Sprintf("must be between 1 and %d", MaxTopProcesses)
	}

	return problems
}

// RequiresRestart reports which changed fields cannot be applied live
func (s Settings) RequiresRestart(next Settings) []string {
	var fields []string
	if s.SeriesCapacity != next.SeriesCapacity {
		fields = append(fields, "series_capacity")
	}
	if s.Staleness != next.Staleness {
		fields = append(fields, "staleness")
	}
	if s.CPUSampleInterval != next.CPUSampleInterval {
		fields = append(fields, "cpu_sample_interval")
	}
	if s.CallTimeout != next.CallTimeout {
		fields = append(fields, "call_timeout")
	}
	return fields
}
