package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"hostpulse/internal/metrics/domain"
)

const (
	defaultNvidiaSMI = "nvidia-smi"

	// pmon collects for about a second before printing
	DefaultGPURefreshInterval = 2 * time.Second
	DefaultGPUReadTimeout     = 5 * time.Second
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// NvidiaSMIReader reads per-process SM utilisation from `nvidia-smi pmon`.
// pmon is too slow for a query's call timeout, so a background loop refreshes
// a cached result and ReadGPUProcesses serves the cache.
type NvidiaSMIReader struct {
	path     string
	run      commandRunner
	interval time.Duration
	timeout  time.Duration

	mu       sync.RWMutex
	readings []domain.GPUProcessReading
	err      error

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewNvidiaSMIReader fails when nvidia-smi is not on PATH.
func NewNvidiaSMIReader() (*NvidiaSMIReader, error) {
	path, err := exec.LookPath(defaultNvidiaSMI)
	if err != nil {
		return nil, err
	}
	return newNvidiaSMIReader(path, runCommand), nil
}

func newNvidiaSMIReader(path string, run commandRunner) *NvidiaSMIReader {
	ctx, cancel := context.WithCancel(context.Background())
	return &NvidiaSMIReader{
		path:     path,
		run:      run,
		interval: DefaultGPURefreshInterval,
		timeout:  DefaultGPUReadTimeout,
		err:      domain.NewSamplerError("gpu_processes", domain.ErrSensorUnavailable, errors.New("no sample yet")),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start refreshes once and then every refresh interval until Stop.
func (r *NvidiaSMIReader) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Refresh(r.ctx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Refresh(r.ctx)
			case <-r.ctx.Done():
				return
			}
		}
	}()
}

func (r *NvidiaSMIReader) Stop() {
	r.cancel()
	r.wg.Wait()
}

// Refresh runs pmon once under its own timeout and replaces the cache.
func (r *NvidiaSMIReader) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	readings, err := r.sample(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings, r.err = readings, err
	return err
}

// ReadGPUProcesses returns the last refreshed readings, or the error of the
// last refresh.
func (r *NvidiaSMIReader) ReadGPUProcesses(ctx context.Context) ([]domain.GPUProcessReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.GPUProcessReading, len(r.readings))
	copy(out, r.readings)
	return out, nil
}

func (r *NvidiaSMIReader) sample(ctx context.Context) ([]domain.GPUProcessReading, error) {
	out, err := r.run(ctx, r.path, "pmon", "-c", "1", "-s", "u")
	if err != nil {
		// a killed process also reports an exit error
		if ctx.Err() != nil {
			return nil, domain.NewSamplerError("gpu_processes", domain.ErrSamplerTransient, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// driver present but no device or insufficient permissions
			return nil, domain.NewSamplerError("gpu_processes", domain.ErrSensorUnavailable, err)
		}
		return nil, domain.NewSamplerError("gpu_processes", domain.ErrSamplerTransient, err)
	}
	return ParsePmon(out), nil
}

// ParsePmon parses `nvidia-smi pmon -s u` output. Header lines start with
// '#'; idle rows carry '-' in the pid or sm column and are dropped.
func ParsePmon(out []byte) []domain.GPUProcessReading {
	readings := make([]domain.GPUProcessReading, 0)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		pid, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			continue
		}
		sm, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		readings = append(readings, domain.GPUProcessReading{
			PID:        int32(pid),
			GPUPercent: sm,
		})
	}
	return readings
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
