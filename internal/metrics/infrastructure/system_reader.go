package infrastructure

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"hostpulse/internal/metrics/domain"
)

// DefaultCPUSampleInterval is how long ReadCPU measures usage over.
const DefaultCPUSampleInterval = 200 * time.Millisecond

// GPUProcessSource lists per-process GPU utilisation.
type GPUProcessSource interface {
	ReadGPUProcesses(ctx context.Context) ([]domain.GPUProcessReading, error)
}

// SystemMetricsReaderImpl implements the domain SystemMetricsReader interface
// on top of gopsutil
type SystemMetricsReaderImpl struct {
	cpuInterval time.Duration
	gpu         GPUProcessSource
}

// NewSystemMetricsReader creates a new system metrics reader implementation.
// gpu may be nil, in which case GPU reads report the sensor as unavailable.
func NewSystemMetricsReader(cpuInterval time.Duration, gpu GPUProcessSource) *SystemMetricsReaderImpl {
	if cpuInterval <= 0 {
		cpuInterval = DefaultCPUSampleInterval
	}
	return &SystemMetricsReaderImpl{
		cpuInterval: cpuInterval,
		gpu:         gpu,
	}
}

var _ domain.SystemMetricsReader = (*SystemMetricsReaderImpl)(nil)

func (r *SystemMetricsReaderImpl) ReadHost(ctx context.Context) (domain.HostReading, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return domain.HostReading{}, classify("host", err)
	}

	name := info.Platform
	if name == "" {
		name = info.OS
	}
	return domain.HostReading{
		Name:          name,
		OSVersion:     info.PlatformVersion,
		KernelVersion: info.KernelVersion,
		Hostname:      info.Hostname,
		UptimeSeconds: info.Uptime,
		BootTime:      info.BootTime,
	}, nil
}

// ReadCPUInfo reports the first package's identity and the core counts.
// Frequency is averaged over all reported packages.
func (r *SystemMetricsReaderImpl) ReadCPUInfo(ctx context.Context) (domain.CPUInfoReading, error) {
	var out domain.CPUInfoReading

	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return out, classify("cpu_info", err)
	}
	out.LogicalCores = logical

	if physical, err := cpu.CountsWithContext(ctx, false); err == nil {
		out.PhysicalCores = physical
	}

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil || len(infos) == 0 {
		// counts alone are still useful
		return out, nil
	}
	out.Vendor = infos[0].VendorID
	out.Brand = strings.TrimSpace(infos[0].ModelName)

	var sum float64
	var n int
	for _, i := range infos {
		if i.Mhz <= 0 {
			continue
		}
		sum += i.Mhz
		n++
	}
	if n > 0 {
		out.FrequencyMHz = uint64(sum / float64(n))
	}
	return out, nil
}

// ReadCPU blocks for the configured sample interval and returns per-core usage.
func (r *SystemMetricsReaderImpl) ReadCPU(ctx context.Context) (domain.CPUReading, error) {
	perCore, err := cpu.PercentWithContext(ctx, r.cpuInterval, true)
	if err != nil {
		return domain.CPUReading{}, classify("cpu", err)
	}

	var sum float64
	for _, v := range perCore {
		sum += v
	}
	return domain.CPUReading{PerCore: perCore, Aggregate: sum}, nil
}

func (r *SystemMetricsReaderImpl) ReadMemory(ctx context.Context) (domain.MemoryReading, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return domain.MemoryReading{}, domain.NewSamplerError("memory", domain.ErrSamplerFatal, err)
		}
		return domain.MemoryReading{}, classify("memory", err)
	}

	out := domain.MemoryReading{
		Total:     vm.Total,
		Used:      vm.Used,
		Available: vm.Available,
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		out.SwapTotal = swap.Total
		out.SwapUsed = swap.Used
	}
	return out, nil
}

// ReadDisks lists physical partitions. Partitions whose usage cannot be
// read are skipped.
func (r *SystemMetricsReaderImpl) ReadDisks(ctx context.Context) ([]domain.DiskReading, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil && len(parts) == 0 {
		return nil, classify("disks", err)
	}

	out := make([]domain.DiskReading, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		if seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			continue
		}
		out = append(out, diskReading(p, usage))
	}
	return out, nil
}

// diskReading counts reserved blocks as used so Used + Available == Total.
func diskReading(p disk.PartitionStat, usage *disk.UsageStat) domain.DiskReading {
	var used uint64
	if usage.Total > usage.Free {
		used = usage.Total - usage.Free
	}
	return domain.DiskReading{
		Name:       p.Device,
		MountPoint: p.Mountpoint,
		FileSystem: p.Fstype,
		Total:      usage.Total,
		Used:       used,
		Available:  usage.Free,
	}
}

// ReadTemperatures returns every sensor gopsutil can see. gopsutil reports
// partial results together with a warning error; those are kept.
func (r *SystemMetricsReaderImpl) ReadTemperatures(ctx context.Context) ([]domain.TemperatureReading, error) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil && len(temps) == 0 {
		return nil, classify("temperatures", err)
	}

	out := make([]domain.TemperatureReading, 0, len(temps))
	for _, t := range temps {
		out = append(out, domain.TemperatureReading{
			Sensor:   t.SensorKey,
			Value:    t.Temperature,
			Max:      t.High,
			Critical: t.Critical,
		})
	}
	return out, nil
}

// ReadProcesses returns cumulative busy time per live process. Processes
// that exit or deny access mid-scan are skipped.
func (r *SystemMetricsReaderImpl) ReadProcesses(ctx context.Context) ([]domain.ProcessReading, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, classify("processes", err)
	}

	out := make([]domain.ProcessReading, 0, len(procs))
	for _, p := range procs {
		if ctx.Err() != nil {
			return nil, domain.NewSamplerError("processes", domain.ErrSamplerTransient, ctx.Err())
		}

		times, err := p.TimesWithContext(ctx)
		if err != nil {
			continue
		}
		name, _ := p.NameWithContext(ctx)

		var rss uint64
		if info, err := p.MemoryInfoWithContext(ctx); err == nil && info != nil {
			rss = info.RSS
		}

		busy := times.User + times.System
		out = append(out, domain.ProcessReading{
			PID:         p.Pid,
			Name:        name,
			BusyTime:    time.Duration(busy * float64(time.Second)),
			MemoryBytes: rss,
		})
	}
	return out, nil
}

func (r *SystemMetricsReaderImpl) ReadGPUProcesses(ctx context.Context) ([]domain.GPUProcessReading, error) {
	if r.gpu == nil {
		return nil, domain.NewSamplerError("gpu_processes", domain.ErrSensorUnavailable, nil)
	}
	return r.gpu.ReadGPUProcesses(ctx)
}

// ReadNetwork returns cumulative byte counters per interface
func (r *SystemMetricsReaderImpl) ReadNetwork(ctx context.Context) ([]domain.NetworkReading, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, classify("network", err)
	}

	out := make([]domain.NetworkReading, 0, len(counters))
	for _, c := range counters {
		out = append(out, domain.NetworkReading{
			Name:        c.Name,
			Received:    c.BytesRecv,
			Transmitted: c.BytesSent,
		})
	}
	return out, nil
}

// classify maps a gopsutil error onto the sampler error kinds. gopsutil
// does not export its "not implemented" sentinel, so the message is matched.
func classify(op string, err error) error {
	switch {
	case isUnsupported(err):
		return domain.NewSamplerError(op, domain.ErrSensorUnavailable, err)
	case errors.Is(err, os.ErrNotExist):
		return domain.NewSamplerError(op, domain.ErrSensorUnavailable, err)
	default:
		return domain.NewSamplerError(op, domain.ErrSamplerTransient, err)
	}
}

func isUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not implemented") || strings.Contains(msg, "not supported")
}
