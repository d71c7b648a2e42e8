package application

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"hostpulse/internal/metrics/domain"
	sharedlogger "hostpulse/internal/shared/logger"
)

const (
	DefaultTopProcesses = 10
	DefaultCallTimeout  = time.Second
)

// ServiceConfig tunes the query service. Zero values select the defaults.
type ServiceConfig struct {
	TopProcesses int
	CallTimeout  time.Duration
	Clock        domain.Clock
	// Sleep waits between the two process reads of a cold start.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Service implements the query surface on top of a raw reader and the
// rolling series store.
type Service struct {
	logger      sharedlogger.Logger
	reader      domain.SystemMetricsReader
	store       domain.SeriesStore
	now         domain.Clock
	sleep       func(ctx context.Context, d time.Duration) error
	callTimeout time.Duration
	topLimit    atomic.Int64

	procs *ProcessTracker
	net   *NetworkTracker

	// recordMu makes sample+append of the realtime series one step.
	recordMu sync.Mutex
	// procMu serializes the two-read process warmup.
	procMu sync.Mutex

	lastMu  sync.Mutex
	lastCPU float64
	lastMem *domain.MemoryReading
	cpuInfo *domain.CPUInfoReading
}

var _ domain.Service = (*Service)(nil)

// NewService creates a new query service
func NewService(logger sharedlogger.Logger, reader domain.SystemMetricsReader, store domain.SeriesStore, cfg ServiceConfig) *Service {
	if cfg.TopProcesses <= 0 {
		cfg.TopProcesses = DefaultTopProcesses
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}

	s := &Service{
		logger:      logger,
		reader:      reader,
		store:       store,
		now:         cfg.Clock,
		sleep:       cfg.Sleep,
		callTimeout: cfg.CallTimeout,
		procs:       NewProcessTracker(cfg.Clock),
		net:         NewNetworkTracker(cfg.Clock),
	}
	s.topLimit.Store(int64(cfg.TopProcesses))
	return s
}

// SetTopProcesses changes the default number of processes in extended stats.
func (s *Service) SetTopProcesses(n int) {
	if n > 0 {
		s.topLimit.Store(int64(n))
	}
}

// Probe checks once that the OS interface can be opened at all. Any failure
// reading memory is treated as fatal since every supported OS exposes it.
func (s *Service) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if _, err := s.reader.ReadMemory(ctx); err != nil {
		if domain.IsFatal(err) {
			return err
		}
		return domain.NewSamplerError("probe", domain.ErrSamplerFatal, err)
	}
	if _, err := s.reader.ReadHost(ctx); domain.IsFatal(err) {
		return err
	}
	return nil
}

// SystemInfo returns OS and host facts
func (s *Service) SystemInfo(ctx context.Context) (domain.SystemDescriptor, error) {
	host, _, err := read(ctx, s, "host", s.reader.ReadHost)
	if err != nil {
		return domain.SystemDescriptor{}, err
	}
	return domain.SystemDescriptor{
		Name:          host.Name,
		OSVersion:     host.OSVersion,
		KernelVersion: host.KernelVersion,
		Hostname:      host.Hostname,
		UptimeSeconds: host.UptimeSeconds,
		Uptime:        domain.BreakdownUptime(host.UptimeSeconds),
		BootTime:      host.BootTime,
	}, nil
}

// CPUInfo returns the CPU descriptor with current usage
func (s *Service) CPUInfo(ctx context.Context) (domain.CPUDescriptor, error) {
	var (
		info  domain.CPUInfoReading
		usage float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info, err = s.readCPUInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		usage, err = s.cpuPercent(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.CPUDescriptor{}, err
	}

	return domain.CPUDescriptor{
		Name:          info.Vendor,
		Brand:         info.Brand,
		UsagePercent:  usage,
		FrequencyMHz:  info.FrequencyMHz,
		Cores:         info.LogicalCores,
		PhysicalCores: info.PhysicalCores,
	}, nil
}

// MemoryInfo returns the memory descriptor
func (s *Service) MemoryInfo(ctx context.Context) (domain.MemoryDescriptor, error) {
	m, err := s.memory(ctx)
	if err != nil {
		return domain.MemoryDescriptor{}, err
	}
	return domain.MemoryDescriptor{
		Total:        m.Total,
		Used:         m.Used,
		Available:    m.Available,
		UsagePercent: domain.UsagePercent(m.Used, m.Total),
		SwapTotal:    m.SwapTotal,
		SwapUsed:     m.SwapUsed,
	}, nil
}

// DiskInfo returns one descriptor per mounted disk
func (s *Service) DiskInfo(ctx context.Context) ([]domain.DiskDescriptor, error) {
	disks, _, err := read(ctx, s, "disks", s.reader.ReadDisks)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DiskDescriptor, 0, len(disks))
	for _, d := range disks {
		out = append(out, domain.DiskDescriptor{
			Name:         d.Name,
			MountPoint:   d.MountPoint,
			FileSystem:   d.FileSystem,
			TotalSpace:   d.Total,
			UsedSpace:    d.Used,
			Available:    d.Available,
			UsagePercent: domain.UsagePercent(d.Used, d.Total),
		})
	}
	return out, nil
}

// NetworkInfo returns cumulative counters per interface, sorted by name
func (s *Service) NetworkInfo(ctx context.Context) ([]domain.NetworkInterface, error) {
	nics, _, err := read(ctx, s, "network", s.reader.ReadNetwork)
	if err != nil {
		return nil, err
	}

	out := make([]domain.NetworkInterface, 0, len(nics))
	for _, n := range nics {
		out = append(out, domain.NetworkInterface{
			Name:        n.Name,
			Received:    n.Received,
			Transmitted: n.Transmitted,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RealTimeStats returns a minimal snapshot without touching history
func (s *Service) RealTimeStats(ctx context.Context) (domain.RealTimeStats, error) {
	var (
		cpu float64
		mem domain.MemoryReading
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cpu, err = s.cpuPercent(gctx)
		return err
	})
	g.Go(func() (err error) {
		mem, err = s.memory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.RealTimeStats{}, err
	}
	return realTimeStats(cpu, mem), nil
}

// ExtendedRealTimeStats samples everything, records the point into the
// realtime series and returns the stats together with the updated series.
func (s *Service) ExtendedRealTimeStats(ctx context.Context) (domain.ExtendedStats, []domain.SamplePoint, error) {
	s.recordMu.Lock()
	defer s.recordMu.Unlock()

	var (
		cpu   float64
		mem   domain.MemoryReading
		temps []domain.Temperature
		nics  []domain.NetworkReading
		procs []domain.ProcessSnapshot
	)
	limit := int(s.topLimit.Load())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cpu, err = s.cpuPercent(gctx)
		return err
	})
	g.Go(func() (err error) {
		mem, err = s.memory(gctx)
		return err
	})
	g.Go(func() (err error) {
		temps, err = s.temperatures(gctx)
		return err
	})
	g.Go(func() (err error) {
		nics, _, err = read(gctx, s, "network", s.reader.ReadNetwork)
		return err
	})
	g.Go(func() (err error) {
		procs, err = s.TopProcesses(gctx, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.ExtendedStats{}, nil, err
	}

	stats := domain.ExtendedStats{
		RealTimeStats:   realTimeStats(cpu, mem),
		Temperatures:    temps,
		NetworkActivity: s.net.Observe(nics),
		TopProcesses:    procs,
		Timestamp:       s.now(),
	}
	series := s.store.Append(domain.RealtimeSeries, stats.Point())
	return stats, series, nil
}

// TopProcesses returns at most limit processes ordered by CPU descending,
// ties broken by ascending pid. A non-positive limit uses the configured default.
func (s *Service) TopProcesses(ctx context.Context, limit int) ([]domain.ProcessSnapshot, error) {
	if limit <= 0 {
		limit = int(s.topLimit.Load())
	}

	cores := s.logicalCores(ctx)

	s.procMu.Lock()
	readings, ok, err := read(ctx, s, "processes", s.reader.ReadProcesses)
	if err != nil {
		s.procMu.Unlock()
		return nil, err
	}
	if !ok {
		s.procMu.Unlock()
		return []domain.ProcessSnapshot{}, nil
	}

	if !s.procs.Primed() {
		s.procs.Observe(readings, cores)
		if err := s.sleep(ctx, domain.MinProcessInterval); err == nil {
			second, ok, err := read(ctx, s, "processes", s.reader.ReadProcesses)
			if err != nil {
				s.procMu.Unlock()
				return nil, err
			}
			if ok {
				readings = second
			}
		}
	}
	snaps := s.procs.Observe(readings, cores)
	s.procMu.Unlock()

	if err := s.attachGPU(ctx, snaps); err != nil {
		return nil, err
	}

	domain.SortProcesses(snaps)
	if len(snaps) > limit {
		snaps = snaps[:limit]
	}
	return snaps, nil
}

func (s *Service) History(key string) []domain.SamplePoint {
	return s.store.Read(key)
}

func (s *Service) HistoryKeys() []string {
	return s.store.Keys()
}

func (s *Service) ResetHistory(key string) {
	s.logger.Info("Resetting history", "key", key)
	s.store.Reset(key)
}

func (s *Service) ResetAllHistory() {
	s.logger.Info("Resetting all history")
	s.store.ResetAll()
}

func (s *Service) attachGPU(ctx context.Context, snaps []domain.ProcessSnapshot) error {
	gpu, ok, err := read(ctx, s, "gpu_processes", s.reader.ReadGPUProcesses)
	if err != nil || !ok || len(gpu) == 0 {
		return err
	}

	byPID := make(map[int32]float64, len(gpu))
	for _, g := range gpu {
		byPID[g.PID] += g.GPUPercent
	}
	for i := range snaps {
		if v, ok := byPID[snaps[i].PID]; ok {
			pct := domain.ClampPercent(v)
			snaps[i].GPUPercent = &pct
		}
	}
	return nil
}

// cpuPercent reads usage, keeping the last good value on transient failure.
func (s *Service) cpuPercent(ctx context.Context) (float64, error) {
	r, ok, err := read(ctx, s, "cpu", s.reader.ReadCPU)
	if err != nil {
		return 0, err
	}

	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	if ok {
		s.lastCPU = domain.AverageCoreUsage(r.PerCore, r.Aggregate)
	}
	return s.lastCPU, nil
}

// memory reads memory, keeping the last good reading on transient failure.
func (s *Service) memory(ctx context.Context) (domain.MemoryReading, error) {
	m, ok, err := read(ctx, s, "memory", s.reader.ReadMemory)
	if err != nil {
		return domain.MemoryReading{}, err
	}

	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	if ok {
		s.lastMem = &m
	}
	if s.lastMem == nil {
		return domain.MemoryReading{}, nil
	}
	return *s.lastMem, nil
}

func (s *Service) temperatures(ctx context.Context) ([]domain.Temperature, error) {
	readings, _, err := read(ctx, s, "temperatures", s.reader.ReadTemperatures)
	if err != nil {
		return nil, err
	}
	return domain.NormalizeTemperatures(readings), nil
}

// readCPUInfo reads fresh CPU facts, falling back to the last good ones.
func (s *Service) readCPUInfo(ctx context.Context) (domain.CPUInfoReading, error) {
	info, ok, err := read(ctx, s, "cpu_info", s.reader.ReadCPUInfo)
	if err != nil {
		return domain.CPUInfoReading{}, err
	}

	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	if ok {
		s.cpuInfo = &info
	}
	if s.cpuInfo == nil {
		return domain.CPUInfoReading{}, nil
	}
	return *s.cpuInfo, nil
}

// logicalCores uses the cached core count, which does not change within a
// process lifetime.
func (s *Service) logicalCores(ctx context.Context) int {
	s.lastMu.Lock()
	cached := s.cpuInfo
	s.lastMu.Unlock()
	if cached != nil && cached.LogicalCores > 0 {
		return cached.LogicalCores
	}

	if info, err := s.readCPUInfo(ctx); err == nil && info.LogicalCores > 0 {
		return info.LogicalCores
	}
	return runtime.NumCPU()
}

// read runs one reader call under the per-call timeout. Non-fatal failures
// are logged and reported as ok=false with a nil error; only fatal sampler
// errors are returned.
func read[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, error)) (T, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	v, err := fn(ctx)
	if err == nil {
		return v, true, nil
	}

	var zero T
	switch {
	case domain.IsFatal(err):
		s.logger.Error("Sampler unavailable", "op", op, "err", err)
		return zero, false, err
	case errors.Is(err, domain.ErrSensorUnavailable):
		s.logger.Debug("Metric unavailable on this host", "op", op, "err", err)
	default:
		s.logger.Warn("Sampler read failed, skipping", "op", op, "err", err)
	}
	return zero, false, nil
}

func realTimeStats(cpu float64, mem domain.MemoryReading) domain.RealTimeStats {
	return domain.RealTimeStats{
		CPUPercent:    domain.ClampPercent(cpu),
		MemoryPercent: domain.UsagePercent(mem.Used, mem.Total),
		MemoryUsedGB:  domain.BytesToGiB(mem.Used),
		MemoryTotalGB: domain.BytesToGiB(mem.Total),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
