package application

import (
	"context"
	"errors"

	metricsdomain "hostpulse/internal/metrics/domain"
	"hostpulse/pkg/utils"
)

const MaxProcessLimit = 100

var (
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
	ErrInvalidKey   = errors.New("invalid series key")
)

// MetricsService adapts the query surface to API responses
type MetricsService struct {
	svc metricsdomain.Service
}

// NewMetricsService creates a new metrics service
func NewMetricsService(svc metricsdomain.Service) *MetricsService {
	return &MetricsService{
		svc: svc,
	}
}

func (s *MetricsService) SystemInfo(ctx context.Context) (SystemInfoResponse, error) {
	d, err := s.svc.SystemInfo(ctx)
	if err != nil {
		return SystemInfoResponse{}, err
	}
	return ToSystemInfoResponse(d), nil
}

func (s *MetricsService) CPUInfo(ctx context.Context) (CPUInfoResponse, error) {
	d, err := s.svc.CPUInfo(ctx)
	if err != nil {
		return CPUInfoResponse{}, err
	}
	return ToCPUInfoResponse(d), nil
}

func (s *MetricsService) MemoryInfo(ctx context.Context) (MemoryInfoResponse, error) {
	d, err := s.svc.MemoryInfo(ctx)
	if err != nil {
		return MemoryInfoResponse{}, err
	}
	return ToMemoryInfoResponse(d), nil
}

func (s *MetricsService) DiskInfo(ctx context.Context) ([]DiskInfoResponse, error) {
	disks, err := s.svc.DiskInfo(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]DiskInfoResponse, len(disks))
	for i, d := range disks {
		responses[i] = ToDiskInfoResponse(d)
	}
	return responses, nil
}

func (s *MetricsService) NetworkInfo(ctx context.Context) ([]NetworkInfoResponse, error) {
	nics, err := s.svc.NetworkInfo(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]NetworkInfoResponse, len(nics))
	for i, n := range nics {
		responses[i] = ToNetworkInfoResponse(n)
	}
	return responses, nil
}

func (s *MetricsService) RealTimeStats(ctx context.Context) (RealTimeStatsResponse, error) {
	stats, err := s.svc.RealTimeStats(ctx)
	if err != nil {
		return RealTimeStatsResponse{}, err
	}
	return ToRealTimeStatsResponse(stats), nil
}

func (s *MetricsService) ExtendedRealTimeStats(ctx context.Context) (ExtendedStatsResponse, error) {
	stats, series, err := s.svc.ExtendedRealTimeStats(ctx)
	if err != nil {
		return ExtendedStatsResponse{}, err
	}
	return ToExtendedStatsResponse(stats, series), nil
}

// TopProcesses returns the busiest processes. A zero limit selects the
// configured default.
func (s *MetricsService) TopProcesses(ctx context.Context, limit int) ([]ProcessResponse, error) {
	if limit < 0 || limit > MaxProcessLimit {
		return nil, ErrInvalidLimit
	}

	procs, err := s.svc.TopProcesses(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]ProcessResponse, len(procs))
	for i, p := range procs {
		responses[i] = ToProcessResponse(p)
	}
	return responses, nil
}

func (s *MetricsService) History(key string) (HistoryResponse, error) {
	if err := utils.CheckSeriesKey(key); err != nil {
		return HistoryResponse{}, errors.Join(ErrInvalidKey, err)
	}
	return HistoryResponse{
		Key:    key,
		Points: ToSamplePointResponses(s.svc.History(key)),
	}, nil
}

func (s *MetricsService) HistoryKeys() HistoryKeysResponse {
	keys := s.svc.HistoryKeys()
	if keys == nil {
		keys = []string{}
	}
	return HistoryKeysResponse{Keys: keys}
}

func (s *MetricsService) ResetHistory(key string) error {
	if err := utils.CheckSeriesKey(key); err != nil {
		return errors.Join(ErrInvalidKey, err)
	}
	s.svc.ResetHistory(key)
	return nil
}

func (s *MetricsService) ResetAllHistory() {
	s.svc.ResetAllHistory()
}
