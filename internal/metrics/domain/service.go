package domain

import "context"

// Service defines the consumer-facing query operations.
// This interface allows the API layer to depend on an abstraction rather than the concrete sampler service
type Service interface {
	SystemInfo(ctx context.Context) (SystemDescriptor, error)
	CPUInfo(ctx context.Context) (CPUDescriptor, error)
	MemoryInfo(ctx context.Context) (MemoryDescriptor, error)
	DiskInfo(ctx context.Context) ([]DiskDescriptor, error)
	NetworkInfo(ctx context.Context) ([]NetworkInterface, error)
	RealTimeStats(ctx context.Context) (RealTimeStats, error)
	// ExtendedRealTimeStats samples and records the point into the realtime
	// series in one step, returning the updated series alongside.
	ExtendedRealTimeStats(ctx context.Context) (ExtendedStats, []SamplePoint, error)
	TopProcesses(ctx context.Context, limit int) ([]ProcessSnapshot, error)

	History(key string) []SamplePoint
	HistoryKeys() []string
	ResetHistory(key string)
	ResetAllHistory()
}
