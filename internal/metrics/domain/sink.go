package domain

import "context"

// Sink receives every extended sample the poller produces.
type Sink interface {
	Emit(ctx context.Context, stats ExtendedStats) error
}
