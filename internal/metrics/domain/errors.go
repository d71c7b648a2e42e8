package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSensorUnavailable means a metric category cannot be read on this host.
	ErrSensorUnavailable = errors.New("sensor unavailable")
	// ErrSamplerTransient means a single read failed and may succeed next poll.
	ErrSamplerTransient = errors.New("sampler transient failure")
	// ErrSamplerFatal means the OS interface cannot be opened at all.
	ErrSamplerFatal = errors.New("sampler unavailable")
)

// SamplerError wraps a raw sampler failure with its classification.
type SamplerError struct {
	Op   string
	Kind error
	Err  error
}

func NewSamplerError(op string, kind error, err error) *SamplerError {
	return &SamplerError{Op: op, Kind: kind, Err: err}
}

func (e *SamplerError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *SamplerError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsFatal reports whether err must be surfaced to the caller instead of
// being converted into an unavailable value.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSamplerFatal)
}
