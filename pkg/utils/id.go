package utils

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const MaxSeriesKeyLength = 64

var (
	EmptyNameError    = errors.New("'name' is required")
	SeriesKeyTooLong  = fmt.Errorf("series key longer than %d characters", MaxSeriesKeyLength)
	InvalidSeriesChar = errors.New("series key may only contain a-z, 0-9, '.', '_' and '-'")
)

func CheckName(name string) error {
	if len(name) == 0 {
		return EmptyNameError
	}

	return nil
}

// CheckSeriesKey validates a rolling series key such as "realtime"
func CheckSeriesKey(key string) error {
	if err := CheckName(key); err != nil {
		return err
	}
	if len(key) > MaxSeriesKeyLength {
		return SeriesKeyTooLong
	}
	for _, c := range key {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
		default:
			return InvalidSeriesChar
		}
	}
	return nil
}

// NewSubscriberID returns a random identifier for a stream subscriber
func NewSubscriberID() string {
	return uuid.NewString()
}
