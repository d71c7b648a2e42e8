package domain

// SeriesStore defines the rolling history the query surface records into.
// Aggregator is the in-memory implementation; nothing is persisted.
type SeriesStore interface {
	Append(key string, point SamplePoint) []SamplePoint
	Read(key string) []SamplePoint
	Reset(key string)
	ResetAll()
	Keys() []string
}

var _ SeriesStore = (*Aggregator)(nil)
