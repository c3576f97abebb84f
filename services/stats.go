package services

import (
	"encoding/json"

	"popcorn/models"
	"popcorn/shared/format"
)

// Average is the arithmetic mean of values; ok is false for an empty or nil
// slice.
func Average(values []float64) (mean float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// AverageOf averages the values pick extracts from items. Items for which
// pick reports false are left out entirely.
func AverageOf[T any](items []T, pick func(T) (float64, bool)) (float64, bool) {
	values := make([]float64, 0, len(items))
	for _, it := range items {
		if v, ok := pick(it); ok {
			values = append(values, v)
		}
	}
	return Average(values)
}

// Stat is an optional mean.
type Stat struct {
	Value float64
	OK    bool
}

// String renders two decimals or "NA".
func (s Stat) String() string {
	return format.Average(s.Value, s.OK)
}

// MarshalJSON encodes a missing mean as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.OK {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Summary aggregates the watched list.
type Summary struct {
	Count      int  `json:"count"`
	IMDbRating Stat `json:"avgImdbRating"`
	UserRating Stat `json:"avgUserRating"`
	Runtime    Stat `json:"avgRuntime"`
}

func Summarize(entries []models.WatchedEntry) Summary {
	var s Summary
	s.Count = len(entries)
	s.IMDbRating.Value, s.IMDbRating.OK = AverageOf(entries, func(e models.WatchedEntry) (float64, bool) {
		return e.IMDbRating.Value, e.IMDbRating.Valid
	})
	s.UserRating.Value, s.UserRating.OK = AverageOf(entries, func(e models.WatchedEntry) (float64, bool) {
		return float64(e.UserRating), models.ValidUserRating(e.UserRating)
	})
	// Zero minutes means the runtime was unknown upstream.
	s.Runtime.Value, s.Runtime.OK = AverageOf(entries, func(e models.WatchedEntry) (float64, bool) {
		return float64(e.RuntimeMinutes), e.RuntimeMinutes > 0
	})
	return s
}
