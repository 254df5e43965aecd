package series

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Point is one dated observation.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an ordered set of (date, value) pairs with strictly increasing
// dates and no duplicates. It is immutable once constructed: slicing and
// trimming return views over the same backing array.
type Series struct {
	points []Point
}

// New builds a Series from points, validating ordering and uniqueness.
func New(points []Point) (Series, error) {
	for i := 1; i < len(points); i++ {
		if !points[i].Date.After(points[i-1].Date) {
			return Series{}, fmt.Errorf("series dates must be strictly increasing: %s followed by %s at index %d",
				points[i-1].Date.Format("2006-01-02"), points[i].Date.Format("2006-01-02"), i)
		}
	}
	return Series{points: points}, nil
}

// FromValues pairs parallel date and value slices into a Series.
func FromValues(dates []time.Time, values []float64) (Series, error) {
	if len(dates) != len(values) {
		return Series{}, fmt.Errorf("dates (%d) and values (%d) length mismatch", len(dates), len(values))
	}
	points := make([]Point, len(dates))
	for i := range dates {
		points[i] = Point{Date: dates[i], Value: values[i]}
	}
	return New(points)
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.points) }

// Empty reports whether the series has no observations.
func (s Series) Empty() bool { return len(s.points) == 0 }

// Date returns the date at index i.
func (s Series) Date(i int) time.Time { return s.points[i].Date }

// Value returns the value at index i.
func (s Series) Value(i int) float64 { return s.points[i].Value }

// Point returns the observation at index i.
func (s Series) Point(i int) Point { return s.points[i] }

// First returns the earliest observation.
func (s Series) First() Point { return s.points[0] }

// Last returns the latest observation.
func (s Series) Last() Point { return s.points[len(s.points)-1] }

// Dates returns a copy of all dates.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Date
	}
	return out
}

// Values returns a copy of all values.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// IndexOnOrAfter returns the index of the first observation dated on or
// after t, or Len() if no such observation exists.
func (s Series) IndexOnOrAfter(t time.Time) int {
	return sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Date.Before(t)
	})
}

// Slice returns the sub-series with from <= date <= to.
func (s Series) Slice(from, to time.Time) Series {
	lo := s.IndexOnOrAfter(from)
	hi := s.IndexOnOrAfter(to.AddDate(0, 0, 1))
	if lo >= hi {
		return Series{}
	}
	return Series{points: s.points[lo:hi]}
}

// SliceIndex returns the sub-series covering indexes [lo, hi).
func (s Series) SliceIndex(lo, hi int) Series {
	if lo < 0 {
		lo = 0
	}
	if hi > len(s.points) {
		hi = len(s.points)
	}
	if lo >= hi {
		return Series{}
	}
	return Series{points: s.points[lo:hi]}
}

// TrimHead drops the first n observations.
func (s Series) TrimHead(n int) Series {
	return s.SliceIndex(n, len(s.points))
}

// TrimTail drops the last n observations.
func (s Series) TrimTail(n int) Series {
	return s.SliceIndex(0, len(s.points)-n)
}

// Returns computes simple returns v[t]/v[t-1] - 1, aligned at t. The first
// observation carries no return and is reported as zero; callers that care
// about warm-up semantics skip index 0.
func (s Series) Returns() []float64 {
	out := make([]float64, len(s.points))
	for i := 1; i < len(s.points); i++ {
		prev := s.points[i-1].Value
		if prev == 0 || math.IsNaN(prev) {
			out[i] = math.NaN()
			continue
		}
		out[i] = s.points[i].Value/prev - 1
	}
	return out
}

// Append returns a new Series extended with p. Returns an error when p does
// not strictly follow the current last date.
func (s Series) Append(p Point) (Series, error) {
	if len(s.points) > 0 && !p.Date.After(s.points[len(s.points)-1].Date) {
		return Series{}, fmt.Errorf("appended date %s does not follow %s",
			p.Date.Format("2006-01-02"), s.points[len(s.points)-1].Date.Format("2006-01-02"))
	}
	out := make([]Point, len(s.points), len(s.points)+1)
	copy(out, s.points)
	return Series{points: append(out, p)}, nil
}
