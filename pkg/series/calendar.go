package series

import "time"

// IsBusinessDay reports whether t falls Monday through Friday. Exchange
// holidays are not modelled; input data is expected to be pre-aligned to a
// business-day calendar by the loader.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDaysBetween counts business days strictly after from and up to and
// including to.
func BusinessDaysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	n := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			n++
		}
	}
	return n
}

// quarterOf returns a comparable (year, quarter) key for t.
func quarterOf(t time.Time) int {
	return t.Year()*4 + (int(t.Month())-1)/3
}

// QuarterEndIndexes returns the indexes of the last observation in each
// calendar quarter present in the series. The final observation is excluded:
// a partial trailing quarter is not an anchor.
func (s Series) QuarterEndIndexes() []int {
	var out []int
	for i := 0; i < len(s.points)-1; i++ {
		if quarterOf(s.points[i].Date) != quarterOf(s.points[i+1].Date) {
			out = append(out, i)
		}
	}
	return out
}
