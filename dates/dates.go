// Package dates provides calendar-date helpers shared by the curve and bond
// packages. All dates are UTC midnights; intraday components are ignored.
package dates

import (
	"fmt"
	"sort"
	"time"
)

// SortDates sorts a slice of time.Time in ascending order.
func SortDates(ds []time.Time) {
	sort.Slice(ds, func(i, j int) bool {
		return ds[i].Before(ds[j])
	})
}

// Dedupe removes consecutive duplicates from a sorted date slice.
func Dedupe(ds []time.Time) []time.Time {
	if len(ds) == 0 {
		return ds
	}
	out := ds[:1]
	for _, d := range ds[1:] {
		if !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}

// SearchDate returns the index of the first date in a sorted slice that is
// on or after target, or len(ds) if all dates are before it.
func SearchDate(ds []time.Time, target time.Time) int {
	return sort.Search(len(ds), func(i int) bool {
		return !ds[i].Before(target)
	})
}

// Bracket returns the pair of adjacent dates from a sorted slice that
// bracket target. If target is outside the range, the nearest boundary pair
// is returned. The slice must have at least two elements.
func Bracket(ds []time.Time, target time.Time) (time.Time, time.Time) {
	if len(ds) < 2 {
		panic("dates.Bracket: need at least 2 dates")
	}
	i := SearchDate(ds, target)
	if i <= 0 {
		return ds[0], ds[1]
	}
	if i >= len(ds) {
		return ds[len(ds)-2], ds[len(ds)-1]
	}
	return ds[i-1], ds[i]
}

// Days returns the number of calendar days from start to end.
func Days(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// AddMonth behaves like Excel's EDATE, avoiding Go's month normalization
// surprises: stepping from a month-end date clamps to the target month's end
// instead of spilling into the following month.
func AddMonth(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}

	d := t.AddDate(0, months, 0)
	origMonth := d.Month()
	for d.Month() == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// Parse converts YYYY-MM-DD to a UTC midnight time.Time.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates.Parse: %w", err)
	}
	return t, nil
}

// MustParse is Parse for fixtures and tests; it panics on malformed input.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}
