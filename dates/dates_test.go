package dates_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/meenmo/fixedincome/dates"
)

func TestAddMonth_ClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		start  string
		months int
		want   string
	}{
		{"31st into a 30-day month", "2025-05-31", 1, "2025-06-30"},
		{"31st back into February", "2025-03-31", -1, "2025-02-28"},
		{"31st back into a leap February", "2024-03-31", -1, "2024-02-29"},
		{"plain mid-month step", "2025-01-15", 6, "2025-07-15"},
		{"backward semiannual step", "2027-01-01", -6, "2026-07-01"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := dates.AddMonth(dates.MustParse(tc.start), tc.months)
			assert.True(t, got.Equal(dates.MustParse(tc.want)),
				"got %s want %s", got.Format("2006-01-02"), tc.want)
		})
	}
}

func TestSortAndDedupe(t *testing.T) {
	t.Parallel()

	ds := []time.Time{
		dates.MustParse("2026-01-01"),
		dates.MustParse("2024-01-01"),
		dates.MustParse("2025-01-01"),
		dates.MustParse("2024-01-01"),
	}
	dates.SortDates(ds)
	got := dates.Dedupe(ds)

	want := []time.Time{
		dates.MustParse("2024-01-01"),
		dates.MustParse("2025-01-01"),
		dates.MustParse("2026-01-01"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("date sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestBracket(t *testing.T) {
	t.Parallel()

	ds := []time.Time{
		dates.MustParse("2025-01-01"),
		dates.MustParse("2025-07-01"),
		dates.MustParse("2026-01-01"),
	}

	lo, hi := dates.Bracket(ds, dates.MustParse("2025-03-15"))
	assert.True(t, lo.Equal(ds[0]) && hi.Equal(ds[1]))

	// Outside the range clamps to the boundary pair.
	lo, hi = dates.Bracket(ds, dates.MustParse("2027-01-01"))
	assert.True(t, lo.Equal(ds[1]) && hi.Equal(ds[2]))

	lo, hi = dates.Bracket(ds, dates.MustParse("2024-01-01"))
	assert.True(t, lo.Equal(ds[0]) && hi.Equal(ds[1]))
}

func TestDays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 365, dates.Days(dates.MustParse("2025-01-01"), dates.MustParse("2026-01-01")))
	assert.Equal(t, 366, dates.Days(dates.MustParse("2024-01-01"), dates.MustParse("2025-01-01")))
	assert.Equal(t, 0, dates.Days(dates.MustParse("2025-01-01"), dates.MustParse("2025-01-01")))
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := dates.Parse("01/02/2025")
	assert.Error(t, err)
}
