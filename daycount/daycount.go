// Package daycount converts date pairs into year fractions under named
// market conventions.
package daycount

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/fixedincome/dates"
)

// Convention identifies a day count convention.
type Convention string

const (
	// ACT365F divides actual calendar days by a fixed 365-day year.
	ACT365F Convention = "ACT/365F"
	// ACTACT divides actual calendar days by the 365.25 average year length.
	ACTACT Convention = "ACT/ACT"
	// Thirty360 counts 30-day months and a 360-day year, with the day of
	// month capped at 30 on both ends.
	Thirty360 Convention = "30/360"
)

// Default is the convention assumed when callers do not specify one; the
// discount curve time axis uses it as well.
const Default = ACT365F

var (
	// ErrUnsupportedConvention reports a convention tag this package does
	// not recognize.
	ErrUnsupportedConvention = errors.New("unsupported day count convention")
	// ErrInvalidRange reports an end date before the start date.
	ErrInvalidRange = errors.New("end date before start date")
)

// YearFraction computes the year fraction from d1 to d2 under the given
// convention. Same-day input yields exactly 0 for every convention.
func YearFraction(d1, d2 time.Time, convention Convention) (float64, error) {
	if d2.Before(d1) {
		return 0, fmt.Errorf("YearFraction: %s < %s: %w",
			d2.Format("2006-01-02"), d1.Format("2006-01-02"), ErrInvalidRange)
	}

	switch convention {
	case ACT365F:
		return float64(dates.Days(d1, d2)) / 365.0, nil
	case ACTACT:
		return float64(dates.Days(d1, d2)) / 365.25, nil
	case Thirty360:
		day1 := d1.Day()
		if day1 > 30 {
			day1 = 30
		}
		day2 := d2.Day()
		if day2 > 30 {
			day2 = 30
		}
		y1, m1 := d1.Year(), int(d1.Month())
		y2, m2 := d2.Year(), int(d2.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(day2-day1)) / 360.0, nil
	default:
		return 0, fmt.Errorf("YearFraction: %q: %w", convention, ErrUnsupportedConvention)
	}
}
