// Package curve implements a zero-coupon discount curve built from
// continuously compounded zero rates at dated pillars.
package curve

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fixedincome/dates"
	"github.com/meenmo/fixedincome/daycount"
)

var (
	// ErrConstruction reports malformed curve inputs.
	ErrConstruction = errors.New("curve construction failed")
	// ErrInterpolation reports a discount factor request before the
	// curve's valuation date.
	ErrInterpolation = errors.New("interpolation failed")
)

// Discounter yields discount factors for dated cashflows. It is the minimal
// capability instrument pricing needs.
type Discounter interface {
	DF(at time.Time) (float64, error)
}

// TermStructure extends Discounter with pillar introspection and parallel
// bumping. Risk aggregation (DV01) requires this contract instead of
// reaching into a concrete curve's internals.
type TermStructure interface {
	Discounter
	ValuationDate() time.Time
	Zeros() map[time.Time]float64
	Bump(delta float64) (TermStructure, error)
}

// Curve is an immutable piecewise zero-rate term structure. Discounting is
// continuous compounding on an ACT/365F time axis; between pillars the zero
// rate is interpolated linearly in year-fraction space.
type Curve struct {
	valuationDate time.Time
	pillarDates   []time.Time
	zeroRates     []float64
	dayCount      daycount.Convention
}

var _ TermStructure = (*Curve)(nil)

// New builds a curve from parallel pillar-date and zero-rate slices. Pillars
// must be strictly increasing; rates must be finite and non-negative.
func New(valuation time.Time, pillarDates []time.Time, zeroRates []float64) (*Curve, error) {
	if len(pillarDates) != len(zeroRates) {
		return nil, fmt.Errorf("curve.New: %d pillar dates vs %d zero rates: %w",
			len(pillarDates), len(zeroRates), ErrConstruction)
	}
	if len(pillarDates) == 0 {
		return nil, fmt.Errorf("curve.New: at least one pillar is required: %w", ErrConstruction)
	}
	for i := 1; i < len(pillarDates); i++ {
		if !pillarDates[i].After(pillarDates[i-1]) {
			return nil, fmt.Errorf("curve.New: pillar dates must be strictly increasing at index %d (%s): %w",
				i, pillarDates[i].Format("2006-01-02"), ErrConstruction)
		}
	}
	for i, r := range zeroRates {
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			return nil, fmt.Errorf("curve.New: zero rate %v at index %d must be finite and non-negative: %w",
				r, i, ErrConstruction)
		}
	}

	c := &Curve{
		valuationDate: valuation,
		pillarDates:   append([]time.Time(nil), pillarDates...),
		zeroRates:     append([]float64(nil), zeroRates...),
		dayCount:      daycount.Default,
	}
	return c, nil
}

// FromZeroRates builds a curve from a pillar-date to zero-rate mapping,
// sorting the pillars ascending.
func FromZeroRates(valuation time.Time, zeros map[time.Time]float64) (*Curve, error) {
	if len(zeros) == 0 {
		return nil, fmt.Errorf("curve.FromZeroRates: zero-rate mapping cannot be empty: %w", ErrConstruction)
	}
	pillars := make([]time.Time, 0, len(zeros))
	for d := range zeros {
		pillars = append(pillars, d)
	}
	dates.SortDates(pillars)
	rates := make([]float64, len(pillars))
	for i, d := range pillars {
		rates[i] = zeros[d]
	}
	return New(valuation, pillars, rates)
}

// Flat builds a single-pillar curve at the valuation date itself, which
// discounts every future date at the given rate.
func Flat(rate float64, valuation time.Time) (*Curve, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return nil, fmt.Errorf("curve.Flat: rate %v must be finite and non-negative: %w", rate, ErrConstruction)
	}
	return New(valuation, []time.Time{valuation}, []float64{rate})
}

// DF returns the discount factor exp(-r*t) at the given date. An exact
// pillar match uses that pillar's rate; a date strictly between two pillars
// interpolates the zero rate linearly on the year-fraction axis; any other
// date discounts flat at the last pillar's rate.
func (c *Curve) DF(at time.Time) (float64, error) {
	if at.Before(c.valuationDate) {
		return 0, fmt.Errorf("curve.DF: %s precedes valuation date %s: %w",
			at.Format("2006-01-02"), c.valuationDate.Format("2006-01-02"), ErrInterpolation)
	}

	t, err := daycount.YearFraction(c.valuationDate, at, c.dayCount)
	if err != nil {
		return 0, fmt.Errorf("curve.DF: %w", err)
	}

	i := dates.SearchDate(c.pillarDates, at)

	// Exact pillar match takes precedence over interpolation.
	if i < len(c.pillarDates) && c.pillarDates[i].Equal(at) {
		return math.Exp(-c.zeroRates[i] * t), nil
	}

	// Strictly between pillars i-1 and i: interpolate the zero rate.
	if i > 0 && i < len(c.pillarDates) {
		t1, err := daycount.YearFraction(c.valuationDate, c.pillarDates[i-1], c.dayCount)
		if err != nil {
			return 0, fmt.Errorf("curve.DF: %w", err)
		}
		t2, err := daycount.YearFraction(c.valuationDate, c.pillarDates[i], c.dayCount)
		if err != nil {
			return 0, fmt.Errorf("curve.DF: %w", err)
		}
		r1, r2 := c.zeroRates[i-1], c.zeroRates[i]
		r := r1
		if t2 != t1 {
			r = r1 + (r2-r1)*(t-t1)/(t2-t1)
		}
		return math.Exp(-r * t), nil
	}

	// Outside the pillar range: flat at the last pillar's rate over the
	// full year fraction from the valuation date.
	last := c.zeroRates[len(c.zeroRates)-1]
	return math.Exp(-last * t), nil
}

// ValuationDate returns the curve's anchor date (t = 0).
func (c *Curve) ValuationDate() time.Time {
	return c.valuationDate
}

// DayCount returns the convention of the curve's time axis.
func (c *Curve) DayCount() daycount.Convention {
	return c.dayCount
}

// Zeros returns the pillar-date to zero-rate mapping as a copy.
func (c *Curve) Zeros() map[time.Time]float64 {
	out := make(map[time.Time]float64, len(c.pillarDates))
	for i, d := range c.pillarDates {
		out[d] = c.zeroRates[i]
	}
	return out
}

// PillarDates returns the ascending pillar dates as a copy.
func (c *Curve) PillarDates() []time.Time {
	return append([]time.Time(nil), c.pillarDates...)
}

// ZeroRates returns the zero rates, parallel to PillarDates, as a copy.
func (c *Curve) ZeroRates() []float64 {
	return append([]float64(nil), c.zeroRates...)
}

// Bump returns a new curve with every zero rate shifted by delta. The
// shifted curve revalidates, so a downward bump below zero fails with
// ErrConstruction rather than producing a negative-rate curve.
func (c *Curve) Bump(delta float64) (TermStructure, error) {
	shifted := make(map[time.Time]float64, len(c.pillarDates))
	for i, d := range c.pillarDates {
		shifted[d] = c.zeroRates[i] + delta
	}
	bumped, err := FromZeroRates(c.valuationDate, shifted)
	if err != nil {
		return nil, fmt.Errorf("curve.Bump: delta %v: %w", delta, err)
	}
	return bumped, nil
}
