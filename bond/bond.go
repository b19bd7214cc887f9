// Package bond models fixed-coupon bullet bonds: coupon schedules, accrued
// interest, pricing against a discount curve, and yield solving.
package bond

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/fixedincome/calendar"
	"github.com/meenmo/fixedincome/curve"
	"github.com/meenmo/fixedincome/dates"
	"github.com/meenmo/fixedincome/daycount"
)

var (
	// ErrValidation reports malformed bond terms or a pricing call with no
	// usable discount curve.
	ErrValidation = errors.New("bond validation failed")
	// ErrValuation reports a cashflow request on or after maturity.
	ErrValuation = errors.New("valuation failed")
	// ErrNoConvergence reports a yield solve that exhausted its iteration
	// budget without reaching tolerance.
	ErrNoConvergence = errors.New("yield solve did not converge")
)

// CurveProvider supplies a discount curve for a valuation date. It is the
// explicit, injectable replacement for a baked-in fallback pillar table:
// a bond only prices without a caller-supplied curve when its terms carry
// a provider.
type CurveProvider func(valuation time.Time) (curve.Discounter, error)

// Terms are the constructor inputs for a Bond.
type Terms struct {
	IssueDate    time.Time
	MaturityDate time.Time
	// CouponRate is the annualized coupon as a decimal (0.05 for 5%).
	CouponRate float64
	// Frequency is coupon periods per year: 1, 2, or 4.
	Frequency int
	// Face defaults to 100 when zero.
	Face float64
	// DayCount defaults to ACT/365F when empty.
	DayCount daycount.Convention
	// ExCouponDays is the ex-dividend lag in business days before a coupon
	// payment. Within the window the coupon belongs to the seller: it is
	// excluded from the buyer's cashflows and accrued interest is negative.
	// Zero disables the feature.
	ExCouponDays int
	// Calendar resolves business days for the ex-coupon lag. Defaults to
	// the weekends-only calendar.
	Calendar calendar.CalendarID
	// Fallback prices the bond when no curve is passed explicitly.
	Fallback CurveProvider
}

// Bond is an immutable fixed-coupon bullet bond.
type Bond struct {
	issueDate    time.Time
	maturityDate time.Time
	couponRate   float64
	frequency    int
	face         float64
	dayCount     daycount.Convention
	exCouponDays int
	cal          calendar.CalendarID
	fallback     CurveProvider
}

// New validates the terms and builds a bond.
func New(terms Terms) (*Bond, error) {
	if terms.Face == 0 {
		terms.Face = 100.0
	}
	if terms.DayCount == "" {
		terms.DayCount = daycount.Default
	}
	if terms.Calendar == "" {
		terms.Calendar = calendar.Weekends
	}

	if !terms.MaturityDate.After(terms.IssueDate) {
		return nil, fmt.Errorf("bond.New: maturity date must be after issue date: %w", ErrValidation)
	}
	if math.IsNaN(terms.CouponRate) || math.IsInf(terms.CouponRate, 0) || terms.CouponRate < 0 {
		return nil, fmt.Errorf("bond.New: coupon rate %v cannot be negative: %w", terms.CouponRate, ErrValidation)
	}
	if terms.Frequency != 1 && terms.Frequency != 2 && terms.Frequency != 4 {
		return nil, fmt.Errorf("bond.New: invalid frequency %d, must be 1, 2, or 4: %w", terms.Frequency, ErrValidation)
	}
	if math.IsNaN(terms.Face) || terms.Face <= 0 {
		return nil, fmt.Errorf("bond.New: face value %v must be positive: %w", terms.Face, ErrValidation)
	}
	if terms.ExCouponDays < 0 {
		return nil, fmt.Errorf("bond.New: ex-coupon days %d cannot be negative: %w", terms.ExCouponDays, ErrValidation)
	}

	return &Bond{
		issueDate:    terms.IssueDate,
		maturityDate: terms.MaturityDate,
		couponRate:   terms.CouponRate,
		frequency:    terms.Frequency,
		face:         terms.Face,
		dayCount:     terms.DayCount,
		exCouponDays: terms.ExCouponDays,
		cal:          terms.Calendar,
		fallback:     terms.Fallback,
	}, nil
}

func (b *Bond) IssueDate() time.Time          { return b.issueDate }
func (b *Bond) MaturityDate() time.Time       { return b.maturityDate }
func (b *Bond) CouponRate() float64           { return b.couponRate }
func (b *Bond) Frequency() int                { return b.frequency }
func (b *Bond) Face() float64                 { return b.face }
func (b *Bond) DayCount() daycount.Convention { return b.dayCount }

// CouponAmount is the flat per-period coupon payment.
func (b *Bond) CouponAmount() float64 {
	return b.couponRate * b.face / float64(b.frequency)
}

// CouponDates generates the coupon schedule by rolling backward from
// maturity in 12/frequency month steps while strictly after the issue date,
// then appending the issue date. The first period may be an irregular stub.
// The result is ascending and deduplicated, with issue first and maturity
// last. Recomputed on demand; pure given the bond's terms.
func (b *Bond) CouponDates() []time.Time {
	step := 12 / b.frequency
	ds := []time.Time{}
	cur := b.maturityDate
	for cur.After(b.issueDate) {
		ds = append(ds, cur)
		cur = dates.AddMonth(cur, -step)
	}
	ds = append(ds, b.issueDate)
	dates.SortDates(ds)
	return dates.Dedupe(ds)
}

// isExCoupon reports whether the coupon paying on payDate has gone
// ex-dividend by the valuation date.
func (b *Bond) isExCoupon(payDate, valuation time.Time) bool {
	if b.exCouponDays <= 0 {
		return false
	}
	exDate := calendar.AddBusinessDays(b.cal, payDate, -b.exCouponDays)
	return !exDate.After(valuation)
}

// Cashflows returns the coupon and principal payments on every schedule
// date strictly after the valuation date, ascending. The maturity flow
// carries the face value; a coupon inside its ex-dividend window is omitted.
func (b *Bond) Cashflows(valuation time.Time) ([]Cashflow, error) {
	if !valuation.Before(b.maturityDate) {
		return nil, fmt.Errorf("bond.Cashflows: valuation date %s is on or after maturity %s: %w",
			valuation.Format("2006-01-02"), b.maturityDate.Format("2006-01-02"), ErrValuation)
	}

	coupon := b.CouponAmount()
	var out []Cashflow
	for _, d := range b.CouponDates() {
		if !d.After(valuation) {
			continue
		}
		ex := b.isExCoupon(d, valuation)
		if ex && !d.Equal(b.maturityDate) {
			continue
		}
		cf := Cashflow{Date: d, Coupon: coupon}
		if ex {
			cf.Coupon = 0
		}
		if d.Equal(b.maturityDate) {
			cf.Principal = b.face
		}
		out = append(out, cf)
	}
	return out, nil
}

// Accrued returns the accrued interest at the valuation date: the coupon
// prorated by calendar days elapsed in the bracketing period. It is 0
// outside [issue, maturity) and on a coupon date. Inside an ex-dividend
// window it is negative (rebate to the next coupon).
func (b *Bond) Accrued(valuation time.Time) float64 {
	if valuation.Before(b.issueDate) || !valuation.Before(b.maturityDate) {
		return 0.0
	}

	prev, next := dates.Bracket(b.CouponDates(), valuation)
	if valuation.Equal(prev) || valuation.Equal(next) {
		return 0.0
	}
	daysInPeriod := dates.Days(prev, next)

	coupon := b.CouponAmount()
	if b.isExCoupon(next, valuation) {
		return -coupon * float64(dates.Days(valuation, next)) / float64(daysInPeriod)
	}
	return coupon * float64(dates.Days(prev, valuation)) / float64(daysInPeriod)
}

// Price returns the clean price: the discounted value of all future
// cashflows less accrued interest. It satisfies the portfolio instrument
// contract. A nil curve uses the terms' fallback provider when configured.
func (b *Bond) Price(disc curve.Discounter, valuation time.Time) (float64, error) {
	return b.price(disc, valuation, true)
}

// DirtyPrice returns the full discounted value of all future cashflows.
func (b *Bond) DirtyPrice(disc curve.Discounter, valuation time.Time) (float64, error) {
	return b.price(disc, valuation, false)
}

func (b *Bond) price(disc curve.Discounter, valuation time.Time, clean bool) (float64, error) {
	if disc == nil {
		if b.fallback == nil {
			return 0, fmt.Errorf("bond.Price: no discount curve supplied and no fallback provider configured: %w", ErrValidation)
		}
		var err error
		disc, err = b.fallback(valuation)
		if err != nil {
			return 0, fmt.Errorf("bond.Price: fallback curve: %w", err)
		}
	}

	cfs, err := b.Cashflows(valuation)
	if err != nil {
		return 0, err
	}

	dfs := make([]float64, len(cfs))
	amounts := make([]float64, len(cfs))
	for i, cf := range cfs {
		df, err := disc.DF(cf.Date)
		if err != nil {
			return 0, fmt.Errorf("bond.Price: %w", err)
		}
		dfs[i] = df
		amounts[i] = cf.Amount()
	}

	pv := floats.Dot(dfs, amounts)
	if clean {
		pv -= b.Accrued(valuation)
	}
	return pv, nil
}
