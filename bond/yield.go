package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fixedincome/config"
	"github.com/meenmo/fixedincome/dates"
)

// daysPerYear is the average year length used on the yield time axis.
const daysPerYear = 365.25

// PriceFromYield returns the present value of the cashflows at a flat
// per-period compounding yield y:
//
//	pv = Σ cf_i / (1 + y/frequency)^(t_i * frequency)
//
// with t_i in 365.25-day years from the valuation date. A non-positive
// discount base makes the exponentiation undefined; that flow's discount
// factor is treated as 0 instead of propagating a domain error.
func PriceFromYield(y float64, cfs []Cashflow, valuation time.Time, frequency int) float64 {
	pv := 0.0
	for _, cf := range cfs {
		tYears := float64(dates.Days(valuation, cf.Date)) / daysPerYear
		exponent := tYears * float64(frequency)
		base := 1.0 + y/float64(frequency)

		df := 0.0
		if base > 0 {
			df = math.Pow(base, -exponent)
		}
		pv += cf.Amount() * df
	}
	return pv
}

// YieldToMaturity solves for the flat yield that reprices the bond's future
// cashflows to the given price. A clean price (dirty=false) is grossed up by
// accrued interest first. The solve is bisection over the configured
// bracket; price is strictly decreasing in yield for positive cashflows, so
// a mid price above the target moves the lower bound up.
func (b *Bond) YieldToMaturity(price float64, valuation time.Time, dirty bool) (float64, error) {
	y, _, err := b.solveYield(price, valuation, dirty)
	return y, err
}

func (b *Bond) solveYield(price float64, valuation time.Time, dirty bool) (float64, int, error) {
	dirtyPrice := price
	if !dirty {
		dirtyPrice += b.Accrued(valuation)
	}

	cfs, err := b.Cashflows(valuation)
	if err != nil {
		return 0, 0, err
	}
	if len(cfs) == 0 {
		return 0.0, 0, nil
	}

	cfg := config.GetConfig()
	log := config.Logger()
	low, high := cfg.YieldLowerBound, cfg.YieldUpperBound

	for iter := 1; iter <= cfg.MaxYieldIterations; iter++ {
		mid := (low + high) / 2
		diff := PriceFromYield(mid, cfs, valuation, b.frequency) - dirtyPrice

		if math.Abs(diff) < cfg.YieldTolerance {
			log.Debug().
				Float64("yield", mid).
				Int("iterations", iter).
				Msg("yield solve converged")
			return mid, iter, nil
		}
		if diff > 0 {
			low = mid
		} else {
			high = mid
		}
	}

	return 0, cfg.MaxYieldIterations, fmt.Errorf(
		"bond.YieldToMaturity: no convergence after %d iterations in [%v, %v]: %w",
		cfg.MaxYieldIterations, cfg.YieldLowerBound, cfg.YieldUpperBound, ErrNoConvergence)
}

// Quote pairs a bond with the yield solved from its market quote. It
// replaces a lazily populated yield field on the bond itself: the bond stays
// immutable and the solved yield is an explicit derived result.
type Quote struct {
	Bond *Bond
	// Yield is the per-period compounding yield backing the clean quote.
	// It is a snapshot at the quote's valuation date, not revalidated
	// against later price changes.
	Yield float64
	// Iterations is the number of bisection steps taken.
	Iterations int
}

// FromQuote constructs a bond and back-solves the yield implied by a clean
// market price at the valuation date.
func FromQuote(cleanPrice float64, valuation time.Time, terms Terms) (Quote, error) {
	b, err := New(terms)
	if err != nil {
		return Quote{}, err
	}
	y, iters, err := b.solveYield(cleanPrice, valuation, false)
	if err != nil {
		return Quote{}, err
	}
	return Quote{Bond: b, Yield: y, Iterations: iters}, nil
}
