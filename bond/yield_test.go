package bond_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fixedincome/bond"
	"github.com/meenmo/fixedincome/dates"
)

func TestPriceFromYield_ZeroYieldSumsAmounts(t *testing.T) {
	t.Parallel()

	b := threeYearSemi(t)
	valuation := dates.MustParse("2025-01-01")
	cfs, err := b.Cashflows(valuation)
	require.NoError(t, err)

	got := bond.PriceFromYield(0.0, cfs, valuation, b.Frequency())
	assert.InDelta(t, 2.5*4+100.0, got, 1e-12)
}

func TestPriceFromYield_DecreasingInYield(t *testing.T) {
	t.Parallel()

	b := threeYearSemi(t)
	valuation := dates.MustParse("2025-01-01")
	cfs, err := b.Cashflows(valuation)
	require.NoError(t, err)

	prev := bond.PriceFromYield(-0.05, cfs, valuation, b.Frequency())
	for _, y := range []float64{0.0, 0.02, 0.05, 0.10, 0.50, 2.0} {
		got := bond.PriceFromYield(y, cfs, valuation, b.Frequency())
		assert.Less(t, got, prev, "price not decreasing at y=%v", y)
		prev = got
	}
}

func TestPriceFromYield_UndefinedBaseDiscountsToZero(t *testing.T) {
	t.Parallel()

	b := threeYearSemi(t)
	valuation := dates.MustParse("2025-01-01")
	cfs, err := b.Cashflows(valuation)
	require.NoError(t, err)

	// y/frequency <= -1 makes the discount base non-positive; every flow's
	// discount factor degrades to 0 instead of NaN.
	got := bond.PriceFromYield(-2.5, cfs, valuation, b.Frequency())
	assert.Zero(t, got)
}

func TestYieldToMaturity_RoundTrip(t *testing.T) {
	t.Parallel()

	b := threeYearSemi(t)
	valuation := dates.MustParse("2025-01-01")
	cfs, err := b.Cashflows(valuation)
	require.NoError(t, err)

	for _, want := range []float64{-0.05, 0.0, 0.015, 0.04, 0.10, 0.20} {
		dirty := bond.PriceFromYield(want, cfs, valuation, b.Frequency())
		got, err := b.YieldToMaturity(dirty, valuation, true)
		require.NoError(t, err, "y=%v", want)
		assert.InDelta(t, want, got, 1e-4, "y=%v", want)
	}
}

func TestYieldToMaturity_CleanPriceGrossesUpAccrued(t *testing.T) {
	t.Parallel()

	b := threeYearSemi(t)
	valuation := dates.MustParse("2024-10-01") // mid-period, accrued 1.25
	cfs, err := b.Cashflows(valuation)
	require.NoError(t, err)

	const want = 0.045
	dirty := bond.PriceFromYield(want, cfs, valuation, b.Frequency())
	clean := dirty - b.Accrued(valuation)

	got, err := b.YieldToMaturity(clean, valuation, false)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-4)
}

func TestYieldToMaturity_NoConvergenceOutsideBracket(t *testing.T) {
	t.Parallel()

	b := threeYearSemi(t)
	// No yield in [-0.10, 5.0] reprices a 3y 5% bond to 1000.
	_, err := b.YieldToMaturity(1000.0, dates.MustParse("2025-01-01"), true)
	require.ErrorIs(t, err, bond.ErrNoConvergence)
}

func TestFromQuote(t *testing.T) {
	t.Parallel()

	terms := bond.Terms{
		IssueDate:    dates.MustParse("2024-01-01"),
		MaturityDate: dates.MustParse("2027-01-01"),
		CouponRate:   0.05,
		Frequency:    2,
	}
	valuation := dates.MustParse("2025-01-01")

	b, err := bond.New(terms)
	require.NoError(t, err)
	cfs, err := b.Cashflows(valuation)
	require.NoError(t, err)

	const want = 0.06
	dirty := bond.PriceFromYield(want, cfs, valuation, b.Frequency())
	clean := dirty - b.Accrued(valuation)

	q, err := bond.FromQuote(clean, valuation, terms)
	require.NoError(t, err)
	require.NotNil(t, q.Bond)
	assert.InDelta(t, want, q.Yield, 1e-4)
	assert.Positive(t, q.Iterations)
}

func TestFromQuote_InvalidTerms(t *testing.T) {
	t.Parallel()

	_, err := bond.FromQuote(99.0, dates.MustParse("2025-01-01"), bond.Terms{
		IssueDate:    dates.MustParse("2027-01-01"),
		MaturityDate: dates.MustParse("2024-01-01"),
		CouponRate:   0.05,
		Frequency:    2,
	})
	require.ErrorIs(t, err, bond.ErrValidation)
}
