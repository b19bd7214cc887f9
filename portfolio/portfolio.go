// Package portfolio aggregates priced instruments: signed present value and
// parallel-bump curve sensitivity (DV01).
package portfolio

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/fixedincome/config"
	"github.com/meenmo/fixedincome/curve"
)

// ErrPortfolio reports an empty portfolio, a malformed position, or an
// invalid bump size.
var ErrPortfolio = errors.New("portfolio operation failed")

// Instrument is anything that can price itself off a discount curve at a
// valuation date. *bond.Bond satisfies it with its clean price.
type Instrument interface {
	Price(disc curve.Discounter, valuation time.Time) (float64, error)
}

// Side determines the sign of a position's quantity.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// Position holds an instrument with a quantity and a side. An empty side
// means Long.
type Position struct {
	Instrument Instrument
	Quantity   float64
	Side       Side
}

// SignedQuantity returns the quantity signed by side: positive for LONG,
// negative for SHORT (case-insensitive). Any other side, or a non-finite
// quantity, is an error.
func (p Position) SignedQuantity() (float64, error) {
	if math.IsNaN(p.Quantity) || math.IsInf(p.Quantity, 0) {
		return 0, fmt.Errorf("position quantity %v must be finite: %w", p.Quantity, ErrPortfolio)
	}
	switch strings.ToUpper(string(p.Side)) {
	case "", string(Long):
		return p.Quantity, nil
	case string(Short):
		return -p.Quantity, nil
	default:
		return 0, fmt.Errorf("position side %q must be LONG or SHORT: %w", p.Side, ErrPortfolio)
	}
}

// Portfolio is a stateless aggregator over an ordered, non-empty set of
// positions.
type Portfolio struct {
	positions []Position
	log       zerolog.Logger
}

// Option configures a Portfolio.
type Option func(*Portfolio)

// WithLogger injects a diagnostic logger; the library logger is used
// otherwise.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Portfolio) { p.log = l }
}

// New validates the positions and builds a portfolio.
func New(positions []Position, opts ...Option) (*Portfolio, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("portfolio.New: portfolio cannot be empty: %w", ErrPortfolio)
	}
	for i, pos := range positions {
		if pos.Instrument == nil {
			return nil, fmt.Errorf("portfolio.New: position %d has no instrument: %w", i, ErrPortfolio)
		}
		if _, err := pos.SignedQuantity(); err != nil {
			return nil, fmt.Errorf("portfolio.New: position %d: %w", i, err)
		}
	}

	p := &Portfolio{
		positions: append([]Position(nil), positions...),
		log:       config.Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Positions returns the portfolio's positions as a copy.
func (p *Portfolio) Positions() []Position {
	return append([]Position(nil), p.positions...)
}

// PV returns the quantity-weighted sum of instrument prices. It is linear
// in position quantities; flipping a side negates that contribution.
func (p *Portfolio) PV(disc curve.Discounter, valuation time.Time) (float64, error) {
	contributions := make([]float64, len(p.positions))
	for i, pos := range p.positions {
		q, err := pos.SignedQuantity()
		if err != nil {
			return 0, fmt.Errorf("portfolio.PV: position %d: %w", i, err)
		}
		px, err := pos.Instrument.Price(disc, valuation)
		if err != nil {
			return 0, fmt.Errorf("portfolio.PV: position %d: %w", i, err)
		}
		contributions[i] = px * q
	}
	return floats.Sum(contributions), nil
}

// ByInstrumentType returns each instrument type's signed contribution to
// the portfolio value, keyed by type name.
func (p *Portfolio) ByInstrumentType(disc curve.Discounter, valuation time.Time) (map[string]float64, error) {
	out := make(map[string]float64)
	for i, pos := range p.positions {
		q, err := pos.SignedQuantity()
		if err != nil {
			return nil, fmt.Errorf("portfolio.ByInstrumentType: position %d: %w", i, err)
		}
		px, err := pos.Instrument.Price(disc, valuation)
		if err != nil {
			return nil, fmt.Errorf("portfolio.ByInstrumentType: position %d: %w", i, err)
		}
		out[typeName(pos.Instrument)] += px * q
	}
	return out, nil
}

// DV01 returns the portfolio's sensitivity to a parallel drop in zero
// rates: the symmetric finite difference (pv(down) - pv(up)) / (2*delta),
// with delta = bumpBP basis points, through the curve's Bump capability.
// A zero bumpBP uses the configured default; a negative or non-finite one
// is an error.
func (p *Portfolio) DV01(ts curve.TermStructure, valuation time.Time, bumpBP float64) (float64, error) {
	if ts == nil {
		return 0, fmt.Errorf("portfolio.DV01: a term structure is required: %w", ErrPortfolio)
	}
	if bumpBP == 0 {
		bumpBP = config.GetConfig().DefaultBumpBP
	}
	if math.IsNaN(bumpBP) || math.IsInf(bumpBP, 0) || bumpBP <= 0 {
		return 0, fmt.Errorf("portfolio.DV01: bump %v bp must be positive: %w", bumpBP, ErrPortfolio)
	}

	bump := bumpBP * 1e-4
	up, err := ts.Bump(bump)
	if err != nil {
		return 0, fmt.Errorf("portfolio.DV01: %w", err)
	}
	down, err := ts.Bump(-bump)
	if err != nil {
		return 0, fmt.Errorf("portfolio.DV01: %w", err)
	}

	pvUp, err := p.PV(up, valuation)
	if err != nil {
		return 0, err
	}
	pvDown, err := p.PV(down, valuation)
	if err != nil {
		return 0, err
	}

	dv01 := (pvDown - pvUp) / (2 * bump)
	p.log.Debug().
		Float64("bump_bp", bumpBP).
		Float64("pv_up", pvUp).
		Float64("pv_down", pvDown).
		Float64("dv01", dv01).
		Msg("portfolio dv01")
	return dv01, nil
}

func typeName(inst Instrument) string {
	name := fmt.Sprintf("%T", inst)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
