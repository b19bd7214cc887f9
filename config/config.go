// Package config holds solver and risk parameters for the library.
// These were previously hardcoded magic numbers inside the pricing code.
package config

import (
	"time"

	"github.com/rs/zerolog"
)

// Config holds yield solver and curve bump parameters.
type Config struct {
	// YieldLowerBound is the low end of the bisection bracket for yield
	// solving. Deeply distressed instruments may need a wider bracket.
	YieldLowerBound float64

	// YieldUpperBound is the high end of the bisection bracket.
	YieldUpperBound float64

	// YieldTolerance is the price tolerance for bisection convergence.
	YieldTolerance float64

	// MaxYieldIterations caps the bisection loop. Exhausting it surfaces
	// as a convergence error, never a silent result.
	MaxYieldIterations int

	// DefaultBumpBP is the parallel shift, in basis points, used for DV01
	// when the caller does not specify one.
	DefaultBumpBP float64
}

// DefaultConfig provides the reference parameter values.
var DefaultConfig = Config{
	YieldLowerBound:    -0.10,
	YieldUpperBound:    5.0,
	YieldTolerance:     1e-6,
	MaxYieldIterations: 1000,
	DefaultBumpBP:      1.0,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}

// logger is the library-wide diagnostic logger. Discards by default; set it
// to receive solver and bump traces at debug level.
var logger = zerolog.Nop()

// SetLogger replaces the library logger.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the active library logger.
func Logger() zerolog.Logger {
	return logger
}

// ReferencePillars returns the demo zero-rate pillar table. It exists so
// convenience callers can build a fallback curve explicitly; nothing in the
// pricing code reaches for it on its own.
func ReferencePillars() map[time.Time]float64 {
	return map[time.Time]float64{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC): 0.03,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC): 0.035,
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC): 0.04,
	}
}
