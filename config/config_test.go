package config_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/meenmo/fixedincome/config"
	"github.com/meenmo/fixedincome/dates"
)

func TestSetConfig_RoundTrip(t *testing.T) {
	orig := config.GetConfig()
	defer config.SetConfig(orig)

	custom := config.Config{
		YieldLowerBound:    -0.50,
		YieldUpperBound:    10.0,
		YieldTolerance:     1e-8,
		MaxYieldIterations: 200,
		DefaultBumpBP:      0.5,
	}
	config.SetConfig(custom)
	assert.Equal(t, custom, config.GetConfig())
}

func TestDefaultConfig_ReferenceValues(t *testing.T) {
	assert.InDelta(t, -0.10, config.DefaultConfig.YieldLowerBound, 1e-15)
	assert.InDelta(t, 5.0, config.DefaultConfig.YieldUpperBound, 1e-15)
	assert.InDelta(t, 1e-6, config.DefaultConfig.YieldTolerance, 1e-18)
	assert.Equal(t, 1000, config.DefaultConfig.MaxYieldIterations)
}

func TestReferencePillars(t *testing.T) {
	pillars := config.ReferencePillars()
	assert.Len(t, pillars, 3)
	assert.InDelta(t, 0.035, pillars[dates.MustParse("2026-01-01")], 1e-15)

	// Callers get their own copy.
	pillars[dates.MustParse("2026-01-01")] = 0.99
	assert.InDelta(t, 0.035, config.ReferencePillars()[dates.MustParse("2026-01-01")], 1e-15)
}

func TestSetLogger(t *testing.T) {
	defer config.SetLogger(zerolog.Nop())

	l := zerolog.New(zerolog.NewTestWriter(t))
	config.SetLogger(l)
	assert.Equal(t, l, config.Logger())
}
