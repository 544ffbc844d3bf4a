package donation

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMinAmount derives the minimum donation amount when none is
// configured: half the suggested amount, rounded, with a floor of 1.
func DefaultMinAmount(suggested float64) float64 {
	return math.Max(1, math.Round(suggested*0.5))
}

// DefaultMaxAmount derives the maximum donation amount when none is
// configured: ten times the suggested amount.
func DefaultMaxAmount(suggested float64) float64 {
	return suggested * 10
}

// EffectiveMin returns the configured minimum or the derived default.
func (o AmountOptions) EffectiveMin() float64 {
	if o.Min != nil {
		return *o.Min
	}
	return DefaultMinAmount(o.Suggested)
}

// EffectiveMax returns the configured maximum or the derived default.
func (o AmountOptions) EffectiveMax() float64 {
	if o.Max != nil {
		return *o.Max
	}
	return DefaultMaxAmount(o.Suggested)
}

// CheckAmount reports whether a requested donation amount falls inside the
// effective bounds for the given frequency. It must be called before any
// checkout request leaves the process; a violation returns an error matching
// ErrAmountOutOfRange.
func (c Config) CheckAmount(freq Frequency, amount float64) error {
	opts := c.Amounts(freq)
	min, max := opts.EffectiveMin(), opts.EffectiveMax()
	if amount < min || amount > max {
		return errors.Join(ErrAmountOutOfRange,
			fmt.Errorf("%s amount %.2f is outside the allowed range %.2f-%.2f", freq, amount, min, max))
	}
	return nil
}
