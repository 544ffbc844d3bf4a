// Package donation defines the donation widget configuration and the pure
// helpers derived from it.
//
// A caller-supplied Config passes through Validate, which collects all
// constraint violations and returns a fully defaulted, normalized copy. The
// validated config then drives checkout session creation and revenue
// aggregation (see the billing package). Everything in this package is pure:
// no I/O, no ambient state, no persistence - configs are recomputed per
// request.
//
// Usage:
//
//	cfg, err := donation.Validate(donation.Config{
//		PublishableKey: "pk_live_...",
//		ProjectName:    "Acme",
//		ProjectSlug:    "acme",
//		Monthly:        donation.AmountOptions{Suggested: 10},
//		Annual:         donation.AmountOptions{Suggested: 100},
//	})
//	if err != nil {
//		// err is a validator.ValidationErrors with field-level messages
//	}
//	if err := cfg.CheckAmount(donation.FrequencyMonthly, 5); err != nil {
//		// amount outside the effective bounds
//	}
package donation
