package donation

import (
	"strings"

	"github.com/dmitrymomot/donatekit/pkg/validator"
)

const slugPattern = `^[a-z0-9-]+$`

// DefaultCurrency is applied when no currency is configured.
const DefaultCurrency = "usd"

// Validate checks a raw configuration against all constraints and returns a
// normalized copy with defaults applied. All violations are collected into a
// single validator.ValidationErrors value rather than failing on the first.
//
// Validate is idempotent: validating an already validated config returns an
// identical config.
func Validate(cfg Config) (Config, error) {
	rules := []validator.Rule{
		validator.RequiredString("publishableKey", cfg.PublishableKey),
		validator.RequiredString("projectName", cfg.ProjectName),
		validator.RequiredString("projectSlug", cfg.ProjectSlug),
		validator.MatchesRegex("projectSlug", cfg.ProjectSlug, slugPattern, "slug"),
	}
	rules = append(rules, amountRules("monthly", cfg.Monthly)...)
	rules = append(rules, amountRules("annual", cfg.Annual)...)

	if cfg.Goal != nil {
		rules = append(rules,
			validator.Positive("goal.target", cfg.Goal.Target),
			validator.NonNegative("goal.current", cfg.Goal.Current),
		)
	}
	if cfg.Currency != "" {
		rules = append(rules, validator.LenString("currency", cfg.Currency, 3))
	}
	if cfg.Theme != "" {
		rules = append(rules, validator.InList("theme", cfg.Theme, []Theme{ThemeLight, ThemeDark, ThemeAuto}))
	}
	if cfg.SuccessURL != "" {
		rules = append(rules, validator.ValidURL("successUrl", cfg.SuccessURL))
	}
	if cfg.CancelURL != "" {
		rules = append(rules, validator.ValidURL("cancelUrl", cfg.CancelURL))
	}

	if err := validator.Apply(rules...); err != nil {
		return Config{}, err
	}

	return normalize(cfg), nil
}

func amountRules(prefix string, opts AmountOptions) []validator.Rule {
	rules := []validator.Rule{
		validator.Positive(prefix+".suggested", opts.Suggested),
	}
	if opts.Min != nil {
		rules = append(rules, validator.NonNegative(prefix+".min", *opts.Min))
	}
	if opts.Max != nil {
		rules = append(rules, validator.Positive(prefix+".max", *opts.Max))
	}
	if opts.Min != nil && opts.Max != nil {
		rules = append(rules, validator.MinNum(prefix+".max", *opts.Max, *opts.Min))
	}
	return rules
}

// normalize applies defaults to a config that passed all rules.
func normalize(cfg Config) Config {
	if cfg.Theme == "" {
		cfg.Theme = ThemeAuto
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	} else {
		cfg.Currency = strings.ToLower(cfg.Currency)
	}
	if cfg.CustomAmounts == nil {
		cfg.CustomAmounts = boolPtr(true)
	}
	if cfg.Goal != nil {
		goal := *cfg.Goal
		if goal.ShowProgress == nil {
			goal.ShowProgress = boolPtr(true)
		}
		cfg.Goal = &goal
	}
	return cfg
}

func boolPtr(b bool) *bool { return &b }
