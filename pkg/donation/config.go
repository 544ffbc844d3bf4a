package donation

// Frequency represents a donation billing frequency.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyAnnual  Frequency = "annual"
)

// Theme represents the widget color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// AmountOptions describes the suggested and allowed amounts for one frequency.
// Min and Max are optional; when absent the effective bounds are derived from
// the suggested amount (see DefaultMinAmount and DefaultMaxAmount).
type AmountOptions struct {
	Suggested float64  `json:"suggested"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// Goal describes a fundraising goal displayed by the widget.
type Goal struct {
	// Target is the monthly recurring revenue target.
	Target float64 `json:"target"`
	// Current is the current progress toward the target. When
	// CalculateFromSubscriptions is set it is overridden by live MRR.
	Current      float64 `json:"current"`
	ShowProgress *bool   `json:"showProgress,omitempty"`
	Description  string  `json:"description,omitempty"`
	// CalculateFromSubscriptions derives Current from active subscriptions
	// instead of the configured value.
	CalculateFromSubscriptions bool `json:"calculateFromSubscriptions"`
}

// Progress returns the percentage of the goal reached by current, capped at 100.
// Returns 0 when the goal target is not positive.
func (g Goal) Progress(current float64) float64 {
	if g.Target <= 0 {
		return 0
	}
	pct := current / g.Target * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// Config is the donation widget configuration. A Config is valid only after
// it has passed through Validate, which applies defaults and rejects invalid
// combinations. Validated configs are treated as immutable.
type Config struct {
	// PublishableKey is the client-side payment provider credential. Opaque
	// to this package.
	PublishableKey string `json:"publishableKey"`
	ProjectName    string `json:"projectName"`
	// ProjectSlug is a stable external identifier (lowercase letters, digits,
	// hyphens). Product identifiers are derived from it and must never change
	// for a given project.
	ProjectSlug string        `json:"projectSlug"`
	Monthly     AmountOptions `json:"monthly"`
	Annual      AmountOptions `json:"annual"`
	Goal        *Goal         `json:"goal,omitempty"`
	Theme       Theme         `json:"theme,omitempty"`
	// CustomAmounts allows donors to enter amounts other than the suggested
	// one. Defaults to true.
	CustomAmounts *bool  `json:"customAmounts,omitempty"`
	Currency      string `json:"currency,omitempty"`
	SuccessURL    string `json:"successUrl,omitempty"`
	CancelURL     string `json:"cancelUrl,omitempty"`
}

// Amounts returns the amount options for the given frequency.
func (c Config) Amounts(freq Frequency) AmountOptions {
	if freq == FrequencyAnnual {
		return c.Annual
	}
	return c.Monthly
}
