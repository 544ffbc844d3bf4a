package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/dmitrymomot/donatekit/pkg/donation"
	"github.com/dmitrymomot/donatekit/pkg/validator"
)

// placeholderUnitAmount is the unit amount assigned to catalog prices. The
// real amount is always set through dynamic price data at checkout.
const placeholderUnitAmount = 100

// CheckoutSessionRequest describes a single donor checkout. It is built per
// user action, consumed once by CreateCheckoutSession, and never stored.
type CheckoutSessionRequest struct {
	Type        donation.Frequency `json:"type"`
	Amount      float64            `json:"amount"`
	ProjectSlug string             `json:"projectSlug"`
	ProjectName string             `json:"projectName"`
	SuccessURL  string             `json:"successUrl"`
	CancelURL   string             `json:"cancelUrl"`
	Currency    string             `json:"currency,omitempty"`
}

// Validate checks that the request is complete enough to send to the
// provider. Amount range checks against a widget config happen earlier, in
// donation.Config.CheckAmount.
func (r CheckoutSessionRequest) Validate() error {
	return validator.Apply(
		validator.InList("type", r.Type, []donation.Frequency{donation.FrequencyMonthly, donation.FrequencyAnnual}),
		validator.Positive("amount", r.Amount),
		validator.RequiredString("projectSlug", r.ProjectSlug),
		validator.RequiredString("projectName", r.ProjectName),
		validator.ValidURL("successUrl", r.SuccessURL),
		validator.ValidURL("cancelUrl", r.CancelURL),
	)
}

// ProductPrices holds the catalog price identifiers for a project's donation
// products.
type ProductPrices struct {
	MonthlyPriceID string
	AnnualPriceID  string
}

// Service exposes the server-side donation operations: checkout session
// creation, product provisioning, revenue aggregation, and webhook dispatch.
// All calls are request-scoped and synchronous; the service holds no mutable
// state between calls.
type Service struct {
	provider Provider
	handlers WebhookHandlers
	log      *slog.Logger
}

// ServiceOption configures optional Service settings.
type ServiceOption func(*Service)

// WithLogger sets the structured logger used for diagnostics. Upstream error
// causes are logged here and never surfaced to end users.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithWebhookHandlers registers the callbacks invoked by HandleWebhook.
func WithWebhookHandlers(handlers WebhookHandlers) ServiceOption {
	return func(s *Service) {
		s.handlers = handlers
	}
}

// NewService creates a Service backed by the given billing provider.
// Panics if provider is nil to fail fast during initialization.
func NewService(provider Provider, opts ...ServiceOption) *Service {
	if provider == nil {
		panic("billing: Provider is required")
	}

	s := &Service{
		provider: provider,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCheckoutSession creates a hosted checkout session for a donation.
// The line item is priced dynamically from the requested amount; the session
// carries project metadata so resulting subscriptions can be attributed
// without resolving line items.
func (s *Service) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = donation.DefaultCurrency
	}

	interval := IntervalMonth
	if req.Type == donation.FrequencyAnnual {
		interval = IntervalYear
	}

	session, err := s.provider.CreateCheckoutSession(ctx, SessionParams{
		ProductName:        productName(req.ProjectName, req.Type),
		ProductDescription: productDescription(req.ProjectName, req.Type),
		Currency:           currency,
		UnitAmount:         toMinorUnits(req.Amount),
		Interval:           interval,
		Quantity:           1,
		SuccessURL:         req.SuccessURL,
		CancelURL:          req.CancelURL,
		Metadata: map[string]string{
			MetadataProjectSlug: req.ProjectSlug,
			"donationType":      string(req.Type),
			"amount":            strconv.FormatFloat(req.Amount, 'f', -1, 64),
		},
	})
	if err != nil {
		s.log.ErrorContext(ctx, "checkout session creation failed",
			slog.String("project_slug", req.ProjectSlug), slog.Any("error", err))
		return nil, errors.Join(ErrCheckoutSessionFailed, err)
	}
	if session.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return session, nil
}

// EnsureProducts makes sure the two donation products and one recurring
// price each exist for a project, creating whatever is missing. The product
// identifiers are derived deterministically from the slug, so repeated calls
// are idempotent.
func (s *Service) EnsureProducts(ctx context.Context, projectSlug, projectName string) (*ProductPrices, error) {
	ids := donation.ProductIDsFor(projectSlug)

	monthlyPriceID, err := s.ensurePrice(ctx, ids.Monthly, projectName, donation.FrequencyMonthly, IntervalMonth)
	if err != nil {
		return nil, errors.Join(ErrProductSetupFailed, err)
	}

	annualPriceID, err := s.ensurePrice(ctx, ids.Annual, projectName, donation.FrequencyAnnual, IntervalYear)
	if err != nil {
		return nil, errors.Join(ErrProductSetupFailed, err)
	}

	return &ProductPrices{
		MonthlyPriceID: monthlyPriceID,
		AnnualPriceID:  annualPriceID,
	}, nil
}

func (s *Service) ensurePrice(ctx context.Context, productID, projectName string, freq donation.Frequency, interval Interval) (string, error) {
	product, err := s.provider.GetProduct(ctx, productID)
	switch {
	case errors.Is(err, ErrNotFound):
		product, err = s.provider.CreateProduct(ctx, ProductParams{
			ID:          productID,
			Name:        productName(projectName, freq),
			Description: productDescription(projectName, freq),
		})
		if err != nil {
			return "", fmt.Errorf("create product %s: %w", productID, err)
		}
	case err != nil:
		return "", fmt.Errorf("get product %s: %w", productID, err)
	}

	prices, err := s.provider.ListPrices(ctx, product.ID)
	if err != nil {
		return "", fmt.Errorf("list prices for %s: %w", product.ID, err)
	}
	for _, price := range prices {
		if price.Interval == interval {
			return price.ID, nil
		}
	}

	price, err := s.provider.CreatePrice(ctx, PriceParams{
		ProductID:  product.ID,
		Currency:   donation.DefaultCurrency,
		UnitAmount: placeholderUnitAmount,
		Interval:   interval,
	})
	if err != nil {
		return "", fmt.Errorf("create %s price for %s: %w", interval, product.ID, err)
	}
	return price.ID, nil
}

func productName(projectName string, freq donation.Frequency) string {
	if freq == donation.FrequencyAnnual {
		return projectName + " - Annual Support"
	}
	return projectName + " - Monthly Support"
}

func productDescription(projectName string, freq donation.Frequency) string {
	if freq == donation.FrequencyAnnual {
		return "Annual recurring donation to support " + projectName
	}
	return "Monthly recurring donation to support " + projectName
}

// toMinorUnits converts a major-unit amount to minor currency units.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
