package donation

import (
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/donatekit/pkg/billing"
	"github.com/dmitrymomot/donatekit/pkg/donation"
)

// RouterOptions configures the donation module router.
type RouterOptions struct {
	// Config is the widget configuration. It is validated at mount time so a
	// misconfigured module fails at startup, not on the first request.
	Config donation.Config
	// Service performs the billing operations. Required.
	Service *billing.Service
	// BaseURL is the host application's public base URL, used to derive
	// default success and cancel redirect URLs.
	BaseURL string
	// Logger receives request diagnostics. Optional.
	Logger *slog.Logger
}

// Router creates the donation module router exposing the checkout, stats and
// webhook endpoints.
//
// Example:
//
//	cfg := donation.Config{ProjectName: "Acme", ProjectSlug: "acme", ...}
//	svc := billing.NewService(provider)
//
//	donations, err := donationmodule.Router(donationmodule.RouterOptions{
//	    Config:  cfg,
//	    Service: svc,
//	    BaseURL: "https://example.com",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/donation", donations)
func Router(opts RouterOptions) (chi.Router, error) {
	if opts.Service == nil {
		panic("donation: Service is required")
	}

	cfg, err := donation.Validate(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("invalid donation config: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	h := &handler{
		config:  cfg,
		service: opts.Service,
		baseURL: opts.BaseURL,
		log:     log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/create-checkout-session", h.createCheckoutSession)
	r.Get("/stats", h.stats)
	r.Post("/webhook", h.webhook)

	return r, nil
}
