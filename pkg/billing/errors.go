package billing

import "errors"

var (
	ErrNotFound = errors.New("billing resource not found")

	// Provider configuration errors
	ErrMissingSecretKey     = errors.New("billing provider secret key is required")
	ErrMissingWebhookSecret = errors.New("billing provider webhook secret is required")

	// Checkout errors
	ErrCheckoutSessionFailed = errors.New("failed to create checkout session")
	ErrNoCheckoutURL         = errors.New("no checkout URL returned from provider")
	ErrProductSetupFailed    = errors.New("failed to ensure donation products")

	// Aggregation and webhook errors
	ErrAggregationFailed = errors.New("failed to aggregate subscription revenue")
	ErrWebhookSignature  = errors.New("webhook signature verification failed")
)
