package billing

import (
	"context"
	"encoding/json"
)

// Provider defines the minimal interface to the external billing API.
// The abstraction keeps the aggregation and checkout logic testable against
// a synthetic collaborator and avoids coupling callers to a specific SDK.
// Implementations should use the official provider SDK and handle
// provider-specific quirks internally.
type Provider interface {
	// ListActiveSubscriptions returns every active subscription, paging
	// through the full set. Implementations must not cap the listing at a
	// fixed page size.
	ListActiveSubscriptions(ctx context.Context) ([]Subscription, error)

	// GetPrice retrieves a billing price by identifier.
	GetPrice(ctx context.Context, id string) (*Price, error)

	// GetProduct retrieves a product by identifier. Returns an error
	// matching ErrNotFound when the product does not exist.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// ListPrices returns the active prices attached to a product.
	ListPrices(ctx context.Context, productID string) ([]Price, error)

	// CreateProduct creates a product with a caller-chosen identifier.
	CreateProduct(ctx context.Context, params ProductParams) (*Product, error)

	// CreatePrice creates a recurring price for a product.
	CreatePrice(ctx context.Context, params PriceParams) (*Price, error)

	// CreateCheckoutSession creates a hosted subscription checkout session
	// with a single dynamically priced line item.
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*CheckoutSession, error)

	// ParseWebhook verifies a webhook payload against the shared secret and
	// decodes it into a normalized event. Must reject spoofed signatures.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error)
}

// Interval represents a recurring billing interval. Intervals other than
// month and year are passed through unchanged and ignored by the aggregator.
type Interval string

const (
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// MetadataProjectSlug is the subscription metadata key carrying the owning
// project's slug. Set on checkout sessions so the aggregator can attribute
// subscriptions without resolving line items.
const MetadataProjectSlug = "projectSlug"

// Subscription is a normalized active subscription.
type Subscription struct {
	ID       string
	Status   string
	Metadata map[string]string
	Items    []SubscriptionItem
}

// SubscriptionItem is a single line item on a subscription.
type SubscriptionItem struct {
	PriceID  string
	Quantity int64
}

// Price is a normalized billing price. UnitAmount is in minor currency units
// (cents for USD).
type Price struct {
	ID         string
	ProductID  string
	Currency   string
	UnitAmount int64
	Interval   Interval
}

// Product is a normalized billing product.
type Product struct {
	ID          string
	Name        string
	Description string
}

// CheckoutSession represents a hosted checkout session.
type CheckoutSession struct {
	ID  string
	URL string
}

// ProductParams contains data needed to create a product.
type ProductParams struct {
	ID          string
	Name        string
	Description string
}

// PriceParams contains data needed to create a recurring price.
type PriceParams struct {
	ProductID  string
	Currency   string
	UnitAmount int64
	Interval   Interval
}

// SessionParams contains data needed to create a checkout session. The line
// item is priced dynamically; no pre-created price is referenced.
type SessionParams struct {
	ProductName        string
	ProductDescription string
	Currency           string
	UnitAmount         int64
	Interval           Interval
	Quantity           int64
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
}

// Event represents a normalized, signature-verified webhook event.
type Event struct {
	Type          EventType       // Normalized event type
	ProviderEvent string          // Original provider event name
	Raw           json.RawMessage // Raw event object payload
}

// EventType represents the normalized billing event type. Provider
// implementations map their specific event names to these types; unmapped
// events keep the provider name and are ignored by the dispatcher.
type EventType string

const (
	EventSubscriptionCreated EventType = "subscription_created"
	EventSubscriptionUpdated EventType = "subscription_updated"
	EventSubscriptionDeleted EventType = "subscription_deleted"
	EventPaymentSucceeded    EventType = "payment_succeeded"
)
