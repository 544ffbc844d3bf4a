package billing

import (
	"context"
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeConfig holds configuration for the Stripe billing provider.
type StripeConfig struct {
	SecretKey      string `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret  string `env:"STRIPE_WEBHOOK_SECRET,required"`
	PublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
}

// StripeProvider implements Provider on the official Stripe SDK.
type StripeProvider struct {
	client *stripe.Client
	config StripeConfig
}

// NewStripeProvider creates a new Stripe billing provider.
func NewStripeProvider(config StripeConfig) (*StripeProvider, error) {
	if config.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	if config.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	return &StripeProvider{
		client: stripe.NewClient(config.SecretKey),
		config: config,
	}, nil
}

// ListActiveSubscriptions pages through every active subscription. The SDK
// iterator fetches pages lazily, so the full set is returned regardless of
// how many subscriptions exist.
func (p *StripeProvider) ListActiveSubscriptions(ctx context.Context) ([]Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Status: stripe.String(string(stripe.SubscriptionStatusActive)),
	}

	var subs []Subscription
	for sub, err := range p.client.V1Subscriptions.List(ctx, params) {
		if err != nil {
			return nil, err
		}
		subs = append(subs, toSubscription(sub))
	}
	return subs, nil
}

// GetPrice retrieves a billing price by identifier.
func (p *StripeProvider) GetPrice(ctx context.Context, id string) (*Price, error) {
	price, err := p.client.V1Prices.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, wrapStripeNotFound(err)
	}
	return toPrice(price), nil
}

// GetProduct retrieves a product by identifier.
func (p *StripeProvider) GetProduct(ctx context.Context, id string) (*Product, error) {
	product, err := p.client.V1Products.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, wrapStripeNotFound(err)
	}
	return toProduct(product), nil
}

// ListPrices returns the active prices attached to a product.
func (p *StripeProvider) ListPrices(ctx context.Context, productID string) ([]Price, error) {
	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}

	var prices []Price
	for price, err := range p.client.V1Prices.List(ctx, params) {
		if err != nil {
			return nil, err
		}
		prices = append(prices, *toPrice(price))
	}
	return prices, nil
}

// CreateProduct creates a product with a caller-chosen identifier so that
// repeated provisioning for the same project slug stays idempotent.
func (p *StripeProvider) CreateProduct(ctx context.Context, params ProductParams) (*Product, error) {
	product, err := p.client.V1Products.Create(ctx, &stripe.ProductCreateParams{
		ID:          stripe.String(params.ID),
		Name:        stripe.String(params.Name),
		Description: stripe.String(params.Description),
	})
	if err != nil {
		return nil, err
	}
	return toProduct(product), nil
}

// CreatePrice creates a recurring price for a product.
func (p *StripeProvider) CreatePrice(ctx context.Context, params PriceParams) (*Price, error) {
	price, err := p.client.V1Prices.Create(ctx, &stripe.PriceCreateParams{
		Product:    stripe.String(params.ProductID),
		Currency:   stripe.String(params.Currency),
		UnitAmount: stripe.Int64(params.UnitAmount),
		Recurring: &stripe.PriceCreateRecurringParams{
			Interval: stripe.String(string(params.Interval)),
		},
	})
	if err != nil {
		return nil, err
	}
	return toPrice(price), nil
}

// CreateCheckoutSession creates a subscription-mode checkout session with a
// single dynamically priced line item.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params SessionParams) (*CheckoutSession, error) {
	session, err := p.client.V1CheckoutSessions.Create(ctx, &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency: stripe.String(params.Currency),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:        stripe.String(params.ProductName),
						Description: stripe.String(params.ProductDescription),
					},
					UnitAmount: stripe.Int64(params.UnitAmount),
					Recurring: &stripe.CheckoutSessionCreateLineItemPriceDataRecurringParams{
						Interval: stripe.String(string(params.Interval)),
					},
				},
				Quantity: stripe.Int64(params.Quantity),
			},
		},
		Metadata: params.Metadata,
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// ParseWebhook verifies the payload signature against the webhook secret and
// decodes the event into the normalized shape.
func (p *StripeProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.config.WebhookSecret)
	if err != nil {
		return nil, err
	}

	return &Event{
		Type:          mapStripeEventType(string(event.Type)),
		ProviderEvent: string(event.Type),
		Raw:           event.Data.Raw,
	}, nil
}

func toSubscription(sub *stripe.Subscription) Subscription {
	out := Subscription{
		ID:       sub.ID,
		Status:   string(sub.Status),
		Metadata: sub.Metadata,
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			out.Items = append(out.Items, SubscriptionItem{
				PriceID:  item.Price.ID,
				Quantity: item.Quantity,
			})
		}
	}
	return out
}

func toPrice(price *stripe.Price) *Price {
	out := &Price{
		ID:         price.ID,
		Currency:   string(price.Currency),
		UnitAmount: price.UnitAmount,
	}
	if price.Product != nil {
		out.ProductID = price.Product.ID
	}
	if price.Recurring != nil {
		out.Interval = Interval(price.Recurring.Interval)
	}
	return out
}

func toProduct(product *stripe.Product) *Product {
	return &Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
	}
}

// mapStripeEventType maps Stripe event names to internal EventType values.
func mapStripeEventType(stripeEvent string) EventType {
	switch stripeEvent {
	case "customer.subscription.created":
		return EventSubscriptionCreated
	case "customer.subscription.updated":
		return EventSubscriptionUpdated
	case "customer.subscription.deleted":
		return EventSubscriptionDeleted
	case "payment_intent.succeeded":
		return EventPaymentSucceeded
	default:
		// Pass the original event name through for unmapped events
		return EventType(stripeEvent)
	}
}

// wrapStripeNotFound translates Stripe's missing-resource error into
// ErrNotFound so callers can branch with errors.Is.
func wrapStripeNotFound(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound {
			return errors.Join(ErrNotFound, err)
		}
	}
	return err
}
