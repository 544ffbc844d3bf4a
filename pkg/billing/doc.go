// Package billing provides the server-side donation operations backed by an
// external billing API: hosted checkout session creation, idempotent product
// provisioning, webhook verification with typed event dispatch, and a
// revenue aggregator that reconciles active subscriptions into a monthly
// recurring revenue summary.
//
// The billing API is abstracted behind the Provider interface so the
// aggregation and checkout logic stay testable against a synthetic
// collaborator. StripeProvider is the production implementation.
//
// Every operation is request-scoped and synchronous: nothing is cached
// across calls, nothing is retried, and failures surface to the immediate
// caller. The only silent skips are unrecognized webhook event types and
// failed per-line-item ownership probes during aggregation.
//
// Usage:
//
//	provider, err := billing.NewStripeProvider(billing.StripeConfig{
//		SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
//		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	svc := billing.NewService(provider,
//		billing.WithLogger(logger),
//		billing.WithWebhookHandlers(billing.WebhookHandlers{
//			SubscriptionCreated: func(ctx context.Context, event *billing.Event) error {
//				// react to new donors
//				return nil
//			},
//		}),
//	)
//
//	summary, err := svc.Summarize(ctx, "acme")
package billing
