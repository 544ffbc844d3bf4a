package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/donatekit/pkg/donation"
)

// SubscriptionSummary is the aggregated revenue picture for one project,
// derived fresh on every call and never cached.
type SubscriptionSummary struct {
	// MonthlyRevenue is the total from monthly subscriptions, in major
	// currency units.
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	// AnnualRevenue is the total from annual subscriptions.
	AnnualRevenue float64 `json:"annualRevenue"`
	// MonthlyEquivalent is AnnualRevenue spread over twelve months.
	MonthlyEquivalent float64 `json:"monthlyEquivalent"`
	// TotalMRR is MonthlyRevenue plus MonthlyEquivalent.
	TotalMRR     float64 `json:"totalMRR"`
	MonthlyCount int     `json:"monthlyCount"`
	AnnualCount  int     `json:"annualCount"`
}

// Summarize retrieves all active subscriptions from the billing provider,
// keeps those belonging to the project, and computes revenue totals per
// billing interval plus the normalized monthly recurring revenue.
//
// Ownership is decided per subscription: an explicit project slug in the
// subscription metadata wins; otherwise each line item is resolved to its
// price and product and matched against the project's derived product
// identifiers. A failed lookup during that fallback probe skips the item
// rather than failing the summary, so one bad line item cannot sink the
// whole aggregation. A failed price resolution while accumulating revenue of
// a subscription already known to match aborts with ErrAggregationFailed -
// partial totals are never returned.
//
// Intervals other than month and year are ignored: not counted, not an
// error. Price lookups are cached for the duration of a single call only.
func (s *Service) Summarize(ctx context.Context, projectSlug string) (*SubscriptionSummary, error) {
	subs, err := s.provider.ListActiveSubscriptions(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "subscription listing failed",
			slog.String("project_slug", projectSlug), slog.Any("error", err))
		return nil, errors.Join(ErrAggregationFailed, err)
	}

	ids := donation.ProductIDsFor(projectSlug)
	prices := newPriceCache(s.provider)

	var summary SubscriptionSummary
	for _, sub := range subs {
		if !s.belongsToProject(ctx, sub, projectSlug, ids, prices) {
			continue
		}

		for _, item := range sub.Items {
			price, err := prices.get(ctx, item.PriceID)
			if err != nil {
				return nil, errors.Join(ErrAggregationFailed,
					fmt.Errorf("resolve price %s on subscription %s: %w", item.PriceID, sub.ID, err))
			}

			quantity := item.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			total := float64(price.UnitAmount) / 100 * float64(quantity)

			switch price.Interval {
			case IntervalMonth:
				summary.MonthlyRevenue += total
				summary.MonthlyCount++
			case IntervalYear:
				summary.AnnualRevenue += total
				summary.AnnualCount++
			}
		}
	}

	summary.MonthlyEquivalent = summary.AnnualRevenue / 12
	summary.TotalMRR = summary.MonthlyRevenue + summary.MonthlyEquivalent

	return &summary, nil
}

// belongsToProject prefers the explicit metadata tag and falls back to
// resolving line items to products. Lookup failures during the fallback are
// logged and skipped: the probe is best-effort by design.
func (s *Service) belongsToProject(ctx context.Context, sub Subscription, projectSlug string, ids donation.ProductIDs, prices *priceCache) bool {
	if sub.Metadata[MetadataProjectSlug] == projectSlug {
		return true
	}

	for _, item := range sub.Items {
		price, err := prices.get(ctx, item.PriceID)
		if err != nil {
			s.log.WarnContext(ctx, "ownership probe skipped line item",
				slog.String("subscription_id", sub.ID),
				slog.String("price_id", item.PriceID),
				slog.Any("error", err))
			continue
		}

		product, err := s.provider.GetProduct(ctx, price.ProductID)
		if err != nil {
			s.log.WarnContext(ctx, "ownership probe skipped line item",
				slog.String("subscription_id", sub.ID),
				slog.String("product_id", price.ProductID),
				slog.Any("error", err))
			continue
		}

		if ids.Contains(product.ID) {
			return true
		}
	}

	return false
}

// priceCache memoizes price lookups within a single aggregation call.
// Prices are treated as freshly authoritative on every call, so the cache
// never outlives one Summarize invocation.
type priceCache struct {
	provider Provider
	byID     map[string]*Price
}

func newPriceCache(provider Provider) *priceCache {
	return &priceCache{
		provider: provider,
		byID:     make(map[string]*Price),
	}
}

func (c *priceCache) get(ctx context.Context, id string) (*Price, error) {
	if price, ok := c.byID[id]; ok {
		return price, nil
	}
	price, err := c.provider.GetPrice(ctx, id)
	if err != nil {
		return nil, err
	}
	c.byID[id] = price
	return price, nil
}
