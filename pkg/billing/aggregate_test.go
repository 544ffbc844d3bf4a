package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/donatekit/pkg/billing"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("computes MRR from tagged subscriptions", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return([]billing.Subscription{
			{
				ID:       "sub_monthly",
				Status:   "active",
				Metadata: map[string]string{billing.MetadataProjectSlug: "acme"},
				Items:    []billing.SubscriptionItem{{PriceID: "price_m", Quantity: 1}},
			},
			{
				ID:       "sub_annual",
				Status:   "active",
				Metadata: map[string]string{billing.MetadataProjectSlug: "acme"},
				Items:    []billing.SubscriptionItem{{PriceID: "price_a", Quantity: 1}},
			},
		}, nil)
		provider.On("GetPrice", mock.Anything, "price_m").
			Return(&billing.Price{ID: "price_m", UnitAmount: 500, Interval: billing.IntervalMonth}, nil)
		provider.On("GetPrice", mock.Anything, "price_a").
			Return(&billing.Price{ID: "price_a", UnitAmount: 5000, Interval: billing.IntervalYear}, nil)

		svc := billing.NewService(provider)
		summary, err := svc.Summarize(context.Background(), "acme")
		require.NoError(t, err)

		assert.Equal(t, 5.0, summary.MonthlyRevenue)
		assert.Equal(t, 50.0, summary.AnnualRevenue)
		assert.InDelta(t, 4.1667, summary.MonthlyEquivalent, 0.0001)
		assert.InDelta(t, 9.1667, summary.TotalMRR, 0.0001)
		assert.Equal(t, 1, summary.MonthlyCount)
		assert.Equal(t, 1, summary.AnnualCount)
	})

	t.Run("excludes subscriptions of other projects", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return([]billing.Subscription{
			{
				ID:       "sub_other",
				Metadata: map[string]string{billing.MetadataProjectSlug: "other"},
				Items:    []billing.SubscriptionItem{{PriceID: "price_o", Quantity: 1}},
			},
		}, nil)
		provider.On("GetPrice", mock.Anything, "price_o").
			Return(&billing.Price{ID: "price_o", ProductID: "other-monthly-donation", UnitAmount: 900, Interval: billing.IntervalMonth}, nil)
		provider.On("GetProduct", mock.Anything, "other-monthly-donation").
			Return(&billing.Product{ID: "other-monthly-donation"}, nil)

		svc := billing.NewService(provider)
		summary, err := svc.Summarize(context.Background(), "acme")
		require.NoError(t, err)

		assert.Zero(t, summary.MonthlyRevenue)
		assert.Zero(t, summary.AnnualRevenue)
		assert.Zero(t, summary.TotalMRR)
		assert.Zero(t, summary.MonthlyCount)
		assert.Zero(t, summary.AnnualCount)
	})

	t.Run("resolves ownership through line items when metadata is missing", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return([]billing.Subscription{
			{
				ID:    "sub_untagged",
				Items: []billing.SubscriptionItem{{PriceID: "price_m", Quantity: 2}},
			},
		}, nil)
		provider.On("GetPrice", mock.Anything, "price_m").
			Return(&billing.Price{ID: "price_m", ProductID: "acme-monthly-donation", UnitAmount: 500, Interval: billing.IntervalMonth}, nil)
		provider.On("GetProduct", mock.Anything, "acme-monthly-donation").
			Return(&billing.Product{ID: "acme-monthly-donation"}, nil)

		svc := billing.NewService(provider)
		summary, err := svc.Summarize(context.Background(), "acme")
		require.NoError(t, err)

		// price lookups are cached within the call, so the fallback probe
		// and the revenue pass share one retrieval
		provider.AssertNumberOfCalls(t, "GetPrice", 1)
		assert.Equal(t, 10.0, summary.MonthlyRevenue)
		assert.Equal(t, 1, summary.MonthlyCount)
	})

	t.Run("ignores intervals other than month and year", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return([]billing.Subscription{
			{
				ID:       "sub_weekly",
				Metadata: map[string]string{billing.MetadataProjectSlug: "acme"},
				Items:    []billing.SubscriptionItem{{PriceID: "price_w", Quantity: 1}},
			},
		}, nil)
		provider.On("GetPrice", mock.Anything, "price_w").
			Return(&billing.Price{ID: "price_w", UnitAmount: 100, Interval: billing.Interval("week")}, nil)

		svc := billing.NewService(provider)
		summary, err := svc.Summarize(context.Background(), "acme")
		require.NoError(t, err)

		assert.Zero(t, summary.MonthlyRevenue)
		assert.Zero(t, summary.AnnualRevenue)
		assert.Zero(t, summary.MonthlyCount)
		assert.Zero(t, summary.AnnualCount)
	})

	t.Run("defaults zero quantity to one", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return([]billing.Subscription{
			{
				ID:       "sub_m",
				Metadata: map[string]string{billing.MetadataProjectSlug: "acme"},
				Items:    []billing.SubscriptionItem{{PriceID: "price_m"}},
			},
		}, nil)
		provider.On("GetPrice", mock.Anything, "price_m").
			Return(&billing.Price{ID: "price_m", UnitAmount: 500, Interval: billing.IntervalMonth}, nil)

		svc := billing.NewService(provider)
		summary, err := svc.Summarize(context.Background(), "acme")
		require.NoError(t, err)
		assert.Equal(t, 5.0, summary.MonthlyRevenue)
	})

	t.Run("listing failure aborts with aggregation error", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return(nil, assert.AnError)

		svc := billing.NewService(provider)
		_, err := svc.Summarize(context.Background(), "acme")
		assert.ErrorIs(t, err, billing.ErrAggregationFailed)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("failed ownership probe skips item without failing", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return([]billing.Subscription{
			{
				ID:    "sub_broken",
				Items: []billing.SubscriptionItem{{PriceID: "price_broken", Quantity: 1}},
			},
			{
				ID:       "sub_ok",
				Metadata: map[string]string{billing.MetadataProjectSlug: "acme"},
				Items:    []billing.SubscriptionItem{{PriceID: "price_m", Quantity: 1}},
			},
		}, nil)
		provider.On("GetPrice", mock.Anything, "price_broken").Return(nil, assert.AnError)
		provider.On("GetPrice", mock.Anything, "price_m").
			Return(&billing.Price{ID: "price_m", UnitAmount: 500, Interval: billing.IntervalMonth}, nil)

		svc := billing.NewService(provider)
		summary, err := svc.Summarize(context.Background(), "acme")
		require.NoError(t, err)
		assert.Equal(t, 5.0, summary.MonthlyRevenue)
		assert.Equal(t, 1, summary.MonthlyCount)
	})

	t.Run("failed price resolution of matching subscription aborts", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return([]billing.Subscription{
			{
				ID:       "sub_m",
				Metadata: map[string]string{billing.MetadataProjectSlug: "acme"},
				Items:    []billing.SubscriptionItem{{PriceID: "price_gone", Quantity: 1}},
			},
		}, nil)
		provider.On("GetPrice", mock.Anything, "price_gone").Return(nil, assert.AnError)

		svc := billing.NewService(provider)
		_, err := svc.Summarize(context.Background(), "acme")
		assert.ErrorIs(t, err, billing.ErrAggregationFailed)
	})
}
