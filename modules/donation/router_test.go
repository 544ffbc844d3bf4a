package donation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	donationmodule "github.com/dmitrymomot/donatekit/modules/donation"
	"github.com/dmitrymomot/donatekit/pkg/billing"
	"github.com/dmitrymomot/donatekit/pkg/donation"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) ListActiveSubscriptions(ctx context.Context) ([]billing.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Subscription), args.Error(1)
}

func (m *mockProvider) GetPrice(ctx context.Context, id string) (*billing.Price, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Price), args.Error(1)
}

func (m *mockProvider) GetProduct(ctx context.Context, id string) (*billing.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Product), args.Error(1)
}

func (m *mockProvider) ListPrices(ctx context.Context, productID string) ([]billing.Price, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Price), args.Error(1)
}

func (m *mockProvider) CreateProduct(ctx context.Context, params billing.ProductParams) (*billing.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Product), args.Error(1)
}

func (m *mockProvider) CreatePrice(ctx context.Context, params billing.PriceParams) (*billing.Price, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Price), args.Error(1)
}

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, params billing.SessionParams) (*billing.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CheckoutSession), args.Error(1)
}

func (m *mockProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*billing.Event, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Event), args.Error(1)
}

func widgetConfig() donation.Config {
	return donation.Config{
		PublishableKey: "pk_test_123",
		ProjectName:    "Acme",
		ProjectSlug:    "acme",
		Monthly:        donation.AmountOptions{Suggested: 10},
		Annual:         donation.AmountOptions{Suggested: 100},
	}
}

func mountRouter(t *testing.T, cfg donation.Config, provider billing.Provider, opts ...billing.ServiceOption) http.Handler {
	t.Helper()
	r, err := donationmodule.Router(donationmodule.RouterOptions{
		Config:  cfg,
		Service: billing.NewService(provider, opts...),
		BaseURL: "https://example.com",
	})
	require.NoError(t, err)
	return r
}

func TestRouter(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid config at mount", func(t *testing.T) {
		t.Parallel()
		_, err := donationmodule.Router(donationmodule.RouterOptions{
			Config:  donation.Config{},
			Service: billing.NewService(new(mockProvider)),
		})
		assert.Error(t, err)
	})

	t.Run("panics without service", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			_, _ = donationmodule.Router(donationmodule.RouterOptions{Config: widgetConfig()})
		})
	})
}

func TestCreateCheckoutSessionEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("creates session from config identity", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(params billing.SessionParams) bool {
			return params.UnitAmount == 1500 &&
				params.Metadata[billing.MetadataProjectSlug] == "acme" &&
				params.SuccessURL == "https://example.com/donation/success" &&
				params.CancelURL == "https://example.com/donation/cancel"
		})).Return(&billing.CheckoutSession{ID: "cs_123", URL: "https://checkout.example.com/cs_123"}, nil)

		r := mountRouter(t, widgetConfig(), provider)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session",
			bytes.NewBufferString(`{"type":"monthly","amount":15}`))
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "cs_123", resp["sessionId"])
		assert.Equal(t, "https://checkout.example.com/cs_123", resp["url"])
	})

	t.Run("zero amount falls back to suggested", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(params billing.SessionParams) bool {
			return params.UnitAmount == 1000
		})).Return(&billing.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil)

		r := mountRouter(t, widgetConfig(), provider)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session",
			bytes.NewBufferString(`{"type":"monthly"}`))
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		provider.AssertExpectations(t)
	})

	t.Run("out of range amount rejected before provider call", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		r := mountRouter(t, widgetConfig(), provider)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session",
			bytes.NewBufferString(`{"type":"monthly","amount":10000}`))
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		t.Parallel()
		r := mountRouter(t, widgetConfig(), new(mockProvider))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session",
			bytes.NewBufferString(`{not json`))
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider failure yields bad gateway without details", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		r := mountRouter(t, widgetConfig(), provider)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session",
			bytes.NewBufferString(`{"type":"monthly","amount":10}`))
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	activeSubs := []billing.Subscription{
		{
			ID:       "sub_m",
			Metadata: map[string]string{billing.MetadataProjectSlug: "acme"},
			Items:    []billing.SubscriptionItem{{PriceID: "price_m", Quantity: 1}},
		},
	}

	t.Run("requires project slug", func(t *testing.T) {
		t.Parallel()
		r := mountRouter(t, widgetConfig(), new(mockProvider))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects foreign project slug", func(t *testing.T) {
		t.Parallel()
		r := mountRouter(t, widgetConfig(), new(mockProvider))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats?projectSlug=other", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns revenue summary", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return(activeSubs, nil)
		provider.On("GetPrice", mock.Anything, "price_m").
			Return(&billing.Price{ID: "price_m", UnitAmount: 500, Interval: billing.IntervalMonth}, nil)

		r := mountRouter(t, widgetConfig(), provider)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats?projectSlug=acme", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			MonthlyRevenue float64 `json:"monthlyRevenue"`
			TotalMRR       float64 `json:"totalMRR"`
			MonthlyCount   int     `json:"monthlyCount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 5.0, resp.MonthlyRevenue)
		assert.Equal(t, 5.0, resp.TotalMRR)
		assert.Equal(t, 1, resp.MonthlyCount)
	})

	t.Run("goal progress derived from live MRR", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return(activeSubs, nil)
		provider.On("GetPrice", mock.Anything, "price_m").
			Return(&billing.Price{ID: "price_m", UnitAmount: 500, Interval: billing.IntervalMonth}, nil)

		cfg := widgetConfig()
		cfg.Goal = &donation.Goal{Target: 50, CalculateFromSubscriptions: true}
		r := mountRouter(t, cfg, provider)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats?projectSlug=acme", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Goal struct {
				Target   float64 `json:"target"`
				Current  float64 `json:"current"`
				Progress float64 `json:"progress"`
			} `json:"goal"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 50.0, resp.Goal.Target)
		assert.Equal(t, 5.0, resp.Goal.Current)
		assert.InDelta(t, 10.0, resp.Goal.Progress, 0.0001)
	})

	t.Run("aggregation failure yields bad gateway", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ListActiveSubscriptions", mock.Anything).Return(nil, assert.AnError)

		r := mountRouter(t, widgetConfig(), provider)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats?projectSlug=acme", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestWebhookEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("acknowledges verified events", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ParseWebhook", mock.Anything, []byte(`{}`), "t=1,v1=sig").
			Return(&billing.Event{
				Type:          billing.EventSubscriptionCreated,
				ProviderEvent: "customer.subscription.created",
			}, nil)

		r := mountRouter(t, widgetConfig(), provider)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=sig")
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	})

	t.Run("invalid signature rejected", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ParseWebhook", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		r := mountRouter(t, widgetConfig(), provider)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{}`))
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid webhook signature")
	})

	t.Run("handler failure yields server error", func(t *testing.T) {
		t.Parallel()
		provider := new(mockProvider)
		provider.On("ParseWebhook", mock.Anything, mock.Anything, mock.Anything).
			Return(&billing.Event{
				Type:          billing.EventPaymentSucceeded,
				ProviderEvent: "payment_intent.succeeded",
			}, nil)

		r := mountRouter(t, widgetConfig(), provider, billing.WithWebhookHandlers(billing.WebhookHandlers{
			PaymentSucceeded: func(ctx context.Context, event *billing.Event) error {
				return assert.AnError
			},
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{}`))
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
