package donation

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/donatekit/pkg/billing"
	"github.com/dmitrymomot/donatekit/pkg/donation"
	"github.com/dmitrymomot/donatekit/pkg/validator"
)

// maxWebhookBody caps webhook payload reads. Stripe events are small; larger
// bodies indicate something other than a webhook.
const maxWebhookBody = 1 << 20

type handler struct {
	config  donation.Config
	service *billing.Service
	baseURL string
	log     *slog.Logger
}

type checkoutRequest struct {
	Type   donation.Frequency `json:"type"`
	Amount float64            `json:"amount"`
}

type checkoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// createCheckoutSession builds a billing checkout request from the mounted
// config and the donor's chosen frequency and amount. The project identity
// and redirect URLs always come from the config, never from the client.
func (h *handler) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Amount == 0 {
		req.Amount = h.config.Amounts(req.Type).Suggested
	}

	if err := h.config.CheckAmount(req.Type, req.Amount); err != nil {
		respondError(w, http.StatusBadRequest, donation.ErrAmountOutOfRange.Error())
		return
	}

	successURL, cancelURL := h.config.ResolveURLs(h.baseURL)
	session, err := h.service.CreateCheckoutSession(r.Context(), billing.CheckoutSessionRequest{
		Type:        req.Type,
		Amount:      req.Amount,
		ProjectSlug: h.config.ProjectSlug,
		ProjectName: h.config.ProjectName,
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
		Currency:    h.config.Currency,
	})
	if err != nil {
		if validator.IsValidationError(err) {
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "invalid donation request",
				"fields": validator.ExtractValidationErrors(err).Fields(),
			})
			return
		}
		h.log.ErrorContext(r.Context(), "checkout session failed", slog.Any("error", err))
		respondError(w, http.StatusBadGateway, "failed to create checkout session")
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse{
		SessionID: session.ID,
		URL:       session.URL,
	})
}

type goalStats struct {
	Target   float64 `json:"target"`
	Current  float64 `json:"current"`
	Progress float64 `json:"progress"`
}

type statsResponse struct {
	*billing.SubscriptionSummary
	Goal *goalStats `json:"goal,omitempty"`
}

// stats serves the revenue summary for the configured project. The slug is
// required in the query so a widget pointed at the wrong backend fails loudly
// instead of showing another project's numbers.
func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("projectSlug")
	if slug == "" {
		respondError(w, http.StatusBadRequest, "projectSlug is required")
		return
	}
	if slug != h.config.ProjectSlug {
		respondError(w, http.StatusBadRequest, "unknown project")
		return
	}

	summary, err := h.service.Summarize(r.Context(), slug)
	if err != nil {
		h.log.ErrorContext(r.Context(), "revenue aggregation failed", slog.Any("error", err))
		respondError(w, http.StatusBadGateway, "failed to load donation stats")
		return
	}

	resp := statsResponse{SubscriptionSummary: summary}
	if goal := h.config.Goal; goal != nil {
		current := goal.Current
		if goal.CalculateFromSubscriptions {
			current = summary.TotalMRR
		}
		resp.Goal = &goalStats{
			Target:   goal.Target,
			Current:  current,
			Progress: goal.Progress(current),
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// webhook verifies and dispatches a billing provider event. The raw body is
// passed to signature verification untouched.
func (h *handler) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	err = h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, billing.ErrWebhookSignature):
		respondError(w, http.StatusBadRequest, "invalid webhook signature")
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "webhook handler failed", slog.Any("error", err))
		respondError(w, http.StatusInternalServerError, "webhook processing failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
