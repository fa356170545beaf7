package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type subscribeRequest struct {
	PriceID string `json:"price_id"`
}

type subscribeResponse struct {
	SubscriptionID string `json:"subscription_id"`
	ClientSecret   string `json:"client_secret"`
	Tier           string `json:"subscription_tier"`
}

func (a *App) SubscriptionCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.PriceID) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "price_id is required")
		return
	}

	result, err := a.Subscriptions.Subscribe(r.Context(), userID, req.PriceID)
	if err != nil {
		a.logUsage(r.Context(), userID, nil, "SUBSCRIPTION_CHANGE", false, 0, map[string]any{"price_id": req.PriceID})
		a.domainError(w, err)
		return
	}

	a.logUsage(r.Context(), userID, nil, "SUBSCRIPTION_CHANGE", true, 0, map[string]any{"price_id": req.PriceID, "tier": string(result.Tier)})
	a.json(w, http.StatusOK, subscribeResponse{
		SubscriptionID: result.SubscriptionID,
		ClientSecret:   result.ClientSecret,
		Tier:           string(result.Tier),
	})
}
