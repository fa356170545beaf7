package handlers

import (
	"net/http"
)

func (a *App) MeQuota(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"sparks_used":       user.SparksUsed,
		"sparks_limit":      user.SparksLimit,
		"subscription_tier": user.Tier,
	})
}
