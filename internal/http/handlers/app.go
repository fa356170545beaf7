package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"sparkdraft/internal/domain"
	"sparkdraft/internal/infra"
	"sparkdraft/internal/middleware"
	"sparkdraft/internal/service"
	"sparkdraft/internal/sqlinline"
)

// App is the handler container wired in cmd/api.
type App struct {
	Logger        zerolog.Logger
	Config        *infra.Config
	SQL           infra.SQLExecutor
	Users         domain.UserRepository
	Projects      domain.ProjectRepository
	Generation    *service.GenerationService
	Subscriptions *service.SubscriptionService
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, errorResponse{Error: slug, Message: message})
}

// domainError maps the error taxonomy onto HTTP status codes.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrUnknownPlan):
		a.error(w, http.StatusBadRequest, "unknown_plan", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrQuotaExceeded):
		a.error(w, http.StatusForbidden, "quota_exceeded", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrGeneration):
		a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
	case errors.Is(err, domain.ErrBillingOff):
		a.error(w, http.StatusServiceUnavailable, "billing_unavailable", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("unexpected error")
		a.error(w, http.StatusInternalServerError, "internal", "unexpected error")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// logUsage records a metering event, best effort. The SQL executor is
// optional so tests and the CLI can run without one.
func (a *App) logUsage(ctx context.Context, userID string, projectID *string, eventType string, success bool, latencyMS int, props map[string]any) {
	if a.SQL == nil {
		return
	}
	propsJSON, _ := json.Marshal(props)
	if _, err := a.SQL.Exec(ctx, sqlinline.QInsertUsageEvent, userID, projectID, eventType, success, latencyMS, propsJSON); err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Str("event", eventType).Msg("log usage failed")
	}
}
