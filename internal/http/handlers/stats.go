package handlers

import (
	"net/http"

	"sparkdraft/internal/sqlinline"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	if a.SQL == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "stats are not available")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QStatsSummary)
	var totalUsers, totalProjects, ready, failed, generationsOK, generationsFailed, last24 int64
	if err := row.Scan(&totalUsers, &totalProjects, &ready, &failed, &generationsOK, &generationsFailed, &last24); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_users":        totalUsers,
		"total_projects":     totalProjects,
		"projects_ready":     ready,
		"projects_failed":    failed,
		"generations_ok":     generationsOK,
		"generations_failed": generationsFailed,
		"projects_last_24h":  last24,
	})
}
