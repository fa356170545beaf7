package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sparkdraft/internal/domain"
	"sparkdraft/internal/service"
	"sparkdraft/pkg/zip"
)

type createProjectRequest struct {
	Title        string `json:"title"`
	Topic        string `json:"topic"`
	Format       string `json:"format"`
	VoiceProfile string `json:"voice_profile"`
}

type patchProjectRequest struct {
	IsFavorite *bool `json:"is_favorite"`
}

type projectDTO struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Title        string           `json:"title"`
	Topic        string           `json:"topic"`
	Format       string           `json:"format"`
	VoiceProfile string           `json:"voice_profile"`
	Status       string           `json:"status"`
	Outlines     []domain.Outline `json:"outlines"`
	Titles       []string         `json:"titles"`
	Promos       []domain.Promo   `json:"promos"`
	IsFavorite   bool             `json:"is_favorite"`
	CreatedAt    time.Time        `json:"created_at"`
}

func toProjectDTO(p *domain.Project) projectDTO {
	return projectDTO{
		ID:           p.ID,
		UserID:       p.UserID,
		Title:        p.Title,
		Topic:        p.Topic,
		Format:       string(p.Format),
		VoiceProfile: string(p.VoiceProfile),
		Status:       string(p.Status),
		Outlines:     p.Outlines,
		Titles:       p.Titles,
		Promos:       p.Promos,
		IsFavorite:   p.IsFavorite,
		CreatedAt:    p.CreatedAt,
	}
}

func toProjectDTOs(items []domain.Project) []projectDTO {
	out := make([]projectDTO, 0, len(items))
	for i := range items {
		out = append(out, toProjectDTO(&items[i]))
	}
	return out
}

// ProjectsCreate runs the full generation lifecycle for one spark.
func (a *App) ProjectsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	start := time.Now()
	project, err := a.Generation.Generate(r.Context(), userID, service.GenerateInput{
		Title:        req.Title,
		Topic:        req.Topic,
		Format:       domain.ProjectFormat(req.Format),
		VoiceProfile: domain.VoiceProfile(req.VoiceProfile),
	})
	latency := int(time.Since(start).Milliseconds())
	if err != nil {
		a.logUsage(r.Context(), userID, nil, "PROJECT_GENERATE", false, latency, map[string]any{"format": req.Format})
		a.domainError(w, err)
		return
	}

	a.logUsage(r.Context(), userID, &project.ID, "PROJECT_GENERATE", true, latency, map[string]any{"format": req.Format})
	a.json(w, http.StatusCreated, toProjectDTO(project))
}

func (a *App) ProjectsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	items, err := a.Projects.ListByUser(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toProjectDTOs(items)})
}

func (a *App) FavoritesList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	items, err := a.Projects.ListFavoritesByUser(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toProjectDTOs(items)})
}

func (a *App) ProjectGet(w http.ResponseWriter, r *http.Request) {
	project, ok := a.loadOwnedProject(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(project))
}

func (a *App) ProjectPatch(w http.ResponseWriter, r *http.Request) {
	project, ok := a.loadOwnedProject(w, r)
	if !ok {
		return
	}
	var req patchProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.IsFavorite == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "is_favorite is required")
		return
	}
	updated, err := a.Projects.SetFavorite(r.Context(), project.ID, *req.IsFavorite)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProjectDTO(updated))
}

func (a *App) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	project, ok := a.loadOwnedProject(w, r)
	if !ok {
		return
	}
	deleted, err := a.Projects.Delete(r.Context(), project.ID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if !deleted {
		a.error(w, http.StatusNotFound, "not_found", "project not found")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}

// ProjectsExport streams the user's generated content as a zip of markdown
// files, one per ready project.
func (a *App) ProjectsExport(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	items, err := a.Projects.ListByUser(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	var entries []zip.Entry
	for i := range items {
		p := &items[i]
		if p.Status != domain.ProjectStatusReady {
			continue
		}
		entries = append(entries, zip.Entry{
			Filename: fmt.Sprintf("%s-%s.md", slugify(p.Title), p.ID),
			Data:     []byte(renderProjectMarkdown(p)),
		})
	}
	archive, err := zip.Archive(entries)
	if err != nil {
		a.Logger.Error().Err(err).Msg("export archive failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build export archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename=sparkdraft-export.zip`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// loadOwnedProject resolves {id} and enforces ownership. Projects of other
// users are reported as not found rather than forbidden.
func (a *App) loadOwnedProject(w http.ResponseWriter, r *http.Request) (*domain.Project, bool) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return nil, false
	}
	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project id required")
		return nil, false
	}
	project, err := a.Projects.GetByID(r.Context(), projectID)
	if err != nil {
		a.domainError(w, err)
		return nil, false
	}
	if project.UserID != userID {
		a.error(w, http.StatusNotFound, "not_found", "project not found")
		return nil, false
	}
	return project, true
}

func renderProjectMarkdown(p *domain.Project) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "# %s\n\nTopic: %s\nFormat: %s\nVoice: %s\n\n", p.Title, p.Topic, p.Format, p.VoiceProfile)
	sb.WriteString("## Outlines\n\n")
	for _, o := range p.Outlines {
		fmt.Fprintf(sb, "### %s (~%d words)\n", o.Title, o.WordCount)
		for _, section := range o.Sections {
			fmt.Fprintf(sb, "- %s\n", section)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("## Titles\n\n")
	for _, t := range p.Titles {
		fmt.Fprintf(sb, "- %s\n", t)
	}
	sb.WriteString("\n## Promos\n\n")
	for _, promo := range p.Promos {
		fmt.Fprintf(sb, "**%s**: %s\n\n", promo.Platform, promo.Content)
	}
	return sb.String()
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(sb.String(), "-")
}
