package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sparkdraft/internal/domain"
)

const projectColumns = `id, user_id, title, topic, format, voice_profile, status, outlines, titles, promos, is_favorite, created_at`

// ProjectRepositoryPG implements domain.ProjectRepository backed by PostgreSQL.
type ProjectRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepositoryPG.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepositoryPG {
	return &ProjectRepositoryPG{pool: pool}
}

// Create inserts a pending project with no payload attached yet.
func (r *ProjectRepositoryPG) Create(ctx context.Context, draft domain.ProjectDraft) (*domain.Project, error) {
	query := `
INSERT INTO projects (id, user_id, title, topic, format, voice_profile, status, is_favorite)
VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, 'pending', false)
RETURNING ` + projectColumns

	row := r.pool.QueryRow(ctx, query, draft.UserID, draft.Title, draft.Topic, draft.Format, draft.VoiceProfile)
	return scanProject(row)
}

// GetByID fetches a project by UUID.
func (r *ProjectRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

// ListByUser returns the user's projects newest first. The seq column
// breaks ties between equal timestamps in insertion order.
func (r *ProjectRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at DESC, seq DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// ListFavoritesByUser returns the user's favorited projects newest first.
func (r *ProjectRepositoryPG) ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects WHERE user_id = $1 AND is_favorite ORDER BY created_at DESC, seq DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// AttachContent writes outlines, titles and promos together and marks the
// project ready. A project payload is never partially written.
func (r *ProjectRepositoryPG) AttachContent(ctx context.Context, id string, content *domain.GeneratedContent) (*domain.Project, error) {
	outlines, err := json.Marshal(content.Outlines)
	if err != nil {
		return nil, err
	}
	titles, err := json.Marshal(content.Titles)
	if err != nil {
		return nil, err
	}
	promos, err := json.Marshal(content.Promos)
	if err != nil {
		return nil, err
	}

	query := `
UPDATE projects
SET outlines = $2, titles = $3, promos = $4, status = 'ready'
WHERE id = $1
RETURNING ` + projectColumns

	row := r.pool.QueryRow(ctx, query, id, outlines, titles, promos)
	return scanProject(row)
}

// MarkFailed flags a project whose generation call did not produce a payload.
func (r *ProjectRepositoryPG) MarkFailed(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE projects SET status = 'failed' WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetFavorite flips the favorite flag and nothing else.
func (r *ProjectRepositoryPG) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx, `UPDATE projects SET is_favorite = $2 WHERE id = $1 RETURNING `+projectColumns, id, favorite)
	return scanProject(row)
}

// Delete removes a project and reports whether a row existed.
func (r *ProjectRepositoryPG) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var outlines, titles, promos []byte
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Topic,
		&p.Format,
		&p.VoiceProfile,
		&p.Status,
		&outlines,
		&titles,
		&promos,
		&p.IsFavorite,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(outlines) > 0 {
		if err := json.Unmarshal(outlines, &p.Outlines); err != nil {
			return nil, err
		}
	}
	if len(titles) > 0 {
		if err := json.Unmarshal(titles, &p.Titles); err != nil {
			return nil, err
		}
	}
	if len(promos) > 0 {
		if err := json.Unmarshal(promos, &p.Promos); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func collectProjects(rows pgx.Rows) ([]domain.Project, error) {
	var items []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

var _ domain.ProjectRepository = (*ProjectRepositoryPG)(nil)
