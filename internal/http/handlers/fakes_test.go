package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"sparkdraft/internal/domain"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(u domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Tier == "" {
		u.Tier = domain.TierFree
	}
	if u.SparksLimit == 0 {
		u.SparksLimit = 10
	}
	u.CreatedAt = time.Now()
	r.users[u.ID] = &u
	return copyUser(&u)
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			r.mu.Unlock()
			return nil, fmt.Errorf("%w: user exists", domain.ErrDuplicate)
		}
	}
	r.mu.Unlock()
	return r.add(domain.User{Username: username, Email: email, PasswordHash: passwordHash}), nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) IncrementSparks(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.SparksUsed++
	return copyUser(u), nil
}

func (r *stubUserRepo) ResetSparks(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.SparksUsed = 0
	return copyUser(u), nil
}

func (r *stubUserRepo) UpdateSubscription(ctx context.Context, id string, tier domain.SubscriptionTier, limit int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Tier = tier
	u.SparksLimit = limit
	return copyUser(u), nil
}

func (r *stubUserRepo) UpdateBillingRefs(ctx context.Context, id, customerID string, subscriptionID *string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.BillingCustomerID = &customerID
	if subscriptionID != nil {
		u.BillingSubscriptionID = subscriptionID
	}
	return copyUser(u), nil
}

var _ domain.UserRepository = (*stubUserRepo)(nil)

type stubProjectRepo struct {
	mu       sync.Mutex
	projects []domain.Project
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{}
}

func (r *stubProjectRepo) Create(ctx context.Context, draft domain.ProjectDraft) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := domain.Project{
		ID:           uuid.NewString(),
		UserID:       draft.UserID,
		Title:        draft.Title,
		Topic:        draft.Topic,
		Format:       draft.Format,
		VoiceProfile: draft.VoiceProfile,
		Status:       domain.ProjectStatusPending,
		CreatedAt:    time.Now(),
	}
	// newest first
	r.projects = append([]domain.Project{p}, r.projects...)
	return copyProject(&p), nil
}

func copyProject(p *domain.Project) *domain.Project {
	c := *p
	return &c
}

func (r *stubProjectRepo) find(id string) *domain.Project {
	for i := range r.projects {
		if r.projects[i].ID == id {
			return &r.projects[i]
		}
	}
	return nil
}

func (r *stubProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return copyProject(p), nil
}

func (r *stubProjectRepo) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, p := range r.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProjectRepo) ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, p := range r.projects {
		if p.UserID == userID && p.IsFavorite {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProjectRepo) AttachContent(ctx context.Context, id string, content *domain.GeneratedContent) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Outlines = content.Outlines
	p.Titles = content.Titles
	p.Promos = content.Promos
	p.Status = domain.ProjectStatusReady
	return copyProject(p), nil
}

func (r *stubProjectRepo) MarkFailed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return domain.ErrNotFound
	}
	p.Status = domain.ProjectStatusFailed
	return nil
}

func (r *stubProjectRepo) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.IsFavorite = favorite
	return copyProject(p), nil
}

func (r *stubProjectRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.projects {
		if r.projects[i].ID == id {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

var _ domain.ProjectRepository = (*stubProjectRepo)(nil)
