package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"sparkdraft/internal/domain"
	"sparkdraft/internal/providers/generate"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		copied := *u
		r.users[u.ID] = &copied
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return nil, domain.ErrDuplicate
		}
	}
	u := &domain.User{
		ID:           fmt.Sprintf("user-%d", len(r.users)+1),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Tier:         domain.TierFree,
		SparksLimit:  10,
		CreatedAt:    time.Now(),
	}
	r.users[u.ID] = u
	return copyUser(u), nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) IncrementSparks(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.SparksUsed++
	return copyUser(u), nil
}

func (r *fakeUserRepo) ResetSparks(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.SparksUsed = 0
	return copyUser(u), nil
}

func (r *fakeUserRepo) UpdateSubscription(ctx context.Context, id string, tier domain.SubscriptionTier, limit int) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Tier = tier
	u.SparksLimit = limit
	return copyUser(u), nil
}

func (r *fakeUserRepo) UpdateBillingRefs(ctx context.Context, id, customerID string, subscriptionID *string) (*domain.User, error) {
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

func copyUser(u *domain.User) *domain.User {
	copied := *u
	return &copied
}

type fakeProjectRepo struct {
	projects map[string]*domain.Project
	nextID   int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]*domain.Project{}}
}

func (r *fakeProjectRepo) Create(ctx context.Context, draft domain.ProjectDraft) (*domain.Project, error) {
	r.nextID++
	p := &domain.Project{
		ID:           fmt.Sprintf("project-%d", r.nextID),
		UserID:       draft.UserID,
		Title:        draft.Title,
		Topic:        draft.Topic,
		Format:       draft.Format,
		VoiceProfile: draft.VoiceProfile,
		Status:       domain.ProjectStatusPending,
		CreatedAt:    time.Now(),
	}
	r.projects[p.ID] = p
	return copyProject(p), nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyProject(p), nil
}

func (r *fakeProjectRepo) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	return r.list(userID, false), nil
}

func (r *fakeProjectRepo) ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	return r.list(userID, true), nil
}

func (r *fakeProjectRepo) list(userID string, favoritesOnly bool) []domain.Project {
	var items []domain.Project
	for _, p := range r.projects {
		if p.UserID != userID {
			continue
		}
		if favoritesOnly && !p.IsFavorite {
			continue
		}
		items = append(items, *p)
	}
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if items[j].CreatedAt.After(items[i].CreatedAt) {
				items[i], items[j] = items[j], items[i]
			}
		}
	}
	return items
}

func (r *fakeProjectRepo) AttachContent(ctx context.Context, id string, content *domain.GeneratedContent) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Outlines = content.Outlines
	p.Titles = content.Titles
	p.Promos = content.Promos
	p.Status = domain.ProjectStatusReady
	return copyProject(p), nil
}

func (r *fakeProjectRepo) MarkFailed(ctx context.Context, id string) error {
	p, ok := r.projects[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = domain.ProjectStatusFailed
	return nil
}

func (r *fakeProjectRepo) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.IsFavorite = favorite
	return copyProject(p), nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.projects[id]; !ok {
		return false, nil
	}
	delete(r.projects, id)
	return true, nil
}

func copyProject(p *domain.Project) *domain.Project {
	copied := *p
	return &copied
}

type fakeGenerator struct {
	calls   int
	err     error
	content *domain.GeneratedContent
}

func (g *fakeGenerator) Generate(ctx context.Context, req generate.Request) (*domain.GeneratedContent, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.content, nil
}

func fullContent() *domain.GeneratedContent {
	content := &domain.GeneratedContent{
		Titles: make([]string, 10),
		Promos: make([]domain.Promo, 5),
	}
	for i := 0; i < 3; i++ {
		content.Outlines = append(content.Outlines, domain.Outline{
			Title:     fmt.Sprintf("Outline %d", i+1),
			WordCount: 1000,
			Sections:  []string{"Intro", "Body", "Close"},
		})
	}
	for i := range content.Titles {
		content.Titles[i] = fmt.Sprintf("Title %d", i+1)
	}
	for i := range content.Promos {
		content.Promos[i] = domain.Promo{Platform: "Twitter", Content: fmt.Sprintf("Promo %d", i+1)}
	}
	return content
}

func newTestService(users *fakeUserRepo, projects *fakeProjectRepo, gen generate.Generator) *GenerationService {
	return NewGenerationService(users, projects, gen, zerolog.Nop(), time.Second)
}

func validInput() GenerateInput {
	return GenerateInput{
		Title:        "Launch Day",
		Topic:        "launch day",
		Format:       domain.FormatVideo,
		VoiceProfile: domain.VoiceWitty,
	}
}

func TestGenerateQuotaExceeded(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: "u1", SparksUsed: 10, SparksLimit: 10})
	projects := newFakeProjectRepo()
	gen := &fakeGenerator{content: fullContent()}
	svc := newTestService(users, projects, gen)

	_, err := svc.Generate(context.Background(), "u1", validInput())
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if len(projects.projects) != 0 {
		t.Fatalf("expected no project to be created, got %d", len(projects.projects))
	}
	if gen.calls != 0 {
		t.Fatalf("expected no generator call, got %d", gen.calls)
	}
	if users.users["u1"].SparksUsed != 10 {
		t.Fatalf("sparks_used changed: %d", users.users["u1"].SparksUsed)
	}
}

func TestGenerateSuccess(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: "u1", SparksUsed: 0, SparksLimit: 10})
	projects := newFakeProjectRepo()
	gen := &fakeGenerator{content: fullContent()}
	svc := newTestService(users, projects, gen)

	project, err := svc.Generate(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if project.Status != domain.ProjectStatusReady {
		t.Fatalf("status = %q, want ready", project.Status)
	}
	if project.IsFavorite {
		t.Fatal("new project should not be a favorite")
	}
	if len(project.Outlines) != 3 || len(project.Titles) != 10 || len(project.Promos) != 5 {
		t.Fatalf("payload incomplete: %d outlines, %d titles, %d promos",
			len(project.Outlines), len(project.Titles), len(project.Promos))
	}
	if got := users.users["u1"].SparksUsed; got != 1 {
		t.Fatalf("sparks_used = %d, want 1", got)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: "u1", SparksUsed: 3, SparksLimit: 10})
	projects := newFakeProjectRepo()
	gen := &fakeGenerator{err: errors.New("boom")}
	svc := newTestService(users, projects, gen)

	_, err := svc.Generate(context.Background(), "u1", validInput())
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if got := users.users["u1"].SparksUsed; got != 3 {
		t.Fatalf("sparks_used = %d, want 3 (failed call must be free)", got)
	}
	if len(projects.projects) != 1 {
		t.Fatalf("expected one project record, got %d", len(projects.projects))
	}
	for _, p := range projects.projects {
		if p.Status != domain.ProjectStatusFailed {
			t.Fatalf("project status = %q, want failed", p.Status)
		}
		if p.Outlines != nil || p.Titles != nil || p.Promos != nil {
			t.Fatal("failed project must not carry a partial payload")
		}
	}
}

func TestGenerateIncompletePayload(t *testing.T) {
	content := fullContent()
	content.Promos = nil
	users := newFakeUserRepo(&domain.User{ID: "u1", SparksUsed: 0, SparksLimit: 10})
	projects := newFakeProjectRepo()
	svc := newTestService(users, projects, &fakeGenerator{content: content})

	_, err := svc.Generate(context.Background(), "u1", validInput())
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if got := users.users["u1"].SparksUsed; got != 0 {
		t.Fatalf("sparks_used = %d, want 0", got)
	}
}

func TestGenerateConcurrentLastSpark(t *testing.T) {
	users := newFakeUserRepo(&domain.User{ID: "u1", SparksUsed: 9, SparksLimit: 10})
	projects := newFakeProjectRepo()
	gen := &fakeGenerator{content: fullContent()}
	svc := newTestService(users, projects, gen)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Generate(context.Background(), "u1", validInput())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, overQuota int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrQuotaExceeded):
			overQuota++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || overQuota != 1 {
		t.Fatalf("succeeded=%d overQuota=%d, want exactly one of each", succeeded, overQuota)
	}
	if got := users.users["u1"].SparksUsed; got != 10 {
		t.Fatalf("sparks_used = %d, want 10", got)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
}

func TestGenerateUnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), newFakeProjectRepo(), &fakeGenerator{content: fullContent()})

	_, err := svc.Generate(context.Background(), "missing", validInput())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GenerateInput)
	}{
		{name: "missing title", mutate: func(in *GenerateInput) { in.Title = " " }},
		{name: "missing topic", mutate: func(in *GenerateInput) { in.Topic = "" }},
		{name: "bad format", mutate: func(in *GenerateInput) { in.Format = "podcast" }},
		{name: "bad voice", mutate: func(in *GenerateInput) { in.VoiceProfile = "sarcastic" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := newFakeUserRepo(&domain.User{ID: "u1", SparksLimit: 10})
			projects := newFakeProjectRepo()
			gen := &fakeGenerator{content: fullContent()}
			svc := newTestService(users, projects, gen)

			in := validInput()
			tc.mutate(&in)
			_, err := svc.Generate(context.Background(), "u1", in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if gen.calls != 0 || len(projects.projects) != 0 {
				t.Fatal("invalid input must not reach the generator or the store")
			}
		})
	}
}
