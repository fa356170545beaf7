package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sparkdraft/internal/domain"
	"sparkdraft/internal/providers/generate"
)

// GenerateInput is the validated shape of a generation request.
type GenerateInput struct {
	Title        string
	Topic        string
	Format       domain.ProjectFormat
	VoiceProfile domain.VoiceProfile
}

// Validate checks presence and enum membership of every field.
func (in GenerateInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Topic) == "" {
		return fmt.Errorf("%w: topic is required", domain.ErrValidation)
	}
	if !domain.ValidFormat(in.Format) {
		return fmt.Errorf("%w: unsupported format %q", domain.ErrValidation, in.Format)
	}
	if !domain.ValidVoice(in.VoiceProfile) {
		return fmt.Errorf("%w: unsupported voice profile %q", domain.ErrValidation, in.VoiceProfile)
	}
	return nil
}

// GenerationService drives a generation request through its lifecycle:
// validate, quota gate, pending project, provider call, attach, charge.
// The quota is read before the provider call so an exhausted user never
// causes spend, and charged only after success so a failed call is free.
type GenerationService struct {
	users     domain.UserRepository
	projects  domain.ProjectRepository
	generator generate.Generator
	logger    zerolog.Logger
	timeout   time.Duration

	// serializes the check-and-charge window per user
	locks sync.Map
}

func NewGenerationService(users domain.UserRepository, projects domain.ProjectRepository, generator generate.Generator, logger zerolog.Logger, timeout time.Duration) *GenerationService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GenerationService{
		users:     users,
		projects:  projects,
		generator: generator,
		logger:    logger,
		timeout:   timeout,
	}
}

// Generate runs the full lifecycle for one request and returns the
// populated project. On provider failure the pending project is marked
// failed and the user's spark counter is left untouched.
func (s *GenerationService) Generate(ctx context.Context, userID string, in GenerateInput) (*domain.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasQuota() {
		return nil, fmt.Errorf("%w: %d of %d sparks used", domain.ErrQuotaExceeded, user.SparksUsed, user.SparksLimit)
	}

	project, err := s.projects.Create(ctx, domain.ProjectDraft{
		UserID:       userID,
		Title:        in.Title,
		Topic:        in.Topic,
		Format:       in.Format,
		VoiceProfile: in.VoiceProfile,
	})
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	content, err := s.generator.Generate(genCtx, generate.Request{
		Topic:        in.Topic,
		Format:       in.Format,
		VoiceProfile: in.VoiceProfile,
	})
	cancel()
	if err == nil && !content.Complete() {
		err = fmt.Errorf("%w: provider returned incomplete content", domain.ErrGeneration)
	}
	if err != nil {
		s.failProject(ctx, project.ID)
		if !isDomainError(err) {
			err = fmt.Errorf("%w: %v", domain.ErrGeneration, err)
		}
		return nil, err
	}

	project, err = s.projects.AttachContent(ctx, project.ID, content)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.IncrementSparks(ctx, userID); err != nil {
		// The project is already populated; surface the ledger failure
		// rather than pretending the charge happened.
		return nil, err
	}

	return project, nil
}

func (s *GenerationService) failProject(ctx context.Context, id string) {
	if err := s.projects.MarkFailed(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("project_id", id).Msg("mark project failed")
	}
}

func (s *GenerationService) lockUser(userID string) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrQuotaExceeded,
		domain.ErrGeneration,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
