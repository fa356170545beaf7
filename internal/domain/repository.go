package domain

import "context"

// UserRepository defines access to users and their spark ledger.
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// IncrementSparks atomically adds one to the user's spark counter.
	IncrementSparks(ctx context.Context, id string) (*User, error)
	ResetSparks(ctx context.Context, id string) (*User, error)
	UpdateSubscription(ctx context.Context, id string, tier SubscriptionTier, limit int) (*User, error)
	UpdateBillingRefs(ctx context.Context, id, customerID string, subscriptionID *string) (*User, error)
}

// ProjectRepository defines persistence for generation projects.
type ProjectRepository interface {
	Create(ctx context.Context, draft ProjectDraft) (*Project, error)
	GetByID(ctx context.Context, id string) (*Project, error)
	ListByUser(ctx context.Context, userID string) ([]Project, error)
	ListFavoritesByUser(ctx context.Context, userID string) ([]Project, error)
	// AttachContent writes all three payload sections and marks the
	// project ready in a single statement.
	AttachContent(ctx context.Context, id string, content *GeneratedContent) (*Project, error)
	MarkFailed(ctx context.Context, id string) error
	SetFavorite(ctx context.Context, id string, favorite bool) (*Project, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ProjectDraft carries the validated fields for a new project record.
type ProjectDraft struct {
	UserID       string
	Title        string
	Topic        string
	Format       ProjectFormat
	VoiceProfile VoiceProfile
}
