package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sparkdraft/internal/domain"
)

const userColumns = `id, username, email, password_hash, subscription_tier, sparks_used, sparks_limit, billing_customer_id, billing_subscription_id, created_at`

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// Create inserts a new user on the free tier with an untouched ledger.
func (r *UserRepositoryPG) Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	query := `
INSERT INTO users (id, username, email, password_hash, subscription_tier, sparks_used, sparks_limit)
VALUES (gen_random_uuid(), $1, $2, $3, 'free', 0, 10)
RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, username, email, passwordHash)
	return scanUser(row)
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by email address.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetByUsername fetches a user by username.
func (r *UserRepositoryPG) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// IncrementSparks adds one to the spark counter in a single statement so
// concurrent requests cannot lose updates.
func (r *UserRepositoryPG) IncrementSparks(ctx context.Context, id string) (*domain.User, error) {
	query := `
UPDATE users
SET sparks_used = sparks_used + 1
WHERE id = $1
RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, id)
	return scanUser(row)
}

// ResetSparks zeroes the spark counter, used when a billing cycle rolls over.
func (r *UserRepositoryPG) ResetSparks(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users SET sparks_used = 0 WHERE id = $1 RETURNING `+userColumns, id)
	return scanUser(row)
}

// UpdateSubscription reassigns the tier and spark limit, leaving usage intact.
func (r *UserRepositoryPG) UpdateSubscription(ctx context.Context, id string, tier domain.SubscriptionTier, limit int) (*domain.User, error) {
	query := `
UPDATE users
SET subscription_tier = $2, sparks_limit = $3
WHERE id = $1
RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, id, tier, limit)
	return scanUser(row)
}

// UpdateBillingRefs stores the provider-side customer and subscription IDs.
// A nil subscriptionID keeps the existing value.
func (r *UserRepositoryPG) UpdateBillingRefs(ctx context.Context, id, customerID string, subscriptionID *string) (*domain.User, error) {
	query := `
UPDATE users
SET billing_customer_id = $2,
    billing_subscription_id = COALESCE($3, billing_subscription_id)
WHERE id = $1
RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, id, customerID, subscriptionID)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Tier,
		&u.SparksUsed,
		&u.SparksLimit,
		&u.BillingCustomerID,
		&u.BillingSubscriptionID,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
