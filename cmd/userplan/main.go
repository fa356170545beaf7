package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sparkdraft/internal/adapter/repo"
	"sparkdraft/internal/domain"
)

// userplan reassigns a user's subscription tier directly against the
// database, for support work and local testing.
func main() {
	var (
		idFlag      string
		emailFlag   string
		tierFlag    string
		resetSparks bool
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&tierFlag, "tier", "pro", "tier to assign (free, pro, creator, agency)")
	flag.BoolVar(&resetSparks, "reset-sparks", false, "reset sparks_used to 0 as well")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	tier := domain.SubscriptionTier(strings.ToLower(strings.TrimSpace(tierFlag)))

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	limit, ok := domain.TierLimit(tier)
	if !ok {
		exitWithError(fmt.Errorf("unsupported tier %q", tier))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	users := repo.NewUserRepository(pool)

	var user *domain.User
	if userID != "" {
		user, err = users.GetByID(ctx, userID)
	} else {
		user, err = users.GetByEmail(ctx, email)
	}
	if err != nil {
		exitWithError(fmt.Errorf("failed to load user: %w", err))
	}

	updated, err := users.UpdateSubscription(ctx, user.ID, tier, limit)
	if err != nil {
		exitWithError(fmt.Errorf("failed to update subscription: %w", err))
	}
	if resetSparks {
		updated, err = users.ResetSparks(ctx, user.ID)
		if err != nil {
			exitWithError(fmt.Errorf("failed to reset sparks: %w", err))
		}
	}

	fmt.Printf("User %s (%s) updated to tier %s\n", updated.ID, updated.Email, updated.Tier)
	fmt.Printf("sparks_used=%d sparks_limit=%d\n", updated.SparksUsed, updated.SparksLimit)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
