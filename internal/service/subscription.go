package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"sparkdraft/internal/domain"
	"sparkdraft/internal/providers/billing"
)

// PriceCatalog maps provider price identifiers onto subscription tiers.
type PriceCatalog map[string]domain.SubscriptionTier

// TierFor resolves a price identifier. Unknown prices are an error rather
// than a silent downgrade to the free tier.
func (c PriceCatalog) TierFor(priceID string) (domain.SubscriptionTier, error) {
	tier, ok := c[priceID]
	if !ok {
		return "", fmt.Errorf("%w: price %q", domain.ErrUnknownPlan, priceID)
	}
	return tier, nil
}

// SubscribeResult carries what the frontend needs to finish checkout.
type SubscribeResult struct {
	SubscriptionID string
	ClientSecret   string
	Tier           domain.SubscriptionTier
}

// SubscriptionService reconciles a user's tier and spark limit with the
// external billing provider.
type SubscriptionService struct {
	users   domain.UserRepository
	billing billing.Provider
	catalog PriceCatalog
	logger  zerolog.Logger
}

func NewSubscriptionService(users domain.UserRepository, provider billing.Provider, catalog PriceCatalog, logger zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{
		users:   users,
		billing: provider,
		catalog: catalog,
		logger:  logger,
	}
}

// Subscribe signs the user up for the plan behind priceID. An existing
// subscription is returned as-is so the frontend can resume checkout.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, priceID string) (*SubscribeResult, error) {
	tier, err := s.catalog.TierFor(priceID)
	if err != nil {
		return nil, err
	}
	if s.billing == nil {
		return nil, domain.ErrBillingOff
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.BillingSubscriptionID != nil {
		sub, err := s.billing.RetrieveSubscription(ctx, *user.BillingSubscriptionID)
		if err != nil {
			return nil, fmt.Errorf("retrieve subscription: %w", err)
		}
		return &SubscribeResult{SubscriptionID: sub.ID, ClientSecret: sub.ClientSecret, Tier: user.Tier}, nil
	}

	customerID := ""
	if user.BillingCustomerID != nil {
		customerID = *user.BillingCustomerID
	}
	if customerID == "" {
		customer, err := s.billing.CreateCustomer(ctx, user.Email, user.Username)
		if err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		customerID = customer.ID
		if _, err := s.users.UpdateBillingRefs(ctx, userID, customerID, nil); err != nil {
			return nil, err
		}
	}

	sub, err := s.billing.CreateSubscription(ctx, customerID, priceID)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	if _, err := s.users.UpdateBillingRefs(ctx, userID, customerID, &sub.ID); err != nil {
		return nil, err
	}

	if _, err := s.ApplyPlanChange(ctx, userID, tier); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("tier", string(tier)).Msg("subscription created")
	return &SubscribeResult{SubscriptionID: sub.ID, ClientSecret: sub.ClientSecret, Tier: tier}, nil
}

// ApplyPlanChange sets the user's tier and the limit from the plan table.
// The spark counter is left as-is; only the ceiling moves.
func (s *SubscriptionService) ApplyPlanChange(ctx context.Context, userID string, tier domain.SubscriptionTier) (*domain.User, error) {
	limit, ok := domain.TierLimit(tier)
	if !ok {
		return nil, fmt.Errorf("%w: tier %q", domain.ErrUnknownPlan, tier)
	}
	return s.users.UpdateSubscription(ctx, userID, tier, limit)
}
