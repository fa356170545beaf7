package domain

import "time"

// SubscriptionTier enumerates billing tiers.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPro     SubscriptionTier = "pro"
	TierCreator SubscriptionTier = "creator"
	TierAgency  SubscriptionTier = "agency"
)

// User represents an account with a metered spark balance.
type User struct {
	ID                    string
	Username              string
	Email                 string
	PasswordHash          string
	Tier                  SubscriptionTier
	SparksUsed            int
	SparksLimit           int
	BillingCustomerID     *string
	BillingSubscriptionID *string
	CreatedAt             time.Time
}

// HasQuota reports whether the user may start another generation.
func (u User) HasQuota() bool {
	return u.SparksUsed < u.SparksLimit
}

// IsFree reports whether the user is on the free tier.
func (u User) IsFree() bool {
	return u.Tier == TierFree
}
