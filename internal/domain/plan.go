package domain

// AgencySparksLimit is the spark limit assigned to the agency tier.
// Large enough to be effectively unlimited within a billing cycle.
const AgencySparksLimit = 999999

var tierLimits = map[SubscriptionTier]int{
	TierFree:    10,
	TierPro:     50,
	TierCreator: 200,
	TierAgency:  AgencySparksLimit,
}

// TierLimit returns the monthly spark limit for a tier. The second return
// value is false for tiers outside the catalog.
func TierLimit(tier SubscriptionTier) (int, bool) {
	limit, ok := tierLimits[tier]
	return limit, ok
}
