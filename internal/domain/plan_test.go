package domain

import "testing"

func TestTierLimit(t *testing.T) {
	cases := []struct {
		tier  SubscriptionTier
		limit int
	}{
		{TierFree, 10},
		{TierPro, 50},
		{TierCreator, 200},
		{TierAgency, AgencySparksLimit},
	}
	for _, tc := range cases {
		limit, ok := TierLimit(tc.tier)
		if !ok {
			t.Errorf("TierLimit(%q) not found", tc.tier)
			continue
		}
		if limit != tc.limit {
			t.Errorf("TierLimit(%q) = %d, want %d", tc.tier, limit, tc.limit)
		}
	}

	if _, ok := TierLimit("platinum"); ok {
		t.Error("unknown tier should not resolve to a limit")
	}
}

func TestHasQuota(t *testing.T) {
	u := User{SparksUsed: 9, SparksLimit: 10}
	if !u.HasQuota() {
		t.Error("one spark left should have quota")
	}
	u.SparksUsed = 10
	if u.HasQuota() {
		t.Error("at limit should not have quota")
	}
	u.SparksUsed = 11
	if u.HasQuota() {
		t.Error("over limit should not have quota")
	}
}
