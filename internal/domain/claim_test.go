package domain

import "testing"

func TestClaimCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ClaimStatus
		want     bool
	}{
		{ClaimStatusPending, ClaimStatusApproved, true},
		{ClaimStatusPending, ClaimStatusDenied, true},
		{ClaimStatusPending, ClaimStatusPending, false},
		{ClaimStatusApproved, ClaimStatusApproved, true},
		{ClaimStatusApproved, ClaimStatusDenied, false},
		{ClaimStatusDenied, ClaimStatusDenied, true},
		{ClaimStatusDenied, ClaimStatusApproved, false},
		{ClaimStatus("unknown"), ClaimStatusApproved, false},
	}
	for _, tc := range tests {
		claim := Claim{Status: tc.from}
		if got := claim.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
