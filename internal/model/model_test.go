package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from PlanStatus
		to   PlanStatus
		want bool
	}{
		{PlanStatusDraft, PlanStatusActive, true},
		{PlanStatusActive, PlanStatusCancelled, true},
		{PlanStatusActive, PlanStatusCompleted, true},

		{PlanStatusDraft, PlanStatusCancelled, false},
		{PlanStatusDraft, PlanStatusCompleted, false},
		{PlanStatusActive, PlanStatusDraft, false},
		{PlanStatusCancelled, PlanStatusActive, false},
		{PlanStatusCancelled, PlanStatusCompleted, false},
		{PlanStatusCompleted, PlanStatusActive, false},
		{PlanStatusCompleted, PlanStatusCancelled, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
