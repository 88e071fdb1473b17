package models

import "testing"

func TestIsValidApplicationTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Open statuses move freely
		{ApplicationStatusPending, ApplicationStatusApproved, true},
		{ApplicationStatusPending, ApplicationStatusRejected, true},
		{ApplicationStatusPending, ApplicationStatusCompleted, true},
		{ApplicationStatusPending, ApplicationStatusPending, true},
		{ApplicationStatusApproved, ApplicationStatusCompleted, true},
		{ApplicationStatusApproved, ApplicationStatusPending, true},
		{ApplicationStatusApproved, ApplicationStatusRejected, true},

		// Rejected can only be reopened
		{ApplicationStatusRejected, ApplicationStatusPending, true},
		{ApplicationStatusRejected, ApplicationStatusApproved, false},
		{ApplicationStatusRejected, ApplicationStatusCompleted, false},
		{ApplicationStatusRejected, ApplicationStatusRejected, false},

		// Completed is terminal
		{ApplicationStatusCompleted, ApplicationStatusPending, false},
		{ApplicationStatusCompleted, ApplicationStatusApproved, false},
		{ApplicationStatusCompleted, ApplicationStatusCompleted, false},

		// Unknown statuses
		{"nonexistent", ApplicationStatusPending, false},
		{ApplicationStatusPending, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidApplicationTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidApplicationTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllApplicationStatusesHaveTransitionEntry(t *testing.T) {
	for _, status := range ApplicationStatuses {
		if _, ok := ValidApplicationTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidApplicationTransitions map", status)
		}
	}
}

func TestCompletedHasNoTransitions(t *testing.T) {
	if n := len(ValidApplicationTransitions[ApplicationStatusCompleted]); n != 0 {
		t.Errorf("completed should have no transitions, got %d", n)
	}
}

func TestIsValidCampaignStatus(t *testing.T) {
	for _, s := range CampaignStatuses {
		if !IsValidCampaignStatus(s) {
			t.Errorf("IsValidCampaignStatus(%q) = false", s)
		}
	}
	if IsValidCampaignStatus("paused") {
		t.Errorf("IsValidCampaignStatus(paused) = true")
	}
}

func TestConversion(t *testing.T) {
	if got := Conversion(3, 0); got != 0 {
		t.Errorf("Conversion(3, 0) = %v, want 0", got)
	}
	if got := Conversion(1, 4); got != 25 {
		t.Errorf("Conversion(1, 4) = %v, want 25", got)
	}
}
