package model

import "testing"

func TestJobStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   JobStatus
		expected bool
	}{
		{JobStatusPending, true},
		{JobStatusProcessing, true},
		{JobStatusCompleted, false},
		{JobStatusFailed, false},
		{JobStatusExpired, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("JobStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		expected bool
	}{
		{JobStatusPending, false},
		{JobStatusProcessing, false},
		{JobStatusCompleted, true},
		{JobStatusFailed, true},
		{JobStatusExpired, true},
	}

	for _, test := range tests {
		result := test.status.IsTerminal()
		if result != test.expected {
			t.Errorf("JobStatus(%s).IsTerminal() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestJobStatus_String(t *testing.T) {
	if JobStatusProcessing.String() != "processing" {
		t.Errorf("expected 'processing', got '%s'", JobStatusProcessing.String())
	}
}
