package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

func TestCycleStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.CycleStatus
		to   domain.CycleStatus
		want bool
	}{
		{"draft activates", domain.CycleDraft, domain.CycleActive, true},
		{"active closes", domain.CycleActive, domain.CycleClosed, true},
		{"closed reopens", domain.CycleClosed, domain.CycleActive, true},
		{"draft cannot close directly", domain.CycleDraft, domain.CycleClosed, false},
		{"active cannot return to draft", domain.CycleActive, domain.CycleDraft, false},
		{"closed cannot return to draft", domain.CycleClosed, domain.CycleDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPenaltyStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.PenaltyStatus
		to   domain.PenaltyStatus
		want bool
	}{
		{"pending approves", domain.PenaltyPending, domain.PenaltyApproved, true},
		{"approved pays", domain.PenaltyApproved, domain.PenaltyPaid, true},
		{"pending cannot pay directly", domain.PenaltyPending, domain.PenaltyPaid, false},
		{"paid is terminal", domain.PenaltyPaid, domain.PenaltyApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
