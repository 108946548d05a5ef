package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

func TestPhase_IsLateForDeclaration(t *testing.T) {
	tests := []struct {
		name           string
		endDay         int
		effectiveMonth time.Time
		onDate         time.Time
		want           bool
	}{
		{
			name:           "within the window",
			endDay:         7,
			effectiveMonth: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			onDate:         time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
			want:           false,
		},
		{
			name:           "on the deadline day",
			endDay:         7,
			effectiveMonth: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			onDate:         time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC),
			want:           false,
		},
		{
			name:           "the morning after the deadline",
			endDay:         7,
			effectiveMonth: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			onDate:         time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
			want:           true,
		},
		{
			name:           "declaring last month this month",
			endDay:         7,
			effectiveMonth: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			onDate:         time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
			want:           true,
		},
		{
			name:           "end day 31 clamps to the last day of February",
			endDay:         31,
			effectiveMonth: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			onDate:         time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC),
			want:           false,
		},
		{
			name:           "past the clamped February deadline",
			endDay:         31,
			effectiveMonth: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			onDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			want:           true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase := domain.Phase{
				PhaseType:       domain.PhaseDeclaration,
				MonthlyStartDay: 1,
				MonthlyEndDay:   tt.endDay,
			}
			got := phase.IsLateForDeclaration(tt.effectiveMonth, tt.onDate)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhase_DepositWindow(t *testing.T) {
	phase := domain.Phase{
		PhaseType:       domain.PhaseDeposits,
		MonthlyStartDay: 1,
		MonthlyEndDay:   7,
	}

	start, end := phase.DepositWindow(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	// The window opens with the declared month and closes on the end day of
	// the following month.
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 2026, end.Year())
	assert.Equal(t, time.April, end.Month())
	assert.Equal(t, 7, end.Day())
}

func TestPhase_IsLateForDeposit(t *testing.T) {
	phase := domain.Phase{
		PhaseType:       domain.PhaseDeposits,
		MonthlyStartDay: 1,
		MonthlyEndDay:   7,
	}
	effectiveMonth := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, phase.IsLateForDeposit(effectiveMonth, time.Date(2026, 4, 7, 12, 0, 0, 0, time.UTC)))
	assert.True(t, phase.IsLateForDeposit(effectiveMonth, time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC)))
}

func TestPhase_LatePenaltyRequest(t *testing.T) {
	memberID := "member-1"
	penaltyTypeID := "pt-1"

	tests := []struct {
		name      string
		autoApply bool
		typeID    *string
		wantNil   bool
	}{
		{
			name:      "auto-apply with a configured type",
			autoApply: true,
			typeID:    &penaltyTypeID,
			wantNil:   false,
		},
		{
			name:      "auto-apply disabled",
			autoApply: false,
			typeID:    &penaltyTypeID,
			wantNil:   true,
		},
		{
			name:      "no penalty type configured",
			autoApply: true,
			typeID:    nil,
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase := domain.Phase{
				PhaseType:        domain.PhaseDeclaration,
				PenaltyTypeID:    tt.typeID,
				AutoApplyPenalty: tt.autoApply,
			}
			got := phase.LatePenaltyRequest(memberID, "2026-02")
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, memberID, got.MemberID)
			assert.Equal(t, penaltyTypeID, got.PenaltyTypeID)
			assert.Equal(t, "2026-02", got.Period)
		})
	}
}
