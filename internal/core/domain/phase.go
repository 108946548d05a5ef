package domain

import "time"

// PhaseType identifies a recurring monthly activity window within a cycle.
type PhaseType string

const (
	PhaseDeclaration     PhaseType = "DECLARATION"
	PhaseLoanApplication PhaseType = "LOAN_APPLICATION"
	PhaseDeposits        PhaseType = "DEPOSITS"
	PhasePayout          PhaseType = "PAYOUT"
	PhaseShareout        PhaseType = "SHAREOUT"
)

// Phase configures one activity window of a cycle. Start/end days are days of
// the month (1-31, clamped to the month's length); their interpretation
// depends on the phase type.
type Phase struct {
	PhaseID          string    `json:"phaseID"` // Primary key (UUID)
	CycleID          string    `json:"cycleID"` // FK -> Cycle
	PhaseType        PhaseType `json:"phaseType"`
	MonthlyStartDay  int       `json:"monthlyStartDay"`
	MonthlyEndDay    int       `json:"monthlyEndDay"`
	IsOpen           bool      `json:"isOpen"`
	PenaltyTypeID    *string   `json:"penaltyTypeID,omitempty"` // FK -> PenaltyType
	AutoApplyPenalty bool      `json:"autoApplyPenalty"`
	AuditFields
}

// PenaltyRequest is the value a lateness determination yields when the phase
// auto-applies penalties. Every workflow consumes it the same way: check for
// an existing penalty keyed on (member, penalty type, period), then create.
type PenaltyRequest struct {
	MemberID      string
	PenaltyTypeID string
	Period        string // Free-text effective period, e.g. "2026-01"
}

// clampDayToMonth resolves a configured day of month against a real month,
// so end day 31 means "last day" in shorter months.
func clampDayToMonth(day int, year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}

// monthEndDeadline returns the last instant of the configured end day within
// the given month.
func (p Phase) monthEndDeadline(year int, month time.Month) time.Time {
	day := clampDayToMonth(p.MonthlyEndDay, year, month)
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

// IsLateForDeclaration reports whether a declaration for effectiveMonth
// submitted onDate is past the phase's monthly end day of that month.
func (p Phase) IsLateForDeclaration(effectiveMonth time.Time, onDate time.Time) bool {
	return onDate.After(p.monthEndDeadline(effectiveMonth.Year(), effectiveMonth.Month()))
}

// IsLateForLoanApplication reports whether an application submitted onDate is
// past the phase's monthly end day of the current month.
func (p Phase) IsLateForLoanApplication(onDate time.Time) bool {
	return onDate.After(p.monthEndDeadline(onDate.Year(), onDate.Month()))
}

// DepositWindow returns the deposit window for effectiveMonth: from the
// monthly start day of that month to the monthly end day of the following month.
func (p Phase) DepositWindow(effectiveMonth time.Time) (time.Time, time.Time) {
	startDay := clampDayToMonth(p.MonthlyStartDay, effectiveMonth.Year(), effectiveMonth.Month())
	start := time.Date(effectiveMonth.Year(), effectiveMonth.Month(), startDay, 0, 0, 0, 0, time.UTC)
	next := effectiveMonth.AddDate(0, 1, 0)
	return start, p.monthEndDeadline(next.Year(), next.Month())
}

// IsLateForDeposit reports whether a deposit for effectiveMonth submitted
// onDate falls past the deposit window's end.
func (p Phase) IsLateForDeposit(effectiveMonth time.Time, onDate time.Time) bool {
	_, end := p.DepositWindow(effectiveMonth)
	return onDate.After(end)
}

// LatePenaltyRequest yields the penalty-creation request for a late submission,
// or nil when the phase does not auto-apply penalties.
func (p Phase) LatePenaltyRequest(memberID string, period string) *PenaltyRequest {
	if !p.AutoApplyPenalty || p.PenaltyTypeID == nil {
		return nil
	}
	return &PenaltyRequest{
		MemberID:      memberID,
		PenaltyTypeID: *p.PenaltyTypeID,
		Period:        period,
	}
}
