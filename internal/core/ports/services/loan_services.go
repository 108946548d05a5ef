package services

import (
	"context"
	"time"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// LoanReaderSvc defines read operations for loan applications and loans.
type LoanReaderSvc interface {
	// GetEligibility computes a member's borrowing envelope from their savings
	// balance, tier multiplier and the cycle cap.
	GetEligibility(ctx context.Context, memberID string) (*dto.LoanEligibilityResponse, error)

	// GetApplicationByID retrieves a loan application.
	GetApplicationByID(ctx context.Context, applicationID string) (*domain.LoanApplication, error)

	// ListApplications retrieves a cycle's applications, optionally by status.
	ListApplications(ctx context.Context, cycleID string, status *domain.LoanApplicationStatus) ([]domain.LoanApplication, error)

	// GetLoanByID retrieves a loan with its derived outstanding balance.
	GetLoanByID(ctx context.Context, loanID string) (*dto.LoanResponse, error)

	// ListMemberLoans retrieves a member's loans with outstanding balances.
	ListMemberLoans(ctx context.Context, memberID string) ([]dto.LoanResponse, error)
}

// LoanWriterSvc defines the loan application and disbursement workflow.
type LoanWriterSvc interface {
	// Apply opens a PENDING application in the active cycle. An application
	// after the window deadline raises the phase's automatic penalty.
	Apply(ctx context.Context, memberID string, req dto.ApplyLoanRequest, now time.Time) (*domain.LoanApplication, error)

	// UpdateApplication edits a PENDING application owned by the member.
	UpdateApplication(ctx context.Context, applicationID string, memberID string, req dto.UpdateLoanApplicationRequest, now time.Time) (*domain.LoanApplication, error)

	// WithdrawApplication moves the member's PENDING application to WITHDRAWN.
	WithdrawApplication(ctx context.Context, applicationID string, memberID string, now time.Time) (*domain.LoanApplication, error)

	// ApproveApplication approves a PENDING application and disburses the loan,
	// posting the disbursement entry.
	ApproveApplication(ctx context.Context, applicationID string, approverID string, now time.Time) (*domain.Loan, error)

	// RejectApplication moves a PENDING application to REJECTED.
	RejectApplication(ctx context.Context, applicationID string, requestingUserID string, now time.Time) (*domain.LoanApplication, error)
}

// LoanSvcFacade combines all loan-related service interfaces.
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanWriterSvc
}
