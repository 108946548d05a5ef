package repositories

import (
	"context"
	"time"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// LoanApplicationReader defines read operations for loan application data.
type LoanApplicationReader interface {
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.LoanApplication, error)

	// FindPendingApplicationByMember retrieves the member's PENDING application
	// in the cycle, if any.
	FindPendingApplicationByMember(ctx context.Context, memberID, cycleID string) (*domain.LoanApplication, error)

	ListApplicationsByCycle(ctx context.Context, cycleID string, status *domain.LoanApplicationStatus) ([]domain.LoanApplication, error)
}

// LoanApplicationWriter defines write operations for loan application data.
type LoanApplicationWriter interface {
	SaveApplication(ctx context.Context, application domain.LoanApplication) error
	UpdateApplication(ctx context.Context, application domain.LoanApplication) error
}

// LoanReader defines read operations for disbursed loan data.
type LoanReader interface {
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// FindOpenLoanByMember retrieves the member's OPEN loan, if any.
	// At most one may exist.
	FindOpenLoanByMember(ctx context.Context, memberID string) (*domain.Loan, error)

	ListLoansByMember(ctx context.Context, memberID string) ([]domain.Loan, error)
	ListLoansByCycle(ctx context.Context, cycleID string, status *domain.LoanStatus) ([]domain.Loan, error)
}

// LoanWriter defines write operations for disbursed loan data.
type LoanWriter interface {
	SaveLoan(ctx context.Context, loan domain.Loan) error
	UpdateLoanStatus(ctx context.Context, loanID string, status domain.LoanStatus, closedAt *time.Time, userID string, now time.Time) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces.
type LoanRepositoryFacade interface {
	LoanApplicationReader
	LoanApplicationWriter
	LoanReader
	LoanWriter
}
