package services

import (
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ledger comes first since every money-moving workflow posts through it.
	container.Ledger = NewLedgerService(repos.JournalRepo, repos.AccountRepo)

	container.Member = NewMemberService(
		repos.MemberRepo,
		container.Ledger,
		cfg.JWTSecret,
		cfg.JWTExpiryDuration,
		cfg.JWTIssuer,
	)

	container.Cycle = NewCycleService(repos.CycleRepo, repos.PenaltyRepo)

	container.Penalty = NewPenaltyService(repos.PenaltyRepo, repos.MemberRepo, container.Ledger)

	container.Declaration = NewDeclarationService(
		repos.DeclarationRepo,
		repos.MemberRepo,
		repos.JournalRepo,
		container.Cycle,
		container.Penalty,
		container.Ledger,
	)

	container.Deposit = NewDepositService(
		repos.DepositRepo,
		repos.DeclarationRepo,
		repos.LoanRepo,
		container.Cycle,
		container.Penalty,
		container.Ledger,
		cfg.DepositTolerance,
	)

	container.Loan = NewLoanService(
		repos.LoanRepo,
		repos.MemberRepo,
		container.Cycle,
		container.Penalty,
		container.Ledger,
	)

	return container
}
