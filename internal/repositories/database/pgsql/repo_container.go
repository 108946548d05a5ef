package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		JournalRepo:     newPgxJournalRepository(dbPool),
		MemberRepo:      newPgxMemberRepository(dbPool),
		CycleRepo:       newPgxCycleRepository(dbPool),
		DeclarationRepo: newPgxDeclarationRepository(dbPool),
		DepositRepo:     newPgxDepositRepository(dbPool),
		LoanRepo:        newPgxLoanRepository(dbPool),
		PenaltyRepo:     newPgxPenaltyRepository(dbPool),
	}
}
