package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// LedgerReaderSvc defines read operations over journals and lines.
type LedgerReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves journals filtered by cycle and source, newest first.
	ListJournals(ctx context.Context, cycleID *string, source *domain.JournalSource, limit int, nextToken *string) ([]domain.Journal, *string, error)

	// ListTransactionsByAccount retrieves a keyset-paginated page of lines for one account.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines posting operations. PostEntry is the single write
// path to the journal; all workflows funnel through it.
type LedgerWriterSvc interface {
	// PostEntry validates and atomically persists a balanced journal entry.
	PostEntry(ctx context.Context, input dto.PostEntryInput, creatorID string) (*domain.Journal, error)

	// ReverseJournal posts a mirror-image entry and links the pair.
	ReverseJournal(ctx context.Context, journalID string, requestingUserID string, now time.Time) (*domain.Journal, error)
}

// LedgerCalculatorSvc defines balance derivation. Balances are always summed
// from journal lines, never read from a stored column.
type LedgerCalculatorSvc interface {
	// CalculateAccountBalance sums the signed lines of an account, optionally as of a date.
	CalculateAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)

	// GetBalanceByCode resolves an account code and returns its derived balance.
	GetBalanceByCode(ctx context.Context, code string, asOf *time.Time) (*dto.BalanceResponse, error)
}

// AccountManagerSvc defines chart-of-accounts operations.
type AccountManagerSvc interface {
	// EnsureMemberAccounts creates the member's five ledger accounts if missing.
	EnsureMemberAccounts(ctx context.Context, memberID string, creatorID string, now time.Time) error

	// EnsureOrgAccount retrieves an organization account by code, creating it
	// on first use.
	EnsureOrgAccount(ctx context.Context, code string, creatorID string, now time.Time) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its unique code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListMemberAccounts retrieves all accounts owned by a member.
	ListMemberAccounts(ctx context.Context, memberID string) ([]domain.Account, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerCalculatorSvc
	AccountManagerSvc
}
