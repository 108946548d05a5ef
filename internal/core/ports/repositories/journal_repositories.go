package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalBySource retrieves the journal posted with the given source
	// tag and reference, if any. Workflows use it for post-at-most-once checks.
	FindJournalBySource(ctx context.Context, source domain.JournalSource, sourceReference string) (*domain.Journal, error)

	// ListJournals retrieves a keyset-paginated list of journals, optionally
	// filtered by cycle and source, newest first.
	ListJournals(ctx context.Context, cycleID *string, source *domain.JournalSource, limit int, nextToken *string) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// SaveJournal persists a journal and all its lines atomically; either the
	// whole entry lands or nothing does.
	SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error

	// UpdateJournalStatusAndLinks updates the status and reversal linkage of a journal.
	UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, updatedByUserID string, updatedAt time.Time) error
}

// LineReader defines read operations for journal line data.
type LineReader interface {
	// FindLinesByJournalID retrieves all lines of a single journal.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListLinesByAccountID retrieves a keyset-paginated list of lines for one account.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)

	// AccountBalance derives the balance of an account by summing its journal
	// lines with the polarity of the account's type. Balances are never stored.
	AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LineReader
}
