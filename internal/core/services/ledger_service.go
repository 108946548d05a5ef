package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
	"github.com/teddynyambe/luboss-vb-sub000/internal/utils/accounting"
)

var (
	ErrEntryUnbalanced  = fmt.Errorf("%w: entry debits and credits differ", apperrors.ErrValidation)
	ErrEntryMinLines    = fmt.Errorf("%w: entry must have at least two lines", apperrors.ErrValidation)
	ErrEntryMinAccounts = fmt.Errorf("%w: entry must affect at least two different accounts", apperrors.ErrValidation)
	ErrAmountInvalid    = fmt.Errorf("%w: line amount must be positive with at most two decimal places", apperrors.ErrValidation)
	ErrAccountUnknown   = fmt.Errorf("%w: entry references an unknown or inactive account", apperrors.ErrValidation)
	ErrAlreadyReversed  = fmt.Errorf("%w: journal is already reversed", apperrors.ErrConflict)
)

// orgAccountNames maps organization account codes to their display names and
// accounting types. Organization accounts are created lazily on first post.
var orgAccountNames = map[string]struct {
	Name string
	Type domain.AccountType
}{
	domain.OrgBankCash:       {"Group bank account", domain.Asset},
	domain.OrgSocialFund:     {"Social fund", domain.Liability},
	domain.OrgAdminFund:      {"Administration fund", domain.Liability},
	domain.OrgPenaltyIncome:  {"Penalty income", domain.Income},
	domain.OrgInterestIncome: {"Loan interest income", domain.Income},
}

// memberAccountNames maps member account kinds to display name suffixes.
var memberAccountNames = map[domain.MemberAccountKind]string{
	domain.MemberSavings:         "Savings",
	domain.MemberSocialDue:       "Social fund due",
	domain.MemberAdminDue:        "Admin fund due",
	domain.MemberPenaltyDue:      "Penalties due",
	domain.MemberLoansReceivable: "Loans receivable",
}

// ledgerService is the single write path to the journal. Every workflow
// posts through it so the balance and polarity invariants are checked in
// exactly one place.
type ledgerService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateEntry checks the structural rules of a prospective entry: at least
// two lines over two accounts, positive two-decimal amounts, and equal debit
// and credit totals.
func (s *ledgerService) validateEntry(lines []domain.LineSpec) error {
	if len(lines) < 2 {
		return ErrEntryMinLines
	}

	accounts := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if !accounting.IsMonetary(l.Amount) || l.Amount.IsZero() {
			return fmt.Errorf("%w (account %s)", ErrAmountInvalid, l.AccountID)
		}
		accounts[l.AccountID] = struct{}{}
	}
	if len(accounts) < 2 {
		return ErrEntryMinAccounts
	}

	debits, credits := accounting.SumSides(lines)
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s", ErrEntryUnbalanced, debits, credits)
	}
	return nil
}

// resolveAccounts loads every account referenced by the lines and rejects
// unknown or inactive ones.
func (s *ledgerService) resolveAccounts(ctx context.Context, lines []domain.LineSpec) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts for entry: %w", err)
	}
	for _, id := range ids {
		acct, ok := accounts[id]
		if !ok || !acct.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrAccountUnknown, id)
		}
	}
	return accounts, nil
}

func (s *ledgerService) PostEntry(ctx context.Context, input dto.PostEntryInput, creatorID string) (*domain.Journal, error) {
	logger := s.GetLogger(ctx)

	if err := s.validateEntry(input.Lines); err != nil {
		return nil, err
	}
	if _, err := s.resolveAccounts(ctx, input.Lines); err != nil {
		return nil, err
	}

	debits, _ := accounting.SumSides(input.Lines)

	now := input.Date
	journalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorID,
	}

	journal := domain.Journal{
		JournalID:         journalID,
		JournalDate:       input.Date,
		Description:       input.Description,
		Source:            input.Source,
		SourceReference:   input.SourceReference,
		CycleID:           input.CycleID,
		OriginalJournalID: input.OriginalJournalID,
		Status:            domain.Posted,
		Amount:            debits,
		AuditFields:       audit,
	}

	lines := make([]domain.JournalLine, len(input.Lines))
	for i, spec := range input.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   spec.AccountID,
			Amount:      spec.Amount,
			LineType:    spec.LineType,
			Notes:       spec.Notes,
			AuditFields: audit,
		}
	}

	if err := s.journalRepo.SaveJournal(ctx, journal, lines); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("source", string(input.Source)))
		return nil, err
	}

	logger.Info("Journal entry posted",
		slog.String("journal_id", journalID),
		slog.String("source", string(input.Source)),
		slog.String("amount", debits.String()),
	)

	journal.Lines = lines
	return &journal, nil
}

func (s *ledgerService) ReverseJournal(ctx context.Context, journalID string, requestingUserID string, now time.Time) (*domain.Journal, error) {
	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyReversed, journalID)
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, err
	}

	specs := make([]domain.LineSpec, len(lines))
	for i, l := range lines {
		specs[i] = domain.LineSpec{
			AccountID: l.AccountID,
			LineType:  l.LineType.Opposite(),
			Amount:    l.Amount,
			Notes:     l.Notes,
		}
	}

	reversal, err := s.PostEntry(ctx, dto.PostEntryInput{
		Date:              now,
		Description:       fmt.Sprintf("Reversal of %s", original.Description),
		Source:            domain.SourceReversal,
		SourceReference:   original.JournalID,
		CycleID:           original.CycleID,
		OriginalJournalID: &original.JournalID,
		Lines:             specs,
	}, requestingUserID)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.UpdateJournalStatusAndLinks(ctx, original.JournalID, domain.Reversed, &reversal.JournalID, requestingUserID, now); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal reversed",
		slog.String("journal_id", original.JournalID),
		slog.String("reversal_id", reversal.JournalID),
	)
	return reversal, nil
}

func (s *ledgerService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	journal.Lines = lines
	return journal, nil
}

func (s *ledgerService) ListJournals(ctx context.Context, cycleID *string, source *domain.JournalSource, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.journalRepo.ListJournals(ctx, cycleID, source, limit, nextToken)
}

func (s *ledgerService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{NextToken: nextToken}
	for _, l := range lines {
		resp.Transactions = append(resp.Transactions, dto.ToLineResponse(l))
	}
	return resp, nil
}

func (s *ledgerService) CalculateAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	return s.journalRepo.AccountBalance(ctx, accountID, asOf)
}

func (s *ledgerService) GetBalanceByCode(ctx context.Context, code string, asOf *time.Time) (*dto.BalanceResponse, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	balance, err := s.journalRepo.AccountBalance(ctx, account.AccountID, asOf)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		AccountID: account.AccountID,
		Code:      account.Code,
		Balance:   balance,
		AsOf:      asOf,
	}, nil
}

func (s *ledgerService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

func (s *ledgerService) ListMemberAccounts(ctx context.Context, memberID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByOwner(ctx, &memberID)
}

func (s *ledgerService) EnsureOrgAccount(ctx context.Context, code string, creatorID string, now time.Time) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	spec, ok := orgAccountNames[code]
	if !ok {
		return nil, fmt.Errorf("%w: unknown organization account code %s", apperrors.ErrValidation, code)
	}

	created := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        code,
		Name:        spec.Name,
		AccountType: spec.Type,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, created); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Organization account created", slog.String("code", code))
	return &created, nil
}

func (s *ledgerService) EnsureMemberAccounts(ctx context.Context, memberID string, creatorID string, now time.Time) error {
	for kind, suffix := range memberAccountNames {
		code := domain.MemberAccountCode(memberID, kind)
		_, err := s.accountRepo.FindAccountByCode(ctx, code)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		account := domain.Account{
			AccountID:     uuid.NewString(),
			Code:          code,
			Name:          suffix,
			AccountType:   domain.TypeForMemberAccount(kind),
			OwnerMemberID: &memberID,
			IsActive:      true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return err
		}
	}
	return nil
}
