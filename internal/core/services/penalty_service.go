package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
	"github.com/teddynyambe/luboss-vb-sub000/internal/utils/accounting"
)

var (
	ErrPenaltyTransition = fmt.Errorf("%w: penalty cannot make that transition", apperrors.ErrConflict)
	ErrPenaltyDuplicate  = fmt.Errorf("%w: penalty already exists for member, type and period", apperrors.ErrDuplicate)
	ErrPenaltyTypeFee    = fmt.Errorf("%w: penalty fee must be positive with at most two decimal places", apperrors.ErrValidation)
)

// penaltyService manages the penalty lifecycle. Approval is the accounting
// moment: an APPROVED penalty has an accrual entry in the ledger, a PAID one
// has been settled through a deposit.
type penaltyService struct {
	BaseService
	penaltyRepo portsrepo.PenaltyRepositoryFacade
	memberRepo  portsrepo.MemberReader
	ledgerSvc   portssvc.LedgerSvcFacade
}

// NewPenaltyService creates a new penalty service.
func NewPenaltyService(penaltyRepo portsrepo.PenaltyRepositoryFacade, memberRepo portsrepo.MemberReader, ledgerSvc portssvc.LedgerSvcFacade) portssvc.PenaltySvcFacade {
	return &penaltyService{
		penaltyRepo: penaltyRepo,
		memberRepo:  memberRepo,
		ledgerSvc:   ledgerSvc,
	}
}

var _ portssvc.PenaltySvcFacade = (*penaltyService)(nil)

func (s *penaltyService) GetPenaltyByID(ctx context.Context, penaltyID string) (*domain.PenaltyRecord, error) {
	return s.penaltyRepo.FindPenaltyByID(ctx, penaltyID)
}

func (s *penaltyService) ListPenaltiesByStatus(ctx context.Context, status domain.PenaltyStatus, limit int) ([]domain.PenaltyRecord, error) {
	penalties, err := s.penaltyRepo.ListPenaltiesByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(penalties) > limit {
		penalties = penalties[:limit]
	}
	return penalties, nil
}

// ListUnpaidPenalties returns the member's APPROVED penalties oldest first.
// These are the only penalties a deposit can settle; PENDING ones have no
// accrual entry yet and PAID ones are done.
func (s *penaltyService) ListUnpaidPenalties(ctx context.Context, memberID string) ([]domain.PenaltyRecord, error) {
	penalties, err := s.penaltyRepo.ListUnpaidPenaltiesByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	approved := penalties[:0]
	for _, p := range penalties {
		if p.Status == domain.PenaltyApproved {
			approved = append(approved, p)
		}
	}
	return approved, nil
}

func (s *penaltyService) ListPenaltyTypes(ctx context.Context) ([]domain.PenaltyType, error) {
	return s.penaltyRepo.ListPenaltyTypes(ctx)
}

func (s *penaltyService) CreatePenaltyType(ctx context.Context, req dto.CreatePenaltyTypeRequest, creatorID string, now time.Time) (*domain.PenaltyType, error) {
	if !accounting.IsMonetary(req.Fee) || req.Fee.IsZero() {
		return nil, ErrPenaltyTypeFee
	}

	penaltyType := domain.PenaltyType{
		PenaltyTypeID: uuid.NewString(),
		Name:          req.Name,
		Fee:           req.Fee,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.penaltyRepo.SavePenaltyType(ctx, penaltyType); err != nil {
		return nil, err
	}
	return &penaltyType, nil
}

// newPenaltyRecord builds a penalty from its type's fixed fee after the usual
// existence and duplicate checks.
func (s *penaltyService) newPenaltyRecord(ctx context.Context, memberID, penaltyTypeID, period, reason string, creatorID string, now time.Time) (*domain.PenaltyRecord, error) {
	if _, err := s.memberRepo.FindMemberByID(ctx, memberID); err != nil {
		return nil, err
	}
	penaltyType, err := s.penaltyRepo.FindPenaltyTypeByID(ctx, penaltyTypeID)
	if err != nil {
		return nil, err
	}
	if !penaltyType.IsActive {
		return nil, fmt.Errorf("%w: penalty type %s is inactive", apperrors.ErrValidation, penaltyTypeID)
	}
	if period == "" {
		return nil, fmt.Errorf("%w: penalty period is required", apperrors.ErrValidation)
	}

	return &domain.PenaltyRecord{
		PenaltyID:     uuid.NewString(),
		MemberID:      memberID,
		PenaltyTypeID: penaltyTypeID,
		Amount:        penaltyType.Fee,
		Period:        period,
		Reason:        reason,
		Status:        domain.PenaltyPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}, nil
}

func (s *penaltyService) RaisePenalty(ctx context.Context, req dto.CreatePenaltyRequest, creatorID string, now time.Time) (*domain.PenaltyRecord, error) {
	existing, err := s.penaltyRepo.FindMatchingPenalty(ctx, req.MemberID, req.PenaltyTypeID, req.Period)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w (penalty %s)", ErrPenaltyDuplicate, existing.PenaltyID)
	}

	penalty, err := s.newPenaltyRecord(ctx, req.MemberID, req.PenaltyTypeID, req.Period, req.Reason, creatorID, now)
	if err != nil {
		return nil, err
	}
	if err := s.penaltyRepo.SavePenalty(ctx, *penalty); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Penalty raised",
		slog.String("penalty_id", penalty.PenaltyID),
		slog.String("member_id", penalty.MemberID),
		slog.String("period", penalty.Period),
	)
	return penalty, nil
}

// RaiseAutoPenalty is the idempotent entry point used by late-submission
// checks. A second late event for the same (member, type, period) returns the
// existing penalty unchanged.
func (s *penaltyService) RaiseAutoPenalty(ctx context.Context, req domain.PenaltyRequest, creatorID string, now time.Time) (*domain.PenaltyRecord, error) {
	existing, err := s.penaltyRepo.FindMatchingPenalty(ctx, req.MemberID, req.PenaltyTypeID, req.Period)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	penalty, err := s.newPenaltyRecord(ctx, req.MemberID, req.PenaltyTypeID, req.Period, "Late submission", creatorID, now)
	if err != nil {
		return nil, err
	}
	penalty.Status = domain.PenaltyApproved

	journalID, err := s.postAccrual(ctx, penalty, creatorID, now)
	if err != nil {
		return nil, err
	}
	penalty.JournalID = &journalID

	if err := s.penaltyRepo.SavePenalty(ctx, *penalty); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Automatic penalty applied",
		slog.String("penalty_id", penalty.PenaltyID),
		slog.String("member_id", penalty.MemberID),
		slog.String("period", penalty.Period),
	)
	return penalty, nil
}

func (s *penaltyService) ApprovePenalty(ctx context.Context, penaltyID string, approverID string, now time.Time) (*domain.PenaltyRecord, error) {
	penalty, err := s.penaltyRepo.FindPenaltyByID(ctx, penaltyID)
	if err != nil {
		return nil, err
	}
	if !penalty.Status.CanTransitionTo(domain.PenaltyApproved) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrPenaltyTransition, penalty.Status, domain.PenaltyApproved)
	}

	journalID, err := s.postAccrual(ctx, penalty, approverID, now)
	if err != nil {
		return nil, err
	}

	penalty.Status = domain.PenaltyApproved
	penalty.JournalID = &journalID
	penalty.LastUpdatedAt = now
	penalty.LastUpdatedBy = approverID

	if err := s.penaltyRepo.UpdatePenalty(ctx, *penalty); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Penalty approved",
		slog.String("penalty_id", penaltyID),
		slog.String("journal_id", journalID),
	)
	return penalty, nil
}

func (s *penaltyService) MarkPenaltyPaid(ctx context.Context, penaltyID string, requestingUserID string, now time.Time) (*domain.PenaltyRecord, error) {
	penalty, err := s.penaltyRepo.FindPenaltyByID(ctx, penaltyID)
	if err != nil {
		return nil, err
	}
	if !penalty.Status.CanTransitionTo(domain.PenaltyPaid) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrPenaltyTransition, penalty.Status, domain.PenaltyPaid)
	}

	penalty.Status = domain.PenaltyPaid
	penalty.LastUpdatedAt = now
	penalty.LastUpdatedBy = requestingUserID

	if err := s.penaltyRepo.UpdatePenalty(ctx, *penalty); err != nil {
		return nil, err
	}
	return penalty, nil
}

// postAccrual records the penalty in the ledger: the member now owes the
// amount (debit their penalties-due receivable) and the organization has
// earned it (credit penalty income).
func (s *penaltyService) postAccrual(ctx context.Context, penalty *domain.PenaltyRecord, actorID string, now time.Time) (string, error) {
	if err := s.ledgerSvc.EnsureMemberAccounts(ctx, penalty.MemberID, actorID, now); err != nil {
		return "", err
	}
	income, err := s.ledgerSvc.EnsureOrgAccount(ctx, domain.OrgPenaltyIncome, actorID, now)
	if err != nil {
		return "", err
	}
	due, err := s.ledgerSvc.GetAccountByCode(ctx, domain.MemberAccountCode(penalty.MemberID, domain.MemberPenaltyDue))
	if err != nil {
		return "", err
	}

	journal, err := s.ledgerSvc.PostEntry(ctx, dto.PostEntryInput{
		Date:            now,
		Description:     fmt.Sprintf("Penalty accrual for period %s", penalty.Period),
		Source:          domain.SourcePenaltyAccrual,
		SourceReference: penalty.PenaltyID,
		Lines: []domain.LineSpec{
			{AccountID: due.AccountID, LineType: domain.Debit, Amount: penalty.Amount},
			{AccountID: income.AccountID, LineType: domain.Credit, Amount: penalty.Amount},
		},
	}, actorID)
	if err != nil {
		return "", err
	}
	return journal.JournalID, nil
}
