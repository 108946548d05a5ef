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
	ErrDeclarationExists      = fmt.Errorf("%w: declaration already exists for that month", apperrors.ErrDuplicate)
	ErrDeclarationMonth       = fmt.Errorf("%w: effective month must use the YYYY-MM form", apperrors.ErrValidation)
	ErrDeclarationAmounts     = fmt.Errorf("%w: declared amounts must be non-negative with at most two decimal places", apperrors.ErrValidation)
	ErrDeclarationNotEditable = fmt.Errorf("%w: declaration is not editable in its current state", apperrors.ErrConflict)
	ErrMemberNotActive        = fmt.Errorf("%w: member is not active", apperrors.ErrConflict)
)

// declarationService manages monthly declarations. Creating a member's first
// declaration of a cycle also books their annual fund obligations.
type declarationService struct {
	BaseService
	declarationRepo portsrepo.DeclarationRepositoryFacade
	memberRepo      portsrepo.MemberReader
	journalReader   portsrepo.JournalReader
	cycleSvc        portssvc.CycleSvcFacade
	penaltySvc      portssvc.PenaltySvcFacade
	ledgerSvc       portssvc.LedgerSvcFacade
}

// NewDeclarationService creates a new declaration service.
func NewDeclarationService(
	declarationRepo portsrepo.DeclarationRepositoryFacade,
	memberRepo portsrepo.MemberReader,
	journalReader portsrepo.JournalReader,
	cycleSvc portssvc.CycleSvcFacade,
	penaltySvc portssvc.PenaltySvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
) portssvc.DeclarationSvcFacade {
	return &declarationService{
		declarationRepo: declarationRepo,
		memberRepo:      memberRepo,
		journalReader:   journalReader,
		cycleSvc:        cycleSvc,
		penaltySvc:      penaltySvc,
		ledgerSvc:       ledgerSvc,
	}
}

var _ portssvc.DeclarationSvcFacade = (*declarationService)(nil)

func (s *declarationService) GetDeclarationByID(ctx context.Context, declarationID string) (*domain.Declaration, error) {
	return s.declarationRepo.FindDeclarationByID(ctx, declarationID)
}

func (s *declarationService) ListMemberDeclarations(ctx context.Context, memberID string, cycleID string) ([]domain.Declaration, error) {
	return s.declarationRepo.ListDeclarationsByMember(ctx, memberID, cycleID)
}

// GetCurrentDeclaration retrieves the member's declaration for the current
// month of the active cycle.
func (s *declarationService) GetCurrentDeclaration(ctx context.Context, memberID string, now time.Time) (*domain.Declaration, error) {
	cycle, err := s.cycleSvc.GetActiveCycle(ctx)
	if err != nil {
		return nil, err
	}
	return s.declarationRepo.FindDeclaration(ctx, memberID, cycle.CycleID, domain.FirstOfMonth(now))
}

func (s *declarationService) ListDeclarationsByMonth(ctx context.Context, cycleID string, effectiveMonth time.Time) ([]domain.Declaration, error) {
	return s.declarationRepo.ListDeclarationsByMonth(ctx, cycleID, domain.FirstOfMonth(effectiveMonth))
}

func validateAmounts(a domain.DeclarationAmounts) error {
	checks := []bool{
		accounting.IsMonetary(a.Savings),
		accounting.IsMonetary(a.SocialFund),
		accounting.IsMonetary(a.AdminFund),
		accounting.IsMonetary(a.Penalties),
		accounting.IsMonetary(a.LoanInterest),
		accounting.IsMonetary(a.LoanRepayment),
	}
	for _, ok := range checks {
		if !ok {
			return ErrDeclarationAmounts
		}
	}
	return nil
}

func (s *declarationService) CreateDeclaration(ctx context.Context, memberID string, req dto.CreateDeclarationRequest, now time.Time) (*domain.Declaration, error) {
	month, err := time.ParseInLocation("2006-01", req.EffectiveMonth, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrDeclarationMonth, req.EffectiveMonth)
	}
	effectiveMonth := domain.FirstOfMonth(month)

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, fmt.Errorf("%w (%s)", ErrMemberNotActive, memberID)
	}

	phase, cycle, err := s.cycleSvc.GetOpenPhase(ctx, domain.PhaseDeclaration)
	if err != nil {
		return nil, err
	}

	amounts := req.Amounts.ToDomain()
	if err := validateAmounts(amounts); err != nil {
		return nil, err
	}

	existing, err := s.declarationRepo.FindDeclaration(ctx, memberID, cycle.CycleID, effectiveMonth)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w (%s)", ErrDeclarationExists, req.EffectiveMonth)
	}

	declaration := domain.Declaration{
		DeclarationID:  uuid.NewString(),
		MemberID:       memberID,
		CycleID:        cycle.CycleID,
		EffectiveMonth: effectiveMonth,
		Amounts:        amounts,
		Status:         domain.DeclarationPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     memberID,
			LastUpdatedAt: now,
			LastUpdatedBy: memberID,
		},
	}
	if err := s.declarationRepo.SaveDeclaration(ctx, declaration); err != nil {
		return nil, err
	}

	if err := s.postFundingEntryOnce(ctx, memberID, cycle, now); err != nil {
		return nil, err
	}

	if phase.IsLateForDeclaration(effectiveMonth, now) {
		if penaltyReq := phase.LatePenaltyRequest(memberID, domain.PeriodKey(effectiveMonth)); penaltyReq != nil {
			if _, err := s.penaltySvc.RaiseAutoPenalty(ctx, *penaltyReq, memberID, now); err != nil {
				return nil, err
			}
		}
	}

	s.LogInfo(ctx, "Declaration created",
		slog.String("declaration_id", declaration.DeclarationID),
		slog.String("member_id", memberID),
		slog.String("effective_month", req.EffectiveMonth),
	)
	return &declaration, nil
}

// postFundingEntryOnce books the member's annual social and admin fund
// obligations the first time they declare in a cycle. The journal source
// reference keys the entry on (member, cycle) so retries and later
// declarations never double-book.
func (s *declarationService) postFundingEntryOnce(ctx context.Context, memberID string, cycle *domain.Cycle, now time.Time) error {
	reference := fmt.Sprintf("%s:%s", memberID, cycle.CycleID)

	existing, err := s.journalReader.FindJournalBySource(ctx, domain.SourceDeclarationFunding, reference)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if existing != nil {
		return nil
	}
	if cycle.SocialFundAnnual.IsZero() && cycle.AdminFundAnnual.IsZero() {
		return nil
	}

	if err := s.ledgerSvc.EnsureMemberAccounts(ctx, memberID, memberID, now); err != nil {
		return err
	}

	var lines []domain.LineSpec
	if cycle.SocialFundAnnual.IsPositive() {
		socialDue, err := s.ledgerSvc.GetAccountByCode(ctx, domain.MemberAccountCode(memberID, domain.MemberSocialDue))
		if err != nil {
			return err
		}
		socialFund, err := s.ledgerSvc.EnsureOrgAccount(ctx, domain.OrgSocialFund, memberID, now)
		if err != nil {
			return err
		}
		lines = append(lines,
			domain.LineSpec{AccountID: socialDue.AccountID, LineType: domain.Debit, Amount: cycle.SocialFundAnnual},
			domain.LineSpec{AccountID: socialFund.AccountID, LineType: domain.Credit, Amount: cycle.SocialFundAnnual},
		)
	}
	if cycle.AdminFundAnnual.IsPositive() {
		adminDue, err := s.ledgerSvc.GetAccountByCode(ctx, domain.MemberAccountCode(memberID, domain.MemberAdminDue))
		if err != nil {
			return err
		}
		adminFund, err := s.ledgerSvc.EnsureOrgAccount(ctx, domain.OrgAdminFund, memberID, now)
		if err != nil {
			return err
		}
		lines = append(lines,
			domain.LineSpec{AccountID: adminDue.AccountID, LineType: domain.Debit, Amount: cycle.AdminFundAnnual},
			domain.LineSpec{AccountID: adminFund.AccountID, LineType: domain.Credit, Amount: cycle.AdminFundAnnual},
		)
	}

	_, err = s.ledgerSvc.PostEntry(ctx, dto.PostEntryInput{
		Date:            now,
		Description:     fmt.Sprintf("Annual fund obligations for cycle %d", cycle.Year),
		Source:          domain.SourceDeclarationFunding,
		SourceReference: reference,
		CycleID:         &cycle.CycleID,
		Lines:           lines,
	}, memberID)
	return err
}

func (s *declarationService) UpdateDeclaration(ctx context.Context, declarationID string, req dto.UpdateDeclarationRequest, requestingUserID string, isOfficer bool, now time.Time) (*domain.Declaration, error) {
	declaration, err := s.declarationRepo.FindDeclarationByID(ctx, declarationID)
	if err != nil {
		return nil, err
	}
	if declaration.MemberID != requestingUserID && !isOfficer {
		return nil, fmt.Errorf("%w: declaration belongs to another member", apperrors.ErrForbidden)
	}

	// Past months are immutable regardless of status.
	if !domain.FirstOfMonth(now).Equal(declaration.EffectiveMonth) {
		return nil, fmt.Errorf("%w: only the current month's declaration is editable", ErrDeclarationNotEditable)
	}

	switch declaration.Status {
	case domain.DeclarationPending, domain.DeclarationProof:
		// Editable until approved.
	case domain.DeclarationRejected:
		declaration.Status = domain.DeclarationPending
	case domain.DeclarationApproved:
		if !isOfficer || !req.AllowApprovedEdit {
			return nil, fmt.Errorf("%w (status %s)", ErrDeclarationNotEditable, declaration.Status)
		}
	default:
		return nil, fmt.Errorf("%w (status %s)", ErrDeclarationNotEditable, declaration.Status)
	}

	amounts := req.Amounts.ToDomain()
	if err := validateAmounts(amounts); err != nil {
		return nil, err
	}

	declaration.Amounts = amounts
	declaration.LastUpdatedAt = now
	declaration.LastUpdatedBy = requestingUserID

	if err := s.declarationRepo.UpdateDeclaration(ctx, *declaration); err != nil {
		return nil, err
	}
	return declaration, nil
}
