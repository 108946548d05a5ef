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
	ErrProofAmount       = fmt.Errorf("%w: proof amount must be positive with at most two decimal places", apperrors.ErrValidation)
	ErrProofMismatch     = fmt.Errorf("%w: proof amount does not match the declared total", apperrors.ErrValidation)
	ErrProofTransition   = fmt.Errorf("%w: proof is not in a reviewable state", apperrors.ErrConflict)
	ErrProofAlreadyOpen  = fmt.Errorf("%w: declaration already has a proof under review", apperrors.ErrConflict)
	ErrDeclarationClosed = fmt.Errorf("%w: declaration is not awaiting a proof", apperrors.ErrConflict)
)

// depositService manages deposit verification. Approving a proof is the
// settlement moment of the whole monthly flow: one balanced entry moves the
// banked money onto the member's declared destinations.
type depositService struct {
	BaseService
	depositRepo     portsrepo.DepositRepositoryFacade
	declarationRepo portsrepo.DeclarationRepositoryFacade
	loanRepo        portsrepo.LoanRepositoryFacade
	cycleSvc        portssvc.CycleSvcFacade
	penaltySvc      portssvc.PenaltySvcFacade
	ledgerSvc       portssvc.LedgerSvcFacade

	// tolerance is the maximum absolute difference allowed between the banked
	// amount and the declared total.
	tolerance decimal.Decimal
}

// NewDepositService creates a new deposit service.
func NewDepositService(
	depositRepo portsrepo.DepositRepositoryFacade,
	declarationRepo portsrepo.DeclarationRepositoryFacade,
	loanRepo portsrepo.LoanRepositoryFacade,
	cycleSvc portssvc.CycleSvcFacade,
	penaltySvc portssvc.PenaltySvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	tolerance decimal.Decimal,
) portssvc.DepositSvcFacade {
	return &depositService{
		depositRepo:     depositRepo,
		declarationRepo: declarationRepo,
		loanRepo:        loanRepo,
		cycleSvc:        cycleSvc,
		penaltySvc:      penaltySvc,
		ledgerSvc:       ledgerSvc,
		tolerance:       tolerance,
	}
}

var _ portssvc.DepositSvcFacade = (*depositService)(nil)

func (s *depositService) GetProofByID(ctx context.Context, proofID string) (*domain.DepositProof, error) {
	return s.depositRepo.FindProofByID(ctx, proofID)
}

func (s *depositService) ListProofsByStatus(ctx context.Context, status domain.DepositProofStatus, limit int) ([]domain.DepositProof, error) {
	proofs, err := s.depositRepo.ListProofsByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(proofs) > limit {
		proofs = proofs[:limit]
	}
	return proofs, nil
}

func (s *depositService) SubmitProof(ctx context.Context, memberID string, req dto.SubmitProofRequest, now time.Time) (*domain.DepositProof, error) {
	declaration, err := s.declarationRepo.FindDeclarationByID(ctx, req.DeclarationID)
	if err != nil {
		return nil, err
	}
	if declaration.MemberID != memberID {
		return nil, fmt.Errorf("%w: declaration belongs to another member", apperrors.ErrForbidden)
	}
	if declaration.Status != domain.DeclarationPending && declaration.Status != domain.DeclarationRejected {
		return nil, fmt.Errorf("%w (status %s)", ErrDeclarationClosed, declaration.Status)
	}

	if !accounting.IsMonetary(req.Amount) || req.Amount.IsZero() {
		return nil, ErrProofAmount
	}

	existing, err := s.depositRepo.FindProofByDeclarationID(ctx, req.DeclarationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status == domain.ProofSubmitted {
		return nil, ErrProofAlreadyOpen
	}

	phase, _, err := s.cycleSvc.GetOpenPhase(ctx, domain.PhaseDeposits)
	if err != nil {
		return nil, err
	}

	proof := domain.DepositProof{
		ProofID:       uuid.NewString(),
		DeclarationID: declaration.DeclarationID,
		MemberID:      memberID,
		FileRef:       req.FileRef,
		Amount:        req.Amount,
		Status:        domain.ProofSubmitted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     memberID,
			LastUpdatedAt: now,
			LastUpdatedBy: memberID,
		},
	}
	if err := s.depositRepo.SaveProof(ctx, proof); err != nil {
		return nil, err
	}

	declaration.Status = domain.DeclarationProof
	declaration.LastUpdatedAt = now
	declaration.LastUpdatedBy = memberID
	if err := s.declarationRepo.UpdateDeclaration(ctx, *declaration); err != nil {
		return nil, err
	}

	if phase.IsLateForDeposit(declaration.EffectiveMonth, now) {
		if penaltyReq := phase.LatePenaltyRequest(memberID, domain.PeriodKey(declaration.EffectiveMonth)); penaltyReq != nil {
			if _, err := s.penaltySvc.RaiseAutoPenalty(ctx, *penaltyReq, memberID, now); err != nil {
				return nil, err
			}
		}
	}

	s.LogInfo(ctx, "Deposit proof submitted",
		slog.String("proof_id", proof.ProofID),
		slog.String("declaration_id", declaration.DeclarationID),
		slog.String("amount", req.Amount.String()),
	)
	return &proof, nil
}

func (s *depositService) ApproveProof(ctx context.Context, proofID string, approverID string, now time.Time) (*domain.DepositProof, error) {
	proof, err := s.depositRepo.FindProofByID(ctx, proofID)
	if err != nil {
		return nil, err
	}
	// REJECTED is approvable too: the officer may accept a corrected
	// resubmission of the same proof.
	if proof.Status != domain.ProofSubmitted && proof.Status != domain.ProofRejected {
		return nil, fmt.Errorf("%w (status %s)", ErrProofTransition, proof.Status)
	}

	declaration, err := s.declarationRepo.FindDeclarationByID(ctx, proof.DeclarationID)
	if err != nil {
		return nil, err
	}

	declaredTotal := declaration.Amounts.Total()
	if proof.Amount.Sub(declaredTotal).Abs().GreaterThan(s.tolerance) {
		return nil, fmt.Errorf("%w: banked %s, declared %s", ErrProofMismatch, proof.Amount, declaredTotal)
	}

	if err := s.postDepositEntry(ctx, declaration, approverID, now); err != nil {
		return nil, err
	}

	if err := s.settlePenalties(ctx, declaration, approverID, now); err != nil {
		return nil, err
	}

	if declaration.Amounts.LoanRepayment.IsPositive() {
		if err := s.closeLoanIfSettled(ctx, declaration.MemberID, approverID, now); err != nil {
			return nil, err
		}
	}

	proof.Status = domain.ProofApproved
	proof.LastUpdatedAt = now
	proof.LastUpdatedBy = approverID
	if err := s.depositRepo.UpdateProof(ctx, *proof); err != nil {
		return nil, err
	}

	declaration.Status = domain.DeclarationApproved
	declaration.LastUpdatedAt = now
	declaration.LastUpdatedBy = approverID
	if err := s.declarationRepo.UpdateDeclaration(ctx, *declaration); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Deposit approved",
		slog.String("proof_id", proofID),
		slog.String("declaration_id", declaration.DeclarationID),
		slog.String("declared_total", declaredTotal.String()),
	)
	return proof, nil
}

func (s *depositService) RejectProof(ctx context.Context, proofID string, req dto.RejectProofRequest, requestingUserID string, now time.Time) (*domain.DepositProof, error) {
	proof, err := s.depositRepo.FindProofByID(ctx, proofID)
	if err != nil {
		return nil, err
	}
	if proof.Status != domain.ProofSubmitted {
		return nil, fmt.Errorf("%w (status %s)", ErrProofTransition, proof.Status)
	}

	declaration, err := s.declarationRepo.FindDeclarationByID(ctx, proof.DeclarationID)
	if err != nil {
		return nil, err
	}

	proof.Status = domain.ProofRejected
	proof.OfficerComment = req.Comment
	proof.LastUpdatedAt = now
	proof.LastUpdatedBy = requestingUserID
	if err := s.depositRepo.UpdateProof(ctx, *proof); err != nil {
		return nil, err
	}

	declaration.Status = domain.DeclarationRejected
	declaration.LastUpdatedAt = now
	declaration.LastUpdatedBy = requestingUserID
	if err := s.declarationRepo.UpdateDeclaration(ctx, *declaration); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Deposit proof rejected",
		slog.String("proof_id", proofID),
		slog.String("comment", req.Comment),
	)
	return proof, nil
}

// postDepositEntry books the verified deposit. The entry is built from the
// declared portions so it balances exactly; the tolerance only governs
// whether the banked amount is close enough to accept.
func (s *depositService) postDepositEntry(ctx context.Context, declaration *domain.Declaration, approverID string, now time.Time) error {
	memberID := declaration.MemberID
	if err := s.ledgerSvc.EnsureMemberAccounts(ctx, memberID, approverID, now); err != nil {
		return err
	}
	cash, err := s.ledgerSvc.EnsureOrgAccount(ctx, domain.OrgBankCash, approverID, now)
	if err != nil {
		return err
	}

	a := declaration.Amounts
	lines := []domain.LineSpec{
		{AccountID: cash.AccountID, LineType: domain.Debit, Amount: a.Total()},
	}

	credit := func(code string, amount decimal.Decimal) error {
		if !amount.IsPositive() {
			return nil
		}
		account, err := s.ledgerSvc.GetAccountByCode(ctx, code)
		if err != nil {
			return err
		}
		lines = append(lines, domain.LineSpec{AccountID: account.AccountID, LineType: domain.Credit, Amount: amount})
		return nil
	}

	if err := credit(domain.MemberAccountCode(memberID, domain.MemberSavings), a.Savings); err != nil {
		return err
	}
	if err := credit(domain.MemberAccountCode(memberID, domain.MemberSocialDue), a.SocialFund); err != nil {
		return err
	}
	if err := credit(domain.MemberAccountCode(memberID, domain.MemberAdminDue), a.AdminFund); err != nil {
		return err
	}
	if err := credit(domain.MemberAccountCode(memberID, domain.MemberPenaltyDue), a.Penalties); err != nil {
		return err
	}
	if a.LoanInterest.IsPositive() {
		income, err := s.ledgerSvc.EnsureOrgAccount(ctx, domain.OrgInterestIncome, approverID, now)
		if err != nil {
			return err
		}
		lines = append(lines, domain.LineSpec{AccountID: income.AccountID, LineType: domain.Credit, Amount: a.LoanInterest})
	}
	if err := credit(domain.MemberAccountCode(memberID, domain.MemberLoansReceivable), a.LoanRepayment); err != nil {
		return err
	}

	_, err = s.ledgerSvc.PostEntry(ctx, dto.PostEntryInput{
		Date:            now,
		Description:     fmt.Sprintf("Deposit for %s", domain.PeriodKey(declaration.EffectiveMonth)),
		Source:          domain.SourceDeposit,
		SourceReference: declaration.DeclarationID,
		CycleID:         &declaration.CycleID,
		Lines:           lines,
	}, approverID)
	return err
}

// settlePenalties marks the member's APPROVED penalties PAID, oldest first,
// while the declared penalty amount still covers them in full. Partial
// settlement is not done; a penalty stays APPROVED until fully covered.
func (s *depositService) settlePenalties(ctx context.Context, declaration *domain.Declaration, approverID string, now time.Time) error {
	remaining := declaration.Amounts.Penalties
	if !remaining.IsPositive() {
		return nil
	}

	unpaid, err := s.penaltySvc.ListUnpaidPenalties(ctx, declaration.MemberID)
	if err != nil {
		return err
	}

	for _, penalty := range unpaid {
		if remaining.LessThan(penalty.Amount) {
			break
		}
		if _, err := s.penaltySvc.MarkPenaltyPaid(ctx, penalty.PenaltyID, approverID, now); err != nil {
			return err
		}
		remaining = remaining.Sub(penalty.Amount)
	}
	return nil
}

// closeLoanIfSettled closes the member's open loan once its receivable
// balance has reached exactly zero.
func (s *depositService) closeLoanIfSettled(ctx context.Context, memberID string, approverID string, now time.Time) error {
	loan, err := s.loanRepo.FindOpenLoanByMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	receivable, err := s.ledgerSvc.GetAccountByCode(ctx, domain.MemberAccountCode(memberID, domain.MemberLoansReceivable))
	if err != nil {
		return err
	}
	balance, err := s.ledgerSvc.CalculateAccountBalance(ctx, receivable.AccountID, nil)
	if err != nil {
		return err
	}
	if !balance.IsZero() {
		return nil
	}

	if err := s.loanRepo.UpdateLoanStatus(ctx, loan.LoanID, domain.LoanClosed, &now, approverID, now); err != nil {
		return err
	}

	s.LogInfo(ctx, "Loan closed",
		slog.String("loan_id", loan.LoanID),
		slog.String("member_id", memberID),
	)
	return nil
}
