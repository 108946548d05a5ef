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
	ErrLoanAmount          = fmt.Errorf("%w: loan amount must be positive with at most two decimal places", apperrors.ErrValidation)
	ErrLoanTerm            = fmt.Errorf("%w: loan term must be a positive number of months", apperrors.ErrValidation)
	ErrLoanRate            = fmt.Errorf("%w: interest rate is outside the tier's band for that term", apperrors.ErrValidation)
	ErrLoanOverEligibility = fmt.Errorf("%w: requested amount exceeds the member's eligibility", apperrors.ErrValidation)
	ErrLoanOpenExists      = fmt.Errorf("%w: member already has an open loan", apperrors.ErrConflict)
	ErrApplicationExists   = fmt.Errorf("%w: member already has a pending application", apperrors.ErrDuplicate)
	ErrApplicationState    = fmt.Errorf("%w: application is not in a reviewable state", apperrors.ErrConflict)
)

// loanService manages loan applications, eligibility and disbursement.
type loanService struct {
	BaseService
	loanRepo   portsrepo.LoanRepositoryFacade
	memberRepo portsrepo.MemberRepositoryFacade
	cycleSvc   portssvc.CycleSvcFacade
	penaltySvc portssvc.PenaltySvcFacade
	ledgerSvc  portssvc.LedgerSvcFacade
}

// NewLoanService creates a new loan service.
func NewLoanService(
	loanRepo portsrepo.LoanRepositoryFacade,
	memberRepo portsrepo.MemberRepositoryFacade,
	cycleSvc portssvc.CycleSvcFacade,
	penaltySvc portssvc.PenaltySvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:   loanRepo,
		memberRepo: memberRepo,
		cycleSvc:   cycleSvc,
		penaltySvc: penaltySvc,
		ledgerSvc:  ledgerSvc,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// GetEligibility computes the borrowing envelope: savings balance times the
// tier multiplier, capped by the cycle's maximum loan amount. Members without
// a tier borrow at most their savings.
func (s *loanService) GetEligibility(ctx context.Context, memberID string) (*dto.LoanEligibilityResponse, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	cycle, err := s.cycleSvc.GetActiveCycle(ctx)
	if err != nil {
		return nil, err
	}

	savings := decimal.Zero
	savingsAccount, err := s.ledgerSvc.GetAccountByCode(ctx, domain.MemberAccountCode(memberID, domain.MemberSavings))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if savingsAccount != nil {
		savings, err = s.ledgerSvc.CalculateAccountBalance(ctx, savingsAccount.AccountID, nil)
		if err != nil {
			return nil, err
		}
	}

	multiplier := decimal.NewFromInt(1)
	var bands []domain.InterestBand
	if member.TierID != nil {
		tier, err := s.memberRepo.FindTierByID(ctx, *member.TierID)
		if err != nil {
			return nil, err
		}
		multiplier = tier.Multiplier
		bands = tier.Bands
	}

	maxAmount := savings.Mul(multiplier)
	if maxAmount.GreaterThan(cycle.MaxLoanAmount) {
		maxAmount = cycle.MaxLoanAmount
	}

	return &dto.LoanEligibilityResponse{
		SavingsBalance: savings,
		Multiplier:     multiplier,
		MaxAmount:      maxAmount,
		Bands:          bands,
	}, nil
}

// validateTerms checks amount, term and rate against the member's tier.
func (s *loanService) validateTerms(ctx context.Context, memberID string, amount decimal.Decimal, termMonths int, rate decimal.Decimal) error {
	if !accounting.IsMonetary(amount) || amount.IsZero() {
		return ErrLoanAmount
	}
	if termMonths <= 0 {
		return ErrLoanTerm
	}
	if rate.IsNegative() {
		return fmt.Errorf("%w: interest rate must be non-negative", apperrors.ErrValidation)
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member.TierID == nil {
		return nil
	}
	tier, err := s.memberRepo.FindTierByID(ctx, *member.TierID)
	if err != nil {
		return err
	}
	if band, ok := tier.BandForTerm(termMonths); ok {
		if rate.LessThan(band.MinRate) || rate.GreaterThan(band.MaxRate) {
			return fmt.Errorf("%w: %s not in [%s, %s] for %d months", ErrLoanRate, rate, band.MinRate, band.MaxRate, termMonths)
		}
	}
	return nil
}

func (s *loanService) Apply(ctx context.Context, memberID string, req dto.ApplyLoanRequest, now time.Time) (*domain.LoanApplication, error) {
	phase, cycle, err := s.cycleSvc.GetOpenPhase(ctx, domain.PhaseLoanApplication)
	if err != nil {
		return nil, err
	}

	if err := s.validateTerms(ctx, memberID, req.Amount, req.TermMonths, req.InterestRate); err != nil {
		return nil, err
	}

	eligibility, err := s.GetEligibility(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if req.Amount.GreaterThan(eligibility.MaxAmount) {
		return nil, fmt.Errorf("%w: requested %s, maximum %s", ErrLoanOverEligibility, req.Amount, eligibility.MaxAmount)
	}

	openLoan, err := s.loanRepo.FindOpenLoanByMember(ctx, memberID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if openLoan != nil {
		return nil, fmt.Errorf("%w (loan %s)", ErrLoanOpenExists, openLoan.LoanID)
	}

	pending, err := s.loanRepo.FindPendingApplicationByMember(ctx, memberID, cycle.CycleID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("%w (application %s)", ErrApplicationExists, pending.ApplicationID)
	}

	application := domain.LoanApplication{
		ApplicationID: uuid.NewString(),
		MemberID:      memberID,
		CycleID:       cycle.CycleID,
		Amount:        req.Amount,
		TermMonths:    req.TermMonths,
		InterestRate:  req.InterestRate,
		Purpose:       req.Purpose,
		Status:        domain.ApplicationPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     memberID,
			LastUpdatedAt: now,
			LastUpdatedBy: memberID,
		},
	}
	if err := s.loanRepo.SaveApplication(ctx, application); err != nil {
		return nil, err
	}

	if phase.IsLateForLoanApplication(now) {
		if penaltyReq := phase.LatePenaltyRequest(memberID, domain.PeriodKey(now)); penaltyReq != nil {
			if _, err := s.penaltySvc.RaiseAutoPenalty(ctx, *penaltyReq, memberID, now); err != nil {
				return nil, err
			}
		}
	}

	s.LogInfo(ctx, "Loan application created",
		slog.String("application_id", application.ApplicationID),
		slog.String("member_id", memberID),
		slog.String("amount", req.Amount.String()),
	)
	return &application, nil
}

func (s *loanService) getOwnedPendingApplication(ctx context.Context, applicationID string, memberID string) (*domain.LoanApplication, error) {
	application, err := s.loanRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.MemberID != memberID {
		return nil, fmt.Errorf("%w: application belongs to another member", apperrors.ErrForbidden)
	}
	if application.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w (status %s)", ErrApplicationState, application.Status)
	}
	return application, nil
}

func (s *loanService) UpdateApplication(ctx context.Context, applicationID string, memberID string, req dto.UpdateLoanApplicationRequest, now time.Time) (*domain.LoanApplication, error) {
	application, err := s.getOwnedPendingApplication(ctx, applicationID, memberID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		application.Amount = *req.Amount
	}
	if req.TermMonths != nil {
		application.TermMonths = *req.TermMonths
	}
	if req.InterestRate != nil {
		application.InterestRate = *req.InterestRate
	}
	if req.Purpose != nil {
		application.Purpose = *req.Purpose
	}

	if err := s.validateTerms(ctx, memberID, application.Amount, application.TermMonths, application.InterestRate); err != nil {
		return nil, err
	}

	application.LastUpdatedAt = now
	application.LastUpdatedBy = memberID

	if err := s.loanRepo.UpdateApplication(ctx, *application); err != nil {
		return nil, err
	}
	return application, nil
}

func (s *loanService) WithdrawApplication(ctx context.Context, applicationID string, memberID string, now time.Time) (*domain.LoanApplication, error) {
	application, err := s.getOwnedPendingApplication(ctx, applicationID, memberID)
	if err != nil {
		return nil, err
	}

	application.Status = domain.ApplicationWithdrawn
	application.LastUpdatedAt = now
	application.LastUpdatedBy = memberID

	if err := s.loanRepo.UpdateApplication(ctx, *application); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Loan application withdrawn", slog.String("application_id", applicationID))
	return application, nil
}

func (s *loanService) ApproveApplication(ctx context.Context, applicationID string, approverID string, now time.Time) (*domain.Loan, error) {
	application, err := s.loanRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w (status %s)", ErrApplicationState, application.Status)
	}

	// Eligibility can shift between application and approval, so it is
	// re-checked at the moment money moves.
	eligibility, err := s.GetEligibility(ctx, application.MemberID)
	if err != nil {
		return nil, err
	}
	if application.Amount.GreaterThan(eligibility.MaxAmount) {
		return nil, fmt.Errorf("%w: requested %s, maximum %s", ErrLoanOverEligibility, application.Amount, eligibility.MaxAmount)
	}

	openLoan, err := s.loanRepo.FindOpenLoanByMember(ctx, application.MemberID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if openLoan != nil {
		return nil, fmt.Errorf("%w (loan %s)", ErrLoanOpenExists, openLoan.LoanID)
	}

	if err := s.postDisbursement(ctx, application, approverID, now); err != nil {
		return nil, err
	}

	loan := domain.Loan{
		LoanID:        uuid.NewString(),
		ApplicationID: application.ApplicationID,
		MemberID:      application.MemberID,
		CycleID:       application.CycleID,
		Principal:     application.Amount,
		InterestRate:  application.InterestRate,
		TermMonths:    application.TermMonths,
		Status:        domain.LoanOpen,
		DisbursedAt:   now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     approverID,
			LastUpdatedAt: now,
			LastUpdatedBy: approverID,
		},
	}
	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		return nil, err
	}

	application.Status = domain.ApplicationApproved
	application.LastUpdatedAt = now
	application.LastUpdatedBy = approverID
	if err := s.loanRepo.UpdateApplication(ctx, *application); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Loan disbursed",
		slog.String("loan_id", loan.LoanID),
		slog.String("member_id", loan.MemberID),
		slog.String("principal", loan.Principal.String()),
	)
	return &loan, nil
}

func (s *loanService) RejectApplication(ctx context.Context, applicationID string, requestingUserID string, now time.Time) (*domain.LoanApplication, error) {
	application, err := s.loanRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w (status %s)", ErrApplicationState, application.Status)
	}

	application.Status = domain.ApplicationRejected
	application.LastUpdatedAt = now
	application.LastUpdatedBy = requestingUserID

	if err := s.loanRepo.UpdateApplication(ctx, *application); err != nil {
		return nil, err
	}
	return application, nil
}

func (s *loanService) GetApplicationByID(ctx context.Context, applicationID string) (*domain.LoanApplication, error) {
	return s.loanRepo.FindApplicationByID(ctx, applicationID)
}

func (s *loanService) ListApplications(ctx context.Context, cycleID string, status *domain.LoanApplicationStatus) ([]domain.LoanApplication, error) {
	return s.loanRepo.ListApplicationsByCycle(ctx, cycleID, status)
}

func (s *loanService) GetLoanByID(ctx context.Context, loanID string) (*dto.LoanResponse, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.outstandingBalance(ctx, loan)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLoanResponse(loan, outstanding)
	return &resp, nil
}

func (s *loanService) ListMemberLoans(ctx context.Context, memberID string) ([]dto.LoanResponse, error) {
	loans, err := s.loanRepo.ListLoansByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.LoanResponse, 0, len(loans))
	for i := range loans {
		outstanding, err := s.outstandingBalance(ctx, &loans[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.ToLoanResponse(&loans[i], outstanding))
	}
	return responses, nil
}

// outstandingBalance derives the still-owed amount from the member's
// loans-receivable account. Closed loans owe nothing.
func (s *loanService) outstandingBalance(ctx context.Context, loan *domain.Loan) (decimal.Decimal, error) {
	if loan.Status == domain.LoanClosed {
		return decimal.Zero, nil
	}
	receivable, err := s.ledgerSvc.GetAccountByCode(ctx, domain.MemberAccountCode(loan.MemberID, domain.MemberLoansReceivable))
	if err != nil {
		return decimal.Zero, err
	}
	return s.ledgerSvc.CalculateAccountBalance(ctx, receivable.AccountID, nil)
}

// postDisbursement books the payout: the member now owes the principal and
// the cash has left the group account.
func (s *loanService) postDisbursement(ctx context.Context, application *domain.LoanApplication, approverID string, now time.Time) error {
	if err := s.ledgerSvc.EnsureMemberAccounts(ctx, application.MemberID, approverID, now); err != nil {
		return err
	}
	cash, err := s.ledgerSvc.EnsureOrgAccount(ctx, domain.OrgBankCash, approverID, now)
	if err != nil {
		return err
	}
	receivable, err := s.ledgerSvc.GetAccountByCode(ctx, domain.MemberAccountCode(application.MemberID, domain.MemberLoansReceivable))
	if err != nil {
		return err
	}

	_, err = s.ledgerSvc.PostEntry(ctx, dto.PostEntryInput{
		Date:            now,
		Description:     fmt.Sprintf("Loan disbursement over %d months", application.TermMonths),
		Source:          domain.SourceLoanDisbursement,
		SourceReference: application.ApplicationID,
		CycleID:         &application.CycleID,
		Lines: []domain.LineSpec{
			{AccountID: receivable.AccountID, LineType: domain.Debit, Amount: application.Amount},
			{AccountID: cash.AccountID, LineType: domain.Credit, Amount: application.Amount},
		},
	}, approverID)
	return err
}
