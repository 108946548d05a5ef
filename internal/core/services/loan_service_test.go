package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// --- Test Suite Setup ---
type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo   *MockLoanRepository
	mockMemberRepo *MockMemberRepository
	mockCycleSvc   *MockCycleService
	mockPenaltySvc *MockPenaltyService
	mockLedgerSvc  *MockLedgerService
	service        portssvc.LoanSvcFacade
	memberID       string
	approverID     string
	tier           domain.CreditRatingTier
	member         domain.Member
	cycle          domain.Cycle
	phase          domain.Phase
	savingsAccount domain.Account
	now            time.Time
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockCycleSvc = new(MockCycleService)
	suite.mockPenaltySvc = new(MockPenaltyService)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.service = services.NewLoanService(suite.mockLoanRepo, suite.mockMemberRepo, suite.mockCycleSvc, suite.mockPenaltySvc, suite.mockLedgerSvc)

	suite.memberID = uuid.NewString()
	suite.approverID = uuid.NewString()
	suite.now = time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC)

	suite.tier = domain.CreditRatingTier{
		TierID:     uuid.NewString(),
		Name:       "Gold",
		Multiplier: decimal.NewFromInt(3),
		Bands: []domain.InterestBand{
			{TermMonths: 6, MinRate: decimal.NewFromInt(5), MaxRate: decimal.NewFromInt(15)},
		},
	}
	suite.member = domain.Member{
		MemberID: suite.memberID,
		FullName: "Chanda Mwila",
		TierID:   &suite.tier.TierID,
		Role:     domain.RoleMember,
		IsActive: true,
	}
	suite.cycle = domain.Cycle{
		CycleID:       uuid.NewString(),
		Year:          2026,
		Status:        domain.CycleActive,
		MaxLoanAmount: decimal.NewFromInt(10000),
	}
	suite.phase = domain.Phase{
		PhaseID:         uuid.NewString(),
		CycleID:         suite.cycle.CycleID,
		PhaseType:       domain.PhaseLoanApplication,
		MonthlyStartDay: 1,
		MonthlyEndDay:   7,
		IsOpen:          true,
	}
	suite.savingsAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        domain.MemberAccountCode(suite.memberID, domain.MemberSavings),
		AccountType: domain.Liability,
		IsActive:    true,
	}
}

// expectEligibility wires the lookups GetEligibility performs for the suite's
// member with the given savings balance.
func (suite *LoanServiceTestSuite) expectEligibility(savings decimal.Decimal) {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(&suite.member, nil)
	suite.mockCycleSvc.On("GetActiveCycle", ctx).Return(&suite.cycle, nil)
	suite.mockLedgerSvc.On("GetAccountByCode", ctx, suite.savingsAccount.Code).Return(&suite.savingsAccount, nil)
	suite.mockLedgerSvc.On("CalculateAccountBalance", ctx, suite.savingsAccount.AccountID, (*time.Time)(nil)).Return(savings, nil)
	suite.mockMemberRepo.On("FindTierByID", ctx, suite.tier.TierID).Return(&suite.tier, nil)
}

func applyRequest(amount int64) dto.ApplyLoanRequest {
	return dto.ApplyLoanRequest{
		Amount:       decimal.NewFromInt(amount),
		TermMonths:   6,
		InterestRate: decimal.NewFromInt(10),
		Purpose:      "School fees",
	}
}

// --- Test Cases ---

func (suite *LoanServiceTestSuite) TestGetEligibility_SavingsTimesMultiplier() {
	ctx := context.Background()
	suite.expectEligibility(decimal.NewFromInt(1000))

	eligibility, err := suite.service.GetEligibility(ctx, suite.memberID)

	suite.Require().NoError(err)
	suite.True(eligibility.SavingsBalance.Equal(decimal.NewFromInt(1000)))
	suite.True(eligibility.Multiplier.Equal(decimal.NewFromInt(3)))
	suite.True(eligibility.MaxAmount.Equal(decimal.NewFromInt(3000)))
	suite.Len(eligibility.Bands, 1)
}

func (suite *LoanServiceTestSuite) TestGetEligibility_CappedByCycleMaximum() {
	ctx := context.Background()
	// 5000 * 3 exceeds the cycle's 10000 cap.
	suite.expectEligibility(decimal.NewFromInt(5000))

	eligibility, err := suite.service.GetEligibility(ctx, suite.memberID)

	suite.Require().NoError(err)
	suite.True(eligibility.MaxAmount.Equal(decimal.NewFromInt(10000)))
}

func (suite *LoanServiceTestSuite) TestGetEligibility_NoTierBorrowsAtSavings() {
	ctx := context.Background()
	suite.member.TierID = nil
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(&suite.member, nil).Once()
	suite.mockCycleSvc.On("GetActiveCycle", ctx).Return(&suite.cycle, nil).Once()
	suite.mockLedgerSvc.On("GetAccountByCode", ctx, suite.savingsAccount.Code).Return(&suite.savingsAccount, nil).Once()
	suite.mockLedgerSvc.On("CalculateAccountBalance", ctx, suite.savingsAccount.AccountID, (*time.Time)(nil)).Return(decimal.NewFromInt(800), nil).Once()

	eligibility, err := suite.service.GetEligibility(ctx, suite.memberID)

	suite.Require().NoError(err)
	suite.True(eligibility.Multiplier.Equal(decimal.NewFromInt(1)))
	suite.True(eligibility.MaxAmount.Equal(decimal.NewFromInt(800)))
	suite.Empty(eligibility.Bands)
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "FindTierByID", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestGetEligibility_NoSavingsAccountYet() {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(&suite.member, nil).Once()
	suite.mockCycleSvc.On("GetActiveCycle", ctx).Return(&suite.cycle, nil).Once()
	suite.mockLedgerSvc.On("GetAccountByCode", ctx, suite.savingsAccount.Code).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMemberRepo.On("FindTierByID", ctx, suite.tier.TierID).Return(&suite.tier, nil).Once()

	eligibility, err := suite.service.GetEligibility(ctx, suite.memberID)

	suite.Require().NoError(err)
	suite.True(eligibility.MaxAmount.IsZero())
}

func (suite *LoanServiceTestSuite) TestApply_Success() {
	ctx := context.Background()
	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseLoanApplication).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.expectEligibility(decimal.NewFromInt(1000))
	suite.mockLoanRepo.On("FindOpenLoanByMember", ctx, suite.memberID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLoanRepo.On("FindPendingApplicationByMember", ctx, suite.memberID, suite.cycle.CycleID).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.LoanApplication
	suite.mockLoanRepo.On("SaveApplication", ctx, mock.AnythingOfType("domain.LoanApplication")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.LoanApplication)
		}).Return(nil).Once()

	application, err := suite.service.Apply(ctx, suite.memberID, applyRequest(2500), suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.ApplicationPending, application.Status)
	suite.Equal(suite.cycle.CycleID, saved.CycleID)
	suite.True(saved.Amount.Equal(decimal.NewFromInt(2500)))
	suite.mockLoanRepo.AssertExpectations(suite.T())
	suite.mockPenaltySvc.AssertNotCalled(suite.T(), "RaiseAutoPenalty", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestApply_OverEligibility() {
	ctx := context.Background()
	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseLoanApplication).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.expectEligibility(decimal.NewFromInt(1000))

	_, err := suite.service.Apply(ctx, suite.memberID, applyRequest(3500), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrLoanOverEligibility)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveApplication", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestApply_OpenLoanExists() {
	ctx := context.Background()
	openLoan := &domain.Loan{LoanID: uuid.NewString(), MemberID: suite.memberID, Status: domain.LoanOpen}
	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseLoanApplication).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.expectEligibility(decimal.NewFromInt(1000))
	suite.mockLoanRepo.On("FindOpenLoanByMember", ctx, suite.memberID).Return(openLoan, nil).Once()

	_, err := suite.service.Apply(ctx, suite.memberID, applyRequest(2500), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrLoanOpenExists)
}

func (suite *LoanServiceTestSuite) TestApply_PendingApplicationExists() {
	ctx := context.Background()
	pending := &domain.LoanApplication{ApplicationID: uuid.NewString(), MemberID: suite.memberID, Status: domain.ApplicationPending}
	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseLoanApplication).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.expectEligibility(decimal.NewFromInt(1000))
	suite.mockLoanRepo.On("FindOpenLoanByMember", ctx, suite.memberID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLoanRepo.On("FindPendingApplicationByMember", ctx, suite.memberID, suite.cycle.CycleID).Return(pending, nil).Once()

	_, err := suite.service.Apply(ctx, suite.memberID, applyRequest(2500), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrApplicationExists)
}

func (suite *LoanServiceTestSuite) TestApply_RateOutsideTierBand() {
	ctx := context.Background()
	req := applyRequest(2500)
	req.InterestRate = decimal.NewFromInt(20)

	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseLoanApplication).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(&suite.member, nil).Once()
	suite.mockMemberRepo.On("FindTierByID", ctx, suite.tier.TierID).Return(&suite.tier, nil).Once()

	_, err := suite.service.Apply(ctx, suite.memberID, req, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrLoanRate)
}

func (suite *LoanServiceTestSuite) TestApply_LateRaisesAutoPenalty() {
	ctx := context.Background()
	penaltyTypeID := uuid.NewString()
	suite.phase.PenaltyTypeID = &penaltyTypeID
	suite.phase.AutoApplyPenalty = true
	late := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)

	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseLoanApplication).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.expectEligibility(decimal.NewFromInt(1000))
	suite.mockLoanRepo.On("FindOpenLoanByMember", ctx, suite.memberID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLoanRepo.On("FindPendingApplicationByMember", ctx, suite.memberID, suite.cycle.CycleID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLoanRepo.On("SaveApplication", ctx, mock.AnythingOfType("domain.LoanApplication")).Return(nil).Once()

	expectedReq := domain.PenaltyRequest{
		MemberID:      suite.memberID,
		PenaltyTypeID: penaltyTypeID,
		Period:        "2026-02",
	}
	suite.mockPenaltySvc.On("RaiseAutoPenalty", ctx, expectedReq, suite.memberID, late).
		Return(&domain.PenaltyRecord{PenaltyID: uuid.NewString(), Status: domain.PenaltyApproved}, nil).Once()

	_, err := suite.service.Apply(ctx, suite.memberID, applyRequest(2500), late)

	suite.Require().NoError(err)
	suite.mockPenaltySvc.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestApproveApplication_DisbursesLoan() {
	ctx := context.Background()
	application := &domain.LoanApplication{
		ApplicationID: uuid.NewString(),
		MemberID:      suite.memberID,
		CycleID:       suite.cycle.CycleID,
		Amount:        decimal.NewFromInt(2500),
		TermMonths:    6,
		InterestRate:  decimal.NewFromInt(10),
		Status:        domain.ApplicationPending,
	}
	cash := domain.Account{AccountID: uuid.NewString(), AccountType: domain.Asset, IsActive: true}
	receivable := domain.Account{AccountID: uuid.NewString(), AccountType: domain.Asset, IsActive: true}

	suite.mockLoanRepo.On("FindApplicationByID", ctx, application.ApplicationID).Return(application, nil).Once()
	suite.expectEligibility(decimal.NewFromInt(1000))
	suite.mockLoanRepo.On("FindOpenLoanByMember", ctx, suite.memberID).Return(nil, apperrors.ErrNotFound).Once()

	suite.mockLedgerSvc.On("EnsureMemberAccounts", ctx, suite.memberID, suite.approverID, suite.now).Return(nil).Once()
	suite.mockLedgerSvc.On("EnsureOrgAccount", ctx, domain.OrgBankCash, suite.approverID, suite.now).Return(&cash, nil).Once()
	suite.mockLedgerSvc.On("GetAccountByCode", ctx, domain.MemberAccountCode(suite.memberID, domain.MemberLoansReceivable)).Return(&receivable, nil).Once()

	var postedInput dto.PostEntryInput
	suite.mockLedgerSvc.On("PostEntry", ctx, mock.AnythingOfType("dto.PostEntryInput"), suite.approverID).
		Run(func(args mock.Arguments) {
			postedInput = args.Get(1).(dto.PostEntryInput)
		}).Return(&domain.Journal{JournalID: uuid.NewString()}, nil).Once()

	var savedLoan domain.Loan
	suite.mockLoanRepo.On("SaveLoan", ctx, mock.AnythingOfType("domain.Loan")).
		Run(func(args mock.Arguments) {
			savedLoan = args.Get(1).(domain.Loan)
		}).Return(nil).Once()

	var updatedApplication domain.LoanApplication
	suite.mockLoanRepo.On("UpdateApplication", ctx, mock.AnythingOfType("domain.LoanApplication")).
		Run(func(args mock.Arguments) {
			updatedApplication = args.Get(1).(domain.LoanApplication)
		}).Return(nil).Once()

	loan, err := suite.service.ApproveApplication(ctx, application.ApplicationID, suite.approverID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.LoanOpen, loan.Status)
	suite.True(loan.Principal.Equal(application.Amount))
	suite.Equal(suite.now, savedLoan.DisbursedAt)
	suite.Equal(domain.ApplicationApproved, updatedApplication.Status)

	suite.Equal(domain.SourceLoanDisbursement, postedInput.Source)
	suite.Equal(application.ApplicationID, postedInput.SourceReference)
	suite.Require().Len(postedInput.Lines, 2)
	suite.Equal(receivable.AccountID, postedInput.Lines[0].AccountID)
	suite.Equal(domain.Debit, postedInput.Lines[0].LineType)
	suite.Equal(cash.AccountID, postedInput.Lines[1].AccountID)
	suite.Equal(domain.Credit, postedInput.Lines[1].LineType)

	suite.mockLoanRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestApproveApplication_NotPending() {
	ctx := context.Background()
	application := &domain.LoanApplication{
		ApplicationID: uuid.NewString(),
		MemberID:      suite.memberID,
		Status:        domain.ApplicationWithdrawn,
	}

	suite.mockLoanRepo.On("FindApplicationByID", ctx, application.ApplicationID).Return(application, nil).Once()

	_, err := suite.service.ApproveApplication(ctx, application.ApplicationID, suite.approverID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrApplicationState)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestWithdrawApplication_Success() {
	ctx := context.Background()
	application := &domain.LoanApplication{
		ApplicationID: uuid.NewString(),
		MemberID:      suite.memberID,
		Status:        domain.ApplicationPending,
	}

	suite.mockLoanRepo.On("FindApplicationByID", ctx, application.ApplicationID).Return(application, nil).Once()

	var updated domain.LoanApplication
	suite.mockLoanRepo.On("UpdateApplication", ctx, mock.AnythingOfType("domain.LoanApplication")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.LoanApplication)
		}).Return(nil).Once()

	withdrawn, err := suite.service.WithdrawApplication(ctx, application.ApplicationID, suite.memberID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.ApplicationWithdrawn, withdrawn.Status)
	suite.Equal(domain.ApplicationWithdrawn, updated.Status)
}

func (suite *LoanServiceTestSuite) TestWithdrawApplication_OtherMemberForbidden() {
	ctx := context.Background()
	application := &domain.LoanApplication{
		ApplicationID: uuid.NewString(),
		MemberID:      uuid.NewString(),
		Status:        domain.ApplicationPending,
	}

	suite.mockLoanRepo.On("FindApplicationByID", ctx, application.ApplicationID).Return(application, nil).Once()

	_, err := suite.service.WithdrawApplication(ctx, application.ApplicationID, suite.memberID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "UpdateApplication", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestLoanService(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
