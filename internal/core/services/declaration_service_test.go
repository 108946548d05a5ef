package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// --- Mock DeclarationRepository ---
type MockDeclarationRepository struct {
	mock.Mock
}

var _ portsrepo.DeclarationRepositoryFacade = (*MockDeclarationRepository)(nil)

func (m *MockDeclarationRepository) FindDeclarationByID(ctx context.Context, declarationID string) (*domain.Declaration, error) {
	args := m.Called(ctx, declarationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Declaration), args.Error(1)
}

func (m *MockDeclarationRepository) FindDeclaration(ctx context.Context, memberID, cycleID string, effectiveMonth time.Time) (*domain.Declaration, error) {
	args := m.Called(ctx, memberID, cycleID, effectiveMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Declaration), args.Error(1)
}

func (m *MockDeclarationRepository) ListDeclarationsByMember(ctx context.Context, memberID, cycleID string) ([]domain.Declaration, error) {
	args := m.Called(ctx, memberID, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Declaration), args.Error(1)
}

func (m *MockDeclarationRepository) ListDeclarationsByMonth(ctx context.Context, cycleID string, effectiveMonth time.Time) ([]domain.Declaration, error) {
	args := m.Called(ctx, cycleID, effectiveMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Declaration), args.Error(1)
}

func (m *MockDeclarationRepository) SaveDeclaration(ctx context.Context, declaration domain.Declaration) error {
	args := m.Called(ctx, declaration)
	return args.Error(0)
}

func (m *MockDeclarationRepository) UpdateDeclaration(ctx context.Context, declaration domain.Declaration) error {
	args := m.Called(ctx, declaration)
	return args.Error(0)
}

// --- Mock CycleService ---
type MockCycleService struct {
	mock.Mock
}

var _ portssvc.CycleSvcFacade = (*MockCycleService)(nil)

func (m *MockCycleService) GetCycleByID(ctx context.Context, cycleID string) (*domain.Cycle, error) {
	args := m.Called(ctx, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

func (m *MockCycleService) GetActiveCycle(ctx context.Context) (*domain.Cycle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

func (m *MockCycleService) ListCycles(ctx context.Context, limit int) ([]domain.Cycle, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Cycle), args.Error(1)
}

func (m *MockCycleService) ListPhases(ctx context.Context, cycleID string) ([]domain.Phase, error) {
	args := m.Called(ctx, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Phase), args.Error(1)
}

func (m *MockCycleService) GetOpenPhase(ctx context.Context, phaseType domain.PhaseType) (*domain.Phase, *domain.Cycle, error) {
	args := m.Called(ctx, phaseType)
	var phase *domain.Phase
	var cycle *domain.Cycle
	if args.Get(0) != nil {
		phase = args.Get(0).(*domain.Phase)
	}
	if args.Get(1) != nil {
		cycle = args.Get(1).(*domain.Cycle)
	}
	return phase, cycle, args.Error(2)
}

func (m *MockCycleService) CreateCycle(ctx context.Context, req dto.CreateCycleRequest, creatorID string, now time.Time) (*domain.Cycle, error) {
	args := m.Called(ctx, req, creatorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

func (m *MockCycleService) ActivateCycle(ctx context.Context, cycleID string, requestingUserID string, now time.Time) (*domain.Cycle, error) {
	args := m.Called(ctx, cycleID, requestingUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

func (m *MockCycleService) CloseCycle(ctx context.Context, cycleID string, requestingUserID string, now time.Time) (*domain.Cycle, error) {
	args := m.Called(ctx, cycleID, requestingUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

func (m *MockCycleService) ReopenCycle(ctx context.Context, cycleID string, requestingUserID string, now time.Time) (*domain.Cycle, error) {
	args := m.Called(ctx, cycleID, requestingUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

func (m *MockCycleService) CreatePhase(ctx context.Context, cycleID string, req dto.CreatePhaseRequest, creatorID string, now time.Time) (*domain.Phase, error) {
	args := m.Called(ctx, cycleID, req, creatorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Phase), args.Error(1)
}

func (m *MockCycleService) UpdatePhase(ctx context.Context, phaseID string, req dto.CreatePhaseRequest, requestingUserID string, now time.Time) (*domain.Phase, error) {
	args := m.Called(ctx, phaseID, req, requestingUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Phase), args.Error(1)
}

func (m *MockCycleService) SetPhaseOpen(ctx context.Context, phaseID string, open bool, requestingUserID string, now time.Time) (*domain.Phase, error) {
	args := m.Called(ctx, phaseID, open, requestingUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Phase), args.Error(1)
}

// --- Mock PenaltyService ---
type MockPenaltyService struct {
	mock.Mock
}

var _ portssvc.PenaltySvcFacade = (*MockPenaltyService)(nil)

func (m *MockPenaltyService) GetPenaltyByID(ctx context.Context, penaltyID string) (*domain.PenaltyRecord, error) {
	args := m.Called(ctx, penaltyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyService) ListPenaltiesByStatus(ctx context.Context, status domain.PenaltyStatus, limit int) ([]domain.PenaltyRecord, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyService) ListUnpaidPenalties(ctx context.Context, memberID string) ([]domain.PenaltyRecord, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyService) ListPenaltyTypes(ctx context.Context) ([]domain.PenaltyType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyType), args.Error(1)
}

func (m *MockPenaltyService) CreatePenaltyType(ctx context.Context, req dto.CreatePenaltyTypeRequest, creatorID string, now time.Time) (*domain.PenaltyType, error) {
	args := m.Called(ctx, req, creatorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyType), args.Error(1)
}

func (m *MockPenaltyService) RaisePenalty(ctx context.Context, req dto.CreatePenaltyRequest, creatorID string, now time.Time) (*domain.PenaltyRecord, error) {
	args := m.Called(ctx, req, creatorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyService) RaiseAutoPenalty(ctx context.Context, req domain.PenaltyRequest, creatorID string, now time.Time) (*domain.PenaltyRecord, error) {
	args := m.Called(ctx, req, creatorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyService) ApprovePenalty(ctx context.Context, penaltyID string, approverID string, now time.Time) (*domain.PenaltyRecord, error) {
	args := m.Called(ctx, penaltyID, approverID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyService) MarkPenaltyPaid(ctx context.Context, penaltyID string, requestingUserID string, now time.Time) (*domain.PenaltyRecord, error) {
	args := m.Called(ctx, penaltyID, requestingUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyRecord), args.Error(1)
}

// --- Test Suite Setup ---
type DeclarationServiceTestSuite struct {
	suite.Suite
	mockDeclRepo    *MockDeclarationRepository
	mockMemberRepo  *MockMemberRepository
	mockJournalRepo *MockJournalRepository
	mockCycleSvc    *MockCycleService
	mockPenaltySvc  *MockPenaltyService
	mockLedgerSvc   *MockLedgerService
	service         portssvc.DeclarationSvcFacade
	memberID        string
	cycle           domain.Cycle
	phase           domain.Phase
	now             time.Time
}

func (suite *DeclarationServiceTestSuite) SetupTest() {
	suite.mockDeclRepo = new(MockDeclarationRepository)
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockCycleSvc = new(MockCycleService)
	suite.mockPenaltySvc = new(MockPenaltyService)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.service = services.NewDeclarationService(suite.mockDeclRepo, suite.mockMemberRepo, suite.mockJournalRepo, suite.mockCycleSvc, suite.mockPenaltySvc, suite.mockLedgerSvc)

	suite.memberID = uuid.NewString()
	// Fifth of the month, inside the declaration window.
	suite.now = time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	suite.cycle = domain.Cycle{
		CycleID:          uuid.NewString(),
		Year:             2026,
		Status:           domain.CycleActive,
		MaxLoanAmount:    decimal.NewFromInt(10000),
		SocialFundAnnual: decimal.NewFromInt(120),
		AdminFundAnnual:  decimal.NewFromInt(60),
	}
	suite.phase = domain.Phase{
		PhaseID:         uuid.NewString(),
		CycleID:         suite.cycle.CycleID,
		PhaseType:       domain.PhaseDeclaration,
		MonthlyStartDay: 1,
		MonthlyEndDay:   7,
		IsOpen:          true,
	}
}

func (suite *DeclarationServiceTestSuite) fundingReference() string {
	return fmt.Sprintf("%s:%s", suite.memberID, suite.cycle.CycleID)
}

func (suite *DeclarationServiceTestSuite) expectActiveMember(ctx context.Context) {
	member := &domain.Member{MemberID: suite.memberID, IsActive: true}
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(member, nil).Once()
}

func declarationRequest(month string) dto.CreateDeclarationRequest {
	return dto.CreateDeclarationRequest{
		EffectiveMonth: month,
		Amounts: dto.DeclarationAmountsRequest{
			Savings:    decimal.NewFromInt(200),
			SocialFund: decimal.NewFromInt(10),
			AdminFund:  decimal.NewFromInt(5),
		},
	}
}

// --- Test Cases ---

func (suite *DeclarationServiceTestSuite) TestCreateDeclaration_FirstOfCycle_PostsFunding() {
	ctx := context.Background()
	effectiveMonth := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	socialDue := domain.Account{AccountID: uuid.NewString(), AccountType: domain.Asset, IsActive: true}
	adminDue := domain.Account{AccountID: uuid.NewString(), AccountType: domain.Asset, IsActive: true}
	socialFund := domain.Account{AccountID: uuid.NewString(), AccountType: domain.Liability, IsActive: true}
	adminFund := domain.Account{AccountID: uuid.NewString(), AccountType: domain.Liability, IsActive: true}

	suite.expectActiveMember(ctx)
	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseDeclaration).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.mockDeclRepo.On("FindDeclaration", ctx, suite.memberID, suite.cycle.CycleID, effectiveMonth).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDeclRepo.On("SaveDeclaration", ctx, mock.AnythingOfType("domain.Declaration")).Return(nil).Once()

	suite.mockJournalRepo.On("FindJournalBySource", ctx, domain.SourceDeclarationFunding, suite.fundingReference()).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerSvc.On("EnsureMemberAccounts", ctx, suite.memberID, suite.memberID, suite.now).Return(nil).Once()
	suite.mockLedgerSvc.On("GetAccountByCode", ctx, domain.MemberAccountCode(suite.memberID, domain.MemberSocialDue)).Return(&socialDue, nil).Once()
	suite.mockLedgerSvc.On("EnsureOrgAccount", ctx, domain.OrgSocialFund, suite.memberID, suite.now).Return(&socialFund, nil).Once()
	suite.mockLedgerSvc.On("GetAccountByCode", ctx, domain.MemberAccountCode(suite.memberID, domain.MemberAdminDue)).Return(&adminDue, nil).Once()
	suite.mockLedgerSvc.On("EnsureOrgAccount", ctx, domain.OrgAdminFund, suite.memberID, suite.now).Return(&adminFund, nil).Once()

	var postedInput dto.PostEntryInput
	suite.mockLedgerSvc.On("PostEntry", ctx, mock.AnythingOfType("dto.PostEntryInput"), suite.memberID).
		Run(func(args mock.Arguments) {
			postedInput = args.Get(1).(dto.PostEntryInput)
		}).Return(&domain.Journal{JournalID: uuid.NewString()}, nil).Once()

	declaration, err := suite.service.CreateDeclaration(ctx, suite.memberID, declarationRequest("2026-03"), suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.DeclarationPending, declaration.Status)
	suite.Equal(effectiveMonth, declaration.EffectiveMonth)

	// One funding entry keyed on (member, cycle): both annual obligations in a single journal.
	suite.Equal(domain.SourceDeclarationFunding, postedInput.Source)
	suite.Equal(suite.fundingReference(), postedInput.SourceReference)
	suite.Require().Len(postedInput.Lines, 4)
	suite.True(postedInput.Lines[0].Amount.Equal(suite.cycle.SocialFundAnnual))
	suite.True(postedInput.Lines[2].Amount.Equal(suite.cycle.AdminFundAnnual))

	suite.mockLedgerSvc.AssertExpectations(suite.T())
	suite.mockDeclRepo.AssertExpectations(suite.T())
}

func (suite *DeclarationServiceTestSuite) TestCreateDeclaration_FundingPostedOnlyOnce() {
	ctx := context.Background()
	effectiveMonth := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	existingFunding := &domain.Journal{JournalID: uuid.NewString(), Source: domain.SourceDeclarationFunding}

	suite.expectActiveMember(ctx)
	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseDeclaration).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.mockDeclRepo.On("FindDeclaration", ctx, suite.memberID, suite.cycle.CycleID, effectiveMonth).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDeclRepo.On("SaveDeclaration", ctx, mock.AnythingOfType("domain.Declaration")).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalBySource", ctx, domain.SourceDeclarationFunding, suite.fundingReference()).Return(existingFunding, nil).Once()

	_, err := suite.service.CreateDeclaration(ctx, suite.memberID, declarationRequest("2026-03"), suite.now)

	suite.Require().NoError(err)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DeclarationServiceTestSuite) TestCreateDeclaration_DuplicateMonth() {
	ctx := context.Background()
	effectiveMonth := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.Declaration{DeclarationID: uuid.NewString(), MemberID: suite.memberID}

	suite.expectActiveMember(ctx)
	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseDeclaration).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.mockDeclRepo.On("FindDeclaration", ctx, suite.memberID, suite.cycle.CycleID, effectiveMonth).Return(existing, nil).Once()

	_, err := suite.service.CreateDeclaration(ctx, suite.memberID, declarationRequest("2026-03"), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDeclarationExists)
	suite.mockDeclRepo.AssertNotCalled(suite.T(), "SaveDeclaration", mock.Anything, mock.Anything)
}

func (suite *DeclarationServiceTestSuite) TestCreateDeclaration_BadMonthFormat() {
	ctx := context.Background()

	_, err := suite.service.CreateDeclaration(ctx, suite.memberID, declarationRequest("March 2026"), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDeclarationMonth)
}

func (suite *DeclarationServiceTestSuite) TestCreateDeclaration_PhaseClosed() {
	ctx := context.Background()

	suite.expectActiveMember(ctx)
	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseDeclaration).Return(nil, nil, services.ErrPhaseNotOpen).Once()

	_, err := suite.service.CreateDeclaration(ctx, suite.memberID, declarationRequest("2026-03"), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPhaseNotOpen)
}

func (suite *DeclarationServiceTestSuite) TestCreateDeclaration_InactiveMember() {
	ctx := context.Background()
	member := &domain.Member{MemberID: suite.memberID, IsActive: false}

	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(member, nil).Once()

	_, err := suite.service.CreateDeclaration(ctx, suite.memberID, declarationRequest("2026-03"), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMemberNotActive)
	suite.mockDeclRepo.AssertNotCalled(suite.T(), "SaveDeclaration", mock.Anything, mock.Anything)
}

func (suite *DeclarationServiceTestSuite) TestCreateDeclaration_LateTriggersAutoPenalty() {
	ctx := context.Background()
	// Declaring for February on March 5th, past February's end day 7.
	effectiveMonth := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	penaltyTypeID := uuid.NewString()
	suite.phase.PenaltyTypeID = &penaltyTypeID
	suite.phase.AutoApplyPenalty = true
	existingFunding := &domain.Journal{JournalID: uuid.NewString()}

	suite.expectActiveMember(ctx)
	suite.mockCycleSvc.On("GetOpenPhase", ctx, domain.PhaseDeclaration).Return(&suite.phase, &suite.cycle, nil).Once()
	suite.mockDeclRepo.On("FindDeclaration", ctx, suite.memberID, suite.cycle.CycleID, effectiveMonth).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDeclRepo.On("SaveDeclaration", ctx, mock.AnythingOfType("domain.Declaration")).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalBySource", ctx, domain.SourceDeclarationFunding, suite.fundingReference()).Return(existingFunding, nil).Once()

	expectedReq := domain.PenaltyRequest{
		MemberID:      suite.memberID,
		PenaltyTypeID: penaltyTypeID,
		Period:        "2026-02",
	}
	suite.mockPenaltySvc.On("RaiseAutoPenalty", ctx, expectedReq, suite.memberID, suite.now).
		Return(&domain.PenaltyRecord{PenaltyID: uuid.NewString(), Status: domain.PenaltyApproved}, nil).Once()

	_, err := suite.service.CreateDeclaration(ctx, suite.memberID, declarationRequest("2026-02"), suite.now)

	suite.Require().NoError(err)
	suite.mockPenaltySvc.AssertExpectations(suite.T())
}

func (suite *DeclarationServiceTestSuite) TestUpdateDeclaration_OtherMemberForbidden() {
	ctx := context.Background()
	declaration := &domain.Declaration{
		DeclarationID: uuid.NewString(),
		MemberID:      uuid.NewString(),
		Status:        domain.DeclarationPending,
	}
	req := dto.UpdateDeclarationRequest{Amounts: dto.DeclarationAmountsRequest{Savings: decimal.NewFromInt(50)}}

	suite.mockDeclRepo.On("FindDeclarationByID", ctx, declaration.DeclarationID).Return(declaration, nil).Once()

	_, err := suite.service.UpdateDeclaration(ctx, declaration.DeclarationID, req, suite.memberID, false, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockDeclRepo.AssertNotCalled(suite.T(), "UpdateDeclaration", mock.Anything, mock.Anything)
}

func (suite *DeclarationServiceTestSuite) TestUpdateDeclaration_RejectedBecomesPending() {
	ctx := context.Background()
	declaration := &domain.Declaration{
		DeclarationID:  uuid.NewString(),
		MemberID:       suite.memberID,
		EffectiveMonth: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:         domain.DeclarationRejected,
	}
	req := dto.UpdateDeclarationRequest{Amounts: dto.DeclarationAmountsRequest{Savings: decimal.NewFromInt(50)}}

	suite.mockDeclRepo.On("FindDeclarationByID", ctx, declaration.DeclarationID).Return(declaration, nil).Once()
	suite.mockDeclRepo.On("UpdateDeclaration", ctx, mock.AnythingOfType("domain.Declaration")).Return(nil).Once()

	updated, err := suite.service.UpdateDeclaration(ctx, declaration.DeclarationID, req, suite.memberID, false, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.DeclarationPending, updated.Status)
	suite.True(updated.Amounts.Savings.Equal(decimal.NewFromInt(50)))
}

func (suite *DeclarationServiceTestSuite) TestUpdateDeclaration_ApprovedNeedsOfficerAndSameMonth() {
	ctx := context.Background()
	declaration := &domain.Declaration{
		DeclarationID:  uuid.NewString(),
		MemberID:       suite.memberID,
		EffectiveMonth: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:         domain.DeclarationApproved,
	}
	req := dto.UpdateDeclarationRequest{
		Amounts:           dto.DeclarationAmountsRequest{Savings: decimal.NewFromInt(75)},
		AllowApprovedEdit: true,
	}

	suite.mockDeclRepo.On("FindDeclarationByID", ctx, declaration.DeclarationID).Return(declaration, nil).Twice()
	suite.mockDeclRepo.On("UpdateDeclaration", ctx, mock.AnythingOfType("domain.Declaration")).Return(nil).Once()

	// Officer editing within the declaration's month succeeds.
	_, err := suite.service.UpdateDeclaration(ctx, declaration.DeclarationID, req, uuid.NewString(), true, suite.now)
	suite.Require().NoError(err)

	// The same edit a month later is refused.
	_, err = suite.service.UpdateDeclaration(ctx, declaration.DeclarationID, req, uuid.NewString(), true, suite.now.AddDate(0, 1, 0))
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *DeclarationServiceTestSuite) TestUpdateDeclaration_PastMonthImmutable() {
	ctx := context.Background()
	declaration := &domain.Declaration{
		DeclarationID:  uuid.NewString(),
		MemberID:       suite.memberID,
		EffectiveMonth: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:         domain.DeclarationPending,
	}
	req := dto.UpdateDeclarationRequest{Amounts: dto.DeclarationAmountsRequest{Savings: decimal.NewFromInt(50)}}

	suite.mockDeclRepo.On("FindDeclarationByID", ctx, declaration.DeclarationID).Return(declaration, nil).Once()

	// A PENDING declaration from a past month stays frozen.
	_, err := suite.service.UpdateDeclaration(ctx, declaration.DeclarationID, req, suite.memberID, false, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDeclarationNotEditable)
	suite.mockDeclRepo.AssertNotCalled(suite.T(), "UpdateDeclaration", mock.Anything, mock.Anything)
}

func (suite *DeclarationServiceTestSuite) TestGetCurrentDeclaration() {
	ctx := context.Background()
	currentMonth := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	declaration := &domain.Declaration{
		DeclarationID:  uuid.NewString(),
		MemberID:       suite.memberID,
		CycleID:        suite.cycle.CycleID,
		EffectiveMonth: currentMonth,
		Status:         domain.DeclarationPending,
	}

	suite.mockCycleSvc.On("GetActiveCycle", ctx).Return(&suite.cycle, nil).Once()
	suite.mockDeclRepo.On("FindDeclaration", ctx, suite.memberID, suite.cycle.CycleID, currentMonth).Return(declaration, nil).Once()

	found, err := suite.service.GetCurrentDeclaration(ctx, suite.memberID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(declaration.DeclarationID, found.DeclarationID)
	suite.Equal(currentMonth, found.EffectiveMonth)
}

// --- Run Test Suite ---
func TestDeclarationService(t *testing.T) {
	suite.Run(t, new(DeclarationServiceTestSuite))
}
