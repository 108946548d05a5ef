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
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// --- Mock CycleRepository ---
type MockCycleRepository struct {
	mock.Mock
}

var _ portsrepo.CycleRepositoryFacade = (*MockCycleRepository)(nil)

func (m *MockCycleRepository) FindCycleByID(ctx context.Context, cycleID string) (*domain.Cycle, error) {
	args := m.Called(ctx, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

func (m *MockCycleRepository) FindActiveCycle(ctx context.Context) (*domain.Cycle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

func (m *MockCycleRepository) FindCycleByYear(ctx context.Context, year int) (*domain.Cycle, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cycle), args.Error(1)
}

func (m *MockCycleRepository) ListCycles(ctx context.Context) ([]domain.Cycle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Cycle), args.Error(1)
}

func (m *MockCycleRepository) SaveCycle(ctx context.Context, cycle domain.Cycle) error {
	args := m.Called(ctx, cycle)
	return args.Error(0)
}

func (m *MockCycleRepository) UpdateCycleStatus(ctx context.Context, cycleID string, status domain.CycleStatus, userID string, now time.Time) error {
	args := m.Called(ctx, cycleID, status, userID, now)
	return args.Error(0)
}

func (m *MockCycleRepository) FindPhaseByID(ctx context.Context, phaseID string) (*domain.Phase, error) {
	args := m.Called(ctx, phaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Phase), args.Error(1)
}

func (m *MockCycleRepository) FindPhaseByType(ctx context.Context, cycleID string, phaseType domain.PhaseType) (*domain.Phase, error) {
	args := m.Called(ctx, cycleID, phaseType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Phase), args.Error(1)
}

func (m *MockCycleRepository) ListPhasesByCycle(ctx context.Context, cycleID string) ([]domain.Phase, error) {
	args := m.Called(ctx, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Phase), args.Error(1)
}

func (m *MockCycleRepository) SavePhase(ctx context.Context, phase domain.Phase) error {
	args := m.Called(ctx, phase)
	return args.Error(0)
}

func (m *MockCycleRepository) UpdatePhase(ctx context.Context, phase domain.Phase) error {
	args := m.Called(ctx, phase)
	return args.Error(0)
}

func (m *MockCycleRepository) CloseAllPhases(ctx context.Context, cycleID string, userID string, now time.Time) error {
	args := m.Called(ctx, cycleID, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type CycleServiceTestSuite struct {
	suite.Suite
	mockCycleRepo   *MockCycleRepository
	mockPenaltyRepo *MockPenaltyRepository
	service         portssvc.CycleSvcFacade
	userID          string
	now             time.Time
}

func (suite *CycleServiceTestSuite) SetupTest() {
	suite.mockCycleRepo = new(MockCycleRepository)
	suite.mockPenaltyRepo = new(MockPenaltyRepository)
	suite.service = services.NewCycleService(suite.mockCycleRepo, suite.mockPenaltyRepo)

	suite.userID = uuid.NewString()
	suite.now = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
}

func draftCycle(year int) *domain.Cycle {
	return &domain.Cycle{
		CycleID:          uuid.NewString(),
		Year:             year,
		Name:             "Cycle",
		Status:           domain.CycleDraft,
		MaxLoanAmount:    decimal.NewFromInt(10000),
		SocialFundAnnual: decimal.NewFromInt(120),
		AdminFundAnnual:  decimal.NewFromInt(60),
	}
}

// --- Test Cases ---

func (suite *CycleServiceTestSuite) TestCreateCycle_Success() {
	ctx := context.Background()
	req := dto.CreateCycleRequest{
		Year:             2026,
		Name:             "2026 savings cycle",
		MaxLoanAmount:    decimal.NewFromInt(10000),
		SocialFundAnnual: decimal.NewFromInt(120),
		AdminFundAnnual:  decimal.NewFromInt(60),
	}

	suite.mockCycleRepo.On("FindCycleByYear", ctx, 2026).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCycleRepo.On("SaveCycle", ctx, mock.AnythingOfType("domain.Cycle")).Return(nil).Once()

	cycle, err := suite.service.CreateCycle(ctx, req, suite.userID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.CycleDraft, cycle.Status)
	suite.Equal(2026, cycle.Year)
	suite.mockCycleRepo.AssertExpectations(suite.T())
}

func (suite *CycleServiceTestSuite) TestCreateCycle_YearTaken() {
	ctx := context.Background()
	req := dto.CreateCycleRequest{Year: 2026, Name: "dup", MaxLoanAmount: decimal.NewFromInt(10000)}

	suite.mockCycleRepo.On("FindCycleByYear", ctx, 2026).Return(draftCycle(2026), nil).Once()

	_, err := suite.service.CreateCycle(ctx, req, suite.userID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCycleYearTaken)
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "SaveCycle", mock.Anything, mock.Anything)
}

func (suite *CycleServiceTestSuite) TestActivateCycle_Success() {
	ctx := context.Background()
	cycle := draftCycle(2026)

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()
	suite.mockCycleRepo.On("FindActiveCycle", ctx).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCycleRepo.On("UpdateCycleStatus", ctx, cycle.CycleID, domain.CycleActive, suite.userID, suite.now).Return(nil).Once()

	activated, err := suite.service.ActivateCycle(ctx, cycle.CycleID, suite.userID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.CycleActive, activated.Status)
	suite.mockCycleRepo.AssertExpectations(suite.T())
}

func (suite *CycleServiceTestSuite) TestActivateCycle_DeactivatesIncumbent() {
	ctx := context.Background()
	cycle := draftCycle(2026)
	incumbent := draftCycle(2025)
	incumbent.Status = domain.CycleActive

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()
	suite.mockCycleRepo.On("FindActiveCycle", ctx).Return(incumbent, nil).Once()
	suite.mockCycleRepo.On("UpdateCycleStatus", ctx, incumbent.CycleID, domain.CycleClosed, suite.userID, suite.now).Return(nil).Once()
	suite.mockCycleRepo.On("CloseAllPhases", ctx, incumbent.CycleID, suite.userID, suite.now).Return(nil).Once()
	suite.mockCycleRepo.On("UpdateCycleStatus", ctx, cycle.CycleID, domain.CycleActive, suite.userID, suite.now).Return(nil).Once()

	activated, err := suite.service.ActivateCycle(ctx, cycle.CycleID, suite.userID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.CycleActive, activated.Status)
	suite.mockCycleRepo.AssertExpectations(suite.T())
}

func (suite *CycleServiceTestSuite) TestActivateCycle_FromClosed() {
	ctx := context.Background()
	cycle := draftCycle(suite.now.Year())
	cycle.Status = domain.CycleClosed

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()
	suite.mockCycleRepo.On("FindActiveCycle", ctx).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCycleRepo.On("UpdateCycleStatus", ctx, cycle.CycleID, domain.CycleActive, suite.userID, suite.now).Return(nil).Once()

	// Reopening this year's closed cycle through activation is allowed.
	activated, err := suite.service.ActivateCycle(ctx, cycle.CycleID, suite.userID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.CycleActive, activated.Status)
}

func (suite *CycleServiceTestSuite) TestActivateCycle_ClosedPriorYear() {
	ctx := context.Background()
	cycle := draftCycle(suite.now.Year() - 3)
	cycle.Status = domain.CycleClosed

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()

	_, err := suite.service.ActivateCycle(ctx, cycle.CycleID, suite.userID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReopenWrongYear)
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "UpdateCycleStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CycleServiceTestSuite) TestCloseCycle_ClosesPhases() {
	ctx := context.Background()
	cycle := draftCycle(2026)
	cycle.Status = domain.CycleActive

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()
	suite.mockCycleRepo.On("UpdateCycleStatus", ctx, cycle.CycleID, domain.CycleClosed, suite.userID, suite.now).Return(nil).Once()
	suite.mockCycleRepo.On("CloseAllPhases", ctx, cycle.CycleID, suite.userID, suite.now).Return(nil).Once()

	closed, err := suite.service.CloseCycle(ctx, cycle.CycleID, suite.userID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.CycleClosed, closed.Status)
	suite.mockCycleRepo.AssertExpectations(suite.T())
}

func (suite *CycleServiceTestSuite) TestCloseCycle_DraftRejected() {
	ctx := context.Background()
	cycle := draftCycle(2026)

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()

	_, err := suite.service.CloseCycle(ctx, cycle.CycleID, suite.userID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCycleTransition)
}

func (suite *CycleServiceTestSuite) TestReopenCycle_Success() {
	ctx := context.Background()
	cycle := draftCycle(suite.now.Year())
	cycle.Status = domain.CycleClosed

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()
	suite.mockCycleRepo.On("FindActiveCycle", ctx).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCycleRepo.On("UpdateCycleStatus", ctx, cycle.CycleID, domain.CycleActive, suite.userID, suite.now).Return(nil).Once()

	reopened, err := suite.service.ReopenCycle(ctx, cycle.CycleID, suite.userID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.CycleActive, reopened.Status)
}

func (suite *CycleServiceTestSuite) TestReopenCycle_WrongYear() {
	ctx := context.Background()
	cycle := draftCycle(suite.now.Year() - 1)
	cycle.Status = domain.CycleClosed

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()

	_, err := suite.service.ReopenCycle(ctx, cycle.CycleID, suite.userID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReopenWrongYear)
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "UpdateCycleStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CycleServiceTestSuite) TestGetOpenPhase_NotOpen() {
	ctx := context.Background()
	cycle := draftCycle(2026)
	cycle.Status = domain.CycleActive
	phase := &domain.Phase{
		PhaseID:   uuid.NewString(),
		CycleID:   cycle.CycleID,
		PhaseType: domain.PhaseDeclaration,
		IsOpen:    false,
	}

	suite.mockCycleRepo.On("FindActiveCycle", ctx).Return(cycle, nil).Once()
	suite.mockCycleRepo.On("FindPhaseByType", ctx, cycle.CycleID, domain.PhaseDeclaration).Return(phase, nil).Once()

	_, _, err := suite.service.GetOpenPhase(ctx, domain.PhaseDeclaration)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPhaseNotOpen)
}

func (suite *CycleServiceTestSuite) TestCreatePhase_DuplicateType() {
	ctx := context.Background()
	cycle := draftCycle(2026)
	existing := &domain.Phase{PhaseID: uuid.NewString(), CycleID: cycle.CycleID, PhaseType: domain.PhaseDeposits}
	req := dto.CreatePhaseRequest{PhaseType: domain.PhaseDeposits, MonthlyStartDay: 1, MonthlyEndDay: 7}

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()
	suite.mockCycleRepo.On("FindPhaseByType", ctx, cycle.CycleID, domain.PhaseDeposits).Return(existing, nil).Once()

	_, err := suite.service.CreatePhase(ctx, cycle.CycleID, req, suite.userID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPhaseExists)
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "SavePhase", mock.Anything, mock.Anything)
}

func (suite *CycleServiceTestSuite) TestCreatePhase_UnknownType() {
	ctx := context.Background()
	cycle := draftCycle(2026)
	req := dto.CreatePhaseRequest{PhaseType: domain.PhaseType("HARVEST"), MonthlyStartDay: 1, MonthlyEndDay: 7}

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()

	_, err := suite.service.CreatePhase(ctx, cycle.CycleID, req, suite.userID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "SavePhase", mock.Anything, mock.Anything)
}

func (suite *CycleServiceTestSuite) TestCreatePhase_AutoApplyNeedsPenaltyType() {
	ctx := context.Background()
	cycle := draftCycle(2026)
	req := dto.CreatePhaseRequest{
		PhaseType:        domain.PhaseDeclaration,
		MonthlyStartDay:  1,
		MonthlyEndDay:    7,
		AutoApplyPenalty: true,
	}

	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()

	_, err := suite.service.CreatePhase(ctx, cycle.CycleID, req, suite.userID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CycleServiceTestSuite) TestSetPhaseOpen_RequiresActiveCycle() {
	ctx := context.Background()
	cycle := draftCycle(2026)
	phase := &domain.Phase{PhaseID: uuid.NewString(), CycleID: cycle.CycleID, PhaseType: domain.PhaseDeclaration}

	suite.mockCycleRepo.On("FindPhaseByID", ctx, phase.PhaseID).Return(phase, nil).Once()
	suite.mockCycleRepo.On("FindCycleByID", ctx, cycle.CycleID).Return(cycle, nil).Once()

	_, err := suite.service.SetPhaseOpen(ctx, phase.PhaseID, true, suite.userID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockCycleRepo.AssertNotCalled(suite.T(), "UpdatePhase", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestCycleService(t *testing.T) {
	suite.Run(t, new(CycleServiceTestSuite))
}
