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

// --- Mock PenaltyRepository ---
type MockPenaltyRepository struct {
	mock.Mock
}

var _ portsrepo.PenaltyRepositoryFacade = (*MockPenaltyRepository)(nil)

func (m *MockPenaltyRepository) FindPenaltyByID(ctx context.Context, penaltyID string) (*domain.PenaltyRecord, error) {
	args := m.Called(ctx, penaltyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyRepository) FindMatchingPenalty(ctx context.Context, memberID, penaltyTypeID, period string) (*domain.PenaltyRecord, error) {
	args := m.Called(ctx, memberID, penaltyTypeID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyRepository) ListPenaltiesByStatus(ctx context.Context, status domain.PenaltyStatus) ([]domain.PenaltyRecord, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyRepository) ListUnpaidPenaltiesByMember(ctx context.Context, memberID string) ([]domain.PenaltyRecord, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyRecord), args.Error(1)
}

func (m *MockPenaltyRepository) SavePenalty(ctx context.Context, penalty domain.PenaltyRecord) error {
	args := m.Called(ctx, penalty)
	return args.Error(0)
}

func (m *MockPenaltyRepository) UpdatePenalty(ctx context.Context, penalty domain.PenaltyRecord) error {
	args := m.Called(ctx, penalty)
	return args.Error(0)
}

func (m *MockPenaltyRepository) FindPenaltyTypeByID(ctx context.Context, penaltyTypeID string) (*domain.PenaltyType, error) {
	args := m.Called(ctx, penaltyTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyType), args.Error(1)
}

func (m *MockPenaltyRepository) ListPenaltyTypes(ctx context.Context) ([]domain.PenaltyType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyType), args.Error(1)
}

func (m *MockPenaltyRepository) SavePenaltyType(ctx context.Context, penaltyType domain.PenaltyType) error {
	args := m.Called(ctx, penaltyType)
	return args.Error(0)
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockLedgerService) ListJournals(ctx context.Context, cycleID *string, source *domain.JournalSource, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, cycleID, source, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

func (m *MockLedgerService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockLedgerService) PostEntry(ctx context.Context, input dto.PostEntryInput, creatorID string) (*domain.Journal, error) {
	args := m.Called(ctx, input, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockLedgerService) ReverseJournal(ctx context.Context, journalID string, requestingUserID string, now time.Time) (*domain.Journal, error) {
	args := m.Called(ctx, journalID, requestingUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockLedgerService) CalculateAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) GetBalanceByCode(ctx context.Context, code string, asOf *time.Time) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, code, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceResponse), args.Error(1)
}

func (m *MockLedgerService) EnsureMemberAccounts(ctx context.Context, memberID string, creatorID string, now time.Time) error {
	args := m.Called(ctx, memberID, creatorID, now)
	return args.Error(0)
}

func (m *MockLedgerService) EnsureOrgAccount(ctx context.Context, code string, creatorID string, now time.Time) (*domain.Account, error) {
	args := m.Called(ctx, code, creatorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) ListMemberAccounts(ctx context.Context, memberID string) ([]domain.Account, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---
type PenaltyServiceTestSuite struct {
	suite.Suite
	mockPenaltyRepo *MockPenaltyRepository
	mockMemberRepo  *MockMemberRepository
	mockLedgerSvc   *MockLedgerService
	service         portssvc.PenaltySvcFacade
	memberID        string
	officerID       string
	penaltyType     domain.PenaltyType
	dueAccount      domain.Account
	incomeAccount   domain.Account
	now             time.Time
}

func (suite *PenaltyServiceTestSuite) SetupTest() {
	suite.mockPenaltyRepo = new(MockPenaltyRepository)
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.service = services.NewPenaltyService(suite.mockPenaltyRepo, suite.mockMemberRepo, suite.mockLedgerSvc)

	suite.memberID = uuid.NewString()
	suite.officerID = uuid.NewString()
	suite.now = time.Date(2026, 4, 12, 10, 0, 0, 0, time.UTC)

	suite.penaltyType = domain.PenaltyType{
		PenaltyTypeID: uuid.NewString(),
		Name:          "Late declaration",
		Fee:           decimal.NewFromInt(25),
		IsActive:      true,
	}
	suite.dueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        domain.MemberAccountCode(suite.memberID, domain.MemberPenaltyDue),
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.incomeAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        domain.OrgPenaltyIncome,
		AccountType: domain.Income,
		IsActive:    true,
	}
}

func (suite *PenaltyServiceTestSuite) expectAccrualPosting(actorID string) {
	ctx := context.Background()
	suite.mockLedgerSvc.On("EnsureMemberAccounts", ctx, suite.memberID, actorID, suite.now).Return(nil).Once()
	suite.mockLedgerSvc.On("EnsureOrgAccount", ctx, domain.OrgPenaltyIncome, actorID, suite.now).Return(&suite.incomeAccount, nil).Once()
	suite.mockLedgerSvc.On("GetAccountByCode", ctx, suite.dueAccount.Code).Return(&suite.dueAccount, nil).Once()
}

// --- Test Cases ---

func (suite *PenaltyServiceTestSuite) TestRaisePenalty_Success() {
	ctx := context.Background()
	req := dto.CreatePenaltyRequest{
		MemberID:      suite.memberID,
		PenaltyTypeID: suite.penaltyType.PenaltyTypeID,
		Period:        "2026-04",
		Reason:        "Missed meeting",
	}

	suite.mockPenaltyRepo.On("FindMatchingPenalty", ctx, suite.memberID, suite.penaltyType.PenaltyTypeID, "2026-04").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(&domain.Member{MemberID: suite.memberID, IsActive: true}, nil).Once()
	suite.mockPenaltyRepo.On("FindPenaltyTypeByID", ctx, suite.penaltyType.PenaltyTypeID).Return(&suite.penaltyType, nil).Once()
	suite.mockPenaltyRepo.On("SavePenalty", ctx, mock.AnythingOfType("domain.PenaltyRecord")).Return(nil).Once()

	penalty, err := suite.service.RaisePenalty(ctx, req, suite.officerID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.PenaltyPending, penalty.Status)
	suite.True(penalty.Amount.Equal(suite.penaltyType.Fee))
	suite.Nil(penalty.JournalID)
	suite.mockPenaltyRepo.AssertExpectations(suite.T())
}

func (suite *PenaltyServiceTestSuite) TestRaisePenalty_Duplicate() {
	ctx := context.Background()
	existing := &domain.PenaltyRecord{PenaltyID: uuid.NewString(), Status: domain.PenaltyPending}
	req := dto.CreatePenaltyRequest{
		MemberID:      suite.memberID,
		PenaltyTypeID: suite.penaltyType.PenaltyTypeID,
		Period:        "2026-04",
	}

	suite.mockPenaltyRepo.On("FindMatchingPenalty", ctx, suite.memberID, suite.penaltyType.PenaltyTypeID, "2026-04").Return(existing, nil).Once()

	_, err := suite.service.RaisePenalty(ctx, req, suite.officerID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPenaltyDuplicate)
	suite.mockPenaltyRepo.AssertNotCalled(suite.T(), "SavePenalty", mock.Anything, mock.Anything)
}

func (suite *PenaltyServiceTestSuite) TestApprovePenalty_PostsAccrual() {
	ctx := context.Background()
	penalty := &domain.PenaltyRecord{
		PenaltyID:     uuid.NewString(),
		MemberID:      suite.memberID,
		PenaltyTypeID: suite.penaltyType.PenaltyTypeID,
		Amount:        suite.penaltyType.Fee,
		Period:        "2026-04",
		Status:        domain.PenaltyPending,
	}
	journal := &domain.Journal{JournalID: uuid.NewString(), Status: domain.Posted}

	suite.mockPenaltyRepo.On("FindPenaltyByID", ctx, penalty.PenaltyID).Return(penalty, nil).Once()
	suite.expectAccrualPosting(suite.officerID)

	var postedInput dto.PostEntryInput
	suite.mockLedgerSvc.On("PostEntry", ctx, mock.AnythingOfType("dto.PostEntryInput"), suite.officerID).
		Run(func(args mock.Arguments) {
			postedInput = args.Get(1).(dto.PostEntryInput)
		}).Return(journal, nil).Once()
	suite.mockPenaltyRepo.On("UpdatePenalty", ctx, mock.AnythingOfType("domain.PenaltyRecord")).Return(nil).Once()

	approved, err := suite.service.ApprovePenalty(ctx, penalty.PenaltyID, suite.officerID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.PenaltyApproved, approved.Status)
	suite.Require().NotNil(approved.JournalID)
	suite.Equal(journal.JournalID, *approved.JournalID)

	// Accrual debits the member's penalties-due account and credits penalty income.
	suite.Equal(domain.SourcePenaltyAccrual, postedInput.Source)
	suite.Equal(penalty.PenaltyID, postedInput.SourceReference)
	suite.Require().Len(postedInput.Lines, 2)
	suite.Equal(suite.dueAccount.AccountID, postedInput.Lines[0].AccountID)
	suite.Equal(domain.Debit, postedInput.Lines[0].LineType)
	suite.Equal(suite.incomeAccount.AccountID, postedInput.Lines[1].AccountID)
	suite.Equal(domain.Credit, postedInput.Lines[1].LineType)

	suite.mockLedgerSvc.AssertExpectations(suite.T())
	suite.mockPenaltyRepo.AssertExpectations(suite.T())
}

func (suite *PenaltyServiceTestSuite) TestApprovePenalty_AlreadyApproved() {
	ctx := context.Background()
	penalty := &domain.PenaltyRecord{
		PenaltyID: uuid.NewString(),
		MemberID:  suite.memberID,
		Status:    domain.PenaltyApproved,
	}

	suite.mockPenaltyRepo.On("FindPenaltyByID", ctx, penalty.PenaltyID).Return(penalty, nil).Once()

	_, err := suite.service.ApprovePenalty(ctx, penalty.PenaltyID, suite.officerID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPenaltyTransition)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PenaltyServiceTestSuite) TestRaiseAutoPenalty_CreatesApproved() {
	ctx := context.Background()
	req := domain.PenaltyRequest{
		MemberID:      suite.memberID,
		PenaltyTypeID: suite.penaltyType.PenaltyTypeID,
		Period:        "2026-04",
	}
	journal := &domain.Journal{JournalID: uuid.NewString(), Status: domain.Posted}

	suite.mockPenaltyRepo.On("FindMatchingPenalty", ctx, suite.memberID, suite.penaltyType.PenaltyTypeID, "2026-04").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(&domain.Member{MemberID: suite.memberID, IsActive: true}, nil).Once()
	suite.mockPenaltyRepo.On("FindPenaltyTypeByID", ctx, suite.penaltyType.PenaltyTypeID).Return(&suite.penaltyType, nil).Once()
	suite.expectAccrualPosting(suite.memberID)
	suite.mockLedgerSvc.On("PostEntry", ctx, mock.AnythingOfType("dto.PostEntryInput"), suite.memberID).Return(journal, nil).Once()
	suite.mockPenaltyRepo.On("SavePenalty", ctx, mock.AnythingOfType("domain.PenaltyRecord")).Return(nil).Once()

	penalty, err := suite.service.RaiseAutoPenalty(ctx, req, suite.memberID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.PenaltyApproved, penalty.Status)
	suite.Require().NotNil(penalty.JournalID)
	suite.Equal(journal.JournalID, *penalty.JournalID)
	suite.mockPenaltyRepo.AssertExpectations(suite.T())
}

func (suite *PenaltyServiceTestSuite) TestRaiseAutoPenalty_Idempotent() {
	ctx := context.Background()
	existingJournalID := uuid.NewString()
	existing := &domain.PenaltyRecord{
		PenaltyID:     uuid.NewString(),
		MemberID:      suite.memberID,
		PenaltyTypeID: suite.penaltyType.PenaltyTypeID,
		Period:        "2026-04",
		Status:        domain.PenaltyApproved,
		JournalID:     &existingJournalID,
	}
	req := domain.PenaltyRequest{
		MemberID:      suite.memberID,
		PenaltyTypeID: suite.penaltyType.PenaltyTypeID,
		Period:        "2026-04",
	}

	suite.mockPenaltyRepo.On("FindMatchingPenalty", ctx, suite.memberID, suite.penaltyType.PenaltyTypeID, "2026-04").Return(existing, nil).Once()

	penalty, err := suite.service.RaiseAutoPenalty(ctx, req, suite.memberID, suite.now)

	suite.Require().NoError(err)
	suite.Equal(existing.PenaltyID, penalty.PenaltyID)
	suite.mockPenaltyRepo.AssertNotCalled(suite.T(), "SavePenalty", mock.Anything, mock.Anything)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PenaltyServiceTestSuite) TestMarkPenaltyPaid_FromPendingRejected() {
	ctx := context.Background()
	penalty := &domain.PenaltyRecord{
		PenaltyID: uuid.NewString(),
		MemberID:  suite.memberID,
		Status:    domain.PenaltyPending,
	}

	suite.mockPenaltyRepo.On("FindPenaltyByID", ctx, penalty.PenaltyID).Return(penalty, nil).Once()

	_, err := suite.service.MarkPenaltyPaid(ctx, penalty.PenaltyID, suite.officerID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPenaltyTransition)
}

func (suite *PenaltyServiceTestSuite) TestListUnpaidPenalties_OnlyApproved() {
	ctx := context.Background()
	records := []domain.PenaltyRecord{
		{PenaltyID: uuid.NewString(), Status: domain.PenaltyPending},
		{PenaltyID: uuid.NewString(), Status: domain.PenaltyApproved},
		{PenaltyID: uuid.NewString(), Status: domain.PenaltyApproved},
	}

	suite.mockPenaltyRepo.On("ListUnpaidPenaltiesByMember", ctx, suite.memberID).Return(records, nil).Once()

	unpaid, err := suite.service.ListUnpaidPenalties(ctx, suite.memberID)

	suite.Require().NoError(err)
	suite.Len(unpaid, 2)
	for _, p := range unpaid {
		suite.Equal(domain.PenaltyApproved, p.Status)
	}
}

func (suite *PenaltyServiceTestSuite) TestCreatePenaltyType_ZeroFee() {
	ctx := context.Background()
	req := dto.CreatePenaltyTypeRequest{Name: "Free pass", Fee: decimal.Zero}

	_, err := suite.service.CreatePenaltyType(ctx, req, suite.officerID, suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPenaltyTypeFee)
	suite.mockPenaltyRepo.AssertNotCalled(suite.T(), "SavePenaltyType", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestPenaltyService(t *testing.T) {
	suite.Run(t, new(PenaltyServiceTestSuite))
}
