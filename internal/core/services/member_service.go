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
	"github.com/teddynyambe/luboss-vb-sub000/internal/utils"
)

var (
	ErrEmailTaken     = fmt.Errorf("%w: email is already registered", apperrors.ErrDuplicate)
	ErrBadCredentials = fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
)

// memberService manages the member registry, credit rating tiers and login.
type memberService struct {
	BaseService
	memberRepo portsrepo.MemberRepositoryFacade
	ledgerSvc  portssvc.AccountManagerSvc

	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewMemberService creates a new member service.
func NewMemberService(memberRepo portsrepo.MemberRepositoryFacade, ledgerSvc portssvc.AccountManagerSvc, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.MemberSvcFacade {
	return &memberService{
		memberRepo: memberRepo,
		ledgerSvc:  ledgerSvc,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
		jwtIssuer:  jwtIssuer,
	}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

func (s *memberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.memberRepo.FindMemberByID(ctx, memberID)
}

func (s *memberService) ListMembers(ctx context.Context, limit int) ([]domain.Member, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.memberRepo.ListMembers(ctx, limit, 0)
}

func (s *memberService) GetTierByID(ctx context.Context, tierID string) (*domain.CreditRatingTier, error) {
	return s.memberRepo.FindTierByID(ctx, tierID)
}

func (s *memberService) ListTiers(ctx context.Context) ([]domain.CreditRatingTier, error) {
	return s.memberRepo.ListTiers(ctx)
}

func (s *memberService) RegisterMember(ctx context.Context, req dto.CreateMemberRequest, creatorID string, now time.Time) (*domain.Member, error) {
	existing, err := s.memberRepo.FindMemberByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if req.TierID != nil {
		if _, err := s.memberRepo.FindTierByID(ctx, *req.TierID); err != nil {
			return nil, err
		}
	}

	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := domain.Member{
		MemberID:     uuid.NewString(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		TierID:       req.TierID,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		return nil, err
	}

	// Every member gets their ledger accounts up front so the first posting
	// against them never races account creation.
	if err := s.ledgerSvc.EnsureMemberAccounts(ctx, member.MemberID, creatorID, now); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Member registered",
		slog.String("member_id", member.MemberID),
		slog.String("role", string(member.Role)),
	)
	return &member, nil
}

func (s *memberService) AssignTier(ctx context.Context, memberID string, tierID string, requestingUserID string, now time.Time) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberRepo.FindTierByID(ctx, tierID); err != nil {
		return nil, err
	}

	member.TierID = &tierID
	member.LastUpdatedAt = now
	member.LastUpdatedBy = requestingUserID

	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) DeactivateMember(ctx context.Context, memberID string, requestingUserID string, now time.Time) error {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return err
	}

	member.IsActive = false
	member.LastUpdatedAt = now
	member.LastUpdatedBy = requestingUserID

	return s.memberRepo.UpdateMember(ctx, *member)
}

func (s *memberService) CreateTier(ctx context.Context, req dto.CreateTierRequest, creatorID string, now time.Time) (*domain.CreditRatingTier, error) {
	if !req.Multiplier.IsPositive() {
		return nil, fmt.Errorf("%w: tier multiplier must be positive", apperrors.ErrValidation)
	}

	tier := domain.CreditRatingTier{
		TierID:     uuid.NewString(),
		Name:       req.Name,
		Multiplier: req.Multiplier,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	for _, b := range req.Bands {
		if b.TermMonths <= 0 {
			return nil, fmt.Errorf("%w: band term must be positive", apperrors.ErrValidation)
		}
		if b.MinRate.IsNegative() {
			return nil, fmt.Errorf("%w: band rates must be non-negative", apperrors.ErrValidation)
		}
		if b.MaxRate.LessThan(b.MinRate) {
			return nil, fmt.Errorf("%w: band max rate below min rate", apperrors.ErrValidation)
		}
		tier.Bands = append(tier.Bands, domain.InterestBand{
			TermMonths: b.TermMonths,
			MinRate:    b.MinRate,
			MaxRate:    b.MaxRate,
		})
	}

	if err := s.memberRepo.SaveTier(ctx, tier); err != nil {
		return nil, err
	}
	return &tier, nil
}

func (s *memberService) Login(ctx context.Context, req dto.LoginRequest, now time.Time) (*dto.LoginResponse, error) {
	member, err := s.memberRepo.FindMemberByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !member.IsActive {
		return nil, ErrBadCredentials
	}
	if !utils.CheckPasswordHash(req.Password, member.PasswordHash) {
		return nil, ErrBadCredentials
	}

	token, expiresAt, err := utils.GenerateJWT(member.MemberID, string(member.Role), s.jwtSecret, s.jwtExpiry, s.jwtIssuer, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.LogInfo(ctx, "Member logged in", slog.String("member_id", member.MemberID))
	return &dto.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}
