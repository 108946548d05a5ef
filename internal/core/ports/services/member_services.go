package services

import (
	"context"
	"time"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// MemberReaderSvc defines read operations for members and tiers.
type MemberReaderSvc interface {
	// GetMemberByID retrieves a member.
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// ListMembers retrieves active members.
	ListMembers(ctx context.Context, limit int) ([]domain.Member, error)

	// GetTierByID retrieves a credit rating tier with its interest bands.
	GetTierByID(ctx context.Context, tierID string) (*domain.CreditRatingTier, error)

	// ListTiers retrieves the configured credit rating tiers.
	ListTiers(ctx context.Context) ([]domain.CreditRatingTier, error)
}

// MemberWriterSvc defines member registry operations.
type MemberWriterSvc interface {
	// RegisterMember creates a member and their ledger accounts.
	RegisterMember(ctx context.Context, req dto.CreateMemberRequest, creatorID string, now time.Time) (*domain.Member, error)

	// AssignTier moves a member onto a credit rating tier.
	AssignTier(ctx context.Context, memberID string, tierID string, requestingUserID string, now time.Time) (*domain.Member, error)

	// DeactivateMember marks a member inactive.
	DeactivateMember(ctx context.Context, memberID string, requestingUserID string, now time.Time) error

	// CreateTier configures a credit rating tier.
	CreateTier(ctx context.Context, req dto.CreateTierRequest, creatorID string, now time.Time) (*domain.CreditRatingTier, error)
}

// AuthSvc defines authentication operations.
type AuthSvc interface {
	// Login verifies credentials and issues a signed access token.
	Login(ctx context.Context, req dto.LoginRequest, now time.Time) (*dto.LoginResponse, error)
}

// MemberSvcFacade combines all member-related service interfaces.
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberWriterSvc
	AuthSvc
}
