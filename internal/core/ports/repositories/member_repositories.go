package repositories

import (
	"context"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// MemberReader defines read operations for member data.
type MemberReader interface {
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error)
	ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error)
}

// MemberWriter defines write operations for member data.
type MemberWriter interface {
	SaveMember(ctx context.Context, member domain.Member) error
	UpdateMember(ctx context.Context, member domain.Member) error
}

// TierReader defines read operations for credit rating tier data.
type TierReader interface {
	// FindTierByID retrieves a tier with its interest bands populated.
	FindTierByID(ctx context.Context, tierID string) (*domain.CreditRatingTier, error)
	ListTiers(ctx context.Context) ([]domain.CreditRatingTier, error)
}

// TierWriter defines write operations for credit rating tier data.
type TierWriter interface {
	// SaveTier persists a tier together with its interest bands.
	SaveTier(ctx context.Context, tier domain.CreditRatingTier) error
}

// MemberRepositoryFacade combines all member-related repository interfaces.
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
	TierReader
	TierWriter
}
