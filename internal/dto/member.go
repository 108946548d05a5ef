package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// CreateMemberRequest registers a member.
type CreateMemberRequest struct {
	FullName string      `json:"fullName" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     domain.Role `json:"role"`
	TierID   *string     `json:"tierID"`
}

// LoginRequest authenticates a member by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MemberResponse is a member as returned to callers.
type MemberResponse struct {
	MemberID  string      `json:"memberID"`
	FullName  string      `json:"fullName"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	TierID    *string     `json:"tierID,omitempty"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CreateTierRequest configures a credit rating tier with its interest bands.
type CreateTierRequest struct {
	Name       string                `json:"name" binding:"required"`
	Multiplier decimal.Decimal       `json:"multiplier" binding:"required"`
	Bands      []InterestBandRequest `json:"bands"`
}

// InterestBandRequest is one term-keyed interest range.
type InterestBandRequest struct {
	TermMonths int             `json:"termMonths" binding:"required"`
	MinRate    decimal.Decimal `json:"minRate"`
	MaxRate    decimal.Decimal `json:"maxRate"`
}

// AssignTierRequest moves a member onto a credit rating tier.
type AssignTierRequest struct {
	TierID string `json:"tierID" binding:"required"`
}

// ToMemberResponse converts a domain member to its response form.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:  m.MemberID,
		FullName:  m.FullName,
		Email:     m.Email,
		Role:      m.Role,
		TierID:    m.TierID,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
