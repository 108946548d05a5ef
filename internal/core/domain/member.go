package domain

import "github.com/shopspring/decimal"

// Role represents what a member may do in the system.
type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleOfficer Role = "OFFICER"
	RoleAdmin   Role = "ADMIN"
)

// Member is a participant in the village bank.
type Member struct {
	MemberID     string  `json:"memberID"` // Primary key (UUID)
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Role         Role    `json:"role"`
	TierID       *string `json:"tierID,omitempty"` // FK -> CreditRatingTier
	IsActive     bool    `json:"isActive"`
	AuditFields
}

// CanApprove reports whether the member's role allows officer actions.
func (m Member) CanApprove() bool {
	return m.Role == RoleOfficer || m.Role == RoleAdmin
}

// InterestBand is one row of a tier's term-keyed interest-range table.
type InterestBand struct {
	TermMonths int             `json:"termMonths"`
	MinRate    decimal.Decimal `json:"minRate"` // Percent per term
	MaxRate    decimal.Decimal `json:"maxRate"`
}

// CreditRatingTier classifies members for borrowing: the multiplier scales the
// savings balance into a maximum loan amount, and the bands list the interest
// rates available per loan term.
type CreditRatingTier struct {
	TierID     string          `json:"tierID"` // Primary key (UUID)
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Bands      []InterestBand  `json:"bands,omitempty"`
	AuditFields
}

// BandForTerm returns the interest band for the given term, if the tier offers one.
func (t CreditRatingTier) BandForTerm(termMonths int) (InterestBand, bool) {
	for _, b := range t.Bands {
		if b.TermMonths == termMonths {
			return b, true
		}
	}
	return InterestBand{}, false
}
