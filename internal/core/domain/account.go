package domain

import "fmt"

// AccountType defines the fundamental accounting type of an account.
// The type is fixed at creation and determines balance polarity: debits
// increase ASSET/EXPENSE balances, credits increase the rest.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Organization-level account codes. Created lazily the first time a workflow
// posts to them.
const (
	OrgBankCash       = "ORG-BANK-CASH"
	OrgSocialFund     = "ORG-SOCIAL-FUND"
	OrgAdminFund      = "ORG-ADMIN-FUND"
	OrgPenaltyIncome  = "ORG-PENALTY-INCOME"
	OrgInterestIncome = "ORG-INTEREST-INCOME"
)

// MemberAccountKind distinguishes the per-member accounts in the chart.
type MemberAccountKind string

const (
	MemberSavings         MemberAccountKind = "SAVINGS"
	MemberSocialDue       MemberAccountKind = "SOCIAL-DUE"
	MemberAdminDue        MemberAccountKind = "ADMIN-DUE"
	MemberPenaltyDue      MemberAccountKind = "PENALTY-DUE"
	MemberLoansReceivable MemberAccountKind = "LOANS-RECEIVABLE"
)

// MemberAccountCode derives the unique chart code for a member account.
func MemberAccountCode(memberID string, kind MemberAccountKind) string {
	return fmt.Sprintf("MBR-%s-%s", memberID, kind)
}

// TypeForMemberAccount returns the accounting type each member account carries.
// Savings is money the organization holds on the member's behalf; the rest are
// amounts due from the member, so they behave as receivables.
func TypeForMemberAccount(kind MemberAccountKind) AccountType {
	if kind == MemberSavings {
		return Liability
	}
	return Asset
}

// Account represents one entry in the chart of accounts. Accounts belong to
// the organization (OwnerMemberID nil) or to exactly one member, and are
// deactivated rather than deleted so the journal history stays resolvable.
type Account struct {
	AccountID     string      `json:"accountID"` // Primary key (UUID)
	Code          string      `json:"code"`      // Unique chart code
	Name          string      `json:"name"`
	AccountType   AccountType `json:"accountType"`
	OwnerMemberID *string     `json:"ownerMemberID,omitempty"`
	IsActive      bool        `json:"isActive"`
	AuditFields
}
