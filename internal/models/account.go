package models

// AccountType categorizes an account for balance polarity.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account represents one node of the chart of accounts as persisted.
type Account struct {
	AccountID     string      `json:"accountID"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	AccountType   AccountType `json:"accountType"`
	OwnerMemberID *string     `json:"ownerMemberID"`
	IsActive      bool        `json:"isActive"`
	AuditFields
}
