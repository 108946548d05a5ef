package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// PostEntryInput is the workflow-facing posting request. Workflows build it
// with resolved account IDs; handlers never construct one directly.
type PostEntryInput struct {
	Date              time.Time
	Description       string
	Source            domain.JournalSource
	SourceReference   string
	CycleID           *string
	OriginalJournalID *string // Set on reversal entries only
	Lines             []domain.LineSpec
}

// LineResponse is one journal line as returned to callers.
type LineResponse struct {
	LineID    string          `json:"lineID"`
	JournalID string          `json:"journalID"`
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	LineType  domain.LineType `json:"lineType"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// JournalResponse is a journal entry as returned to callers.
type JournalResponse struct {
	JournalID          string               `json:"journalID"`
	JournalDate        time.Time            `json:"journalDate"`
	Description        string               `json:"description"`
	Source             domain.JournalSource `json:"source"`
	SourceReference    string               `json:"sourceReference,omitempty"`
	CycleID            *string              `json:"cycleID,omitempty"`
	Status             domain.JournalStatus `json:"status"`
	OriginalJournalID  *string              `json:"originalJournalID,omitempty"`
	ReversingJournalID *string              `json:"reversingJournalID,omitempty"`
	Amount             decimal.Decimal      `json:"amount"`
	Lines              []LineResponse       `json:"lines,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	CreatedBy          string               `json:"createdBy"`
}

// ToLineResponse converts a domain line to its response form.
func ToLineResponse(l domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:    l.LineID,
		JournalID: l.JournalID,
		AccountID: l.AccountID,
		Amount:    l.Amount,
		LineType:  l.LineType,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
	}
}

// ToJournalResponse converts a domain journal to its response form.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:          j.JournalID,
		JournalDate:        j.JournalDate,
		Description:        j.Description,
		Source:             j.Source,
		SourceReference:    j.SourceReference,
		CycleID:            j.CycleID,
		Status:             j.Status,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		Amount:             j.Amount,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
	}
	for _, l := range j.Lines {
		resp.Lines = append(resp.Lines, ToLineResponse(l))
	}
	return resp
}

// BalanceResponse is a derived account balance.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      *time.Time      `json:"asOf,omitempty"`
}

// ListTransactionsParams holds pagination parameters for line listings.
type ListTransactionsParams struct {
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is a page of lines for one account.
type ListTransactionsResponse struct {
	Transactions []LineResponse `json:"transactions"`
	NextToken    *string        `json:"nextToken,omitempty"`
}
