package domain

import "github.com/shopspring/decimal"

// DepositProofStatus is the lifecycle state of an uploaded deposit proof.
type DepositProofStatus string

const (
	ProofSubmitted DepositProofStatus = "SUBMITTED"
	ProofApproved  DepositProofStatus = "APPROVED"
	ProofRejected  DepositProofStatus = "REJECTED"
)

// DepositProof is a member's evidence of a cash deposit against one
// declaration. FileRef is an opaque reference validated by the file-storage
// collaborator; the core never touches file contents.
type DepositProof struct {
	ProofID        string             `json:"proofID"` // Primary key (UUID)
	DeclarationID  string             `json:"declarationID"`
	MemberID       string             `json:"memberID"`
	FileRef        string             `json:"fileRef"`
	Amount         decimal.Decimal    `json:"amount"` // Total the member states was deposited
	Status         DepositProofStatus `json:"status"`
	OfficerComment string             `json:"officerComment,omitempty"`
	AuditFields
}
