package repositories

import (
	"context"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// DepositProofReader defines read operations for deposit proof data.
type DepositProofReader interface {
	FindProofByID(ctx context.Context, proofID string) (*domain.DepositProof, error)
	FindProofByDeclarationID(ctx context.Context, declarationID string) (*domain.DepositProof, error)
	ListProofsByStatus(ctx context.Context, status domain.DepositProofStatus) ([]domain.DepositProof, error)
}

// DepositProofWriter defines write operations for deposit proof data.
type DepositProofWriter interface {
	SaveProof(ctx context.Context, proof domain.DepositProof) error
	UpdateProof(ctx context.Context, proof domain.DepositProof) error
}

// DepositRepositoryFacade combines all deposit-proof repository interfaces.
type DepositRepositoryFacade interface {
	DepositProofReader
	DepositProofWriter
}
