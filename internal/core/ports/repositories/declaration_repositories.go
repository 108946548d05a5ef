package repositories

import (
	"context"
	"time"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// DeclarationReader defines read operations for declaration data.
type DeclarationReader interface {
	FindDeclarationByID(ctx context.Context, declarationID string) (*domain.Declaration, error)

	// FindDeclaration retrieves the declaration for (member, cycle, effective month), if any.
	FindDeclaration(ctx context.Context, memberID, cycleID string, effectiveMonth time.Time) (*domain.Declaration, error)

	ListDeclarationsByMember(ctx context.Context, memberID, cycleID string) ([]domain.Declaration, error)
	ListDeclarationsByMonth(ctx context.Context, cycleID string, effectiveMonth time.Time) ([]domain.Declaration, error)
}

// DeclarationWriter defines write operations for declaration data.
type DeclarationWriter interface {
	SaveDeclaration(ctx context.Context, declaration domain.Declaration) error
	UpdateDeclaration(ctx context.Context, declaration domain.Declaration) error
}

// DeclarationRepositoryFacade combines all declaration-related repository interfaces.
type DeclarationRepositoryFacade interface {
	DeclarationReader
	DeclarationWriter
}
