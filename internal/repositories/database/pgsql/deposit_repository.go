package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
)

const proofColumns = `proof_id, declaration_id, member_id, file_ref, amount, status, officer_comment,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxDepositRepository struct {
	BaseRepository
}

// newPgxDepositRepository creates a new repository for deposit proof data.
func newPgxDepositRepository(pool *pgxpool.Pool) portsrepo.DepositRepositoryFacade {
	return &PgxDepositRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DepositRepositoryFacade = (*PgxDepositRepository)(nil)

func scanProof(row pgx.Row) (*domain.DepositProof, error) {
	var p domain.DepositProof
	err := row.Scan(
		&p.ProofID,
		&p.DeclarationID,
		&p.MemberID,
		&p.FileRef,
		&p.Amount,
		&p.Status,
		&p.OfficerComment,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxDepositRepository) FindProofByID(ctx context.Context, proofID string) (*domain.DepositProof, error) {
	query := `SELECT ` + proofColumns + ` FROM deposit_proofs WHERE proof_id = $1;`

	proof, err := scanProof(r.Pool.QueryRow(ctx, query, proofID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find proof by ID "+proofID, err)
	}
	return proof, nil
}

// FindProofByDeclarationID returns the most recent proof for the declaration.
// Earlier rejected proofs stay in history.
func (r *PgxDepositRepository) FindProofByDeclarationID(ctx context.Context, declarationID string) (*domain.DepositProof, error) {
	query := `SELECT ` + proofColumns + ` FROM deposit_proofs
		WHERE declaration_id = $1 ORDER BY created_at DESC LIMIT 1;`

	proof, err := scanProof(r.Pool.QueryRow(ctx, query, declarationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find proof for declaration "+declarationID, err)
	}
	return proof, nil
}

func (r *PgxDepositRepository) ListProofsByStatus(ctx context.Context, status domain.DepositProofStatus) ([]domain.DepositProof, error) {
	query := `SELECT ` + proofColumns + ` FROM deposit_proofs WHERE status = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, status)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query proofs by status", err)
	}
	defer rows.Close()

	var proofs []domain.DepositProof
	for rows.Next() {
		p, err := scanProof(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan proof row", err)
		}
		proofs = append(proofs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating proof rows", err)
	}
	return proofs, nil
}

func (r *PgxDepositRepository) SaveProof(ctx context.Context, proof domain.DepositProof) error {
	query := `
		INSERT INTO deposit_proofs (proof_id, declaration_id, member_id, file_ref, amount, status, officer_comment,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		proof.ProofID,
		proof.DeclarationID,
		proof.MemberID,
		proof.FileRef,
		proof.Amount,
		proof.Status,
		proof.OfficerComment,
		proof.CreatedAt,
		proof.CreatedBy,
		proof.LastUpdatedAt,
		proof.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert proof "+proof.ProofID, err)
	}
	return nil
}

func (r *PgxDepositRepository) UpdateProof(ctx context.Context, proof domain.DepositProof) error {
	query := `
		UPDATE deposit_proofs
		SET status = $2, officer_comment = $3, last_updated_at = $4, last_updated_by = $5
		WHERE proof_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		proof.ProofID,
		proof.Status,
		proof.OfficerComment,
		proof.LastUpdatedAt,
		proof.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update proof "+proof.ProofID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
