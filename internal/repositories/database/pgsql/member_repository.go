package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
)

const memberColumns = `member_id, full_name, email, password_hash, role, tier_id, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxMemberRepository struct {
	BaseRepository
}

// newPgxMemberRepository creates a new repository for member and tier data.
func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(
		&m.MemberID,
		&m.FullName,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.TierID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`

	member, err := scanMember(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find member by ID "+memberID, err)
	}
	return member, nil
}

func (r *PgxMemberRepository) FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1;`

	member, err := scanMember(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find member by email", err)
	}
	return member, nil
}

func (r *PgxMemberRepository) ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE is_active = TRUE ORDER BY full_name LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query members", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan member row", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating member rows", err)
	}
	return members, nil
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	query := `
		INSERT INTO members (member_id, full_name, email, password_hash, role, tier_id, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		member.MemberID,
		member.FullName,
		member.Email,
		member.PasswordHash,
		member.Role,
		member.TierID,
		member.IsActive,
		member.CreatedAt,
		member.CreatedBy,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "email already registered", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert member "+member.MemberID, err)
	}
	return nil
}

func (r *PgxMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	query := `
		UPDATE members
		SET full_name = $2, role = $3, tier_id = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE member_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		member.MemberID,
		member.FullName,
		member.Role,
		member.TierID,
		member.IsActive,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update member "+member.MemberID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxMemberRepository) FindTierByID(ctx context.Context, tierID string) (*domain.CreditRatingTier, error) {
	query := `
		SELECT tier_id, name, multiplier, created_at, created_by, last_updated_at, last_updated_by
		FROM credit_rating_tiers WHERE tier_id = $1;
	`
	var tier domain.CreditRatingTier
	err := r.Pool.QueryRow(ctx, query, tierID).Scan(
		&tier.TierID,
		&tier.Name,
		&tier.Multiplier,
		&tier.CreatedAt,
		&tier.CreatedBy,
		&tier.LastUpdatedAt,
		&tier.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tier by ID "+tierID, err)
	}

	bands, err := r.findBands(ctx, tierID)
	if err != nil {
		return nil, err
	}
	tier.Bands = bands
	return &tier, nil
}

func (r *PgxMemberRepository) findBands(ctx context.Context, tierID string) ([]domain.InterestBand, error) {
	query := `
		SELECT term_months, min_rate, max_rate
		FROM tier_interest_bands WHERE tier_id = $1 ORDER BY term_months;
	`
	rows, err := r.Pool.Query(ctx, query, tierID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bands for tier "+tierID, err)
	}
	defer rows.Close()

	var bands []domain.InterestBand
	for rows.Next() {
		var b domain.InterestBand
		if err := rows.Scan(&b.TermMonths, &b.MinRate, &b.MaxRate); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan band row for tier "+tierID, err)
		}
		bands = append(bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating band rows for tier "+tierID, err)
	}
	return bands, nil
}

func (r *PgxMemberRepository) ListTiers(ctx context.Context) ([]domain.CreditRatingTier, error) {
	query := `
		SELECT tier_id, name, multiplier, created_at, created_by, last_updated_at, last_updated_by
		FROM credit_rating_tiers ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tiers", err)
	}
	defer rows.Close()

	var tiers []domain.CreditRatingTier
	for rows.Next() {
		var tier domain.CreditRatingTier
		err := rows.Scan(
			&tier.TierID,
			&tier.Name,
			&tier.Multiplier,
			&tier.CreatedAt,
			&tier.CreatedBy,
			&tier.LastUpdatedAt,
			&tier.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tier row", err)
		}
		tiers = append(tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tier rows", err)
	}

	for i := range tiers {
		bands, err := r.findBands(ctx, tiers[i].TierID)
		if err != nil {
			return nil, err
		}
		tiers[i].Bands = bands
	}
	return tiers, nil
}

// SaveTier persists the tier and its interest bands in one transaction.
func (r *PgxMemberRepository) SaveTier(ctx context.Context, tier domain.CreditRatingTier) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tierQuery := `
		INSERT INTO credit_rating_tiers (tier_id, name, multiplier,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, tierQuery,
		tier.TierID,
		tier.Name,
		tier.Multiplier,
		tier.CreatedAt,
		tier.CreatedBy,
		tier.LastUpdatedAt,
		tier.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert tier "+tier.TierID, err)
	}

	batch := &pgx.Batch{}
	bandQuery := `INSERT INTO tier_interest_bands (tier_id, term_months, min_rate, max_rate) VALUES ($1, $2, $3, $4);`
	for _, b := range tier.Bands {
		batch.Queue(bandQuery, tier.TierID, b.TermMonths, b.MinRate, b.MaxRate)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert bands for tier "+tier.TierID, err)
	}

	return r.Commit(ctx, tx)
}
