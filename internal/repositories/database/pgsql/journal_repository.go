package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
	"github.com/teddynyambe/luboss-vb-sub000/internal/models"
	"github.com/teddynyambe/luboss-vb-sub000/internal/utils/mapping"
	"github.com/teddynyambe/luboss-vb-sub000/internal/utils/pagination"
)

const journalColumns = `journal_id, journal_date, description, source, source_reference, cycle_id,
	status, original_journal_id, reversing_journal_id, amount,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, journal_id, account_id, amount, line_type, notes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal and line data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (*models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.JournalDate,
		&m.Description,
		&m.Source,
		&m.SourceReference,
		&m.CycleID,
		&m.Status,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.Amount,
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

// SaveJournal persists the journal row and all its lines in one database
// transaction. Either the whole entry lands or nothing does.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournal(journal)
	journalQuery := `
		INSERT INTO journals (journal_id, journal_date, description, source, source_reference, cycle_id,
			status, original_journal_id, reversing_journal_id, amount,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, journalQuery,
		m.JournalID,
		m.JournalDate,
		m.Description,
		m.Source,
		m.SourceReference,
		m.CycleID,
		m.Status,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal "+m.JournalID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, journal_id, account_id, amount, line_type, notes,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, line := range lines {
		lm := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			lm.LineID,
			lm.JournalID,
			lm.AccountID,
			lm.Amount,
			lm.LineType,
			lm.Notes,
			lm.CreatedAt,
			lm.CreatedBy,
			lm.LastUpdatedAt,
			lm.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+m.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}

	journal := mapping.ToDomainJournal(*m)
	return &journal, nil
}

func (r *PgxJournalRepository) FindJournalBySource(ctx context.Context, source domain.JournalSource, sourceReference string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE source = $1 AND source_reference = $2 LIMIT 1;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, string(source), sourceReference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by source "+string(source), err)
	}

	journal := mapping.ToDomainJournal(*m)
	return &journal, nil
}

func (r *PgxJournalRepository) ListJournals(ctx context.Context, cycleID *string, source *domain.JournalSource, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + journalColumns + ` FROM journals WHERE 1=1`
	args := []interface{}{}

	if cycleID != nil {
		args = append(args, *cycleID)
		query += ` AND cycle_id = $` + strconv.Itoa(len(args))
	}
	if source != nil {
		args = append(args, string(*source))
		query += ` AND source = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (journal_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY journal_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals", err)
	}
	defer rows.Close()

	var journals []domain.Journal
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", err)
		}
		journals = append(journals, mapping.ToDomainJournal(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}

	var token *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[len(journals)-1]
		t := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		token = &t
	}
	return journals, token, nil
}

func (r *PgxJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2,
		    reversing_journal_id = COALESCE($3, reversing_journal_id),
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE journal_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, journalID, string(status), reversingJournalID, updatedAt, updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal "+journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal "+journalID, err)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		var m models.JournalLine
		err := rows.Scan(
			&m.LineID,
			&m.JournalID,
			&m.AccountID,
			&m.Amount,
			&m.LineType,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for journal "+journalID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for journal "+journalID, err)
	}

	return mapping.ToDomainJournalLineSlice(lines), nil
}

func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.journal_id, l.account_id, l.amount, l.line_type, l.notes,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by, j.journal_date
		FROM journal_lines l
		JOIN journals j ON l.journal_id = j.journal_id
		WHERE l.account_id = $1
	`
	orderBy := ` ORDER BY j.journal_date DESC, l.created_at DESC`

	args := []interface{}{accountID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += ` AND (j.journal_date, l.created_at) < ($2, $3)`
	}
	args = append(args, fetchLimit)
	query += orderBy + ` LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID, err)
	}
	defer rows.Close()

	type lineWithDate struct {
		model       models.JournalLine
		journalDate time.Time
	}

	var scanned []lineWithDate
	for rows.Next() {
		var lw lineWithDate
		err := rows.Scan(
			&lw.model.LineID,
			&lw.model.JournalID,
			&lw.model.AccountID,
			&lw.model.Amount,
			&lw.model.LineType,
			&lw.model.Notes,
			&lw.model.CreatedAt,
			&lw.model.CreatedBy,
			&lw.model.LastUpdatedAt,
			&lw.model.LastUpdatedBy,
			&lw.journalDate,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan line row for account "+accountID, err)
		}
		scanned = append(scanned, lw)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating line rows for account "+accountID, err)
	}

	var token *string
	if len(scanned) > limit {
		scanned = scanned[:limit]
		last := scanned[len(scanned)-1]
		t := pagination.EncodeToken(last.journalDate, last.model.CreatedAt)
		token = &t
	}

	lines := make([]domain.JournalLine, len(scanned))
	for i, lw := range scanned {
		lines[i] = mapping.ToDomainJournalLine(lw.model)
	}
	return lines, token, nil
}

// AccountBalance derives the balance by summing the account's lines with the
// polarity of its type. Nothing is read from a stored balance column; the
// journal is the only source of truth.
func (r *PgxJournalRepository) AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN (a.account_type IN ('ASSET', 'EXPENSE') AND l.line_type = 'DEBIT')
				  OR (a.account_type IN ('LIABILITY', 'EQUITY', 'INCOME') AND l.line_type = 'CREDIT')
				THEN l.amount
				ELSE -l.amount
			END), 0)
		FROM journal_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journals j ON l.journal_id = j.journal_id
		WHERE l.account_id = $1
	`
	args := []interface{}{accountID}
	if asOf != nil {
		args = append(args, *asOf)
		query += ` AND j.journal_date <= $2`
	}
	query += `;`

	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to derive balance for account "+accountID, err)
	}
	return balance, nil
}
