package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/memberops/memberops-api/internal/domain"
)

const flagColumns = `id, member_id, flag_type, description, created_by, created_at, resolved_by, resolved_at, resolution_notes`

type accountFlagRepository struct {
	db DBTX
}

// NewAccountFlagRepository instantiates the repository.
func NewAccountFlagRepository(db DBTX) AccountFlagRepository {
	return &accountFlagRepository{db: db}
}

func (r *accountFlagRepository) Create(ctx context.Context, flag *domain.AccountFlag) error {
	const query = `
        INSERT INTO account_flags (member_id, flag_type, description, created_by, created_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		flag.MemberID,
		flag.FlagType,
		flag.Description,
		flag.CreatedBy,
		flag.CreatedAt,
	).Scan(&flag.ID)
}

func (r *accountFlagRepository) GetForMember(ctx context.Context, memberID, flagID int64) (*domain.AccountFlag, error) {
	query := `SELECT ` + flagColumns + ` FROM account_flags WHERE id=$1 AND member_id=$2`
	flag, err := scanFlag(r.db.QueryRow(ctx, query, flagID, memberID))
	if err != nil {
		return nil, notFound(err)
	}
	return flag, nil
}

func (r *accountFlagRepository) ListByMember(ctx context.Context, memberID int64) ([]domain.AccountFlag, error) {
	query := `SELECT ` + flagColumns + ` FROM account_flags WHERE member_id=$1 ORDER BY created_at DESC, id DESC`
	return r.collect(ctx, query, memberID)
}

func (r *accountFlagRepository) ListByMembers(ctx context.Context, memberIDs []int64) ([]domain.AccountFlag, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + flagColumns + ` FROM account_flags WHERE member_id = ANY($1) ORDER BY created_at DESC, id DESC`
	return r.collect(ctx, query, memberIDs)
}

func (r *accountFlagRepository) MarkResolved(ctx context.Context, flag *domain.AccountFlag) error {
	const query = `
        UPDATE account_flags SET resolved_by=$1, resolved_at=$2, resolution_notes=$3
        WHERE id=$4 AND member_id=$5 AND resolved_at IS NULL`
	cmd, err := r.db.Exec(ctx, query,
		flag.ResolvedBy,
		flag.ResolvedAt,
		flag.ResolutionNotes,
		flag.ID,
		flag.MemberID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (r *accountFlagRepository) collect(ctx context.Context, query string, args ...any) ([]domain.AccountFlag, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.AccountFlag{}
	for rows.Next() {
		flag, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *flag)
	}
	return result, rows.Err()
}

func scanFlag(row pgx.Row) (*domain.AccountFlag, error) {
	var flag domain.AccountFlag
	if err := row.Scan(
		&flag.ID,
		&flag.MemberID,
		&flag.FlagType,
		&flag.Description,
		&flag.CreatedBy,
		&flag.CreatedAt,
		&flag.ResolvedBy,
		&flag.ResolvedAt,
		&flag.ResolutionNotes,
	); err != nil {
		return nil, err
	}
	return &flag, nil
}
