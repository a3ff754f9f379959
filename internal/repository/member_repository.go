package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/memberops/memberops-api/internal/domain"
)

const memberColumns = `id, member_number, first_name, last_name, email, phone, status, join_date, notes`

type memberRepository struct {
	db DBTX
}

// NewMemberRepository instantiates the repository.
func NewMemberRepository(db DBTX) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (member_number, first_name, last_name, email, phone, status, join_date, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	err := r.db.QueryRow(ctx, query,
		member.MemberNumber,
		member.FirstName,
		member.LastName,
		member.Email,
		member.Phone,
		member.Status,
		member.JoinDate,
		member.Notes,
	).Scan(&member.ID)
	return translateWriteErr(err)
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id=$1`
	member, err := scanMember(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return member, nil
}

func (r *memberRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ANY($1)`
	return r.collect(ctx, query, ids)
}

func (r *memberRepository) List(ctx context.Context, filter MemberFilter) ([]domain.Member, error) {
	where, args := buildMemberWhere(filter)
	query := `SELECT ` + memberColumns + ` FROM members` + where + ` ORDER BY join_date DESC, id DESC`
	return r.collect(ctx, query, args...)
}

func (r *memberRepository) UpdateStatus(ctx context.Context, id int64, expected, next domain.MemberStatus) error {
	const query = `UPDATE members SET status=$1 WHERE id=$2 AND status=$3`
	cmd, err := r.db.Exec(ctx, query, next, id, expected)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (r *memberRepository) UpdateNotes(ctx context.Context, id int64, notes *string) error {
	const query = `UPDATE members SET notes=$1 WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, notes, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *memberRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *member)
	}
	return result, rows.Err()
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var member domain.Member
	if err := row.Scan(
		&member.ID,
		&member.MemberNumber,
		&member.FirstName,
		&member.LastName,
		&member.Email,
		&member.Phone,
		&member.Status,
		&member.JoinDate,
		&member.Notes,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

// buildMemberWhere ORs the search term across the identifying columns and
// ANDs the result with the status filter.
func buildMemberWhere(filter MemberFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(search))+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(member_number) LIKE $%[1]d OR LOWER(first_name) LIKE $%[1]d OR LOWER(last_name) LIKE $%[1]d OR LOWER(email) LIKE $%[1]d OR LOWER(phone) LIKE $%[1]d)", n))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
