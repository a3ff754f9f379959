package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/memberops/memberops-api/internal/domain"
)

const staffColumns = `id, username, password_hash, display_name, email, role, created_at`

type staffRepository struct {
	db DBTX
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(db DBTX) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	const query = `
        INSERT INTO staff (username, password_hash, display_name, email, role)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		staff.Username,
		staff.PasswordHash,
		staff.DisplayName,
		staff.Email,
		staff.Role,
	).Scan(&staff.ID, &staff.CreatedAt)
	return translateWriteErr(err)
}

func (r *staffRepository) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id=$1`
	staff, err := scanStaff(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return staff, nil
}

func (r *staffRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Staff, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = ANY($1)`
	return r.collect(ctx, query, ids)
}

func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE username=$1`
	staff, err := scanStaff(r.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, notFound(err)
	}
	return staff, nil
}

func (r *staffRepository) List(ctx context.Context) ([]domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY display_name ASC, id ASC`
	return r.collect(ctx, query)
}

func (r *staffRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Staff, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Staff{}
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *staff)
	}
	return result, rows.Err()
}

func scanStaff(row pgx.Row) (*domain.Staff, error) {
	var staff domain.Staff
	if err := row.Scan(
		&staff.ID,
		&staff.Username,
		&staff.PasswordHash,
		&staff.DisplayName,
		&staff.Email,
		&staff.Role,
		&staff.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}
