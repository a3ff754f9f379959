package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/memberops/memberops-api/internal/domain"
)

const serviceRequestColumns = `id, member_id, request_type, description, status, priority, created_by_id, assigned_to_id,
               resolution_type, resolution_notes, resolved_at, resolved_by_id, created_at, updated_at`

type serviceRequestRepository struct {
	db DBTX
}

// NewServiceRequestRepository instantiates the repository.
func NewServiceRequestRepository(db DBTX) ServiceRequestRepository {
	return &serviceRequestRepository{db: db}
}

func (r *serviceRequestRepository) Create(ctx context.Context, sr *domain.ServiceRequest) error {
	const query = `
        INSERT INTO service_requests (member_id, request_type, description, status, priority, created_by_id, assigned_to_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		sr.MemberID,
		sr.RequestType,
		sr.Description,
		sr.Status,
		sr.Priority,
		sr.CreatedByID,
		sr.AssignedToID,
		sr.CreatedAt,
		sr.UpdatedAt,
	).Scan(&sr.ID)
}

func (r *serviceRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE id=$1`
	sr, err := scanServiceRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return sr, nil
}

func (r *serviceRequestRepository) List(ctx context.Context, filter ServiceRequestFilter) ([]domain.ServiceRequest, error) {
	where, args := buildServiceRequestWhere(filter)
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests` + where + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ServiceRequest{}
	for rows.Next() {
		sr, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sr)
	}
	return result, rows.Err()
}

func (r *serviceRequestRepository) Update(ctx context.Context, sr *domain.ServiceRequest) error {
	const query = `
        UPDATE service_requests SET request_type=$1, description=$2, status=$3, priority=$4,
            assigned_to_id=$5, updated_at=$6
        WHERE id=$7`
	cmd, err := r.db.Exec(ctx, query,
		sr.RequestType,
		sr.Description,
		sr.Status,
		sr.Priority,
		sr.AssignedToID,
		sr.UpdatedAt,
		sr.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *serviceRequestRepository) MarkResolved(ctx context.Context, sr *domain.ServiceRequest) error {
	const query = `
        UPDATE service_requests SET status=$1, resolution_type=$2, resolution_notes=$3, resolved_at=$4,
            resolved_by_id=$5, updated_at=$6
        WHERE id=$7 AND status <> $8`
	cmd, err := r.db.Exec(ctx, query,
		sr.Status,
		sr.ResolutionType,
		sr.ResolutionNotes,
		sr.ResolvedAt,
		sr.ResolvedByID,
		sr.UpdatedAt,
		sr.ID,
		domain.ServiceRequestStatusResolved,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func scanServiceRequest(row pgx.Row) (*domain.ServiceRequest, error) {
	var sr domain.ServiceRequest
	if err := row.Scan(
		&sr.ID,
		&sr.MemberID,
		&sr.RequestType,
		&sr.Description,
		&sr.Status,
		&sr.Priority,
		&sr.CreatedByID,
		&sr.AssignedToID,
		&sr.ResolutionType,
		&sr.ResolutionNotes,
		&sr.ResolvedAt,
		&sr.ResolvedByID,
		&sr.CreatedAt,
		&sr.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sr, nil
}

func buildServiceRequestWhere(filter ServiceRequestFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_id=$%d", len(args)))
	}
	if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		clauses = append(clauses, fmt.Sprintf("member_id=$%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
