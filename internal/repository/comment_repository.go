package repository

import (
	"context"

	"github.com/memberops/memberops-api/internal/domain"
)

type commentRepository struct {
	db DBTX
}

// NewCommentRepository instantiates the repository.
func NewCommentRepository(db DBTX) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.ServiceRequestComment) error {
	const query = `
        INSERT INTO service_request_comments (service_request_id, staff_id, comment_text, created_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		comment.ServiceRequestID,
		comment.StaffID,
		comment.CommentText,
		comment.CreatedAt,
	).Scan(&comment.ID)
}

func (r *commentRepository) ListByRequest(ctx context.Context, requestID int64) ([]domain.ServiceRequestComment, error) {
	const query = `
        SELECT id, service_request_id, staff_id, comment_text, created_at
        FROM service_request_comments WHERE service_request_id=$1
        ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ServiceRequestComment{}
	for rows.Next() {
		var comment domain.ServiceRequestComment
		if err := rows.Scan(
			&comment.ID,
			&comment.ServiceRequestID,
			&comment.StaffID,
			&comment.CommentText,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
