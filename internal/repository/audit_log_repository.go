package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/memberops/memberops-api/internal/domain"
)

type auditLogRepository struct {
	db DBTX
}

// NewAuditLogRepository instantiates the repository.
func NewAuditLogRepository(db DBTX) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_logs (member_id, actor, action, details, timestamp)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		entry.MemberID,
		entry.Actor,
		entry.Action,
		entry.Details,
		entry.Timestamp,
	).Scan(&entry.ID)
}

func (r *auditLogRepository) List(ctx context.Context, filter AuditLogFilter) ([]domain.AuditLog, error) {
	where, args := buildAuditLogWhere(filter)
	query := `SELECT id, member_id, actor, action, details, timestamp FROM audit_logs` + where +
		` ORDER BY timestamp DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.AuditLog{}
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.MemberID,
			&entry.Actor,
			&entry.Action,
			&entry.Details,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func buildAuditLogWhere(filter AuditLogFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filter.Until != nil {
		args = append(args, *filter.Until)
		clauses = append(clauses, fmt.Sprintf("timestamp < $%d", len(args)))
	}
	if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		clauses = append(clauses, fmt.Sprintf("member_id=$%d", len(args)))
	}
	if filter.Action != nil {
		args = append(args, *filter.Action)
		clauses = append(clauses, fmt.Sprintf("action=$%d", len(args)))
	}
	if actor := strings.TrimSpace(filter.Actor); actor != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(actor))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(actor) LIKE $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
