package service

import (
	"context"
	"time"

	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/repository"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

// AuditService appends audit entries and answers audit queries.
type AuditService struct {
	store repository.Store
	now   Clock
}

// AuditDependencies bundles collaborators for the audit service.
type AuditDependencies struct {
	Store repository.Store
	Clock Clock
}

// AuditQuery filters the audit trail. Dates are whole UTC days, both inclusive.
type AuditQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	MemberID  *int64
	Action    *domain.AuditAction
	Actor     string
}

// NewAuditService constructs the service.
func NewAuditService(deps AuditDependencies) *AuditService {
	return &AuditService{store: deps.Store, now: clockOrDefault(deps.Clock)}
}

// Record appends an entry through the caller's unit of work, so the entry
// commits or rolls back together with the mutation it describes.
func (s *AuditService) Record(ctx context.Context, repos repository.Repositories, memberID int64, actor domain.Actor, action domain.AuditAction, details string) error {
	entry := &domain.AuditLog{
		MemberID:  memberID,
		Actor:     actor.Username,
		Action:    action,
		Details:   blankToNil(&details),
		Timestamp: s.now(),
	}
	return repos.AuditLogs.Create(ctx, entry)
}

// Query returns matching entries newest first, each with its member.
func (s *AuditService) Query(ctx context.Context, actor domain.Actor, q AuditQuery) ([]domain.AuditLog, error) {
	if err := requireRole(actor, domain.SupervisorRoles...); err != nil {
		return nil, err
	}

	filter := repository.AuditLogFilter{
		MemberID: q.MemberID,
		Action:   q.Action,
		Actor:    q.Actor,
	}
	if q.StartDate != nil {
		from := startOfUTCDay(*q.StartDate)
		filter.From = &from
	}
	if q.EndDate != nil {
		until := startOfUTCDay(*q.EndDate).AddDate(0, 0, 1)
		filter.Until = &until
	}
	if filter.From != nil && filter.Until != nil && !filter.From.Before(*filter.Until) {
		return nil, apperrors.NewValidationError("startDate must be on or before endDate", nil)
	}

	var entries []domain.AuditLog
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		entries, err = repos.AuditLogs.List(ctx, filter)
		if err != nil {
			return err
		}

		memberIDs := make([]int64, 0, len(entries))
		for _, entry := range entries {
			memberIDs = append(memberIDs, entry.MemberID)
		}
		members, err := repos.Members.GetByIDs(ctx, uniqueIDs(memberIDs))
		if err != nil {
			return err
		}
		byID := make(map[int64]*domain.Member, len(members))
		for i := range members {
			byID[members[i].ID] = &members[i]
		}
		for i := range entries {
			entries[i].Member = byID[entries[i].MemberID]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func startOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
