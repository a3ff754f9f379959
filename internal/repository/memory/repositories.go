package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/repository"
)

type memberRepo struct{ s *state }

func (r *memberRepo) Create(_ context.Context, member *domain.Member) error {
	for _, existing := range r.s.members {
		if existing.MemberNumber == member.MemberNumber {
			return repository.ErrDuplicate
		}
	}
	r.s.nextMember++
	member.ID = r.s.nextMember
	stored := *member
	stored.Flags, stored.ServiceRequests = nil, nil
	r.s.members[member.ID] = stored
	return nil
}

func (r *memberRepo) GetByID(_ context.Context, id int64) (*domain.Member, error) {
	member, ok := r.s.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &member, nil
}

func (r *memberRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Member, error) {
	result := []domain.Member{}
	for _, id := range ids {
		if member, ok := r.s.members[id]; ok {
			result = append(result, member)
		}
	}
	return result, nil
}

func (r *memberRepo) List(_ context.Context, filter repository.MemberFilter) ([]domain.Member, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := []domain.Member{}
	for _, member := range r.s.members {
		if filter.Status != nil && member.Status != *filter.Status {
			continue
		}
		if search != "" && !memberMatches(member, search) {
			continue
		}
		result = append(result, member)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].JoinDate.Equal(result[j].JoinDate) {
			return result[i].JoinDate.After(result[j].JoinDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func memberMatches(member domain.Member, search string) bool {
	for _, field := range []string{member.MemberNumber, member.FirstName, member.LastName, member.Email, member.Phone} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func (r *memberRepo) UpdateStatus(_ context.Context, id int64, expected, next domain.MemberStatus) error {
	member, ok := r.s.members[id]
	if !ok || member.Status != expected {
		return repository.ErrConflict
	}
	member.Status = next
	r.s.members[id] = member
	return nil
}

func (r *memberRepo) UpdateNotes(_ context.Context, id int64, notes *string) error {
	member, ok := r.s.members[id]
	if !ok {
		return repository.ErrNotFound
	}
	member.Notes = copyString(notes)
	r.s.members[id] = member
	return nil
}

type flagRepo struct{ s *state }

func (r *flagRepo) Create(_ context.Context, flag *domain.AccountFlag) error {
	r.s.nextFlag++
	flag.ID = r.s.nextFlag
	stored := *flag
	stored.ResolvedBy, stored.ResolvedAt, stored.ResolutionNotes = nil, nil, nil
	r.s.flags[flag.ID] = stored
	return nil
}

func (r *flagRepo) GetForMember(_ context.Context, memberID, flagID int64) (*domain.AccountFlag, error) {
	flag, ok := r.s.flags[flagID]
	if !ok || flag.MemberID != memberID {
		return nil, repository.ErrNotFound
	}
	return &flag, nil
}

func (r *flagRepo) ListByMember(ctx context.Context, memberID int64) ([]domain.AccountFlag, error) {
	return r.ListByMembers(ctx, []int64{memberID})
}

func (r *flagRepo) ListByMembers(_ context.Context, memberIDs []int64) ([]domain.AccountFlag, error) {
	wanted := make(map[int64]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		wanted[id] = struct{}{}
	}
	result := []domain.AccountFlag{}
	for _, flag := range r.s.flags {
		if _, ok := wanted[flag.MemberID]; ok {
			result = append(result, flag)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

func (r *flagRepo) MarkResolved(_ context.Context, flag *domain.AccountFlag) error {
	stored, ok := r.s.flags[flag.ID]
	if !ok || stored.MemberID != flag.MemberID || stored.ResolvedAt != nil {
		return repository.ErrConflict
	}
	stored.ResolvedBy = copyString(flag.ResolvedBy)
	stored.ResolvedAt = copyTime(flag.ResolvedAt)
	stored.ResolutionNotes = copyString(flag.ResolutionNotes)
	r.s.flags[flag.ID] = stored
	return nil
}

type requestRepo struct{ s *state }

func (r *requestRepo) Create(_ context.Context, sr *domain.ServiceRequest) error {
	if _, ok := r.s.members[sr.MemberID]; !ok {
		return repository.ErrNotFound
	}
	r.s.nextRequest++
	sr.ID = r.s.nextRequest
	stored := stripRequest(*sr)
	stored.ResolutionType, stored.ResolutionNotes, stored.ResolvedAt, stored.ResolvedByID = nil, nil, nil, nil
	r.s.requests[sr.ID] = stored
	return nil
}

func (r *requestRepo) GetByID(_ context.Context, id int64) (*domain.ServiceRequest, error) {
	sr, ok := r.s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sr, nil
}

func (r *requestRepo) List(_ context.Context, filter repository.ServiceRequestFilter) ([]domain.ServiceRequest, error) {
	result := []domain.ServiceRequest{}
	for _, sr := range r.s.requests {
		if filter.Status != nil && sr.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && sr.Priority != *filter.Priority {
			continue
		}
		if filter.AssignedToID != nil && (sr.AssignedToID == nil || *sr.AssignedToID != *filter.AssignedToID) {
			continue
		}
		if filter.MemberID != nil && sr.MemberID != *filter.MemberID {
			continue
		}
		result = append(result, sr)
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

func (r *requestRepo) Update(_ context.Context, sr *domain.ServiceRequest) error {
	stored, ok := r.s.requests[sr.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.RequestType = sr.RequestType
	stored.Description = sr.Description
	stored.Status = sr.Status
	stored.Priority = sr.Priority
	stored.AssignedToID = copyInt64(sr.AssignedToID)
	stored.UpdatedAt = sr.UpdatedAt
	r.s.requests[sr.ID] = stored
	return nil
}

func (r *requestRepo) MarkResolved(_ context.Context, sr *domain.ServiceRequest) error {
	stored, ok := r.s.requests[sr.ID]
	if !ok || stored.Status == domain.ServiceRequestStatusResolved {
		return repository.ErrConflict
	}
	stored.Status = sr.Status
	if sr.ResolutionType != nil {
		rt := *sr.ResolutionType
		stored.ResolutionType = &rt
	}
	stored.ResolutionNotes = copyString(sr.ResolutionNotes)
	stored.ResolvedAt = copyTime(sr.ResolvedAt)
	stored.ResolvedByID = copyInt64(sr.ResolvedByID)
	stored.UpdatedAt = sr.UpdatedAt
	r.s.requests[sr.ID] = stored
	return nil
}

func stripRequest(sr domain.ServiceRequest) domain.ServiceRequest {
	sr.Member, sr.CreatedBy, sr.AssignedTo, sr.ResolvedBy, sr.Comments = nil, nil, nil, nil, nil
	return sr
}

type commentRepo struct{ s *state }

func (r *commentRepo) Create(_ context.Context, comment *domain.ServiceRequestComment) error {
	if _, ok := r.s.requests[comment.ServiceRequestID]; !ok {
		return repository.ErrNotFound
	}
	r.s.nextComment++
	comment.ID = r.s.nextComment
	stored := *comment
	stored.Staff = nil
	r.s.comments[comment.ID] = stored
	return nil
}

func (r *commentRepo) ListByRequest(_ context.Context, requestID int64) ([]domain.ServiceRequestComment, error) {
	result := []domain.ServiceRequestComment{}
	for _, comment := range r.s.comments {
		if comment.ServiceRequestID == requestID {
			result = append(result, comment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type auditRepo struct{ s *state }

func (r *auditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	if _, ok := r.s.members[entry.MemberID]; !ok {
		return repository.ErrNotFound
	}
	r.s.nextAudit++
	entry.ID = r.s.nextAudit
	stored := *entry
	stored.Member = nil
	r.s.audit[entry.ID] = stored
	return nil
}

func (r *auditRepo) List(_ context.Context, filter repository.AuditLogFilter) ([]domain.AuditLog, error) {
	actor := strings.ToLower(strings.TrimSpace(filter.Actor))
	result := []domain.AuditLog{}
	for _, entry := range r.s.audit {
		if filter.From != nil && entry.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.Until != nil && !entry.Timestamp.Before(*filter.Until) {
			continue
		}
		if filter.MemberID != nil && entry.MemberID != *filter.MemberID {
			continue
		}
		if filter.Action != nil && entry.Action != *filter.Action {
			continue
		}
		if actor != "" && !strings.Contains(strings.ToLower(entry.Actor), actor) {
			continue
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].Timestamp, result[j].Timestamp, result[i].ID, result[j].ID)
	})
	return result, nil
}

type staffRepo struct{ s *state }

func (r *staffRepo) Create(_ context.Context, staff *domain.Staff) error {
	for _, existing := range r.s.staff {
		if existing.Username == staff.Username {
			return repository.ErrDuplicate
		}
	}
	r.s.nextStaff++
	staff.ID = r.s.nextStaff
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = time.Now().UTC()
	}
	r.s.staff[staff.ID] = *staff
	return nil
}

func (r *staffRepo) GetByID(_ context.Context, id int64) (*domain.Staff, error) {
	staff, ok := r.s.staff[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &staff, nil
}

func (r *staffRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Staff, error) {
	result := []domain.Staff{}
	for _, id := range ids {
		if staff, ok := r.s.staff[id]; ok {
			result = append(result, staff)
		}
	}
	return result, nil
}

func (r *staffRepo) GetByUsername(_ context.Context, username string) (*domain.Staff, error) {
	for _, staff := range r.s.staff {
		if staff.Username == username {
			return &staff, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *staffRepo) List(context.Context) ([]domain.Staff, error) {
	result := make([]domain.Staff, 0, len(r.s.staff))
	for _, staff := range r.s.staff {
		result = append(result, staff)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayName != result[j].DisplayName {
			return result[i].DisplayName < result[j].DisplayName
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func newerFirst(a, b time.Time, aID, bID int64) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID > bID
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
