package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/events"
	"github.com/memberops/memberops-api/internal/repository"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

const commentPreviewLength = 120

// ServiceRequestService coordinates the service request lifecycle.
type ServiceRequestService struct {
	store      repository.Store
	audit      *AuditService
	dispatcher events.Dispatcher
	now        Clock
}

// ServiceRequestDependencies bundles collaborators for the service.
type ServiceRequestDependencies struct {
	Store      repository.Store
	Audit      *AuditService
	Dispatcher events.Dispatcher
	Clock      Clock
}

// ServiceRequestCreateInput describes a new request. Priority defaults to Medium.
type ServiceRequestCreateInput struct {
	MemberID    int64
	RequestType string
	Description string
	Priority    domain.ServiceRequestPriority
}

// ServiceRequestUpdateInput carries optional detail edits.
type ServiceRequestUpdateInput struct {
	RequestType *string
	Description *string
	Priority    *domain.ServiceRequestPriority
}

// ServiceRequestResolveInput describes a resolution.
type ServiceRequestResolveInput struct {
	ResolutionType  domain.ResolutionType
	ResolutionNotes *string
}

// ServiceRequestFilter describes listing filters; all provided filters must match.
type ServiceRequestFilter struct {
	Status       *domain.ServiceRequestStatus
	Priority     *domain.ServiceRequestPriority
	AssignedToID *int64
	MemberID     *int64
}

var (
	listInclude   = domain.ServiceRequestInclude{Member: true, CreatedBy: true, AssignedTo: true, ResolvedBy: true}
	detailInclude = domain.ServiceRequestInclude{Member: true, CreatedBy: true, AssignedTo: true, ResolvedBy: true, Comments: true}
)

// NewServiceRequestService constructs the service.
func NewServiceRequestService(deps ServiceRequestDependencies) *ServiceRequestService {
	return &ServiceRequestService{
		store:      deps.Store,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
		now:        clockOrDefault(deps.Clock),
	}
}

// List returns requests newest first with member and staff references.
func (s *ServiceRequestService) List(ctx context.Context, filter ServiceRequestFilter) ([]domain.ServiceRequest, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *filter.Status})
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *filter.Priority})
	}

	var requests []domain.ServiceRequest
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		requests, err = repos.ServiceRequests.List(ctx, repository.ServiceRequestFilter{
			Status:       filter.Status,
			Priority:     filter.Priority,
			AssignedToID: filter.AssignedToID,
			MemberID:     filter.MemberID,
		})
		if err != nil {
			return err
		}
		return hydrateRequests(ctx, repos, requests, listInclude)
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// GetByID returns a request with references and its comment thread.
func (s *ServiceRequestService) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	var sr *domain.ServiceRequest
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		sr, err = s.load(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sr, nil
}

// Create opens a request in status New attributed to the acting staff member.
func (s *ServiceRequestService) Create(ctx context.Context, actor domain.Actor, input ServiceRequestCreateInput) (*domain.ServiceRequest, error) {
	requestType, err := requireText("requestType", input.RequestType)
	if err != nil {
		return nil, err
	}
	description, err := requireText("description", input.Description)
	if err != nil {
		return nil, err
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	var sr *domain.ServiceRequest
	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Members.GetByID(ctx, input.MemberID); err != nil {
			return notFoundAs(err, "Member")
		}
		staff, err := resolveStaff(ctx, repos, actor)
		if err != nil {
			return err
		}

		now := s.now()
		created := &domain.ServiceRequest{
			MemberID:    input.MemberID,
			RequestType: requestType,
			Description: description,
			Status:      domain.ServiceRequestStatusNew,
			Priority:    priority,
			CreatedByID: staff.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.ServiceRequests.Create(ctx, created); err != nil {
			return err
		}

		details := fmt.Sprintf("Type: %s, Priority: %s - %s", requestType, priority, description)
		if err := s.audit.Record(ctx, repos, input.MemberID, actor, domain.AuditRequestCreated, details); err != nil {
			return err
		}
		sr, err = s.load(ctx, repos, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     events.EventRequestCreated,
		MemberID: sr.MemberID,
		Actor:    actor,
		Payload:  events.ServiceRequestPayload{ServiceRequestID: sr.ID, RequestType: sr.RequestType, Priority: sr.Priority},
	})
	return sr, nil
}

// Update edits request type, description or priority.
func (s *ServiceRequestService) Update(ctx context.Context, actor domain.Actor, id int64, input ServiceRequestUpdateInput) (*domain.ServiceRequest, error) {
	if input.RequestType == nil && input.Description == nil && input.Priority == nil {
		return nil, apperrors.NewValidationError("no changes supplied", nil)
	}

	var (
		requestType, description string
		err                      error
	)
	if input.RequestType != nil {
		if requestType, err = requireText("requestType", *input.RequestType); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if description, err = requireText("description", *input.Description); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
	}

	var sr *domain.ServiceRequest
	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		current, err := repos.ServiceRequests.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "Service request")
		}

		var changed []string
		if input.RequestType != nil && requestType != current.RequestType {
			current.RequestType = requestType
			changed = append(changed, "requestType")
		}
		if input.Description != nil && description != current.Description {
			current.Description = description
			changed = append(changed, "description")
		}
		if input.Priority != nil && *input.Priority != current.Priority {
			changed = append(changed, fmt.Sprintf("priority %s -> %s", current.Priority, *input.Priority))
			current.Priority = *input.Priority
		}
		current.UpdatedAt = s.now()
		if err := repos.ServiceRequests.Update(ctx, current); err != nil {
			return notFoundAs(err, "Service request")
		}

		details := fmt.Sprintf("Service Request #%d updated", id)
		if len(changed) > 0 {
			details += ": " + strings.Join(changed, ", ")
		}
		if err := s.audit.Record(ctx, repos, current.MemberID, actor, domain.AuditRequestUpdated, details); err != nil {
			return err
		}
		sr, err = s.load(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     events.EventRequestUpdated,
		MemberID: sr.MemberID,
		Actor:    actor,
		Payload:  events.ServiceRequestPayload{ServiceRequestID: sr.ID, RequestType: sr.RequestType, Priority: sr.Priority},
	})
	return sr, nil
}

// Assign hands the request to a staff member.
func (s *ServiceRequestService) Assign(ctx context.Context, actor domain.Actor, id, assigneeID int64) (*domain.ServiceRequest, error) {
	if err := requireRole(actor, domain.SupervisorRoles...); err != nil {
		return nil, err
	}

	var (
		sr       *domain.ServiceRequest
		assignee *domain.Staff
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		current, err := repos.ServiceRequests.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "Service request")
		}
		assignee, err = repos.Staff.GetByID(ctx, assigneeID)
		if err != nil {
			return notFoundAs(err, "Staff member")
		}

		current.AssignedToID = &assignee.ID
		current.UpdatedAt = s.now()
		if err := repos.ServiceRequests.Update(ctx, current); err != nil {
			return notFoundAs(err, "Service request")
		}

		details := fmt.Sprintf("Service Request #%d assigned to %s", id, assignee.DisplayName)
		if err := s.audit.Record(ctx, repos, current.MemberID, actor, domain.AuditRequestAssigned, details); err != nil {
			return err
		}
		sr, err = s.load(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     events.EventRequestAssigned,
		MemberID: sr.MemberID,
		Actor:    actor,
		Payload: events.RequestAssignedPayload{
			ServiceRequestID: sr.ID,
			AssigneeID:       assignee.ID,
			AssigneeUsername: assignee.Username,
			AssigneeEmail:    assignee.Email,
			AssigneeName:     assignee.DisplayName,
		},
	})
	return sr, nil
}

// UpdateStatus overwrites the status. Resolved is reserved for Resolve.
func (s *ServiceRequestService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.ServiceRequestStatus) (*domain.ServiceRequest, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	if status == domain.ServiceRequestStatusResolved {
		return nil, apperrors.NewInvalidTransition("Use the resolve operation to resolve a service request", nil)
	}

	var (
		sr       *domain.ServiceRequest
		previous domain.ServiceRequestStatus
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		current, err := repos.ServiceRequests.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "Service request")
		}

		previous = current.Status
		current.Status = status
		current.UpdatedAt = s.now()
		if err := repos.ServiceRequests.Update(ctx, current); err != nil {
			return notFoundAs(err, "Service request")
		}

		details := fmt.Sprintf("Service Request #%d status changed from %s to %s", id, previous, status)
		if err := s.audit.Record(ctx, repos, current.MemberID, actor, domain.AuditRequestStatusChanged, details); err != nil {
			return err
		}
		sr, err = s.load(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     events.EventRequestStatusChanged,
		MemberID: sr.MemberID,
		Actor:    actor,
		Payload:  events.RequestStatusPayload{ServiceRequestID: sr.ID, OldStatus: previous, NewStatus: status},
	})
	return sr, nil
}

// Resolve moves the request to its terminal Resolved state.
func (s *ServiceRequestService) Resolve(ctx context.Context, actor domain.Actor, id int64, input ServiceRequestResolveInput) (*domain.ServiceRequest, error) {
	if err := requireRole(actor, domain.SupervisorRoles...); err != nil {
		return nil, err
	}
	if !input.ResolutionType.Valid() {
		return nil, apperrors.NewValidationError("invalid resolutionType", map[string]any{"resolutionType": input.ResolutionType})
	}

	var sr *domain.ServiceRequest
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		current, err := repos.ServiceRequests.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "Service request")
		}
		if current.Status == domain.ServiceRequestStatusResolved {
			return apperrors.NewAlreadyResolved("Service request is already resolved", nil)
		}
		staff, err := resolveStaff(ctx, repos, actor)
		if err != nil {
			return err
		}

		now := s.now()
		resolutionType := input.ResolutionType
		current.Status = domain.ServiceRequestStatusResolved
		current.ResolutionType = &resolutionType
		current.ResolutionNotes = blankToNil(input.ResolutionNotes)
		current.ResolvedAt = &now
		current.ResolvedByID = &staff.ID
		current.UpdatedAt = now
		if err := repos.ServiceRequests.MarkResolved(ctx, current); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return apperrors.NewAlreadyResolved("Service request is already resolved", nil)
			}
			return err
		}

		details := fmt.Sprintf("Service Request #%d resolved as %s", id, resolutionType)
		if current.ResolutionNotes != nil {
			details += " - Notes: " + *current.ResolutionNotes
		}
		if err := s.audit.Record(ctx, repos, current.MemberID, actor, domain.AuditRequestResolved, details); err != nil {
			return err
		}
		sr, err = s.load(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     events.EventRequestResolved,
		MemberID: sr.MemberID,
		Actor:    actor,
		Payload:  events.RequestResolvedPayload{ServiceRequestID: sr.ID, ResolutionType: input.ResolutionType},
	})
	return sr, nil
}

// AddComment appends a comment by the acting staff member and bumps the
// request's updatedAt.
func (s *ServiceRequestService) AddComment(ctx context.Context, actor domain.Actor, id int64, text string) (*domain.ServiceRequestComment, error) {
	body, err := requireText("commentText", text)
	if err != nil {
		return nil, err
	}

	var (
		comment  *domain.ServiceRequestComment
		memberID int64
	)
	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		current, err := repos.ServiceRequests.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "Service request")
		}
		staff, err := resolveStaff(ctx, repos, actor)
		if err != nil {
			return err
		}

		now := s.now()
		comment = &domain.ServiceRequestComment{
			ServiceRequestID: id,
			StaffID:          staff.ID,
			CommentText:      body,
			CreatedAt:        now,
		}
		if err := repos.Comments.Create(ctx, comment); err != nil {
			return err
		}
		comment.Staff = staff

		current.UpdatedAt = now
		if err := repos.ServiceRequests.Update(ctx, current); err != nil {
			return notFoundAs(err, "Service request")
		}

		memberID = current.MemberID
		details := fmt.Sprintf("Comment added to Service Request #%d", id)
		return s.audit.Record(ctx, repos, memberID, actor, domain.AuditRequestCommentAdded, details)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     events.EventRequestCommentAdded,
		MemberID: memberID,
		Actor:    actor,
		Payload: events.CommentPayload{
			ServiceRequestID: id,
			CommentID:        comment.ID,
			Preview:          stringPreview(body, commentPreviewLength),
		},
	})
	return comment, nil
}

func (s *ServiceRequestService) load(ctx context.Context, repos repository.Repositories, id int64) (*domain.ServiceRequest, error) {
	sr, err := repos.ServiceRequests.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Service request")
	}
	requests := []domain.ServiceRequest{*sr}
	if err := hydrateRequests(ctx, repos, requests, detailInclude); err != nil {
		return nil, err
	}
	return &requests[0], nil
}

// hydrateRequests materializes the relations selected by include using one
// batched lookup per relation kind.
func hydrateRequests(ctx context.Context, repos repository.Repositories, requests []domain.ServiceRequest, include domain.ServiceRequestInclude) error {
	if len(requests) == 0 {
		return nil
	}

	if include.Member {
		memberIDs := make([]int64, 0, len(requests))
		for _, sr := range requests {
			memberIDs = append(memberIDs, sr.MemberID)
		}
		members, err := repos.Members.GetByIDs(ctx, uniqueIDs(memberIDs))
		if err != nil {
			return err
		}
		byID := make(map[int64]*domain.Member, len(members))
		for i := range members {
			byID[members[i].ID] = &members[i]
		}
		for i := range requests {
			requests[i].Member = byID[requests[i].MemberID]
		}
	}

	var comments map[int64][]domain.ServiceRequestComment
	staffIDs := []int64{}
	for _, sr := range requests {
		if include.CreatedBy {
			staffIDs = append(staffIDs, sr.CreatedByID)
		}
		if include.AssignedTo && sr.AssignedToID != nil {
			staffIDs = append(staffIDs, *sr.AssignedToID)
		}
		if include.ResolvedBy && sr.ResolvedByID != nil {
			staffIDs = append(staffIDs, *sr.ResolvedByID)
		}
	}
	if include.Comments {
		comments = make(map[int64][]domain.ServiceRequestComment, len(requests))
		for _, sr := range requests {
			thread, err := repos.Comments.ListByRequest(ctx, sr.ID)
			if err != nil {
				return err
			}
			comments[sr.ID] = thread
			for _, c := range thread {
				staffIDs = append(staffIDs, c.StaffID)
			}
		}
	}

	staff, err := repos.Staff.GetByIDs(ctx, uniqueIDs(staffIDs))
	if err != nil {
		return err
	}
	staffByID := make(map[int64]*domain.Staff, len(staff))
	for i := range staff {
		staffByID[staff[i].ID] = &staff[i]
	}
	lookup := func(id *int64) *domain.Staff {
		if id == nil {
			return nil
		}
		return staffByID[*id]
	}

	for i := range requests {
		sr := &requests[i]
		if include.CreatedBy {
			sr.CreatedBy = staffByID[sr.CreatedByID]
		}
		if include.AssignedTo {
			sr.AssignedTo = lookup(sr.AssignedToID)
		}
		if include.ResolvedBy {
			sr.ResolvedBy = lookup(sr.ResolvedByID)
		}
		if include.Comments {
			thread := comments[sr.ID]
			for j := range thread {
				thread[j].Staff = staffByID[thread[j].StaffID]
			}
			sr.Comments = thread
		}
	}
	return nil
}

func stringPreview(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "..."
}
