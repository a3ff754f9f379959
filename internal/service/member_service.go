package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/events"
	"github.com/memberops/memberops-api/internal/repository"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

// MemberService coordinates member lookups and lifecycle transitions.
type MemberService struct {
	store      repository.Store
	audit      *AuditService
	dispatcher events.Dispatcher
	now        Clock
}

// MemberDependencies bundles collaborators for the member service.
type MemberDependencies struct {
	Store      repository.Store
	Audit      *AuditService
	Dispatcher events.Dispatcher
	Clock      Clock
}

// MemberFilter describes member search parameters.
type MemberFilter struct {
	Search string
	Status *domain.MemberStatus
}

// NewMemberService constructs the service.
func NewMemberService(deps MemberDependencies) *MemberService {
	return &MemberService{
		store:      deps.Store,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
		now:        clockOrDefault(deps.Clock),
	}
}

// List searches members newest first. Each member carries its flags but not
// its service requests.
func (s *MemberService) List(ctx context.Context, filter MemberFilter) ([]domain.Member, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid member status", map[string]any{"status": *filter.Status})
	}

	var members []domain.Member
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		members, err = repos.Members.List(ctx, repository.MemberFilter{Search: filter.Search, Status: filter.Status})
		if err != nil {
			return err
		}
		return attachFlags(ctx, repos, members)
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// GetByID returns a member with flags and service requests.
func (s *MemberService) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	var member *domain.Member
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		member, err = repos.Members.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "Member")
		}
		if member.Flags, err = repos.Flags.ListByMember(ctx, id); err != nil {
			return err
		}
		member.ServiceRequests, err = repos.ServiceRequests.List(ctx, repository.ServiceRequestFilter{MemberID: &id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Lock moves an Active member to Locked.
func (s *MemberService) Lock(ctx context.Context, actor domain.Actor, id int64) (*domain.Member, error) {
	return s.transition(ctx, actor, id, domain.MemberStatusLocked)
}

// Unlock moves a Locked member back to Active.
func (s *MemberService) Unlock(ctx context.Context, actor domain.Actor, id int64) (*domain.Member, error) {
	return s.transition(ctx, actor, id, domain.MemberStatusActive)
}

func (s *MemberService) transition(ctx context.Context, actor domain.Actor, id int64, next domain.MemberStatus) (*domain.Member, error) {
	if err := requireRole(actor, domain.SupervisorRoles...); err != nil {
		return nil, err
	}

	action, eventType := domain.AuditAccountLocked, events.EventMemberLocked
	if next == domain.MemberStatusActive {
		action, eventType = domain.AuditAccountUnlocked, events.EventMemberUnlocked
	}

	var (
		member   *domain.Member
		previous domain.MemberStatus
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		member, err = repos.Members.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "Member")
		}
		if err := checkMemberTransition(member.Status, next); err != nil {
			return err
		}

		previous = member.Status
		if err := repos.Members.UpdateStatus(ctx, id, previous, next); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return apperrors.NewInvalidTransition("Member status changed concurrently; reload and retry", nil)
			}
			return err
		}
		member.Status = next

		details := fmt.Sprintf("Status changed from %s to %s", previous, next)
		return s.audit.Record(ctx, repos, id, actor, action, details)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     eventType,
		MemberID: id,
		Actor:    actor,
		Payload:  events.MemberStatusPayload{OldStatus: previous, NewStatus: next},
	})
	return member, nil
}

func checkMemberTransition(current, next domain.MemberStatus) error {
	switch next {
	case domain.MemberStatusLocked:
		switch current {
		case domain.MemberStatusLocked:
			return apperrors.NewInvalidTransition("Member account is already locked", nil)
		case domain.MemberStatusClosed:
			return apperrors.NewInvalidTransition("Closed member accounts cannot be locked", nil)
		}
	case domain.MemberStatusActive:
		if current != domain.MemberStatusLocked {
			return apperrors.NewInvalidTransition("Member account is not locked", nil)
		}
	}
	return nil
}

// UpdateNotes overwrites the member notes. Blank notes clear the field.
func (s *MemberService) UpdateNotes(ctx context.Context, actor domain.Actor, id int64, notes *string) (*domain.Member, error) {
	if err := requireRole(actor, domain.SupervisorRoles...); err != nil {
		return nil, err
	}

	normalized := blankToNil(notes)
	var member *domain.Member
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		member, err = repos.Members.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, "Member")
		}
		if err := repos.Members.UpdateNotes(ctx, id, normalized); err != nil {
			return notFoundAs(err, "Member")
		}
		member.Notes = normalized

		details := "Notes updated"
		if normalized == nil {
			details = "Notes cleared"
		}
		return s.audit.Record(ctx, repos, id, actor, domain.AuditNotesUpdated, details)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     events.EventMemberNotesUpdated,
		MemberID: id,
		Actor:    actor,
	})
	return member, nil
}

func attachFlags(ctx context.Context, repos repository.Repositories, members []domain.Member) error {
	memberIDs := make([]int64, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}
	flags, err := repos.Flags.ListByMembers(ctx, memberIDs)
	if err != nil {
		return err
	}
	byMember := make(map[int64][]domain.AccountFlag, len(members))
	for _, flag := range flags {
		byMember[flag.MemberID] = append(byMember[flag.MemberID], flag)
	}
	for i := range members {
		members[i].Flags = byMember[members[i].ID]
		if members[i].Flags == nil {
			members[i].Flags = []domain.AccountFlag{}
		}
	}
	return nil
}
