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

// FlagService manages account flags on members.
type FlagService struct {
	store      repository.Store
	audit      *AuditService
	dispatcher events.Dispatcher
	now        Clock
}

// FlagDependencies bundles collaborators for the flag service.
type FlagDependencies struct {
	Store      repository.Store
	Audit      *AuditService
	Dispatcher events.Dispatcher
	Clock      Clock
}

// FlagCreateInput describes a new flag. FlagType is an open set.
type FlagCreateInput struct {
	FlagType    string
	Description string
}

// NewFlagService constructs the service.
func NewFlagService(deps FlagDependencies) *FlagService {
	return &FlagService{
		store:      deps.Store,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
		now:        clockOrDefault(deps.Clock),
	}
}

// ListForMember returns a member's flags newest first.
func (s *FlagService) ListForMember(ctx context.Context, memberID int64) ([]domain.AccountFlag, error) {
	var flags []domain.AccountFlag
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Members.GetByID(ctx, memberID); err != nil {
			return notFoundAs(err, "Member")
		}
		var err error
		flags, err = repos.Flags.ListByMember(ctx, memberID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return flags, nil
}

// Create opens a flag attributed to the actor. Any role may create flags.
func (s *FlagService) Create(ctx context.Context, actor domain.Actor, memberID int64, input FlagCreateInput) (*domain.AccountFlag, error) {
	flagType, err := requireText("flagType", input.FlagType)
	if err != nil {
		return nil, err
	}
	description, err := requireText("description", input.Description)
	if err != nil {
		return nil, err
	}

	flag := &domain.AccountFlag{
		MemberID:    memberID,
		FlagType:    flagType,
		Description: description,
		CreatedBy:   actor.Username,
		CreatedAt:   s.now(),
	}
	err = s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Members.GetByID(ctx, memberID); err != nil {
			return notFoundAs(err, "Member")
		}
		if err := repos.Flags.Create(ctx, flag); err != nil {
			return err
		}
		return s.audit.Record(ctx, repos, memberID, actor, domain.AuditFlagCreated, "Flag Type: "+flagType)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     events.EventFlagCreated,
		MemberID: memberID,
		Actor:    actor,
		Payload:  events.FlagPayload{FlagID: flag.ID, FlagType: flag.FlagType},
	})
	return flag, nil
}

// Resolve closes an open flag. The flag must belong to memberID.
func (s *FlagService) Resolve(ctx context.Context, actor domain.Actor, memberID, flagID int64, notes *string) (*domain.AccountFlag, error) {
	if err := requireRole(actor, domain.SupervisorRoles...); err != nil {
		return nil, err
	}

	var flag *domain.AccountFlag
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		flag, err = repos.Flags.GetForMember(ctx, memberID, flagID)
		if err != nil {
			return notFoundAs(err, "Flag")
		}
		if flag.IsResolved() {
			return apperrors.NewAlreadyResolved("Flag is already resolved", nil)
		}

		resolvedBy := actor.Username
		resolvedAt := s.now()
		flag.ResolvedBy = &resolvedBy
		flag.ResolvedAt = &resolvedAt
		flag.ResolutionNotes = blankToNil(notes)

		if err := repos.Flags.MarkResolved(ctx, flag); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return apperrors.NewAlreadyResolved("Flag is already resolved", nil)
			}
			return err
		}

		details := fmt.Sprintf("%s flag resolved", flag.FlagType)
		if flag.ResolutionNotes != nil {
			details += " - " + strings.TrimSpace(*flag.ResolutionNotes)
		}
		return s.audit.Record(ctx, repos, memberID, actor, domain.AuditFlagResolved, details)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.now, events.Event{
		Type:     events.EventFlagResolved,
		MemberID: memberID,
		Actor:    actor,
		Payload:  events.FlagPayload{FlagID: flag.ID, FlagType: flag.FlagType},
	})
	return flag, nil
}
