package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/events"
	"github.com/memberops/memberops-api/internal/ids"
	"github.com/memberops/memberops-api/internal/repository"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

// Clock returns the current time.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return utcNow
	}
	return c
}

func requireRole(actor domain.Actor, roles ...domain.Role) error {
	if !actor.Role.In(roles...) {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}

// notFoundAs names the entity in a repository miss; other errors pass through.
func notFoundAs(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

// resolveStaff maps the acting username onto a Staff record.
func resolveStaff(ctx context.Context, repos repository.Repositories, actor domain.Actor) (*domain.Staff, error) {
	staff, err := repos.Staff.GetByUsername(ctx, actor.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewUnauthorized("Staff not found")
	}
	return staff, err
}

func requireText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperrors.NewValidationError(field+" is required", map[string]any{"field": field})
	}
	return trimmed, nil
}

// blankToNil keeps non-blank text as given and maps blank text to nil.
func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	c := *v
	return &c
}

func publish(ctx context.Context, dispatcher events.Dispatcher, now Clock, event events.Event) {
	if dispatcher == nil {
		return
	}
	event.ID = ids.New()
	event.Timestamp = now()
	_ = dispatcher.Publish(ctx, event)
}

func uniqueIDs(values []int64) []int64 {
	seen := make(map[int64]struct{}, len(values))
	out := make([]int64, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
