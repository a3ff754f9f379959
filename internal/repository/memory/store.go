// Package memory provides an in-process repository.Store. Units of work are
// serialized and operate on a private copy of the data set that replaces the
// live one only when the unit of work succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/repository"
)

type state struct {
	members  map[int64]domain.Member
	flags    map[int64]domain.AccountFlag
	requests map[int64]domain.ServiceRequest
	comments map[int64]domain.ServiceRequestComment
	audit    map[int64]domain.AuditLog
	staff    map[int64]domain.Staff

	nextMember, nextFlag, nextRequest, nextComment, nextAudit, nextStaff int64
}

func newState() *state {
	return &state{
		members:  map[int64]domain.Member{},
		flags:    map[int64]domain.AccountFlag{},
		requests: map[int64]domain.ServiceRequest{},
		comments: map[int64]domain.ServiceRequestComment{},
		audit:    map[int64]domain.AuditLog{},
		staff:    map[int64]domain.Staff{},
	}
}

func (s *state) clone() *state {
	c := *s
	c.members = cloneMap(s.members)
	c.flags = cloneMap(s.flags)
	c.requests = cloneMap(s.requests)
	c.comments = cloneMap(s.comments)
	c.audit = cloneMap(s.audit)
	c.staff = cloneMap(s.staff)
	return &c
}

func cloneMap[V any](in map[int64]V) map[int64]V {
	out := make(map[int64]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Store is a repository.Store kept entirely in memory.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// WithinTx runs fn against a copy of the data set and publishes the copy
// only when fn succeeds. Calls must not be nested.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(working.repositories()); err != nil {
		return err
	}
	s.state = working
	return nil
}

// Ping reports the store as always reachable.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Reset discards all data.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newState()
}

func (s *state) repositories() repository.Repositories {
	return repository.Repositories{
		Members:         &memberRepo{s: s},
		Flags:           &flagRepo{s: s},
		ServiceRequests: &requestRepo{s: s},
		Comments:        &commentRepo{s: s},
		AuditLogs:       &auditRepo{s: s},
		Staff:           &staffRepo{s: s},
	}
}

var _ repository.Store = (*Store)(nil)
