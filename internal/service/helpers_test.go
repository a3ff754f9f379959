package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/memberops/memberops-api/internal/auth"
	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/events"
	"github.com/memberops/memberops-api/internal/repository"
	"github.com/memberops/memberops-api/internal/repository/memory"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

var (
	asStaff      = domain.Actor{Username: "agent1", Role: domain.RoleStaff}
	asSupervisor = domain.Actor{Username: "supervisor", Role: domain.RoleSupervisor}
	asAdmin      = domain.Actor{Username: "admin", Role: domain.RoleAdmin}
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, len(d.events))
	for i, e := range d.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	store      *memory.Store
	dispatcher *recordingDispatcher
	audit      *AuditService
	members    *MemberService
	flags      *FlagService
	requests   *ServiceRequestService
	staff      *StaffService
	auth       *AuthService
	tokens     *auth.TokenManager
	revoked    *auth.MemoryRevocationStore

	memberIDs map[string]int64
	staffIDs  map[string]int64
}

// steppingClock advances one second per call so ordering by time is stable.
func steppingClock(start time.Time) Clock {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	dispatcher := &recordingDispatcher{}
	clock := steppingClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	auditSvc := NewAuditService(AuditDependencies{Store: store, Clock: clock})
	tokens := auth.NewTokenManager("test-secret", "MemberOpsAPI", "MemberOpsClient", time.Hour)
	revoked := auth.NewMemoryRevocationStore()

	env := &testEnv{
		store:      store,
		dispatcher: dispatcher,
		audit:      auditSvc,
		members:    NewMemberService(MemberDependencies{Store: store, Audit: auditSvc, Dispatcher: dispatcher, Clock: clock}),
		flags:      NewFlagService(FlagDependencies{Store: store, Audit: auditSvc, Dispatcher: dispatcher, Clock: clock}),
		requests:   NewServiceRequestService(ServiceRequestDependencies{Store: store, Audit: auditSvc, Dispatcher: dispatcher, Clock: clock}),
		staff:      NewStaffService(store),
		auth: NewAuthService(AuthDependencies{
			Store:       store,
			Tokens:      tokens,
			Revocations: revoked,
			BcryptCost:  bcrypt.MinCost,
			Logger:      zap.NewNop(),
		}),
		tokens:    tokens,
		revoked:   revoked,
		memberIDs: map[string]int64{},
		staffIDs:  map[string]int64{},
	}
	env.seed(t)
	return env
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	joined := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	err := e.store.WithinTx(ctx, func(repos repository.Repositories) error {
		for _, s := range []struct {
			username, password, display string
			role                        domain.Role
		}{
			{"admin", "Admin123!", "Admin User", domain.RoleAdmin},
			{"supervisor", "Super123!", "Sarah Supervisor", domain.RoleSupervisor},
			{"agent1", "Agent123!", "Alex Agent", domain.RoleStaff},
		} {
			hash, err := auth.HashPassword(s.password, bcrypt.MinCost)
			if err != nil {
				return err
			}
			staff := &domain.Staff{Username: s.username, PasswordHash: hash, DisplayName: s.display, Email: s.username + "@memberops.local", Role: s.role}
			if err := repos.Staff.Create(ctx, staff); err != nil {
				return err
			}
			e.staffIDs[s.username] = staff.ID
		}

		for i, m := range []domain.Member{
			{MemberNumber: "M-100001", FirstName: "John", LastName: "Doe", Email: "john.doe@email.com", Phone: "519-555-0101", Status: domain.MemberStatusActive},
			{MemberNumber: "M-100002", FirstName: "Jane", LastName: "Smith", Email: "jane.smith@email.com", Phone: "519-555-0102", Status: domain.MemberStatusActive},
			{MemberNumber: "M-100003", FirstName: "Bob", LastName: "Johnson", Email: "bob.j@email.com", Phone: "519-555-0103", Status: domain.MemberStatusActive},
			{MemberNumber: "M-100006", FirstName: "Sarah", LastName: "Brown", Email: "sarah.brown@email.com", Phone: "519-555-0106", Status: domain.MemberStatusClosed},
		} {
			member := m
			member.JoinDate = joined.AddDate(i, 0, 0)
			if err := repos.Members.Create(ctx, &member); err != nil {
				return err
			}
			e.memberIDs[member.MemberNumber] = member.ID
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func (e *testEnv) auditEntries(t *testing.T) []domain.AuditLog {
	t.Helper()
	entries, err := e.audit.Query(context.Background(), asAdmin, AuditQuery{})
	if err != nil {
		t.Fatalf("audit query: %v", err)
	}
	return entries
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	var de *apperrors.DomainError
	if !errors.As(err, &de) || de.Code != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}
