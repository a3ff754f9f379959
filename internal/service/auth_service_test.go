package service

import (
	"context"
	"testing"

	"github.com/memberops/memberops-api/internal/domain"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

func TestLoginIssuesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session, err := env.auth.Login(ctx, "supervisor", "Super123!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Staff.Role != domain.RoleSupervisor || session.TokenID == "" {
		t.Fatalf("unexpected session %+v", session)
	}

	claims, err := env.tokens.ParseToken(session.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "supervisor" || claims.Role != domain.RoleSupervisor || claims.ID != session.TokenID {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginFailuresShareMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, wrongPassword := env.auth.Login(ctx, "admin", "nope")
	_, unknownUser := env.auth.Login(ctx, "nobody", "Admin123!")
	_, caseMismatch := env.auth.Login(ctx, "ADMIN", "Admin123!")

	for _, err := range []error{wrongPassword, unknownUser, caseMismatch} {
		expectCode(t, err, apperrors.CodeUnauthorized)
		if msg := apperrors.ToDomainError(err).Message; msg != "Invalid username or password" {
			t.Fatalf("unexpected message %q", msg)
		}
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session, err := env.auth.Login(ctx, "agent1", "Agent123!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := env.auth.Logout(ctx, session.TokenID, session.ExpiresAt); err != nil {
		t.Fatalf("logout: %v", err)
	}
	revoked, err := env.revoked.IsRevoked(ctx, session.TokenID)
	if err != nil || !revoked {
		t.Fatalf("expected token revoked, got %v %v", revoked, err)
	}
}

func TestStaffDirectory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	staff, err := env.staff.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(staff) != 3 || staff[0].DisplayName != "Admin User" || staff[2].DisplayName != "Sarah Supervisor" {
		t.Fatalf("expected display-name order, got %+v", staff)
	}

	one, err := env.staff.GetByID(ctx, env.staffIDs["agent1"])
	if err != nil || one.Username != "agent1" {
		t.Fatalf("get: %+v %v", one, err)
	}

	_, err = env.staff.GetByID(ctx, 9999)
	expectCode(t, err, apperrors.CodeNotFound)
	if msg := apperrors.ToDomainError(err).Message; msg != "Staff member not found" {
		t.Fatalf("unexpected message %q", msg)
	}
}
