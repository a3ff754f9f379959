package persistence

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/memberops/memberops-api/internal/auth"
	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/repository"
	"github.com/memberops/memberops-api/internal/repository/memory"
)

func TestSeedLoadsDemoData(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	seeded, err := Seed(ctx, store, bcrypt.MinCost, zap.NewNop())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatalf("expected first seed to write data")
	}

	err = store.WithinTx(ctx, func(repos repository.Repositories) error {
		staff, err := repos.Staff.List(ctx)
		if err != nil {
			return err
		}
		if len(staff) != 3 {
			t.Errorf("expected 3 staff, got %d", len(staff))
		}
		admin, err := repos.Staff.GetByUsername(ctx, "admin")
		if err != nil {
			return err
		}
		if admin.Role != domain.RoleAdmin || auth.ComparePassword(admin.PasswordHash, "Admin123!") != nil {
			t.Errorf("admin credentials not seeded correctly")
		}

		members, err := repos.Members.List(ctx, repository.MemberFilter{})
		if err != nil {
			return err
		}
		if len(members) != 8 {
			t.Errorf("expected 8 members, got %d", len(members))
		}

		flags, err := repos.Flags.ListByMembers(ctx, memberIDs(members))
		if err != nil {
			return err
		}
		resolved := 0
		for _, f := range flags {
			if f.IsResolved() {
				resolved++
			}
		}
		if len(flags) != 3 || resolved != 1 {
			t.Errorf("expected 3 flags with 1 resolved, got %d/%d", len(flags), resolved)
		}

		requests, err := repos.ServiceRequests.List(ctx, repository.ServiceRequestFilter{})
		if err != nil {
			return err
		}
		statuses := map[domain.ServiceRequestStatus]int{}
		for _, sr := range requests {
			statuses[sr.Status]++
		}
		if len(requests) != 4 || statuses[domain.ServiceRequestStatusResolved] != 1 || statuses[domain.ServiceRequestStatusNew] != 2 {
			t.Errorf("unexpected request statuses %v", statuses)
		}

		audit, err := repos.AuditLogs.List(ctx, repository.AuditLogFilter{})
		if err != nil {
			return err
		}
		if len(audit) != 5 {
			t.Errorf("expected 5 audit rows, got %d", len(audit))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
}

func TestSeedIsSkippedWhenStaffExist(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	if _, err := Seed(ctx, store, bcrypt.MinCost, zap.NewNop()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	seeded, err := Seed(ctx, store, bcrypt.MinCost, zap.NewNop())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if seeded {
		t.Fatalf("second seed should be a no-op")
	}

	store.Reset()
	seeded, err = Seed(ctx, store, bcrypt.MinCost, zap.NewNop())
	if err != nil || !seeded {
		t.Fatalf("seed after reset: %v %v", seeded, err)
	}
}

func memberIDs(members []domain.Member) []int64 {
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}
