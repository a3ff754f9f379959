package service

import (
	"context"
	"testing"
	"time"

	"github.com/memberops/memberops-api/internal/domain"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

func TestAuditQueryFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	john := env.memberIDs["M-100001"]
	jane := env.memberIDs["M-100002"]

	if _, err := env.members.Lock(ctx, asSupervisor, john); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := env.flags.Create(ctx, asStaff, jane, FlagCreateInput{FlagType: "GeneralReview", Description: "Check"}); err != nil {
		t.Fatalf("flag: %v", err)
	}
	if _, err := env.members.Unlock(ctx, asAdmin, john); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	// all three rows land on 2024-01-01 UTC
	sameDay := time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC)
	nextDay := sameDay.AddDate(0, 0, 1)

	cases := []struct {
		name  string
		query AuditQuery
		want  int
	}{
		{"no filters", AuditQuery{}, 3},
		{"single day window", AuditQuery{StartDate: &sameDay, EndDate: &sameDay}, 3},
		{"window after activity", AuditQuery{StartDate: &nextDay}, 0},
		{"by member", AuditQuery{MemberID: &john}, 2},
		{"by actor substring", AuditQuery{Actor: "SUPER"}, 1},
		{"by action", AuditQuery{Action: actionPtr(domain.AuditFlagCreated)}, 1},
		{"combined", AuditQuery{MemberID: &john, Actor: "admin"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := env.audit.Query(ctx, asSupervisor, tc.query)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(entries) != tc.want {
				t.Fatalf("expected %d entries, got %d", tc.want, len(entries))
			}
			for _, e := range entries {
				if e.Member == nil || e.Member.ID != e.MemberID {
					t.Fatalf("entry %d missing member", e.ID)
				}
			}
		})
	}
}

func TestAuditQueryRejectsBadRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.audit.Query(ctx, asStaff, AuditQuery{})
	expectCode(t, err, apperrors.CodeForbidden)

	start := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err = env.audit.Query(ctx, asAdmin, AuditQuery{StartDate: &start, EndDate: &end})
	expectCode(t, err, apperrors.CodeValidation)
}

func TestAuditRowPerMutation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	memberID := env.memberIDs["M-100003"]

	notes := "Called in"
	steps := []func() error{
		func() error { _, err := env.members.Lock(ctx, asSupervisor, memberID); return err },
		func() error { _, err := env.members.UpdateNotes(ctx, asSupervisor, memberID, &notes); return err },
		func() error {
			_, err := env.flags.Create(ctx, asStaff, memberID, FlagCreateInput{FlagType: "FraudReview", Description: "x"})
			return err
		},
		func() error {
			_, err := env.requests.Create(ctx, asStaff, ServiceRequestCreateInput{MemberID: memberID, RequestType: "Other", Description: "x"})
			return err
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got := len(env.auditEntries(t)); got != i+1 {
			t.Fatalf("after step %d expected %d audit rows, got %d", i, i+1, got)
		}
	}
}

func actionPtr(a domain.AuditAction) *domain.AuditAction {
	return &a
}
