package service

import (
	"context"
	"testing"

	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/events"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

func createRequest(t *testing.T, env *testEnv, memberNumber string) *domain.ServiceRequest {
	t.Helper()
	sr, err := env.requests.Create(context.Background(), asStaff, ServiceRequestCreateInput{
		MemberID:    env.memberIDs[memberNumber],
		RequestType: "AddressChange",
		Description: "Moved to Waterloo",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return sr
}

func TestCreateServiceRequestDefaults(t *testing.T) {
	env := newTestEnv(t)
	sr := createRequest(t, env, "M-100001")

	if sr.Status != domain.ServiceRequestStatusNew || sr.Priority != domain.PriorityMedium {
		t.Fatalf("unexpected defaults %s/%s", sr.Status, sr.Priority)
	}
	if sr.CreatedBy == nil || sr.CreatedBy.Username != "agent1" {
		t.Fatalf("expected creator agent1, got %+v", sr.CreatedBy)
	}
	if sr.Member == nil || sr.Member.MemberNumber != "M-100001" {
		t.Fatalf("expected member attached")
	}
	if sr.Comments == nil || len(sr.Comments) != 0 {
		t.Fatalf("expected empty comment thread, got %v", sr.Comments)
	}

	entries := env.auditEntries(t)
	if len(entries) != 1 || *entries[0].Details != "Type: AddressChange, Priority: Medium - Moved to Waterloo" {
		t.Fatalf("unexpected audit %+v", entries)
	}
}

func TestCreateServiceRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	memberID := env.memberIDs["M-100001"]

	_, err := env.requests.Create(ctx, asStaff, ServiceRequestCreateInput{MemberID: memberID, Description: "x"})
	expectCode(t, err, apperrors.CodeValidation)

	_, err = env.requests.Create(ctx, asStaff, ServiceRequestCreateInput{MemberID: memberID, RequestType: "x", Description: "x", Priority: "Critical"})
	expectCode(t, err, apperrors.CodeValidation)

	_, err = env.requests.Create(ctx, asStaff, ServiceRequestCreateInput{MemberID: 9999, RequestType: "x", Description: "x"})
	expectCode(t, err, apperrors.CodeNotFound)

	ghost := domain.Actor{Username: "ghost", Role: domain.RoleStaff}
	_, err = env.requests.Create(ctx, ghost, ServiceRequestCreateInput{MemberID: memberID, RequestType: "x", Description: "x"})
	expectCode(t, err, apperrors.CodeUnauthorized)
}

func TestServiceRequestLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sr := createRequest(t, env, "M-100002")

	assigned, err := env.requests.Assign(ctx, asSupervisor, sr.ID, env.staffIDs["agent1"])
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.AssignedTo == nil || assigned.AssignedTo.DisplayName != "Alex Agent" {
		t.Fatalf("expected assignee, got %+v", assigned.AssignedTo)
	}

	inProgress, err := env.requests.UpdateStatus(ctx, asStaff, sr.ID, domain.ServiceRequestStatusInProgress)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if inProgress.Status != domain.ServiceRequestStatusInProgress {
		t.Fatalf("expected InProgress, got %s", inProgress.Status)
	}

	comment, err := env.requests.AddComment(ctx, asStaff, sr.ID, "Called the member")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if comment.Staff == nil || comment.Staff.Username != "agent1" {
		t.Fatalf("expected comment author, got %+v", comment.Staff)
	}

	notes := "Address verified"
	resolved, err := env.requests.Resolve(ctx, asSupervisor, sr.ID, ServiceRequestResolveInput{
		ResolutionType:  domain.ResolutionResolved,
		ResolutionNotes: &notes,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != domain.ServiceRequestStatusResolved || resolved.ResolvedAt == nil {
		t.Fatalf("unexpected resolved request %+v", resolved)
	}
	if resolved.ResolvedBy == nil || resolved.ResolvedBy.Username != "supervisor" {
		t.Fatalf("expected resolver supervisor, got %+v", resolved.ResolvedBy)
	}
	if len(resolved.Comments) != 1 || resolved.Comments[0].CommentText != "Called the member" {
		t.Fatalf("expected comment thread, got %+v", resolved.Comments)
	}
	if !resolved.UpdatedAt.After(sr.UpdatedAt) {
		t.Fatalf("updatedAt should advance")
	}

	_, err = env.requests.Resolve(ctx, asSupervisor, sr.ID, ServiceRequestResolveInput{ResolutionType: domain.ResolutionDuplicate})
	expectCode(t, err, apperrors.CodeAlreadyResolved)

	entries := env.auditEntries(t)
	want := []string{
		"Service Request #1 resolved as Resolved - Notes: Address verified",
		"Comment added to Service Request #1",
		"Service Request #1 status changed from New to InProgress",
		"Service Request #1 assigned to Alex Agent",
		"Type: AddressChange, Priority: Medium - Moved to Waterloo",
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d audit entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if *entries[i].Details != w {
			t.Fatalf("entry %d: expected %q, got %q", i, w, *entries[i].Details)
		}
	}

	types := env.dispatcher.types()
	wantTypes := []events.EventType{
		events.EventRequestCreated,
		events.EventRequestAssigned,
		events.EventRequestStatusChanged,
		events.EventRequestCommentAdded,
		events.EventRequestResolved,
	}
	if len(types) != len(wantTypes) {
		t.Fatalf("unexpected events %v", types)
	}
	for i := range wantTypes {
		if types[i] != wantTypes[i] {
			t.Fatalf("event %d: expected %s, got %s", i, wantTypes[i], types[i])
		}
	}
}

func TestServiceRequestGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sr := createRequest(t, env, "M-100001")

	_, err := env.requests.Assign(ctx, asStaff, sr.ID, env.staffIDs["agent1"])
	expectCode(t, err, apperrors.CodeForbidden)

	_, err = env.requests.Assign(ctx, asSupervisor, sr.ID, 9999)
	expectCode(t, err, apperrors.CodeNotFound)

	_, err = env.requests.UpdateStatus(ctx, asStaff, sr.ID, domain.ServiceRequestStatusResolved)
	expectCode(t, err, apperrors.CodeInvalidTransition)

	_, err = env.requests.UpdateStatus(ctx, asStaff, sr.ID, "Paused")
	expectCode(t, err, apperrors.CodeValidation)

	_, err = env.requests.Resolve(ctx, asStaff, sr.ID, ServiceRequestResolveInput{ResolutionType: domain.ResolutionResolved})
	expectCode(t, err, apperrors.CodeForbidden)

	_, err = env.requests.Resolve(ctx, asSupervisor, sr.ID, ServiceRequestResolveInput{ResolutionType: "Done"})
	expectCode(t, err, apperrors.CodeValidation)

	_, err = env.requests.AddComment(ctx, asStaff, sr.ID, "   ")
	expectCode(t, err, apperrors.CodeValidation)

	_, err = env.requests.GetByID(ctx, 9999)
	expectCode(t, err, apperrors.CodeNotFound)

	if n := len(env.auditEntries(t)); n != 1 {
		t.Fatalf("only the create should be audited, got %d", n)
	}
}

func TestUpdateServiceRequestDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sr := createRequest(t, env, "M-100001")

	_, err := env.requests.Update(ctx, asStaff, sr.ID, ServiceRequestUpdateInput{})
	expectCode(t, err, apperrors.CodeValidation)

	description := "Moved to Kitchener"
	high := domain.PriorityHigh
	updated, err := env.requests.Update(ctx, asStaff, sr.ID, ServiceRequestUpdateInput{Description: &description, Priority: &high})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != description || updated.Priority != domain.PriorityHigh {
		t.Fatalf("unexpected update result %+v", updated)
	}

	details := *env.auditEntries(t)[0].Details
	if details != "Service Request #1 updated: description, priority Medium -> High" {
		t.Fatalf("unexpected details %q", details)
	}
}

func TestListServiceRequestFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := createRequest(t, env, "M-100001")
	second := createRequest(t, env, "M-100002")

	if _, err := env.requests.Assign(ctx, asSupervisor, second.ID, env.staffIDs["agent1"]); err != nil {
		t.Fatalf("assign: %v", err)
	}

	all, err := env.requests.List(ctx, ServiceRequestFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if all[0].Comments != nil {
		t.Fatalf("list should not load comment threads")
	}

	assignee := env.staffIDs["agent1"]
	assigned, err := env.requests.List(ctx, ServiceRequestFilter{AssignedToID: &assignee})
	if err != nil {
		t.Fatalf("list assigned: %v", err)
	}
	if len(assigned) != 1 || assigned[0].ID != second.ID {
		t.Fatalf("unexpected assigned list %+v", assigned)
	}

	memberID := env.memberIDs["M-100001"]
	byMember, err := env.requests.List(ctx, ServiceRequestFilter{MemberID: &memberID})
	if err != nil {
		t.Fatalf("list by member: %v", err)
	}
	if len(byMember) != 1 || byMember[0].ID != first.ID {
		t.Fatalf("unexpected member list %+v", byMember)
	}

	bogus := domain.ServiceRequestPriority("Critical")
	_, err = env.requests.List(ctx, ServiceRequestFilter{Priority: &bogus})
	expectCode(t, err, apperrors.CodeValidation)
}
