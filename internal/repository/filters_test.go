package repository

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/memberops/memberops-api/internal/domain"
)

func TestBuildMemberWhereEmpty(t *testing.T) {
	where, args := buildMemberWhere(MemberFilter{Search: "   "})
	if where != "" || len(args) != 0 {
		t.Fatalf("expected no clauses, got %q %v", where, args)
	}
}

func TestBuildMemberWhereSearchAndStatus(t *testing.T) {
	status := domain.MemberStatusLocked
	where, args := buildMemberWhere(MemberFilter{Search: " John ", Status: &status})

	for _, column := range []string{"member_number", "first_name", "last_name", "email", "phone"} {
		if !strings.Contains(where, "LOWER("+column+") LIKE $1") {
			t.Fatalf("expected %s search clause in %q", column, where)
		}
	}
	if !strings.Contains(where, ") AND status=$2") {
		t.Fatalf("expected status clause ANDed after search, got %q", where)
	}
	want := []any{"%john%", domain.MemberStatusLocked}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildMemberWhereEscapesWildcards(t *testing.T) {
	_, args := buildMemberWhere(MemberFilter{Search: "50%_off"})
	if got := args[0]; got != `%50\%\_off%` {
		t.Fatalf("unexpected pattern %v", got)
	}
}

func TestBuildServiceRequestWhere(t *testing.T) {
	status := domain.ServiceRequestStatusInProgress
	priority := domain.PriorityHigh
	assignee := int64(2)
	member := int64(7)

	where, args := buildServiceRequestWhere(ServiceRequestFilter{
		Status:       &status,
		Priority:     &priority,
		AssignedToID: &assignee,
		MemberID:     &member,
	})
	if where != " WHERE status=$1 AND priority=$2 AND assigned_to_id=$3 AND member_id=$4" {
		t.Fatalf("unexpected where %q", where)
	}
	want := []any{status, priority, assignee, member}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestBuildServiceRequestWherePartial(t *testing.T) {
	member := int64(3)
	where, args := buildServiceRequestWhere(ServiceRequestFilter{MemberID: &member})
	if where != " WHERE member_id=$1" || len(args) != 1 {
		t.Fatalf("unexpected where %q args %v", where, args)
	}
}

func TestBuildAuditLogWhere(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 1)
	action := domain.AuditAccountLocked

	where, args := buildAuditLogWhere(AuditLogFilter{
		From:   &from,
		Until:  &until,
		Action: &action,
		Actor:  "Super",
	})
	if where != " WHERE timestamp >= $1 AND timestamp < $2 AND action=$3 AND LOWER(actor) LIKE $4" {
		t.Fatalf("unexpected where %q", where)
	}
	if args[3] != "%super%" {
		t.Fatalf("expected lowered actor pattern, got %v", args[3])
	}
}
