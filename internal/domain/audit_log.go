package domain

import "time"

// AuditAction labels an audited mutation.
type AuditAction string

const (
	AuditAccountLocked        AuditAction = "Account Locked"
	AuditAccountUnlocked      AuditAction = "Account Unlocked"
	AuditNotesUpdated         AuditAction = "Notes Updated"
	AuditFlagCreated          AuditAction = "Flag Created"
	AuditFlagResolved         AuditAction = "Flag Resolved"
	AuditRequestCreated       AuditAction = "Service Request Created"
	AuditRequestUpdated       AuditAction = "Service Request Updated"
	AuditRequestAssigned      AuditAction = "Service Request Assigned"
	AuditRequestStatusChanged AuditAction = "Service Request Status Changed"
	AuditRequestResolved      AuditAction = "Service Request Resolved"
	AuditRequestCommentAdded  AuditAction = "Comment Added to Service Request"
)

// AuditActions lists the full taxonomy in display order.
var AuditActions = []AuditAction{
	AuditAccountLocked,
	AuditAccountUnlocked,
	AuditNotesUpdated,
	AuditFlagCreated,
	AuditFlagResolved,
	AuditRequestCreated,
	AuditRequestUpdated,
	AuditRequestAssigned,
	AuditRequestStatusChanged,
	AuditRequestResolved,
	AuditRequestCommentAdded,
}

// AuditLog is an append-only record of a mutation against a member.
type AuditLog struct {
	ID        int64
	MemberID  int64
	Actor     string
	Action    AuditAction
	Details   *string
	Timestamp time.Time

	Member *Member
}
