package events

import (
	"time"

	"github.com/memberops/memberops-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMemberLocked         EventType = "member.locked"
	EventMemberUnlocked       EventType = "member.unlocked"
	EventMemberNotesUpdated   EventType = "member.notes_updated"
	EventFlagCreated          EventType = "flag.created"
	EventFlagResolved         EventType = "flag.resolved"
	EventRequestCreated       EventType = "service_request.created"
	EventRequestUpdated       EventType = "service_request.updated"
	EventRequestAssigned      EventType = "service_request.assigned"
	EventRequestStatusChanged EventType = "service_request.status_changed"
	EventRequestResolved      EventType = "service_request.resolved"
	EventRequestCommentAdded  EventType = "service_request.comment_added"
)

// AllEventTypes lists every published type.
var AllEventTypes = []EventType{
	EventMemberLocked,
	EventMemberUnlocked,
	EventMemberNotesUpdated,
	EventFlagCreated,
	EventFlagResolved,
	EventRequestCreated,
	EventRequestUpdated,
	EventRequestAssigned,
	EventRequestStatusChanged,
	EventRequestResolved,
	EventRequestCommentAdded,
}

// Event represents a domain event emitted by services after commit.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	MemberID  int64        `json:"memberId"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload,omitempty"`
}

// MemberStatusPayload accompanies lock and unlock.
type MemberStatusPayload struct {
	OldStatus domain.MemberStatus `json:"oldStatus"`
	NewStatus domain.MemberStatus `json:"newStatus"`
}

// FlagPayload accompanies flag events.
type FlagPayload struct {
	FlagID   int64  `json:"flagId"`
	FlagType string `json:"flagType"`
}

// ServiceRequestPayload accompanies creation, edits and comments.
type ServiceRequestPayload struct {
	ServiceRequestID int64                         `json:"serviceRequestId"`
	RequestType      string                        `json:"requestType"`
	Priority         domain.ServiceRequestPriority `json:"priority"`
}

// RequestAssignedPayload names the new assignee.
type RequestAssignedPayload struct {
	ServiceRequestID int64  `json:"serviceRequestId"`
	AssigneeID       int64  `json:"assigneeId"`
	AssigneeUsername string `json:"assigneeUsername"`
	AssigneeEmail    string `json:"assigneeEmail"`
	AssigneeName     string `json:"assigneeName"`
}

// RequestStatusPayload records a status change.
type RequestStatusPayload struct {
	ServiceRequestID int64                       `json:"serviceRequestId"`
	OldStatus        domain.ServiceRequestStatus `json:"oldStatus"`
	NewStatus        domain.ServiceRequestStatus `json:"newStatus"`
}

// RequestResolvedPayload records the resolution type.
type RequestResolvedPayload struct {
	ServiceRequestID int64                 `json:"serviceRequestId"`
	ResolutionType   domain.ResolutionType `json:"resolutionType"`
}

// CommentPayload records a new comment.
type CommentPayload struct {
	ServiceRequestID int64  `json:"serviceRequestId"`
	CommentID        int64  `json:"commentId"`
	Preview          string `json:"preview"`
}
