package domain

import "time"

// ServiceRequestStatus enumerates lifecycle states for service requests.
type ServiceRequestStatus string

const (
	ServiceRequestStatusNew        ServiceRequestStatus = "New"
	ServiceRequestStatusInProgress ServiceRequestStatus = "InProgress"
	ServiceRequestStatusResolved   ServiceRequestStatus = "Resolved"
	ServiceRequestStatusCancelled  ServiceRequestStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s ServiceRequestStatus) Valid() bool {
	switch s {
	case ServiceRequestStatusNew, ServiceRequestStatusInProgress, ServiceRequestStatusResolved, ServiceRequestStatusCancelled:
		return true
	}
	return false
}

// ServiceRequestPriority enumerates urgency.
type ServiceRequestPriority string

const (
	PriorityLow    ServiceRequestPriority = "Low"
	PriorityMedium ServiceRequestPriority = "Medium"
	PriorityHigh   ServiceRequestPriority = "High"
	PriorityUrgent ServiceRequestPriority = "Urgent"
)

// Valid reports whether p is a known priority.
func (p ServiceRequestPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ResolutionType classifies how a request was closed out.
type ResolutionType string

const (
	ResolutionResolved       ResolutionType = "Resolved"
	ResolutionMoreInfoNeeded ResolutionType = "MoreInfoNeeded"
	ResolutionTransferred    ResolutionType = "Transferred"
	ResolutionDuplicate      ResolutionType = "Duplicate"
	ResolutionCannotResolve  ResolutionType = "CannotResolve"
	ResolutionCancelled      ResolutionType = "Cancelled"
)

// Valid reports whether r is a known resolution type.
func (r ResolutionType) Valid() bool {
	switch r {
	case ResolutionResolved, ResolutionMoreInfoNeeded, ResolutionTransferred,
		ResolutionDuplicate, ResolutionCannotResolve, ResolutionCancelled:
		return true
	}
	return false
}

// ServiceRequest is a tracked unit of work on behalf of a member.
type ServiceRequest struct {
	ID              int64
	MemberID        int64
	RequestType     string
	Description     string
	Status          ServiceRequestStatus
	Priority        ServiceRequestPriority
	CreatedByID     int64
	AssignedToID    *int64
	ResolutionType  *ResolutionType
	ResolutionNotes *string
	ResolvedAt      *time.Time
	ResolvedByID    *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Relations, populated per ServiceRequestInclude.
	Member     *Member
	CreatedBy  *Staff
	AssignedTo *Staff
	ResolvedBy *Staff
	Comments   []ServiceRequestComment
}

// ServiceRequestInclude selects which relations are materialized.
type ServiceRequestInclude struct {
	Member     bool
	CreatedBy  bool
	AssignedTo bool
	ResolvedBy bool
	Comments   bool
}

// ServiceRequestComment is an immutable note on a service request.
type ServiceRequestComment struct {
	ID               int64
	ServiceRequestID int64
	StaffID          int64
	CommentText      string
	CreatedAt        time.Time

	Staff *Staff
}
