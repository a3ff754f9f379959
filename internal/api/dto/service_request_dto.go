package dto

import (
	"time"

	"github.com/memberops/memberops-api/internal/domain"
)

// CreateServiceRequestRequest payload. Priority defaults to Medium.
type CreateServiceRequestRequest struct {
	MemberID    int64                         `json:"memberId"`
	RequestType string                        `json:"requestType"`
	Description string                        `json:"description"`
	Priority    domain.ServiceRequestPriority `json:"priority"`
}

// UpdateServiceRequestRequest carries optional detail edits.
type UpdateServiceRequestRequest struct {
	RequestType *string                        `json:"requestType"`
	Description *string                        `json:"description"`
	Priority    *domain.ServiceRequestPriority `json:"priority"`
}

// AssignServiceRequestRequest payload.
type AssignServiceRequestRequest struct {
	AssignedToID int64 `json:"assignedToId"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.ServiceRequestStatus `json:"status"`
}

// ResolveServiceRequestRequest payload.
type ResolveServiceRequestRequest struct {
	ResolutionType  domain.ResolutionType `json:"resolutionType"`
	ResolutionNotes *string               `json:"resolutionNotes"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	CommentText string `json:"commentText"`
}

// ServiceRequestResponse describes a request and its loaded references.
type ServiceRequestResponse struct {
	ID              int64                         `json:"id"`
	MemberID        int64                         `json:"memberId"`
	RequestType     string                        `json:"requestType"`
	Description     string                        `json:"description"`
	Status          domain.ServiceRequestStatus   `json:"status"`
	Priority        domain.ServiceRequestPriority `json:"priority"`
	CreatedByID     int64                         `json:"createdById"`
	AssignedToID    *int64                        `json:"assignedToId"`
	ResolutionType  *domain.ResolutionType        `json:"resolutionType"`
	ResolutionNotes *string                       `json:"resolutionNotes"`
	ResolvedAt      *time.Time                    `json:"resolvedAt"`
	ResolvedByID    *int64                        `json:"resolvedById"`
	CreatedAt       time.Time                     `json:"createdAt"`
	UpdatedAt       time.Time                     `json:"updatedAt"`

	Member     *MemberSummary    `json:"member,omitempty"`
	CreatedBy  *StaffResponse    `json:"createdBy,omitempty"`
	AssignedTo *StaffResponse    `json:"assignedTo,omitempty"`
	ResolvedBy *StaffResponse    `json:"resolvedBy,omitempty"`
	Comments   []CommentResponse `json:"comments,omitempty"`
}

// CommentResponse describes a comment and its author.
type CommentResponse struct {
	ID               int64          `json:"id"`
	ServiceRequestID int64          `json:"serviceRequestId"`
	StaffID          int64          `json:"staffId"`
	CommentText      string         `json:"commentText"`
	CreatedAt        time.Time      `json:"createdAt"`
	Staff            *StaffResponse `json:"staff,omitempty"`
}
