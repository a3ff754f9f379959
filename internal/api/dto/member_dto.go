package dto

import (
	"time"

	"github.com/memberops/memberops-api/internal/domain"
)

// MemberSummary is a member without relations, used for nested references.
type MemberSummary struct {
	ID           int64               `json:"id"`
	MemberNumber string              `json:"memberNumber"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Status       domain.MemberStatus `json:"status"`
	JoinDate     time.Time           `json:"joinDate"`
	Notes        *string             `json:"notes"`
}

// MemberResponse carries a member and whichever relations were loaded.
type MemberResponse struct {
	MemberSummary
	Flags           []AccountFlagResponse    `json:"flags"`
	ServiceRequests []ServiceRequestResponse `json:"serviceRequests,omitempty"`
}

// UpdateNotesRequest payload. A null or blank value clears the notes.
type UpdateNotesRequest struct {
	Notes *string `json:"notes"`
}

// AccountFlagResponse describes a flag.
type AccountFlagResponse struct {
	ID              int64      `json:"id"`
	MemberID        int64      `json:"memberId"`
	FlagType        string     `json:"flagType"`
	Description     string     `json:"description"`
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	ResolvedBy      *string    `json:"resolvedBy"`
	ResolvedAt      *time.Time `json:"resolvedAt"`
	ResolutionNotes *string    `json:"resolutionNotes"`
}

// CreateFlagRequest payload.
type CreateFlagRequest struct {
	FlagType    string `json:"flagType"`
	Description string `json:"description"`
}

// ResolveFlagRequest payload.
type ResolveFlagRequest struct {
	ResolutionNotes *string `json:"resolutionNotes"`
}

// AuditLogResponse describes an audit entry with its member.
type AuditLogResponse struct {
	ID        int64              `json:"id"`
	MemberID  int64              `json:"memberId"`
	Actor     string             `json:"actor"`
	Action    domain.AuditAction `json:"action"`
	Details   *string            `json:"details"`
	Timestamp time.Time          `json:"timestamp"`
	Member    *MemberSummary     `json:"member,omitempty"`
}
