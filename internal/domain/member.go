package domain

import "time"

// MemberStatus represents lifecycle states for a member account.
type MemberStatus string

const (
	MemberStatusActive MemberStatus = "Active"
	MemberStatusLocked MemberStatus = "Locked"
	MemberStatusClosed MemberStatus = "Closed"
)

// Valid reports whether s is a known member status.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusActive, MemberStatusLocked, MemberStatusClosed:
		return true
	}
	return false
}

// Member is the aggregate root for account holders.
type Member struct {
	ID           int64
	MemberNumber string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Status       MemberStatus
	JoinDate     time.Time
	Notes        *string

	// Populated only when requested through MemberInclude.
	Flags           []AccountFlag
	ServiceRequests []ServiceRequest
}

// MemberInclude selects which relations are materialized with a member.
type MemberInclude struct {
	Flags           bool
	ServiceRequests bool
}

// FullName joins first and last name.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
