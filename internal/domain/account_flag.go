package domain

import "time"

// Known flag types. The set is open; other non-blank values are accepted.
const (
	FlagTypeFraudReview    = "FraudReview"
	FlagTypeIDVerification = "IDVerification"
	FlagTypePaymentIssue   = "PaymentIssue"
	FlagTypeGeneralReview  = "GeneralReview"
)

// AccountFlag is a review marker attached to a member.
type AccountFlag struct {
	ID              int64
	MemberID        int64
	FlagType        string
	Description     string
	CreatedBy       string
	CreatedAt       time.Time
	ResolvedBy      *string
	ResolvedAt      *time.Time
	ResolutionNotes *string
}

// IsResolved reports whether the flag reached its terminal state.
func (f *AccountFlag) IsResolved() bool {
	return f.ResolvedAt != nil
}
