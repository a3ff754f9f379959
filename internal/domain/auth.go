package domain

import "time"

// Actor is the authenticated principal attributed to a mutation.
type Actor struct {
	Username string
	Role     Role
}

// Session describes an issued access token.
type Session struct {
	Token     string
	TokenID   string
	Staff     *Staff
	ExpiresAt time.Time
}
