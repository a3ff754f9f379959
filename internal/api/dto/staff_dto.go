package dto

import (
	"time"

	"github.com/memberops/memberops-api/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token       string      `json:"token"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Role        domain.Role `json:"role"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

// StaffResponse is the public view of a staff record. The password hash is never exposed.
type StaffResponse struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
}
