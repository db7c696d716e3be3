package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrInvalidToken = errors.New("invalid token")
var ErrUserExists = errors.New("username already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrForbidden = errors.New("access forbidden")
var ErrTooManyRequests = errors.New("too many requests")

// User models an authenticated actor. A user-role account is bound to exactly
// one patient record; admin accounts carry no patient binding.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	PatientID    *int64    `json:"patientId,omitempty"`
	Patient      *Patient  `json:"patient,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthClaims is the decoded identity carried for the lifetime of one request.
// It is produced only by the token codec and is the single identity shape
// consumed by middleware and handlers.
type AuthClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (c *AuthClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
