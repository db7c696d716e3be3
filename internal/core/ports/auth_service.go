package ports

import (
	"context"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

// PatientInput carries the demographic fields supplied at registration.
type PatientInput struct {
	Name        string
	Age         int
	Address     string
	PhoneNumber string
}

type AuthService interface {
	// RegisterUser atomically creates a patient and its owning user-role
	// account, returning the created user and a login token.
	RegisterUser(ctx context.Context, username, password string, patient PatientInput) (*domain.User, string, error)
	// RegisterAdmin creates an admin account with no patient binding.
	RegisterAdmin(ctx context.Context, username, password string) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	VerifyToken(token string) (*domain.AuthClaims, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// TokenVerifier is the slice of AuthService the authentication middleware needs.
type TokenVerifier interface {
	VerifyToken(token string) (*domain.AuthClaims, error)
}

// UserDirectory is the slice of AuthService the ownership gate needs.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}
