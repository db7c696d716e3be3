package ports

import (
	"context"

	"github.com/medrec/medical-records-api/internal/core/domain"
)

// UserRepository defines the credential store contract.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByID loads a user by id, optionally attaching the linked patient.
	FindByID(ctx context.Context, id int64, includePatient bool) (*domain.User, error)
	// CreateUser inserts a bare user (admin accounts). The username unique
	// constraint is enforced by the store; violations surface as ErrUserExists.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	// CreateUserWithPatient inserts the patient and its owning user in a single
	// transaction. Either both rows commit or neither does.
	CreateUserWithPatient(ctx context.Context, user *domain.User, patient *domain.Patient) (*domain.User, error)
}
