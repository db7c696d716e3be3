package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/medrec/medical-records-api/internal/core/domain"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

// AuthService implements registration, login and token verification on top of
// the credential store, the password hasher and the token codec.
type AuthService struct {
	users  ports.UserRepository
	hasher *PasswordHasher
	codec  *TokenCodec
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher *PasswordHasher, codec *TokenCodec, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, codec: codec, logger: logger}
}

// RegisterUser creates a patient record and its owning user-role account in a
// single store transaction, then issues a token so the caller is logged in
// immediately. A username race between the pre-check and the insert surfaces
// as ErrUserExists from the store's unique constraint.
func (s *AuthService) RegisterUser(ctx context.Context, username, password string, patient ports.PatientInput) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p := &domain.Patient{
		Name:        patient.Name,
		Age:         patient.Age,
		Address:     patient.Address,
		PhoneNumber: patient.PhoneNumber,
	}

	created, err := s.users.CreateUserWithPatient(ctx, user, p)
	if err != nil {
		return nil, "", err
	}

	token, err := s.codec.Issue(created)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, token, nil
}

// RegisterAdmin creates a bare admin account. No patient row is written and
// the patient binding stays nil.
func (s *AuthService) RegisterAdmin(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	created, err := s.users.CreateUser(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.codec.Issue(created)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("admin registered")
	return created, token, nil
}

// Login authenticates by username and password. Unknown username and wrong
// password are indistinguishable to the caller: both return
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// VerifyToken decodes a bearer token into auth claims.
func (s *AuthService) VerifyToken(token string) (*domain.AuthClaims, error) {
	return s.codec.Decode(token)
}

// GetUserByID returns the stored user with its linked patient attached.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id, true)
}
