package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
	"github.com/greengp/platform/internal/store"
	"github.com/rs/zerolog/log"
)

// ErrInvalidCredentials is returned by Login for both an unknown email and a
// wrong password. The two cases are intentionally indistinguishable so the
// endpoint cannot be used to enumerate registered emails.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service orchestrates registration, login and profile lookup over the user
// store, the password hasher and the token issuer.
type Service struct {
	users  store.UserStore
	hasher *PasswordHasher
	tokens *Tokens
}

// NewService creates an authentication service.
func NewService(users store.UserStore, hasher *PasswordHasher, tokens *Tokens) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// RegisterParams carries the fields required to create a user.
type RegisterParams struct {
	FullName     string
	Email        string
	Password     string
	Organization string
	Role         string
	Phone        string
}

// Register hashes the password and persists a new user. Registering an email
// that already exists fails with store.ErrEmailTaken. The returned user never
// carries the password hash beyond the store boundary; callers serialize only
// public fields.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.Must(uuid.NewV7()),
		FullName:     params.FullName,
		Email:        params.Email,
		PasswordHash: hash,
		Organization: params.Organization,
		Role:         params.Role,
		Phone:        params.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Msg("Registered user")

	return user, nil
}

// Login verifies the credentials and issues a session token. Both an unknown
// email and a failed password check collapse to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Debug().
		Str("user_id", user.ID.String()).
		Msg("Issued session token")

	return token, user, nil
}

// Profile returns the user's public profile.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.Get(ctx, userID)
}
