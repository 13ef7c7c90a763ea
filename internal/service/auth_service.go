package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskflow/internal/apperr"
	"taskflow/internal/auth"
	"taskflow/internal/model"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
	"taskflow/internal/validation"
)

// bcryptCost matches the original deployment's hash cost.
const bcryptCost = 10

// UserProjection is the client-safe view of a user; the password hash is
// never part of it.
type UserProjection struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	Image     *string    `json:"image,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func projectUser(u *model.User) *UserProjection {
	return &UserProjection{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

// AuthService covers registration, login, and session refresh.
type AuthService struct {
	users  *repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users *repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates an account. The email must be unused; the password must
// pass the complexity policy. Returns the safe projection only.
func (s *AuthService) Register(ctx context.Context, in validation.RegisterInput) (*UserProjection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", apperr.ErrConflict)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	// The unique index still guards against a concurrent registration
	// slipping in between the lookup and the insert.
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return projectUser(&user), nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (string, *UserProjection, error) {
	if err := in.Validate(); err != nil {
		return "", nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, apperr.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return "", nil, apperr.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, projectUser(user), nil
}

// Refresh issues a new sliding-window token. The role is re-read from the
// user row, so a promotion or demotion takes effect here, not instantly.
func (s *AuthService) Refresh(ctx context.Context, actor policy.Actor) (string, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return "", err
	}
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Account deleted since the token was issued.
			return "", apperr.ErrUnauthenticated
		}
		return "", err
	}
	return s.tokens.Issue(user)
}
