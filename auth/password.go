package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/user"
)

// UserStorage defines the persistence operations the authenticator needs.
// This keeps it independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{storage: storage}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return core.ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password. The first/last
// name and manager reference come from the registration form; the role
// defaults to user unless the caller sets one.
func (a *PasswordAuthenticator) Register(ctx context.Context, u user.User, credential string) (*user.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	// Check if email already exists
	existing, err := a.storage.GetUserByEmail(ctx, u.Email)
	if err == nil && existing != nil {
		return nil, core.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	u.PasswordHash = string(hashedPassword)

	if err := a.storage.CreateUser(ctx, &u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*user.User, error) {
	u, err := a.storage.GetUserByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, core.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(credential)); err != nil {
		return nil, core.ErrInvalidCredentials
	}

	return u, nil
}
