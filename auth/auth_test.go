package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/user"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeUserStorage struct {
	byEmail map[string]*user.User
}

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{byEmail: make(map[string]*user.User)}
}

func (s *fakeUserStorage) CreateUser(_ context.Context, u *user.User) error {
	s.byEmail[u.Email] = u
	return nil
}

func (s *fakeUserStorage) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, core.NewNotFound("user", email)
	}
	return u, nil
}

// =============================================================================
// JWT TESTS
// =============================================================================

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	u := &user.User{ID: "u-1", Email: "jane@example.com", Role: user.RoleManager}
	token, err := m.Generate(u)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, user.RoleManager, claims.Role)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", -time.Minute)

	token, err := m.Generate(&user.User{ID: "u-1", Email: "jane@example.com", Role: user.RoleUser})
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("issuer-secret-key-32-bytes-long!", time.Hour)
	verifier := NewJWTManager("other-secret-key-32-bytes-long!!", time.Hour)

	token, err := issuer.Generate(&user.User{ID: "u-1", Email: "jane@example.com", Role: user.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestJWTManager_RefreshKeepsIdentity(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	token, err := m.Generate(&user.User{ID: "u-9", Email: "max@example.com", Role: user.RoleAdmin})
	require.NoError(t, err)

	refreshed, err := m.Refresh(token)
	require.NoError(t, err)

	claims, err := m.Validate(refreshed)
	require.NoError(t, err)
	assert.Equal(t, "u-9", claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)
}

func TestJWTManager_RefreshRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	_, err := m.Refresh("not-a-token")
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

// =============================================================================
// PASSWORD TESTS
// =============================================================================

func TestPasswordAuthenticator_RegisterAndAuthenticate(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStorage())
	ctx := context.Background()

	created, err := a.Register(ctx, user.User{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	}, "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, user.RoleUser, created.Role)
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)

	got, err := a.Authenticate(ctx, "jane@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestPasswordAuthenticator_WrongPassword(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStorage())
	ctx := context.Background()

	_, err := a.Register(ctx, user.User{Email: "jane@example.com"}, "correct horse battery")
	require.NoError(t, err)

	_, err = a.Authenticate(ctx, "jane@example.com", "wrong password!")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestPasswordAuthenticator_UnknownEmail(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStorage())

	_, err := a.Authenticate(context.Background(), "nobody@example.com", "whatever pass")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestPasswordAuthenticator_WeakPassword(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStorage())

	_, err := a.Register(context.Background(), user.User{Email: "jane@example.com"}, "short")
	assert.ErrorIs(t, err, core.ErrWeakPassword)
}

func TestPasswordAuthenticator_DuplicateEmail(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStorage())
	ctx := context.Background()

	_, err := a.Register(ctx, user.User{Email: "jane@example.com"}, "first password")
	require.NoError(t, err)

	_, err = a.Register(ctx, user.User{Email: "jane@example.com"}, "second password")
	assert.ErrorIs(t, err, core.ErrEmailExists)
}

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, user.RoleAdmin.AtLeast(user.RoleManager))
	assert.True(t, user.RoleAdmin.AtLeast(user.RoleUser))
	assert.True(t, user.RoleManager.AtLeast(user.RoleUser))
	assert.False(t, user.RoleUser.AtLeast(user.RoleManager))
	assert.False(t, user.RoleManager.AtLeast(user.RoleAdmin))
	assert.False(t, user.Role("intern").AtLeast(user.RoleUser))
}
