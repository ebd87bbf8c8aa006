package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
	"github.com/RileyK05/basic-crm/internal/testutil"
)

func newUserService(repo repository.UserRepository) *UserService {
	svc := NewUserService(repo, zap.NewNop())
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestSignup_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	var stored *models.User
	repo.CreateFunc = func(ctx context.Context, u *models.User) error {
		stored = u
		u.ID = 3
		return nil
	}

	user, err := newUserService(repo).Signup(context.Background(), &SignupRequest{
		Username: " ada ",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, user.ID)
	assert.Equal(t, "ada", stored.Username)
	assert.Equal(t, models.UserRoleSalesRep, stored.Role)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"short password", SignupRequest{Username: "ada", Email: "ada@example.com", Password: "short"}},
		{"bad email", SignupRequest{Username: "ada", Email: "ada", Password: "long enough"}},
		{"short username", SignupRequest{Username: "ad", Email: "ada@example.com", Password: "long enough"}},
		{"unknown role", SignupRequest{Username: "ada", Email: "ada@example.com", Password: "long enough", Role: "Owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUserService(testutil.NewMockUserRepository()).Signup(context.Background(), &tt.req)
			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	repo.CreateFunc = func(ctx context.Context, u *models.User) error { return repository.ErrDuplicate }

	_, err := newUserService(repo).Signup(context.Background(), &SignupRequest{
		Username: "ada", Email: "ada@example.com", Password: "long enough",
	})

	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestAuthenticate(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	hash := hashed(t, "correct horse")
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		if username != "ada" {
			return nil, repository.ErrNotFound
		}
		return testutil.NewTestUser(hash), nil
	}
	svc := newUserService(repo)

	user, err := svc.Authenticate(context.Background(), &LoginRequest{Username: "ada", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	var unauth *UnauthorizedError
	_, err = svc.Authenticate(context.Background(), &LoginRequest{Username: "ada", Password: "wrong"})
	assert.True(t, errors.As(err, &unauth))

	_, err = svc.Authenticate(context.Background(), &LoginRequest{Username: "bob", Password: "correct horse"})
	assert.True(t, errors.As(err, &unauth))
}

func TestUpdateAccount_ChangesPasswordOnlyWhenGiven(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	original := hashed(t, "correct horse")
	repo.GetByIDFunc = func(ctx context.Context, id int) (*models.User, error) {
		return testutil.NewTestUser(original), nil
	}
	svc := newUserService(repo)

	user, err := svc.UpdateAccount(context.Background(), 1, &AccountRequest{Email: "new@example.com", Role: models.UserRoleManager})
	require.NoError(t, err)
	assert.Equal(t, original, user.PasswordHash)
	assert.Equal(t, models.UserRoleManager, user.Role)

	user, err = svc.UpdateAccount(context.Background(), 1, &AccountRequest{
		Email:    "new@example.com",
		Role:     models.UserRoleManager,
		Password: testutil.StringPtr("battery staple"),
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("battery staple")))
}

func TestGetAccount_DeletedUser(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	repo.GetByIDFunc = func(ctx context.Context, id int) (*models.User, error) {
		return nil, repository.ErrNotFound
	}

	_, err := newUserService(repo).GetAccount(context.Background(), 1)

	var unauth *UnauthorizedError
	assert.True(t, errors.As(err, &unauth))
}
