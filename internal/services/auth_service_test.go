package services

import (
	"context"
	"errors"
	"testing"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/auth"
	"github.com/earngage/backend/internal/lock"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/earngage/backend/internal/rowstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// brokenTableStore fails every Create on one table.
type brokenTableStore struct {
	rowstore.Store
	table string
}

func (s brokenTableStore) Create(ctx context.Context, name string, data rowstore.Row) (rowstore.Row, error) {
	if name == s.table {
		return nil, errors.New("rows unavailable")
	}
	return s.Store.Create(ctx, name, data)
}

func TestRegisterCreatesProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.Auth.Register(ctx, RegisterInput{
		Email: "  Alice@Example.com ", Password: "s3cret-pass", UserType: models.UserTypeCreator, FirstName: "Alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "alice@example.com", sess.User.Email)
	assert.Empty(t, sess.User.PasswordHash)

	profile, err := f.Users.GetCreatorProfile(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.DisplayName)

	_, err = f.Auth.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "another-pass", UserType: models.UserTypeBrand})
	assert.True(t, apperr.IsDuplicate(err))
}

func TestRegisterRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    RegisterInput
		check func(error) bool
	}{
		{"bad email", RegisterInput{Email: "nope", Password: "long-enough", UserType: models.UserTypeBrand}, apperr.IsValidation},
		{"short password", RegisterInput{Email: "a@b.co", Password: "short", UserType: models.UserTypeBrand}, apperr.IsValidation},
		{"bad type", RegisterInput{Email: "a@b.co", Password: "long-enough", UserType: "agency"}, apperr.IsValidation},
		{"admin not listed", RegisterInput{Email: "a@b.co", Password: "long-enough", UserType: models.UserTypeAdmin},
			func(err error) bool { return apperr.KindOf(err) == apperr.KindForbidden }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Auth.Register(ctx, tt.in)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}

	sess, err := f.Auth.Register(ctx, RegisterInput{Email: "root@earngage.io", Password: "long-enough", UserType: models.UserTypeAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeAdmin, sess.User.UserType)
}

func TestLoginLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.Auth.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "hunter2-long", UserType: models.UserTypeBrand, CompanyName: "Bob Co"})
	require.NoError(t, err)

	_, err = f.Auth.Login(ctx, "bob@example.com", "wrong-password")
	assert.True(t, apperr.KindOf(err) == apperr.KindUnauthorized)
	_, err = f.Auth.Login(ctx, "nobody@example.com", "hunter2-long")
	assert.True(t, apperr.KindOf(err) == apperr.KindUnauthorized)

	sess, err := f.Auth.Login(ctx, "BOB@example.com", "hunter2-long")
	require.NoError(t, err)
	require.NotNil(t, sess.User.LastLoginAt)

	u, err := f.Auth.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, u.ID)

	require.NoError(t, f.Auth.Logout(ctx, sess.Token))
	_, err = f.Auth.ValidateToken(ctx, sess.Token)
	assert.True(t, apperr.KindOf(err) == apperr.KindUnauthorized)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, err := f.Auth.Register(ctx, RegisterInput{Email: "carol@example.com", Password: "first-pass", UserType: models.UserTypeCreator})
	require.NoError(t, err)

	err = f.Auth.ChangePassword(ctx, sess.User.ID, "not-it", "second-pass")
	assert.True(t, apperr.IsValidation(err))
	assert.ErrorContains(t, err, "Current password is incorrect")

	require.NoError(t, f.Auth.ChangePassword(ctx, sess.User.ID, "first-pass", "second-pass"))
	_, err = f.Auth.Login(ctx, "carol@example.com", "first-pass")
	assert.Error(t, err)
	_, err = f.Auth.Login(ctx, "carol@example.com", "second-pass")
	assert.NoError(t, err)
}

func TestRegisterRollsBackUserWhenProfileFails(t *testing.T) {
	ctx := context.Background()
	store := brokenTableStore{Store: memory.New(), table: repositories.TableBrandProfiles}
	f := newFixture(t)
	users := repositories.NewUserRepo(store)
	userSvc := NewUserService(users, repositories.NewCreatorProfileRepo(store), repositories.NewBrandProfileRepo(store),
		repositories.NewCampaignRepo(store), repositories.NewApplicationRepo(store), zap.NewNop())
	svc := NewAuthService(users, userSvc, auth.NewMemoryDenylist(), lock.NewLocalLocker(), f.cfg, zap.NewNop())

	_, err := svc.Register(ctx, RegisterInput{Email: "acme@example.com", Password: "long-enough", UserType: models.UserTypeBrand, CompanyName: "Acme"})
	require.Error(t, err)

	u, err := users.GetByEmail(ctx, "acme@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	// адрес свободен для повторной регистрации
	store.table = ""
	svc = NewAuthService(users, NewUserService(users, repositories.NewCreatorProfileRepo(store), repositories.NewBrandProfileRepo(store),
		repositories.NewCampaignRepo(store), repositories.NewApplicationRepo(store), zap.NewNop()),
		auth.NewMemoryDenylist(), lock.NewLocalLocker(), f.cfg, zap.NewNop())
	_, err = svc.Register(ctx, RegisterInput{Email: "acme@example.com", Password: "long-enough", UserType: models.UserTypeBrand, CompanyName: "Acme"})
	require.NoError(t, err)
}
