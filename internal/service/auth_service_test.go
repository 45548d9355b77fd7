package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/config"
	"github.com/contractpro/contractpro/internal/directory"
	"github.com/contractpro/contractpro/internal/model"
)

type mockUserStorage struct {
	mock.Mock
}

func (m *mockUserStorage) Save(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStorage) Update(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStorage) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStorage) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStorage) FindAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

type staticDirectory struct {
	accept map[string]string
}

func (d *staticDirectory) Users(ctx context.Context) ([]directory.Entry, error) {
	return nil, nil
}

func (d *staticDirectory) Authenticate(ctx context.Context, username, password string) (bool, error) {
	return d.accept[username] == password, nil
}

var testAuthCfg = config.AuthConfig{
	JWTSecret:     "test-secret",
	TokenExpiry:   time.Hour,
	AdminUsername: "superadmin",
	AdminPassword: "admin123",
}

func TestLoginAdminKillSwitch(t *testing.T) {
	users := new(mockUserStorage)
	admin := &model.User{ID: "u-admin", Username: "superadmin", Role: model.RoleAdmin, IsActive: true}
	users.On("FindByUsername", mock.Anything, "superadmin").Return(admin, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewAuthService(users, &staticDirectory{}, NewJWTService(testAuthCfg.JWTSecret, testAuthCfg.TokenExpiry), testAuthCfg, slog.Default())

	token, u, err := svc.Login(context.Background(), "superadmin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "u-admin", u.ID)
	assert.NotNil(t, u.LastLogin)
}

func TestLoginDirectoryUser(t *testing.T) {
	users := new(mockUserStorage)
	emp := &model.User{ID: "u-emp", Username: "jdoe", Role: model.RoleUser, IsActive: true}
	users.On("FindByUsername", mock.Anything, "jdoe").Return(emp, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	dir := &staticDirectory{accept: map[string]string{"jdoe": "secret"}}
	svc := NewAuthService(users, dir, NewJWTService(testAuthCfg.JWTSecret, testAuthCfg.TokenExpiry), testAuthCfg, slog.Default())

	token, u, err := svc.Login(context.Background(), "jdoe", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "u-emp", u.ID)
}

func TestLoginVendorPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("vend0r-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	users := new(mockUserStorage)
	vendor := &model.User{ID: "u-ven", Username: "acme", Role: model.RoleVendor, IsActive: true, PasswordHash: string(hash)}
	users.On("FindByUsername", mock.Anything, "acme").Return(vendor, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewAuthService(users, &staticDirectory{}, NewJWTService(testAuthCfg.JWTSecret, testAuthCfg.TokenExpiry), testAuthCfg, slog.Default())

	_, u, err := svc.Login(context.Background(), "acme", "vend0r-pass")
	require.NoError(t, err)
	assert.Equal(t, model.RoleVendor, u.Role)

	_, _, err = svc.Login(context.Background(), "acme", "wrong")
	assert.Error(t, err)
}

func TestLoginUnknownUser(t *testing.T) {
	users := new(mockUserStorage)
	users.On("FindByUsername", mock.Anything, "ghost").Return(nil, apperr.NewNotFound("user ghost"))

	svc := NewAuthService(users, &staticDirectory{}, NewJWTService(testAuthCfg.JWTSecret, testAuthCfg.TokenExpiry), testAuthCfg, slog.Default())

	_, _, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewJWTService("round-trip-secret", time.Hour)

	token, err := tokens.Generate(&model.User{ID: "u-1", Role: model.RoleUser})
	require.NoError(t, err)

	sub, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", sub)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour).Generate(&model.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}
