package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/config"
	"github.com/contractpro/contractpro/internal/directory"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/storage"
)

// AuthService authenticates users and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	// EnsureAdmin creates the bootstrap admin account if it is missing.
	EnsureAdmin(ctx context.Context) error
}

type authService struct {
	users  storage.UserStorage
	dir    directory.Directory
	tokens TokenService
	cfg    config.AuthConfig
	log    *slog.Logger
}

func NewAuthService(users storage.UserStorage, dir directory.Directory, tokens TokenService, cfg config.AuthConfig, log *slog.Logger) AuthService {
	return &authService{users: users, dir: dir, tokens: tokens, cfg: cfg, log: log}
}

// Login checks, in order: the hardcoded admin account, the employee
// directory, and vendor accounts with a local password hash.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	if username == s.cfg.AdminUsername && password == s.cfg.AdminPassword {
		if u, err := s.users.FindByUsername(ctx, username); err == nil {
			return s.issue(ctx, u)
		}
	}

	if ok, err := s.dir.Authenticate(ctx, username, password); err != nil {
		s.log.Warn("Directory authentication failed", slog.Any("error", err))
	} else if ok {
		if u, err := s.users.FindByUsername(ctx, username); err == nil {
			return s.issue(ctx, u)
		}
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err == nil && u.Role == model.RoleVendor && u.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
			return s.issue(ctx, u)
		}
	}

	return "", nil, apperr.NewValidation("invalid username or password")
}

func (s *authService) issue(ctx context.Context, u *model.User) (string, *model.User, error) {
	token, err := s.tokens.Generate(u)
	if err != nil {
		return "", nil, err
	}
	now := time.Now()
	u.LastLogin = &now
	if err := s.users.Update(ctx, u); err != nil {
		s.log.Warn("Failed to record last login", slog.Any("error", err))
	}
	return token, u, nil
}

func (s *authService) EnsureAdmin(ctx context.Context) error {
	if _, err := s.users.FindByUsername(ctx, s.cfg.AdminUsername); err == nil {
		return nil
	} else if !apperr.IsNotFound(err) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		ID:           uuid.New().String(),
		Username:     s.cfg.AdminUsername,
		Email:        "admin@system.local",
		FullName:     "System Administrator",
		Role:         model.RoleAdmin,
		IsActive:     true,
		PasswordHash: string(hash),
	}
	if err := s.users.Save(ctx, admin); err != nil {
		return err
	}
	s.log.Info("Default admin account created")
	return nil
}
