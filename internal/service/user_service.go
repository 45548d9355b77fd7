package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/directory"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/storage"
)

// SyncResult summarizes one directory sync run.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// UserService exposes user listing and directory synchronization.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	// Sync pulls the employee directory and upserts application users,
	// then resolves manager usernames to user IDs in a second pass.
	Sync(ctx context.Context) (*SyncResult, error)
}

type userService struct {
	users storage.UserStorage
	dir   directory.Directory
	log   *slog.Logger
}

func NewUserService(users storage.UserStorage, dir directory.Directory, log *slog.Logger) UserService {
	return &userService{users: users, dir: dir, log: log}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.users.FindAll(ctx)
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) Sync(ctx context.Context) (*SyncResult, error) {
	entries, err := s.dir.Users(ctx)
	if err != nil {
		return nil, err
	}

	res := &SyncResult{Total: len(entries)}
	managers := make(map[string]string, len(entries)) // username -> manager username

	for _, e := range entries {
		if e.ManagerUsername != "" {
			managers[e.Username] = e.ManagerUsername
		}

		existing, err := s.users.FindByUsername(ctx, e.Username)
		if apperr.IsNotFound(err) {
			u := &model.User{
				ID:          uuid.New().String(),
				EmployeeID:  e.EmployeeID,
				Username:    e.Username,
				Email:       e.Email,
				FullName:    e.FullName,
				Department:  e.Department,
				Designation: e.Designation,
				Role:        model.RoleUser,
				IsActive:    true,
				DirSynced:   true,
			}
			if err := s.users.Save(ctx, u); err != nil {
				return nil, err
			}
			res.Created++
			continue
		}
		if err != nil {
			return nil, err
		}

		existing.EmployeeID = e.EmployeeID
		existing.Email = e.Email
		existing.FullName = e.FullName
		existing.Department = e.Department
		existing.Designation = e.Designation
		existing.DirSynced = true
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, err
		}
		res.Updated++
	}

	// Manager links can only be resolved once every user row exists.
	for username, managerName := range managers {
		u, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			continue
		}
		m, err := s.users.FindByUsername(ctx, managerName)
		if err != nil {
			s.log.Debug("Manager not found during sync",
				slog.String("user", username), slog.String("manager", managerName))
			continue
		}
		if u.ManagerID != nil && *u.ManagerID == m.ID {
			continue
		}
		u.ManagerID = &m.ID
		if err := s.users.Update(ctx, u); err != nil {
			return nil, err
		}
	}

	s.log.Info("Directory sync complete",
		slog.Int("created", res.Created), slog.Int("updated", res.Updated))
	return res, nil
}
