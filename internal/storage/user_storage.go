package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
)

type userStorage struct {
	db *pgxpool.Pool
}

func NewUserStorage(pool *pgxpool.Pool) UserStorage {
	return &userStorage{db: pool}
}

const userColumns = `id, employee_id, username, email, full_name, department,
	designation, manager_id, role, is_active, password_hash, dir_synced,
	last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var employeeID, department, designation, passwordHash *string
	err := row.Scan(
		&u.ID, &employeeID, &u.Username, &u.Email, &u.FullName, &department,
		&designation, &u.ManagerID, &u.Role, &u.IsActive, &passwordHash,
		&u.DirSynced, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if employeeID != nil {
		u.EmployeeID = *employeeID
	}
	if department != nil {
		u.Department = *department
	}
	if designation != nil {
		u.Designation = *designation
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	return &u, nil
}

func (s *userStorage) Save(ctx context.Context, u *model.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.Exec(ctx, query,
		u.ID, nullable(u.EmployeeID), u.Username, u.Email, u.FullName,
		nullable(u.Department), nullable(u.Designation), u.ManagerID, u.Role,
		u.IsActive, nullable(u.PasswordHash), u.DirSynced, u.LastLogin,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *userStorage) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET email = $2, full_name = $3, department = $4, designation = $5,
		    manager_id = $6, role = $7, is_active = $8, password_hash = $9,
		    last_login = $10, updated_at = $11
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, query,
		u.ID, u.Email, u.FullName, nullable(u.Department), nullable(u.Designation),
		u.ManagerID, u.Role, u.IsActive, nullable(u.PasswordHash),
		u.LastLogin, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("user %s", u.ID)
	}
	return nil
}

func (s *userStorage) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("user %s", id)
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (s *userStorage) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("user %s", username)
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

func (s *userStorage) FindAll(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
