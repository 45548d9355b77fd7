// Package directory resolves employees from the corporate directory. Mock
// mode reads a JSON file for development; live mode talks to LDAP.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/contractpro/contractpro/internal/config"
)

// Entry is one directory user.
type Entry struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Department      string `json:"department"`
	Designation     string `json:"designation"`
	EmployeeID      string `json:"employee_id"`
	ManagerUsername string `json:"manager_username,omitempty"`
	Password        string `json:"password,omitempty"` // mock mode only
}

// Directory lists users and verifies credentials.
type Directory interface {
	Users(ctx context.Context) ([]Entry, error)
	Authenticate(ctx context.Context, username, password string) (bool, error)
}

// New returns the directory implementation selected by configuration.
func New(cfg config.DirectoryConfig) (Directory, error) {
	switch cfg.Mode {
	case "mock":
		return &mockDirectory{file: cfg.MockFile}, nil
	case "live":
		return &ldapDirectory{cfg: cfg}, nil
	}
	return nil, fmt.Errorf("unknown directory mode %q", cfg.Mode)
}

type mockDirectory struct {
	file string
}

func (d *mockDirectory) load() ([]Entry, error) {
	data, err := os.ReadFile(d.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read mock directory: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse mock directory: %w", err)
	}
	return entries, nil
}

func (d *mockDirectory) Users(_ context.Context) ([]Entry, error) {
	return d.load()
}

func (d *mockDirectory) Authenticate(_ context.Context, username, password string) (bool, error) {
	entries, err := d.load()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Username == username && e.Password == password {
			return true, nil
		}
	}
	return false, nil
}
