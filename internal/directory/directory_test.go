package directory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractpro/contractpro/internal/config"
)

const mockUsers = `[
	{"username": "jdoe", "email": "jdoe@corp.example", "full_name": "Jane Doe",
	 "department": "Legal", "designation": "Counsel", "employee_id": "E100",
	 "manager_username": "mboss", "password": "secret"},
	{"username": "mboss", "email": "mboss@corp.example", "full_name": "Max Boss",
	 "department": "Legal", "designation": "Head of Legal", "employee_id": "E001"}
]`

func writeMockFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(mockUsers), 0o600))
	return path
}

func TestMockDirectoryUsers(t *testing.T) {
	dir, err := New(config.DirectoryConfig{Mode: "mock", MockFile: writeMockFile(t)})
	require.NoError(t, err)

	users, err := dir.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "jdoe", users[0].Username)
	assert.Equal(t, "mboss", users[0].ManagerUsername)
}

func TestMockDirectoryAuthenticate(t *testing.T) {
	dir, err := New(config.DirectoryConfig{Mode: "mock", MockFile: writeMockFile(t)})
	require.NoError(t, err)

	ok, err := dir.Authenticate(context.Background(), "jdoe", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.Authenticate(context.Background(), "jdoe", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMockDirectoryMissingFileIsEmpty(t *testing.T) {
	dir, err := New(config.DirectoryConfig{Mode: "mock", MockFile: "does/not/exist.json"})
	require.NoError(t, err)

	users, err := dir.Users(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUnknownModeRejected(t *testing.T) {
	_, err := New(config.DirectoryConfig{Mode: "carrier-pigeon"})
	assert.Error(t, err)
}
