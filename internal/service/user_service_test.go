package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/directory"
	"github.com/contractpro/contractpro/internal/model"
)

type listDirectory struct {
	entries []directory.Entry
}

func (d *listDirectory) Users(ctx context.Context) ([]directory.Entry, error) {
	return d.entries, nil
}

func (d *listDirectory) Authenticate(ctx context.Context, username, password string) (bool, error) {
	return false, nil
}

type memUsers struct {
	byUsername map[string]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{byUsername: make(map[string]*model.User)}
}

func (m *memUsers) Save(ctx context.Context, u *model.User) error {
	m.byUsername[u.Username] = u
	return nil
}

func (m *memUsers) Update(ctx context.Context, u *model.User) error {
	m.byUsername[u.Username] = u
	return nil
}

func (m *memUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range m.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NewNotFound("user %s", id)
}

func (m *memUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if u, ok := m.byUsername[username]; ok {
		return u, nil
	}
	return nil, apperr.NewNotFound("user %s", username)
}

func (m *memUsers) FindAll(ctx context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range m.byUsername {
		out = append(out, *u)
	}
	return out, nil
}

func TestSyncCreatesAndLinksManager(t *testing.T) {
	dir := &listDirectory{entries: []directory.Entry{
		{Username: "boss", Email: "boss@corp.example", FullName: "Big Boss"},
		{Username: "jdoe", Email: "jdoe@corp.example", FullName: "Jane Doe", ManagerUsername: "boss"},
	}}
	users := newMemUsers()

	svc := NewUserService(users, dir, slog.Default())
	res, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 2, res.Total)

	boss := users.byUsername["boss"]
	jdoe := users.byUsername["jdoe"]
	require.NotNil(t, boss)
	require.NotNil(t, jdoe)
	assert.True(t, jdoe.DirSynced)
	assert.Equal(t, model.RoleUser, jdoe.Role)
	require.NotNil(t, jdoe.ManagerID)
	assert.Equal(t, boss.ID, *jdoe.ManagerID)
	assert.Nil(t, boss.ManagerID)
}

func TestSyncUpdatesExisting(t *testing.T) {
	dir := &listDirectory{entries: []directory.Entry{
		{Username: "jdoe", Email: "new@corp.example", FullName: "Jane Doe", Department: "Legal"},
	}}
	users := newMemUsers()
	users.byUsername["jdoe"] = &model.User{ID: "u-1", Username: "jdoe", Email: "old@corp.example", Role: model.RoleUser}

	svc := NewUserService(users, dir, slog.Default())
	res, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)

	jdoe := users.byUsername["jdoe"]
	assert.Equal(t, "u-1", jdoe.ID)
	assert.Equal(t, "new@corp.example", jdoe.Email)
	assert.Equal(t, "Legal", jdoe.Department)
	assert.True(t, jdoe.DirSynced)
}

func TestSyncUnknownManagerIgnored(t *testing.T) {
	dir := &listDirectory{entries: []directory.Entry{
		{Username: "jdoe", Email: "jdoe@corp.example", ManagerUsername: "left-the-company"},
	}}
	users := newMemUsers()

	svc := NewUserService(users, dir, slog.Default())
	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Nil(t, users.byUsername["jdoe"].ManagerID)
}
