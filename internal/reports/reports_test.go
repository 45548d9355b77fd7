package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/storage"
)

type fakeContracts struct {
	storage.ContractStorage
	contracts []model.Contract
}

func (f *fakeContracts) FindAll(ctx context.Context) ([]model.Contract, error) {
	return f.contracts, nil
}

func (f *fakeContracts) CountByStatus(ctx context.Context) (map[model.ContractStatus]int, error) {
	out := make(map[model.ContractStatus]int)
	for _, c := range f.contracts {
		out[c.Status]++
	}
	return out, nil
}

type fakeUsers struct {
	storage.UserStorage
	users map[string]*model.User
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NewNotFound("user %s", id)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func testData() (*fakeContracts, *fakeUsers) {
	handler := "u-handler"
	contracts := &fakeContracts{contracts: []model.Contract{
		{
			ID: "c-1", Title: "Hosting agreement", ContractNumber: "CTR-2026-0001",
			Status: model.StatusInReview, CurrentHandlerID: &handler,
			SLADays: 30, CreatedAt: date(2026, time.March, 2),
		},
		{
			ID: "c-2", Title: "Cleaning services", ContractNumber: "CTR-2026-0002",
			Status: model.StatusApproved, SLADays: 14, CreatedAt: date(2026, time.April, 20),
		},
	}}
	users := &fakeUsers{users: map[string]*model.User{
		"u-handler": {ID: "u-handler", FullName: "Jane Doe"},
	}}
	return contracts, users
}

func TestRegisterExport(t *testing.T) {
	contracts, users := testData()
	svc := NewService(contracts, users)

	f, err := svc.Register(context.Background(), Filter{})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Contract Number", rows[0][0])
	assert.Equal(t, "CTR-2026-0001", rows[1][0])
	assert.Equal(t, "Jane Doe", rows[1][8])
	assert.Equal(t, "CTR-2026-0002", rows[2][0])
}

func TestRegisterStatusFilter(t *testing.T) {
	contracts, users := testData()
	svc := NewService(contracts, users)

	status := model.StatusApproved
	f, err := svc.Register(context.Background(), Filter{Status: &status})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CTR-2026-0002", rows[1][0])
}

func TestRegisterDateFilter(t *testing.T) {
	contracts, users := testData()
	svc := NewService(contracts, users)

	from := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC)
	f, err := svc.Register(context.Background(), Filter{From: &from, To: &to})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CTR-2026-0002", rows[1][0])
}

func TestSummary(t *testing.T) {
	contracts, users := testData()
	svc := NewService(contracts, users)

	f, err := svc.Summary(context.Background())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	// header + five statuses + total
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"Total", "2"}, rows[6][:2])
}