package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
)

func newLedgerWithMock(t *testing.T) (NotificationStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLedgerStorage(sqlx.NewDb(db, "postgres")), mock
}

func TestLedgerRecord(t *testing.T) {
	store, mock := newLedgerWithMock(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(sqlmock.AnyArg(), "c-1", "u-1", "reminder_1", true, sqlmock.AnyArg(), "Reminder #1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	now := time.Now()
	err := store.Record(ctx, &model.NotificationRecord{
		ContractID:  "c-1",
		RecipientID: "u-1",
		Kind:        model.KindReminder1,
		Sent:        true,
		SentAt:      &now,
		Message:     "Reminder #1",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRecordDuplicateIsConflict(t *testing.T) {
	store, mock := newLedgerWithMock(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := store.Record(ctx, &model.NotificationRecord{
		ContractID:  "c-1",
		RecipientID: "u-1",
		Kind:        model.KindReminder1,
		Sent:        true,
	})
	assert.True(t, apperr.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerSentKinds(t *testing.T) {
	store, mock := newLedgerWithMock(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"kind"}).
		AddRow("reminder_1").
		AddRow("reminder_2")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT kind FROM notifications")).
		WithArgs("c-1", "u-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	sent, err := store.SentKinds(ctx, "c-1", "u-1")
	require.NoError(t, err)
	assert.True(t, sent[model.KindReminder1])
	assert.True(t, sent[model.KindReminder2])
	assert.False(t, sent[model.KindEscalation])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerHasSent(t *testing.T) {
	store, mock := newLedgerWithMock(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("c-1", "u-1", "escalation").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	sent, err := store.HasSent(ctx, "c-1", "u-1", model.KindEscalation)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
