package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
)

// uniqueViolation is the Postgres error code raised by the
// (contract_id, recipient_id, kind) unique index on notifications.
const uniqueViolation = "23505"

type ledgerStorage struct {
	db *sqlx.DB
}

func NewLedgerStorage(db *sqlx.DB) NotificationStorage {
	return &ledgerStorage{db: db}
}

// Record appends a dispatch receipt. A duplicate (contract, recipient, kind)
// triple surfaces as apperr.ErrConflict; the caller treats that as
// already-sent rather than a failure.
func (s *ledgerStorage) Record(ctx context.Context, n *model.NotificationRecord) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()

	query := `
		INSERT INTO notifications
			(id, contract_id, recipient_id, kind, sent, sent_at, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.ContractID, n.RecipientID, n.Kind, n.Sent, n.SentAt, n.Message, n.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return apperr.NewConflict("notification %s/%s/%s already recorded",
				n.ContractID, n.RecipientID, n.Kind)
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// SentKinds returns the reminder/escalation kinds already recorded for a
// contract and recipient. Queried fresh each scheduler pass.
func (s *ledgerStorage) SentKinds(ctx context.Context, contractID, recipientID string) (map[model.NotificationKind]bool, error) {
	query := `
		SELECT kind FROM notifications
		WHERE contract_id = $1 AND recipient_id = $2 AND kind = ANY($3)
	`
	rows, err := s.db.QueryContext(ctx, query, contractID, recipientID, pq.Array(kindStrings(model.ReminderKinds)))
	if err != nil {
		return nil, fmt.Errorf("query sent kinds: %w", err)
	}
	defer rows.Close()

	sent := make(map[model.NotificationKind]bool)
	for rows.Next() {
		var kind model.NotificationKind
		if err := rows.Scan(&kind); err != nil {
			return nil, fmt.Errorf("scan kind: %w", err)
		}
		sent[kind] = true
	}
	return sent, rows.Err()
}

func (s *ledgerStorage) HasSent(ctx context.Context, contractID, recipientID string, kind model.NotificationKind) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE contract_id = $1 AND recipient_id = $2 AND kind = $3
		)
	`
	if err := s.db.QueryRowContext(ctx, query, contractID, recipientID, kind).Scan(&exists); err != nil {
		return false, fmt.Errorf("query has sent: %w", err)
	}
	return exists, nil
}

func (s *ledgerStorage) Recent(ctx context.Context, limit int) ([]model.NotificationRecord, error) {
	var records []model.NotificationRecord
	query := `
		SELECT id, contract_id, recipient_id, kind, sent, sent_at, message, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("query recent notifications: %w", err)
	}
	return records, nil
}

func kindStrings(kinds []model.NotificationKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
