package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/contractpro/contractpro/internal/model"
)

type auditStorage struct {
	db *sqlx.DB
}

func NewAuditStorage(db *sqlx.DB) AuditStorage {
	return &auditStorage{db: db}
}

func (s *auditStorage) Append(ctx context.Context, e *model.AuditEntry) error {
	e.CreatedAt = time.Now()

	query := `
		INSERT INTO audit_log (contract_id, user_id, action, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	row := s.db.QueryRowContext(ctx, query,
		e.ContractID, e.UserID, e.Action, e.Details, e.IPAddress, e.CreatedAt,
	)
	if err := row.Scan(&e.ID); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *auditStorage) FindByContract(ctx context.Context, contractID string) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	query := `
		SELECT id, contract_id, user_id, action, details, ip_address, created_at
		FROM audit_log
		WHERE contract_id = $1
		ORDER BY created_at DESC
	`
	if err := s.db.SelectContext(ctx, &entries, query, contractID); err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	return entries, nil
}
