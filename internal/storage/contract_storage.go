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

type contractStorage struct {
	db *pgxpool.Pool
}

func NewContractStorage(pool *pgxpool.Pool) ContractStorage {
	return &contractStorage{db: pool}
}

const contractColumns = `id, title, contract_number, category, status, vendor_name,
	contract_value, sla_days, sla_deadline, current_handler_id, uploader_id,
	current_version, created_at, updated_at`

func scanContract(row pgx.Row) (*model.Contract, error) {
	var c model.Contract
	var vendorName *string
	err := row.Scan(
		&c.ID, &c.Title, &c.ContractNumber, &c.Category, &c.Status, &vendorName,
		&c.ContractValue, &c.SLADays, &c.SLADeadline, &c.CurrentHandlerID,
		&c.UploaderID, &c.CurrentVersion, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vendorName != nil {
		c.VendorName = *vendorName
	}
	return &c, nil
}

func (s *contractStorage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *contractStorage) Save(ctx context.Context, c *model.Contract) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO contracts (` + contractColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.Exec(ctx, query,
		c.ID, c.Title, c.ContractNumber, c.Category, c.Status, nullable(c.VendorName),
		c.ContractValue, c.SLADays, c.SLADeadline, c.CurrentHandlerID,
		c.UploaderID, c.CurrentVersion, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (s *contractStorage) Update(ctx context.Context, c *model.Contract) error {
	c.UpdatedAt = time.Now()

	query := `
		UPDATE contracts
		SET title = $2, status = $3, vendor_name = $4, contract_value = $5,
		    sla_days = $6, sla_deadline = $7, current_handler_id = $8,
		    current_version = $9, updated_at = $10
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, query,
		c.ID, c.Title, c.Status, nullable(c.VendorName), c.ContractValue,
		c.SLADays, c.SLADeadline, c.CurrentHandlerID, c.CurrentVersion, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("contract %s", c.ID)
	}
	return nil
}

func (s *contractStorage) FindByID(ctx context.Context, id string) (*model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`

	c, err := scanContract(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("contract %s", id)
		}
		return nil, fmt.Errorf("find contract by id: %w", err)
	}
	return c, nil
}

func (s *contractStorage) FindAll(ctx context.Context) ([]model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts ORDER BY created_at DESC`
	return s.queryContracts(ctx, query)
}

func (s *contractStorage) FindActive(ctx context.Context) ([]model.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE status = ANY($1) AND current_handler_id IS NOT NULL
	`
	return s.queryContracts(ctx, query, statusStrings(model.ActiveStatuses))
}

func (s *contractStorage) FindByHandlerAndStatus(ctx context.Context, handlerID string, status model.ContractStatus) ([]model.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE current_handler_id = $1 AND status = $2
	`
	return s.queryContracts(ctx, query, handlerID, status)
}

func (s *contractStorage) queryContracts(ctx context.Context, query string, args ...any) ([]model.Contract, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []model.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("contract rows: %w", err)
	}
	return contracts, nil
}

func (s *contractStorage) CountByStatus(ctx context.Context) (map[model.ContractStatus]int, error) {
	rows, err := s.db.Query(ctx, `SELECT status, COUNT(*) FROM contracts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ContractStatus]int)
	for rows.Next() {
		var status model.ContractStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (s *contractStorage) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM contracts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contracts: %w", err)
	}
	return n, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func statusStrings(statuses []model.ContractStatus) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}
