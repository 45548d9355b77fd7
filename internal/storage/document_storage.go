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

type documentStorage struct {
	db *pgxpool.Pool
}

func NewDocumentStorage(pool *pgxpool.Pool) DocumentStorage {
	return &documentStorage{db: pool}
}

const documentColumns = `id, contract_id, version, file_name, object_key, file_size, uploaded_by, created_at`

func (s *documentStorage) Save(ctx context.Context, d *model.ContractDocument) error {
	d.CreatedAt = time.Now()

	query := `
		INSERT INTO contract_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.Exec(ctx, query,
		d.ID, d.ContractID, d.Version, d.FileName, d.ObjectKey, d.FileSize,
		d.UploadedBy, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract document: %w", err)
	}
	return nil
}

func (s *documentStorage) FindLatest(ctx context.Context, contractID string) (*model.ContractDocument, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM contract_documents
		WHERE contract_id = $1
		ORDER BY version DESC
		LIMIT 1
	`
	d, err := scanDocument(s.db.QueryRow(ctx, query, contractID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("document for contract %s", contractID)
	}
	if err != nil {
		return nil, fmt.Errorf("find latest document: %w", err)
	}
	return d, nil
}

func (s *documentStorage) FindByContract(ctx context.Context, contractID string) ([]model.ContractDocument, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM contract_documents
		WHERE contract_id = $1
		ORDER BY version
	`
	rows, err := s.db.Query(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("list contract documents: %w", err)
	}
	defer rows.Close()

	var docs []model.ContractDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

func scanDocument(row pgx.Row) (*model.ContractDocument, error) {
	var d model.ContractDocument
	err := row.Scan(
		&d.ID, &d.ContractID, &d.Version, &d.FileName, &d.ObjectKey,
		&d.FileSize, &d.UploadedBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
