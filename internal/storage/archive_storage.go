package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
)

type archiveStorage struct {
	db *sqlx.DB
}

func NewArchiveStorage(db *sqlx.DB) ArchiveStorage {
	return &archiveStorage{db: db}
}

func (s *archiveStorage) Save(ctx context.Context, d *model.ArchiveDocument) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = time.Now()

	query := `
		INSERT INTO archive_documents
			(id, contract_title, vendor_name, contract_value, start_date, end_date,
			 file_name, object_key, signing_status, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.ContractTitle, d.VendorName, d.ContractValue, d.StartDate,
		d.EndDate, d.FileName, d.ObjectKey, d.SigningStatus, d.UploadedBy, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert archive document: %w", err)
	}
	return nil
}

func (s *archiveStorage) FindByID(ctx context.Context, id string) (*model.ArchiveDocument, error) {
	var d model.ArchiveDocument
	query := `SELECT * FROM archive_documents WHERE id = $1`
	if err := s.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NewNotFound("archive document %s", id)
		}
		return nil, fmt.Errorf("find archive document: %w", err)
	}
	return &d, nil
}

func (s *archiveStorage) Search(ctx context.Context, query string) ([]model.ArchiveDocument, error) {
	var docs []model.ArchiveDocument
	if query == "" {
		q := `SELECT * FROM archive_documents ORDER BY created_at DESC`
		if err := s.db.SelectContext(ctx, &docs, q); err != nil {
			return nil, fmt.Errorf("list archive documents: %w", err)
		}
		return docs, nil
	}

	q := `
		SELECT * FROM archive_documents
		WHERE contract_title ILIKE $1 OR vendor_name ILIKE $1 OR file_name ILIKE $1
		ORDER BY created_at DESC
	`
	if err := s.db.SelectContext(ctx, &docs, q, "%"+query+"%"); err != nil {
		return nil, fmt.Errorf("search archive documents: %w", err)
	}
	return docs, nil
}
