package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/docstore"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/storage"
)

// ArchiveUploadInput is the payload for archiving a signed copy.
type ArchiveUploadInput struct {
	ContractTitle string
	VendorName    string
	ContractValue *float64
	StartDate     *time.Time
	EndDate       *time.Time
	SigningStatus string
	FileName      string
	ContentType   string
	FileSize      int64
	File          io.Reader
}

// ArchiveService stores and retrieves signed contract copies.
type ArchiveService interface {
	Upload(ctx context.Context, in ArchiveUploadInput, uploadedBy string) (*model.ArchiveDocument, error)
	Search(ctx context.Context, query string) ([]model.ArchiveDocument, error)
	DownloadURL(ctx context.Context, id string) (string, error)
}

type archiveService struct {
	archive storage.ArchiveStorage
	docs    docstore.Store
	log     *slog.Logger
}

func NewArchiveService(archive storage.ArchiveStorage, docs docstore.Store, log *slog.Logger) ArchiveService {
	return &archiveService{archive: archive, docs: docs, log: log}
}

func (s *archiveService) Upload(ctx context.Context, in ArchiveUploadInput, uploadedBy string) (*model.ArchiveDocument, error) {
	if in.ContractTitle == "" || in.FileName == "" {
		return nil, apperr.NewValidation("contract title and file are required")
	}

	id := uuid.New().String()
	objectKey := fmt.Sprintf("archive/%s/%s", id, in.FileName)
	if err := s.docs.Put(ctx, objectKey, in.File, in.FileSize, in.ContentType); err != nil {
		return nil, fmt.Errorf("store archive file: %w", err)
	}

	d := &model.ArchiveDocument{
		ID:            id,
		ContractTitle: in.ContractTitle,
		VendorName:    in.VendorName,
		ContractValue: in.ContractValue,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		FileName:      in.FileName,
		ObjectKey:     objectKey,
		SigningStatus: in.SigningStatus,
		UploadedBy:    uploadedBy,
	}
	if err := s.archive.Save(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info("Signed copy archived", slog.String("archive_id", d.ID))
	return d, nil
}

func (s *archiveService) Search(ctx context.Context, query string) ([]model.ArchiveDocument, error) {
	return s.archive.Search(ctx, query)
}

func (s *archiveService) DownloadURL(ctx context.Context, id string) (string, error) {
	d, err := s.archive.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.docs.PresignedURL(ctx, d.ObjectKey)
}
