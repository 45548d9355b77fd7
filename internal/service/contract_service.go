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
	"github.com/contractpro/contractpro/internal/workflow"
)

// UploadInput is the payload of a new contract upload.
type UploadInput struct {
	Title         string
	Category      string
	VendorName    string
	ContractValue *float64
	SLADays       int
	ReviewerID    string
	FileName      string
	ContentType   string
	FileSize      int64
	File          io.Reader
}

// DashboardStats is the status breakdown shown on the dashboard.
type DashboardStats struct {
	Total    int                          `json:"total"`
	ByStatus map[model.ContractStatus]int `json:"by_status"`
}

// ContractService covers contract intake, lookup, and direct status edits.
type ContractService interface {
	Upload(ctx context.Context, in UploadInput, uploaderID string) (*model.Contract, error)
	Get(ctx context.Context, id string) (*model.Contract, error)
	List(ctx context.Context) ([]model.Contract, error)
	Activities(ctx context.Context, contractID string) ([]model.AuditEntry, error)
	// SetStatus is the admin override for stuck contracts.
	SetStatus(ctx context.Context, contractID, userID string, status model.ContractStatus) error
	DownloadURL(ctx context.Context, contractID string) (string, error)
	Stats(ctx context.Context) (*DashboardStats, error)
}

type contractService struct {
	contracts storage.ContractStorage
	documents storage.DocumentStorage
	audit     storage.AuditStorage
	docs      docstore.Store
	flow      *workflow.Service
	events    workflow.EventPublisher
	now       func() time.Time
	log       *slog.Logger
}

func NewContractService(
	contracts storage.ContractStorage,
	documents storage.DocumentStorage,
	audit storage.AuditStorage,
	docs docstore.Store,
	flow *workflow.Service,
	events workflow.EventPublisher,
	log *slog.Logger,
) ContractService {
	return &contractService{
		contracts: contracts,
		documents: documents,
		audit:     audit,
		docs:      docs,
		flow:      flow,
		events:    events,
		now:       time.Now,
		log:       log,
	}
}

func (s *contractService) Upload(ctx context.Context, in UploadInput, uploaderID string) (*model.Contract, error) {
	if in.Title == "" || in.FileName == "" {
		return nil, apperr.NewValidation("title and file are required")
	}
	if in.SLADays <= 0 {
		in.SLADays = 30
	}

	count, err := s.contracts.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	deadline := now.AddDate(0, 0, in.SLADays)
	c := &model.Contract{
		ID:             uuid.New().String(),
		Title:          in.Title,
		ContractNumber: fmt.Sprintf("CTR-%d-%04d", now.Year(), count+1),
		Category:       in.Category,
		Status:         model.StatusInReview,
		VendorName:     in.VendorName,
		ContractValue:  in.ContractValue,
		SLADays:        in.SLADays,
		SLADeadline:    &deadline,
		UploaderID:     uploaderID,
		CurrentVersion: 1,
	}
	if in.ReviewerID != "" {
		c.CurrentHandlerID = &in.ReviewerID
	} else {
		c.Status = model.StatusDraft
		c.CurrentHandlerID = &uploaderID
	}
	if err := s.contracts.Save(ctx, c); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("contracts/%s/v1_%s", c.ID, in.FileName)
	if err := s.docs.Put(ctx, objectKey, in.File, in.FileSize, in.ContentType); err != nil {
		return nil, fmt.Errorf("store contract file: %w", err)
	}
	doc := &model.ContractDocument{
		ID:         uuid.New().String(),
		ContractID: c.ID,
		Version:    1,
		FileName:   in.FileName,
		ObjectKey:  objectKey,
		FileSize:   in.FileSize,
		UploadedBy: uploaderID,
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	if in.ReviewerID != "" {
		if err := s.flow.AssignFirstReviewer(ctx, c, in.ReviewerID); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, c.ID, uploaderID, "uploaded", fmt.Sprintf("Contract %s uploaded", c.ContractNumber))
	s.log.Info("Contract uploaded",
		slog.String("contract_id", c.ID), slog.String("number", c.ContractNumber))
	return c, nil
}

func (s *contractService) Get(ctx context.Context, id string) (*model.Contract, error) {
	return s.contracts.FindByID(ctx, id)
}

func (s *contractService) List(ctx context.Context) ([]model.Contract, error) {
	return s.contracts.FindAll(ctx)
}

func (s *contractService) Activities(ctx context.Context, contractID string) ([]model.AuditEntry, error) {
	if _, err := s.contracts.FindByID(ctx, contractID); err != nil {
		return nil, err
	}
	return s.audit.FindByContract(ctx, contractID)
}

func (s *contractService) SetStatus(ctx context.Context, contractID, userID string, status model.ContractStatus) error {
	c, err := s.contracts.FindByID(ctx, contractID)
	if err != nil {
		return err
	}
	old := c.Status
	c.Status = status
	if status == model.StatusApproved || status == model.StatusSigned {
		c.CurrentHandlerID = nil
	}
	if err := s.contracts.Update(ctx, c); err != nil {
		return err
	}
	s.publish(ctx, c.ID, userID, "status_changed",
		fmt.Sprintf("Status changed from %s to %s", old, status))
	return nil
}

func (s *contractService) DownloadURL(ctx context.Context, contractID string) (string, error) {
	doc, err := s.documents.FindLatest(ctx, contractID)
	if err != nil {
		return "", err
	}
	return s.docs.PresignedURL(ctx, doc.ObjectKey)
}

func (s *contractService) Stats(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.contracts.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byStatus {
		total += n
	}
	return &DashboardStats{Total: total, ByStatus: byStatus}, nil
}

func (s *contractService) publish(ctx context.Context, contractID, userID, action, details string) {
	ev := model.ContractEvent{
		ContractID: contractID,
		UserID:     userID,
		Action:     action,
		Details:    details,
		Timestamp:  s.now(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("Failed to publish contract event", slog.Any("error", err))
	}
}
