package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/notifier"
	"github.com/contractpro/contractpro/internal/storage"
)

// CreateVendorInput is the payload for provisioning a vendor account.
type CreateVendorInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// VendorService provisions vendor accounts and serves the vendor portal.
type VendorService interface {
	Create(ctx context.Context, in CreateVendorInput) (*model.User, error)
	// PendingContracts lists contracts currently waiting on the vendor.
	PendingContracts(ctx context.Context, vendorID string) ([]model.Contract, error)
	Profile(ctx context.Context, vendorID string) (*model.User, error)
	UpdateProfile(ctx context.Context, vendorID string, in UpdateProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, vendorID, oldPassword, newPassword string) error
}

// UpdateProfileInput carries the fields a vendor may edit on their own
// account. Empty fields are left unchanged.
type UpdateProfileInput struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

type vendorService struct {
	users     storage.UserStorage
	contracts storage.ContractStorage
	mailer    notifier.Notifier
	appURL    string
	log       *slog.Logger
}

func NewVendorService(users storage.UserStorage, contracts storage.ContractStorage, mailer notifier.Notifier, appURL string, log *slog.Logger) VendorService {
	return &vendorService{users: users, contracts: contracts, mailer: mailer, appURL: appURL, log: log}
}

func (s *vendorService) Create(ctx context.Context, in CreateVendorInput) (*model.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, apperr.NewValidation("username and password are required")
	}
	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, apperr.NewConflict("username %s already taken", in.Username)
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         model.RoleVendor,
		IsActive:     true,
		PasswordHash: string(hash),
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	if u.Email != "" {
		subject, body := notifier.VendorInviteEmail(s.appURL, u)
		if err := s.mailer.Send(ctx, u.Email, subject, body, nil); err != nil {
			s.log.Warn("Vendor invite email failed", slog.Any("error", err))
		}
	}

	s.log.Info("Vendor account created", slog.String("username", u.Username))
	return u, nil
}

func (s *vendorService) PendingContracts(ctx context.Context, vendorID string) ([]model.Contract, error) {
	return s.contracts.FindByHandlerAndStatus(ctx, vendorID, model.StatusVendorFeedback)
}

func (s *vendorService) Profile(ctx context.Context, vendorID string) (*model.User, error) {
	return s.users.FindByID(ctx, vendorID)
}

func (s *vendorService) UpdateProfile(ctx context.Context, vendorID string, in UpdateProfileInput) (*model.User, error) {
	u, err := s.users.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *vendorService) ChangePassword(ctx context.Context, vendorID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.NewValidation("password must be at least 8 characters")
	}
	u, err := s.users.FindByID(ctx, vendorID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return apperr.NewValidation("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.users.Update(ctx, u)
}
