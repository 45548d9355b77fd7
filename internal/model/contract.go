package model

import (
	"fmt"
	"time"
)

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	StatusDraft          ContractStatus = "draft"
	StatusInReview       ContractStatus = "in_review"
	StatusVendorFeedback ContractStatus = "vendor_feedback"
	StatusApproved       ContractStatus = "approved"
	StatusSigned         ContractStatus = "signed"
)

// ActiveStatuses are the states in which a contract has a current handler
// and is watched by the SLA scheduler.
var ActiveStatuses = []ContractStatus{StatusDraft, StatusInReview, StatusVendorFeedback}

// ParseContractStatus validates external input against the closed status set.
func ParseContractStatus(s string) (ContractStatus, error) {
	switch ContractStatus(s) {
	case StatusDraft, StatusInReview, StatusVendorFeedback, StatusApproved, StatusSigned:
		return ContractStatus(s), nil
	}
	return "", fmt.Errorf("invalid contract status %q", s)
}

type Contract struct {
	ID               string         `json:"id" db:"id"`
	Title            string         `json:"title" db:"title"`
	ContractNumber   string         `json:"contract_number" db:"contract_number"`
	Category         string         `json:"category" db:"category"`
	Status           ContractStatus `json:"status" db:"status"`
	VendorName       string         `json:"vendor_name,omitempty" db:"vendor_name"`
	ContractValue    *float64       `json:"contract_value,omitempty" db:"contract_value"`
	SLADays          int            `json:"sla_days" db:"sla_days"`
	SLADeadline      *time.Time     `json:"sla_deadline,omitempty" db:"sla_deadline"`
	CurrentHandlerID *string        `json:"current_handler_id,omitempty" db:"current_handler_id"`
	UploaderID       string         `json:"uploader_id" db:"uploader_id"`
	CurrentVersion   int            `json:"current_version" db:"current_version"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// ContractDocument is one uploaded file version of a contract.
type ContractDocument struct {
	ID         string    `json:"id" db:"id"`
	ContractID string    `json:"contract_id" db:"contract_id"`
	Version    int       `json:"version" db:"version"`
	FileName   string    `json:"file_name" db:"file_name"`
	ObjectKey  string    `json:"object_key" db:"object_key"`
	FileSize   int64     `json:"file_size" db:"file_size"`
	UploadedBy string    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Active reports whether the contract is in a handler-owned state.
func (c *Contract) Active() bool {
	switch c.Status {
	case StatusDraft, StatusInReview, StatusVendorFeedback:
		return c.CurrentHandlerID != nil
	}
	return false
}
