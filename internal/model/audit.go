package model

import "time"

// AuditEntry is one row of the contract audit trail.
type AuditEntry struct {
	ID         int64     `json:"id" db:"id"`
	ContractID string    `json:"contract_id" db:"contract_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Action     string    `json:"action" db:"action"`
	Details    string    `json:"details,omitempty" db:"details"`
	IPAddress  string    `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ContractEvent is the message published to Kafka on lifecycle changes and
// consumed into the in-app notification feed.
type ContractEvent struct {
	ContractID string    `json:"contract_id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ArchiveDocument is a signed copy stored in the archive repository.
type ArchiveDocument struct {
	ID            string     `json:"id" db:"id"`
	ContractTitle string     `json:"contract_title" db:"contract_title"`
	VendorName    string     `json:"vendor_name,omitempty" db:"vendor_name"`
	ContractValue *float64   `json:"contract_value,omitempty" db:"contract_value"`
	StartDate     *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty" db:"end_date"`
	FileName      string     `json:"file_name" db:"file_name"`
	ObjectKey     string     `json:"object_key" db:"object_key"`
	SigningStatus string     `json:"signing_status,omitempty" db:"signing_status"`
	UploadedBy    string     `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
