package storage

import (
	"context"

	"github.com/contractpro/contractpro/internal/model"
)

// ContractStorage persists contracts. The scheduler only reads from it;
// contract mutation belongs to the workflow and contract services.
type ContractStorage interface {
	Ping(ctx context.Context) error
	Save(ctx context.Context, c *model.Contract) error
	Update(ctx context.Context, c *model.Contract) error
	FindByID(ctx context.Context, id string) (*model.Contract, error)
	FindAll(ctx context.Context) ([]model.Contract, error)
	// FindActive returns contracts in an active status with a handler set.
	FindActive(ctx context.Context) ([]model.Contract, error)
	FindByHandlerAndStatus(ctx context.Context, handlerID string, status model.ContractStatus) ([]model.Contract, error)
	CountByStatus(ctx context.Context) (map[model.ContractStatus]int, error)
	Count(ctx context.Context) (int, error)
}

// DocumentStorage persists contract file versions.
type DocumentStorage interface {
	Save(ctx context.Context, d *model.ContractDocument) error
	FindLatest(ctx context.Context, contractID string) (*model.ContractDocument, error)
	FindByContract(ctx context.Context, contractID string) ([]model.ContractDocument, error)
}

// ReviewStorage persists the reviewer chain of a contract.
type ReviewStorage interface {
	Save(ctx context.Context, ra *model.ReviewAssignment) error
	Update(ctx context.Context, ra *model.ReviewAssignment) error
	// FindCurrent returns the open assignment for a contract and reviewer,
	// newest assigned_at first when more than one matches.
	FindCurrent(ctx context.Context, contractID, reviewerID string) (*model.ReviewAssignment, error)
	FindByContract(ctx context.Context, contractID string) ([]model.ReviewAssignment, error)
	MaxOrder(ctx context.Context, contractID string) (int, error)
}

// UserStorage persists users.
type UserStorage interface {
	Save(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
}

// NotificationStorage is the append-only dispatch ledger. Record must fail
// with a conflict when a (contract, recipient, kind) triple already exists
// so overlapping scheduler ticks cannot double-send.
type NotificationStorage interface {
	Record(ctx context.Context, n *model.NotificationRecord) error
	SentKinds(ctx context.Context, contractID, recipientID string) (map[model.NotificationKind]bool, error)
	HasSent(ctx context.Context, contractID, recipientID string, kind model.NotificationKind) (bool, error)
	Recent(ctx context.Context, limit int) ([]model.NotificationRecord, error)
}

// AuditStorage persists the contract audit trail.
type AuditStorage interface {
	Append(ctx context.Context, e *model.AuditEntry) error
	FindByContract(ctx context.Context, contractID string) ([]model.AuditEntry, error)
}

// ArchiveStorage persists signed-copy metadata.
type ArchiveStorage interface {
	Save(ctx context.Context, d *model.ArchiveDocument) error
	FindByID(ctx context.Context, id string) (*model.ArchiveDocument, error)
	Search(ctx context.Context, query string) ([]model.ArchiveDocument, error)
}
