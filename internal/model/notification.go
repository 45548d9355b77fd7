package model

import "time"

// NotificationKind is the closed set of dispatch kinds. The reminder and
// escalation kinds are the ones the scheduler deduplicates on.
type NotificationKind string

const (
	KindAssignment   NotificationKind = "assignment"
	KindReminder1    NotificationKind = "reminder_1"
	KindReminder2    NotificationKind = "reminder_2"
	KindEscalation   NotificationKind = "escalation"
	KindApproval     NotificationKind = "approval"
	KindVendorInvite NotificationKind = "vendor_invite"
)

// ReminderKinds are the kinds covered by the at-most-once ledger guarantee.
var ReminderKinds = []NotificationKind{KindReminder1, KindReminder2, KindEscalation}

// NotificationRecord is an append-only dispatch receipt. Sent means the
// dispatch was attempted, not that delivery was confirmed.
type NotificationRecord struct {
	ID          string           `json:"id" db:"id"`
	ContractID  string           `json:"contract_id" db:"contract_id"`
	RecipientID string           `json:"recipient_id" db:"recipient_id"`
	Kind        NotificationKind `json:"kind" db:"kind"`
	Sent        bool             `json:"sent" db:"sent"`
	SentAt      *time.Time       `json:"sent_at,omitempty" db:"sent_at"`
	Message     string           `json:"message,omitempty" db:"message"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
