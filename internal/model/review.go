package model

import (
	"fmt"
	"time"
)

// ReviewStatus is the state of a single review assignment.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "pending"
	ReviewInProgress ReviewStatus = "in_progress"
	ReviewCompleted  ReviewStatus = "completed"
)

// OpenReviewStatuses match the "current" assignment of a contract.
var OpenReviewStatuses = []ReviewStatus{ReviewPending, ReviewInProgress}

// ReviewAction is the decision a reviewer records when completing a review.
type ReviewAction string

const (
	ActionApprove        ReviewAction = "approve"
	ActionSendToNext     ReviewAction = "send_to_next"
	ActionVendorFeedback ReviewAction = "vendor_feedback"
)

// ParseReviewAction validates external input against the closed action set.
func ParseReviewAction(s string) (ReviewAction, error) {
	switch ReviewAction(s) {
	case ActionApprove, ActionSendToNext, ActionVendorFeedback:
		return ReviewAction(s), nil
	}
	return "", fmt.Errorf("invalid review action %q", s)
}

// ReviewAssignment is one step in a contract's reviewer chain. Rows are
// never deleted; completed assignments form the audit trail of the chain.
type ReviewAssignment struct {
	ID          string        `json:"id" db:"id"`
	ContractID  string        `json:"contract_id" db:"contract_id"`
	ReviewerID  string        `json:"reviewer_id" db:"reviewer_id"`
	ReviewOrder int           `json:"review_order" db:"review_order"`
	Status      ReviewStatus  `json:"status" db:"status"`
	ActionTaken *ReviewAction `json:"action_taken,omitempty" db:"action_taken"`
	Comments    string        `json:"comments,omitempty" db:"comments"`
	AssignedAt  *time.Time    `json:"assigned_at,omitempty" db:"assigned_at"`
	StartedAt   *time.Time    `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
