// Package workflow implements the sequential review chain of a contract:
// draft -> in_review -> {approved | vendor_feedback}, with vendor_feedback
// returning to in_review when the vendor resubmits.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/notifier"
	"github.com/contractpro/contractpro/internal/storage"
)

// EventPublisher pushes contract lifecycle events to the event stream.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.ContractEvent) error
}

type Service struct {
	contracts storage.ContractStorage
	reviews   storage.ReviewStorage
	users     storage.UserStorage
	ledger    storage.NotificationStorage
	mailer    notifier.Notifier
	events    EventPublisher
	appURL    string
	now       func() time.Time
	log       *slog.Logger
}

func NewService(
	contracts storage.ContractStorage,
	reviews storage.ReviewStorage,
	users storage.UserStorage,
	ledger storage.NotificationStorage,
	mailer notifier.Notifier,
	events EventPublisher,
	appURL string,
	log *slog.Logger,
) *Service {
	return &Service{
		contracts: contracts,
		reviews:   reviews,
		users:     users,
		ledger:    ledger,
		mailer:    mailer,
		events:    events,
		appURL:    appURL,
		now:       time.Now,
		log:       log,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AssignFirstReviewer creates the opening review assignment for a freshly
// uploaded contract and notifies the reviewer.
func (s *Service) AssignFirstReviewer(ctx context.Context, c *model.Contract, reviewerID string) error {
	now := s.now()
	ra := &model.ReviewAssignment{
		ID:          uuid.New().String(),
		ContractID:  c.ID,
		ReviewerID:  reviewerID,
		ReviewOrder: 1,
		Status:      model.ReviewPending,
		AssignedAt:  &now,
	}
	if err := s.reviews.Save(ctx, ra); err != nil {
		return err
	}
	s.notifyAssignment(ctx, c, reviewerID)
	return nil
}

// SubmitReview applies a reviewer decision to the contract.
//
// vendor_feedback intentionally leaves current_handler untouched: routing to
// the vendor is expected to have happened through a prior send_to_next.
func (s *Service) SubmitReview(ctx context.Context, contractID, reviewerID string, action model.ReviewAction, nextReviewerID, comments string) error {
	c, err := s.contracts.FindByID(ctx, contractID)
	if err != nil {
		return err
	}

	if err := s.completeCurrent(ctx, contractID, reviewerID, action, comments); err != nil && !apperr.IsNotFound(err) {
		return err
	}

	switch action {
	case model.ActionApprove:
		c.Status = model.StatusApproved
		c.CurrentHandlerID = nil
		if err := s.contracts.Update(ctx, c); err != nil {
			return err
		}
		s.logEvent(ctx, contractID, reviewerID, "approved", orDefault(comments, "Contract approved"))
		s.notifyApproval(ctx, c)

	case model.ActionSendToNext:
		if nextReviewerID == "" {
			return apperr.NewValidation("next reviewer is required")
		}
		maxOrder, err := s.reviews.MaxOrder(ctx, contractID)
		if err != nil {
			return err
		}
		now := s.now()
		next := &model.ReviewAssignment{
			ID:          uuid.New().String(),
			ContractID:  contractID,
			ReviewerID:  nextReviewerID,
			ReviewOrder: maxOrder + 1,
			Status:      model.ReviewPending,
			AssignedAt:  &now,
		}
		if err := s.reviews.Save(ctx, next); err != nil {
			return err
		}
		c.Status = model.StatusInReview
		c.CurrentHandlerID = &nextReviewerID
		if err := s.contracts.Update(ctx, c); err != nil {
			return err
		}
		s.logEvent(ctx, contractID, reviewerID, "sent_to_next", "Sent to next reviewer. Comments: "+comments)
		s.notifyAssignment(ctx, c, nextReviewerID)

	case model.ActionVendorFeedback:
		c.Status = model.StatusVendorFeedback
		if err := s.contracts.Update(ctx, c); err != nil {
			return err
		}
		s.logEvent(ctx, contractID, reviewerID, "vendor_feedback", orDefault(comments, "Sent to vendor"))

	default:
		return apperr.NewValidation("unknown review action %q", action)
	}
	return nil
}

// VendorResubmit returns a vendor_feedback contract to the review chain,
// handing it back to the uploader.
func (s *Service) VendorResubmit(ctx context.Context, contractID, vendorID, comments string) error {
	c, err := s.contracts.FindByID(ctx, contractID)
	if err != nil {
		return err
	}
	if c.CurrentHandlerID == nil || *c.CurrentHandlerID != vendorID {
		return apperr.NewValidation("contract %s is not assigned to vendor %s", contractID, vendorID)
	}
	if c.Status != model.StatusVendorFeedback {
		return apperr.NewValidation("contract %s is not awaiting vendor feedback", contractID)
	}

	c.Status = model.StatusInReview
	c.CurrentHandlerID = &c.UploaderID
	if err := s.contracts.Update(ctx, c); err != nil {
		return err
	}
	s.logEvent(ctx, contractID, vendorID, "vendor_feedback_submitted", comments)

	if uploader, err := s.users.FindByID(ctx, c.UploaderID); err == nil {
		subject, body := notifier.VendorResponseEmail(c)
		if err := s.mailer.Send(ctx, uploader.Email, subject, body, nil); err != nil {
			s.log.Warn("Vendor response email failed", slog.Any("error", err))
		}
	}
	return nil
}

// completeCurrent marks the open assignment of the reviewer as completed,
// backfilling started_at so started_at <= completed_at always holds.
func (s *Service) completeCurrent(ctx context.Context, contractID, reviewerID string, action model.ReviewAction, comments string) error {
	ra, err := s.reviews.FindCurrent(ctx, contractID, reviewerID)
	if err != nil {
		return err
	}

	now := s.now()
	ra.Status = model.ReviewCompleted
	ra.ActionTaken = &action
	ra.Comments = comments
	ra.CompletedAt = &now
	if ra.StartedAt == nil {
		if ra.AssignedAt != nil {
			ra.StartedAt = ra.AssignedAt
		} else {
			ra.StartedAt = &now
		}
	}
	return s.reviews.Update(ctx, ra)
}

func (s *Service) notifyAssignment(ctx context.Context, c *model.Contract, reviewerID string) {
	reviewer, err := s.users.FindByID(ctx, reviewerID)
	if err != nil {
		s.log.Warn("Assignment notification skipped, reviewer not found",
			slog.String("reviewer_id", reviewerID), slog.Any("error", err))
		return
	}

	subject, body := notifier.AssignmentEmail(s.appURL, c, reviewer)
	if err := s.mailer.Send(ctx, reviewer.Email, subject, body, nil); err != nil {
		s.log.Warn("Assignment email failed", slog.Any("error", err))
	}

	now := s.now()
	rec := &model.NotificationRecord{
		ContractID:  c.ID,
		RecipientID: reviewerID,
		Kind:        model.KindAssignment,
		Sent:        true,
		SentAt:      &now,
		Message:     "Assigned to review " + c.ContractNumber,
	}
	if err := s.ledger.Record(ctx, rec); err != nil && !apperr.IsConflict(err) {
		s.log.Error("Failed to record assignment notification", slog.Any("error", err))
	}
}

func (s *Service) notifyApproval(ctx context.Context, c *model.Contract) {
	uploader, err := s.users.FindByID(ctx, c.UploaderID)
	if err != nil {
		s.log.Warn("Approval notification skipped, uploader not found",
			slog.String("uploader_id", c.UploaderID), slog.Any("error", err))
		return
	}

	subject, body := notifier.ApprovalEmail(c, uploader)
	if err := s.mailer.Send(ctx, uploader.Email, subject, body, nil); err != nil {
		s.log.Warn("Approval email failed", slog.Any("error", err))
	}

	now := s.now()
	rec := &model.NotificationRecord{
		ContractID:  c.ID,
		RecipientID: c.UploaderID,
		Kind:        model.KindApproval,
		Sent:        true,
		SentAt:      &now,
		Message:     "Contract " + c.ContractNumber + " approved",
	}
	if err := s.ledger.Record(ctx, rec); err != nil && !apperr.IsConflict(err) {
		s.log.Error("Failed to record approval notification", slog.Any("error", err))
	}
}

// logEvent publishes a lifecycle event; the audit trail is materialized
// from the event stream by the feed consumer.
func (s *Service) logEvent(ctx context.Context, contractID, userID, action, details string) {
	if s.events == nil {
		return
	}
	ev := model.ContractEvent{
		ContractID: contractID,
		UserID:     userID,
		Action:     action,
		Details:    details,
		Timestamp:  s.now(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("Event publish failed", slog.Any("error", err))
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
