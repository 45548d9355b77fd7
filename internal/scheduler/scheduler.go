// Package scheduler implements the SLA reminder and escalation loop.
//
// Reminder 1 after 3 working days unattended, reminder 2 after 6, escalation
// to the handler's manager after 9. All reminders CC the uploader. The
// notification ledger makes every dispatch at-most-once per contract and
// handler, so ticks are idempotent and safe to overlap.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/bizdays"
	"github.com/contractpro/contractpro/internal/config"
	"github.com/contractpro/contractpro/internal/metrics"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/notifier"
	"github.com/contractpro/contractpro/internal/storage"
	"github.com/contractpro/contractpro/internal/workflow"
)

const (
	reminder1Days  = 3
	reminder2Days  = 6
	escalationDays = 9
)

type Scheduler struct {
	contracts   storage.ContractStorage
	reviews     storage.ReviewStorage
	users       storage.UserStorage
	ledger      storage.NotificationStorage
	mailer      notifier.Notifier
	events      workflow.EventPublisher
	cfg         config.SchedulerConfig
	workerLimit int
	now         func() time.Time
	log         *slog.Logger
}

func New(
	contracts storage.ContractStorage,
	reviews storage.ReviewStorage,
	users storage.UserStorage,
	ledger storage.NotificationStorage,
	mailer notifier.Notifier,
	cfg config.SchedulerConfig,
	log *slog.Logger,
) *Scheduler {
	return &Scheduler{
		contracts:   contracts,
		reviews:     reviews,
		users:       users,
		ledger:      ledger,
		mailer:      mailer,
		cfg:         cfg,
		workerLimit: 10,
		now:         time.Now,
		log:         log,
	}
}

// WithClock overrides the scheduler clock. Used by tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// WithEvents attaches a lifecycle event publisher. Reminder and escalation
// dispatches are then published as reminder_sent / escalated events.
func (s *Scheduler) WithEvents(events workflow.EventPublisher) *Scheduler {
	s.events = events
	return s
}

// Start runs ticks on the configured interval until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("SLA scheduler started", slog.Duration("interval", s.cfg.Interval))

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("SLA scheduler stopped")
			return
		case <-ticker.C:
			if s.cfg.BusinessHours && !s.withinBusinessHours() {
				continue
			}
			if err := s.Tick(ctx); err != nil {
				s.log.Error("SLA tick failed", slog.Any("error", err))
			}
		}
	}
}

func (s *Scheduler) withinBusinessHours() bool {
	now := s.now()
	wd := now.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	h := now.Hour()
	return h >= s.cfg.HourStart && h <= s.cfg.HourEnd
}

// Tick runs one full reminder pass. Per-contract failures are logged and
// isolated; only a failure to read the active set is returned.
func (s *Scheduler) Tick(ctx context.Context) error {
	start := s.now()
	s.log.Info("SLA check running", slog.Time("at", start))

	active, err := s.contracts.FindActive(ctx)
	if err != nil {
		metrics.SchedulerTicks.WithLabelValues("error").Inc()
		return fmt.Errorf("fetch active contracts: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.workerLimit)

	for _, contract := range active {
		contract := contract
		sem <- struct{}{}
		eg.Go(func() error {
			defer func() { <-sem }()
			if err := s.checkContract(ctx, &contract); err != nil {
				// isolated: one bad contract never aborts the tick
				s.log.Error("SLA check failed for contract",
					slog.String("contract_id", contract.ID),
					slog.Any("error", err))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	metrics.SchedulerTicks.WithLabelValues("ok").Inc()
	metrics.TickDuration.Observe(time.Since(start).Seconds())
	s.log.Info("SLA check finished", slog.Int("active_contracts", len(active)))
	return nil
}

func (s *Scheduler) checkContract(ctx context.Context, c *model.Contract) error {
	if c.CurrentHandlerID == nil {
		return nil
	}
	handlerID := *c.CurrentHandlerID

	current, err := s.reviews.FindCurrent(ctx, c.ID, handlerID)
	if err != nil {
		if apperr.IsNotFound(err) {
			s.log.Debug("No open review for active contract, skipping",
				slog.String("contract_id", c.ID))
			return nil
		}
		return err
	}
	if current.AssignedAt == nil {
		s.log.Debug("Open review has no assigned_at, skipping",
			slog.String("contract_id", c.ID))
		return nil
	}

	elapsed := bizdays.Since(*current.AssignedAt, s.now())

	// queried fresh every pass; a concurrent tick may have written since
	sent, err := s.ledger.SentKinds(ctx, c.ID, handlerID)
	if err != nil {
		return err
	}

	// independent checks: a late first tick sends all overdue kinds at once
	if elapsed >= reminder1Days && !sent[model.KindReminder1] {
		s.sendReminder(ctx, c, handlerID, model.KindReminder1, 1)
	}
	if elapsed >= reminder2Days && !sent[model.KindReminder2] {
		s.sendReminder(ctx, c, handlerID, model.KindReminder2, 2)
	}
	if elapsed >= escalationDays && !sent[model.KindEscalation] {
		s.escalate(ctx, c, handlerID)
	}
	return nil
}

// sendReminder dispatches one reminder to the handler, CC the uploader, and
// records it. Email failures are logged but never block the ledger write.
func (s *Scheduler) sendReminder(ctx context.Context, c *model.Contract, handlerID string, kind model.NotificationKind, num int) {
	handler, err := s.users.FindByID(ctx, handlerID)
	if err != nil {
		s.log.Warn("Reminder skipped, handler not found",
			slog.String("contract_id", c.ID), slog.Any("error", err))
		return
	}

	var cc []string
	if uploader, err := s.users.FindByID(ctx, c.UploaderID); err == nil {
		cc = append(cc, uploader.Email)
	}

	subject, body := notifier.ReminderEmail(c, num)
	if err := s.mailer.Send(ctx, handler.Email, subject, body, cc); err != nil {
		s.log.Warn("Reminder email failed",
			slog.String("contract_id", c.ID), slog.Any("error", err))
	}

	s.record(ctx, c, handlerID, kind, fmt.Sprintf(
		"Reminder #%d: Contract %s unattended for %d+ working days.",
		num, c.ContractNumber, num*reminder1Days))
}

// escalate notifies the handler's manager, or the uploader when no manager
// exists. The ledger entry is keyed to the handler so escalation fires once
// per handler even though the email goes elsewhere.
func (s *Scheduler) escalate(ctx context.Context, c *model.Contract, handlerID string) {
	handler, err := s.users.FindByID(ctx, handlerID)
	if err != nil {
		s.log.Warn("Escalation skipped, handler not found",
			slog.String("contract_id", c.ID), slog.Any("error", err))
		return
	}

	var target *model.User
	if handler.ManagerID != nil {
		if manager, err := s.users.FindByID(ctx, *handler.ManagerID); err == nil {
			target = manager
		}
	}
	if target == nil {
		if uploader, err := s.users.FindByID(ctx, c.UploaderID); err == nil {
			target = uploader
		}
	}

	if target != nil {
		var cc []string
		if uploader, err := s.users.FindByID(ctx, c.UploaderID); err == nil && uploader.ID != target.ID {
			cc = append(cc, uploader.Email)
		}
		subject, body := notifier.EscalationEmail(c, handler)
		if err := s.mailer.Send(ctx, target.Email, subject, body, cc); err != nil {
			s.log.Warn("Escalation email failed",
				slog.String("contract_id", c.ID), slog.Any("error", err))
		}
	}

	s.record(ctx, c, handlerID, model.KindEscalation, fmt.Sprintf(
		"ESCALATION: Contract %s unattended for %d+ working days.",
		c.ContractNumber, escalationDays))
}

func (s *Scheduler) record(ctx context.Context, c *model.Contract, recipientID string, kind model.NotificationKind, message string) {
	now := s.now()
	rec := &model.NotificationRecord{
		ContractID:  c.ID,
		RecipientID: recipientID,
		Kind:        kind,
		Sent:        true,
		SentAt:      &now,
		Message:     message,
	}
	if err := s.ledger.Record(ctx, rec); err != nil {
		if apperr.IsConflict(err) {
			// a concurrent tick got there first
			s.log.Debug("Notification already recorded",
				slog.String("contract_id", c.ID), slog.String("kind", string(kind)))
			return
		}
		s.log.Error("Failed to record notification",
			slog.String("contract_id", c.ID), slog.String("kind", string(kind)),
			slog.Any("error", err))
		return
	}
	metrics.RemindersSent.WithLabelValues(string(kind)).Inc()

	if s.events != nil {
		action := "reminder_sent"
		if kind == model.KindEscalation {
			action = "escalated"
		}
		ev := model.ContractEvent{
			ContractID: c.ID,
			UserID:     recipientID,
			Action:     action,
			Details:    message,
			Timestamp:  now,
		}
		if err := s.events.Publish(ctx, ev); err != nil {
			s.log.Warn("Event publish failed",
				slog.String("contract_id", c.ID), slog.Any("error", err))
		}
	}
}
