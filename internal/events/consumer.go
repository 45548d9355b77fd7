package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/storage"
)

// Consumer materializes the contract audit trail from the event stream.
type Consumer struct {
	topic         string
	audit         storage.AuditStorage
	consumerGroup sarama.ConsumerGroup
	log           *slog.Logger
}

func NewConsumer(topic string, consumerGroup sarama.ConsumerGroup, audit storage.AuditStorage, log *slog.Logger) *Consumer {
	return &Consumer{
		topic:         topic,
		consumerGroup: consumerGroup,
		audit:         audit,
		log:           log,
	}
}

// Start begins the consumer loop and blocks until the context is cancelled
// or the consumer group is closed.
func (c *Consumer) Start(ctx context.Context) error {
	defer func() {
		if err := c.consumerGroup.Close(); err != nil {
			c.log.Warn("Failed to close consumer group", slog.Any("error", err))
		}
	}()

	c.log.Info("Event consumer started", slog.String("topic", c.topic))

	backoff := 1 * time.Second
	for {
		err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
		if err != nil {
			c.log.Error("Error consuming events", slog.Any("error", err))

			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return err
			}

			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}

		if ctx.Err() != nil {
			c.log.Info("Context cancelled, stopping consumer")
			return ctx.Err()
		}
	}
}

func (c *Consumer) Setup(session sarama.ConsumerGroupSession) error {
	for topic, partitions := range session.Claims() {
		c.log.Info("Partition assignment",
			slog.String("topic", topic),
			slog.Any("partitions", partitions),
		)
	}
	return nil
}

func (c *Consumer) Cleanup(_ sarama.ConsumerGroupSession) error {
	c.log.Info("Kafka session cleanup complete")
	return nil
}

// ConsumeClaim persists each event as an audit entry.
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var ev model.ContractEvent
		if err := json.Unmarshal(message.Value, &ev); err != nil {
			c.log.Error("Failed to decode event", slog.Any("error", err))
			// skip undecodable messages
			session.MarkMessage(message, "")
			continue
		}

		entry := &model.AuditEntry{
			ContractID: ev.ContractID,
			UserID:     ev.UserID,
			Action:     ev.Action,
			Details:    ev.Details,
		}
		if err := c.audit.Append(session.Context(), entry); err != nil {
			c.log.Error("Failed to persist audit entry", slog.Any("error", err))
			continue
		}

		session.MarkMessage(message, "")
	}
	return nil
}
