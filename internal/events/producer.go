// Package events publishes contract lifecycle events to Kafka and consumes
// them back into the audit trail.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/contractpro/contractpro/internal/model"
)

// Producer defines the interface for Kafka publishing.
type Producer interface {
	Start(ctx context.Context)
	Publish(ctx context.Context, ev model.ContractEvent) error
	Close(ctx context.Context)
}

type producer struct {
	asyncProducer sarama.AsyncProducer
	topic         string
	log           *slog.Logger
	wg            *sync.WaitGroup
	closeOnce     sync.Once
}

func NewProducer(asyncProducer sarama.AsyncProducer, topic string, log *slog.Logger, wg *sync.WaitGroup) Producer {
	if asyncProducer == nil || log == nil || wg == nil {
		panic("NewProducer: nil dependencies provided")
	}
	if topic == "" {
		panic("NewProducer: topic must not be empty")
	}
	return &producer{
		asyncProducer: asyncProducer,
		topic:         topic,
		log:           log,
		wg:            wg,
	}
}

// Start launches background handlers for success and error channels.
func (p *producer) Start(ctx context.Context) {
	p.wg.Add(2)
	go p.handleSuccess(ctx)
	go p.handleErrors(ctx)
}

func (p *producer) handleSuccess(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case msg, ok := <-p.asyncProducer.Successes():
			if !ok {
				p.log.Info("Kafka successes channel closed")
				return
			}
			key, _ := msg.Key.Encode()
			p.log.Debug("Event delivered",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("key", string(key)))
		case <-ctx.Done():
			return
		}
	}
}

func (p *producer) handleErrors(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case err, ok := <-p.asyncProducer.Errors():
			if !ok {
				p.log.Info("Kafka errors channel closed")
				return
			}
			p.log.Error("Event delivery failed",
				slog.String("topic", err.Msg.Topic),
				slog.Any("error", err.Err))
		case <-ctx.Done():
			return
		}
	}
}

// Publish queues one event, keyed by contract so per-contract ordering holds.
func (p *producer) Publish(ctx context.Context, ev model.ContractEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(ev.ContractID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
	}

	select {
	case p.asyncProducer.Input() <- msg:
		p.log.Debug("Event queued to Kafka",
			slog.String("topic", p.topic),
			slog.String("contract_id", ev.ContractID),
			slog.String("action", ev.Action))
		return nil
	case <-ctx.Done():
		p.log.Warn("Publish cancelled by context", slog.String("contract_id", ev.ContractID))
		return ctx.Err()
	}
}

// Close shuts down the producer and waits for workers.
func (p *producer) Close(_ context.Context) {
	p.closeOnce.Do(func() {
		p.log.Info("Closing Kafka producer")
		p.asyncProducer.AsyncClose()
		p.wg.Wait()
	})
}
