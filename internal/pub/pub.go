package pub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ledger-service/internal/domain"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// JournalPostedEvent is emitted after a journal entry commits
type JournalPostedEvent struct {
	EventType      string    `json:"event_type"` // journal.posted
	EntryID        int64     `json:"entry_id"`
	OrganizationID int64     `json:"organization_id"`
	Reference      string    `json:"reference"`
	EntryDate      string    `json:"entry_date"`
	TotalDebit     string    `json:"total_debit"`
	TotalCredit    string    `json:"total_credit"`
	LineCount      int       `json:"line_count"`
	Timestamp      time.Time `json:"timestamp"`
}

// JournalEventPublisher writes posting events to Kafka. Delivery is
// async and best effort; posting never blocks on the broker.
type JournalEventPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewJournalEventPublisher(brokers []string, topic string, logger *zap.Logger) *JournalEventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
	}
	return &JournalEventPublisher{writer: writer, logger: logger}
}

// PublishPosted emits a journal.posted event for a committed entry
func (p *JournalEventPublisher) PublishPosted(ctx context.Context, entry *domain.JournalEntry) error {
	event := JournalPostedEvent{
		EventType:      "journal.posted",
		EntryID:        entry.ID,
		OrganizationID: entry.OrganizationID,
		Reference:      entry.Reference,
		EntryDate:      entry.EntryDate.Format("2006-01-02"),
		TotalDebit:     entry.TotalDebit.StringFixed(2),
		TotalCredit:    entry.TotalCredit.StringFixed(2),
		LineCount:      len(entry.Lines),
		Timestamp:      time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("org-%d", entry.OrganizationID)),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("journal event published",
		zap.Int64("entry_id", entry.ID),
		zap.String("event_type", event.EventType),
	)
	return nil
}

// Close flushes pending messages and releases the writer
func (p *JournalEventPublisher) Close() error {
	return p.writer.Close()
}
