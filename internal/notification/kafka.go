package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/certzilla/auth-server/internal/model"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutboxMessage is the payload published to the mail outbox topic for a
// downstream sender to deliver.
type OutboxMessage struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"createdAt"`
}

// Kafka publishes mail to an outbox topic.
type Kafka struct {
	writer kafkaWriter
	from   string
	now    func() time.Time
}

var _ Driver = (*Kafka)(nil)

func NewKafka(brokers []string, topic, from string) *Kafka {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            3,
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewKafkaWithWriter(writer, from)
}

func NewKafkaWithWriter(w kafkaWriter, from string) *Kafka {
	return &Kafka{writer: w, from: from, now: time.Now}
}

// Send keys the record by recipient so one user's mail stays ordered.
func (k *Kafka) Send(ctx context.Context, msg model.Message) (model.Receipt, error) {
	out := OutboxMessage{
		ID:        uuid.NewString(),
		From:      k.from,
		To:        msg.To,
		Subject:   msg.Subject,
		HTML:      msg.HTML,
		CreatedAt: k.now(),
	}

	value, err := json.Marshal(out)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("failed to encode outbox message: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: value,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "message-id", Value: []byte(out.ID)},
		},
	})
	if err != nil {
		return model.Receipt{}, fmt.Errorf("failed to write kafka message: %w", err)
	}

	return model.Receipt{
		ID:         out.ID,
		Driver:     "kafka",
		AcceptedAt: out.CreatedAt,
	}, nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
