package events

import (
	"context"
	"encoding/json"
	"time"

	"buildseason/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher は注文イベントを1トピックに流す。キーは注文ID（同じ注文は同じパーティション）。
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
			WriteTimeout:           5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: data,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Kafka未設定のとき
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                                     { return nil }
