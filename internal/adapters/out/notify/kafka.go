// Package notify implements the customer notification port on a Kafka topic.
// A downstream consumer turns the messages into emails and push
// notifications; this side only has to get them onto the topic.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backoffice/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// notificationPayload is the wire format consumed by the notification
// service.
type notificationPayload struct {
	OrderID string    `json:"order_id"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// KafkaNotifier implements ports.Notifier by producing to a Kafka topic.
// Messages are keyed by order id so one order's notifications stay in order.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier creates a notifier producing to the given brokers and
// topic.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Send publishes one notification. Callers treat failures as non-fatal: an
// undelivered notification never rolls back the business operation it
// follows.
func (n *KafkaNotifier) Send(ctx context.Context, notification ports.Notification) error {
	message, err := newMessage(notification, time.Now().UTC())
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, message)
}

func newMessage(notification ports.Notification, sentAt time.Time) (kafka.Message, error) {
	value, err := json.Marshal(notificationPayload{
		OrderID: notification.OrderID,
		Subject: notification.Subject,
		Body:    notification.Body,
		SentAt:  sentAt,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal notification: %w", err)
	}

	return kafka.Message{
		Key:   []byte(notification.OrderID),
		Value: value,
	}, nil
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
