package notify

import (
	"context"
	"encoding/json"
	"time"

	"booking-core/internal/usecase/reminders"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender hands WhatsApp reminders to a delivery gateway through a Kafka topic.
// Messages are keyed by appointment so one appointment's reminders stay ordered.
type KafkaSender struct {
	writer messageWriter
}

type whatsAppEvent struct {
	ReminderID    string            `json:"reminderId"`
	TenantID      string            `json:"tenantId"`
	AppointmentID string            `json:"appointmentId"`
	To            string            `json:"to"`
	Body          string            `json:"body"`
	Data          map[string]string `json:"data,omitempty"`
	ScheduledAt   time.Time         `json:"scheduledAt"`
}

func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return &KafkaSender{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    topic,
			Balancer: &kafka.Hash{},
		}),
	}
}

func (s *KafkaSender) Send(ctx context.Context, msg reminders.Message) error {
	_, body := Render(msg)
	payload, err := json.Marshal(whatsAppEvent{
		ReminderID:    msg.ReminderID.String(),
		TenantID:      msg.TenantID.String(),
		AppointmentID: msg.AppointmentID.String(),
		To:            msg.Recipient,
		Body:          body,
		Data:          msg.Data,
		ScheduledAt:   msg.ScheduledAt,
	})
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.AppointmentID.String()),
		Value:   payload,
		Headers: injectTraceHeaders(ctx, nil),
	})
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}

// injectTraceHeaders appends W3C trace context headers to Kafka headers.
func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
}

type headerCarrier struct {
	headers []kafka.Header
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}
