//go:build unit

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"
	"time"

	"booking-core/internal/domain/reminder"
	"booking-core/internal/usecase/reminders"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMessage(ch reminder.Channel, to string) reminders.Message {
	return reminders.Message{
		ReminderID:    uuid.New(),
		TenantID:      uuid.New(),
		AppointmentID: uuid.New(),
		Channel:       ch,
		Recipient:     to,
		Data: map[string]string{
			reminders.DataClientName:  "Sam",
			reminders.DataServiceName: "Haircut",
			reminders.DataBranchName:  "Main",
			reminders.DataDate:        "2026-06-01",
			reminders.DataTime:        "09:00",
		},
		ScheduledAt: time.Date(2026, 5, 31, 9, 0, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	subject, body := Render(sampleMessage(reminder.ChannelEmail, "sam@example.com"))
	assert.Equal(t, "Reminder: Haircut on 2026-06-01 at 09:00", subject)
	assert.Contains(t, body, "Hello Sam")
	assert.Contains(t, body, "Haircut at Main on 2026-06-01 at 09:00")

	subject, body = Render(reminders.Message{})
	assert.Contains(t, subject, "appointment")
	assert.Contains(t, body, "Hello there")
}

func TestSMTPSender_Send(t *testing.T) {
	s := NewSMTPSender("mail.local", "1025", "")
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Equal(t, "no-reply@booking.local", from)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), sampleMessage(reminder.ChannelEmail, "sam@example.com")))
	assert.Equal(t, "mail.local:1025", gotAddr)
	assert.Equal(t, []string{"sam@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Reminder: Haircut on 2026-06-01 at 09:00\r\n")
	assert.Contains(t, gotMsg, "To: sam@example.com\r\n")
}

func TestWebhookSender_Send(t *testing.T) {
	t.Run("success: posts json with bearer token", func(t *testing.T) {
		var payload map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &payload)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		s := NewWebhookSender(srv.URL, "secret")
		require.NoError(t, s.Send(context.Background(), sampleMessage(reminder.ChannelSMS, "+15550100")))
		assert.Equal(t, "+15550100", payload["to"])
		assert.Contains(t, payload["body"], "Haircut")
	})

	t.Run("error: non-2xx is a delivery failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		err := NewWebhookSender(srv.URL, "").Send(context.Background(), sampleMessage(reminder.ChannelSMS, "+15550100"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("error: missing url", func(t *testing.T) {
		err := NewWebhookSender("", "").Send(context.Background(), sampleMessage(reminder.ChannelSMS, "+15550100"))
		require.Error(t, err)
	})
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaSender_Send(t *testing.T) {
	w := &fakeWriter{}
	s := &KafkaSender{writer: w}
	msg := sampleMessage(reminder.ChannelWhatsApp, "+15550100")

	require.NoError(t, s.Send(context.Background(), msg))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, msg.AppointmentID.String(), string(w.msgs[0].Key))

	var event whatsAppEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &event))
	assert.Equal(t, "+15550100", event.To)
	assert.Equal(t, msg.ReminderID.String(), event.ReminderID)

	w.err = errors.New("broker down")
	assert.Error(t, s.Send(context.Background(), msg))
}

func TestHeaderCarrier_SetOverwrites(t *testing.T) {
	c := &headerCarrier{}
	c.Set("traceparent", "a")
	c.Set("traceparent", "b")
	assert.Equal(t, []string{"traceparent"}, c.Keys())
	assert.Equal(t, "b", c.Get("traceparent"))
}

type recordingSender struct {
	got []reminders.Message
}

func (s *recordingSender) Send(_ context.Context, msg reminders.Message) error {
	s.got = append(s.got, msg)
	return nil
}

func TestRegistry_Send(t *testing.T) {
	email := &recordingSender{}
	reg := NewRegistry().
		Register(reminder.ChannelEmail, email).
		Register(reminder.ChannelSMS, NewLogSender(slog.New(slog.NewTextHandler(io.Discard, nil))))

	require.NoError(t, reg.Send(context.Background(), sampleMessage(reminder.ChannelEmail, "sam@example.com")))
	require.NoError(t, reg.Send(context.Background(), sampleMessage(reminder.ChannelSMS, "+15550100")))
	assert.Len(t, email.got, 1)

	err := reg.Send(context.Background(), sampleMessage(reminder.ChannelWhatsApp, "+15550100"))
	assert.Error(t, err)
}
