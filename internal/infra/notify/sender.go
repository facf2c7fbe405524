// Package notify delivers reminders over email, SMS and WhatsApp.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"booking-core/internal/domain/reminder"
	"booking-core/internal/usecase/reminders"
)

// Registry routes a message to the sender registered for its channel.
type Registry struct {
	senders map[reminder.Channel]reminders.Sender
}

var _ reminders.Sender = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{senders: map[reminder.Channel]reminders.Sender{}}
}

func (r *Registry) Register(ch reminder.Channel, s reminders.Sender) *Registry {
	r.senders[ch] = s
	return r
}

func (r *Registry) Send(ctx context.Context, msg reminders.Message) error {
	s, ok := r.senders[msg.Channel]
	if !ok {
		return fmt.Errorf("no sender registered for channel %q", msg.Channel)
	}
	return s.Send(ctx, msg)
}

// LogSender only logs; it stands in for channels without a configured provider.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg reminders.Message) error {
	subject, _ := Render(msg)
	s.logger.Info("reminder delivered to log",
		"channel", string(msg.Channel),
		"reminder_id", msg.ReminderID.String(),
		"recipient", msg.Recipient,
		"subject", subject)
	return nil
}

// Render builds the subject and plain-text body shared by every channel.
func Render(msg reminders.Message) (string, string) {
	d := msg.Data
	subject := fmt.Sprintf("Reminder: %s on %s at %s", orDefault(d[reminders.DataServiceName], "appointment"), d[reminders.DataDate], d[reminders.DataTime])
	body := fmt.Sprintf("Hello %s,\n\nthis is a reminder of your %s at %s on %s at %s.\n",
		orDefault(d[reminders.DataClientName], "there"),
		orDefault(d[reminders.DataServiceName], "appointment"),
		orDefault(d[reminders.DataBranchName], "our branch"),
		d[reminders.DataDate],
		d[reminders.DataTime],
	)
	return subject, body
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
