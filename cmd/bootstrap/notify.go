package bootstrap

import (
	"context"
	"log/slog"

	"booking-core/internal/domain/reminder"
	"booking-core/internal/infra/notify"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/reminders"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		fx.Annotate(
			NewReminderSender,
			fx.As(new(reminders.Sender)),
		),
	),
)

// NewReminderSender registers a real sender per configured channel and a log sender for the rest.
func NewReminderSender(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *notify.Registry {
	fallback := notify.NewLogSender(logger)
	registry := notify.NewRegistry()

	if cfg.SMTP.Host != "" {
		registry.Register(reminder.ChannelEmail, notify.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From))
	} else {
		registry.Register(reminder.ChannelEmail, fallback)
	}

	if cfg.SMS.WebhookURL != "" {
		registry.Register(reminder.ChannelSMS, notify.NewWebhookSender(cfg.SMS.WebhookURL, cfg.SMS.WebhookToken))
	} else {
		registry.Register(reminder.ChannelSMS, fallback)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSender := notify.NewKafkaSender(cfg.Kafka.Brokers, cfg.Kafka.WhatsAppTopic)
		registry.Register(reminder.ChannelWhatsApp, kafkaSender)
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return kafkaSender.Close()
			},
		})
	} else {
		registry.Register(reminder.ChannelWhatsApp, fallback)
	}

	return registry
}
