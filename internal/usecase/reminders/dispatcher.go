package reminders

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"
)

const (
	defaultInterval    = time.Minute
	defaultBatchSize   = 50
	defaultSendTimeout = 10 * time.Second
)

type SweepResult struct {
	Claimed int
	Sent    int
	Failed  int
}

// Dispatcher periodically delivers due reminders. It shares nothing with request handlers
// except the unit of work; several instances may sweep the same store concurrently.
type Dispatcher struct {
	uow         shared.UnitOfWork
	sender      Sender
	clock       clock.Clock
	logger      *slog.Logger
	interval    time.Duration
	batchSize   int
	sendTimeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDispatcher(uow shared.UnitOfWork, sender Sender, clock clock.Clock, logger *slog.Logger, cfg config.ReminderConfig) *Dispatcher {
	d := &Dispatcher{
		uow:         uow,
		sender:      sender,
		clock:       clock,
		logger:      logger,
		interval:    cfg.Interval,
		batchSize:   cfg.BatchSize,
		sendTimeout: cfg.SendTimeout,
	}
	if d.interval <= 0 {
		d.interval = defaultInterval
	}
	if d.batchSize <= 0 {
		d.batchSize = defaultBatchSize
	}
	if d.sendTimeout <= 0 {
		d.sendTimeout = defaultSendTimeout
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Start launches the sweep loop. It returns immediately; calling it twice is a no-op.
func (d *Dispatcher) Start(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.run(ctx, d.done)

	d.logger.Info("reminder dispatcher started", "interval", d.interval.String(), "batch_size", d.batchSize)
	return nil
}

// Stop cancels the loop and waits for the in-flight sweep, bounded by ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	select {
	case <-done:
		d.logger.Info("reminder dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := d.Sweep(ctx)
			if err != nil {
				d.logger.Error("reminder sweep failed", "error", err)
				continue
			}
			if res.Claimed > 0 {
				d.logger.Info("reminder sweep finished", "claimed", res.Claimed, "sent", res.Sent, "failed", res.Failed)
			}
		}
	}
}

// Sweep claims one batch of due reminders and records the outcome of each delivery.
// A failed delivery is terminal; the reminder waits for a manual requeue.
func (d *Dispatcher) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res = SweepResult{}
		due, err := tx.Reminders().ClaimDue(ctx, d.clock.Now(), d.batchSize)
		if err != nil {
			return shared.MapRepoErr(err)
		}
		res.Claimed = len(due)

		for _, r := range due {
			sendErr := d.send(ctx, MessageFrom(r))
			if sendErr == nil {
				err = r.MarkSent(d.clock.Now())
				res.Sent++
			} else {
				d.logger.Warn("reminder delivery failed",
					"error", sendErr,
					"reminder_id", r.ID().String(),
					"tenant_id", r.TenantID().String(),
					"channel", string(r.Channel()),
				)
				err = r.MarkFailed(sendErr)
				res.Failed++
			}
			if err != nil {
				return err
			}
			if err := tx.Reminders().Save(ctx, r); err != nil {
				return shared.MapRepoErr(err)
			}
		}
		return nil
	})
	return res, err
}

func (d *Dispatcher) send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		return errs.Mark(errs.Wrapf(err, "deliver %s reminder", msg.Channel), errs.ErrDeliveryFailed)
	}
	return nil
}
