package notification

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

type Email struct {
	ID      string
	To      string
	Subject string
	Message string
}

// Sender matches the SMTP adapter.
type Sender interface {
	Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error
}

type Enqueuer interface {
	Enqueue(ctx context.Context, email Email) error
}

type Options struct {
	Workers         int
	QueueSize       int
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	SendTimeout     time.Duration
}

func (o *Options) applyDefaults() {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 1
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 500 * time.Millisecond
	}
	if o.MaxInterval < o.InitialInterval {
		o.MaxInterval = o.InitialInterval
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 15 * time.Second
	}
}

// Dispatcher delivers emails off the request path. Enqueue never blocks;
// workers retry each email with exponential backoff and give up after
// MaxAttempts. Failures are logged and counted, never returned to callers.
type Dispatcher struct {
	sender  Sender
	log     logger.Logger
	metrics *metrics.Manager
	opts    Options

	queue  chan Email
	mu     sync.RWMutex
	closed bool

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
}

func NewDispatcher(sender Sender, log logger.Logger, m *metrics.Manager, opts Options) *Dispatcher {
	opts.applyDefaults()
	return &Dispatcher{
		sender:  sender,
		log:     log.Named("Notification"),
		metrics: m,
		opts:    opts,
		queue:   make(chan Email, opts.QueueSize),
		cancel:  func() {},
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		d.cancel = cancel
		for i := 0; i < d.opts.Workers; i++ {
			d.wg.Add(1)
			go d.worker(workerCtx)
		}
		d.log.Infof("notification dispatcher started with %d workers", d.opts.Workers)
	})
}

// Stop refuses new emails and waits for queued ones to be delivered. If ctx
// expires first, in-flight retries are abandoned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	var err error
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()

		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			d.log.Info("notification dispatcher drained")
		case <-ctx.Done():
			d.cancel()
			<-done
			err = fmt.Errorf("notification dispatcher stopped before draining: %w", ctx.Err())
		}
		d.cancel()
	})
	return err
}

func (d *Dispatcher) Enqueue(_ context.Context, email Email) error {
	if email.ID == "" {
		email.ID = uuid.NewString()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}

	select {
	case d.queue <- email:
		d.log.Debugf("email %s queued for %s", email.ID, email.To)
		return nil
	default:
		d.record("rejected")
		return ErrQueueFull
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for email := range d.queue {
		d.deliver(ctx, email)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, email Email) {
	if strings.TrimSpace(email.To) == "" {
		d.log.Warnw("dropping email without recipient", "email_id", email.ID, "subject", email.Subject)
		d.record("dropped")
		return
	}

	bodyHTML := "<p>" + html.EscapeString(email.Message) + "</p>"
	attempt := 0
	operation := func() error {
		attempt++
		sendCtx, cancel := context.WithTimeout(ctx, d.opts.SendTimeout)
		defer cancel()
		return d.sender.Send(sendCtx, []string{email.To}, email.Subject, bodyHTML, email.Message)
	}
	notify := func(err error, wait time.Duration) {
		d.log.Warnw("email delivery failed, retrying",
			"email_id", email.ID, "to", email.To, "attempt", attempt, "retry_in", wait, "error", err)
	}

	if err := backoff.RetryNotify(operation, d.backoff(ctx), notify); err != nil {
		d.log.Errorw("email delivery abandoned",
			"email_id", email.ID, "to", email.To, "subject", email.Subject, "attempts", attempt, "error", err)
		d.record("failed")
		return
	}
	d.record("sent")
}

func (d *Dispatcher) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.opts.InitialInterval
	b.MaxInterval = d.opts.MaxInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(d.opts.MaxAttempts-1)), ctx)
}

func (d *Dispatcher) record(result string) {
	if d.metrics != nil {
		d.metrics.NotificationsTotal.WithLabelValues(result).Inc()
	}
}
