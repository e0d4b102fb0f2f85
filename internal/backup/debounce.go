package backup

import (
	"context"
	"sync"
	"time"

	applog "moneta/internal/log"
)

// Debouncer collapses bursts of store-change notifications into a single
// backup per quiet period. Every Notify resets the timer; when it fires a
// backup runs, and notifications that arrive while an upload is in flight
// mark it dirty so the timer re-arms when the upload finishes.
type Debouncer struct {
	svc    *Service
	quiet  time.Duration
	logger *applog.Logger

	mu       sync.Mutex
	timer    *time.Timer
	running  bool
	dirty    bool
	stopped  bool
	inflight sync.WaitGroup
}

func NewDebouncer(svc *Service, quiet time.Duration, logger *applog.Logger) *Debouncer {
	return &Debouncer{
		svc:    svc,
		quiet:  quiet,
		logger: logger.WithComponent(applog.ComponentBackup),
	}
}

// Notify records that the store changed and (re)starts the quiet timer.
func (d *Debouncer) Notify() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.running {
		d.dirty = true
		return
	}
	d.arm()
}

// arm starts or resets the quiet timer. Caller holds d.mu.
func (d *Debouncer) arm() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped || d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.dirty = false
	d.inflight.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := d.svc.Backup(ctx); err != nil {
			d.logger.ErrorContext(ctx, "debounced backup failed", applog.FieldError, err)
		}

		d.mu.Lock()
		d.running = false
		if d.dirty && !d.stopped {
			d.dirty = false
			d.arm()
		}
		d.mu.Unlock()
	}()
}

// Stop cancels any pending timer and waits for an in-flight upload to
// finish. After Stop, Notify is a no-op.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.inflight.Wait()
}
