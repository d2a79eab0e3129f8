package workers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/telemetry"
)

// DebounceResult reports how a triggered call ended. Superseded is set when a newer
// trigger arrived while the call was running; its Err is then usually
// context.Canceled and can be ignored.
type DebounceResult struct {
	Seq        uint64
	Err        error
	Superseded bool
}

// Debouncer runs the latest triggered call once no new trigger has arrived for
// Delay. A trigger stops the pending call and cancels the running one, so at most
// one result is current.
type Debouncer struct {
	Name     string
	Delay    time.Duration
	Logger   *logrus.Logger
	OnResult func(DebounceResult)

	mu      sync.Mutex
	timer   *time.Timer
	cancel  context.CancelFunc
	seq     uint64
	stopped bool
	wg      sync.WaitGroup
}

func NewDebouncer(name string, delay time.Duration, log *logrus.Logger) *Debouncer {
	if log == nil {
		log = logrus.New()
	}
	return &Debouncer{Name: name, Delay: delay, Logger: log}
}

// Trigger schedules fn and returns its sequence number. fn runs with a context
// that keeps parent's values but not its cancellation, so a call scheduled from a
// short-lived request still completes. Triggers after Stop are ignored and return 0.
func (d *Debouncer) Trigger(parent context.Context, fn func(ctx context.Context) error) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return 0
	}
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
		telemetry.DebouncedRuns.WithLabelValues(d.Name, "superseded").Inc()
	}
	if d.cancel != nil {
		d.cancel()
	}

	d.seq++
	seq := d.seq
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	d.cancel = cancel

	d.wg.Add(1)
	d.timer = time.AfterFunc(d.Delay, func() {
		defer d.wg.Done()
		defer cancel()
		d.run(ctx, seq, fn)
	})
	return seq
}

func (d *Debouncer) run(ctx context.Context, seq uint64, fn func(context.Context) error) {
	var err error
	if ctx.Err() == nil {
		err = fn(ctx)
	} else {
		err = ctx.Err()
	}

	d.mu.Lock()
	current := seq == d.seq && !d.stopped
	if current {
		d.cancel = nil
	}
	d.mu.Unlock()

	res := DebounceResult{Seq: seq, Err: err, Superseded: !current}
	entry := d.Logger.WithFields(logrus.Fields{"task": d.Name, "seq": seq})
	switch {
	case res.Superseded:
		telemetry.DebouncedRuns.WithLabelValues(d.Name, "superseded").Inc()
		entry.Debug("debounced run superseded")
	case err != nil:
		telemetry.DebouncedRuns.WithLabelValues(d.Name, "failed").Inc()
		entry.WithError(err).Warn("debounced run failed")
	default:
		telemetry.DebouncedRuns.WithLabelValues(d.Name, "ok").Inc()
		entry.Debug("debounced run done")
	}

	if d.OnResult != nil {
		d.OnResult(res)
	}
}

// Cancel drops the pending call and cancels the running one. Later triggers are
// scheduled as usual.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drop()
}

// Stop drops the pending call, cancels the running one and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.drop()
}

// drop must be called with mu held. Bumping seq marks a running call superseded.
func (d *Debouncer) drop() {
	d.seq++
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
		telemetry.DebouncedRuns.WithLabelValues(d.Name, "superseded").Inc()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Wait blocks until no call is pending or running.
func (d *Debouncer) Wait() { d.wg.Wait() }
