// Package autosave snapshots the task collection on a fixed interval and performs the
// final flush when the process is shutting down.
package autosave

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the snapshot period.
const DefaultInterval = 60 * time.Second

// Collection is what the driver persists.
type Collection interface {
	Flush() error
	FreezeRunning() int
}

// Driver owns the periodic snapshot and the shutdown flush.
type Driver struct {
	interval time.Duration
	tasks    Collection
	closer   io.Closer
	log      *zap.SugaredLogger

	once    sync.Once
	flushed chan struct{}
}

// New returns a driver flushing tasks every interval. closer (usually the store) is closed
// after the final flush; it may be nil.
func New(tasks Collection, closer io.Closer, interval time.Duration, log *zap.SugaredLogger) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Driver{
		interval: interval,
		tasks:    tasks,
		closer:   closer,
		log:      log,
		flushed:  make(chan struct{}),
	}
}

// Run snapshots every interval until ctx is done, then runs Shutdown.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.Infow("autosave started", "interval", d.interval)
	for {
		select {
		case <-ctx.Done():
			d.Shutdown()
			return
		case <-d.flushed:
			return
		case <-ticker.C:
			if err := d.tasks.Flush(); err != nil {
				d.log.Warnw("periodic snapshot failed", "error", err)
				continue
			}
			d.log.Debug("periodic snapshot saved")
		}
	}
}

// Shutdown freezes running timers, writes one final snapshot and closes the store. Only
// the first call does anything; later calls wait for it to finish.
func (d *Driver) Shutdown() {
	d.once.Do(func() {
		defer close(d.flushed)

		if n := d.tasks.FreezeRunning(); n > 0 {
			d.log.Infow("paused running timers before exit", "count", n)
		}
		if err := d.tasks.Flush(); err != nil {
			d.log.Errorw("final snapshot failed", "error", err)
		} else {
			d.log.Info("final snapshot saved")
		}
		if d.closer != nil {
			if err := d.closer.Close(); err != nil {
				d.log.Errorw("error closing store", "error", err)
			}
		}
	})
	<-d.flushed
}

// Done is closed once Shutdown has completed.
func (d *Driver) Done() <-chan struct{} {
	return d.flushed
}

// WatchSignals runs Shutdown and then after when the process receives an interrupt or
// terminate signal. It stops watching when ctx is done.
func (d *Driver) WatchSignals(ctx context.Context, after func(os.Signal)) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
		case sig := <-ch:
			d.log.Warnw("signal received, flushing before exit", "signal", sig.String())
			d.Shutdown()
			if after != nil {
				after(sig)
			}
		}
	}()
}
