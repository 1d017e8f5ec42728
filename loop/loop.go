// Package loop provides an optional fixed-timestep driver for hosts without
// their own physics step. The core never requires it; hosts with an engine
// loop call Character.Tick directly.
package loop

import (
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/kinemotion/kine/controller"
	"github.com/kinemotion/kine/kerror"
	"github.com/kinemotion/kine/zone"
	"github.com/sirupsen/logrus"
)

// Ticker receives one fixed simulation step per interval.
type Ticker interface {
	Tick(dt float32, in controller.Input, snap zone.Snapshot)
}

// Driver runs a Ticker at a fixed timestep on its own goroutine, pulling
// input and zone membership from the supplied providers each step.
type Driver struct {
	target   Ticker
	interval time.Duration
	input    func() controller.Input
	zones    func() zone.Snapshot
	log      *logrus.Logger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewDriver constructs a driver stepping target every interval. The input and
// zones providers are called once per step; either may be nil to feed zero
// values.
func NewDriver(target Ticker, interval time.Duration, input func() controller.Input, zones func() zone.Snapshot, log *logrus.Logger) (*Driver, error) {
	if target == nil {
		return nil, kerror.New("loop: ticker is required")
	}
	if interval <= 0 {
		return nil, kerror.New("loop: interval must be positive, got %v", interval)
	}
	return &Driver{
		target:   target,
		interval: interval,
		input:    input,
		zones:    zones,
		log:      log,
	}, nil
}

// Start launches the tick goroutine. Starting a running driver is a no-op.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.run(d.stop, d.done)
}

// Stop halts the tick goroutine and waits for the current step to finish.
// Stopping a stopped driver is a no-op.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	stop, done := d.stop, d.done
	d.mu.Unlock()

	close(stop)
	<-done
}

func (d *Driver) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer sentry.Recover()

	dt := float32(d.interval.Seconds())
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.step(dt)
		}
	}
}

// step runs one tick, containing panics so a single bad step degrades to a
// dropped tick instead of killing the driver.
func (d *Driver) step(dt float32) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			if d.log != nil {
				d.log.Errorf("loop: tick panicked: %v", r)
			}
		}
	}()

	var in controller.Input
	if d.input != nil {
		in = d.input()
	}
	var snap zone.Snapshot
	if d.zones != nil {
		snap = d.zones()
	}
	d.target.Tick(dt, in, snap)
}
