package loop

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kinemotion/kine/controller"
	"github.com/kinemotion/kine/zone"
)

type countingTicker struct {
	ticks atomic.Int64
	lastH atomic.Value
	panic bool
}

func (t *countingTicker) Tick(dt float32, in controller.Input, snap zone.Snapshot) {
	t.ticks.Add(1)
	t.lastH.Store(in.Horizontal)
	if t.panic {
		panic("bad step")
	}
}

func TestNewDriverValidation(t *testing.T) {
	if _, err := NewDriver(nil, time.Millisecond, nil, nil, nil); err == nil {
		t.Fatal("expected error for nil ticker")
	}
	if _, err := NewDriver(&countingTicker{}, 0, nil, nil, nil); err == nil {
		t.Fatal("expected error for non-positive interval")
	}
}

func TestDriverTicksAndStops(t *testing.T) {
	ticker := &countingTicker{}
	d, err := NewDriver(ticker, time.Millisecond, func() controller.Input {
		return controller.Input{Horizontal: 0.5}
	}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Start()
	deadline := time.Now().Add(time.Second)
	for ticker.ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.Stop()

	if got := ticker.ticks.Load(); got < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", got)
	}
	if ticker.lastH.Load().(float32) != 0.5 {
		t.Fatal("input provider should feed each step")
	}

	// No further ticks after Stop.
	settled := ticker.ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if ticker.ticks.Load() != settled {
		t.Fatal("driver kept ticking after Stop")
	}
}

func TestDriverStartStopIdempotent(t *testing.T) {
	d, err := NewDriver(&countingTicker{}, time.Millisecond, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Stop()
	d.Start()
	d.Start()
	d.Stop()
	d.Stop()
}

func TestDriverSurvivesPanickingTick(t *testing.T) {
	ticker := &countingTicker{panic: true}
	d, err := NewDriver(ticker, time.Millisecond, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Start()
	deadline := time.Now().Add(time.Second)
	for ticker.ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.Stop()

	if got := ticker.ticks.Load(); got < 3 {
		t.Fatalf("panicking ticks should be dropped, not fatal; got %d ticks", got)
	}
}
