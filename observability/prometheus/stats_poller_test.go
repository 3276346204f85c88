package prometheus

import (
	"context"
	"testing"
	"time"

	"github.com/idlebridge/go-idle-bridge/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStatsProvider struct {
	stats core.SchedulerStats
}

func (f *fakeStatsProvider) Stats() core.SchedulerStats {
	return f.stats
}

func TestStatsPoller_CollectsSnapshots(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewStatsPoller(reg, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("NewStatsPoller failed: %v", err)
	}

	provider := &fakeStatsProvider{stats: core.SchedulerStats{
		Mode:     core.ModeDeferred,
		Queued:   3,
		Executed: 12,
		Panicked: 1,
	}}
	poller.AddScheduler("main", provider)

	poller.Start(context.Background())
	defer poller.Stop()

	// collectOnce runs synchronously on Start's first loop iteration; give
	// the goroutine a moment.
	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(poller.queued.WithLabelValues("main", "deferred")) != 3 {
		if time.Now().After(deadline) {
			t.Fatal("poller never exported the queued snapshot")
		}
		time.Sleep(time.Millisecond)
	}

	if got := testutil.ToFloat64(poller.executed.WithLabelValues("main", "deferred")); got != 12 {
		t.Errorf("executed snapshot = %v, want 12", got)
	}
	if got := testutil.ToFloat64(poller.panicked.WithLabelValues("main", "deferred")); got != 1 {
		t.Errorf("panicked snapshot = %v, want 1", got)
	}
}

func TestStatsPoller_PollsRealScheduler(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewStatsPoller(reg, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("NewStatsPoller failed: %v", err)
	}

	cfg := core.DefaultSchedulerConfig()
	cfg.Logger = core.NewNoOpLogger()
	s := core.NewSchedulerWithConfig(cfg)
	poller.AddScheduler("host", s)

	s.Schedule(func(ctx context.Context) {})
	s.Pump(context.Background())

	poller.Start(context.Background())
	defer poller.Stop()

	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(poller.executed.WithLabelValues("host", "deferred")) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("poller never exported the real scheduler's executed count")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStatsPoller_StartStopIdempotent(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewStatsPoller(reg, time.Millisecond)
	if err != nil {
		t.Fatalf("NewStatsPoller failed: %v", err)
	}

	poller.Start(context.Background())
	poller.Start(context.Background()) // no-op
	poller.Stop()
	poller.Stop() // safe

	// Restart works after a full stop.
	poller.Start(context.Background())
	poller.Stop()
}
