package idlebridge

import (
	"context"
	"testing"
	"time"

	"github.com/idlebridge/go-idle-bridge/core"
)

// TestWrapperConstructors verifies top-level wrappers return usable instances
// Given: The root package re-exports
// When: Each constructor is called
// Then: Each returns a working instance backed by core
func TestWrapperConstructors(t *testing.T) {
	// Arrange / Act
	s := NewScheduler()
	if s == nil {
		t.Fatal("NewScheduler() returned nil")
	}
	if s.Mode() != ModeDeferred {
		t.Errorf("NewScheduler().Mode() = %v, want %v", s.Mode(), ModeDeferred)
	}

	imm := NewImmediateScheduler()
	if imm.Mode() != ModeImmediate {
		t.Errorf("NewImmediateScheduler().Mode() = %v, want %v", imm.Mode(), ModeImmediate)
	}

	cfg := DefaultSchedulerConfig()
	cfg.Logger = core.NewNoOpLogger()
	withCfg := NewSchedulerWithConfig(cfg)
	if withCfg == nil {
		t.Fatal("NewSchedulerWithConfig() returned nil")
	}

	loop := NewIdleLoop(5 * time.Millisecond)
	if loop == nil {
		t.Fatal("NewIdleLoop() returned nil")
	}
	defer loop.Stop()
	if loop.Scheduler() == nil {
		t.Fatal("IdleLoop.Scheduler() returned nil")
	}
}

// TestWrapperGenericFunctions verifies the generic re-export wrappers
// Given: A deferred scheduler used through the root package only
// When: ScheduleResult and RunOrSchedule are exercised
// Then: Futures resolve after pumping, matching core behavior
func TestWrapperGenericFunctions(t *testing.T) {
	// Arrange
	cfg := DefaultSchedulerConfig()
	cfg.Logger = core.NewNoOpLogger()
	s := NewSchedulerWithConfig(cfg)

	// Act
	f1 := ScheduleResult(s, func(ctx context.Context) (int, error) { return 1, nil })
	f2 := ScheduleResultWithOptions(s, func(ctx context.Context) (int, error) { return 2, nil },
		ScheduleOptions{NotifyHost: false})
	f3 := RunOrSchedule(s, func(ctx context.Context) (int, error) { return 3, nil })

	for i := 0; i < 3; i++ {
		s.Pump(context.Background())
	}

	// Assert
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i, f := range []*Future[int]{f1, f2, f3} {
		got, err := f.Wait(ctx)
		if err != nil || got != i+1 {
			t.Errorf("future %d: Wait() = (%d, %v), want (%d, nil)", i, got, err, i+1)
		}
	}
}
