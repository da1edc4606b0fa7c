package models

import (
	"testing"
	"time"

	"github.com/DavDaz/focus-title/internal/clock"
)

func newTestTimer() (*Timer, *clock.Manual) {
	c := clock.NewManual(time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC))
	return NewTimer(c), c
}

func TestTimerStartsStoppedAtZero(t *testing.T) {
	tm, _ := newTestTimer()
	if tm.State() != TimerStopped {
		t.Fatalf("expected stopped, got %s", tm.State())
	}
	if tm.Elapsed() != 0 {
		t.Fatalf("expected 0 elapsed, got %d", tm.Elapsed())
	}
}

func TestTimerTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Timer)
		op    func(*Timer) bool
		want  bool
		state TimerState
	}{
		{"start from stopped", func(*Timer) {}, (*Timer).Start, true, TimerRunning},
		{"start while running is a no-op", func(tm *Timer) { tm.Start() }, (*Timer).Start, false, TimerRunning},
		{"start while paused is a no-op", func(tm *Timer) { tm.Start(); tm.Pause() }, (*Timer).Start, false, TimerPaused},
		{"pause from running", func(tm *Timer) { tm.Start() }, (*Timer).Pause, true, TimerPaused},
		{"pause while stopped is a no-op", func(*Timer) {}, (*Timer).Pause, false, TimerStopped},
		{"resume from paused", func(tm *Timer) { tm.Start(); tm.Pause() }, (*Timer).Resume, true, TimerRunning},
		{"resume while stopped is a no-op", func(*Timer) {}, (*Timer).Resume, false, TimerStopped},
		{"resume while running is a no-op", func(tm *Timer) { tm.Start() }, (*Timer).Resume, false, TimerRunning},
		{"resumeFrom while paused is a no-op", func(tm *Timer) { tm.Start(); tm.Pause() },
			func(tm *Timer) bool { return tm.ResumeFrom(10) }, false, TimerPaused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, _ := newTestTimer()
			tt.setup(tm)
			if got := tt.op(tm); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if tm.State() != tt.state {
				t.Errorf("expected state %s, got %s", tt.state, tm.State())
			}
		})
	}
}

func TestTimerElapsedIsContinuousAcrossPauseResume(t *testing.T) {
	tm, c := newTestTimer()
	tm.Start()

	var last int64
	step := 700 * time.Millisecond
	for i := 0; i < 20; i++ {
		c.Advance(step)
		before := tm.Elapsed()
		if before < last {
			t.Fatalf("elapsed decreased: %d -> %d", last, before)
		}
		if i%2 == 0 {
			tm.Pause()
		} else {
			tm.Resume()
		}
		after := tm.Elapsed()
		if after != before {
			t.Fatalf("discontinuity at transition %d: %d -> %d", i, before, after)
		}
		last = after
	}
}

func TestTimerPauseKeepsSubSecondRemainder(t *testing.T) {
	tm, c := newTestTimer()
	tm.Start()
	for i := 0; i < 4; i++ {
		c.Advance(1500 * time.Millisecond)
		tm.Pause()
		tm.Resume()
	}
	tm.Pause()
	if got := tm.Elapsed(); got != 6 {
		t.Errorf("expected 6s after four 1.5s runs, got %d", got)
	}
}

func TestTimerStopPreservesElapsed(t *testing.T) {
	tm, c := newTestTimer()
	tm.Start()
	c.Advance(42*time.Second + 300*time.Millisecond)

	before := tm.Elapsed()
	tm.Stop()
	if tm.State() != TimerStopped {
		t.Fatalf("expected stopped, got %s", tm.State())
	}
	if got := tm.Elapsed(); got != before || got != 42 {
		t.Errorf("expected %d after stop, got %d", before, got)
	}

	c.Advance(time.Minute)
	if got := tm.Elapsed(); got != 42 {
		t.Errorf("stopped timer moved: got %d", got)
	}
}

func TestTimerStartResetsButResumeFromPreserves(t *testing.T) {
	tm, c := newTestTimer()
	tm.SetElapsed(90)

	if !tm.ResumeFrom(tm.Elapsed()) {
		t.Fatal("expected ResumeFrom to succeed from stopped")
	}
	c.Advance(10 * time.Second)
	if got := tm.Elapsed(); got != 100 {
		t.Errorf("expected 100 after resuming from 90, got %d", got)
	}

	tm.Stop()
	if !tm.Start() {
		t.Fatal("expected Start to succeed from stopped")
	}
	if got := tm.Elapsed(); got != 0 {
		t.Errorf("expected fresh start at 0, got %d", got)
	}
}

func TestTimerSetElapsedWhileRunning(t *testing.T) {
	tm, c := newTestTimer()
	tm.Start()
	c.Advance(30 * time.Second)

	tm.SetElapsed(125)
	if tm.State() != TimerRunning {
		t.Fatalf("SetElapsed changed state to %s", tm.State())
	}
	if got := tm.Elapsed(); got != 125 {
		t.Fatalf("expected 125 immediately, got %d", got)
	}
	c.Advance(5 * time.Second)
	if got := tm.Elapsed(); got != 130 {
		t.Errorf("expected 130 five seconds later, got %d", got)
	}
}

func TestTimerSetElapsedClampsNegative(t *testing.T) {
	tm, _ := newTestTimer()
	tm.SetElapsed(-5)
	if got := tm.Elapsed(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestTimerElapsedTruncates(t *testing.T) {
	tm, c := newTestTimer()
	tm.Start()
	c.Advance(2999 * time.Millisecond)
	if got := tm.Elapsed(); got != 2 {
		t.Errorf("expected floor to 2, got %d", got)
	}
}

func TestTimerContinueKeepsSubSecondRemainder(t *testing.T) {
	tm, c := newTestTimer()
	tm.Start()
	c.Advance(5900 * time.Millisecond)
	tm.Stop()

	if !tm.Continue() {
		t.Fatal("expected Continue to succeed from stopped")
	}
	c.Advance(200 * time.Millisecond)
	if got := tm.Elapsed(); got != 6 {
		t.Errorf("expected 6 after 6.1s of running, got %d", got)
	}
	if tm.Continue() {
		t.Error("Continue must be a no-op while running")
	}
}
