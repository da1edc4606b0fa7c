package models

import (
	"time"

	"github.com/DavDaz/focus-title/internal/clock"
)

// Timer is a per-task stopwatch with Stopped, Running and Paused states.
//
// While Running the effective elapsed time is now - runningSince; otherwise it is the
// accumulated value. Every transition keeps the two equal at the instant it happens, so
// the observed elapsed time never jumps. Elapsed values are floored to whole seconds; the
// sub-second remainder is kept internally so repeated pause/resume cycles do not lose it.
//
// A Timer is not safe for concurrent use. Its owner serializes access.
type Timer struct {
	clock        clock.Clock
	state        TimerState
	accumulated  time.Duration
	runningSince time.Time // zero unless Running
}

// NewTimer returns a stopped timer at zero.
func NewTimer(clk clock.Clock) *Timer {
	if clk == nil {
		clk = clock.System{}
	}
	return &Timer{clock: clk, state: TimerStopped}
}

func (t *Timer) State() TimerState { return t.state }

func (t *Timer) Running() bool { return t.state == TimerRunning }

// Start begins a fresh run at zero. Only valid from Stopped.
func (t *Timer) Start() bool {
	if t.state != TimerStopped {
		return false
	}
	t.accumulated = 0
	t.runningSince = t.clock.Now()
	t.state = TimerRunning
	return true
}

// ResumeFrom begins running from Stopped while keeping saved seconds of prior progress.
func (t *Timer) ResumeFrom(saved int64) bool {
	if t.state != TimerStopped {
		return false
	}
	t.accumulated = seconds(saved)
	t.runningSince = t.clock.Now().Add(-t.accumulated)
	t.state = TimerRunning
	return true
}

// Continue begins running from Stopped at the timer's own resting value, sub-second
// remainder included.
func (t *Timer) Continue() bool {
	if t.state != TimerStopped {
		return false
	}
	t.runningSince = t.clock.Now().Add(-t.accumulated)
	t.state = TimerRunning
	return true
}

// Pause freezes the running value. No-op unless Running.
func (t *Timer) Pause() bool {
	if t.state != TimerRunning {
		return false
	}
	t.accumulated = t.live()
	t.runningSince = time.Time{}
	t.state = TimerPaused
	return true
}

// Resume continues a paused run. No-op unless Paused.
func (t *Timer) Resume() bool {
	if t.state != TimerPaused {
		return false
	}
	t.runningSince = t.clock.Now().Add(-t.accumulated)
	t.state = TimerRunning
	return true
}

// Stop moves to Stopped from any state, keeping the last elapsed value as its resting value.
func (t *Timer) Stop() {
	if t.state == TimerRunning {
		t.accumulated = t.live()
	}
	t.runningSince = time.Time{}
	t.state = TimerStopped
}

// Elapsed returns the effective elapsed whole seconds. It never mutates the timer.
func (t *Timer) Elapsed() int64 {
	if t.state == TimerRunning {
		return int64(t.live() / time.Second)
	}
	return int64(t.accumulated / time.Second)
}

// SetElapsed overrides the elapsed time. A running timer is rebased so the new value is
// visible immediately; the state does not change.
func (t *Timer) SetElapsed(v int64) {
	t.accumulated = seconds(v)
	if t.state == TimerRunning {
		t.runningSince = t.clock.Now().Add(-t.accumulated)
	}
}

func (t *Timer) live() time.Duration {
	d := t.clock.Now().Sub(t.runningSince)
	if d < 0 {
		return 0
	}
	return d
}

func seconds(v int64) time.Duration {
	if v < 0 {
		v = 0
	}
	return time.Duration(v) * time.Second
}
