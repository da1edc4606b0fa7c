package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DavDaz/focus-title/internal/clock"
)

// TimerState is the persisted state of a task stopwatch.
type TimerState int

const (
	TimerStopped TimerState = iota
	TimerRunning
	TimerPaused
)

func (s TimerState) String() string {
	switch s {
	case TimerStopped:
		return "stopped"
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Task is a user-defined focus item. It owns exactly one Timer.
type Task struct {
	ID    int64  // 0 until first persisted
	UID   string // stable identity, survives archive and restore
	Title string
	Note  string // empty when absent
	Link  string // empty when absent

	timer *Timer
}

// NewTask builds a task with a stopped timer at zero. The title is not validated here.
func NewTask(clk clock.Clock, title, note, link string) *Task {
	return &Task{
		UID:   uuid.New().String(),
		Title: title,
		Note:  note,
		Link:  link,
		timer: NewTimer(clk),
	}
}

// Timer returns the task's stopwatch.
func (t *Task) Timer() *Timer { return t.timer }

// Elapsed is the timer's effective elapsed seconds.
func (t *Task) Elapsed() int64 { return t.timer.Elapsed() }

// SetElapsed forces the timer's elapsed seconds.
func (t *Task) SetElapsed(seconds int64) { t.timer.SetElapsed(seconds) }

// Frozen returns a detached copy whose timer is stopped at the current elapsed value.
func (t *Task) Frozen() *Task {
	c := *t
	c.timer = NewTimer(t.timer.clock)
	c.timer.SetElapsed(t.Elapsed())
	return &c
}

func (t *Task) HasNote() bool { return strings.TrimSpace(t.Note) != "" }

func (t *Task) HasLink() bool { return strings.TrimSpace(t.Link) != "" }

// ArchivedTask is a frozen snapshot of a deleted task. It has no timer.
type ArchivedTask struct {
	ID             int64
	UID            string
	Title          string
	Note           string
	Link           string
	ElapsedSeconds int64
	DeletedAt      time.Time
}

// ValidTitle reports whether title has any non-whitespace content.
func ValidTitle(title string) bool {
	return strings.TrimSpace(title) != ""
}
