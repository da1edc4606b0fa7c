package focus

import "github.com/DavDaz/focus-title/internal/models"

// EventKind tells listeners which part of the manager state changed.
type EventKind int

const (
	TasksChanged EventKind = iota
	SelectionChanged
	TimerChanged
	TaskEdited
	Tick
)

func (k EventKind) String() string {
	switch k {
	case TasksChanged:
		return "tasks-changed"
	case SelectionChanged:
		return "selection-changed"
	case TimerChanged:
		return "timer-changed"
	case TaskEdited:
		return "task-edited"
	case Tick:
		return "tick"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the manager lock is released, so listeners may
// call back into the manager.
type Event struct {
	Kind    EventKind
	Index   int
	State   models.TimerState
	Elapsed int64
}

// Control is the single play/pause affordance the view shows for the current task.
type Control int

const (
	PlayControl Control = iota
	PauseControl
)

// ControlFor maps a timer state to the affordance: a running timer offers pause,
// anything else offers play.
func ControlFor(s models.TimerState) Control {
	if s == models.TimerRunning {
		return PauseControl
	}
	return PlayControl
}

// TaskView is a read-only copy of one task for rendering.
type TaskView struct {
	Index   int
	ID      int64
	UID     string
	Title   string
	Note    string
	Link    string
	Elapsed int64
	State   models.TimerState
}

func viewOf(i int, t *models.Task) TaskView {
	return TaskView{
		Index:   i,
		ID:      t.ID,
		UID:     t.UID,
		Title:   t.Title,
		Note:    t.Note,
		Link:    t.Link,
		Elapsed: t.Elapsed(),
		State:   t.Timer().State(),
	}
}

// FormattedElapsed renders the view's elapsed time for display.
func (v TaskView) FormattedElapsed() string {
	return models.FormatElapsed(v.Elapsed)
}
