// Package focus holds the ordered task collection, its selection cursor and the rules
// that keep at most one timer running.
package focus

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DavDaz/focus-title/internal/clock"
	"github.com/DavDaz/focus-title/internal/models"
)

// DefaultRefreshInterval is how often a running timer is re-rendered.
const DefaultRefreshInterval = 100 * time.Millisecond

// Store is the persistence gateway the manager depends on.
type Store interface {
	LoadActiveTasks() ([]*models.Task, error)
	SaveTask(t *models.Task) error
	SaveAll(tasks []*models.Task) error
	ArchiveAndRemove(t *models.Task, elapsed int64) (models.ArchivedTask, error)
	LoadArchived() ([]models.ArchivedTask, error)
	RestoreArchived(a models.ArchivedTask) (*models.Task, bool, error)
	PurgeArchived() error
}

// Options tune a Manager. Zero values fall back to defaults.
type Options struct {
	Clock           clock.Clock
	Logger          *zap.SugaredLogger
	RefreshInterval time.Duration
}

// Manager owns the task list and the current-task cursor.
//
// Invariants, held under mu:
//   - current is -1 iff tasks is empty, otherwise 0 <= current < len(tasks)
//   - at most one timer is Running, and only the one at current
type Manager struct {
	store   Store
	clock   clock.Clock
	log     *zap.SugaredLogger
	refresh time.Duration

	mu      sync.Mutex
	tasks   []*models.Task
	current int
	gen     uint64 // refresh loop generation

	lmu       sync.Mutex
	listeners []func(Event)

	loops sync.WaitGroup
	done  chan struct{}
	once  sync.Once
}

// NewManager returns an empty manager backed by store.
func NewManager(store Store, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	return &Manager{
		store:   store,
		clock:   opts.Clock,
		log:     opts.Logger,
		refresh: opts.RefreshInterval,
		current: -1,
		done:    make(chan struct{}),
	}
}

// Subscribe registers fn for every future event.
func (m *Manager) Subscribe(fn func(Event)) {
	m.lmu.Lock()
	m.listeners = append(m.listeners, fn)
	m.lmu.Unlock()
}

func (m *Manager) notify(events ...Event) {
	m.lmu.Lock()
	listeners := append([]func(Event){}, m.listeners...)
	m.lmu.Unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

// Load replaces the collection with the tasks in the store. Every timer comes back stopped.
func (m *Manager) Load() error {
	tasks, err := m.store.LoadActiveTasks()
	if err != nil {
		return fmt.Errorf("error loading tasks: %w", err)
	}

	m.mu.Lock()
	m.gen++
	m.tasks = tasks
	m.current = -1
	if len(tasks) > 0 {
		m.current = 0
	}
	m.mu.Unlock()

	m.log.Infow("tasks loaded", "count", len(tasks))
	m.notify(Event{Kind: TasksChanged}, Event{Kind: SelectionChanged, Index: m.CurrentIndex()})
	return nil
}

// AddTask appends a new stopped task. The title must not be blank.
func (m *Manager) AddTask(title, note, link string) (*models.Task, error) {
	if !models.ValidTitle(title) {
		return nil, models.Validationf("add task", "title is required")
	}
	task := models.NewTask(m.clock, strings.TrimSpace(title), strings.TrimSpace(note), strings.TrimSpace(link))

	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	index := len(m.tasks) - 1
	selected := false
	if m.current == -1 {
		m.current = 0
		selected = true
	}
	if err := m.store.SaveTask(task); err != nil {
		m.log.Warnw("new task kept in memory only", "title", task.Title, "error", err)
	}
	m.mu.Unlock()

	m.log.Infow("task added", "index", index, "id", task.ID, "title", task.Title)
	events := []Event{{Kind: TasksChanged, Index: index}}
	if selected {
		events = append(events, Event{Kind: SelectionChanged, Index: 0})
	}
	m.notify(events...)
	return task, nil
}

// Navigate moves the cursor by direction (-1 or +1). A running current timer is paused
// first, even when the move then falls outside the list. Navigation does not wrap.
func (m *Manager) Navigate(direction int) bool {
	if direction != -1 && direction != 1 {
		m.log.Warnw("ignoring navigation", "error", models.Indexf("navigate", "direction %d", direction))
		return false
	}

	m.mu.Lock()
	if m.current < 0 {
		m.mu.Unlock()
		return false
	}

	var events []Event
	cur := m.tasks[m.current]
	if cur.Timer().Pause() {
		events = append(events, Event{Kind: TimerChanged, Index: m.current, State: models.TimerPaused, Elapsed: cur.Elapsed()})
	}

	next := m.current + direction
	moved := next >= 0 && next < len(m.tasks)
	if moved {
		m.current = next
		t := m.tasks[next]
		events = append(events, Event{Kind: SelectionChanged, Index: next, State: t.Timer().State(), Elapsed: t.Elapsed()})
	}
	m.mu.Unlock()

	m.notify(events...)
	return moved
}

// StartOrToggleCurrent drives the single play/pause control: Stopped begins running while
// keeping any loaded or stopped progress, Running pauses, Paused resumes.
func (m *Manager) StartOrToggleCurrent() (models.TimerState, error) {
	m.mu.Lock()
	if m.current < 0 {
		m.mu.Unlock()
		err := models.Indexf("toggle timer", "no current task")
		m.log.Warnw("ignoring toggle", "error", err)
		return models.TimerStopped, err
	}

	index := m.current
	task := m.tasks[index]
	timer := task.Timer()
	switch timer.State() {
	case models.TimerStopped:
		m.pauseOthersLocked(index)
		timer.Continue()
		m.startRefreshLocked(index, task)
	case models.TimerRunning:
		timer.Pause()
	case models.TimerPaused:
		m.pauseOthersLocked(index)
		timer.Resume()
		m.startRefreshLocked(index, task)
	}
	state, elapsed := timer.State(), task.Elapsed()
	m.mu.Unlock()

	m.log.Debugw("timer toggled", "index", index, "state", state, "elapsed", elapsed)
	m.notify(Event{Kind: TimerChanged, Index: index, State: state, Elapsed: elapsed})
	return state, nil
}

// StopCurrent stops the current timer. Its elapsed time is kept as the resting value.
func (m *Manager) StopCurrent() (TaskView, error) {
	m.mu.Lock()
	if m.current < 0 {
		m.mu.Unlock()
		return TaskView{Index: -1}, models.Indexf("stop timer", "no current task")
	}
	task := m.tasks[m.current]
	task.Timer().Stop()
	view := viewOf(m.current, task)
	m.mu.Unlock()

	m.notify(Event{Kind: TimerChanged, Index: view.Index, State: view.State, Elapsed: view.Elapsed})
	return view, nil
}

func (m *Manager) pauseOthersLocked(keep int) {
	for i, t := range m.tasks {
		if i != keep && t.Timer().Pause() {
			m.log.Warnw("paused stray running timer", "index", i, "title", t.Title)
		}
	}
}

// DeleteTask archives the task at index and removes it from the collection. If the archive
// write fails the task stays active and the error is returned.
func (m *Manager) DeleteTask(index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.tasks) {
		n := len(m.tasks)
		m.mu.Unlock()
		err := models.Indexf("delete task", "index %d with %d tasks", index, n)
		m.log.Warnw("ignoring delete", "error", err)
		return err
	}

	task := m.tasks[index]
	// The timer keeps running until the archive write succeeds.
	elapsed := task.Elapsed()

	if task.ID == 0 {
		if err := m.store.SaveTask(task); err != nil {
			m.mu.Unlock()
			m.log.Errorw("delete aborted, task could not be saved", "title", task.Title, "error", err)
			return fmt.Errorf("error deleting task %q: %w", task.Title, err)
		}
	}
	if _, err := m.store.ArchiveAndRemove(task, elapsed); err != nil {
		m.mu.Unlock()
		m.log.Errorw("delete aborted, task kept active", "id", task.ID, "title", task.Title, "error", err)
		return fmt.Errorf("error deleting task %q: %w", task.Title, err)
	}
	task.Timer().Stop()
	task.SetElapsed(elapsed)

	m.tasks = append(m.tasks[:index], m.tasks[index+1:]...)
	prev := m.current
	switch {
	case len(m.tasks) == 0:
		m.current = -1
	case index < m.current:
		m.current--
	case m.current >= len(m.tasks):
		m.current = len(m.tasks) - 1
	}
	current := m.current
	if current >= 0 && current != prev {
		if survivor := m.tasks[current]; survivor.Timer().Running() {
			m.startRefreshLocked(current, survivor)
		}
	}
	m.mu.Unlock()

	m.log.Infow("task deleted", "id", task.ID, "title", task.Title, "elapsed", elapsed)
	m.notify(Event{Kind: TasksChanged, Index: index}, Event{Kind: SelectionChanged, Index: current})
	return nil
}

// RestoreTask brings an archived snapshot back as a new stopped task. Restoring a snapshot
// that is no longer archived returns (nil, nil) and adds nothing.
func (m *Manager) RestoreTask(a models.ArchivedTask) (*models.Task, error) {
	m.mu.Lock()
	task, ok, err := m.store.RestoreArchived(a)
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("error restoring task %q: %w", a.Title, err)
	}
	if !ok {
		m.mu.Unlock()
		m.log.Infow("archive entry already restored or purged", "archive_id", a.ID, "title", a.Title)
		return nil, nil
	}
	task.Timer().Stop()
	m.tasks = append(m.tasks, task)
	index := len(m.tasks) - 1
	selected := false
	if m.current == -1 {
		m.current = 0
		selected = true
	}
	m.mu.Unlock()

	m.log.Infow("task restored", "id", task.ID, "title", task.Title, "elapsed", task.Elapsed())
	events := []Event{{Kind: TasksChanged, Index: index}}
	if selected {
		events = append(events, Event{Kind: SelectionChanged, Index: 0})
	}
	m.notify(events...)
	return task, nil
}

// EditTask updates the descriptive fields of the task at index in place.
func (m *Manager) EditTask(index int, title, note, link string) error {
	if !models.ValidTitle(title) {
		return models.Validationf("edit task", "title is required")
	}

	m.mu.Lock()
	if index < 0 || index >= len(m.tasks) {
		n := len(m.tasks)
		m.mu.Unlock()
		err := models.Indexf("edit task", "index %d with %d tasks", index, n)
		m.log.Warnw("ignoring edit", "error", err)
		return err
	}
	task := m.tasks[index]
	task.Title = strings.TrimSpace(title)
	task.Note = strings.TrimSpace(note)
	task.Link = strings.TrimSpace(link)
	if err := m.store.SaveTask(task); err != nil {
		m.log.Warnw("edit kept in memory only", "id", task.ID, "error", err)
	}
	view := viewOf(index, task)
	m.mu.Unlock()

	m.notify(Event{Kind: TaskEdited, Index: index, State: view.State, Elapsed: view.Elapsed})
	return nil
}

// Flush writes the whole collection to the store. Failures are logged; memory stays the
// source of truth and the next flush retries.
func (m *Manager) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.SaveAll(m.tasks); err != nil {
		m.log.Warnw("snapshot failed, will retry", "count", len(m.tasks), "error", err)
		return err
	}
	return nil
}

// FreezeRunning pauses every running timer so its elapsed value is exact, and reports how
// many were running.
func (m *Manager) FreezeRunning() int {
	m.mu.Lock()
	var events []Event
	for i, t := range m.tasks {
		if t.Timer().Pause() {
			events = append(events, Event{Kind: TimerChanged, Index: i, State: models.TimerPaused, Elapsed: t.Elapsed()})
		}
	}
	m.mu.Unlock()

	m.notify(events...)
	return len(events)
}

// Archived lists the archive, most recently deleted first.
func (m *Manager) Archived() ([]models.ArchivedTask, error) {
	return m.store.LoadArchived()
}

// PurgeArchived permanently clears the archive.
func (m *Manager) PurgeArchived() error {
	if err := m.store.PurgeArchived(); err != nil {
		return fmt.Errorf("error purging archive: %w", err)
	}
	m.log.Info("archive purged")
	return nil
}

// Close stops any refresh loop and waits for it to exit.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
	m.loops.Wait()
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *Manager) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Current returns the selected task, if any.
func (m *Manager) Current() (TaskView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current < 0 {
		return TaskView{Index: -1}, false
	}
	return viewOf(m.current, m.tasks[m.current]), true
}

// Task returns the task at index, if any.
func (m *Manager) Task(index int) (TaskView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.tasks) {
		return TaskView{Index: index}, false
	}
	return viewOf(index, m.tasks[index]), true
}

// Tasks returns views of every task in order.
func (m *Manager) Tasks() []TaskView {
	m.mu.Lock()
	defer m.mu.Unlock()
	views := make([]TaskView, len(m.tasks))
	for i, t := range m.tasks {
		views[i] = viewOf(i, t)
	}
	return views
}

// Snapshot returns detached, stopped copies of every task.
func (m *Manager) Snapshot() []*models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Task, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = t.Frozen()
	}
	return out
}

// Position renders "Task i of N" for the cursor, or "" when empty.
func (m *Manager) Position() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current < 0 {
		return ""
	}
	return fmt.Sprintf("Task %d of %d", m.current+1, len(m.tasks))
}

// IndexOf finds the task with the given UID.
func (m *Manager) IndexOf(uid string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.UID == uid {
			return i, true
		}
	}
	return -1, false
}

func (m *Manager) HasPrev() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current > 0
}

func (m *Manager) HasNext() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current >= 0 && m.current < len(m.tasks)-1
}

// RunningCount reports how many timers are running. Anything above one is a bug.
func (m *Manager) RunningCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if t.Timer().Running() {
			n++
		}
	}
	return n
}
