package focus

import (
	"errors"
	"sync"
	"time"

	"github.com/DavDaz/focus-title/internal/clock"
	"github.com/DavDaz/focus-title/internal/models"
)

// memStore is an in-memory Store with switchable failures.
type memStore struct {
	mu       sync.Mutex
	clock    clock.Clock
	nextID   int64
	nextArch int64
	active   map[int64]memRow
	order    []int64
	archive  []models.ArchivedTask

	failSave    bool
	failSaveAll bool
	failArchive bool

	saveAllCalls int
}

type memRow struct {
	task    models.Task
	elapsed int64
	state   models.TimerState
}

var errInjected = models.Persistence("test", errors.New("injected failure"))

func newMemStore(c clock.Clock) *memStore {
	return &memStore{clock: c, active: map[int64]memRow{}}
}

func (s *memStore) put(t *models.Task) {
	if t.ID == 0 {
		s.nextID++
		t.ID = s.nextID
	}
	if _, ok := s.active[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.active[t.ID] = memRow{task: *t, elapsed: t.Elapsed(), state: t.Timer().State()}
}

func (s *memStore) LoadActiveTasks() ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Task
	for _, id := range s.order {
		r := s.active[id]
		t := models.NewTask(s.clock, r.task.Title, r.task.Note, r.task.Link)
		t.ID = id
		t.UID = r.task.UID
		t.SetElapsed(r.elapsed)
		out = append(out, t)
	}
	return out, nil
}

func (s *memStore) SaveTask(t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errInjected
	}
	s.put(t)
	return nil
}

func (s *memStore) SaveAll(tasks []*models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveAllCalls++
	if s.failSaveAll {
		return errInjected
	}
	s.active = map[int64]memRow{}
	s.order = nil
	for _, t := range tasks {
		s.put(t)
	}
	return nil
}

func (s *memStore) ArchiveAndRemove(t *models.Task, elapsed int64) (models.ArchivedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failArchive {
		return models.ArchivedTask{}, errInjected
	}
	s.nextArch++
	a := models.ArchivedTask{
		ID: s.nextArch, UID: t.UID, Title: t.Title, Note: t.Note, Link: t.Link,
		ElapsedSeconds: elapsed, DeletedAt: s.clock.Now(),
	}
	s.archive = append([]models.ArchivedTask{a}, s.archive...)
	delete(s.active, t.ID)
	for i, id := range s.order {
		if id == t.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return a, nil
}

func (s *memStore) LoadArchived() ([]models.ArchivedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ArchivedTask{}, s.archive...), nil
}

func (s *memStore) RestoreArchived(a models.ArchivedTask) (*models.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, snap := range s.archive {
		if snap.ID != a.ID {
			continue
		}
		t := models.NewTask(s.clock, snap.Title, snap.Note, snap.Link)
		t.UID = snap.UID
		t.SetElapsed(snap.ElapsedSeconds)
		s.put(t)
		s.archive = append(s.archive[:i], s.archive[i+1:]...)
		return t, true, nil
	}
	return nil, false, nil
}

func (s *memStore) PurgeArchived() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archive = nil
	return nil
}

func (s *memStore) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func (s *memStore) savedElapsed(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[id].elapsed
}

// eventLog records events for assertions.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) count(kind EventKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func testStart() time.Time {
	return time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)
}
