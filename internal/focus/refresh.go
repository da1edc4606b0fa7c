package focus

import (
	"time"

	"github.com/DavDaz/focus-title/internal/models"
)

// startRefreshLocked launches the display loop for the task at index. Any older loop sees
// a stale generation on its next tick and exits, so at most one loop emits ticks.
func (m *Manager) startRefreshLocked(index int, task *models.Task) {
	m.gen++
	gen := m.gen

	select {
	case <-m.done:
		return
	default:
	}

	m.loops.Add(1)
	go m.refreshLoop(gen, index, task)
}

// refreshLoop emits a Tick roughly every refresh interval while the captured task is still
// running at the captured index. It exits on its own once either stops holding.
func (m *Manager) refreshLoop(gen uint64, index int, task *models.Task) {
	defer m.loops.Done()

	ticker := time.NewTicker(m.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
		}

		m.mu.Lock()
		alive := gen == m.gen &&
			index == m.current &&
			index < len(m.tasks) &&
			m.tasks[index] == task &&
			task.Timer().Running()
		elapsed := task.Elapsed()
		m.mu.Unlock()

		if !alive {
			return
		}
		m.notify(Event{Kind: Tick, Index: index, State: models.TimerRunning, Elapsed: elapsed})
	}
}
