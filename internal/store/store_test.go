package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DavDaz/focus-title/internal/clock"
	"github.com/DavDaz/focus-title/internal/models"
)

// createTestStorage opens a throwaway database file.
func createTestStorage(t *testing.T) (*Storage, *clock.Manual, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "focus-store-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	c := clock.NewManual(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	s, err := Open(filepath.Join(tmpDir, "data", "focus_title.db"), c, nil)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open storage: %v", err)
	}

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return s, c, cleanup
}

func TestSaveTaskAssignsIDAndRoundTrips(t *testing.T) {
	tests := []struct {
		name  string
		drive func(*models.Task, *clock.Manual)
	}{
		{"stopped", func(*models.Task, *clock.Manual) {}},
		{"running", func(task *models.Task, c *clock.Manual) {
			task.Timer().ResumeFrom(task.Elapsed())
			c.Advance(15 * time.Second)
		}},
		{"paused", func(task *models.Task, c *clock.Manual) {
			task.Timer().ResumeFrom(task.Elapsed())
			c.Advance(15 * time.Second)
			task.Timer().Pause()
		}},
	}

	for _, tt := range tests {
		t.Run("Given a "+tt.name+" task When saved and reloaded Then fields match and timer is stopped", func(t *testing.T) {
			s, c, cleanup := createTestStorage(t)
			defer cleanup()

			task := models.NewTask(c, "Write report", "quarterly", "https://example.com/r")
			task.SetElapsed(100)
			tt.drive(task, c)
			want := task.Elapsed()

			if err := s.SaveTask(task); err != nil {
				t.Fatalf("SaveTask failed: %v", err)
			}
			if task.ID == 0 {
				t.Fatal("expected id to be assigned")
			}

			loaded, err := s.LoadActiveTasks()
			if err != nil {
				t.Fatalf("LoadActiveTasks failed: %v", err)
			}
			if len(loaded) != 1 {
				t.Fatalf("expected 1 task, got %d", len(loaded))
			}
			got := loaded[0]
			if got.ID != task.ID || got.UID != task.UID {
				t.Errorf("identity mismatch: got %d/%s want %d/%s", got.ID, got.UID, task.ID, task.UID)
			}
			if got.Title != task.Title || got.Note != task.Note || got.Link != task.Link {
				t.Errorf("fields mismatch: got %+v", got)
			}
			if got.Elapsed() != want {
				t.Errorf("expected elapsed %d, got %d", want, got.Elapsed())
			}
			if got.Timer().State() != models.TimerStopped {
				t.Errorf("expected stopped timer, got %s", got.Timer().State())
			}

			c.Advance(time.Hour)
			if got.Elapsed() != want {
				t.Errorf("loaded timer advanced on its own: %d", got.Elapsed())
			}
		})
	}
}

func TestSaveTaskUpdatesExistingRow(t *testing.T) {
	s, c, cleanup := createTestStorage(t)
	defer cleanup()

	task := models.NewTask(c, "Draft", "", "")
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask failed: %v", err)
	}
	id := task.ID

	task.Title = "Final"
	task.SetElapsed(12)
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask update failed: %v", err)
	}
	if task.ID != id {
		t.Errorf("expected id to stay %d, got %d", id, task.ID)
	}

	loaded, _ := s.LoadActiveTasks()
	if len(loaded) != 1 || loaded[0].Title != "Final" || loaded[0].Elapsed() != 12 {
		t.Errorf("expected single updated row, got %+v", loaded)
	}
}

func TestSaveAllReplacesAndKeepsIDs(t *testing.T) {
	s, c, cleanup := createTestStorage(t)
	defer cleanup()

	a := models.NewTask(c, "A", "", "")
	b := models.NewTask(c, "B", "", "")
	if err := s.SaveAll([]*models.Task{a, b}); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %d and %d", a.ID, b.ID)
	}
	idB := b.ID

	cTask := models.NewTask(c, "C", "", "")
	b.SetElapsed(33)
	if err := s.SaveAll([]*models.Task{b, cTask}); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if b.ID != idB {
		t.Errorf("expected B to keep id %d, got %d", idB, b.ID)
	}

	loaded, err := s.LoadActiveTasks()
	if err != nil {
		t.Fatalf("LoadActiveTasks failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 tasks after replace, got %d", len(loaded))
	}
	if loaded[0].Title != "B" || loaded[0].Elapsed() != 33 {
		t.Errorf("expected B with 33s first, got %s/%d", loaded[0].Title, loaded[0].Elapsed())
	}
	if loaded[1].Title != "C" || loaded[1].ID != cTask.ID {
		t.Errorf("expected C second with id %d, got %s/%d", cTask.ID, loaded[1].Title, loaded[1].ID)
	}
}

func TestArchiveAndRemoveUsesOverride(t *testing.T) {
	s, c, cleanup := createTestStorage(t)
	defer cleanup()

	task := models.NewTask(c, "Review PR", "note", "")
	task.SetElapsed(10)
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask failed: %v", err)
	}

	archived, err := s.ArchiveAndRemove(task, 125)
	if err != nil {
		t.Fatalf("ArchiveAndRemove failed: %v", err)
	}
	if archived.ElapsedSeconds != 125 || archived.UID != task.UID {
		t.Errorf("unexpected snapshot %+v", archived)
	}
	if !archived.DeletedAt.Equal(c.Now()) {
		t.Errorf("expected deleted_at %v, got %v", c.Now(), archived.DeletedAt)
	}

	active, _ := s.LoadActiveTasks()
	if len(active) != 0 {
		t.Errorf("expected no active tasks, got %d", len(active))
	}
	list, err := s.LoadArchived()
	if err != nil {
		t.Fatalf("LoadArchived failed: %v", err)
	}
	if len(list) != 1 || list[0].ElapsedSeconds != 125 || list[0].Title != "Review PR" {
		t.Errorf("unexpected archive contents %+v", list)
	}
}

func TestArchiveAndRemoveUnsavedTask(t *testing.T) {
	s, c, cleanup := createTestStorage(t)
	defer cleanup()

	task := models.NewTask(c, "Never saved", "", "")
	if _, err := s.ArchiveAndRemove(task, 7); err != nil {
		t.Fatalf("ArchiveAndRemove failed: %v", err)
	}
	list, _ := s.LoadArchived()
	if len(list) != 1 || list[0].ElapsedSeconds != 7 {
		t.Errorf("expected archived unsaved task, got %+v", list)
	}
}

func TestArchiveFailureKeepsActiveRow(t *testing.T) {
	s, c, cleanup := createTestStorage(t)
	defer cleanup()

	task := models.NewTask(c, "Keep me", "", "")
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask failed: %v", err)
	}
	if err := s.db.Exec("DROP TABLE archived_tasks").Error; err != nil {
		t.Fatalf("failed to drop archive table: %v", err)
	}

	_, err := s.ArchiveAndRemove(task, 5)
	if !errors.Is(err, models.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	active, err := s.LoadActiveTasks()
	if err != nil {
		t.Fatalf("LoadActiveTasks failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != task.ID {
		t.Errorf("expected active row to survive, got %+v", active)
	}
}

func TestLoadArchivedNewestFirst(t *testing.T) {
	s, c, cleanup := createTestStorage(t)
	defer cleanup()

	for _, title := range []string{"first", "second", "third"} {
		task := models.NewTask(c, title, "", "")
		if _, err := s.ArchiveAndRemove(task, 1); err != nil {
			t.Fatalf("ArchiveAndRemove failed: %v", err)
		}
		c.Advance(time.Minute)
	}

	list, err := s.LoadArchived()
	if err != nil {
		t.Fatalf("LoadArchived failed: %v", err)
	}
	var got []string
	for _, a := range list {
		got = append(got, a.Title)
	}
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestRestoreArchivedIsIdempotent(t *testing.T) {
	s, c, cleanup := createTestStorage(t)
	defer cleanup()

	task := models.NewTask(c, "Restore me", "n", "https://example.com")
	archived, err := s.ArchiveAndRemove(task, 90)
	if err != nil {
		t.Fatalf("ArchiveAndRemove failed: %v", err)
	}

	restored, ok, err := s.RestoreArchived(archived)
	if err != nil || !ok {
		t.Fatalf("RestoreArchived failed: ok=%v err=%v", ok, err)
	}
	if restored.ID == 0 || restored.UID != task.UID {
		t.Errorf("unexpected restored identity %d/%s", restored.ID, restored.UID)
	}
	if restored.Elapsed() != 90 || restored.Timer().State() != models.TimerStopped {
		t.Errorf("expected stopped at 90, got %s/%d", restored.Timer().State(), restored.Elapsed())
	}

	again, ok, err := s.RestoreArchived(archived)
	if err != nil {
		t.Fatalf("second restore should not fail: %v", err)
	}
	if ok || again != nil {
		t.Errorf("expected second restore to be a no-op, got ok=%v task=%v", ok, again)
	}

	active, _ := s.LoadActiveTasks()
	if len(active) != 1 {
		t.Errorf("expected exactly one active task, got %d", len(active))
	}
	list, _ := s.LoadArchived()
	if len(list) != 0 {
		t.Errorf("expected empty archive, got %d entries", len(list))
	}
}

func TestPurgeArchivedIsIdempotent(t *testing.T) {
	s, c, cleanup := createTestStorage(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if _, err := s.ArchiveAndRemove(models.NewTask(c, "x", "", ""), int64(i)); err != nil {
			t.Fatalf("ArchiveAndRemove failed: %v", err)
		}
	}
	if err := s.PurgeArchived(); err != nil {
		t.Fatalf("PurgeArchived failed: %v", err)
	}
	if err := s.PurgeArchived(); err != nil {
		t.Fatalf("second PurgeArchived failed: %v", err)
	}
	list, _ := s.LoadArchived()
	if len(list) != 0 {
		t.Errorf("expected empty archive, got %d", len(list))
	}
}

func TestOperationsAfterCloseReturnPersistenceError(t *testing.T) {
	s, c, cleanup := createTestStorage(t)
	defer cleanup()

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	err := s.SaveTask(models.NewTask(c, "late", "", ""))
	if !errors.Is(err, models.ErrPersistence) {
		t.Errorf("expected persistence error after close, got %v", err)
	}
}
