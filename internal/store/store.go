package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DavDaz/focus-title/internal/clock"
	"github.com/DavDaz/focus-title/internal/models"
)

// Storage is the SQLite-backed gateway for active and archived tasks.
// Every exported method holds mu for exactly one store operation.
type Storage struct {
	Path  string
	db    *gorm.DB
	clock clock.Clock
	log   *zap.SugaredLogger
	mu    sync.Mutex
}

// Open creates the database file (and its directory) if needed and migrates the schema.
func Open(path string, clk clock.Clock, log *zap.SugaredLogger) (*Storage, error) {
	if clk == nil {
		clk = clock.System{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating data folder: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&taskRow{}, &archivedRow{}); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	log.Infow("database opened", "path", path)
	return &Storage{Path: path, db: db, clock: clk, log: log}, nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlDB, err := s.db.DB()
	if err != nil {
		return s.fail("close", err)
	}
	if err := sqlDB.Close(); err != nil {
		return s.fail("close", err)
	}
	s.log.Info("database closed")
	return nil
}

// LoadActiveTasks rebuilds every active task. Timers always come back Stopped with the
// persisted elapsed value as their resting value: nothing advanced them while the process
// was down.
func (s *Storage) LoadActiveTasks() ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []taskRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, s.fail("load tasks", err)
	}

	tasks := make([]*models.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toTask(s.clock))
	}
	s.log.Debugw("tasks loaded", "count", len(tasks))
	return tasks, nil
}

// SaveTask upserts one task by id and assigns an id on first insert.
func (s *Storage) SaveTask(t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureUID(t)
	row := newTaskRow(t)
	var err error
	if row.ID == 0 {
		err = s.db.Create(&row).Error
	} else {
		err = s.db.Save(&row).Error
	}
	if err != nil {
		return s.fail("save task", err)
	}
	t.ID = row.ID
	s.log.Debugw("task saved", "id", t.ID, "elapsed", row.ElapsedSeconds, "state", t.Timer().State())
	return nil
}

// SaveAll replaces the active table with tasks. Existing ids are kept, new tasks get one.
// The replacement is a single transaction, so a failure leaves the previous snapshot.
func (s *Storage) SaveAll(tasks []*models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]taskRow, len(tasks))
	for i, t := range tasks {
		ensureUID(t)
		rows[i] = newTaskRow(t)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&taskRow{}).Error; err != nil {
			return err
		}
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.fail("save all tasks", err)
	}

	for i, t := range tasks {
		t.ID = rows[i].ID
	}
	s.log.Debugw("snapshot saved", "count", len(tasks))
	return nil
}

// ArchiveAndRemove moves t into the archive with elapsed as its frozen time, then removes
// the active row. Both happen in one transaction: if the archive insert fails the active
// row survives.
func (s *Storage) ArchiveAndRemove(t *models.Task, elapsed int64) (models.ArchivedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureUID(t)
	if elapsed < 0 {
		elapsed = 0
	}
	row := archivedRow{
		UID:            t.UID,
		Title:          t.Title,
		Note:           t.Note,
		Link:           t.Link,
		ElapsedSeconds: elapsed,
		DeletedAt:      s.clock.Now().UTC(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if t.ID == 0 {
			return nil
		}
		res := tx.Delete(&taskRow{}, t.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			s.log.Warnw("archived task had no active row", "id", t.ID, "title", t.Title)
		}
		return nil
	})
	if err != nil {
		return models.ArchivedTask{}, s.fail("archive task", err)
	}

	s.log.Infow("task archived", "id", t.ID, "archive_id", row.ID, "elapsed", elapsed)
	return row.toArchived(), nil
}

// LoadArchived lists archived tasks, most recently deleted first.
func (s *Storage) LoadArchived() ([]models.ArchivedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []archivedRow
	if err := s.db.Order("deleted_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, s.fail("load archive", err)
	}

	archived := make([]models.ArchivedTask, 0, len(rows))
	for _, r := range rows {
		archived = append(archived, r.toArchived())
	}
	return archived, nil
}

// RestoreArchived turns a snapshot back into an active task and removes the snapshot, in
// one transaction. ok is false when the snapshot is already gone (restored or purged).
func (s *Storage) RestoreArchived(a models.ArchivedTask) (*models.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var task *models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var snap archivedRow
		if err := tx.First(&snap, a.ID).Error; err != nil {
			return err
		}

		task = models.NewTask(s.clock, snap.Title, snap.Note, snap.Link)
		if snap.UID != "" {
			task.UID = snap.UID
		}
		task.SetElapsed(snap.ElapsedSeconds)

		row := newTaskRow(task)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		task.ID = row.ID
		return tx.Delete(&archivedRow{}, snap.ID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Infow("archive entry already gone", "archive_id", a.ID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, s.fail("restore task", err)
	}

	s.log.Infow("task restored", "archive_id", a.ID, "id", task.ID, "elapsed", task.Elapsed())
	return task, true, nil
}

// PurgeArchived empties the archive.
func (s *Storage) PurgeArchived() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.Where("1 = 1").Delete(&archivedRow{})
	if res.Error != nil {
		return s.fail("purge archive", res.Error)
	}
	s.log.Infow("archive purged", "removed", res.RowsAffected)
	return nil
}

// fail logs a store error and converts it into a persistence error.
func (s *Storage) fail(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		s.log.Warnw("database busy", "op", op, "error", err, "retryable", true)
	} else {
		s.log.Errorw("database error", "op", op, "error", err)
	}
	return models.Persistence(op, err)
}

func ensureUID(t *models.Task) {
	if t.UID == "" {
		t.UID = uuid.New().String()
	}
}
