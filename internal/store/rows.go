package store

import (
	"time"

	"github.com/DavDaz/focus-title/internal/clock"
	"github.com/DavDaz/focus-title/internal/models"
)

// taskRow is the persisted shape of an active task.
type taskRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	UID            string `gorm:"type:varchar(36);index"`
	Title          string `gorm:"type:text;not null"`
	Note           string `gorm:"type:text"`
	Link           string `gorm:"type:text"`
	ElapsedSeconds int64  `gorm:"not null;default:0"`
	TimerState     int    `gorm:"not null;default:0"` // informational only, ignored on load
}

func (taskRow) TableName() string {
	return "tasks"
}

// archivedRow is a frozen snapshot of a deleted task.
type archivedRow struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	UID            string    `gorm:"type:varchar(36);index"`
	Title          string    `gorm:"type:text;not null"`
	Note           string    `gorm:"type:text"`
	Link           string    `gorm:"type:text"`
	ElapsedSeconds int64     `gorm:"not null;default:0"`
	DeletedAt      time.Time `gorm:"index"`
}

func (archivedRow) TableName() string {
	return "archived_tasks"
}

func newTaskRow(t *models.Task) taskRow {
	return taskRow{
		ID:             t.ID,
		UID:            t.UID,
		Title:          t.Title,
		Note:           t.Note,
		Link:           t.Link,
		ElapsedSeconds: t.Elapsed(),
		TimerState:     int(t.Timer().State()),
	}
}

func (r taskRow) toTask(clk clock.Clock) *models.Task {
	t := models.NewTask(clk, r.Title, r.Note, r.Link)
	t.ID = r.ID
	if r.UID != "" {
		t.UID = r.UID
	}
	t.SetElapsed(r.ElapsedSeconds)
	return t
}

func (r archivedRow) toArchived() models.ArchivedTask {
	return models.ArchivedTask{
		ID:             r.ID,
		UID:            r.UID,
		Title:          r.Title,
		Note:           r.Note,
		Link:           r.Link,
		ElapsedSeconds: r.ElapsedSeconds,
		DeletedAt:      r.DeletedAt,
	}
}
