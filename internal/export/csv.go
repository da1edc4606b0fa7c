// Package export writes the task collection and the trash to CSV and PDF files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/DavDaz/focus-title/internal/models"
)

const (
	StatusActive   = "Active"
	StatusArchived = "Archived"

	dateLayout = "2006-01-02 15:04:05"
)

var csvHeader = []string{"Task#", "Title", "Note", "Link", "Seconds", "FormattedTime", "Status", "DeletedDate"}

// FileName returns focus_title_tasks_<YYYYMMDD_HHMMSS>.<ext>.
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("focus_title_tasks_%s.%s", now.Format("20060102_150405"), ext)
}

// WriteCSV writes active tasks numbered from 1 followed by archived tasks continuing the
// numbering. Deletion dates are rendered in loc.
func WriteCSV(w io.Writer, active []*models.Task, archived []models.ArchivedTask, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	n := 0
	for _, t := range active {
		n++
		secs := t.Elapsed()
		err := cw.Write([]string{
			strconv.Itoa(n), t.Title, t.Note, t.Link,
			strconv.FormatInt(secs, 10), models.FormatElapsed(secs),
			StatusActive, "",
		})
		if err != nil {
			return err
		}
	}
	for _, a := range archived {
		n++
		err := cw.Write([]string{
			strconv.Itoa(n), a.Title, a.Note, a.Link,
			strconv.FormatInt(a.ElapsedSeconds, 10), models.FormatElapsed(a.ElapsedSeconds),
			StatusArchived, a.DeletedAt.In(loc).Format(dateLayout),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the CSV to path, creating parent directories as needed.
func SaveCSV(path string, active []*models.Task, archived []models.ArchivedTask) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating export folder: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating export file: %w", err)
	}
	if err := WriteCSV(f, active, archived, time.Local); err != nil {
		f.Close()
		return fmt.Errorf("error writing csv: %w", err)
	}
	return f.Close()
}
