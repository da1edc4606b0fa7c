package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DavDaz/focus-title/internal/models"
	"github.com/DavDaz/focus-title/internal/service"
	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

var tableProps = props.TableList{
	HeaderProp: props.TableListContent{
		Size:      10,
		GridSizes: []uint{4, 5, 3},
	},
	ContentProp: props.TableListContent{
		Size:      10,
		GridSizes: []uint{4, 5, 3},
	},
	Align:                consts.Center,
	AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
	HeaderContentSpace:   1,
	Line:                 false,
}

// WritePDF renders a report with the active tasks and the archived tasks grouped by
// deletion date.
func WritePDF(path string, active []*models.Task, archived []models.ArchivedTask, groupBy service.GroupBy, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating export folder: %w", err)
	}

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Focus Title report", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(now.Format(dateLayout), props.Text{
					Top:   3,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	headers := []string{"Title", "Note", "Time"}
	var total int64

	section(m, "Active tasks", 14)
	if len(active) == 0 {
		note(m, "No active tasks")
	} else {
		rows := make([][]string, 0, len(active))
		for _, t := range active {
			secs := t.Elapsed()
			total += secs
			rows = append(rows, []string{t.Title, t.Note, models.FormatElapsed(secs)})
		}
		m.TableList(headers, rows, tableProps)
	}

	m.Row(5, func() {})
	section(m, "Archived tasks", 14)
	groups := service.GroupArchived(archived, groupBy, now.Location())
	if len(groups) == 0 {
		note(m, "Trash is empty")
	}
	for _, g := range groups {
		if g.Title != "" {
			section(m, g.Title, 12)
		}
		rows := make([][]string, 0, len(g.Tasks))
		for _, a := range g.Tasks {
			rows = append(rows, []string{a.Title, a.Note, models.FormatElapsed(a.ElapsedSeconds)})
		}
		m.TableList(headers, rows, tableProps)

		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("Subtotal: %s", models.FormatElapsed(g.Total)), props.Text{
					Style: consts.Bold,
					Align: consts.Right,
					Size:  10,
				})
			})
		})
		total += g.Total
	}

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Total time: %s", models.FormatElapsed(total)), props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	if err := m.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("error writing pdf: %w", err)
	}
	return nil
}

func section(m pdf.Maroto, title string, size float64) {
	m.Row(10, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{
				Top:   5,
				Style: consts.Bold,
				Size:  size,
				Align: consts.Left,
			})
		})
	})
}

func note(m pdf.Maroto, text string) {
	m.Row(8, func() {
		m.Col(12, func() {
			m.Text(text, props.Text{Size: 10, Style: consts.Italic})
		})
	})
}
