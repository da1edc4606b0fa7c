package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/DavDaz/focus-title/internal/focus"
	"github.com/DavDaz/focus-title/internal/models"
)

// Trash lists archived tasks, newest first, with restore and purge.
type Trash struct {
	manager *focus.Manager
	window  fyne.Window

	archived []models.ArchivedTask
	list     *widget.List
	empty    *widget.Label
	purgeBtn *widget.Button
}

func NewTrash(m *focus.Manager, w fyne.Window) *Trash {
	return &Trash{manager: m, window: w}
}

func (t *Trash) MakeUI() fyne.CanvasObject {
	t.list = widget.NewList(
		func() int { return len(t.archived) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil,
				container.NewHBox(
					widget.NewLabel("00:00:00"),
					widget.NewButtonWithIcon("", theme.ContentUndoIcon(), nil),
				),
				container.NewVBox(
					widget.NewLabelWithStyle("Title", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
					widget.NewLabelWithStyle("Date", fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
				))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= len(t.archived) {
				return
			}
			a := t.archived[i]
			box := o.(*fyne.Container)
			infoBox := box.Objects[0].(*fyne.Container)
			rightBox := box.Objects[1].(*fyne.Container)

			infoBox.Objects[0].(*widget.Label).SetText(a.Title)
			infoBox.Objects[1].(*widget.Label).SetText(
				fmt.Sprintf("%s %s", lang.L("deleted_on"), a.DeletedAt.Local().Format("Mon, 02 Jan 15:04")))
			rightBox.Objects[0].(*widget.Label).SetText(models.FormatElapsed(a.ElapsedSeconds))
			rightBox.Objects[1].(*widget.Button).OnTapped = func() { t.restore(a) }
		},
	)

	t.empty = widget.NewLabel(lang.L("trash_empty"))
	t.empty.Alignment = fyne.TextAlignCenter

	t.purgeBtn = widget.NewButtonWithIcon(lang.L("purge_trash"), theme.DeleteIcon(), func() {
		dialog.ShowConfirm(lang.L("purge_trash"), lang.L("purge_confirm"), func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := t.manager.PurgeArchived(); err != nil {
				dialog.ShowError(err, t.window)
			}
			t.Refresh()
		}, t.window)
	})
	t.purgeBtn.Importance = widget.DangerImportance

	t.Refresh()
	return container.NewBorder(nil, t.purgeBtn, nil, nil, container.NewStack(t.list, t.empty))
}

// Refresh reloads the archive. It must run on the fyne thread.
func (t *Trash) Refresh() {
	archived, err := t.manager.Archived()
	if err != nil {
		dialog.ShowError(err, t.window)
		return
	}
	t.archived = archived
	if t.list == nil {
		return
	}
	if len(archived) == 0 {
		t.empty.Show()
		t.purgeBtn.Disable()
	} else {
		t.empty.Hide()
		t.purgeBtn.Enable()
	}
	t.list.Refresh()
}

func (t *Trash) restore(a models.ArchivedTask) {
	task, err := t.manager.RestoreTask(a)
	if err != nil {
		dialog.ShowError(err, t.window)
		return
	}
	if task == nil {
		dialog.ShowInformation(lang.L("restore"), lang.L("already_restored"), t.window)
	}
	t.Refresh()
}
