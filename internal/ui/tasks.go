package ui

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/DavDaz/focus-title/internal/focus"
	"github.com/DavDaz/focus-title/internal/models"
)

// TaskList is the add form plus the list of every active task.
type TaskList struct {
	manager *focus.Manager
	window  fyne.Window

	views []focus.TaskView
	list  *widget.List
}

func NewTaskList(m *focus.Manager, w fyne.Window) *TaskList {
	return &TaskList{manager: m, window: w}
}

func titleValidator(s string) error {
	if !models.ValidTitle(s) {
		return errors.New(lang.L("title_required"))
	}
	return nil
}

func (l *TaskList) MakeUI() fyne.CanvasObject {
	titleEntry := widget.NewEntry()
	titleEntry.PlaceHolder = lang.L("title_placeholder")
	noteEntry := widget.NewMultiLineEntry()
	noteEntry.PlaceHolder = lang.L("note_placeholder")
	noteEntry.SetMinRowsVisible(2)
	linkEntry := widget.NewEntry()
	linkEntry.PlaceHolder = lang.L("link_placeholder")

	errLabel := widget.NewLabel("")
	errLabel.Importance = widget.DangerImportance
	errLabel.Hide()

	add := func() {
		_, err := l.manager.AddTask(titleEntry.Text, noteEntry.Text, linkEntry.Text)
		if errors.Is(err, models.ErrValidation) {
			errLabel.SetText(lang.L("title_required"))
			errLabel.Show()
			return
		}
		if err != nil {
			dialog.ShowError(err, l.window)
			return
		}
		errLabel.Hide()
		titleEntry.SetText("")
		noteEntry.SetText("")
		linkEntry.SetText("")
	}
	titleEntry.OnSubmitted = func(string) { add() }
	addBtn := widget.NewButtonWithIcon(lang.L("add_task"), theme.ContentAddIcon(), add)
	addBtn.Importance = widget.HighImportance

	l.list = widget.NewList(
		func() int { return len(l.views) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil,
				container.NewHBox(
					widget.NewLabel("00:00"),
					widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil),
					widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
				),
				widget.NewLabel("Title"))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= len(l.views) {
				return
			}
			v := l.views[i]
			box := o.(*fyne.Container)
			title := box.Objects[0].(*widget.Label)
			rightBox := box.Objects[1].(*fyne.Container)
			dur := rightBox.Objects[0].(*widget.Label)
			editBtn := rightBox.Objects[1].(*widget.Button)
			delBtn := rightBox.Objects[2].(*widget.Button)

			title.SetText(v.Title)
			title.TextStyle = fyne.TextStyle{Bold: v.Index == l.manager.CurrentIndex()}
			title.Refresh()
			dur.SetText(v.FormattedElapsed())
			dur.TextStyle = fyne.TextStyle{Italic: v.State == models.TimerRunning}
			dur.Refresh()

			editBtn.OnTapped = func() { l.showEditDialog(v) }
			delBtn.OnTapped = func() { l.confirmDelete(v) }
		},
	)
	l.Refresh()

	form := widget.NewForm(
		widget.NewFormItem(lang.L("title"), titleEntry),
		widget.NewFormItem(lang.L("note"), noteEntry),
		widget.NewFormItem(lang.L("link"), linkEntry),
	)
	return container.NewBorder(
		container.NewVBox(form, errLabel, addBtn, widget.NewSeparator()),
		nil, nil, nil,
		l.list,
	)
}

// Refresh reloads the task views. It must run on the fyne thread.
func (l *TaskList) Refresh() {
	l.views = l.manager.Tasks()
	if l.list != nil {
		l.list.Refresh()
	}
}

func (l *TaskList) confirmDelete(v focus.TaskView) {
	dialog.ShowConfirm(lang.L("confirm_delete_title"), lang.L("confirm_delete_msg"), func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := l.deleteTask(v); err != nil {
			dialog.ShowError(err, l.window)
		}
	}, l.window)
}

// deleteTask and editTask resolve the row by UID, since the list may have changed while
// the dialog was open. A task that is already gone is ignored.
func (l *TaskList) deleteTask(v focus.TaskView) error {
	index, ok := l.manager.IndexOf(v.UID)
	if !ok {
		return nil
	}
	return l.manager.DeleteTask(index)
}

func (l *TaskList) editTask(v focus.TaskView, title, note, link string) error {
	index, ok := l.manager.IndexOf(v.UID)
	if !ok {
		return nil
	}
	return l.manager.EditTask(index, title, note, link)
}

func (l *TaskList) showEditDialog(v focus.TaskView) {
	titleEntry := widget.NewEntry()
	titleEntry.SetText(v.Title)
	titleEntry.Validator = titleValidator
	noteEntry := widget.NewMultiLineEntry()
	noteEntry.SetText(v.Note)
	linkEntry := widget.NewEntry()
	linkEntry.SetText(v.Link)

	items := []*widget.FormItem{
		widget.NewFormItem(lang.L("title"), titleEntry),
		widget.NewFormItem(lang.L("note"), noteEntry),
		widget.NewFormItem(lang.L("link"), linkEntry),
	}

	dlg := dialog.NewForm(lang.L("edit_task"), lang.L("save"), lang.L("cancel"), items, func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := l.editTask(v, titleEntry.Text, noteEntry.Text, linkEntry.Text); err != nil {
			dialog.ShowError(err, l.window)
		}
	}, l.window)
	dlg.Resize(fyne.NewSize(l.window.Canvas().Size().Width, dlg.MinSize().Height))
	dlg.Show()
}
