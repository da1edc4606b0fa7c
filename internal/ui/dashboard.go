package ui

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/DavDaz/focus-title/internal/focus"
	"github.com/DavDaz/focus-title/internal/models"
)

// Dashboard shows the current task with its timer and the navigation controls.
type Dashboard struct {
	manager *focus.Manager
	window  fyne.Window

	titleData    binding.String
	noteData     binding.String
	timerData    binding.String
	positionData binding.String

	link      string
	noteLabel *widget.Label
	linkBtn   *widget.Button
	prevBtn   *widget.Button
	nextBtn   *widget.Button
	playBtn   *widget.Button
	stopBtn   *widget.Button
}

func NewDashboard(m *focus.Manager, w fyne.Window) *Dashboard {
	return &Dashboard{
		manager:      m,
		window:       w,
		titleData:    binding.NewString(),
		noteData:     binding.NewString(),
		timerData:    binding.NewString(),
		positionData: binding.NewString(),
	}
}

func (d *Dashboard) MakeUI() fyne.CanvasObject {
	titleLabel := widget.NewLabelWithData(d.titleData)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.Wrapping = fyne.TextWrapWord

	d.noteLabel = widget.NewLabelWithData(d.noteData)
	d.noteLabel.Alignment = fyne.TextAlignCenter
	d.noteLabel.Wrapping = fyne.TextWrapWord

	timerLabel := widget.NewLabelWithData(d.timerData)
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.Alignment = fyne.TextAlignCenter

	positionLabel := widget.NewLabelWithData(d.positionData)
	positionLabel.Alignment = fyne.TextAlignCenter

	d.linkBtn = widget.NewButtonWithIcon(lang.L("open_link"), theme.ComputerIcon(), func() {
		u, err := url.Parse(d.link)
		if err != nil || u.Scheme == "" {
			dialog.ShowError(models.Validationf("open link", "%q is not a valid URL", d.link), d.window)
			return
		}
		if err := fyne.CurrentApp().OpenURL(u); err != nil {
			dialog.ShowError(err, d.window)
		}
	})

	d.prevBtn = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		d.manager.Navigate(-1)
	})
	d.nextBtn = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		d.manager.Navigate(1)
	})
	d.playBtn = widget.NewButtonWithIcon(lang.L("play"), theme.MediaPlayIcon(), func() {
		if _, err := d.manager.StartOrToggleCurrent(); err != nil {
			dialog.ShowError(err, d.window)
		}
	})
	d.playBtn.Importance = widget.HighImportance
	d.stopBtn = widget.NewButtonWithIcon("", theme.MediaStopIcon(), func() {
		if _, err := d.manager.StopCurrent(); err != nil {
			dialog.ShowError(err, d.window)
		}
	})

	d.render()

	controls := container.NewGridWithColumns(4, d.prevBtn, d.playBtn, d.stopBtn, d.nextBtn)
	return container.NewBorder(
		positionLabel,
		controls,
		nil, nil,
		container.NewCenter(container.NewVBox(titleLabel, d.noteLabel, d.linkBtn, timerLabel)),
	)
}

// Apply updates the view for one manager event. It must run on the fyne thread.
func (d *Dashboard) Apply(ev focus.Event) {
	if ev.Kind == focus.Tick {
		if ev.Index == d.manager.CurrentIndex() {
			d.timerData.Set(models.FormatElapsed(ev.Elapsed))
		}
		return
	}
	d.render()
}

func (d *Dashboard) render() {
	cur, ok := d.manager.Current()
	if !ok {
		d.titleData.Set(lang.L("no_tasks"))
		d.noteData.Set(lang.L("no_tasks_hint"))
		d.noteLabel.Show()
		d.timerData.Set(models.FormatElapsed(0))
		d.positionData.Set("")
		d.link = ""
		d.linkBtn.Hide()
		d.prevBtn.Disable()
		d.nextBtn.Disable()
		d.playBtn.Disable()
		d.stopBtn.Disable()
		return
	}

	d.titleData.Set(cur.Title)
	d.noteData.Set(cur.Note)
	if cur.Note == "" {
		d.noteLabel.Hide()
	} else {
		d.noteLabel.Show()
	}
	d.link = cur.Link
	if cur.Link == "" {
		d.linkBtn.Hide()
	} else {
		d.linkBtn.Show()
	}
	d.timerData.Set(cur.FormattedElapsed())
	d.positionData.Set(d.manager.Position())

	setEnabled(d.prevBtn, d.manager.HasPrev())
	setEnabled(d.nextBtn, d.manager.HasNext())
	d.playBtn.Enable()
	setEnabled(d.stopBtn, cur.State != models.TimerStopped)

	if focus.ControlFor(cur.State) == focus.PauseControl {
		d.playBtn.SetText(lang.L("pause"))
		d.playBtn.SetIcon(theme.MediaPauseIcon())
	} else {
		d.playBtn.SetText(lang.L("play"))
		d.playBtn.SetIcon(theme.MediaPlayIcon())
	}
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}
