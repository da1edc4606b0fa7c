package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/lang"

	"github.com/DavDaz/focus-title/internal/focus"
)

// SetupTray installs the system tray menu when the driver supports one.
func SetupTray(a fyne.App, w fyne.Window, icon fyne.Resource, m *focus.Manager, quit func()) {
	desk, ok := a.(desktop.App)
	if !ok {
		return
	}
	menu := fyne.NewMenu(lang.L("app_title"),
		fyne.NewMenuItem(lang.L("show"), func() {
			w.Show()
			w.RequestFocus()
		}),
		fyne.NewMenuItem(lang.L("pause_resume"), func() {
			m.StartOrToggleCurrent()
		}),
		fyne.NewMenuItem(lang.L("stop"), func() {
			m.StopCurrent()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(lang.L("previous"), func() {
			m.Navigate(-1)
		}),
		fyne.NewMenuItem(lang.L("next"), func() {
			m.Navigate(1)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(lang.L("quit_application"), quit),
	)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(icon)
}
