package ui

import (
	"embed"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"go.uber.org/zap"

	"github.com/DavDaz/focus-title/internal/autosave"
	"github.com/DavDaz/focus-title/internal/config"
	"github.com/DavDaz/focus-title/internal/focus"
)

//go:embed translations
var translations embed.FS

type Options struct {
	Manager *focus.Manager
	Driver  *autosave.Driver
	Config  *config.Config
	Logger  *zap.SugaredLogger
}

// App is the desktop window with its tabs and tray menu.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	manager *focus.Manager
	driver  *autosave.Driver
	log     *zap.SugaredLogger

	// closing drops manager events once shutdown has begun.
	closing atomic.Bool
}

func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := lang.AddTranslationsFS(translations, "translations"); err != nil {
		log.Warnw("translations not loaded", "error", err)
	}

	a := app.NewWithID("com.davdaz.focus-title")
	a.Settings().SetTheme(theme.DarkTheme())
	icon := theme.HistoryIcon()
	a.SetIcon(icon)

	w := a.NewWindow(lang.L("app_title"))
	w.Resize(fyne.NewSize(420, 560))

	ui := &App{
		fyneApp: a,
		window:  w,
		manager: opts.Manager,
		driver:  opts.Driver,
		log:     log,
	}

	dashboard := NewDashboard(ui.manager, w)
	tasks := NewTaskList(ui.manager, w)
	trash := NewTrash(ui.manager, w)
	settings := NewConfig(w, opts.Config, ui.manager, log)

	tabs := container.NewAppTabs(
		container.NewTabItem(lang.L("focus_tab"), dashboard.MakeUI()),
		container.NewTabItem(lang.L("tasks_tab"), tasks.MakeUI()),
		container.NewTabItem(lang.L("trash_tab"), trash.MakeUI()),
		container.NewTabItem(lang.L("settings_tab"), settings.MakeUI()),
	)
	w.SetContent(tabs)

	ui.manager.Subscribe(func(ev focus.Event) {
		if ui.closing.Load() {
			return
		}
		fyne.Do(func() {
			dashboard.Apply(ev)
			if ev.Kind != focus.Tick {
				tasks.Refresh()
			}
			if ev.Kind == focus.TasksChanged {
				trash.Refresh()
			}
		})
	})

	SetupTray(a, w, icon, ui.manager, ui.Quit)
	w.SetCloseIntercept(ui.Quit)
	return ui
}

// Run shows the window and blocks until the application quits.
func (ui *App) Run() {
	ui.window.ShowAndRun()
}

// Quit freezes and saves everything, then stops the event loop. Safe to call from any
// goroutine.
func (ui *App) Quit() {
	if ui.closing.Swap(true) {
		return
	}
	go func() {
		if ui.driver != nil {
			ui.driver.Shutdown()
		}
		fyne.Do(ui.fyneApp.Quit)
	}()
}
