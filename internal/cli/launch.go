package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/DavDaz/focus-title/internal/autosave"
	"github.com/DavDaz/focus-title/internal/clock"
	"github.com/DavDaz/focus-title/internal/focus"
	"github.com/DavDaz/focus-title/internal/ui"
)

func runLaunch(cmd *cobra.Command, flags *rootFlags) error {
	os.Setenv("FYNE_SCALE", "auto")

	e, err := openEnv(flags)
	if err != nil {
		return err
	}
	defer e.syncLog()

	manager := focus.NewManager(e.store, focus.Options{
		Clock:           clock.System{},
		Logger:          e.log,
		RefreshInterval: e.cfg.RefreshInterval,
	})
	defer manager.Close()

	if err := manager.Load(); err != nil {
		e.store.Close()
		return err
	}

	// The driver closes the store after its final flush.
	driver := autosave.New(manager, e.store, e.cfg.AutosaveInterval, e.log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go driver.Run(ctx)

	app := ui.New(ui.Options{
		Manager: manager,
		Driver:  driver,
		Config:  e.cfg,
		Logger:  e.log,
	})
	driver.WatchSignals(ctx, func(os.Signal) { app.Quit() })

	e.log.Infow("window opened", "tasks", manager.Len(), "database", e.store.Path)
	app.Run()

	driver.Shutdown()
	e.log.Info("focus-title stopped")
	return nil
}
