package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/DavDaz/focus-title/internal/config"
	"github.com/DavDaz/focus-title/internal/export"
	"github.com/DavDaz/focus-title/internal/focus"
	"github.com/DavDaz/focus-title/internal/models"
	"github.com/DavDaz/focus-title/internal/service"
)

// Config is the settings tab: data folder, autosave interval and exports.
type Config struct {
	window  fyne.Window
	cfg     *config.Config
	manager *focus.Manager
	log     *zap.SugaredLogger
}

func NewConfig(w fyne.Window, cfg *config.Config, m *focus.Manager, log *zap.SugaredLogger) *Config {
	return &Config{window: w, cfg: cfg, manager: m, log: log}
}

func intervalValidator(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return errors.New(lang.L("invalid_interval"))
	}
	return nil
}

func folderValidator(s string) error {
	if strings.TrimSpace(s) == "" {
		return models.Validationf("settings", "%s", lang.L("data_folder_required"))
	}
	return nil
}

func (c *Config) MakeUI() fyne.CanvasObject {
	entry := widget.NewEntry()
	entry.SetText(c.cfg.DataFolder)
	entry.Validator = folderValidator

	browseBtn := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, c.window)
				return
			}
			if uri == nil {
				return
			}
			entry.SetText(uri.Path())
		}, c.window).Show()
	})
	folderContainer := container.NewBorder(nil, nil, nil, browseBtn, entry)

	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(c.cfg.AutosaveInterval.String())
	intervalEntry.Validator = intervalValidator

	saveBtn := widget.NewButton(lang.L("save_configuration"), func() {
		if err := folderValidator(entry.Text); err != nil {
			dialog.ShowError(err, c.window)
			return
		}
		if err := intervalEntry.Validate(); err != nil {
			dialog.ShowError(err, c.window)
			return
		}
		interval, _ := time.ParseDuration(intervalEntry.Text)

		c.cfg.DataFolder = entry.Text
		c.cfg.AutosaveInterval = interval
		if err := c.cfg.Save(); err != nil {
			dialog.ShowError(err, c.window)
			return
		}
		c.log.Infow("configuration saved", "path", c.cfg.Path(), "data_folder", entry.Text, "autosave_interval", interval)
		dialog.ShowInformation(lang.L("success"), lang.L("config_saved"), c.window)
	})

	csvBtn := widget.NewButtonWithIcon(lang.L("export_csv"), theme.DocumentSaveIcon(), func() {
		c.export("csv")
	})
	pdfBtn := widget.NewButtonWithIcon(lang.L("export_pdf"), theme.DocumentPrintIcon(), func() {
		c.export("pdf")
	})

	quitBtn := widget.NewButtonWithIcon(lang.L("quit_application"), theme.LogoutIcon(), func() {
		c.window.Close()
	})

	return container.NewVBox(
		widget.NewLabel(lang.L("settings_tab")),
		widget.NewForm(
			widget.NewFormItem(lang.L("data_folder"), folderContainer),
			widget.NewFormItem(lang.L("autosave_interval"), intervalEntry),
		),
		saveBtn,
		widget.NewSeparator(),
		container.NewGridWithColumns(2, csvBtn, pdfBtn),
		widget.NewSeparator(),
		quitBtn,
	)
}

func (c *Config) export(format string) {
	active := c.manager.Snapshot()
	archived, err := c.manager.Archived()
	if err != nil {
		dialog.ShowError(err, c.window)
		return
	}

	now := time.Now()
	path := filepath.Join(c.cfg.ExportDir(), export.FileName(now, format))
	if format == "pdf" {
		err = export.WritePDF(path, active, archived, service.GroupByDay, now)
	} else {
		err = export.SaveCSV(path, active, archived)
	}
	if err != nil {
		c.log.Errorw("export failed", "format", format, "error", err)
		dialog.ShowError(err, c.window)
		return
	}
	c.log.Infow("tasks exported", "path", path, "format", format)
	dialog.ShowInformation(lang.L("success"), lang.L("exported_to")+" "+path, c.window)
}
