package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/DavDaz/focus-title/internal/clock"
	"github.com/DavDaz/focus-title/internal/config"
	"github.com/DavDaz/focus-title/internal/logging"
	"github.com/DavDaz/focus-title/internal/store"
)

// env is what every command needs: configuration, a logger and an open store.
type env struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	store   *store.Storage
	syncLog func()
}

func openEnv(flags *rootFlags) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	log, syncLog, err := logging.New(logging.Options{
		Dir:     cfg.LogDir(),
		Level:   cfg.LogLevel,
		Verbose: flags.verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("error setting up logging: %w", err)
	}

	dbPath := cfg.DatabasePath()
	if flags.dbPath != "" {
		dbPath = flags.dbPath
	}
	s, err := store.Open(dbPath, clock.System{}, log)
	if err != nil {
		syncLog()
		return nil, err
	}
	return &env{cfg: cfg, log: log, store: s, syncLog: syncLog}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.log.Warnw("error closing store", "error", err)
	}
	e.syncLog()
}
