package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/month-planner/internal/app"
	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/store"
	"github.com/nhle/month-planner/internal/theme"
)

// flushTimeout bounds the final write on exit.
const flushTimeout = 5 * time.Second

type options struct {
	configPath string
	backend    string
	dbPath     string
	logFile    string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "planner",
		Short:         "Month calendar task planner for the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "config file")
	f.StringVar(&opts.backend, "backend", "", "storage backend (sqlite, file, memory)")
	f.StringVar(&opts.dbPath, "db", "", "path of the sqlite database or JSON file")
	f.StringVar(&opts.logFile, "log-file", "", "write JSON logs to this file")
	f.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(exportCmd(opts))
	cmd.AddCommand(configCmd(opts))

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func (o *options) loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.backend != "" {
		cfg.Storage.Backend = o.backend
	}
	if o.dbPath != "" {
		if cfg.Storage.Backend == model.BackendFile {
			cfg.Storage.JSONPath = o.dbPath
		} else {
			cfg.Storage.SQLitePath = o.dbPath
		}
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runTUI(ctx context.Context, opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("closing backend", "error", err)
		}
	}()

	weekStart, err := cfg.Display.FirstWeekday()
	if err != nil {
		return err
	}
	theme.SetBackground(cfg.Display.Theme)

	writer := store.NewAsyncWriter(store.NewBackendPersister(backend), logger)
	tasks := store.NewTaskStore(writer, logger)
	tasks.Load(ctx)

	logger.Info("starting planner", "backend", cfg.Storage.Backend, "tasks", tasks.Len())

	m := app.New(app.Options{
		Store:     tasks,
		WeekStart: weekStart,
		Today:     model.Today(),
		Logger:    logger,

		Config:     cfg,
		ConfigPath: opts.configPath,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, runErr := p.Run()

	closeCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := writer.Close(closeCtx); err != nil {
		logger.Error("flushing tasks", "error", err)
		if runErr == nil {
			runErr = fmt.Errorf("saving tasks: %w", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("running planner: %w", runErr)
	}
	return nil
}

// openBackend builds the configured storage backend.
func openBackend(cfg model.StorageConfig) (store.Backend, error) {
	switch cfg.Backend {
	case model.BackendMemory:
		return store.NewMemoryBackend(), nil
	case model.BackendFile:
		return store.NewFileBackend(cfg.JSONPath)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return store.NewSQLiteBackend(cfg.SQLitePath)
	}
}

// newLogger returns a JSON logger writing to cfg.File. The terminal is
// owned by the UI, so an empty path discards logs.
func newLogger(cfg model.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	if cfg.File == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, func() { _ = f.Close() }, nil
}
