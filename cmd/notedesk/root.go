package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"notedesk/internal/config"
	"notedesk/internal/controller"
	"notedesk/internal/gateway"
	"notedesk/internal/storage"
	"notedesk/internal/update"
)

var (
	cfgPath string
	verbose bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "notedesk",
	Short: "A terminal note and to-do manager",
	Long: `Notedesk keeps notes and to-dos in a local SQLite database,
with categories, priorities, due dates and file attachments.
Running it without a subcommand opens the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		level := parseLevel(cfg.LogLevel)
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		ctrl, closeRepo, err := buildController(ctx)
		if err != nil {
			return err
		}
		defer closeRepo()

		program := tea.NewProgram(update.NewModel(ctx, ctrl, cfg.UI.Theme), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// buildController opens the database, runs migrations and seeds the
// catalogs, then wires the gateway and controller.
func buildController(ctx context.Context) (*controller.Controller, func(), error) {
	repo, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}

	gw := gateway.New(repo, slog.Default())
	gw.LoadAll(ctx)

	ctrl := controller.New(gw, cfg.Attachments.Dir, slog.Default())
	return ctrl, func() { _ = repo.Close() }, nil
}

func openDatabase() (*storage.SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	repo, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateUp(repo.DB()); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := storage.Seed(repo.DB()); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("seed catalogs: %w", err)
	}
	return repo, nil
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
