package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/riftlens/riftlens/internal/cache"
	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/storage"
)

var (
	dbPath     string
	cacheDir   string
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "riftlens",
	Short: "League of Legends coaching analytics",
	Long:  "Ingest Riot Match-V5 documents and score players against champion+role cohort percentile distributions.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	home := filepath.Join(mustUserHome(), ".riftlens")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", filepath.Join(home, "riftlens.db"), "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", filepath.Join(home, "cache"), "badger cache directory (empty disables caching)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(rollupCmd)
	rootCmd.AddCommand(cohortCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(warmCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func openCache(log zerolog.Logger) cache.Cache {
	if cacheDir == "" {
		return cache.Nop{}
	}
	c, err := cache.OpenBadger(cacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		return cache.Nop{}
	}
	return c
}

// parseDay parses a YYYY-MM-DD flag value, empty meaning unbounded.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
