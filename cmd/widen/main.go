package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"covidsonif/internal/config"
	"covidsonif/internal/convert"
	"covidsonif/internal/logging"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.LoadWiden()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	t0 := time.Now()
	st, err := widen(cfg)
	if err != nil {
		logger.Error("conversion failed", "input", cfg.Input, "error", err)
		os.Exit(1)
	}
	logger.Info("conversion complete",
		"input", cfg.Input,
		"output", cfg.Output,
		"rows", st.Rows,
		"skipped", st.Skipped,
		"duplicates", st.Duplicates,
		"dates", st.Dates,
		"regions", st.Regions,
		"elapsed", time.Since(t0),
	)
}

// widen writes through a temp file next to the output, renamed into place
// on success.
func widen(cfg *config.WidenConfig) (convert.Stats, error) {
	in, err := os.Open(cfg.Input)
	if err != nil {
		return convert.Stats{}, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(cfg.Output), ".widen-*.csv")
	if err != nil {
		return convert.Stats{}, fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	st, err := convert.LongToWide(in, tmp, convert.Options{
		RegionColumn: cfg.RegionColumn,
		DateColumn:   cfg.DateColumn,
		ValueColumn:  cfg.ValueColumn,
	})
	if err != nil {
		tmp.Close()
		return st, err
	}
	if err := tmp.Close(); err != nil {
		return st, fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), cfg.Output); err != nil {
		return st, fmt.Errorf("install output: %w", err)
	}
	return st, nil
}
