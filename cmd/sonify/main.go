package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"covidsonif/internal/api"
	"covidsonif/internal/catalog"
	"covidsonif/internal/config"
	"covidsonif/internal/engine"
	"covidsonif/internal/logging"
	"covidsonif/internal/playback"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted")
			return
		}
		logger.Error("sonify failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	// 1. Resolve the dataset through the catalog
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return err
	}
	if _, err := cat.Lookup(cfg.Dataset); err != nil {
		return fmt.Errorf("%w (catalog has: %s)", err, strings.Join(cat.Names(), ", "))
	}
	mode, err := engine.ParseModeOf(cfg.ParseMode)
	if err != nil {
		return err
	}
	logger.Info("configuration loaded",
		"catalog", cfg.Catalog,
		"dataset", cfg.Dataset,
		"region", cfg.Region,
		"parse_mode", mode,
		"interval", cfg.Interval,
	)

	// 2. Handler starts with no data; queries report ErrLoading until SetData
	h := api.NewHandler(nil)

	// 3. Import every catalog entry in the background
	type result struct {
		sets map[string]*engine.Dataset
		err  error
	}
	done := make(chan result, 1)
	go func() {
		logger.Info("importing datasets", "count", cat.Len())
		t0 := time.Now()
		sets, err := catalog.ImportAll(ctx, cat,
			engine.WithParseMode(mode),
			engine.WithAggregateRegion(cfg.AggregateRegion),
			engine.WithLogger(logger),
		)
		if err == nil {
			h.SetData(sets[cfg.Dataset])
			logger.Info("import finished", "elapsed", time.Since(t0))
		}
		done <- result{sets, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return res.err
	}

	// 4. Summaries
	sum, err := h.Summary(cfg.IncludeAggregate)
	if err != nil {
		return err
	}
	if strings.EqualFold(cfg.Output, "json") {
		err = api.WriteJSON(out, sum)
	} else {
		err = api.RenderTable(out, sum)
	}
	if err != nil {
		return err
	}
	for _, name := range cat.Names() {
		ds := res.sets[name]
		logger.Info("dataset ready",
			"dataset", name,
			"regions", ds.Size(),
			"highest", float64(ds.HighestInDataset(cfg.IncludeAggregate)),
			"malformed_cells", ds.Report().MalformedCells,
		)
	}

	// 5. Optional columnar export
	if cfg.ArrowOut != "" {
		if err := exportArrow(h, cfg.ArrowOut); err != nil {
			return err
		}
		logger.Info("arrow export written", "path", cfg.ArrowOut)
	}

	// 6. Play the selected region against the dataset-wide scale
	ds := res.sets[cfg.Dataset]
	series, err := ds.RegionByName(cfg.Region)
	if err != nil {
		return err
	}
	scale := ds.HighestInDataset(cfg.IncludeAggregate)
	if cfg.Region == ds.AggregateRegion() && !cfg.IncludeAggregate {
		scale = series.Highest()
	}
	player := playback.NewPlayer(
		playback.LogSink{Logger: logger, Level: slog.LevelInfo},
		playback.WithInterval(cfg.Interval),
		playback.WithScale(scale),
		playback.WithLogger(logger),
	)
	_, err = player.Play(ctx, series)
	return err
}

func exportArrow(h *api.Handler, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create arrow output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close arrow output: %w", cerr)
		}
	}()
	return h.WriteArrow(f)
}
