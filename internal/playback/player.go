// Package playback walks a region's series in date order at a fixed pace and
// hands each step, normalized to [0,1], to a Sink.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"covidsonif/internal/engine"
	"covidsonif/internal/models"

	"golang.org/x/time/rate"
)

// DefaultInterval is the pause between two emitted dates.
const DefaultInterval = 250 * time.Millisecond

type Player struct {
	sink     Sink
	interval time.Duration
	scale    engine.Amount
	logger   *slog.Logger
}

type Option func(*Player)

// WithInterval sets the pace. Zero or negative plays as fast as the sink
// accepts events.
func WithInterval(d time.Duration) Option {
	return func(p *Player) { p.interval = d }
}

// WithScale normalizes against scale instead of the series' own highest
// value, so several regions can share one scale.
func WithScale(scale engine.Amount) Option {
	return func(p *Player) { p.scale = scale }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPlayer(sink Sink, opts ...Option) *Player {
	p := &Player{
		sink:     sink,
		interval: DefaultInterval,
		scale:    engine.NullAmount,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Normalize maps amount onto [0,1] relative to scale. Null amounts map to 0
// and report null=true.
func Normalize(amount, scale engine.Amount) (level float64, null bool) {
	if amount.IsNull() {
		return 0, true
	}
	if scale <= 0 {
		return 0, false
	}
	level = float64(amount) / float64(scale)
	switch {
	case level < 0:
		level = 0
	case level > 1:
		level = 1
	}
	return level, false
}

// Play emits one event per date of series, oldest first. It returns the
// number of events emitted, stopping early when ctx is done or the sink
// fails.
func (p *Player) Play(ctx context.Context, series *engine.RegionSeries) (int, error) {
	scale := p.scale
	if scale.IsNull() {
		scale = series.Highest()
	}

	var limiter *rate.Limiter
	if p.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(p.interval), 1)
	}

	dates := series.SortedDates()
	p.logger.Debug("playback started", "region", series.Name(), "dates", len(dates), "scale", float64(scale), "interval", p.interval)

	start := time.Now()
	emitted := 0
	for _, date := range dates {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return emitted, fmt.Errorf("playback %s: %w", series.Name(), ctxErr(ctx, err))
			}
		} else if err := ctx.Err(); err != nil {
			return emitted, fmt.Errorf("playback %s: %w", series.Name(), err)
		}

		amount, err := series.Get(date)
		if err != nil {
			return emitted, err
		}
		level, null := Normalize(amount, scale)
		ev := models.Event{
			Seq:    emitted,
			Region: series.Name(),
			Date:   date,
			Level:  level,
			Null:   null,
		}
		if !null {
			ev.Amount = float64(amount)
		}
		if err := p.sink.Emit(ctx, ev); err != nil {
			return emitted, fmt.Errorf("emit %s %s: %w", series.Name(), date, err)
		}
		emitted++
	}

	p.logger.Info("playback finished", "region", series.Name(), "events", emitted, "elapsed", time.Since(start))
	return emitted, nil
}

// ctxErr prefers the context's own error; rate.Limiter reports a deadline
// it cannot meet with a plain error.
func ctxErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}
