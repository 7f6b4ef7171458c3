package playback

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"covidsonif/internal/models"

	"github.com/goccy/go-json"
)

// Sink receives playback events. What it does with them (sound, MIDI, a
// chart) is up to the host.
type Sink interface {
	Emit(ctx context.Context, ev models.Event) error
}

type SinkFunc func(ctx context.Context, ev models.Event) error

func (f SinkFunc) Emit(ctx context.Context, ev models.Event) error { return f(ctx, ev) }

// LogSink writes each event as a structured log record.
type LogSink struct {
	Logger *slog.Logger
	Level  slog.Level
}

func (s LogSink) Emit(ctx context.Context, ev models.Event) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(ctx, s.Level, "tick",
		"seq", ev.Seq,
		"region", ev.Region,
		"date", ev.Date,
		"amount", ev.Amount,
		"level", ev.Level,
		"null", ev.Null,
	)
	return nil
}

// JSONSink writes one JSON object per line.
type JSONSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

func (s *JSONSink) Emit(_ context.Context, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(ev)
}
