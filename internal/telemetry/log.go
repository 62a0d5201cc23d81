package telemetry

import (
	"context"
	"log/slog"
)

// LogSink writes solve events to a structured logger at debug level, except
// failed solves which are logged as warnings.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With(slog.String("component", "telemetry"))}
}

func (l *LogSink) SolveBegin(ctx context.Context, ev SolveEvent) context.Context {
	l.logger.DebugContext(ctx, "solve begin",
		slog.String("run_id", ev.RunID),
		slog.Int("chunk_x", ev.ChunkX),
		slog.Int("chunk_y", ev.ChunkY))
	return ctx
}

func (l *LogSink) SolveEnd(ctx context.Context, ev SolveEvent) {
	attrs := []any{
		slog.String("run_id", ev.RunID),
		slog.Int("chunk_x", ev.ChunkX),
		slog.Int("chunk_y", ev.ChunkY),
		slog.Int("iterations", ev.Iterations),
		slog.Int("backtracks", ev.Backtracks),
		slog.Duration("elapsed", ev.Elapsed),
	}
	if ev.Err != nil {
		l.logger.WarnContext(ctx, "solve failed", append(attrs, slog.Any("err", ev.Err))...)
		return
	}
	l.logger.DebugContext(ctx, "solve end", attrs...)
}

func (l *LogSink) Contradiction(ctx context.Context, ev SolveEvent) {
	l.logger.DebugContext(ctx, "contradiction",
		slog.String("run_id", ev.RunID),
		slog.Int("x", ev.X),
		slog.Int("y", ev.Y),
		slog.Int("depth", ev.Depth))
}

func (l *LogSink) Rollback(ctx context.Context, ev SolveEvent) {
	l.logger.DebugContext(ctx, "rollback",
		slog.String("run_id", ev.RunID),
		slog.Int("depth", ev.Depth),
		slog.Int("backtracks", ev.Backtracks))
}

func (l *LogSink) ActiveChunks(n int) {
	l.logger.Debug("active chunks", slog.Int("count", n))
}

func (l *LogSink) ChunkSaved() {}

func (l *LogSink) Shortlist(int) {}
