package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
}

// UseCaseObserver receives an event after every service call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes one "service_use_case" line per event to w.
// Calls refused for user input (rule violations, unknown ids) log at WARN;
// anything else that failed logs at ERROR.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	level := slog.LevelInfo
	if event.Err != nil {
		level = slog.LevelError
		var verr *ValidationError
		if errors.As(event.Err, &verr) {
			level = slog.LevelWarn
			attrs = append(attrs, slog.Int("issues", len(verr.Issues)))
		} else if errors.Is(event.Err, ErrRecordNotFound) || errors.Is(event.Err, ErrDuplicateID) {
			level = slog.LevelWarn
		}
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}
	o.logger.LogAttrs(ctx, level, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// useCase times one call. Callers defer u.done(ctx, err) with a named error
// result and may add fields along the way.
type useCase struct {
	observer  UseCaseObserver
	name      string
	startedAt time.Time
	fields    map[string]any
}

func (s *scheduleService) begin(name string, fields map[string]any) *useCase {
	if fields == nil {
		fields = map[string]any{}
	}
	return &useCase{observer: s.observer, name: name, startedAt: s.now(), fields: fields}
}

func (u *useCase) set(key string, value any) { u.fields[key] = value }

func (u *useCase) done(ctx context.Context, err error) {
	u.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      u.name,
		StartedAt: u.startedAt,
		Duration:  time.Since(u.startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    u.fields,
	})
}
