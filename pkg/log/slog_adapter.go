package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes device events to an slog.Logger.
// Useful for development when you want to see device events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Parameter and state events are
// logged at Debug level, warnings at Warn and errors at Error.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("device", event.Device),
		slog.String("category", event.Category.String()),
	}

	switch event.Category {
	case CategoryParameter:
		attrs = append(attrs,
			slog.String("parameter", event.Parameter),
			slog.Float64("value", event.Value),
		)
		if event.Unit != "" {
			attrs = append(attrs, slog.String("unit", event.Unit))
		}
	case CategoryState:
		attrs = append(attrs,
			slog.String("old_state", event.OldState),
			slog.String("new_state", event.NewState),
		)
	case CategoryWarning, CategoryError:
		attrs = append(attrs, slog.String("message", event.Message))
	}
	if event.TaskID != "" {
		attrs = append(attrs, slog.String("task_id", event.TaskID))
	}

	level := slog.LevelDebug
	switch event.Category {
	case CategoryWarning:
		level = slog.LevelWarn
	case CategoryError:
		level = slog.LevelError
	}

	a.logger.LogAttrs(context.Background(), level, "device", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
