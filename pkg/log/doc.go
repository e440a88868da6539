// Package log implements structured device event logging.
//
// Devices report parameter changes, state transitions, warnings and errors
// as Event values through the Logger interface. Events are plain data:
// applications decide where they go by picking an implementation.
//
//   - NoopLogger discards everything (the default for devices given no logger)
//   - FileLogger appends CBOR-encoded events to a file
//   - SlogAdapter forwards events to a log/slog logger
//   - MultiLogger fans out to several loggers at once
//
// Reader reads CBOR event logs back, optionally filtered by device,
// category, parameter or time range.
//
// Warnings deserve a note: a device that is handed an unknown state label
// logs a CategoryWarning event and carries on. Warnings never propagate as
// errors.
package log
