package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends device events to an on-disk CBOR stream, the
// format Reader and the concert-log tool consume. One FileLogger is
// typically shared by every device of a rig, so Log is safe to call
// from concurrently moving devices.
type FileLogger struct {
	mu      sync.Mutex
	f       *os.File
	encoder *cbor.Encoder
	closed  bool
}

// NewFileLogger opens the event log at path for appending, creating it
// with mode 0644 when it does not exist yet.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{f: f, encoder: NewEncoder(f)}, nil
}

// Log appends one event. Write failures are dropped: the event log must
// never fail the device operation that produced the event.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	_ = l.encoder.Encode(event)
}

// Close closes the log file. Closing twice is fine; events logged after
// Close are dropped.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.f.Close()
}

var _ Logger = (*FileLogger)(nil)
