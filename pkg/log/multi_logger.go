package log

// MultiLogger fans each device event out to several sinks. A rig
// typically combines the on-disk event log with the console adapter:
//
//	log.NewMultiLogger(fileLogger, log.NewSlogAdapter(slogger))
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger combines the given sinks into one Logger.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	return &MultiLogger{sinks: sinks}
}

// Log hands the event to every sink, in the order they were given.
func (m *MultiLogger) Log(event Event) {
	for _, sink := range m.sinks {
		sink.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
