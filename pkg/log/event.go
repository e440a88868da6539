package log

import (
	"time"

	"github.com/concert-control/concert-go/pkg/unit"
)

// Event represents a device log event. CBOR encoding uses integer keys
// for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Device is the name of the device the event belongs to.
	Device string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Parameter is the parameter name, for parameter change events.
	Parameter string `cbor:"4,keyasint,omitempty"`

	// Value is the parameter value in its canonical unit.
	Value float64 `cbor:"5,keyasint,omitempty"`

	// Unit is the canonical unit symbol of Value.
	Unit string `cbor:"6,keyasint,omitempty"`

	// OldState and NewState describe a state transition.
	OldState string `cbor:"7,keyasint,omitempty"`
	NewState string `cbor:"8,keyasint,omitempty"`

	// TaskID identifies the asynchronous task the event belongs to.
	TaskID string `cbor:"9,keyasint,omitempty"`

	// Message carries free-form text for warnings and errors.
	Message string `cbor:"10,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryParameter indicates a parameter value change.
	CategoryParameter Category = 0
	// CategoryState indicates a device state transition.
	CategoryState Category = 1
	// CategoryWarning indicates a non-fatal condition that was logged
	// and swallowed (for example an unknown state label).
	CategoryWarning Category = 2
	// CategoryError indicates a failed operation.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryParameter:
		return "PARAMETER"
	case CategoryState:
		return "STATE"
	case CategoryWarning:
		return "WARNING"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParameterEvent builds a parameter change event for the given value.
func ParameterEvent(device, name string, value unit.Value) Event {
	return Event{
		Timestamp: time.Now(),
		Device:    device,
		Category:  CategoryParameter,
		Parameter: name,
		Value:     value.Magnitude(),
		Unit:      value.Dim().String(),
	}
}

// WithTask tags the event with the asynchronous task it belongs to.
func (e Event) WithTask(id string) Event {
	e.TaskID = id
	return e
}

// StateEvent builds a state transition event.
func StateEvent(device, oldState, newState string) Event {
	return Event{
		Timestamp: time.Now(),
		Device:    device,
		Category:  CategoryState,
		OldState:  oldState,
		NewState:  newState,
	}
}

// WarningEvent builds a warning event.
func WarningEvent(device, message string) Event {
	return Event{
		Timestamp: time.Now(),
		Device:    device,
		Category:  CategoryWarning,
		Message:   message,
	}
}

// ErrorEvent builds an error event.
func ErrorEvent(device string, err error) Event {
	return Event{
		Timestamp: time.Now(),
		Device:    device,
		Category:  CategoryError,
		Message:   err.Error(),
	}
}
