package log

import "github.com/concert-control/concert-go/pkg/unit"

// ParameterObserver turns parameter change notifications into log events.
// Subscribe it to any parameter to record its changes:
//
//	p, _ := motor.Param("position")
//	p.Subscribe(log.NewParameterObserver(logger))
type ParameterObserver struct {
	logger Logger
}

// NewParameterObserver creates an observer that writes change events to logger.
func NewParameterObserver(logger Logger) *ParameterObserver {
	return &ParameterObserver{logger: logger}
}

// OnParameterChanged records the change as a CategoryParameter event.
func (o *ParameterObserver) OnParameterChanged(owner, name string, value unit.Value) {
	o.logger.Log(ParameterEvent(owner, name, value))
}
