// Package param implements the parameter framework devices are built on.
//
// # Parameters
//
// A Parameter is a named, dimension-typed, observable slot. The mutable
// value lives in the owning object and is reached through getter/setter
// closures; the Parameter carries identity, validation and notification:
//
//	position := param.New(&param.Metadata{
//		Name: "position",
//		Dim:  unit.Length,
//		Get:  motor.calibratedPosition,
//		Set:  motor.setCalibratedPosition,
//	})
//
// A parameter without a setter is read-only. An optional Limiter refuses
// out-of-range candidates before the setter runs (a soft limit). Observers
// are notified synchronously, in subscription order, after the mutation
// succeeded — never before, and never when it failed.
//
// # Groups
//
// A Group is a named collection of parameters with generic access:
//
//	v, err := dev.Get("position")
//	err = dev.Set("position", unit.Millimeters(5.5))
//	t := dev.SetAsync("position", unit.Millimeters(5.5))
//	err = t.Wait()
//
// Unknown names, duplicate registrations and writes to read-only or
// owner-only parameters fail with distinct sentinel errors.
package param
