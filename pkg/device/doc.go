// Package device implements the base type concrete instruments build on.
//
// A Device is a parameter group plus two things every piece of hardware
// needs: a critical section serializing access to the raw hardware, and a
// state parameter announcing what the device is currently doing.
//
// # Locking
//
// WithLock is the only sanctioned way to touch raw hardware state:
//
//	err := dev.WithLock(func() error {
//		return drv.SetPosition(steps)
//	})
//
// The lock is released on every exit path. Operations on different devices
// run concurrently; operations on the same device are mutually exclusive at
// this boundary, with no fairness guarantee between concurrently issued
// asynchronous calls.
//
// # States
//
// Every device declares a finite label set which always contains "n/a",
// the state it is constructed in. SetState on a declared label updates the
// state and notifies observers of the state parameter; an unknown label is
// logged as a warning and ignored. State transitions are driven only by the
// device's own methods — the state parameter is owner-only.
package device
