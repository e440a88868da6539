// Package task provides the asynchronous operation wrapper used by devices.
//
// Any blocking device method can be handed to Spawn, which schedules the
// body on a background worker and immediately returns a *Task handle. The
// handle exposes Wait, which blocks the caller until the body completes and
// propagates the body's error.
//
// Tasks deliberately have no cancellation: once a body has started it runs
// to completion or failure. Callers that need to abandon an operation simply
// stop waiting on the handle.
//
// Two tasks spawned against the same device may be picked up by workers in
// any order; only the device's own lock serializes hardware access.
package task
