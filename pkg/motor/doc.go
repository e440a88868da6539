// Package motor implements motorized axes on top of the device framework.
//
// Every motor pairs a Driver (raw steps, blocking calls) with a
// Calibration mapping steps to real-world coordinates:
//
//	cal := calib.NewLinear(1000, 0, unit.Length) // 1 step per mm
//	m, _ := motor.New("axis-x", drv, cal, nil, logger)
//
//	m.SetPosition(unit.Millimeters(2))
//	err := m.Move(unit.Millimeters(-0.5)).Wait()
//
// # State machine
//
// standby -> moving on every position set; moving -> standby on success or
// moving -> limit when the driver reports a hard limit, in which case the
// set fails with ErrHardLimit after the transition has been notified.
// "limit" is sticky only for the failed attempt: the next set re-enters
// "moving".
package motor
