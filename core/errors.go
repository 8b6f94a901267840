package core

import "errors"

// Motion errors. Every fallible motion operation returns one of these; no
// panics cross the hardware-facing API.
var (
	// ErrInvalidPosition rejects a zero target. The wire protocol parses a
	// bare move command as position 0, so 0 doubles as the "no argument"
	// sentinel and is never a valid coordinate.
	ErrInvalidPosition = errors.New("zero position is not a valid target")

	// ErrBusy means the clamp pair is reserved by an operation in flight.
	ErrBusy = errors.New("clamp motors busy")

	// ErrTimeout means a bounded wait exceeded its budget. The axes
	// involved are always braked before this is returned.
	ErrTimeout = errors.New("motion timeout")

	// ErrStopped means the operation was aborted by an emergency stop.
	ErrStopped = errors.New("motion stopped")
)

// HardwareMismatchError reports that an axis did not land on the expected
// position after the homing backoff and was forcibly corrected. Stepping is
// open loop, so a mismatch here is the only visible sign of missed steps.
// The correction already happened when this is returned; callers treat it
// as a warning, not a failure.
type HardwareMismatchError struct {
	Axis AxisID
	Want int64
	Got  int64
}

func (e *HardwareMismatchError) Error() string {
	return e.Axis.String() + " landed at " + itoa(e.Got) +
		" after backoff, expected " + itoa(e.Want) + " (corrected)"
}
