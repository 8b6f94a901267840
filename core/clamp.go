package core

// ClampCoordinator drives the paired Clamp0/Clamp1 axes as one logical
// unit. The two motors are mechanically co-located: composite moves apply
// one shared delta to both and never target them independently.
// "Simultaneous" motion is interleaved non-blocking ticks of both axes
// within one control loop.

const (
	// Dynamic timeout scaling for composite clamp moves: base budget plus
	// 100ms per 10 commanded steps, so long moves are not cut off early
	// while the worst case stays bounded.
	clampTimeoutQuantum = 10
	clampTimeoutStepMS  = 100
)

// clampTimeout computes the budget for a composite move of delta steps.
// Monotonically non-decreasing in |delta|.
func clampTimeout(delta int64) uint32 {
	if delta < 0 {
		delta = -delta
	}
	return MotionTimeout + uint32(delta/clampTimeoutQuantum)*clampTimeoutStepMS
}

type ClampCoordinator struct {
	e0, e1  *Axis
	endstop *Endstop // shared sensor, one switch for the whole clamp
	power   PowerManager
	guard   *ClampGuard
	stop    *StopFlag
}

func NewClampCoordinator(e0, e1 *Axis, shared *Endstop, guard *ClampGuard, stop *StopFlag) *ClampCoordinator {
	return &ClampCoordinator{e0: e0, e1: e1, endstop: shared, guard: guard, stop: stop}
}

// Move runs a synchronized relative move of both clamp motors to the given
// absolute position. The delta is computed once from Clamp0 and applied
// identically to both axes.
func (c *ClampCoordinator) Move(target int64) error {
	if !c.guard.TryAcquire() {
		return ErrBusy
	}
	defer c.guard.Release()
	c.stop.Clear()

	c.power.Enable(c.e0)
	c.power.Enable(c.e1)
	defer c.powerDown()

	delta := target - c.e0.Position()
	if delta == 0 {
		// Already in position; idempotent no-op
		return nil
	}

	c.e0.Brake()
	c.e1.Brake()
	c.e0.SetTargetRelative(delta)
	c.e1.SetTargetRelative(delta)

	timeout := clampTimeout(delta)
	start := GetTime()
	for {
		now := GetTime()
		if c.stop.Take() {
			return ErrStopped
		}
		m0 := c.e0.Tick(now)
		m1 := c.e1.Tick(now)
		if !m0 && !m1 {
			return nil
		}
		if now-start >= timeout {
			c.e0.Brake()
			c.e1.Brake()
			DebugPrintln("clamp move: timeout after " + itoa(int64(timeout)) + "ms")
			return ErrTimeout
		}
		ProcessTimers()
	}
}

// Home zeroes both clamp motors against the shared endstop: seek at
// constant speed, zero both at the switch, back off, then verify. Stepping
// is open loop, so an axis that does not report backoffSteps after the
// retreat is forcibly redefined to backoffSteps; the mismatch is surfaced
// as a HardwareMismatchError so callers can tell a corrected homing from an
// exact one.
func (c *ClampCoordinator) Home() error {
	if !c.guard.TryAcquire() {
		return ErrBusy
	}
	defer c.guard.Release()
	c.stop.Clear()

	c.power.Enable(c.e0)
	c.power.Enable(c.e1)
	defer c.powerDown()

	c.e0.Brake()
	c.e1.Brake()

	c.e0.SetSpeed(-c.e0.Config().HomingSpeed)
	c.e1.SetSpeed(-c.e1.Config().HomingSpeed)

	start := GetTime()
	for !c.endstop.Triggered() {
		now := GetTime()
		if c.stop.Take() {
			return ErrStopped
		}
		if now-start >= MotionTimeout {
			c.e0.Brake()
			c.e1.Brake()
			DebugPrintln("clamp home: seek timeout")
			return ErrTimeout
		}
		c.e0.Tick(now)
		c.e1.Tick(now)
		ProcessTimers()
	}

	c.e0.Brake()
	c.e1.Brake()
	c.e0.SetPosition(0)
	c.e1.SetPosition(0)

	c.e0.SetTargetRelative(backoffSteps)
	c.e1.SetTargetRelative(backoffSteps)

	start = GetTime()
	for {
		now := GetTime()
		if c.stop.Take() {
			return ErrStopped
		}
		m0 := c.e0.Tick(now)
		m1 := c.e1.Tick(now)
		if !m0 && !m1 {
			break
		}
		if now-start >= MotionTimeout {
			c.e0.Brake()
			c.e1.Brake()
			return ErrTimeout
		}
		ProcessTimers()
	}

	var mismatch *HardwareMismatchError
	for _, a := range [2]*Axis{c.e0, c.e1} {
		if p := a.Position(); p != backoffSteps {
			if mismatch == nil {
				mismatch = &HardwareMismatchError{Axis: a.ID(), Want: backoffSteps, Got: p}
			}
			a.SetPosition(backoffSteps)
			DebugPrintln("clamp home: " + a.ID().String() + " corrected from " + itoa(p))
		}
	}
	if mismatch != nil {
		return mismatch
	}
	return nil
}

// EmergencyStop unconditionally brakes both clamp motors, redefines each
// position to wherever the motor physically is (an emergency stop abandons
// any notion of a trusted target) and clears the busy flag. It has no
// precondition and no failure mode; the raised flag makes any in-flight
// wait loop exit with ErrStopped on its next iteration.
func (c *ClampCoordinator) EmergencyStop() {
	c.stop.Raise()
	c.e0.Brake()
	c.e1.Brake()
	c.e0.SetPosition(c.e0.Position())
	c.e1.SetPosition(c.e1.Position())
	c.guard.Release()
}

func (c *ClampCoordinator) powerDown() {
	c.power.Disable(c.e0)
	c.power.Disable(c.e1)
}
