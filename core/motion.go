package core

// MotionController runs single-axis absolute moves and single-axis homing
// with timeout-bounded blocking semantics. Operations on the clamp axes
// share the busy guard with the ClampCoordinator.

const (
	// MotionTimeout bounds every wait: simple moves and each individual
	// homing phase use the same budget.
	MotionTimeout uint32 = 30000 // ms

	// escapeSteps moves the axis off an already-triggered endstop before a
	// homing seek, so homing never starts inside the switch.
	escapeSteps = 200

	// backoffSteps is the retreat from a just-triggered endstop. The
	// backed-off point is the working reference: a freshly homed axis
	// rests at position backoffSteps.
	backoffSteps = 100
)

// ClampGuard is the single busy flag shared by the clamp pair. At most one
// composite or single-axis operation may be in flight on Clamp0/Clamp1.
type ClampGuard struct {
	busy bool
}

// TryAcquire reserves the clamp pair. Returns false if already reserved.
func (g *ClampGuard) TryAcquire() bool {
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Release clears the reservation. Safe to call when not held; every exit
// path funnels through here so the flag can never be left set.
func (g *ClampGuard) Release() {
	g.busy = false
}

// Busy reports whether the clamp pair is reserved.
func (g *ClampGuard) Busy() bool {
	return g.busy
}

type MotionController struct {
	axes  [NumAxes]*Axis
	power PowerManager
	guard *ClampGuard
	stop  *StopFlag
}

func NewMotionController(axes [NumAxes]*Axis, guard *ClampGuard, stop *StopFlag) *MotionController {
	return &MotionController{axes: axes, guard: guard, stop: stop}
}

// Axis returns the driver for one axis.
func (m *MotionController) Axis(id AxisID) *Axis {
	return m.axes[id]
}

// MoveTo runs a blocking absolute move. A zero target is rejected: the wire
// protocol parses a bare move command as 0, so it doubles as the missing
// argument sentinel.
func (m *MotionController) MoveTo(id AxisID, pos int64) error {
	if pos == 0 {
		return ErrInvalidPosition
	}

	a := m.axes[id]
	if id.IsClamp() {
		if !m.guard.TryAcquire() {
			return ErrBusy
		}
		defer m.guard.Release()
	}
	m.stop.Clear()

	m.power.Enable(a)
	a.SetTarget(pos)
	err := m.waitAxis(a, MotionTimeout)
	m.power.Disable(a)
	return err
}

// Home establishes the axis zero against its endstop:
// escape the switch if it already reads triggered, seek at constant homing
// speed toward decreasing position, zero at the switch, then back off. The
// backed-off point is the permanent reference, so a homed axis reports
// position backoffSteps. Any phase that exceeds its budget aborts the whole
// procedure with ErrTimeout; there is no retry.
func (m *MotionController) Home(id AxisID) error {
	a := m.axes[id]
	if id.IsClamp() {
		if !m.guard.TryAcquire() {
			return ErrBusy
		}
		defer m.guard.Release()
	}
	m.stop.Clear()

	m.power.Enable(a)
	err := m.home(a)
	m.power.Disable(a)
	return err
}

func (m *MotionController) home(a *Axis) error {
	es := a.Endstop()

	if es.Triggered() {
		a.SetTargetRelative(escapeSteps)
		if err := m.waitAxis(a, MotionTimeout); err != nil {
			return err
		}
	}

	a.SetSpeed(-a.Config().HomingSpeed)
	start := GetTime()
	for !es.Triggered() {
		now := GetTime()
		if m.stop.Take() {
			a.Brake()
			return ErrStopped
		}
		if now-start >= MotionTimeout {
			a.Brake()
			DebugPrintln("home " + a.ID().String() + ": seek timeout")
			return ErrTimeout
		}
		a.Tick(now)
		ProcessTimers()
	}

	a.Brake()
	a.SetPosition(0)

	a.SetTargetRelative(backoffSteps)
	return m.waitAxis(a, MotionTimeout)
}

// waitAxis busy-waits for one axis to arrive, interleaving ramp ticks with
// scheduler work. Brakes and returns on timeout or emergency stop.
func (m *MotionController) waitAxis(a *Axis, timeout uint32) error {
	start := GetTime()
	for {
		now := GetTime()
		if m.stop.Take() {
			a.Brake()
			return ErrStopped
		}
		if !a.Tick(now) {
			return nil
		}
		if now-start >= timeout {
			a.Brake()
			return ErrTimeout
		}
		ProcessTimers()
	}
}
