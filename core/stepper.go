package core

// Axis driver: owns one axis's physical configuration and runtime state and
// advances the velocity ramp one control-loop quantum at a time. All
// blocking semantics live in the controllers; nothing here waits.

type moveMode uint8

const (
	modeIdle moveMode = iota
	modeTarget
	modeVelocity
)

// Axis is a single stepper-driven degree of freedom.
type Axis struct {
	id      AxisID
	cfg     AxisConfig
	backend StepBackend
	endstop *Endstop

	position  int64 // current position in steps (signed)
	target    int64
	mode      moveMode
	speed     float64 // steps/s; magnitude in target mode, signed in velocity mode
	stepAccum float64 // fractional steps carried between ticks
	lastTick  uint32
	dirFwd    bool
	enabled   bool
}

// NewAxis creates an axis driver. Configure must be called before motion.
func NewAxis(id AxisID, cfg AxisConfig) *Axis {
	return &Axis{
		id:      id,
		cfg:     cfg,
		backend: newStepBackend(),
		endstop: NewEndstop(cfg.EndstopPin, cfg.Endstop),
		dirFwd:  true,
	}
}

// Configure sets up the output pins and the endstop input. The enable line
// is active low; the axis comes up de-energized and the power policy
// decides when it is enabled.
func (a *Axis) Configure() error {
	if err := a.backend.Init(a.cfg.StepPin, a.cfg.DirPin); err != nil {
		return err
	}
	gpio := MustGPIO()
	if err := gpio.ConfigureOutput(a.cfg.EnablePin); err != nil {
		return err
	}
	if err := gpio.SetPin(a.cfg.EnablePin, true); err != nil {
		return err
	}
	return a.endstop.Configure()
}

func (a *Axis) ID() AxisID         { return a.id }
func (a *Axis) Config() AxisConfig { return a.cfg }
func (a *Axis) Endstop() *Endstop  { return a.endstop }

// Enable energizes the driver output stage. Idempotent.
func (a *Axis) Enable() {
	if a.enabled {
		return
	}
	MustGPIO().SetPin(a.cfg.EnablePin, false)
	a.enabled = true
}

// Disable de-energizes the driver output stage. Idempotent.
func (a *Axis) Disable() {
	if !a.enabled {
		return
	}
	MustGPIO().SetPin(a.cfg.EnablePin, true)
	a.enabled = false
}

func (a *Axis) Enabled() bool { return a.enabled }

// Position returns the current position in steps.
func (a *Axis) Position() int64 { return a.position }

// SetPosition redefines the current position without moving. Used only at
// homing checkpoints and by the emergency stop; any pending target is
// abandoned.
func (a *Axis) SetPosition(p int64) {
	a.position = p
	a.target = p
	a.mode = modeIdle
	a.speed = 0
	a.stepAccum = 0
}

// SetTarget starts a ramped move to an absolute position.
func (a *Axis) SetTarget(pos int64) {
	a.target = pos
	a.mode = modeTarget
	a.stepAccum = 0
	a.lastTick = GetTime()
}

// SetTargetRelative starts a ramped move by delta steps from here.
func (a *Axis) SetTargetRelative(delta int64) {
	a.SetTarget(a.position + delta)
}

// SetSpeed puts the axis in constant-velocity mode (no ramp, no target).
// The sign of sps selects the direction. Used for homing seeks.
func (a *Axis) SetSpeed(sps float64) {
	a.mode = modeVelocity
	a.speed = sps
	a.stepAccum = 0
	a.lastTick = GetTime()
}

// Brake immediately zeroes velocity and abandons any ramp or target.
func (a *Axis) Brake() {
	a.mode = modeIdle
	a.speed = 0
	a.stepAccum = 0
	a.target = a.position
	a.backend.Stop()
}

// Moving reports whether the axis still has motion pending.
func (a *Axis) Moving() bool { return a.mode != modeIdle }

// Tick advances the ramp by one control-loop quantum and emits any step
// pulses that have come due. Returns true while still moving, false once
// arrived (always true in velocity mode). Non-blocking.
func (a *Axis) Tick(now uint32) bool {
	if a.mode == modeIdle {
		return false
	}

	dt := float64(now-a.lastTick) / TicksPerSecond
	a.lastTick = now
	if dt <= 0 {
		return true
	}

	if a.mode == modeVelocity {
		speed := a.speed
		forward := true
		if speed < 0 {
			speed = -speed
			forward = false
		}
		a.stepAccum += speed * dt
		a.emitSteps(forward)
		return true
	}

	remaining := a.target - a.position
	if remaining == 0 {
		a.Brake()
		return false
	}
	forward := remaining > 0
	if !forward {
		remaining = -remaining
	}

	if a.cfg.Accel <= 0 {
		a.speed = a.cfg.MaxSpeed
	} else if float64(remaining) <= a.speed*a.speed/(2*a.cfg.Accel) {
		// Close enough to the target that we must start slowing down
		a.speed -= a.cfg.Accel * dt
		if a.speed < a.cfg.Accel*dt {
			a.speed = a.cfg.Accel * dt
		}
	} else {
		a.speed += a.cfg.Accel * dt
		if a.speed > a.cfg.MaxSpeed {
			a.speed = a.cfg.MaxSpeed
		}
	}

	a.stepAccum += a.speed * dt
	a.emitSteps(forward)

	if a.position == a.target {
		a.Brake()
		return false
	}
	return true
}

// emitSteps drains whole steps from the accumulator. In target mode the
// step count is clamped so the axis never overshoots.
func (a *Axis) emitSteps(forward bool) {
	due := int64(a.stepAccum)
	if due <= 0 {
		return
	}
	a.stepAccum -= float64(due)

	if a.mode == modeTarget {
		remaining := a.target - a.position
		if !forward {
			remaining = -remaining
		}
		if due > remaining {
			due = remaining
			a.stepAccum = 0
		}
	}

	if forward != a.dirFwd {
		a.backend.SetDirection(forward)
		a.dirFwd = forward
	}

	for ; due > 0; due-- {
		a.backend.Step()
		if forward {
			a.position++
		} else {
			a.position--
		}
	}
}
