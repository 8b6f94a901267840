package core

import (
	"errors"
	"testing"
)

func TestClampTimeoutScaling(t *testing.T) {
	if got := clampTimeout(0); got != MotionTimeout {
		t.Errorf("clampTimeout(0) = %d, want %d", got, MotionTimeout)
	}
	// 100ms per full 10 steps of commanded travel
	if got := clampTimeout(1000); got != MotionTimeout+10000 {
		t.Errorf("clampTimeout(1000) = %d, want %d", got, MotionTimeout+10000)
	}
	if clampTimeout(-1000) != clampTimeout(1000) {
		t.Error("clampTimeout not symmetric in sign")
	}
	prev := clampTimeout(0)
	for d := int64(1); d < 200; d++ {
		cur := clampTimeout(d)
		if cur < prev {
			t.Fatalf("clampTimeout decreased at delta %d", d)
		}
		prev = cur
	}
}

func TestClampMoveMovesBothAxes(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	ctl.Axis(AxisClamp0).SetPosition(100)
	ctl.Axis(AxisClamp1).SetPosition(100)

	if err := ctl.ClampMove(500); err != nil {
		t.Fatalf("ClampMove failed: %v", err)
	}
	if got := ctl.Position(AxisClamp0); got != 500 {
		t.Errorf("clamp0 position = %d, want 500", got)
	}
	if got := ctl.Position(AxisClamp1); got != 500 {
		t.Errorf("clamp1 position = %d, want 500", got)
	}
	if ctl.IsBusy() {
		t.Error("busy flag set after completed clamp move")
	}

	// Both motors stepped the same distance
	if m.rises[40] != 400 || m.rises[50] != 400 {
		t.Errorf("step pulses = %d/%d, want 400/400", m.rises[40], m.rises[50])
	}
}

func TestClampMoveAlreadyInPosition(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	ctl.Axis(AxisClamp0).SetPosition(100)
	ctl.Axis(AxisClamp1).SetPosition(100)

	if err := ctl.ClampMove(100); err != nil {
		t.Fatalf("ClampMove to current position = %v, want nil", err)
	}
	if m.rises[40] != 0 || m.rises[50] != 0 {
		t.Error("step pulses emitted for a zero-delta move")
	}
}

func TestClampMoveBusy(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	if !ctl.guard.TryAcquire() {
		t.Fatal("could not reserve guard")
	}
	defer ctl.guard.Release()

	if err := ctl.ClampMove(500); !errors.Is(err, ErrBusy) {
		t.Errorf("ClampMove = %v, want ErrBusy", err)
	}
	if err := ctl.ClampHome(); !errors.Is(err, ErrBusy) {
		t.Errorf("ClampHome = %v, want ErrBusy", err)
	}
	if ctl.Position(AxisClamp0) != 0 || ctl.Position(AxisClamp1) != 0 {
		t.Error("clamp moved on rejected command")
	}
}

func TestClampHomeSharedSensor(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	// NPN sensor pulls the shared line low once the clamp reaches the
	// mechanical stop
	m.inputs[testClampSensorPin] = func() bool {
		return ctl.Position(AxisClamp0) > -3000
	}

	if err := ctl.ClampHome(); err != nil {
		t.Fatalf("ClampHome failed: %v", err)
	}
	if got := ctl.Position(AxisClamp0); got != backoffSteps {
		t.Errorf("clamp0 homed position = %d, want %d", got, backoffSteps)
	}
	if got := ctl.Position(AxisClamp1); got != backoffSteps {
		t.Errorf("clamp1 homed position = %d, want %d", got, backoffSteps)
	}
	if ctl.IsBusy() {
		t.Error("busy flag set after completed homing")
	}

	// Driver stages of the on-demand clamp axes power down afterwards
	if !m.pins[44] || !m.pins[52] {
		t.Error("clamp enable lines still energized after homing")
	}
}

func TestClampHomeCorrectsMismatch(t *testing.T) {
	m := useMockGPIO(t)
	ctl := NewController(testAxisConfigs(), testClampSensorPin)

	m.inputs[testClampSensorPin] = func() bool {
		return ctl.Position(AxisClamp0) > -3000
	}

	// Knock clamp1 off course during the backoff retreat. Positions in
	// [40,90) only occur after the zero checkpoint.
	injected := false
	useSimClock(t, func(now uint32) {
		e1 := ctl.Axis(AxisClamp1)
		if !injected && e1.Moving() {
			if p := e1.Position(); p >= 40 && p < 90 {
				injected = true
				e1.SetPosition(97)
			}
		}
	})
	if err := ctl.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	err := ctl.ClampHome()
	var mismatch *HardwareMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("ClampHome = %v, want HardwareMismatchError", err)
	}
	if mismatch.Axis != AxisClamp1 {
		t.Errorf("mismatch axis = %s, want %s", mismatch.Axis, AxisClamp1)
	}
	if mismatch.Want != backoffSteps || mismatch.Got != 97 {
		t.Errorf("mismatch want/got = %d/%d, want %d/97", mismatch.Want, mismatch.Got, backoffSteps)
	}

	// Both axes hold the reference position regardless of the drift
	if ctl.Position(AxisClamp0) != backoffSteps || ctl.Position(AxisClamp1) != backoffSteps {
		t.Errorf("positions = %d/%d, want %d/%d",
			ctl.Position(AxisClamp0), ctl.Position(AxisClamp1), backoffSteps, backoffSteps)
	}
	if ctl.IsBusy() {
		t.Error("busy flag set after corrected homing")
	}
}

func TestClampHomeTimesOut(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	// Sensor line stuck high: never triggers
	m.inputs[testClampSensorPin] = func() bool { return true }

	if err := ctl.ClampHome(); !errors.Is(err, ErrTimeout) {
		t.Errorf("ClampHome = %v, want ErrTimeout", err)
	}
	if ctl.Axis(AxisClamp0).Moving() || ctl.Axis(AxisClamp1).Moving() {
		t.Error("clamp still moving after timeout")
	}
	if ctl.IsBusy() {
		t.Error("busy flag set after timeout")
	}
}

func TestEmergencyStopAbortsClampMove(t *testing.T) {
	useMockGPIO(t)
	ctl := NewController(testAxisConfigs(), testClampSensorPin)

	fired := false
	useSimClock(t, func(now uint32) {
		if now == 500 && !fired {
			fired = true
			ctl.EmergencyStop()
		}
	})
	if err := ctl.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	ctl.Axis(AxisClamp0).SetPosition(100)
	ctl.Axis(AxisClamp1).SetPosition(100)

	err := ctl.ClampMove(5000)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("ClampMove = %v, want ErrStopped", err)
	}
	if ctl.IsBusy() {
		t.Error("busy flag set after emergency stop")
	}
	if ctl.Axis(AxisClamp0).Moving() || ctl.Axis(AxisClamp1).Moving() {
		t.Error("clamp still moving after emergency stop")
	}
	if ctl.Position(AxisClamp0) == 5000 {
		t.Error("clamp completed the move despite emergency stop")
	}
}

func TestEmergencyStopWhileIdle(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	ctl.EmergencyStop()
	if ctl.IsBusy() {
		t.Error("busy flag set after idle emergency stop")
	}

	// The raised flag is cleared at the next command entry; a stop while
	// idle must not poison the following move
	ctl.Axis(AxisClamp0).SetPosition(100)
	ctl.Axis(AxisClamp1).SetPosition(100)
	if err := ctl.ClampMove(300); err != nil {
		t.Errorf("ClampMove after idle stop = %v, want nil", err)
	}
	if ctl.Position(AxisClamp0) != 300 {
		t.Errorf("position = %d, want 300", ctl.Position(AxisClamp0))
	}
}
