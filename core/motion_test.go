package core

import (
	"errors"
	"testing"
)

func TestMoveToRejectsZeroTarget(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	for id := AxisID(0); id < NumAxes; id++ {
		if err := ctl.MoveTo(id, 0); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("MoveTo(%s, 0) = %v, want ErrInvalidPosition", id, err)
		}
		if ctl.Position(id) != 0 {
			t.Errorf("%s moved on rejected command", id)
		}
	}
	if ctl.IsBusy() {
		t.Error("busy flag set after rejected moves")
	}
}

func TestMoveToReachesTarget(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	if err := ctl.MoveTo(AxisMulti, 500); err != nil {
		t.Fatalf("MoveTo failed: %v", err)
	}
	if got := ctl.Position(AxisMulti); got != 500 {
		t.Errorf("position = %d, want 500", got)
	}

	// Negative absolute targets are legal
	if err := ctl.MoveTo(AxisMulti, -200); err != nil {
		t.Fatalf("MoveTo failed: %v", err)
	}
	if got := ctl.Position(AxisMulti); got != -200 {
		t.Errorf("position = %d, want -200", got)
	}
}

func TestMoveToClampAxisHoldsGuard(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	if !ctl.guard.TryAcquire() {
		t.Fatal("could not reserve guard")
	}
	defer ctl.guard.Release()

	if err := ctl.MoveTo(AxisClamp0, 500); !errors.Is(err, ErrBusy) {
		t.Errorf("MoveTo(clamp0) = %v, want ErrBusy", err)
	}
	if err := ctl.Home(AxisClamp1); !errors.Is(err, ErrBusy) {
		t.Errorf("Home(clamp1) = %v, want ErrBusy", err)
	}

	// Non-clamp axes are independent of the clamp reservation
	if err := ctl.MoveTo(AxisMulti, 100); err != nil {
		t.Errorf("MoveTo(multi) while clamp busy = %v, want nil", err)
	}
}

func TestMoveToTimesOut(t *testing.T) {
	useMockGPIO(t)
	useSimClock(t, nil)

	// MaxSpeed 0 with Accel 0 emits no steps, so the move can never finish
	cfgs := testAxisConfigs()
	cfgs[AxisRRight].MaxSpeed = 0
	cfgs[AxisRRight].Accel = 0
	ctl := NewController(cfgs, testClampSensorPin)
	if err := ctl.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	if err := ctl.MoveTo(AxisRRight, 500); !errors.Is(err, ErrTimeout) {
		t.Errorf("MoveTo = %v, want ErrTimeout", err)
	}
	if ctl.Axis(AxisRRight).Moving() {
		t.Error("axis still moving after timeout")
	}
}

func TestHomeZerosAgainstEndstop(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	// PNP sensor on the multi axis: raw high once the carriage is far
	// enough toward the switch
	m.inputs[13] = func() bool {
		return ctl.Position(AxisMulti) <= -5000
	}

	if err := ctl.Home(AxisMulti); err != nil {
		t.Fatalf("Home failed: %v", err)
	}
	if got := ctl.Position(AxisMulti); got != backoffSteps {
		t.Errorf("homed position = %d, want %d", got, backoffSteps)
	}
	if ctl.Axis(AxisMulti).Moving() {
		t.Error("axis still moving after homing")
	}
}

func TestHomeEscapesTriggeredEndstop(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	// NPN sensor on multizone, already pressed at startup: raw low while
	// the carriage sits below 50
	m.inputs[23] = func() bool {
		return ctl.Position(AxisMultizone) >= 50
	}

	if err := ctl.Home(AxisMultizone); err != nil {
		t.Fatalf("Home failed: %v", err)
	}
	if got := ctl.Position(AxisMultizone); got != backoffSteps {
		t.Errorf("homed position = %d, want %d", got, backoffSteps)
	}
}

func TestHomeTimesOutWithoutEndstop(t *testing.T) {
	m := useMockGPIO(t)
	useSimClock(t, nil)
	ctl := newTestController(t, m)

	// Active-low sensor that never pulls the line down
	m.inputs[33] = func() bool { return true }

	if err := ctl.Home(AxisRRight); !errors.Is(err, ErrTimeout) {
		t.Errorf("Home = %v, want ErrTimeout", err)
	}
	if ctl.Axis(AxisRRight).Moving() {
		t.Error("axis still moving after homing timeout")
	}
}

func TestEmergencyStopAbortsMove(t *testing.T) {
	useMockGPIO(t)
	ctl := NewController(testAxisConfigs(), testClampSensorPin)

	fired := false
	useSimClock(t, func(now uint32) {
		if now == 600 && !fired {
			fired = true
			ctl.EmergencyStop()
		}
	})
	if err := ctl.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	err := ctl.MoveTo(AxisClamp0, 5000)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("MoveTo = %v, want ErrStopped", err)
	}
	if ctl.IsBusy() {
		t.Error("busy flag set after emergency stop")
	}
	if ctl.Axis(AxisClamp0).Moving() {
		t.Error("axis still moving after emergency stop")
	}

	// The flag was consumed; the next command runs normally
	if err := ctl.MoveTo(AxisClamp0, ctl.Position(AxisClamp0)+100); err != nil {
		t.Errorf("move after emergency stop = %v, want nil", err)
	}
}

func TestStopFlag(t *testing.T) {
	var f StopFlag
	if f.Take() {
		t.Error("Take on fresh flag returned true")
	}
	f.Raise()
	if !f.Take() {
		t.Error("Take after Raise returned false")
	}
	if f.Take() {
		t.Error("second Take returned true; flag must be consumed")
	}
	f.Raise()
	f.Clear()
	if f.Take() {
		t.Error("Take after Clear returned true")
	}
}

func TestClampGuard(t *testing.T) {
	var g ClampGuard
	if !g.TryAcquire() {
		t.Fatal("first TryAcquire failed")
	}
	if g.TryAcquire() {
		t.Error("second TryAcquire succeeded while held")
	}
	if !g.Busy() {
		t.Error("Busy false while held")
	}
	g.Release()
	if g.Busy() {
		t.Error("Busy true after Release")
	}
	// Release without hold is tolerated
	g.Release()
	if !g.TryAcquire() {
		t.Error("TryAcquire failed after double Release")
	}
}
