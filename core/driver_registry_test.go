package core

import "testing"

func resetDrivers(t *testing.T) {
	t.Helper()
	driversByName = make(map[string]*DriverInstance)
	t.Cleanup(func() { driversByName = make(map[string]*DriverInstance) })
}

func TestRegisterAndReadDriver(t *testing.T) {
	resetDrivers(t)

	cfg := NewI2CDriverConfig("probe0", 0, 0x29)
	cfg.InitFunc = func(c *DriverConfig) (interface{}, error) {
		return "device", nil
	}
	cfg.ReadFunc = func(device interface{}, params []byte) ([]byte, error) {
		if device != "device" {
			t.Errorf("ReadFunc got device %v", device)
		}
		return []byte{0x12, 0x34}, nil
	}

	if err := RegisterDriver(cfg); err != nil {
		t.Fatalf("RegisterDriver failed: %v", err)
	}
	if err := RegisterDriver(cfg); err == nil {
		t.Error("duplicate registration accepted")
	}

	d, ok := GetDriver("probe0")
	if !ok {
		t.Fatal("driver not found after registration")
	}
	data, err := d.Read(nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(data) != 2 || data[0] != 0x12 {
		t.Errorf("Read = %v, want [12 34]", data)
	}

	if err := UnregisterDriver("probe0"); err != nil {
		t.Fatalf("UnregisterDriver failed: %v", err)
	}
	if _, ok := GetDriver("probe0"); ok {
		t.Error("driver still registered after unregister")
	}
}

func TestDriverPolling(t *testing.T) {
	resetDrivers(t)
	resetTimers(t)
	now := useManualClock(t)

	cfg := NewI2CDriverConfig("probe1", 0, 0x29)
	cfg.PollRate = 50
	cfg.PollFunc = func(device interface{}) ([]byte, error) {
		return []byte{0x01}, nil
	}
	if err := RegisterDriver(cfg); err != nil {
		t.Fatalf("RegisterDriver failed: %v", err)
	}

	d, _ := GetDriver("probe1")
	var samples int
	if err := d.StartPoll(func(name string, data []byte) {
		if name != "probe1" {
			t.Errorf("sample from %q", name)
		}
		samples++
	}); err != nil {
		t.Fatalf("StartPoll failed: %v", err)
	}

	*now = 50
	ProcessTimers()
	*now = 100
	ProcessTimers()
	if samples != 2 {
		t.Errorf("samples = %d, want 2", samples)
	}

	d.StopPoll()
	*now = 200
	ProcessTimers()
	if samples != 2 {
		t.Error("sample delivered after StopPoll")
	}
}
