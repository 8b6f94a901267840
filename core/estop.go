package core

import "sync/atomic"

// StopFlag is the cooperative emergency-stop request. It is atomic so an
// e-stop wired to a hardware interrupt (or a host goroutine in tests) can
// raise it while a blocking motion loop is running; every wait loop polls
// it once per iteration.
type StopFlag struct {
	v uint32
}

// Raise requests that any in-flight motion abort.
func (f *StopFlag) Raise() {
	atomic.StoreUint32(&f.v, 1)
}

// Take consumes a pending request. Returns true exactly once per Raise.
func (f *StopFlag) Take() bool {
	return atomic.CompareAndSwapUint32(&f.v, 1, 0)
}

// Clear drops any pending request. Operations call this on entry: a request
// raised before the command arrived has already been honored by
// EmergencyStop itself and must not abort the new command.
func (f *StopFlag) Clear() {
	atomic.StoreUint32(&f.v, 0)
}
