package core

// PowerManager applies each axis's power policy around moves. Enable always
// energizes; Disable leaves AlwaysOn axes energized so they keep holding
// torque between commands.
type PowerManager struct{}

func (PowerManager) Enable(a *Axis) {
	a.Enable()
}

func (PowerManager) Disable(a *Axis) {
	if a.Config().Power == PowerOnDemand {
		a.Disable()
	}
}
