//go:build tinygo && baremetal

package hal

import "machine"

// pinButtons reads the three front buttons. Lines idle high through
// pull-ups and short to ground when pressed.
type pinButtons struct {
	pins [ButtonCount]machine.Pin
}

func newPinButtons(mode, up, down machine.Pin) *pinButtons {
	b := &pinButtons{pins: [ButtonCount]machine.Pin{mode, up, down}}
	for _, p := range b.pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return b
}

func (b *pinButtons) Pressed(id ButtonID) bool {
	if id >= ButtonCount {
		return false
	}
	return !b.pins[id].Get()
}
