// Package app assembles the clock: kernel, endpoints and services, in
// the order that defines the per-cycle pipeline.
package app

import (
	"lcdclock/clockos/alarmstore"
	"lcdclock/clockos/bus"
	"lcdclock/clockos/kernel"
	"lcdclock/clockos/services/clock"
	"lcdclock/clockos/services/display"
	"lcdclock/clockos/services/input"
	"lcdclock/clockos/services/led"
	"lcdclock/clockos/services/logger"
	"lcdclock/clockos/timesource"
	"lcdclock/hal"
	"lcdclock/internal/buildinfo"
)

type system struct {
	k     *kernel.Kernel
	ticks <-chan uint64
}

// New builds the system and returns the per-frame step function the
// host simulator drives.
func New(h hal.HAL) func() error {
	return newSystem(h).step
}

// Run builds the system and drives it from the HAL tick stream,
// blocking forever. This is the hardware entrypoint.
func Run(h hal.HAL) {
	sys := newSystem(h)
	for seq := range sys.ticks {
		sys.k.TickTo(seq)
		sys.k.Cycle()
	}
}

func newSystem(h hal.HAL) *system {
	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	eventEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	frameEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	ledEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	inputSelf := k.NewEndpoint(kernel.RightSend)
	clockSelf := k.NewEndpoint(kernel.RightSend)
	displaySelf := k.NewEndpoint(kernel.RightSend)
	ledSelf := k.NewEndpoint(kernel.RightSend)

	src := timesource.New(h.Clock())
	store := alarmstore.New(h.Flash())
	panelBus := bus.New(h.Panels())

	// Registration order is the pipeline order: edges recognized on a
	// tick are applied by the state machine and drawn on that same tick.
	k.AddTask(input.New(h.Buttons(), inputSelf,
		eventEP.Restrict(kernel.RightSend)))
	k.AddTask(clock.New(src, store, h.Buzzer(), clockSelf,
		eventEP.Restrict(kernel.RightRecv),
		frameEP.Restrict(kernel.RightSend),
		ledEP.Restrict(kernel.RightSend),
		logEP.Restrict(kernel.RightSend)))
	k.AddTask(display.New(panelBus, displaySelf,
		frameEP.Restrict(kernel.RightRecv),
		logEP.Restrict(kernel.RightSend)))
	k.AddTask(led.New(h.LEDs(), ledSelf,
		ledEP.Restrict(kernel.RightRecv),
		logEP.Restrict(kernel.RightSend)))
	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))

	if l := h.Logger(); l != nil {
		l.WriteLineString("lcdclock " + buildinfo.Short())
	}

	return &system{k: k, ticks: h.Time().Ticks()}
}

// step drains whatever ticks accumulated since the last call and runs
// one kernel cycle per tick. It never blocks.
func (s *system) step() error {
	for {
		select {
		case seq, ok := <-s.ticks:
			if !ok {
				return nil
			}
			s.k.TickTo(seq)
			s.k.Cycle()
		default:
			return nil
		}
	}
}
