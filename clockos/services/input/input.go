// Package input debounces the raw buttons and publishes edge events.
package input

import (
	"lcdclock/clockos/kernel"
	"lcdclock/clockos/proto"
	"lcdclock/hal"
)

const (
	// debounceWindow is how many consecutive identical samples a level
	// needs before it is believed. At 100 Hz this is 50 ms.
	debounceWindow = 5

	// holdAfter is the tick count after which a stable press starts
	// emitting held events, holdRepeat ticks apart.
	holdAfter  = 100
	holdRepeat = 15
)

type buttonState struct {
	integrator uint8
	level      bool
	pressTick  uint64
}

// Service samples every button once per cycle through an integrating
// debouncer: the counter walks toward the raw level and the debounced
// level only flips at the counter's bounds. A contact bouncing faster
// than the window moves the counter back and forth without ever
// reaching a bound, so at most one edge is reported per real actuation.
type Service struct {
	btns hal.Buttons

	self   kernel.Capability
	events kernel.Capability

	state [hal.ButtonCount]buttonState
}

// New creates the input service. Edge events go to the events endpoint.
func New(btns hal.Buttons, self, events kernel.Capability) *Service {
	return &Service{btns: btns, self: self, events: events}
}

func (s *Service) Step(ctx *kernel.Context) {
	now := ctx.NowTick()
	for id := hal.ButtonID(0); id < hal.ButtonCount; id++ {
		s.sample(ctx, id, s.btns.Pressed(id), now)
	}
}

func (s *Service) sample(ctx *kernel.Context, id hal.ButtonID, raw bool, now uint64) {
	st := &s.state[id]

	if raw {
		if st.integrator < debounceWindow {
			st.integrator++
		}
	} else {
		if st.integrator > 0 {
			st.integrator--
		}
	}

	switch {
	case !st.level && st.integrator == debounceWindow:
		st.level = true
		st.pressTick = now
		s.emit(ctx, id, proto.EdgePressed, now)
	case st.level && st.integrator == 0:
		st.level = false
		s.emit(ctx, id, proto.EdgeReleased, now)
	case st.level:
		held := now - st.pressTick
		if held >= holdAfter && (held-holdAfter)%holdRepeat == 0 {
			s.emit(ctx, id, proto.EdgeHeld, now)
		}
	}
}

func (s *Service) emit(ctx *kernel.Context, id hal.ButtonID, edge proto.Edge, now uint64) {
	// A full queue drops the event; with an 8-slot mailbox drained every
	// cycle that takes more simultaneous edges than three buttons can make.
	ctx.Send(s.self, s.events, uint16(proto.MsgButton), proto.ButtonPayload(id, edge, now))
}
