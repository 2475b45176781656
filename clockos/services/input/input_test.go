package input

import (
	"testing"

	"lcdclock/clockos/kernel"
	"lcdclock/clockos/proto"
	"lcdclock/hal"
)

type fakeButtons struct {
	level [hal.ButtonCount]bool
}

func (b *fakeButtons) Pressed(id hal.ButtonID) bool { return b.level[id] }

type event struct {
	id   hal.ButtonID
	edge proto.Edge
	tick uint64
}

// collector drains the event endpoint each cycle.
type collector struct {
	ep     kernel.Capability
	events []event
}

func (c *collector) Step(ctx *kernel.Context) {
	for {
		msg, ok := ctx.TryRecv(c.ep)
		if !ok {
			return
		}
		id, edge, tick, ok := proto.DecodeButtonPayload(msg.Payload())
		if !ok {
			continue
		}
		c.events = append(c.events, event{id: id, edge: edge, tick: tick})
	}
}

type rig struct {
	k    *kernel.Kernel
	btns *fakeButtons
	col  *collector
	tick uint64
}

func newRig() *rig {
	k := kernel.New()
	events := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	self := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	btns := &fakeButtons{}
	col := &collector{ep: events}
	k.AddTask(New(btns, self, events.Restrict(kernel.RightSend)))
	k.AddTask(col)
	return &rig{k: k, btns: btns, col: col}
}

func (r *rig) cycle(n int) {
	for i := 0; i < n; i++ {
		r.tick++
		r.k.TickTo(r.tick)
		r.k.Cycle()
	}
}

func TestPressNeedsFullWindow(t *testing.T) {
	r := newRig()
	r.btns.level[hal.ButtonMode] = true

	r.cycle(debounceWindow - 1)
	if len(r.col.events) != 0 {
		t.Fatalf("expected no events before window fills, got %v", r.col.events)
	}
	r.cycle(1)
	if len(r.col.events) != 1 {
		t.Fatalf("expected one event, got %v", r.col.events)
	}
	e := r.col.events[0]
	if e.id != hal.ButtonMode || e.edge != proto.EdgePressed {
		t.Fatalf("expected mode pressed, got %+v", e)
	}
}

func TestBounceEmitsAtMostOneEdge(t *testing.T) {
	r := newRig()

	// Toggle the raw level every sample for a while, then settle pressed.
	for i := 0; i < 20; i++ {
		r.btns.level[hal.ButtonUp] = i%2 == 0
		r.cycle(1)
	}
	if len(r.col.events) != 0 {
		t.Fatalf("expected no events while bouncing, got %v", r.col.events)
	}
	r.btns.level[hal.ButtonUp] = true
	r.cycle(debounceWindow)
	if len(r.col.events) != 1 {
		t.Fatalf("expected exactly one edge after settling, got %v", r.col.events)
	}
	if r.col.events[0].edge != proto.EdgePressed {
		t.Fatalf("expected pressed, got %v", r.col.events[0].edge)
	}
}

func TestReleaseEdge(t *testing.T) {
	r := newRig()
	r.btns.level[hal.ButtonDown] = true
	r.cycle(debounceWindow)
	r.btns.level[hal.ButtonDown] = false
	r.cycle(debounceWindow)

	if len(r.col.events) != 2 {
		t.Fatalf("expected press and release, got %v", r.col.events)
	}
	if r.col.events[1].edge != proto.EdgeReleased {
		t.Fatalf("expected released, got %v", r.col.events[1].edge)
	}
}

func TestHoldCadence(t *testing.T) {
	r := newRig()
	r.btns.level[hal.ButtonUp] = true
	r.cycle(debounceWindow + holdAfter + 2*holdRepeat)

	var holds []uint64
	for _, e := range r.col.events {
		if e.edge == proto.EdgeHeld {
			holds = append(holds, e.tick)
		}
	}
	if len(holds) != 3 {
		t.Fatalf("expected 3 held events, got %d: %v", len(holds), holds)
	}
	if holds[1]-holds[0] != holdRepeat || holds[2]-holds[1] != holdRepeat {
		t.Fatalf("expected %d-tick hold cadence, got %v", holdRepeat, holds)
	}
}

func TestTwoButtonsKeepOrder(t *testing.T) {
	r := newRig()
	r.btns.level[hal.ButtonMode] = true
	r.btns.level[hal.ButtonDown] = true
	r.cycle(debounceWindow)

	if len(r.col.events) != 2 {
		t.Fatalf("expected two events, got %v", r.col.events)
	}
	// Same cycle: delivery follows button id order, FIFO in the mailbox.
	if r.col.events[0].id != hal.ButtonMode || r.col.events[1].id != hal.ButtonDown {
		t.Fatalf("expected mode then down, got %v", r.col.events)
	}
	if r.col.events[0].tick != r.col.events[1].tick {
		t.Fatalf("expected same recognition tick, got %v", r.col.events)
	}
}
