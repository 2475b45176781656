package app

import (
	"strings"
	"testing"

	"lcdclock/hal"
)

// testHAL is a minimal in-memory rig for whole-system tests.
type testHAL struct {
	log    *lineLogger
	bus    *countBus
	btns   *levelButtons
	clk    *staticClock
	leds   *memStrip
	buzz   *noopBuzzer
	flash  *memFlash
	ticker *chanTime
}

func newTestHAL() *testHAL {
	return &testHAL{
		log:    &lineLogger{},
		bus:    &countBus{},
		btns:   &levelButtons{},
		clk:    &staticClock{t: hal.ClockTime{Hour: 12, Minute: 34, Second: 56}},
		leds:   &memStrip{n: 6},
		buzz:   &noopBuzzer{},
		flash:  newMemFlash(),
		ticker: &chanTime{ch: make(chan uint64, 64)},
	}
}

func (h *testHAL) Logger() hal.Logger   { return h.log }
func (h *testHAL) Panels() hal.PanelBus { return h.bus }
func (h *testHAL) Buttons() hal.Buttons { return h.btns }
func (h *testHAL) Clock() hal.Clock     { return h.clk }
func (h *testHAL) LEDs() hal.LEDStrip   { return h.leds }
func (h *testHAL) Buzzer() hal.Buzzer   { return h.buzz }
func (h *testHAL) Flash() hal.Flash     { return h.flash }
func (h *testHAL) Time() hal.Time       { return h.ticker }

type lineLogger struct{ lines []string }

func (l *lineLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLogger) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

type countBus struct {
	selects    int
	pixelBytes int
	brightness uint16
}

func (b *countBus) Select(id hal.PanelID) error { b.selects++; return nil }
func (b *countBus) Deselect() error             { return nil }
func (b *countBus) SetWindow(x0, y0, x1, y1 uint16) error {
	return nil
}
func (b *countBus) WritePixels(p []byte) error {
	b.pixelBytes += len(p)
	return nil
}
func (b *countBus) SetBrightness(duty uint16) { b.brightness = duty }

type levelButtons struct{ level [hal.ButtonCount]bool }

func (b *levelButtons) Pressed(id hal.ButtonID) bool { return b.level[id] }

type staticClock struct{ t hal.ClockTime }

func (c *staticClock) ReadTime() (hal.ClockTime, error) { return c.t, nil }
func (c *staticClock) SetTime(t hal.ClockTime) error    { c.t = t; return nil }

type memStrip struct {
	n      int
	writes int
}

func (s *memStrip) Count() int              { return s.n }
func (s *memStrip) Write(c []hal.RGB) error { s.writes++; return nil }

type noopBuzzer struct{}

func (noopBuzzer) Start(freqHz uint32) {}
func (noopBuzzer) Stop()               {}

type memFlash struct{ data []byte }

func newMemFlash() *memFlash {
	f := &memFlash{data: make([]byte, 64*1024)}
	for i := range f.data {
		f.data[i] = 0xFF
	}
	return f
}

func (f *memFlash) SizeBytes() uint32       { return uint32(len(f.data)) }
func (f *memFlash) EraseBlockBytes() uint32 { return 4096 }
func (f *memFlash) ReadAt(p []byte, off uint32) (int, error) {
	return copy(p, f.data[off:]), nil
}
func (f *memFlash) WriteAt(p []byte, off uint32) (int, error) {
	for i, b := range p {
		f.data[int(off)+i] &= b
	}
	return len(p), nil
}
func (f *memFlash) Erase(off, size uint32) error {
	for i := off; i < off+size; i++ {
		f.data[i] = 0xFF
	}
	return nil
}

type chanTime struct{ ch chan uint64 }

func (t *chanTime) Ticks() <-chan uint64 { return t.ch }
func (t *chanTime) Hz() int              { return 100 }

func TestSystemBootsAndDraws(t *testing.T) {
	h := newTestHAL()
	step := New(h)

	for i := uint64(1); i <= 10; i++ {
		h.ticker.ch <- i
	}
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	if h.bus.selects == 0 {
		t.Fatal("expected panel transactions after boot")
	}
	if h.bus.pixelBytes == 0 {
		t.Fatal("expected pixel traffic after boot")
	}
	if h.bus.brightness == 0 {
		t.Fatal("expected backlight configured after boot")
	}
	if h.leds.writes == 0 {
		t.Fatal("expected LED strip written after boot")
	}

	found := false
	for _, l := range h.log.lines {
		if strings.HasPrefix(l, "lcdclock ") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected boot banner in log, got %v", h.log.lines)
	}
}

func TestSteadyStateIsQuietBetweenSeconds(t *testing.T) {
	h := newTestHAL()
	step := New(h)

	for i := uint64(1); i <= 20; i++ {
		h.ticker.ch <- i
	}
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	// Time is frozen, so nothing on the panels changes anymore.
	before := h.bus.pixelBytes
	for i := uint64(21); i <= 60; i++ {
		h.ticker.ch <- i
	}
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.bus.pixelBytes != before {
		t.Fatalf("expected no pixel traffic in steady state, wrote %d bytes",
			h.bus.pixelBytes-before)
	}
}

func TestButtonReachesStateMachine(t *testing.T) {
	h := newTestHAL()
	step := New(h)
	tick := uint64(0)
	run := func(n int) {
		for i := 0; i < n; i++ {
			tick++
			h.ticker.ch <- tick
		}
		if err := step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	run(10)
	h.btns.level[hal.ButtonMode] = true
	run(10) // debounce and recognize the press
	h.btns.level[hal.ButtonMode] = false
	run(10) // a short press acts on the release edge

	found := false
	for _, l := range h.log.lines {
		if strings.Contains(l, "time -> set-hour") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected set-mode transition in log, got %v", h.log.lines)
	}
}
