//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type hostHAL struct {
	logger  *hostLogger
	bus     *hostBus
	buttons *hostButtons
	clock   *hostClock
	leds    *hostLEDs
	buzzer  *hostBuzzer
	flash   *hostFlash
	t       *hostTime
}

// New returns a host HAL implementation backed by in-memory panels.
func New() HAL {
	logger := &hostLogger{w: os.Stdout}
	return &hostHAL{
		logger:  logger,
		bus:     newHostBus(),
		buttons: newHostButtons(),
		clock:   newHostClock(),
		leds:    newHostLEDs(6),
		buzzer:  &hostBuzzer{logger: logger},
		flash:   newHostFlash(),
		t:       newHostTime(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Panels() PanelBus { return h.bus }
func (h *hostHAL) Buttons() Buttons { return h.buttons }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) LEDs() LEDStrip   { return h.leds }
func (h *hostHAL) Buzzer() Buzzer   { return h.buzzer }
func (h *hostHAL) Flash() Flash     { return h.flash }
func (h *hostHAL) Time() Time       { return h.t }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostButtons struct {
	mu     sync.Mutex
	levels [ButtonCount]bool
}

func newHostButtons() *hostButtons {
	return &hostButtons{}
}

func (b *hostButtons) Pressed(id ButtonID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id >= ButtonCount {
		return false
	}
	return b.levels[id]
}

func (b *hostButtons) set(id ButtonID, level bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id < ButtonCount {
		b.levels[id] = level
	}
}

type hostLEDs struct {
	mu     sync.Mutex
	colors []RGB
}

func newHostLEDs(n int) *hostLEDs {
	return &hostLEDs{colors: make([]RGB, n)}
}

func (l *hostLEDs) Count() int { return len(l.colors) }

func (l *hostLEDs) Write(colors []RGB) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := copy(l.colors, colors)
	for i := n; i < len(l.colors); i++ {
		l.colors[i] = RGB{}
	}
	return nil
}

func (l *hostLEDs) snapshot(dst []RGB) {
	l.mu.Lock()
	defer l.mu.Unlock()
	copy(dst, l.colors)
}

type hostBuzzer struct {
	mu      sync.Mutex
	logger  Logger
	beeping bool
}

func (b *hostBuzzer) Start(freqHz uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.beeping {
		return
	}
	b.beeping = true
	if b.logger != nil {
		b.logger.WriteLineString(fmt.Sprintf("buzzer: start %d Hz", freqHz))
	}
}

func (b *hostBuzzer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.beeping {
		return
	}
	b.beeping = false
	if b.logger != nil {
		b.logger.WriteLineString("buzzer: stop")
	}
}
