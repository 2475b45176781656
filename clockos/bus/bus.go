// Package bus arbitrates the single serial bus shared by the six panels.
//
// All panel traffic flows through scoped transactions: chip select is
// asserted by Begin, every write happens inside the transaction, and End
// deasserts on every exit path. At most one transaction is open
// system-wide at any instant; interleaving two byte streams would
// corrupt a neighboring panel.
package bus

import (
	"errors"
	"fmt"

	"lcdclock/hal"
)

// ErrBusy reports that a transaction is already open.
var ErrBusy = errors.New("bus: transaction in progress")

// ErrWrite reports a failed bus write. The wrapped cause follows.
var ErrWrite = errors.New("bus: write failed")

// Bus owns the shared panel bus.
type Bus struct {
	dev  hal.PanelBus
	open *Txn
}

// New wraps the HAL panel bus in a transaction arbiter.
func New(dev hal.PanelBus) *Bus {
	return &Bus{dev: dev}
}

// Begin opens a transaction for one panel. It fails with ErrBusy while
// another transaction is open; the caller defers its frame to the next
// cycle rather than waiting.
func (b *Bus) Begin(id hal.PanelID) (*Txn, error) {
	if id >= hal.PanelCount {
		return nil, fmt.Errorf("bus: invalid panel %d", id)
	}
	if b.open != nil {
		return nil, ErrBusy
	}
	if err := b.dev.Select(id); err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrWrite, id, err)
	}
	t := &Txn{bus: b, panel: id}
	b.open = t
	return t, nil
}

// Busy reports whether a transaction is open.
func (b *Bus) Busy() bool { return b.open != nil }

// SetBrightness passes the backlight duty through. The backlight PWM pin
// is not part of the serialized byte stream, so no transaction is needed.
func (b *Bus) SetBrightness(duty uint16) {
	b.dev.SetBrightness(duty)
}

// Txn is a scoped handle for one panel's exclusive bus access.
type Txn struct {
	bus   *Bus
	panel hal.PanelID
	done  bool
}

// Panel returns the panel this transaction addresses.
func (t *Txn) Panel() hal.PanelID { return t.panel }

// SetWindow declares the target rectangle for the next WritePixels.
func (t *Txn) SetWindow(x0, y0, x1, y1 uint16) error {
	if t.done {
		return fmt.Errorf("bus: window on closed transaction")
	}
	if err := t.bus.dev.SetWindow(x0, y0, x1, y1); err != nil {
		return fmt.Errorf("%w: window %s: %v", ErrWrite, t.panel, err)
	}
	return nil
}

// WritePixels streams pixel data into the current window.
func (t *Txn) WritePixels(p []byte) error {
	if t.done {
		return fmt.Errorf("bus: write on closed transaction")
	}
	if err := t.bus.dev.WritePixels(p); err != nil {
		return fmt.Errorf("%w: pixels %s: %v", ErrWrite, t.panel, err)
	}
	return nil
}

// End closes the transaction and deasserts chip select. It is safe to
// call more than once and must run on every exit path, including
// failures mid-transaction.
func (t *Txn) End() {
	if t.done {
		return
	}
	t.done = true
	t.bus.open = nil
	_ = t.bus.dev.Deselect()
}
