package bus

import (
	"errors"
	"testing"

	"lcdclock/hal"
)

// tracePanelBus records the raw operation sequence so tests can check
// that streams for distinct panels never interleave.
type tracePanelBus struct {
	ops      []string
	selected int
	failNext bool
}

func (b *tracePanelBus) Select(id hal.PanelID) error {
	b.ops = append(b.ops, "select "+id.String())
	b.selected = int(id)
	return nil
}

func (b *tracePanelBus) Deselect() error {
	b.ops = append(b.ops, "deselect")
	b.selected = -1
	return nil
}

func (b *tracePanelBus) SetWindow(x0, y0, x1, y1 uint16) error {
	if b.failNext {
		b.failNext = false
		return errors.New("boom")
	}
	b.ops = append(b.ops, "window")
	return nil
}

func (b *tracePanelBus) WritePixels(p []byte) error {
	if b.failNext {
		b.failNext = false
		return errors.New("boom")
	}
	b.ops = append(b.ops, "pixels")
	return nil
}

func (b *tracePanelBus) SetBrightness(duty uint16) {}

func TestBeginWhileOpenFailsBusy(t *testing.T) {
	b := New(&tracePanelBus{selected: -1})

	txn, err := b.Begin(hal.PanelHourTens)
	if err != nil {
		t.Fatalf("expected Begin to succeed, got %v", err)
	}
	if _, err := b.Begin(hal.PanelHourOnes); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	txn.End()
	if _, err := b.Begin(hal.PanelHourOnes); err != nil {
		t.Fatalf("expected Begin after End to succeed, got %v", err)
	}
}

func TestTransactionsDoNotInterleave(t *testing.T) {
	dev := &tracePanelBus{selected: -1}
	b := New(dev)

	t0, err := b.Begin(hal.PanelHourTens)
	if err != nil {
		t.Fatalf("begin 0: %v", err)
	}
	if err := t0.SetWindow(0, 0, 10, 10); err != nil {
		t.Fatalf("window 0: %v", err)
	}
	if err := t0.WritePixels([]byte{1, 2}); err != nil {
		t.Fatalf("pixels 0: %v", err)
	}
	t0.End()

	t1, err := b.Begin(hal.PanelHourOnes)
	if err != nil {
		t.Fatalf("begin 1: %v", err)
	}
	if err := t1.WritePixels([]byte{3, 4}); err != nil {
		t.Fatalf("pixels 1: %v", err)
	}
	t1.End()

	want := []string{
		"select hour-tens", "window", "pixels", "deselect",
		"select hour-ones", "pixels", "deselect",
	}
	if len(dev.ops) != len(want) {
		t.Fatalf("expected %d ops, got %d: %v", len(want), len(dev.ops), dev.ops)
	}
	for i := range want {
		if dev.ops[i] != want[i] {
			t.Fatalf("op %d: expected %q, got %q", i, want[i], dev.ops[i])
		}
	}
}

func TestEndDeassertsAfterFailure(t *testing.T) {
	dev := &tracePanelBus{selected: -1}
	b := New(dev)

	txn, err := b.Begin(hal.PanelSeparator)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	dev.failNext = true
	if err := txn.WritePixels([]byte{0}); !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	txn.End()

	if dev.selected != -1 {
		t.Fatalf("expected chip select deasserted, still %d", dev.selected)
	}
	if b.Busy() {
		t.Fatal("expected bus idle after End")
	}
}

func TestEndIsIdempotent(t *testing.T) {
	dev := &tracePanelBus{selected: -1}
	b := New(dev)

	txn, _ := b.Begin(hal.PanelIndicator)
	txn.End()
	txn.End()

	deselects := 0
	for _, op := range dev.ops {
		if op == "deselect" {
			deselects++
		}
	}
	if deselects != 1 {
		t.Fatalf("expected exactly one deselect, got %d", deselects)
	}
}

func TestClosedTransactionRejectsWrites(t *testing.T) {
	b := New(&tracePanelBus{selected: -1})
	txn, _ := b.Begin(hal.PanelMinuteTens)
	txn.End()

	if err := txn.WritePixels([]byte{0}); err == nil {
		t.Fatal("expected write on closed transaction to fail")
	}
	if err := txn.SetWindow(0, 0, 1, 1); err == nil {
		t.Fatal("expected window on closed transaction to fail")
	}
}

func TestBeginInvalidPanel(t *testing.T) {
	b := New(&tracePanelBus{selected: -1})
	if _, err := b.Begin(hal.PanelCount); err == nil {
		t.Fatal("expected Begin with invalid panel to fail")
	}
}
