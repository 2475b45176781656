package proto

import (
	"testing"

	"lcdclock/hal"
)

func TestButtonPayloadRejectsJunk(t *testing.T) {
	if _, _, _, ok := DecodeButtonPayload(nil); ok {
		t.Fatal("expected short payload to fail")
	}
	p := ButtonPayload(hal.ButtonUp, EdgePressed, 42)
	p[0] = uint8(hal.ButtonCount) // out-of-range button
	if _, _, _, ok := DecodeButtonPayload(p); ok {
		t.Fatal("expected out-of-range button to fail")
	}
	p = ButtonPayload(hal.ButtonUp, EdgePressed, 42)
	p[1] = 0xEE // bogus edge
	if _, _, _, ok := DecodeButtonPayload(p); ok {
		t.Fatal("expected bogus edge to fail")
	}
}

func TestButtonPayloadCarriesTick(t *testing.T) {
	p := ButtonPayload(hal.ButtonDown, EdgeHeld, 1<<40)
	id, edge, tick, ok := DecodeButtonPayload(p)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if id != hal.ButtonDown || edge != EdgeHeld || tick != 1<<40 {
		t.Fatalf("got %v %v %d", id, edge, tick)
	}
}

func TestFramePayloadRejectsBadPanel(t *testing.T) {
	p := FramePayload(Frame{Panel: hal.PanelSeparator, Glyph: ':'})
	p[0] = uint8(hal.PanelCount)
	if _, ok := DecodeFramePayload(p); ok {
		t.Fatal("expected out-of-range panel to fail")
	}
}

func TestLedPayloadRejectsUnknownPattern(t *testing.T) {
	p := LedPayload(LedRainbow)
	p[0] = uint8(LedAlarmFlash) + 1
	if _, ok := DecodeLedPayload(p); ok {
		t.Fatal("expected unknown pattern to fail")
	}
}

func TestErrorPayloadRoundTrip(t *testing.T) {
	p := ErrorPayload(ErrBusBusy, MsgFrame, []byte("panel 3"))
	code, ref, detail, ok := DecodeErrorPayload(p)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if code != ErrBusBusy || ref != MsgFrame || string(detail) != "panel 3" {
		t.Fatalf("got %v %v %q", code, ref, detail)
	}
}
