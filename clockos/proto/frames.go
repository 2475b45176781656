package proto

import (
	"encoding/binary"

	"lcdclock/hal"
)

// FrameFlags modify how a frame is drawn.
type FrameFlags uint8

const (
	// FlagBlank blacks the panel out regardless of glyph.
	FlagBlank FrameFlags = 1 << iota
	// FlagEditing highlights the glyph as the active edit target.
	FlagEditing
	// FlagDrift marks the time source as running on a stale reading.
	FlagDrift
	// FlagAlarmSet shows the armed-alarm marker on the indicator panel.
	FlagAlarmSet
	// FlagRinging inverts the panel while the alarm sounds.
	FlagRinging
)

// Caption selects the indicator panel's mode caption.
type Caption uint8

const (
	CaptionNone Caption = iota
	CaptionSet
	CaptionAlarm
	CaptionRing
)

func (c Caption) String() string {
	switch c {
	case CaptionNone:
		return ""
	case CaptionSet:
		return "SET"
	case CaptionAlarm:
		return "ALM"
	case CaptionRing:
		return "RING"
	default:
		return "?"
	}
}

// Frame is the semantic content one panel should display next. It is
// produced fresh each cycle by the state machine and consumed by the
// display service; pixel-level diffing happens there.
type Frame struct {
	Panel       hal.PanelID
	Glyph       byte // '0'..'9', ':' or ' '
	Flags       FrameFlags
	Caption     Caption
	AlarmHour   uint8
	AlarmMinute uint8
}

// FramePayload encodes a Frame.
func FramePayload(f Frame) []byte {
	return []byte{
		uint8(f.Panel),
		f.Glyph,
		uint8(f.Flags),
		uint8(f.Caption),
		f.AlarmHour,
		f.AlarmMinute,
	}
}

// DecodeFramePayload decodes a FramePayload.
func DecodeFramePayload(payload []byte) (Frame, bool) {
	if len(payload) < 6 {
		return Frame{}, false
	}
	f := Frame{
		Panel:       hal.PanelID(payload[0]),
		Glyph:       payload[1],
		Flags:       FrameFlags(payload[2]),
		Caption:     Caption(payload[3]),
		AlarmHour:   payload[4],
		AlarmMinute: payload[5],
	}
	if f.Panel >= hal.PanelCount {
		return Frame{}, false
	}
	return f, true
}

// LedPattern names an ambient lighting pattern.
type LedPattern uint8

const (
	LedOff LedPattern = iota
	LedSteady
	LedBreathing
	LedRainbow
	LedAlarmFlash
)

func (p LedPattern) String() string {
	switch p {
	case LedOff:
		return "off"
	case LedSteady:
		return "steady"
	case LedBreathing:
		return "breathing"
	case LedRainbow:
		return "rainbow"
	case LedAlarmFlash:
		return "alarm_flash"
	default:
		return "unknown"
	}
}

// LedPayload encodes a LedPattern selection.
func LedPayload(p LedPattern) []byte {
	return []byte{uint8(p)}
}

// DecodeLedPayload decodes a LedPayload.
func DecodeLedPayload(payload []byte) (LedPattern, bool) {
	if len(payload) < 1 {
		return 0, false
	}
	p := LedPattern(payload[0])
	if p > LedAlarmFlash {
		return 0, false
	}
	return p, true
}

// BrightnessPayload encodes a backlight duty cycle.
func BrightnessPayload(duty uint16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, duty)
	return buf
}

// DecodeBrightnessPayload decodes a BrightnessPayload.
func DecodeBrightnessPayload(payload []byte) (uint16, bool) {
	if len(payload) < 2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(payload), true
}
