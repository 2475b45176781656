package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PanelID selects one of the six LCD panels.
type PanelID uint8

const (
	PanelHourTens PanelID = iota
	PanelHourOnes
	PanelSeparator
	PanelMinuteTens
	PanelMinuteOnes
	PanelIndicator

	PanelCount = 6
)

func (p PanelID) String() string {
	switch p {
	case PanelHourTens:
		return "hour-tens"
	case PanelHourOnes:
		return "hour-ones"
	case PanelSeparator:
		return "separator"
	case PanelMinuteTens:
		return "minute-tens"
	case PanelMinuteOnes:
		return "minute-ones"
	case PanelIndicator:
		return "indicator"
	default:
		return "unknown"
	}
}

// Panel geometry. All six panels are identical 135x240 portrait TFTs.
const (
	PanelWidth  = 135
	PanelHeight = 240
)

// PanelBus is the single shared serial bus behind the six panels.
//
// Select/Deselect bracket the writes for one panel; the controller
// command set (address window, pixel write) is a platform primitive.
// Arbitration and transaction discipline live above the HAL — the bus
// itself only delivers bytes to whichever panel is selected.
type PanelBus interface {
	Select(id PanelID) error
	Deselect() error
	// SetWindow declares the rectangle the next WritePixels fills,
	// inclusive coordinates in panel space.
	SetWindow(x0, y0, x1, y1 uint16) error
	// WritePixels streams RGB565 big-endian pixel data, row-major
	// within the current window.
	WritePixels(p []byte) error
	// SetBrightness sets the shared backlight PWM duty (0 = dark).
	SetBrightness(duty uint16)
}

// ButtonID identifies one of the physical buttons.
type ButtonID uint8

const (
	ButtonMode ButtonID = iota
	ButtonUp
	ButtonDown

	ButtonCount = 3
)

func (b ButtonID) String() string {
	switch b {
	case ButtonMode:
		return "mode"
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	default:
		return "unknown"
	}
}

// Buttons reads raw, undebounced button levels. True means pressed;
// the HAL normalizes away electrical polarity.
type Buttons interface {
	Pressed(id ButtonID) bool
}

// ClockTime is a battery-backed wall-clock reading.
type ClockTime struct {
	Hour   uint8
	Minute uint8
	Second uint8
}

// Clock reads and sets the hardware RTC. ReadTime may fail or return
// inconsistent values while the oscillator is unstable; callers are
// expected to validate across reads.
type Clock interface {
	ReadTime() (ClockTime, error)
	SetTime(t ClockTime) error
}

// RGB is one LED color.
type RGB struct {
	R, G, B uint8
}

// LEDStrip drives the ambient LED chain. Write sends the full strip in
// one shot; partial updates are not possible on the wire.
type LEDStrip interface {
	Count() int
	Write(colors []RGB) error
}

// Buzzer is the alarm sounder. Start is idempotent while beeping.
type Buzzer interface {
	Start(freqHz uint32)
	Stop()
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// Time provides the base tick stream driving the scheduler.
type Time interface {
	// Ticks yields a monotonically increasing tick sequence. The
	// channel is bounded; slow consumers observe sequence jumps, not
	// blocked producers.
	Ticks() <-chan uint64
	// Hz is the nominal tick rate.
	Hz() int
}

// HAL is the only contact point between the clock core and hardware.
type HAL interface {
	Logger() Logger
	Panels() PanelBus
	Buttons() Buttons
	Clock() Clock
	LEDs() LEDStrip
	Buzzer() Buzzer
	Flash() Flash
	Time() Time
}
