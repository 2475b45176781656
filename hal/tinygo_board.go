//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers/ds3231"
	"tinygo.org/x/drivers/ws2812"
)

// Board wiring (Waveshare six-panel LCD clock, RP2040):
//
//	SPI1 SCK GP10, SDO GP11 — shared panel bus
//	CSA1/2/3 GP2/GP3/GP4   — 3-bit chip-select decoder
//	DC GP8, RST GP12       — shared control lines
//	BL GP13                — backlight PWM
//	I2C1 SDA GP6, SCL GP7  — DS3231 RTC
//	GP22                   — WS2812 strip (6 LEDs)
//	GP14/GP15/GP17         — mode/up/down buttons, active low
//	GP16                   — buzzer PWM
//	UART0 GP0/GP1          — log console, 115200 8N1
type boardHAL struct {
	logger  *uartLogger
	bus     *st7789x6
	buttons *pinButtons
	clock   *ds3231Clock
	leds    *ws2812Strip
	buzzer  *pwmBuzzer
	flash   Flash
	t       *tinyGoTime
}

// New returns the bare-metal HAL implementation.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		Frequency: 40_000_000,
	})

	machine.I2C1.Configure(machine.I2CConfig{
		SDA:       machine.GP6,
		SCL:       machine.GP7,
		Frequency: 100_000,
	})

	bus := newST7789x6(machine.SPI1, machine.GP2, machine.GP3, machine.GP4,
		machine.GP8, machine.GP12, machine.GP13)
	bus.init()

	rtc := ds3231.New(machine.I2C1)
	rtc.Configure()

	strip := newWS2812Strip(machine.GP22, 6)

	return &boardHAL{
		logger:  &uartLogger{uart: uart},
		bus:     bus,
		buttons: newPinButtons(machine.GP14, machine.GP15, machine.GP17),
		clock:   &ds3231Clock{dev: &rtc},
		leds:    strip,
		buzzer:  newPWMBuzzer(machine.GP16),
		flash:   newBoardFlash(),
		t:       newTinyGoTime(),
	}
}

func (h *boardHAL) Logger() Logger   { return h.logger }
func (h *boardHAL) Panels() PanelBus { return h.bus }
func (h *boardHAL) Buttons() Buttons { return h.buttons }
func (h *boardHAL) Clock() Clock     { return h.clock }
func (h *boardHAL) LEDs() LEDStrip   { return h.leds }
func (h *boardHAL) Buzzer() Buzzer   { return h.buzzer }
func (h *boardHAL) Flash() Flash     { return h.flash }
func (h *boardHAL) Time() Time       { return h.t }

type ds3231Clock struct {
	dev *ds3231.Device
}

func (c *ds3231Clock) ReadTime() (ClockTime, error) {
	t, err := c.dev.ReadTime()
	if err != nil {
		return ClockTime{}, err
	}
	return ClockTime{
		Hour:   uint8(t.Hour()),
		Minute: uint8(t.Minute()),
		Second: uint8(t.Second()),
	}, nil
}

func (c *ds3231Clock) SetTime(t ClockTime) error {
	cur, err := c.dev.ReadTime()
	if err != nil {
		return err
	}
	next := time.Date(cur.Year(), cur.Month(), cur.Day(),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
	return c.dev.SetTime(next)
}

type ws2812Strip struct {
	dev    ws2812.Device
	count  int
	colors []color.RGBA
}

func newWS2812Strip(pin machine.Pin, count int) *ws2812Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &ws2812Strip{
		dev:    ws2812.NewWS2812(pin),
		count:  count,
		colors: make([]color.RGBA, count),
	}
}

func (s *ws2812Strip) Count() int { return s.count }

func (s *ws2812Strip) Write(colors []RGB) error {
	for i := range s.colors {
		s.colors[i] = color.RGBA{A: 0xFF}
		if i < len(colors) {
			s.colors[i] = color.RGBA{R: colors[i].R, G: colors[i].G, B: colors[i].B, A: 0xFF}
		}
	}
	return s.dev.WriteColors(s.colors)
}
