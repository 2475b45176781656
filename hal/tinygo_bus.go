//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

// ST7789VW command set (the subset this board uses).
const (
	cmdSLPOUT    = 0x11
	cmdINVON     = 0x21
	cmdDISPON    = 0x29
	cmdCASET     = 0x2A
	cmdRASET     = 0x2B
	cmdRAMWR     = 0x2C
	cmdMADCTL    = 0x36
	cmdCOLMOD    = 0x3A
	cmdPORCTRL   = 0xB2
	cmdGCTRL     = 0xB7
	cmdVCOMS     = 0xBB
	cmdLCMCTRL   = 0xC0
	cmdVDVVRHEN  = 0xC2
	cmdVRHS      = 0xC3
	cmdVDVS      = 0xC4
	cmdFRCTRL2   = 0xC6
	cmdPWCTRL1   = 0xD0
	cmdPVGAMCTRL = 0xE0
	cmdNVGAMCTRL = 0xE1
)

// The 135x240 area sits offset inside the controller's 240x320 RAM.
const (
	panelXOffset = 52
	panelYOffset = 40
)

// st7789x6 drives six ST7789VW panels behind a 3-bit chip-select decoder
// on one SPI bus. Board quirk: the decoder wiring inverts panel order, so
// panel 0 selects decoder value 5 and so on down to 0.
type st7789x6 struct {
	spi              *machine.SPI
	csa1, csa2, csa3 machine.Pin
	dc               machine.Pin
	rst              machine.Pin

	bl   pwmDevice
	blCh uint8
}

func newST7789x6(spi *machine.SPI, csa1, csa2, csa3, dc, rst, bl machine.Pin) *st7789x6 {
	b := &st7789x6{spi: spi, csa1: csa1, csa2: csa2, csa3: csa3, dc: dc, rst: rst}
	for _, p := range []machine.Pin{csa1, csa2, csa3, dc, rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}
	if pwm := pwmForPin(bl); pwm != nil {
		if err := pwm.Configure(machine.PWMConfig{}); err == nil {
			if ch, err := pwm.Channel(bl); err == nil {
				b.bl = pwm
				b.blCh = ch
				pwm.Enable(true)
			}
		}
	}
	return b
}

func (b *st7789x6) init() {
	b.hardReset()
	b.SetBrightness(0xFFFF)

	for id := PanelID(0); id < PanelCount; id++ {
		b.Select(id)
		b.initPanel()
		b.Deselect()
	}
}

func (b *st7789x6) hardReset() {
	b.rst.High()
	time.Sleep(50 * time.Microsecond)
	b.rst.Low()
	time.Sleep(50 * time.Microsecond)
	b.rst.High()
	time.Sleep(120 * time.Millisecond)
}

// initPanel carries the voltage and gamma settings from the vendor sample
// code; generic ST7789 drivers do not cover them.
func (b *st7789x6) initPanel() {
	b.cmd(cmdMADCTL, 0x00)
	b.cmd(cmdCOLMOD, 0x55) // 16bpp
	b.cmd(cmdPORCTRL, 0x0C, 0x0C, 0x00, 0x33, 0x33)
	b.cmd(cmdGCTRL, 0x35)
	b.cmd(cmdVCOMS, 0x19)
	b.cmd(cmdLCMCTRL, 0x2C)
	b.cmd(cmdVDVVRHEN, 0x01)
	b.cmd(cmdVRHS, 0x12)
	b.cmd(cmdVDVS, 0x20)
	b.cmd(cmdFRCTRL2, 0x0F)
	b.cmd(cmdPWCTRL1, 0xA4, 0xA1)
	b.cmd(cmdPVGAMCTRL,
		0xD0, 0x04, 0x0D, 0x11, 0x13, 0x2B, 0x3F,
		0x54, 0x4C, 0x18, 0x0D, 0x0B, 0x1F, 0x23)
	b.cmd(cmdNVGAMCTRL,
		0xD0, 0x04, 0x0C, 0x11, 0x13, 0x2C, 0x3F,
		0x44, 0x51, 0x2F, 0x1F, 0x1F, 0x20, 0x23)
	b.cmd(cmdINVON)
	b.cmd(cmdSLPOUT)
	b.cmd(cmdDISPON)
}

func (b *st7789x6) Select(id PanelID) error {
	if id >= PanelCount {
		return ErrNotImplemented
	}
	v := 5 - uint8(id)
	b.csa1.Set(v&0x1 != 0)
	b.csa2.Set(v&0x2 != 0)
	b.csa3.Set(v&0x4 != 0)
	return nil
}

func (b *st7789x6) Deselect() error {
	b.csa1.High()
	b.csa2.High()
	b.csa3.High()
	return nil
}

func (b *st7789x6) SetWindow(x0, y0, x1, y1 uint16) error {
	x0 += panelXOffset
	x1 += panelXOffset
	y0 += panelYOffset
	y1 += panelYOffset
	if err := b.cmd(cmdCASET,
		byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := b.cmd(cmdRASET,
		byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return b.cmd(cmdRAMWR)
}

func (b *st7789x6) WritePixels(p []byte) error {
	b.dc.High()
	return b.spi.Tx(p, nil)
}

func (b *st7789x6) SetBrightness(duty uint16) {
	if b.bl == nil {
		return
	}
	top := b.bl.Top()
	b.bl.Set(b.blCh, uint32(duty)*top/0xFFFF)
}

func (b *st7789x6) cmd(cmd byte, data ...byte) error {
	b.dc.Low()
	if err := b.spi.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	b.dc.High()
	return b.spi.Tx(data, nil)
}
