//go:build !tinygo && cgo

package hal

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"lcdclock/internal/buildinfo"
)

const (
	windowPanelGap = 8
	windowLEDRow   = 28
	windowWidth    = PanelCount*PanelWidth + (PanelCount-1)*windowPanelGap
	windowHeight   = PanelHeight + windowLEDRow
)

// RunWindow starts a desktop window that displays the six panels and the
// LED strip, and maps keyboard keys to the clock buttons. It blocks until
// the window closes.
//
// Keys: M = mode, Up arrow = up, Down arrow = down.
func RunWindow(newApp func(HAL) func() error) error {
	h := New().(*hostHAL)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("LCD Clock (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(windowWidth, windowHeight*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h    *hostHAL
	step func() error

	img      *image.RGBA
	screen   *ebiten.Image
	ledTmp   []RGB
	panelTmp [PanelCount][]byte
}

func (g *hostGame) Update() error {
	g.h.buttons.set(ButtonMode, ebiten.IsKeyPressed(ebiten.KeyM))
	g.h.buttons.set(ButtonUp, ebiten.IsKeyPressed(ebiten.KeyArrowUp))
	g.h.buttons.set(ButtonDown, ebiten.IsKeyPressed(ebiten.KeyArrowDown))

	g.h.t.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, windowWidth, windowHeight))
		g.screen = ebiten.NewImage(windowWidth, windowHeight)
		for i := range g.panelTmp {
			g.panelTmp[i] = make([]byte, PanelWidth*PanelHeight*2)
		}
		g.ledTmp = make([]RGB, g.h.leds.Count())
	}

	// Backlight duty scales the panel output, same as the PWM pin would.
	duty := g.h.bus.brightness()
	dim := func(v uint8) uint8 {
		return uint8(uint32(v) * uint32(duty) / 0xFFFF)
	}

	for id := PanelID(0); id < PanelCount; id++ {
		g.h.bus.panelSnapshot(id, g.panelTmp[id])
		x0 := int(id) * (PanelWidth + windowPanelGap)
		src := g.panelTmp[id]
		for y := 0; y < PanelHeight; y++ {
			for x := 0; x < PanelWidth; x++ {
				off := (y*PanelWidth + x) * 2
				pix := uint16(src[off])<<8 | uint16(src[off+1])
				r, gg, b := RGB888From565(pix)
				j := g.img.PixOffset(x0+x, y)
				g.img.Pix[j+0] = dim(r)
				g.img.Pix[j+1] = dim(gg)
				g.img.Pix[j+2] = dim(b)
				g.img.Pix[j+3] = 0xFF
			}
		}
	}

	// LED strip row under the panels.
	g.h.leds.snapshot(g.ledTmp)
	ledW := windowWidth / len(g.ledTmp)
	for i, c := range g.ledTmp {
		for y := PanelHeight + 4; y < windowHeight-4; y++ {
			for x := i*ledW + 4; x < (i+1)*ledW-4; x++ {
				j := g.img.PixOffset(x, y)
				g.img.Pix[j+0] = c.R
				g.img.Pix[j+1] = c.G
				g.img.Pix[j+2] = c.B
				g.img.Pix[j+3] = 0xFF
			}
		}
	}

	g.screen.WritePixels(g.img.Pix)
	screen.DrawImage(g.screen, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}
