package display

import (
	"image/color"

	"lcdclock/hal"
)

// bandHeight is the height of the text canvas used for the indicator
// panel. Rendering band by band keeps the buffer at ~11 KB instead of a
// 64 KB full-panel framebuffer.
const bandHeight = 40

// bandCanvas is a small RGB565 strip the text renderer draws into. It
// satisfies the displayer contract tinyfont expects; Display is a no-op
// because the strip is streamed out through a bus transaction instead.
type bandCanvas struct {
	buf [hal.PanelWidth * bandHeight * 2]byte
}

func (c *bandCanvas) Size() (x, y int16) {
	return hal.PanelWidth, bandHeight
}

func (c *bandCanvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || x >= hal.PanelWidth || y >= bandHeight {
		return
	}
	p := hal.RGB565(col.R, col.G, col.B)
	i := (int(y)*hal.PanelWidth + int(x)) * 2
	c.buf[i] = byte(p >> 8)
	c.buf[i+1] = byte(p)
}

func (c *bandCanvas) Display() error { return nil }

// fill paints the whole band with one RGB565 color.
func (c *bandCanvas) fill(p uint16) {
	hi, lo := byte(p>>8), byte(p)
	for i := 0; i < len(c.buf); i += 2 {
		c.buf[i] = hi
		c.buf[i+1] = lo
	}
}
