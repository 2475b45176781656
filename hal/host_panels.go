//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
)

// hostPanel emulates one TFT controller: an RGB565 framebuffer plus the
// address-window write cursor.
type hostPanel struct {
	mu  sync.Mutex
	buf []byte

	winX0, winY0 uint16
	winX1, winY1 uint16
	curX, curY   uint16
}

func newHostPanel() *hostPanel {
	p := &hostPanel{buf: make([]byte, PanelWidth*PanelHeight*2)}
	p.winX1 = PanelWidth - 1
	p.winY1 = PanelHeight - 1
	return p
}

func (p *hostPanel) setWindow(x0, y0, x1, y1 uint16) error {
	if x0 > x1 || y0 > y1 || x1 >= PanelWidth || y1 >= PanelHeight {
		return fmt.Errorf("panel: window (%d,%d)-(%d,%d) out of bounds", x0, y0, x1, y1)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.winX0, p.winY0, p.winX1, p.winY1 = x0, y0, x1, y1
	p.curX, p.curY = x0, y0
	return nil
}

func (p *hostPanel) writePixels(data []byte) error {
	if len(data)%2 != 0 {
		return fmt.Errorf("panel: odd pixel payload length %d", len(data))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i+1 < len(data); i += 2 {
		if p.curY > p.winY1 {
			// Controller discards pixels past the window.
			break
		}
		off := (int(p.curY)*PanelWidth + int(p.curX)) * 2
		// Wire order is big-endian; the framebuffer keeps it verbatim.
		p.buf[off] = data[i]
		p.buf[off+1] = data[i+1]

		p.curX++
		if p.curX > p.winX1 {
			p.curX = p.winX0
			p.curY++
		}
	}
	return nil
}

func (p *hostPanel) snapshot(dst []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	copy(dst, p.buf)
}

// hostBus emulates the shared serial bus with its chip-select decoder.
type hostBus struct {
	mu       sync.Mutex
	panels   [PanelCount]*hostPanel
	selected int // -1 when no chip select is asserted
	duty     uint16
}

func newHostBus() *hostBus {
	b := &hostBus{selected: -1, duty: 0xFFFF}
	for i := range b.panels {
		b.panels[i] = newHostPanel()
	}
	return b
}

func (b *hostBus) Select(id PanelID) error {
	if id >= PanelCount {
		return fmt.Errorf("bus: invalid panel %d", id)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = int(id)
	return nil
}

func (b *hostBus) Deselect() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = -1
	return nil
}

func (b *hostBus) SetWindow(x0, y0, x1, y1 uint16) error {
	p, err := b.current()
	if err != nil {
		return err
	}
	return p.setWindow(x0, y0, x1, y1)
}

func (b *hostBus) WritePixels(data []byte) error {
	p, err := b.current()
	if err != nil {
		return err
	}
	return p.writePixels(data)
}

func (b *hostBus) SetBrightness(duty uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.duty = duty
}

func (b *hostBus) brightness() uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.duty
}

func (b *hostBus) current() (*hostPanel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected < 0 {
		return nil, fmt.Errorf("bus: no panel selected")
	}
	return b.panels[b.selected], nil
}

func (b *hostBus) panelSnapshot(id PanelID, dst []byte) {
	if id >= PanelCount {
		return
	}
	b.panels[id].snapshot(dst)
}
