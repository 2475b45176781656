// Package display turns retained panel frames into minimal pixel
// traffic over the shared bus.
package display

import (
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"

	"lcdclock/clockos/bus"
	"lcdclock/clockos/kernel"
	"lcdclock/clockos/proto"
	"lcdclock/hal"
)

const (
	// chunkPixels bounds the scratch buffer for streamed fills.
	chunkPixels = 240

	// After maxRetries consecutive failed renders a panel is considered
	// wedged and skipped for staleSkipCycles before trying again.
	maxRetries      = 3
	staleSkipCycles = 50
)

// Pixel colors, RGB565.
var (
	colorOff     = hal.RGB565(0, 0, 0)
	colorLit     = hal.RGB565(255, 255, 255)
	colorEditing = hal.RGB565(64, 255, 64)
	colorRingBG  = hal.RGB565(160, 0, 0)
)

// plan is what a panel should look like, reduced to the parameters the
// renderer draws from. Plans are comparable; render work happens only
// when a panel's plan differs from what is known to be on glass.
type plan struct {
	mask  uint8
	fg    uint16
	bg    uint16
	drift bool

	// Indicator panel only.
	caption     proto.Caption
	alarmHour   uint8
	alarmMinute uint8
	armed       bool
}

type panelState struct {
	desired proto.Frame
	have    bool

	committed plan
	onGlass   bool

	retries    uint8
	staleUntil uint64
}

// Service owns the panels. It drains retained frames, then walks the
// panels in fixed id order and redraws whatever diverged, one bus
// transaction per panel per cycle.
type Service struct {
	bus *bus.Bus

	self kernel.Capability
	in   kernel.Capability
	log  kernel.Capability

	panels [hal.PanelCount]panelState

	duty        uint16
	dutyPending bool

	canvas bandCanvas
	chunk  [chunkPixels * 2]byte
}

// New creates the display service reading frames from in.
func New(b *bus.Bus, self, in, log kernel.Capability) *Service {
	return &Service{bus: b, self: self, in: in, log: log}
}

func (s *Service) Step(ctx *kernel.Context) {
	s.drain(ctx)

	if s.dutyPending {
		s.bus.SetBrightness(s.duty)
		s.dutyPending = false
	}

	now := ctx.NowTick()
	for id := hal.PanelID(0); id < hal.PanelCount; id++ {
		s.renderPanel(ctx, id, now)
	}
}

func (s *Service) drain(ctx *kernel.Context) {
	for {
		msg, ok := ctx.TryRecv(s.in)
		if !ok {
			return
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgFrame:
			f, ok := proto.DecodeFramePayload(msg.Payload())
			if !ok {
				continue
			}
			s.panels[f.Panel].desired = f
			s.panels[f.Panel].have = true
		case proto.MsgBrightness:
			d, ok := proto.DecodeBrightnessPayload(msg.Payload())
			if !ok {
				continue
			}
			s.duty = d
			s.dutyPending = true
		}
	}
}

func (s *Service) renderPanel(ctx *kernel.Context, id hal.PanelID, now uint64) {
	st := &s.panels[id]
	if !st.have || now < st.staleUntil {
		return
	}
	p := planFor(id, st.desired)
	if st.onGlass && p == st.committed {
		return
	}

	err := s.draw(id, st, p)
	if err != nil {
		st.retries++
		if st.retries >= maxRetries {
			st.retries = 0
			st.staleUntil = now + staleSkipCycles
			s.logf(ctx, "display: "+id.String()+" wedged, backing off: "+err.Error())
		}
		// Committed state stays as-is: whatever made it to the glass
		// before the failure is unknown, so the next attempt redraws.
		st.onGlass = false
		return
	}

	st.retries = 0
	st.committed = p
	st.onGlass = true
}

// planFor reduces a frame to render parameters.
func planFor(id hal.PanelID, f proto.Frame) plan {
	var p plan

	if f.Flags&proto.FlagBlank != 0 {
		p.fg = colorOff
		p.bg = colorOff
		return p
	}

	p.fg = colorLit
	p.bg = colorOff
	if f.Flags&proto.FlagEditing != 0 {
		p.fg = colorEditing
	}
	if f.Flags&proto.FlagRinging != 0 {
		p.bg = colorRingBG
	}

	switch id {
	case hal.PanelSeparator:
		p.mask = sepMask(f.Glyph)
	case hal.PanelIndicator:
		p.caption = f.Caption
		p.armed = f.Flags&proto.FlagAlarmSet != 0
		p.drift = f.Flags&proto.FlagDrift != 0
		if p.armed {
			p.alarmHour = f.AlarmHour
			p.alarmMinute = f.AlarmMinute
		}
	default:
		p.mask = maskFor(f.Glyph)
	}
	return p
}

func (s *Service) draw(id hal.PanelID, st *panelState, p plan) error {
	txn, err := s.bus.Begin(id)
	if err != nil {
		return err
	}
	defer txn.End()

	if id == hal.PanelIndicator {
		return s.drawIndicator(txn, p)
	}

	rects, bits := rectsFor(id)

	// A background change invalidates every pixel; repaint from scratch.
	full := !st.onGlass || p.bg != st.committed.bg
	if full {
		if err := s.fillRect(txn, rect{0, 0, hal.PanelWidth - 1, hal.PanelHeight - 1}, p.bg); err != nil {
			return err
		}
	}

	for bit := 0; bit < bits; bit++ {
		lit := p.mask&(1<<bit) != 0
		was := st.committed.mask&(1<<bit) != 0
		if full {
			// Fresh background: only lit segments need paint.
			if !lit {
				continue
			}
		} else {
			unchanged := lit == was && (!lit || p.fg == st.committed.fg)
			if unchanged {
				continue
			}
		}
		c := p.bg
		if lit {
			c = p.fg
		}
		if err := s.fillRect(txn, rects[bit], c); err != nil {
			return err
		}
	}
	return nil
}

// fillRect streams a solid rectangle through the fixed chunk buffer.
func (s *Service) fillRect(txn *bus.Txn, r rect, c uint16) error {
	if err := txn.SetWindow(r.x0, r.y0, r.x1, r.y1); err != nil {
		return err
	}
	hi, lo := byte(c>>8), byte(c)
	for i := 0; i < chunkPixels; i++ {
		s.chunk[2*i] = hi
		s.chunk[2*i+1] = lo
	}
	remaining := r.pixels()
	for remaining > 0 {
		n := remaining
		if n > chunkPixels {
			n = chunkPixels
		}
		if err := txn.WritePixels(s.chunk[:2*n]); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}

// Indicator panel band layout, top of each text band.
const (
	captionBandY = 30
	alarmBandY   = 110
	statusBandY  = 190
)

// drawIndicator repaints the whole indicator panel. Changes here are
// rare (mode transitions, arming) so the full repaint is cheap relative
// to the per-second digit churn.
func (s *Service) drawIndicator(txn *bus.Txn, p plan) error {
	if err := s.fillRect(txn, rect{0, 0, hal.PanelWidth - 1, hal.PanelHeight - 1}, p.bg); err != nil {
		return err
	}
	if p.fg == p.bg {
		return nil
	}

	fr, fg, fb := hal.RGB888From565(p.fg)
	ink := color.RGBA{R: fr, G: fg, B: fb, A: 255}

	if p.caption != proto.CaptionNone {
		if err := s.drawBand(txn, captionBandY, p.bg, p.caption.String(), ink); err != nil {
			return err
		}
	}
	if p.armed {
		var t [5]byte
		t[0] = '0' + p.alarmHour/10
		t[1] = '0' + p.alarmHour%10
		t[2] = ':'
		t[3] = '0' + p.alarmMinute/10
		t[4] = '0' + p.alarmMinute%10
		if err := s.drawBand(txn, alarmBandY, p.bg, string(t[:]), ink); err != nil {
			return err
		}
	}
	if p.drift {
		if err := s.drawBand(txn, statusBandY, p.bg, "!", ink); err != nil {
			return err
		}
	}
	return nil
}

// drawBand renders one line of text into the band canvas and streams it.
func (s *Service) drawBand(txn *bus.Txn, y uint16, bg uint16, text string, ink color.RGBA) error {
	s.canvas.fill(bg)
	tinyfont.WriteLine(&s.canvas, &freemono.Bold18pt7b, 4, bandHeight-8, text, ink)

	if err := txn.SetWindow(0, y, hal.PanelWidth-1, y+bandHeight-1); err != nil {
		return err
	}
	return txn.WritePixels(s.canvas.buf[:])
}

func (s *Service) logf(ctx *kernel.Context, line string) {
	ctx.Send(s.self, s.log, uint16(proto.MsgLogLine), []byte(line))
}
