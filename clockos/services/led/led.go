// Package led animates the ambient LED strip behind the panels.
package led

import (
	"lcdclock/clockos/kernel"
	"lcdclock/clockos/proto"
	"lcdclock/hal"
)

const (
	// Animated patterns advance every animStep ticks; 25 fps at the
	// 100 Hz cycle rate is plenty for a glow effect.
	animStep = 4

	breathePeriod = 300 // ticks, one in-out cycle
	flashPeriod   = 50  // ticks, on plus off
)

// Service drives the strip. Frames are recomputed on the animation
// cadence and pushed only when a color actually changed, so static
// patterns cost one write total.
type Service struct {
	strip hal.LEDStrip

	self kernel.Capability
	in   kernel.Capability
	log  kernel.Capability

	pattern proto.LedPattern
	phase   uint32

	current []hal.RGB
	scratch []hal.RGB
	written bool
}

// New creates the LED service reading pattern selections from in.
func New(strip hal.LEDStrip, self, in, log kernel.Capability) *Service {
	n := strip.Count()
	return &Service{
		strip:   strip,
		self:    self,
		in:      in,
		log:     log,
		current: make([]hal.RGB, n),
		scratch: make([]hal.RGB, n),
	}
}

func (s *Service) Step(ctx *kernel.Context) {
	changed := false
	for {
		msg, ok := ctx.TryRecv(s.in)
		if !ok {
			break
		}
		if msg.Kind != uint16(proto.MsgLedPattern) {
			continue
		}
		p, ok := proto.DecodeLedPayload(msg.Payload())
		if !ok {
			continue
		}
		if p != s.pattern {
			s.pattern = p
			changed = true
		}
	}

	now := ctx.NowTick()
	if !changed && !s.written {
		changed = true
	}
	if !changed && now%animStep != 0 {
		return
	}

	compose(s.pattern, now, s.scratch)
	if s.written && equal(s.scratch, s.current) {
		return
	}
	if err := s.strip.Write(s.scratch); err != nil {
		ctx.Send(s.self, s.log, uint16(proto.MsgLogLine), []byte("led: write failed: "+err.Error()))
		return
	}
	copy(s.current, s.scratch)
	s.written = true
}

// compose fills colors for one animation frame. It is a pure function
// of pattern and tick so frames are reproducible.
func compose(p proto.LedPattern, tick uint64, out []hal.RGB) {
	switch p {
	case proto.LedSteady:
		for i := range out {
			out[i] = hal.RGB{R: 80, G: 56, B: 16}
		}
	case proto.LedBreathing:
		v := triangle(uint32(tick%breathePeriod), breathePeriod)
		// Floor keeps the strip from going fully dark mid-breath.
		level := 16 + uint8((uint32(v)*96)/255)
		for i := range out {
			out[i] = hal.RGB{R: level, G: level / 3, B: 0}
		}
	case proto.LedRainbow:
		base := uint8((tick / animStep) & 0xFF)
		n := len(out)
		for i := range out {
			h := base + uint8((i*256)/max(n, 1))
			out[i] = hsv(h, 255, 140)
		}
	case proto.LedAlarmFlash:
		on := tick%flashPeriod < flashPeriod/2
		for i := range out {
			if on {
				out[i] = hal.RGB{R: 255}
			} else {
				out[i] = hal.RGB{}
			}
		}
	default:
		for i := range out {
			out[i] = hal.RGB{}
		}
	}
}

// triangle maps pos in [0,period) to 0..255..0.
func triangle(pos, period uint32) uint8 {
	half := period / 2
	if pos < half {
		return uint8((pos * 255) / half)
	}
	return uint8(((period - pos) * 255) / half)
}

// hsv converts a hue-saturation-value color to RGB with 8-bit channels
// and the hue wrapping at 256.
func hsv(h, s, v uint8) hal.RGB {
	if s == 0 {
		return hal.RGB{R: v, G: v, B: v}
	}
	region := h / 43
	remainder := uint16(h-region*43) * 6

	p := uint8(uint16(v) * uint16(255-s) / 255)
	q := uint8(uint16(v) * (255 - uint16(s)*remainder/255) / 255)
	t := uint8(uint16(v) * (255 - uint16(s)*(255-remainder)/255) / 255)

	switch region {
	case 0:
		return hal.RGB{R: v, G: t, B: p}
	case 1:
		return hal.RGB{R: q, G: v, B: p}
	case 2:
		return hal.RGB{R: p, G: v, B: t}
	case 3:
		return hal.RGB{R: p, G: q, B: v}
	case 4:
		return hal.RGB{R: t, G: p, B: v}
	default:
		return hal.RGB{R: v, G: p, B: q}
	}
}

func equal(a, b []hal.RGB) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
