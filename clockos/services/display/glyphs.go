package display

import "lcdclock/hal"

// Digits are drawn as seven filled segment rectangles. Keeping glyph
// state as a segment bitmask means a frame change redraws only the
// segments whose state flipped, a handful of small rects instead of
// 64 KB of panel pixels.

// Segment bits, classic seven-segment naming.
const (
	segA uint8 = 1 << iota // top bar
	segB                   // upper right
	segC                   // lower right
	segD                   // bottom bar
	segE                   // lower left
	segF                   // upper left
	segG                   // middle bar
)

var digitMask = [10]uint8{
	segA | segB | segC | segD | segE | segF,        // 0
	segB | segC,                                    // 1
	segA | segB | segD | segE | segG,               // 2
	segA | segB | segC | segD | segG,               // 3
	segB | segC | segF | segG,                      // 4
	segA | segC | segD | segF | segG,               // 5
	segA | segC | segD | segE | segF | segG,        // 6
	segA | segB | segC,                             // 7
	segA | segB | segC | segD | segE | segF | segG, // 8
	segA | segB | segC | segD | segF | segG,        // 9
}

// maskFor maps a glyph to its segment mask. The separator panel uses
// sepMask instead.
func maskFor(glyph byte) uint8 {
	if glyph >= '0' && glyph <= '9' {
		return digitMask[glyph-'0']
	}
	return 0
}

// Separator dots reuse the mask mechanism with two bits.
const (
	dotUpper uint8 = 1 << iota
	dotLower
)

func sepMask(glyph byte) uint8 {
	if glyph == ':' {
		return dotUpper | dotLower
	}
	return 0
}

type rect struct {
	x0, y0, x1, y1 uint16
}

func (r rect) pixels() int {
	return int(r.x1-r.x0+1) * int(r.y1-r.y0+1)
}

// Segment geometry on the 135x240 panel. Rects do not overlap, so a
// segment can be cleared without chewing into a lit neighbor.
//
//	 aaa        horizontals x 28..106
//	f   b       verticals   x 10..27 and 107..124
//	 ggg
//	e   c
//	 ddd
var segRects = [7]rect{
	{28, 20, 106, 37},    // A
	{107, 38, 124, 110},  // B
	{107, 129, 124, 202}, // C
	{28, 203, 106, 220},  // D
	{10, 129, 27, 202},   // E
	{10, 38, 27, 110},    // F
	{28, 111, 106, 128},  // G
}

var dotRects = [2]rect{
	{49, 64, 85, 100},  // upper
	{49, 140, 85, 176}, // lower
}

// rectsFor returns the segment rects and the number of mask bits in use
// for one panel.
func rectsFor(id hal.PanelID) ([]rect, int) {
	if id == hal.PanelSeparator {
		return dotRects[:], 2
	}
	return segRects[:], 7
}
