package proto

import (
	"encoding/binary"

	"lcdclock/hal"
)

// Edge is the debounced transition kind of a button event.
type Edge uint8

const (
	EdgePressed Edge = iota + 1
	EdgeReleased
	EdgeHeld
)

func (e Edge) String() string {
	switch e {
	case EdgePressed:
		return "pressed"
	case EdgeReleased:
		return "released"
	case EdgeHeld:
		return "held"
	default:
		return "unknown"
	}
}

// ButtonPayload encodes a debounced button event.
//
// Layout (little-endian):
//   - u8: button id
//   - u8: edge
//   - u64: tick at which the edge was recognized
func ButtonPayload(id hal.ButtonID, edge Edge, tick uint64) []byte {
	buf := make([]byte, 10)
	buf[0] = uint8(id)
	buf[1] = uint8(edge)
	binary.LittleEndian.PutUint64(buf[2:10], tick)
	return buf
}

// DecodeButtonPayload decodes a ButtonPayload.
func DecodeButtonPayload(payload []byte) (id hal.ButtonID, edge Edge, tick uint64, ok bool) {
	if len(payload) < 10 {
		return 0, 0, 0, false
	}
	id = hal.ButtonID(payload[0])
	edge = Edge(payload[1])
	tick = binary.LittleEndian.Uint64(payload[2:10])
	if id >= hal.ButtonCount {
		return 0, 0, 0, false
	}
	switch edge {
	case EdgePressed, EdgeReleased, EdgeHeld:
	default:
		return 0, 0, 0, false
	}
	return id, edge, tick, true
}
