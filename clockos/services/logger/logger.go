// Package logger drains log lines onto the HAL logger.
package logger

import (
	"lcdclock/clockos/kernel"
	"lcdclock/clockos/proto"
	"lcdclock/hal"
)

// maxPerCycle bounds the drain so a chatty sender cannot starve the
// rest of the cycle.
const maxPerCycle = 8

type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Step(ctx *kernel.Context) {
	for i := 0; i < maxPerCycle; i++ {
		msg, ok := ctx.TryRecv(s.ep)
		if !ok {
			return
		}
		if s.log == nil {
			continue
		}
		if msg.Kind != uint16(proto.MsgLogLine) {
			continue
		}
		s.log.WriteLineBytes(msg.Payload())
	}
}
