//go:build !tinygo

package hal

import (
	"sync"
	"time"
)

// hostClock derives the RTC from the machine clock plus a settable offset.
type hostClock struct {
	mu     sync.Mutex
	offset time.Duration
}

func newHostClock() *hostClock {
	return &hostClock{}
}

func (c *hostClock) ReadTime() (ClockTime, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().Add(c.offset)
	return ClockTime{
		Hour:   uint8(now.Hour()),
		Minute: uint8(now.Minute()),
		Second: uint8(now.Second()),
	}, nil
}

func (c *hostClock) SetTime(t ClockTime) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	want := time.Date(now.Year(), now.Month(), now.Day(),
		int(t.Hour), int(t.Minute), int(t.Second), 0, now.Location())
	c.offset = want.Sub(now)
	return nil
}
