// Package timesource derives validated wall-clock ticks from the RTC.
package timesource

import "lcdclock/hal"

// Tick is one unit of time progression: a monotonic counter plus the
// wall-clock value derived for it. Valid is cleared when the RTC could
// not be read consistently; Time then holds the last known-good reading.
type Tick struct {
	Counter uint64
	Time    hal.ClockTime
	Valid   bool
}

// Source reads the RTC once per scheduling cycle and guards against
// unstable readings. A reading counts as stable when two back-to-back
// register reads agree, allowing for a one-second rollover between them.
type Source struct {
	clk hal.Clock

	counter  uint64
	lastGood hal.ClockTime
	haveGood bool
}

// New creates a source over the hardware RTC.
func New(clk hal.Clock) *Source {
	return &Source{clk: clk}
}

// ReadTick returns the tick for the given scheduler counter. The
// returned counter never decreases even if the scheduler's does. The
// call never fails: on an unstable RTC it reuses the previous good
// reading with Valid cleared.
func (s *Source) ReadTick(counter uint64) Tick {
	if counter > s.counter {
		s.counter = counter
	}

	t := Tick{Counter: s.counter, Time: s.lastGood}

	first, err1 := s.clk.ReadTime()
	second, err2 := s.clk.ReadTime()
	if err1 != nil || err2 != nil || !consistent(first, second) {
		return t
	}

	s.lastGood = second
	s.haveGood = true
	t.Time = second
	t.Valid = true
	return t
}

// Commit writes an edited time to the RTC and adopts it as the new
// known-good reading. Called only on state-machine commit transitions.
func (s *Source) Commit(t hal.ClockTime) error {
	if err := s.clk.SetTime(t); err != nil {
		return err
	}
	s.lastGood = t
	s.haveGood = true
	return nil
}

// consistent reports whether two back-to-back readings describe the
// same instant, tolerating a single-second rollover in between.
func consistent(a, b hal.ClockTime) bool {
	if a == b {
		return true
	}
	return secondsOfDay(b) == (secondsOfDay(a)+1)%86400
}

func secondsOfDay(t hal.ClockTime) int {
	return int(t.Hour)*3600 + int(t.Minute)*60 + int(t.Second)
}
