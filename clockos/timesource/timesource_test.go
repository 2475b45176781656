package timesource

import (
	"errors"
	"testing"

	"lcdclock/hal"
)

// scriptClock replays a fixed sequence of readings.
type scriptClock struct {
	reads []hal.ClockTime
	errs  []error
	i     int

	set []hal.ClockTime
}

func (c *scriptClock) ReadTime() (hal.ClockTime, error) {
	if c.i >= len(c.reads) {
		c.i = len(c.reads) - 1
	}
	t := c.reads[c.i]
	var err error
	if c.i < len(c.errs) {
		err = c.errs[c.i]
	}
	c.i++
	return t, err
}

func (c *scriptClock) SetTime(t hal.ClockTime) error {
	c.set = append(c.set, t)
	return nil
}

func TestCounterMonotonic(t *testing.T) {
	at := hal.ClockTime{Hour: 12}
	clk := &scriptClock{reads: []hal.ClockTime{at, at, at, at, at, at}}
	s := New(clk)

	ticks := []uint64{5, 10, 7, 10, 12}
	var prev uint64
	for _, in := range ticks {
		tick := s.ReadTick(in)
		if tick.Counter < prev {
			t.Fatalf("counter decreased: %d after %d", tick.Counter, prev)
		}
		prev = tick.Counter
	}
	if prev != 12 {
		t.Fatalf("expected final counter 12, got %d", prev)
	}
}

func TestStableReadIsValid(t *testing.T) {
	at := hal.ClockTime{Hour: 12, Minute: 34, Second: 56}
	s := New(&scriptClock{reads: []hal.ClockTime{at, at}})

	tick := s.ReadTick(1)
	if !tick.Valid {
		t.Fatal("expected valid tick for stable reads")
	}
	if tick.Time != at {
		t.Fatalf("expected %v, got %v", at, tick.Time)
	}
}

func TestRolloverBetweenReadsIsValid(t *testing.T) {
	a := hal.ClockTime{Hour: 23, Minute: 59, Second: 59}
	b := hal.ClockTime{Hour: 0, Minute: 0, Second: 0}
	s := New(&scriptClock{reads: []hal.ClockTime{a, b}})

	tick := s.ReadTick(1)
	if !tick.Valid {
		t.Fatal("expected valid tick across midnight rollover")
	}
	if tick.Time != b {
		t.Fatalf("expected second reading %v, got %v", b, tick.Time)
	}
}

func TestMismatchKeepsLastGood(t *testing.T) {
	good := hal.ClockTime{Hour: 12, Minute: 0, Second: 0}
	junkA := hal.ClockTime{Hour: 3, Minute: 7, Second: 1}
	junkB := hal.ClockTime{Hour: 19, Minute: 44, Second: 9}
	s := New(&scriptClock{reads: []hal.ClockTime{good, good, junkA, junkB}})

	if tick := s.ReadTick(1); !tick.Valid {
		t.Fatal("expected first tick valid")
	}
	tick := s.ReadTick(2)
	if tick.Valid {
		t.Fatal("expected mismatched reads to clear validity")
	}
	if tick.Time != good {
		t.Fatalf("expected last good time %v, got %v", good, tick.Time)
	}
}

func TestReadErrorKeepsLastGood(t *testing.T) {
	good := hal.ClockTime{Hour: 8, Minute: 30}
	s := New(&scriptClock{
		reads: []hal.ClockTime{good, good, {}, {}},
		errs:  []error{nil, nil, errors.New("i2c timeout"), nil},
	})

	s.ReadTick(1)
	tick := s.ReadTick(2)
	if tick.Valid {
		t.Fatal("expected read error to clear validity")
	}
	if tick.Time != good {
		t.Fatalf("expected last good time %v, got %v", good, tick.Time)
	}
}

func TestCommitAdoptsTime(t *testing.T) {
	clk := &scriptClock{reads: []hal.ClockTime{{}, {}}}
	s := New(clk)

	want := hal.ClockTime{Hour: 14, Minute: 7}
	if err := s.Commit(want); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(clk.set) != 1 || clk.set[0] != want {
		t.Fatalf("expected one RTC write of %v, got %v", want, clk.set)
	}
}
