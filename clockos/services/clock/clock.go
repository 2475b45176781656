// Package clock holds the mode state machine: it turns debounced button
// events and RTC ticks into panel frames, LED pattern selections and
// backlight levels.
package clock

import (
	"lcdclock/clockos/alarmstore"
	"lcdclock/clockos/kernel"
	"lcdclock/clockos/proto"
	"lcdclock/clockos/timesource"
	"lcdclock/hal"
)

// State is the current interaction mode.
type State uint8

const (
	StateTimeDisplay State = iota
	StateSetHour
	StateSetMinute
	StateAlarmSetHour
	StateAlarmSetMinute
	StateAlarmRinging
	StateIdle
)

func (s State) String() string {
	switch s {
	case StateTimeDisplay:
		return "time"
	case StateSetHour:
		return "set-hour"
	case StateSetMinute:
		return "set-minute"
	case StateAlarmSetHour:
		return "alarm-hour"
	case StateAlarmSetMinute:
		return "alarm-minute"
	case StateAlarmRinging:
		return "ringing"
	case StateIdle:
		return "idle"
	default:
		return "unknown"
	}
}

const (
	tickHz = 100

	// Editing sessions commit on their own after 10 s without input.
	setTimeoutTicks = 10 * tickHz
	// The display blanks after 60 s without input.
	idleTimeoutTicks = 60 * tickHz
	// A ringing alarm that nobody dismisses stops after 60 s.
	ringTimeoutTicks = 60 * tickHz

	brightNormal uint16 = 0xC000
	brightIdle   uint16 = 0x0800

	buzzerFreqHz = 2000
)

type panelOut struct {
	frame proto.Frame
	sent  bool
	dirty bool
}

// Service is the mode state machine. It runs after the input service in
// the cycle, so edges recognized this tick are acted on this tick, and
// before the display service, so frames it emits are drawn this tick.
type Service struct {
	src    *timesource.Source
	store  *alarmstore.Store
	buzzer hal.Buzzer

	self    kernel.Capability
	events  kernel.Capability
	display kernel.Capability
	led     kernel.Capability
	log     kernel.Capability

	state State
	now   hal.ClockTime
	drift bool

	// scratch holds the time being edited; committed as-is with the
	// seconds zeroed in a single RTC write.
	scratch hal.ClockTime
	alarm   alarmstore.Alarm

	lastInputTick uint64
	ringStart     uint64
	firedMinute   uint16 // hour*60+minute of the last trigger, 0xFFFF when none

	// modeArmed is set while the mode button is down in TimeDisplay:
	// release means "enter set mode", hold means "enter alarm config".
	modeArmed bool

	panels         [hal.PanelCount]panelOut
	ledPattern     proto.LedPattern
	ledSentPattern proto.LedPattern
	ledSent        bool
	brightness     uint16
	sentBrightness uint16
	brightSent     bool
}

// New creates the state machine. The events capability receives button
// edges; display, led and log are send-only destinations.
func New(src *timesource.Source, store *alarmstore.Store, buzzer hal.Buzzer,
	self, events, display, led, log kernel.Capability) *Service {
	s := &Service{
		src:         src,
		store:       store,
		buzzer:      buzzer,
		self:        self,
		events:      events,
		display:     display,
		led:         led,
		log:         log,
		firedMinute: 0xFFFF,
	}
	if store != nil {
		if a, err := store.Load(); err == nil {
			s.alarm = a
		}
	}
	return s
}

// CurrentState returns the current mode, for tests and the simulator.
func (s *Service) CurrentState() State { return s.state }

// Alarm returns the current alarm setting.
func (s *Service) Alarm() alarmstore.Alarm { return s.alarm }

func (s *Service) Step(ctx *kernel.Context) {
	tick := s.src.ReadTick(ctx.NowTick())
	s.drift = !tick.Valid
	s.now = tick.Time

	for {
		msg, ok := ctx.TryRecv(s.events)
		if !ok {
			break
		}
		if msg.Kind != uint16(proto.MsgButton) {
			continue
		}
		id, edge, _, ok := proto.DecodeButtonPayload(msg.Payload())
		if !ok {
			continue
		}
		s.handleButton(ctx, id, edge, tick.Counter)
	}

	s.handleTimeouts(ctx, tick.Counter)
	s.checkAlarm(ctx, tick.Counter)

	s.composeFrames()
	s.flush(ctx)
}

func (s *Service) handleButton(ctx *kernel.Context, id hal.ButtonID, edge proto.Edge, now uint64) {
	s.lastInputTick = now

	if s.state == StateAlarmRinging {
		// Any press silences the alarm. Held repeats and releases from
		// the dismissing press are ignored.
		if edge == proto.EdgePressed {
			s.stopRinging(ctx, "dismissed")
		}
		return
	}

	if s.state == StateIdle {
		// The waking press is consumed, not applied.
		if edge == proto.EdgePressed {
			s.enterState(ctx, StateTimeDisplay)
		}
		return
	}

	switch edge {
	case proto.EdgePressed:
		s.handlePress(ctx, id, now)
	case proto.EdgeHeld:
		s.handleHold(ctx, id)
	case proto.EdgeReleased:
		s.handleRelease(ctx, id)
	}
}

func (s *Service) handlePress(ctx *kernel.Context, id hal.ButtonID, now uint64) {
	switch s.state {
	case StateTimeDisplay:
		switch id {
		case hal.ButtonMode:
			// Decided on release: a hold that arrives first wins and
			// goes to alarm config instead.
			s.modeArmed = true
		case hal.ButtonUp:
			s.alarm.Enabled = !s.alarm.Enabled
			s.saveAlarm(ctx)
		}

	case StateSetHour:
		switch id {
		case hal.ButtonMode:
			s.enterState(ctx, StateSetMinute)
		case hal.ButtonUp:
			s.scratch.Hour = (s.scratch.Hour + 1) % 24
		case hal.ButtonDown:
			s.scratch.Hour = (s.scratch.Hour + 23) % 24
		}

	case StateSetMinute:
		switch id {
		case hal.ButtonMode:
			s.commitTime(ctx)
		case hal.ButtonUp:
			s.scratch.Minute = (s.scratch.Minute + 1) % 60
		case hal.ButtonDown:
			s.scratch.Minute = (s.scratch.Minute + 59) % 60
		}

	case StateAlarmSetHour:
		switch id {
		case hal.ButtonMode:
			s.enterState(ctx, StateAlarmSetMinute)
		case hal.ButtonUp:
			s.alarm.Hour = (s.alarm.Hour + 1) % 24
		case hal.ButtonDown:
			s.alarm.Hour = (s.alarm.Hour + 23) % 24
		}

	case StateAlarmSetMinute:
		switch id {
		case hal.ButtonMode:
			s.commitAlarm(ctx)
		case hal.ButtonUp:
			s.alarm.Minute = (s.alarm.Minute + 1) % 60
		case hal.ButtonDown:
			s.alarm.Minute = (s.alarm.Minute + 59) % 60
		}
	}
}

func (s *Service) handleHold(ctx *kernel.Context, id hal.ButtonID) {
	switch s.state {
	case StateTimeDisplay:
		if id == hal.ButtonMode && s.modeArmed {
			s.enterState(ctx, StateAlarmSetHour)
		}
	case StateSetHour, StateSetMinute, StateAlarmSetHour, StateAlarmSetMinute:
		// Held up/down auto-repeats the single-step adjustment.
		if id == hal.ButtonUp || id == hal.ButtonDown {
			s.handlePress(ctx, id, s.lastInputTick)
		}
	}
}

func (s *Service) handleRelease(ctx *kernel.Context, id hal.ButtonID) {
	if s.state == StateTimeDisplay && id == hal.ButtonMode && s.modeArmed {
		s.scratch = s.now
		s.scratch.Second = 0
		s.enterState(ctx, StateSetHour)
	}
}

func (s *Service) handleTimeouts(ctx *kernel.Context, now uint64) {
	idleFor := now - s.lastInputTick

	switch s.state {
	case StateSetHour, StateSetMinute:
		if idleFor >= setTimeoutTicks {
			s.commitTime(ctx)
		}
	case StateAlarmSetHour, StateAlarmSetMinute:
		if idleFor >= setTimeoutTicks {
			s.commitAlarm(ctx)
		}
	case StateTimeDisplay:
		if idleFor >= idleTimeoutTicks {
			s.enterState(ctx, StateIdle)
		}
	case StateAlarmRinging:
		if now-s.ringStart >= ringTimeoutTicks {
			s.stopRinging(ctx, "timed out")
		}
	}
}

func (s *Service) checkAlarm(ctx *kernel.Context, now uint64) {
	if !s.alarm.Enabled || s.drift {
		return
	}
	if s.state != StateTimeDisplay && s.state != StateIdle {
		return
	}
	minute := uint16(s.now.Hour)*60 + uint16(s.now.Minute)
	if s.now.Hour != s.alarm.Hour || s.now.Minute != s.alarm.Minute {
		if minute != s.firedMinute {
			s.firedMinute = 0xFFFF
		}
		return
	}
	if minute == s.firedMinute {
		return
	}
	s.firedMinute = minute
	s.ringStart = now
	s.enterState(ctx, StateAlarmRinging)
	if s.buzzer != nil {
		s.buzzer.Start(buzzerFreqHz)
	}
}

func (s *Service) commitTime(ctx *kernel.Context) {
	s.scratch.Second = 0
	if err := s.src.Commit(s.scratch); err != nil {
		s.logf(ctx, "clock: commit failed: "+err.Error())
	} else {
		s.now = s.scratch
	}
	s.enterState(ctx, StateTimeDisplay)
}

func (s *Service) commitAlarm(ctx *kernel.Context) {
	s.alarm.Enabled = true
	s.saveAlarm(ctx)
	s.enterState(ctx, StateTimeDisplay)
}

func (s *Service) saveAlarm(ctx *kernel.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.alarm); err != nil {
		s.logf(ctx, "clock: alarm save failed: "+err.Error())
	}
}

func (s *Service) stopRinging(ctx *kernel.Context, why string) {
	if s.buzzer != nil {
		s.buzzer.Stop()
	}
	s.logf(ctx, "clock: alarm "+why)
	s.enterState(ctx, StateTimeDisplay)
}

func (s *Service) enterState(ctx *kernel.Context, next State) {
	if next == s.state {
		return
	}
	s.modeArmed = false
	s.logf(ctx, "clock: "+s.state.String()+" -> "+next.String())
	s.state = next
}

// composeFrames derives the desired frame for every panel from the
// current state. The display service diffs at the pixel level; here a
// frame is recomputed every cycle and only sent when it changed.
func (s *Service) composeFrames() {
	var shown hal.ClockTime
	var flags proto.FrameFlags
	caption := proto.CaptionNone
	editHour, editMinute := false, false

	switch s.state {
	case StateTimeDisplay, StateAlarmRinging:
		shown = s.now
	case StateSetHour:
		shown = s.scratch
		caption = proto.CaptionSet
		editHour = true
	case StateSetMinute:
		shown = s.scratch
		caption = proto.CaptionSet
		editMinute = true
	case StateAlarmSetHour:
		shown = hal.ClockTime{Hour: s.alarm.Hour, Minute: s.alarm.Minute}
		caption = proto.CaptionAlarm
		editHour = true
	case StateAlarmSetMinute:
		shown = hal.ClockTime{Hour: s.alarm.Hour, Minute: s.alarm.Minute}
		caption = proto.CaptionAlarm
		editMinute = true
	case StateIdle:
		flags |= proto.FlagBlank
	}

	if s.drift {
		flags |= proto.FlagDrift
	}
	if s.state == StateAlarmRinging {
		flags |= proto.FlagRinging
		caption = proto.CaptionRing
	}

	sep := byte(' ')
	switch {
	case editHour || editMinute:
		// Steady colon while editing; blinking would suggest seconds
		// are still advancing.
		sep = ':'
	case s.now.Second%2 == 0:
		sep = ':'
	}

	editFlag := func(on bool) proto.FrameFlags {
		if on {
			return proto.FlagEditing
		}
		return 0
	}

	s.setFrame(proto.Frame{Panel: hal.PanelHourTens, Glyph: '0' + shown.Hour/10, Flags: flags | editFlag(editHour)})
	s.setFrame(proto.Frame{Panel: hal.PanelHourOnes, Glyph: '0' + shown.Hour%10, Flags: flags | editFlag(editHour)})
	s.setFrame(proto.Frame{Panel: hal.PanelSeparator, Glyph: sep, Flags: flags})
	s.setFrame(proto.Frame{Panel: hal.PanelMinuteTens, Glyph: '0' + shown.Minute/10, Flags: flags | editFlag(editMinute)})
	s.setFrame(proto.Frame{Panel: hal.PanelMinuteOnes, Glyph: '0' + shown.Minute%10, Flags: flags | editFlag(editMinute)})

	indFlags := flags
	if s.alarm.Enabled {
		indFlags |= proto.FlagAlarmSet
	}
	s.setFrame(proto.Frame{
		Panel:       hal.PanelIndicator,
		Glyph:       ' ',
		Flags:       indFlags,
		Caption:     caption,
		AlarmHour:   s.alarm.Hour,
		AlarmMinute: s.alarm.Minute,
	})

	s.ledPattern = s.desiredLed()
	s.brightness = brightNormal
	if s.state == StateIdle {
		s.brightness = brightIdle
	}
}

func (s *Service) desiredLed() proto.LedPattern {
	switch s.state {
	case StateAlarmRinging:
		return proto.LedAlarmFlash
	case StateIdle:
		return proto.LedBreathing
	case StateSetHour, StateSetMinute, StateAlarmSetHour, StateAlarmSetMinute:
		// The rainbow doubles as an at-a-glance "you are editing" cue.
		return proto.LedRainbow
	default:
		return proto.LedSteady
	}
}

func (s *Service) setFrame(f proto.Frame) {
	p := &s.panels[f.Panel]
	if p.sent && p.frame == f {
		return
	}
	if p.frame != f {
		p.frame = f
		p.dirty = true
	} else if !p.sent {
		p.dirty = true
	}
}

// flush sends whatever changed. A full destination queue leaves the
// entry dirty so the send retries next cycle.
func (s *Service) flush(ctx *kernel.Context) {
	for i := range s.panels {
		p := &s.panels[i]
		if !p.dirty {
			continue
		}
		res := ctx.Send(s.self, s.display, uint16(proto.MsgFrame), proto.FramePayload(p.frame))
		if res == kernel.SendOK {
			p.dirty = false
			p.sent = true
		}
	}

	if !s.ledSent || s.ledPattern != s.ledSentPattern {
		if ctx.Send(s.self, s.led, uint16(proto.MsgLedPattern), proto.LedPayload(s.ledPattern)) == kernel.SendOK {
			s.ledSentPattern = s.ledPattern
			s.ledSent = true
		}
	}

	if !s.brightSent || s.brightness != s.sentBrightness {
		if ctx.Send(s.self, s.display, uint16(proto.MsgBrightness), proto.BrightnessPayload(s.brightness)) == kernel.SendOK {
			s.sentBrightness = s.brightness
			s.brightSent = true
		}
	}
}

func (s *Service) logf(ctx *kernel.Context, line string) {
	ctx.Send(s.self, s.log, uint16(proto.MsgLogLine), []byte(line))
}
