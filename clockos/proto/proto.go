package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgButton
	MsgFrame
	MsgLedPattern
	MsgBrightness
	MsgError
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgButton:
		return "button"
	case MsgFrame:
		return "frame"
	case MsgLedPattern:
		return "led_pattern"
	case MsgBrightness:
		return "brightness"
	case MsgError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrCode is a generic error category for MsgError responses.
type ErrCode uint16

const (
	ErrUnknown ErrCode = iota
	ErrBadMessage
	ErrBusBusy
	ErrWriteFailed
	ErrClockInvalid
	ErrInputGlitch
	ErrOverflow
)

func (c ErrCode) String() string {
	switch c {
	case ErrUnknown:
		return "unknown"
	case ErrBadMessage:
		return "bad_message"
	case ErrBusBusy:
		return "bus_busy"
	case ErrWriteFailed:
		return "write_failed"
	case ErrClockInvalid:
		return "clock_invalid"
	case ErrInputGlitch:
		return "input_glitch"
	case ErrOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}
