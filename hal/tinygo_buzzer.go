//go:build tinygo && baremetal

package hal

import "machine"

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetTop(top uint32)
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

type pwmBuzzer struct {
	pin     machine.Pin
	pwm     pwmDevice
	ch      uint8
	beeping bool
}

func newPWMBuzzer(pin machine.Pin) *pwmBuzzer {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return &pwmBuzzer{pin: pin}
	}
	b := &pwmBuzzer{pin: pin, pwm: pwm}
	if err := pwm.Configure(machine.PWMConfig{}); err != nil {
		b.pwm = nil
		return b
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		b.pwm = nil
		return b
	}
	b.ch = ch
	return b
}

func (b *pwmBuzzer) Start(freqHz uint32) {
	if b.pwm == nil || b.beeping || freqHz == 0 {
		return
	}
	if err := b.pwm.Configure(machine.PWMConfig{Period: uint64(1e9) / uint64(freqHz)}); err != nil {
		return
	}
	b.pwm.Set(b.ch, b.pwm.Top()/2)
	b.pwm.Enable(true)
	b.beeping = true
}

func (b *pwmBuzzer) Stop() {
	if b.pwm == nil || !b.beeping {
		return
	}
	b.pwm.Set(b.ch, 0)
	b.pwm.Enable(false)
	b.beeping = false
}
