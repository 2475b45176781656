// Package alarmstore persists the alarm setting in the last flash block.
//
// The record lives at the start of the final erase block so firmware
// updates written from offset zero never touch it. A four-byte magic and
// a checksum guard against torn writes and factory-fresh flash.
package alarmstore

import (
	"errors"
	"fmt"

	"lcdclock/hal"
)

// ErrNoRecord reports that flash holds no valid alarm record.
var ErrNoRecord = errors.New("alarmstore: no valid record")

var magic = [4]byte{'A', 'L', 'M', '1'}

const recordBytes = 8

// Alarm is the persisted alarm setting.
type Alarm struct {
	Hour    uint8
	Minute  uint8
	Enabled bool
}

// Store reads and writes the alarm record.
type Store struct {
	flash hal.Flash
}

// New creates a store over the board flash.
func New(flash hal.Flash) *Store {
	return &Store{flash: flash}
}

// offset returns the record position: start of the last erase block.
func (s *Store) offset() uint32 {
	return s.flash.SizeBytes() - s.flash.EraseBlockBytes()
}

// Load reads the alarm record. A missing or corrupt record returns
// ErrNoRecord with a zero alarm; the caller starts from defaults.
func (s *Store) Load() (Alarm, error) {
	var buf [recordBytes]byte
	if _, err := s.flash.ReadAt(buf[:], s.offset()); err != nil {
		return Alarm{}, fmt.Errorf("alarmstore: read: %w", err)
	}
	if [4]byte(buf[0:4]) != magic {
		return Alarm{}, ErrNoRecord
	}
	a := Alarm{Hour: buf[4], Minute: buf[5], Enabled: buf[6] == 1}
	if buf[7] != checksum(buf[:7]) {
		return Alarm{}, ErrNoRecord
	}
	if a.Hour > 23 || a.Minute > 59 || buf[6] > 1 {
		return Alarm{}, ErrNoRecord
	}
	return a, nil
}

// Save erases the record block and writes the alarm.
func (s *Store) Save(a Alarm) error {
	if a.Hour > 23 || a.Minute > 59 {
		return fmt.Errorf("alarmstore: alarm %02d:%02d out of range", a.Hour, a.Minute)
	}
	var buf [recordBytes]byte
	copy(buf[0:4], magic[:])
	buf[4] = a.Hour
	buf[5] = a.Minute
	if a.Enabled {
		buf[6] = 1
	}
	buf[7] = checksum(buf[:7])

	off := s.offset()
	if err := s.flash.Erase(off, s.flash.EraseBlockBytes()); err != nil {
		return fmt.Errorf("alarmstore: erase: %w", err)
	}
	if _, err := s.flash.WriteAt(buf[:], off); err != nil {
		return fmt.Errorf("alarmstore: write: %w", err)
	}
	return nil
}

// checksum is a byte sum folded with a constant so all-0x00 and all-0xFF
// payloads never validate.
func checksum(p []byte) byte {
	var sum byte = 0x5A
	for _, b := range p {
		sum += b
	}
	return sum
}
