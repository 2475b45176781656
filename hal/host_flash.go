//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

const (
	hostFlashDefaultPath     = "lcdclock.flash"
	hostFlashSizeBytes       = 256 * 1024
	hostFlashEraseBlockBytes = 4096
)

// hostFlash is a file-backed NOR flash emulation: erase sets a block to
// 0xFF, writes can only clear bits.
type hostFlash struct {
	mu  sync.Mutex
	buf []byte

	path string
}

func newHostFlash() *hostFlash {
	path := os.Getenv("LCDCLOCK_FLASH_PATH")
	if path == "" {
		path = hostFlashDefaultPath
	}

	f := &hostFlash{buf: make([]byte, hostFlashSizeBytes), path: path}
	for i := range f.buf {
		f.buf[i] = 0xFF
	}
	if data, err := os.ReadFile(path); err == nil {
		copy(f.buf, data)
	}
	return f
}

func (f *hostFlash) SizeBytes() uint32       { return hostFlashSizeBytes }
func (f *hostFlash) EraseBlockBytes() uint32 { return hostFlashEraseBlockBytes }

func (f *hostFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int(off) >= len(f.buf) {
		return 0, fmt.Errorf("flash read at %d: out of range", off)
	}
	n := copy(p, f.buf[off:])
	return n, nil
}

func (f *hostFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int(off)+len(p) > len(f.buf) {
		return 0, fmt.Errorf("flash write at %d: out of range", off)
	}
	for i, b := range p {
		f.buf[int(off)+i] &= b
	}
	f.persist()
	return len(p), nil
}

func (f *hostFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off%hostFlashEraseBlockBytes != 0 || size%hostFlashEraseBlockBytes != 0 {
		return fmt.Errorf("flash erase off=%d size=%d: unaligned", off, size)
	}
	if int(off)+int(size) > len(f.buf) {
		return fmt.Errorf("flash erase at %d: out of range", off)
	}
	for i := uint32(0); i < size; i++ {
		f.buf[off+i] = 0xFF
	}
	f.persist()
	return nil
}

func (f *hostFlash) persist() {
	// Best effort; the simulator keeps running without persistence.
	_ = os.WriteFile(f.path, f.buf, 0o644)
}
