//go:build !tinygo

// Command mkalarm reads or writes the alarm record in a flash image as
// used by the host simulator, so an alarm can be provisioned or
// inspected without clicking through the set mode.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"lcdclock/clockos/alarmstore"
)

const (
	flashSizeBytes       = 256 * 1024
	flashEraseBlockBytes = 4096
)

// imageFlash is an in-memory NOR image loaded from and saved to a file.
type imageFlash struct {
	buf []byte
}

func loadImage(path string) *imageFlash {
	f := &imageFlash{buf: make([]byte, flashSizeBytes)}
	for i := range f.buf {
		f.buf[i] = 0xFF
	}
	if data, err := os.ReadFile(path); err == nil {
		copy(f.buf, data)
	}
	return f
}

func (f *imageFlash) save(path string) error {
	return os.WriteFile(path, f.buf, 0o644)
}

func (f *imageFlash) SizeBytes() uint32       { return flashSizeBytes }
func (f *imageFlash) EraseBlockBytes() uint32 { return flashEraseBlockBytes }

func (f *imageFlash) ReadAt(p []byte, off uint32) (int, error) {
	if int(off) >= len(f.buf) {
		return 0, fmt.Errorf("read at %d: out of range", off)
	}
	return copy(p, f.buf[off:]), nil
}

func (f *imageFlash) WriteAt(p []byte, off uint32) (int, error) {
	if int(off)+len(p) > len(f.buf) {
		return 0, fmt.Errorf("write at %d: out of range", off)
	}
	for i, b := range p {
		f.buf[int(off)+i] &= b
	}
	return len(p), nil
}

func (f *imageFlash) Erase(off, size uint32) error {
	if off%flashEraseBlockBytes != 0 || size%flashEraseBlockBytes != 0 {
		return fmt.Errorf("erase off=%d size=%d: unaligned", off, size)
	}
	if int(off)+int(size) > len(f.buf) {
		return fmt.Errorf("erase at %d: out of range", off)
	}
	for i := uint32(0); i < size; i++ {
		f.buf[off+i] = 0xFF
	}
	return nil
}

func main() {
	var (
		path    = flag.String("flash", "lcdclock.flash", "Flash image path.")
		show    = flag.Bool("show", false, "Print the current record and exit.")
		hour    = flag.Int("hour", 7, "Alarm hour (0-23).")
		minute  = flag.Int("minute", 0, "Alarm minute (0-59).")
		enabled = flag.Bool("enabled", true, "Arm the alarm.")
	)
	flag.Parse()

	img := loadImage(*path)
	store := alarmstore.New(img)

	if *show {
		a, err := store.Load()
		if errors.Is(err, alarmstore.ErrNoRecord) {
			fmt.Println("no alarm record")
			return
		}
		if err != nil {
			fatalf("load: %v", err)
		}
		state := "off"
		if a.Enabled {
			state = "on"
		}
		fmt.Printf("alarm %02d:%02d (%s)\n", a.Hour, a.Minute, state)
		return
	}

	a := alarmstore.Alarm{Hour: uint8(*hour), Minute: uint8(*minute), Enabled: *enabled}
	if err := store.Save(a); err != nil {
		fatalf("save: %v", err)
	}
	if err := img.save(*path); err != nil {
		fatalf("write %s: %v", *path, err)
	}
	fmt.Printf("wrote alarm %02d:%02d to %s\n", a.Hour, a.Minute, *path)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
