//go:build !tinygo && !cgo

package hal

import "errors"

// RunWindow requires cgo for the display backend.
func RunWindow(newApp func(HAL) func() error) error {
	return errors.New("window mode unavailable without cgo; use -headless")
}
