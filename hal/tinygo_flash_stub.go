//go:build tinygo && baremetal && !rp2040 && !rp2350

package hal

type boardFlash struct{}

func newBoardFlash() Flash {
	return boardFlash{}
}

func (boardFlash) SizeBytes() uint32                       { return 0 }
func (boardFlash) EraseBlockBytes() uint32                 { return 0 }
func (boardFlash) ReadAt(p []byte, off uint32) (int, error) { return 0, ErrNotImplemented }
func (boardFlash) WriteAt(p []byte, off uint32) (int, error) { return 0, ErrNotImplemented }
func (boardFlash) Erase(off, size uint32) error            { return ErrNotImplemented }
