// Package video renders one raster line at a time into an IRE sample
// buffer: sync pulses, active-video luma, and colour-subcarrier chroma.
package video

import "sync"

// Frame dimensions requested from the AV source. The raster loop resamples
// this fixed source frame across whatever active width the target raster
// family uses.
const (
	FrameWidth  = 540
	FrameHeight = 480
)

// Standard is the interface the rest of the engine drives a raster family
// through, implemented once by *Raster and parameterised by RasterFamily +
// ColourMode rather than one type per raster standard.
type Standard interface {
	GenerateFullFrame()
	FillTestPattern()
	IreToAmplitude(float64) float64

	LockFrame()
	UnlockFrame()
	RLockFrame()
	RUnlockFrame()

	LockRaw()
	UnlockRaw()

	FrameBuffer() []float64
	RawFrameBuffer() []byte

	// LineSamples reports the line length in samples, and LinesPerFrame the
	// raster's total line count, needed by the processor stack to size its
	// sliding window in samples-per-line terms.
	LineSamples() int
	LinesPerFrame() int
}

// frameMutexes bundles a raw-frame and a rendered-frame RWMutex. Raster
// does not use it; it holds its own rawFrameMutex and frameMutex fields.
type frameMutexes struct {
	raw   sync.RWMutex
	frame sync.RWMutex
}
