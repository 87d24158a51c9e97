// Package proc implements the ordered line-processor stack: VBI data
// encoders, scramblers, test-signal and overlay transforms that each walk a
// small sliding window of recently rendered lines.
package proc

import "time"

// Line is one raster line moving through the processor stack. Lifecycle:
// created once per slot in a Window ring (sized to the widest NLines) at
// init, rewritten in
// place each raster step (an arena of Lines plus integer indices, to keep
// the ring allocation-free after startup).
type Line struct {
	Frame int
	Index int // 1-based within the raster

	Samples []float64

	// VBIAllocated is set by whichever processor first claims this line's
	// VBI slot, so later processors in the stack skip it.
	VBIAllocated bool
}

// Clock is the per-frame time source, injected so tests can replace it
// with a frozen value and keep packet 8/30 stamping deterministic.
type Clock func() time.Time

// Context is what a processor needs from the hosting engine: timing
// geometry and the injected clock. Kept minimal and read-only; the window
// argument to Process is where per-call state lives.
type Context struct {
	LineSamples        int
	LinesPerFrame      int
	SampleRate         float64
	ActiveStart        int
	ActiveLen          int
	Now                Clock
}

// LineProcessor is a named line transform. NLines declares how far back in
// the window the processor may reach; Process returns the number of lines
// it finalised (always 1 in this design -- the field exists for future
// batching).
type LineProcessor interface {
	Name() string
	NLines() int
	Process(ctx *Context, window []*Line) int
}

// Window is a ring of Line arenas sized to the widest NLines declared by
// any registered processor. Stepping rotates indices rather than
// reallocating, so processors always see window[0..n-1] as the n most
// recently rendered lines.
type Window struct {
	lines []*Line
	head  int
}

// NewWindow allocates a ring of `size` Line slots, each with a sample
// buffer of `lineSamples` length.
func NewWindow(size, lineSamples int) *Window {
	w := &Window{lines: make([]*Line, size)}
	for i := range w.lines {
		w.lines[i] = &Line{Samples: make([]float64, lineSamples)}
	}
	return w
}

// Push rotates the ring so the given rendered samples become window[0],
// shifting everything else back by one. Returns the view callers pass to
// each processor's Process.
func (w *Window) Push(frame, index int, samples []float64) []*Line {
	w.head = (w.head - 1 + len(w.lines)) % len(w.lines)
	head := w.lines[w.head]
	head.Frame = frame
	head.Index = index
	head.VBIAllocated = false
	copy(head.Samples, samples)

	view := make([]*Line, len(w.lines))
	for i := range view {
		view[i] = w.lines[(w.head+i)%len(w.lines)]
	}
	return view
}

// Stack runs an ordered set of processors over a shared window each raster
// step.
type Stack struct {
	ctx        *Context
	processors []LineProcessor
	window     *Window
}

// NewStack builds a processor stack; window size is the max NLines among
// the given processors.
func NewStack(ctx *Context, processors ...LineProcessor) *Stack {
	maxN := 1
	for _, p := range processors {
		if p.NLines() > maxN {
			maxN = p.NLines()
		}
	}
	return &Stack{
		ctx:        ctx,
		processors: processors,
		window:     NewWindow(maxN, ctx.LineSamples),
	}
}

// Step renders one line into the window and runs every processor over it
// in registration order.
func (s *Stack) Step(frame, index int, samples []float64) []*Line {
	view := s.window.Push(frame, index, samples)
	for _, p := range s.processors {
		n := p.NLines()
		if n > len(view) {
			n = len(view)
		}
		p.Process(s.ctx, view[:n])
	}
	return view
}
