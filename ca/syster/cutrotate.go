package syster

import "hacktv-go/proc"

// Reference geometry for the cut-and-rotate window, from
// original_source/src/syster.h's SCNR_* constants (a 284-sample-wide
// reference line, matching NG_SAMPLE_RATE/25/625).
const (
	cutRotateRefWidth = 284
	cutRotateLeft     = 46
	cutRotateCuts     = 230
)

// CutRotateEngine implements Syster's "cut-and-rotate" scramble mode
// (systercnr / SysterCut): a fixed-width window of each active line is
// rotated by a line/frame-dependent offset, instead of Syster's whole-field
// line shuffle, per _rotate_syster.
//
// The reference encoder drives the rotation from a static, pre-computed
// 25-frame x 576-line sequence table (systercnr-sequence.h) that is not
// part of this build's reference material. This engine instead derives an
// equivalent rotation offset per line from the same PRBS generator
// Syster's own line-shuffle mode uses, keyed by the control word -- the
// same "rotate a sample window by a pseudo-random offset" structure,
// without the unavailable fixed table (see DESIGN.md).
type CutRotateEngine struct {
	prbs PRBS
	cw   uint64

	activeStart int
	activeLen   int
}

// NewCutRotate builds a cut-and-rotate engine seeded from the control word.
func NewCutRotate(cw uint64, activeStart, activeLen int) *CutRotateEngine {
	e := &CutRotateEngine{cw: cw, activeStart: activeStart, activeLen: activeLen}
	e.prbs.Reset(cw)
	return e
}

func (e *CutRotateEngine) Name() string { return "syster-cut-rotate" }
func (e *CutRotateEngine) NLines() int  { return 1 }

// videoScale maps a coordinate in the 284-sample reference grid onto the
// raster's own active-video sample window.
func (e *CutRotateEngine) videoScale(x int) int {
	return e.activeStart + x*e.activeLen/cutRotateRefWidth
}

// Process implements proc.LineProcessor: rotates the cut window by an
// offset drawn from the PRBS for every active field line.
func (e *CutRotateEngine) Process(ctx *proc.Context, window []*proc.Line) int {
	line := window[0]
	if _, _, ok := fieldIndex(line.Index); !ok {
		return 1
	}

	_, r := e.prbs.Update()
	shift := int(r) % cutRotateCuts

	left := e.videoScale(cutRotateLeft)
	right := e.videoScale(cutRotateLeft + cutRotateCuts)
	span := right - left
	if span <= 0 || right > len(line.Samples) {
		return 1
	}

	original := append([]float64(nil), line.Samples[left:right]...)
	for x := 0; x < span; x++ {
		line.Samples[left+x] = original[(x+shift)%span]
	}

	return 1
}
