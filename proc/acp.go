package proc

import "math"

// ACP renders Macrovision Automatic Copy Protection AGC pulses on lines
// 9-18 and 321-330 (625) or 12-19 and 275-282 (525): one 2.3µs pulse per
// line, 4.7µs into the line, and no P-sync pulses. The pulse level follows
// a triangle wave (rising, then falling) with a period of 1712 frames.
type ACP struct {
	linesA, linesB [2]int // inclusive line ranges for field A/B
	frame          int
}

// NewACP builds an ACP processor for the given raster line count (625 or
// 525).
func NewACP(linesPerFrame int) *ACP {
	if linesPerFrame == 525 {
		return &ACP{linesA: [2]int{12, 19}, linesB: [2]int{275, 282}}
	}
	return &ACP{linesA: [2]int{9, 18}, linesB: [2]int{321, 330}}
}

func (a *ACP) Name() string { return "acp" }
func (a *ACP) NLines() int  { return 1 }

func (a *ACP) inRange(line int) bool {
	return (line >= a.linesA[0] && line <= a.linesA[1]) ||
		(line >= a.linesB[0] && line <= a.linesB[1])
}

// agcLevel computes the triangle-wave AGC pulse amplitude (0 to 1 and back)
// for the current frame, period 1712 frames.
func (a *ACP) agcLevel() float64 {
	const period = 1712
	x := math.Mod(float64(a.frame), period) / period
	level := x * 2
	if level > 1 {
		level = 2 - level
	}
	return level
}

func (a *ACP) Process(ctx *Context, window []*Line) int {
	line := window[0]
	if line.Index == 1 {
		a.frame++
	}
	if !a.inRange(line.Index) || line.VBIAllocated {
		return 1
	}
	line.VBIAllocated = true

	agc := a.agcLevel()
	pulseSamples := int(2.3e-6 * ctx.SampleRate)
	offset := int(4.7e-6 * ctx.SampleRate)
	for s := 0; s < pulseSamples && offset+s < len(line.Samples); s++ {
		line.Samples[offset+s] += agc * 20
	}
	return 1
}
