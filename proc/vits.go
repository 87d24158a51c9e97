package proc

import "math"

// VITS renders two vertical-interval test-signal lines per field: a
// multiburst on the first line of each pair and a five-step staircase
// with colour subcarrier on the second. No 2T pulse is rendered. The
// lines are 17/18 and 330/331 (625-line raster).
type VITS struct {
	lines     [4]int
	fsc       float64
}

// NewVITS builds a VITS processor for a 625-line raster at the given
// colour subcarrier.
func NewVITS(fsc float64) *VITS {
	return &VITS{lines: [4]int{17, 18, 330, 331}, fsc: fsc}
}

func (v *VITS) Name() string { return "vits" }
func (v *VITS) NLines() int  { return 1 }

func (v *VITS) isVITSLine(line int) (idx int, ok bool) {
	for i, l := range v.lines {
		if l == line {
			return i, true
		}
	}
	return 0, false
}

func (v *VITS) Process(ctx *Context, window []*Line) int {
	line := window[0]
	idx, ok := v.isVITSLine(line.Index)
	if !ok || line.VBIAllocated {
		return 1
	}
	line.VBIAllocated = true

	active := ctx.ActiveLen
	start := ctx.ActiveStart
	switch idx % 2 {
	case 0:
		v.renderMultiburst(line.Samples, start, active, ctx.SampleRate)
	default:
		v.renderStaircase(line.Samples, start, active, ctx.SampleRate)
	}
	return 1
}

// renderMultiburst lays down six packets of increasing frequency
// (0.5,1.0,2.0,4.0,4.8,5.8 MHz) across the active window.
func (v *VITS) renderMultiburst(buf []float64, start, length int, sampleRate float64) {
	freqs := []float64{0.5e6, 1.0e6, 2.0e6, 4.0e6, 4.8e6, 5.8e6}
	packetLen := length / len(freqs)
	for i, f := range freqs {
		for s := 0; s < packetLen; s++ {
			idx := start + i*packetLen + s
			if idx >= len(buf) {
				break
			}
			theta := 2 * math.Pi * f * float64(s) / sampleRate
			buf[idx] += 20 * math.Sin(theta)
		}
	}
}

// renderStaircase lays down a five-step luminance staircase with a
// subcarrier riding on each step.
func (v *VITS) renderStaircase(buf []float64, start, length int, sampleRate float64) {
	steps := 5
	stepLen := length / steps
	for i := 0; i < steps; i++ {
		level := float64(i) / float64(steps-1) * 100
		for s := 0; s < stepLen; s++ {
			idx := start + i*stepLen + s
			if idx >= len(buf) {
				break
			}
			theta := 2 * math.Pi * v.fsc * float64(s) / sampleRate
			buf[idx] += level + 10*math.Sin(theta)
		}
	}
}
