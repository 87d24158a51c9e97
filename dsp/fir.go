package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// NewLowPassFilterTaps builds a Blackman-windowed-sinc low-pass FIR,
// the reference path for the common single-bandpass-filter case.
func NewLowPassFilterTaps(numTaps int, bandwidth, sampleRate float64) []float64 {
	taps := make([]float64, numTaps)
	cutoffFreq := bandwidth / 2.0
	normalizedCutoff := cutoffFreq / sampleRate

	M := float64(numTaps - 1)
	var sum float64
	for i := 0; i < numTaps; i++ {
		n := float64(i)
		window := 0.42 - 0.5*math.Cos(2*math.Pi*n/M) + 0.08*math.Cos(4*math.Pi*n/M)

		var sinc float64
		if i == int(M/2) {
			sinc = 2 * math.Pi * normalizedCutoff
		} else {
			sinc = math.Sin(2*math.Pi*normalizedCutoff*(n-M/2)) / (n - M/2)
		}

		taps[i] = sinc * window
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}

// PolyphaseFIR implements fixed integer interpolation L / decimation M over
// a windowed-sinc prototype low-pass. Push feeds one input sample; Pull
// drains up to L/M outputs.
type PolyphaseFIR struct {
	l, m   int
	taps   []float64
	phases [][]float64
	delay  []float64
	pos    int
	pending int // output samples owed since the last Push
}

// NewPolyphaseFIR designs a resampler that interpolates by l and decimates
// by m, choosing a transition band proportional to the smaller of the two
// rates.
func NewPolyphaseFIR(l, m int, tapsPerPhase int) *PolyphaseFIR {
	numTaps := l * tapsPerPhase
	bw := 1.0 / float64(maxInt(l, m))
	proto := NewLowPassFilterTaps(numTaps, bw, 1.0)
	for i := range proto {
		proto[i] *= float64(l)
	}
	phases := make([][]float64, l)
	for p := 0; p < l; p++ {
		phase := make([]float64, 0, tapsPerPhase)
		for i := p; i < len(proto); i += l {
			phase = append(phase, proto[i])
		}
		phases[p] = phase
	}
	return &PolyphaseFIR{
		l: l, m: m, taps: proto, phases: phases,
		delay: make([]float64, tapsPerPhase),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// rationalRatio reduces outRate/inRate to num/den with den capped at
// maxDen, via the same search over every denominator up to the cap that
// NCO uses to size its LUT.
func rationalRatio(outRate, inRate float64, maxDen int) (num, den int) {
	ratio := outRate / inRate
	bestNum, bestDen := 1, 1
	bestErr := math.Abs(ratio - 1)
	for d := 1; d <= maxDen; d++ {
		n := int(math.Round(ratio * float64(d)))
		if n < 1 {
			continue
		}
		err := math.Abs(ratio - float64(n)/float64(d))
		if err < bestErr {
			bestErr, bestNum, bestDen = err, n, d
		}
		if err < 1e-9 {
			break
		}
	}
	return bestNum, bestDen
}

// NewRationalPolyphaseFIR builds a PolyphaseFIR resampling from inRate to
// outRate, approximating the rate ratio with a den (decimation factor)
// capped at maxLUT phases. This is the general-purpose rate converter the
// rest of the engine uses wherever two sample-rate domains meet (a PCM
// audio source feeding a video-rate subcarrier mixer, for instance).
func NewRationalPolyphaseFIR(inRate, outRate float64, tapsPerPhase, maxLUT int) *PolyphaseFIR {
	l, m := rationalRatio(outRate, inRate, maxLUT)
	return NewPolyphaseFIR(l, m, tapsPerPhase)
}

// Push feeds one input sample into the delay line.
func (f *PolyphaseFIR) Push(sample float64) {
	copy(f.delay[1:], f.delay[:len(f.delay)-1])
	f.delay[0] = sample
	f.pending += f.l
}

// Pull produces at most one output sample per call; ok is false once the
// L/M budget for the samples pushed so far is exhausted.
func (f *PolyphaseFIR) Pull() (sample float64, ok bool) {
	if f.pending < f.m {
		return 0, false
	}
	phase := f.phases[f.pos%len(f.phases)]
	var acc float64
	for i, t := range phase {
		if i < len(f.delay) {
			acc += t * f.delay[i]
		}
	}
	f.pos++
	f.pending -= f.m
	return acc, true
}

// ComplexBandpassFIR is the complex (I/Q) variant used for NICAM's
// differential-QPSK shaping and VSB sideband shaping: separate tap arrays
// convolved against an internal complex delay line.
type ComplexBandpassFIR struct {
	tapsI, tapsQ []float64
	delay        []complex128
	pos          int
}

// NewComplexBandpassFIR designs a complex bandpass filter centred at
// centerHz within ±bandwidth/2, built from two phase-quadrature low-pass
// prototypes (I cosine-shifted, Q sine-shifted).
func NewComplexBandpassFIR(numTaps int, centerHz, bandwidth, sampleRate float64) *ComplexBandpassFIR {
	proto := NewLowPassFilterTaps(numTaps, bandwidth, sampleRate)
	tapsI := make([]float64, numTaps)
	tapsQ := make([]float64, numTaps)
	for i, t := range proto {
		theta := 2 * math.Pi * centerHz * float64(i) / sampleRate
		tapsI[i] = t * math.Cos(theta)
		tapsQ[i] = t * math.Sin(theta)
	}
	return &ComplexBandpassFIR{tapsI: tapsI, tapsQ: tapsQ, delay: make([]complex128, numTaps)}
}

// Filter convolves one input sample through the complex bandpass filter.
func (f *ComplexBandpassFIR) Filter(in complex128) complex128 {
	copy(f.delay[1:], f.delay[:len(f.delay)-1])
	f.delay[0] = in
	var accI, accQ float64
	for i := range f.delay {
		accI += f.tapsI[i] * real(f.delay[i])
		accQ += f.tapsQ[i] * imag(f.delay[i])
	}
	return complex(accI, accQ)
}

// DesignWindow returns an n-point Blackman (default) or Hamming window,
// computed directly from the cosine formulas, for callers that need a raw
// window without a full FIR.
func DesignWindow(n int, kind string) []float64 {
	w := make([]float64, n)
	switch kind {
	case "hamming":
		for i := range w {
			w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		}
	default: // blackman
		for i := range w {
			w[i] = 0.42 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1)) + 0.08*math.Cos(4*math.Pi*float64(i)/float64(n-1))
		}
	}
	return w
}

// SpectrumMagnitude is a thin wrapper around gonum's real FFT, returning
// the magnitude of each coefficient.
func SpectrumMagnitude(samples []float64) []float64 {
	fft := fourier.NewFFT(len(samples))
	coeff := fft.Coefficients(nil, samples)
	mag := make([]float64, len(coeff))
	for i, c := range coeff {
		mag[i] = math.Hypot(real(c), imag(c))
	}
	return mag
}
