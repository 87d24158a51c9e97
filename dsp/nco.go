// Package dsp holds the sample-rate primitives the rest of the engine is
// built from: the numerically-controlled oscillator, polyphase FIR design,
// de-emphasis biquads and the sound/video limiter.
package dsp

import "math"

// NCO is a numerically-controlled oscillator: a phase accumulator plus a
// precomputed complex lookup table covering one full carrier period at the
// configured sample rate, with a fractional-frequency-exact LUT length.
type NCO struct {
	sampleRate float64
	lut        []complex128
	phase      int
}

// NewNCO builds the LUT length as the smallest N over which the carrier
// phase returns to zero, i.e. the reduced fraction (carrierHz / sampleRate).
func NewNCO(carrierHz, sampleRate float64, maxLUT int) *NCO {
	num, den := approximateRational(carrierHz, sampleRate, maxLUT)
	if den <= 0 {
		den = 1
	}
	lut := make([]complex128, den)
	for i := range lut {
		theta := 2 * math.Pi * float64(num) * float64(i) / float64(den)
		lut[i] = complex(math.Cos(theta), math.Sin(theta))
	}
	return &NCO{sampleRate: sampleRate, lut: lut}
}

// approximateRational reduces carrier/sampleRate to a ratio num/den with
// den capped at maxLUT, trying every denominator from 1 up to maxLUT and
// keeping the closest.
func approximateRational(carrier, sampleRate float64, maxLUT int) (num, den int) {
	ratio := carrier / sampleRate
	bestNum, bestDen := 0, 1
	bestErr := math.Abs(ratio)
	for d := 1; d <= maxLUT; d++ {
		n := int(math.Round(ratio * float64(d)))
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

// Advance steps the accumulator n samples forward.
func (o *NCO) Advance(n int) {
	o.phase = (o.phase + n) % len(o.lut)
	if o.phase < 0 {
		o.phase += len(o.lut)
	}
}

// Reset seeds the accumulator to a given LUT index.
func (o *NCO) Reset(seed int) {
	o.phase = seed % len(o.lut)
}

// step returns the current carrier sample and advances by one.
func (o *NCO) step() complex128 {
	s := o.lut[o.phase]
	o.phase++
	if o.phase >= len(o.lut) {
		o.phase = 0
	}
	return s
}

// MixAM amplitude-modulates signal onto the carrier: signal * e^(jwt).
func (o *NCO) MixAM(signal float64) complex128 {
	return complex(signal, 0) * o.step()
}

// MixFM phase-integrates signal * deviation onto the carrier. The caller is
// expected to call this once per sample; deviation is in radians of extra
// phase advance per unit signal.
func (o *NCO) MixFM(signal, deviation float64) complex128 {
	c := o.step()
	extra := signal * deviation
	rot := complex(math.Cos(extra), math.Sin(extra))
	return c * rot
}
