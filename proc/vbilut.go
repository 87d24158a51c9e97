package proc

// VBILut precomputes a rise/fall-shaped pulse so every VBI encoder
// (teletext, WSS, Videocrypt, Syster) renders bits through the same
// edge-shaping table, instead of writing raw rectangular transitions.
// Grounded on original_source/vbidata.h's vbidata_lut_t contract: a table
// covering one bit period, shaped by a configurable rise time, that the
// encoder adds into the line at a whole-sample offset.
type VBILut struct {
	lut       []float64
	stepsPerBit int
}

// NewVBILut builds a lookup table covering one bit period at sampleRate,
// with linear rise and fall ramps over riseSeconds.
func NewVBILut(bitRate, sampleRate, riseSeconds float64) *VBILut {
	stepsPerBit := int(sampleRate / bitRate)
	if stepsPerBit < 1 {
		stepsPerBit = 1
	}
	riseSamples := int(riseSeconds * sampleRate)
	lut := make([]float64, stepsPerBit)
	for i := range lut {
		switch {
		case i < riseSamples:
			lut[i] = float64(i) / float64(riseSamples)
		case i >= stepsPerBit-riseSamples:
			lut[i] = float64(stepsPerBit-i) / float64(riseSamples)
		default:
			lut[i] = 1.0
		}
	}
	return &VBILut{lut: lut, stepsPerBit: stepsPerBit}
}

// StepsPerBit reports the number of samples one bit occupies.
func (v *VBILut) StepsPerBit() int { return v.stepsPerBit }

// Render writes one bit's worth of shaped pulse into buf starting at
// offset, additively scaled between lo and hi levels. Matches
// vbidata_render's additive-update contract.
func (v *VBILut) Render(buf []float64, offset int, bit bool, lo, hi float64) {
	level := lo
	if bit {
		level = hi
	}
	for i, w := range v.lut {
		idx := offset + i
		if idx < 0 || idx >= len(buf) {
			continue
		}
		buf[idx] += w * level
	}
}
