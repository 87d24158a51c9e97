package rf

import (
	"fmt"

	"hacktv-go/dsp"
)

// OutputMod selects the RF output modulator (AM/VSB/FM) applied to a
// completed line buffer before it reaches the sink.
type OutputMod int

const (
	ModNone OutputMod = iota
	ModAM
	ModVSB
	ModFM
)

// ParseOutputMod maps the config flag string to an OutputMod.
func ParseOutputMod(s string) (OutputMod, error) {
	switch s {
	case "none":
		return ModNone, nil
	case "am":
		return ModAM, nil
	case "vsb":
		return ModVSB, nil
	case "fm":
		return ModFM, nil
	default:
		return 0, fmt.Errorf("rf: unknown output modulation %q", s)
	}
}

// Modulator up-converts a real IRE-derived baseband line buffer into
// complex IQ samples ready for the FIFO -- the step between the completed
// processor-stack line buffer and the radio sink.
type Modulator struct {
	mode OutputMod
	nco  *dsp.NCO
	vsb  *dsp.ComplexBandpassFIR
}

// NewModulator builds a Modulator for the given mode; carrierHz/sampleRate
// size the up-conversion NCO (ignored for ModNone, which passes baseband
// through unchanged for sinks that want an already-centred signal).
func NewModulator(mode OutputMod, carrierHz, sampleRate float64) *Modulator {
	m := &Modulator{mode: mode}
	switch mode {
	case ModAM, ModFM:
		m.nco = dsp.NewNCO(carrierHz, sampleRate, 1<<16)
	case ModVSB:
		m.nco = dsp.NewNCO(carrierHz, sampleRate, 1<<16)
		// Vestigial sideband: AM up-conversion followed by a complex
		// bandpass centred on the carrier, sampleRate/2 wide. The filter is
		// symmetric about the carrier; the lower sideband is not cut down
		// to a vestige.
		m.vsb = dsp.NewComplexBandpassFIR(65, carrierHz, sampleRate/2, sampleRate)
	}
	return m
}

// Modulate converts one line's worth of IRE-derived amplitude samples
// (video.Raster.IreToAmplitude's output range) into complex IQ.
func (m *Modulator) Modulate(amplitudes []float64) []complex64 {
	out := make([]complex64, len(amplitudes))
	switch m.mode {
	case ModNone:
		for i, a := range amplitudes {
			out[i] = complex64(complex(a, 0))
		}
	case ModAM:
		for i, a := range amplitudes {
			out[i] = complex64(m.nco.MixAM(a))
		}
	case ModVSB:
		for i, a := range amplitudes {
			c := m.nco.MixAM(a)
			out[i] = complex64(m.vsb.Filter(c))
		}
	case ModFM:
		const deviation = 1.0 // radians of phase advance per unit amplitude
		for i, a := range amplitudes {
			out[i] = complex64(m.nco.MixFM(a, deviation))
		}
	}
	return out
}
