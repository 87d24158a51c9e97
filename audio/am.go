package audio

import (
	"hacktv-go/dsp"

	"hz.tools/rf"
)

// AMModulator is a DSB or VSB-filtered AM mono audio subcarrier; level
// envelopes the real component.
type AMModulator struct {
	nco   *dsp.NCO
	level float64
	vsb   *dsp.ComplexBandpassFIR
}

// NewAMModulator builds a DSB AM modulator. It takes no VSB bandwidths and
// leaves the vsb filter unset, so its output is not VSB-shaped.
func NewAMModulator(carrierHz, sampleRate, level float64) *AMModulator {
	return &AMModulator{
		nco:   dsp.NewNCO(carrierHz, sampleRate, 1<<14),
		level: level,
	}
}

// Modulate returns the complex IQ contribution for one normalised PCM
// sample.
func (m *AMModulator) Modulate(sample float64) complex128 {
	c := m.nco.MixAM(sample * m.level)
	if m.vsb != nil {
		c = m.vsb.Filter(c)
	}
	return c
}

// ZweikanaltonEncoder is the German dual-channel (A2) audio system: one
// fixed pilot carrier tone-encoded for stereo/dual/mono state, plus one
// signal carrier.
type ZweikanaltonEncoder struct {
	pilot        *dsp.NCO
	pilotCarrier *dsp.NCO
	signal       *FMModulator
	state        ZweikanaltonState
}

// ZweikanaltonState names the pilot-tone-encoded channel configuration.
type ZweikanaltonState int

const (
	ZweikanaltonMono ZweikanaltonState = iota
	ZweikanaltonStereo
	ZweikanaltonDual
)

// pilotToneHz maps each state to its defined pilot tone frequency.
var pilotToneHz = map[ZweikanaltonState]float64{
	ZweikanaltonMono:   0,
	ZweikanaltonStereo: 117.5,
	ZweikanaltonDual:   274.1,
}

// NewZweikanaltonEncoder builds a Zweikanalton encoder at the second sound
// carrier frequency (typically +242kHz in PAL-B/G), pilot state fixed at
// construction.
func NewZweikanaltonEncoder(pilotCarrierHz, signalCarrierHz, sampleRate, deviation float64, state ZweikanaltonState) *ZweikanaltonEncoder {
	return &ZweikanaltonEncoder{
		pilot: dsp.NewNCO(pilotToneHz[state], sampleRate, 1<<16),
		signal: NewFMModulator(FMModulatorConfig{
			CarrierFrequency: rf.Hz(signalCarrierHz),
			SampleRate:       sampleRate,
			DeviationHz:      deviation,
			Level:            1.0,
		}),
		pilotCarrier: dsp.NewNCO(pilotCarrierHz, sampleRate, 1<<16),
		state:        state,
	}
}

// Modulate runs one PCM sample through the signal carrier, up-converts the
// pilot tone onto its own carrier, and sums the two (the two-tier
// Zweikanalton pilot/signal relationship).
func (z *ZweikanaltonEncoder) Modulate(sample float64) complex128 {
	sig := z.signal.Modulate(sample)
	pilotTone := real(z.pilot.MixAM(1))
	pilot := z.pilotCarrier.MixAM(0.1 * pilotTone)
	return sig + pilot
}
