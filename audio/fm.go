// Package audio implements the FM/AM/Zweikanalton/NICAM-728 audio
// subcarrier modulators that are mixed into the composite IQ stream at the
// line level.
package audio

import (
	"math"

	"hacktv-go/dsp"
	"hz.tools/rf"
)

// PreEmphasis names the supported pre-emphasis shapes.
type PreEmphasis int

const (
	PreEmphasisNone PreEmphasis = iota
	PreEmphasis50us
	PreEmphasis75us
	PreEmphasisJ17
)

// FMModulatorConfig configures one FM audio subcarrier: carrier, deviation,
// output level and pre-emphasis, driven one sample at a time rather than
// through a buffered writer.
type FMModulatorConfig struct {
	CarrierFrequency rf.Hz
	SampleRate       float64
	DeviationHz      float64
	Level            float64
	PreEmphasis      PreEmphasis
	// Dispersal, when > 0, additively mixes a triangle wave of this peak
	// deviation into the modulating signal.
	Dispersal float64
}

// FMModulator is one mono/L/R FM audio subcarrier.
type FMModulator struct {
	cfg      FMModulatorConfig
	nco      *dsp.NCO
	emphasis *dsp.BiquadIIR
	triPos   float64
	triDir   float64
}

// NewFMModulator builds an FM modulator at the configured carrier.
func NewFMModulator(cfg FMModulatorConfig) *FMModulator {
	m := &FMModulator{
		cfg:    cfg,
		nco:    dsp.NewNCO(float64(cfg.CarrierFrequency), cfg.SampleRate, 1<<16),
		triDir: 1,
	}
	switch cfg.PreEmphasis {
	case PreEmphasis50us:
		m.emphasis = dsp.NewPreEmphasis(50e-6, cfg.SampleRate)
	case PreEmphasis75us:
		m.emphasis = dsp.NewPreEmphasis(75e-6, cfg.SampleRate)
	case PreEmphasisJ17:
		m.emphasis = dsp.NewPreEmphasis(50e-6, cfg.SampleRate)
	}
	return m
}

// dispersalStep advances and returns the next triangle-wave dispersal
// sample: a triangle position in ±1 scaled by cfg.Dispersal.
func (m *FMModulator) dispersalStep() float64 {
	if m.cfg.Dispersal == 0 {
		return 0
	}
	m.triPos += m.triDir * (1.0 / (m.cfg.SampleRate / 50))
	if m.triPos > 1 {
		m.triPos = 1
		m.triDir = -1
	} else if m.triPos < -1 {
		m.triPos = -1
		m.triDir = 1
	}
	return m.triPos * m.cfg.Dispersal
}

// Modulate takes one normalised (-1..1) PCM sample and returns its complex
// IQ contribution.
func (m *FMModulator) Modulate(sample float64) complex128 {
	if m.emphasis != nil {
		sample = m.emphasis.Process(sample)
	}
	sample += m.dispersalStep()
	radiansPerSample := 2 * math.Pi * m.cfg.DeviationHz / m.cfg.SampleRate
	c := m.nco.MixFM(sample, radiansPerSample)
	return complex(real(c)*m.cfg.Level, imag(c)*m.cfg.Level)
}
