package syster

import "hacktv-go/dsp"

// audioInvertHz is the carrier used to mix the audio spectrum up before
// sideband-filtering it back down, matching the 12.8kHz inversion point
// syster.c's ng_invert_audio uses.
const audioInvertHz = 12800.0

// AudioInverter inverts the stereo audio subcarrier's spectrum below
// audioInvertHz, the scrambling some Discret 11/Syster decoders expect on
// the sound channel. Grounded on syster.c's _ng_audio_init/ng_invert_audio:
// each channel is mixed with a complex sine to form a DSB-SC signal at
// +12.8kHz, then filtered to the lower sideband, recovering a spectrum-
// inverted version of the original baseband audio.
type AudioInverter struct {
	oscL, oscR   *dsp.NCO
	filtL, filtR *dsp.ComplexBandpassFIR
}

// NewAudioInverter builds an inverter for stereo PCM running at sampleRate.
func NewAudioInverter(sampleRate float64) *AudioInverter {
	return &AudioInverter{
		oscL:  dsp.NewNCO(audioInvertHz, sampleRate, 256),
		oscR:  dsp.NewNCO(audioInvertHz, sampleRate, 256),
		filtL: dsp.NewComplexBandpassFIR(65, audioInvertHz, audioInvertHz, sampleRate),
		filtR: dsp.NewComplexBandpassFIR(65, audioInvertHz, audioInvertHz, sampleRate),
	}
}

// InvertAudio inverts interleaved stereo samples in place.
func (a *AudioInverter) InvertAudio(samples []int16) {
	for i := 0; i+1 < len(samples); i += 2 {
		l := float64(samples[i]) / 32768.0
		r := float64(samples[i+1]) / 32768.0

		fl := a.filtL.Filter(a.oscL.MixAM(l))
		fr := a.filtR.Filter(a.oscR.MixAM(r))

		samples[i] = clampInt16(real(fl) * 32767)
		samples[i+1] = clampInt16(real(fr) * 32767)
	}
}

func clampInt16(v float64) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}
