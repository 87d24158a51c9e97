package rf

import (
	"bufio"
	"io"
	"math"
)

// FL2KSink writes a three-channel (R,G,B) unsigned 8-bit byte stream, the
// wire format osmo-fl2k drives its three DAC outputs with: channel R
// carries the baseband I samples (fl2k is a real-valued DAC, so Q is
// dropped), channels G/B carry the stereo audio subcarrier rate-converted
// down to AudioResampleRate with first-order delta-sigma dither on the
// lower 8 bits, grounded on rf_fl2k.c's _rf_write_iq/_rf_write_audio. The
// original hardwired that conversion rate to 32000 Hz; AudioResampleRate
// makes it a field instead.
type FL2KSink struct {
	w      *bufio.Writer
	closer io.Closer

	sampleRate       float64
	audioResampleRate float64

	interp   float64
	curAudio [2]uint16
	ds       [2]int32
}

// NewFL2KSink wraps an already-open writer. sampleRate is the DAC's output
// rate (the same rate the IQ stream is produced at); audioResampleRate is
// the rate audio samples are consumed at before being spread across the
// DAC clock, matching fl2k's rf->interp accumulator.
func NewFL2KSink(w io.WriteCloser, sampleRate, audioResampleRate float64) *FL2KSink {
	if audioResampleRate <= 0 {
		audioResampleRate = 32000
	}
	return &FL2KSink{
		w:                 bufio.NewWriterSize(w, 1<<16),
		closer:            w,
		sampleRate:        sampleRate,
		audioResampleRate: audioResampleRate,
	}
}

// WriteIQ writes each sample's real part to the R channel and the current
// held audio sample to G/B, advancing each audio channel's delta-sigma
// state once per DAC tick. It does not advance the audio accumulator; only
// WriteAudio does.
func (s *FL2KSink) WriteIQ(samples []complex64) error {
	for _, c := range samples {
		r := byte((int32(clampFloat(real(c))*32767) - math.MinInt16) >> 8)
		g, b := s.nextAudioByte(0), s.nextAudioByte(1)
		if _, err := s.w.Write([]byte{r, g, b}); err != nil {
			return err
		}
	}
	return nil
}

// nextAudioByte advances channel ch's delta-sigma state by one DAC tick
// using the currently held 16-bit audio sample, without consuming a new
// PCM sample (that happens in WriteAudio's accumulator).
func (s *FL2KSink) nextAudioByte(ch int) byte {
	v := s.curAudio[ch]
	b := byte((v & 0xFE00) >> 8)
	s.ds[ch] += int32(v & 0x1FF)
	if s.ds[ch] >= 0x1FF {
		b++
		s.ds[ch] -= 0x1FF
	}
	return b
}

// WriteAudio buffers interleaved stereo PCM, to be spread across DAC ticks
// at AudioResampleRate via the same fractional accumulator fl2k's
// hardwired-32000 loop used, now driven by s.audioResampleRate.
func (s *FL2KSink) WriteAudio(pcm []int16) error {
	for i := 0; i+1 < len(pcm); i += 2 {
		s.interp += s.audioResampleRate
		if s.interp >= s.sampleRate {
			s.interp -= s.sampleRate
			s.curAudio[0] = uint16(int32(pcm[i]) - math.MinInt16)
			s.curAudio[1] = uint16(int32(pcm[i+1]) - math.MinInt16)
		}
	}
	return nil
}

func (s *FL2KSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.closer.Close()
}

var _ Sink = (*FL2KSink)(nil)
