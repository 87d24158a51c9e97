package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"hz.tools/rf"

	"hacktv-go/audio"
	"hacktv-go/ca/eurocrypt"
	"hacktv-go/ca/syster"
	"hacktv-go/config"
	"hacktv-go/dsp"
	"hacktv-go/metrics"
	"hacktv-go/mux"
	"hacktv-go/proc"
	hrf "hacktv-go/rf"
	"hacktv-go/source"
	"hacktv-go/status"
	"hacktv-go/teletext"
	"hacktv-go/video"
)

// Typical PAL/SECAM broadcast sound-subcarrier offsets from the vision
// carrier; used as absolute NCO frequencies here since this build keeps
// every subcarrier at baseband-relative offsets rather than up-converting
// to a literal RF passband.
const (
	fmSoundCarrierHz     = 6_000_000.0
	nicamSubcarrierHz    = 6_552_000.0
	zweikanaltonPilotHz  = 5_850_000.0
	zweikanaltonSignalHz = 6_258_000.0
)

// runEngine is the single generator goroutine that renders, scrambles,
// mixes in audio, modulates and pushes one raster line at a time into
// every configured mux channel, looping forever at whatever pace the
// channels' back-pressure allows. All configured channels broadcast the
// same composite signal at their own frequency offset -- this build has
// one AV source, so -channel-offsets represents simulcasting it rather
// than independently-sourced multiplexed channels.
func runEngine(
	ctx context.Context,
	raster *video.Raster,
	stack *proc.Stack,
	audioMix *audioMixer,
	modulator *hrf.Modulator,
	channels []*mux.Channel,
	euro *eurocryptEngine,
	showECM bool,
	frameCounter *atomic.Int64,
	lastECM *atomic.Pointer[string],
) {
	lineSamples := raster.LineSamples()
	linesPerFrame := raster.LinesPerFrame()
	lineIdx := 1
	frame := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		raster.RLockFrame()
		line := make([]float64, lineSamples)
		copy(line, raster.FrameBuffer()[(lineIdx-1)*lineSamples:lineIdx*lineSamples])
		raster.RUnlockFrame()

		view := stack.Step(frame, lineIdx, line)
		processed := view[0].Samples

		amplitudes := make([]float64, len(processed))
		for i, s := range processed {
			amplitudes[i] = raster.IreToAmplitude(s)
		}

		out := modulator.Modulate(amplitudes)
		for i := range out {
			out[i] += complex64(audioMix.Sample())
		}

		ok := true
		for _, ch := range channels {
			if !ch.Push(ctx, out) {
				ok = false
				break
			}
		}
		if !ok {
			return
		}

		lineIdx++
		if lineIdx > linesPerFrame {
			lineIdx = 1
			frame++
			frameCounter.Add(1)

			if euro != nil {
				if ecm := euro.tick(); ecm != "" && showECM {
					s := ecm
					lastECM.Store(&s)
				}
			}
		}
	}
}

// statusLoop pushes one Snapshot a second built from the mux channels'
// underrun counters, the frame counter, and the last logged ECM line,
// also feeding the same deltas into Prometheus when metrics are enabled.
func statusLoop(
	ctx context.Context,
	channels []*mux.Channel,
	frameCounter *atomic.Int64,
	lastECM *atomic.Pointer[string],
	_ *config.Config,
	met *metrics.Metrics,
	snapshots chan<- status.Snapshot,
) {
	prevFrame := int64(0)
	prevUnderruns := make([]int, len(channels))

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			close(snapshots)
			return
		case <-ticker.C:
			frame := frameCounter.Load()
			if met != nil {
				met.FramesTotal.Add(float64(frame - prevFrame))
			}
			prevFrame = frame

			stats := make([]status.ChannelStat, len(channels))
			for i, ch := range channels {
				u := ch.Underruns()
				delta := u - prevUnderruns[i]
				stats[i] = status.ChannelStat{Name: ch.Name, Underruns: delta}
				prevUnderruns[i] = u
				if met != nil && delta > 0 {
					met.UnderrunsTotal.WithLabelValues(ch.Name).Add(float64(delta))
				}
			}

			snap := status.Snapshot{Frame: frame, Channels: stats}
			if p := lastECM.Load(); p != nil {
				snap.ECM = *p
			}
			select {
			case snapshots <- snap:
			default:
			}
		}
	}
}

// audioMixer produces one complex IQ sample per video-sample-rate tick for
// whichever audio subcarrier(s) are configured, resampling PCM input
// (microphone or silence) from its native rate up to the video sample rate
// with a polyphase FIR rather than holding samples across the ratio.
type audioMixer struct {
	nicam        *audio.NICAMEncoder
	zweikanalton *audio.ZweikanaltonEncoder
	fm           *audio.FMModulator

	mic     *source.PortAudioInput
	micBuf  []int16
	resampL *dsp.PolyphaseFIR
	resampR *dsp.PolyphaseFIR
	invert  *syster.AudioInverter

	nicamDibits []byte
}

const audioPCMRate = 48000.0

func newAudioMixer(cfg *config.Config, mic *source.PortAudioInput) *audioMixer {
	m := &audioMixer{
		mic:     mic,
		resampL: dsp.NewRationalPolyphaseFIR(audioPCMRate, cfg.SampleRate, 8, 256),
		resampR: dsp.NewRationalPolyphaseFIR(audioPCMRate, cfg.SampleRate, 8, 256),
	}
	if cfg.Syster && cfg.SysterInvertAudio {
		m.invert = syster.NewAudioInverter(audioPCMRate)
	}

	switch {
	case cfg.NICAM:
		m.nicam = audio.NewNICAMEncoder(nicamSubcarrierHz, cfg.SampleRate)
	case cfg.Zweikanalton:
		m.zweikanalton = audio.NewZweikanaltonEncoder(zweikanaltonPilotHz, zweikanaltonSignalHz, cfg.SampleRate, cfg.FMDeviation, audio.ZweikanaltonStereo)
	default:
		m.fm = audio.NewFMModulator(audio.FMModulatorConfig{
			CarrierFrequency: rf.Hz(fmSoundCarrierHz),
			SampleRate:       cfg.SampleRate,
			DeviationHz:      cfg.FMDeviation,
			Level:            0.1,
			PreEmphasis:      audio.PreEmphasis50us,
		})
	}
	return m
}

// Sample advances the mixer by one video-sample-rate tick and returns the
// summed complex IQ contribution of every configured audio subcarrier.
func (m *audioMixer) Sample() complex128 {
	outL, okL := m.resampL.Pull()
	outR, okR := m.resampR.Pull()
	for !okL || !okR {
		l, r := m.nextPCM()
		m.resampL.Push(float64(l) / 32768.0)
		m.resampR.Push(float64(r) / 32768.0)
		if !okL {
			outL, okL = m.resampL.Pull()
		}
		if !okR {
			outR, okR = m.resampR.Pull()
		}
	}

	mono := (outL + outR) / 2

	switch {
	case m.nicam != nil:
		if frame := m.nicam.Push(int16(outL*32767), int16(outR*32767)); frame != nil {
			m.nicamDibits = append(m.nicamDibits, bytesToDibits(frame)...)
		}
		if len(m.nicamDibits) == 0 {
			return 0
		}
		d := m.nicamDibits[0]
		m.nicamDibits = m.nicamDibits[1:]
		return m.nicam.Modulate(d)
	case m.zweikanalton != nil:
		return m.zweikanalton.Modulate(mono)
	case m.fm != nil:
		return m.fm.Modulate(mono)
	}
	return 0
}

// nextPCM pulls the next microphone sample, or silence when no microphone
// is configured or none has arrived yet.
func (m *audioMixer) nextPCM() (int16, int16) {
	if m.mic == nil {
		return 0, 0
	}
	if len(m.micBuf) == 0 {
		select {
		case buf, ok := <-m.mic.Samples():
			if ok {
				m.micBuf = buf
			}
		default:
		}
	}
	if len(m.micBuf) == 0 {
		return 0, 0
	}
	s := m.micBuf[0]
	m.micBuf = m.micBuf[1:]
	if m.invert != nil {
		pair := [2]int16{s, s}
		m.invert.InvertAudio(pair[:])
		return pair[0], pair[1]
	}
	return s, s
}

// bytesToDibits unpacks a NICAM frame into its constituent 2-bit symbols,
// MSB first, for differential-QPSK shaping one symbol per Modulate call.
func bytesToDibits(frame []byte) []byte {
	out := make([]byte, 0, len(frame)*4)
	for _, b := range frame {
		out = append(out, (b>>6)&3, (b>>4)&3, (b>>2)&3, b&3)
	}
	return out
}

// eurocryptEngine wraps ca/eurocrypt.Engine with the hex-dump formatting
// runEngine's per-frame tick needs for the status view's ECM/EMM log.
// Kept separate from proc.LineProcessor since eurocrypt's MAC framing has
// no per-raster-line hook to attach to.
type eurocryptEngine struct {
	e *eurocrypt.Engine
}

func newEurocryptEngine(cfg *config.Config, family video.RasterFamily) *eurocryptEngine {
	ua := [5]byte{0x01, 0x02, 0x03, 0x04, 0x05}
	e, ok := eurocrypt.New(cfg.Eurocrypt, ua, family.FrameRate(), 10.0, cfg.ShowECM)
	if !ok {
		return nil
	}
	return &eurocryptEngine{e: e}
}

// tick advances the engine by one frame, returning a hex dump of the ECM
// that fired this frame, else of the EMM-U that fired, or "" if neither
// did.
func (ee *eurocryptEngine) tick() string {
	ecm, emmu := ee.e.Tick()
	switch {
	case ecm != nil:
		return fmt.Sprintf("ECM %s", hex.EncodeToString(ecm))
	case emmu != nil:
		return fmt.Sprintf("EMM-U %s", hex.EncodeToString(emmu))
	}
	return ""
}

func openRawTeletext(path string, sampleRate float64) (*proc.Teletext, error) {
	raw, err := teletext.OpenRawPackets(path)
	if err != nil {
		return nil, err
	}
	return proc.NewTeletextRaw(raw, sampleRate), nil
}

func loadTeletextService(path string, sampleRate float64) (*proc.Teletext, error) {
	pages, err := teletext.LoadTTIFile(path)
	if err != nil {
		return nil, err
	}
	svc := teletext.NewService(nil)
	for _, p := range pages {
		svc.AddPage(p)
	}
	return proc.NewTeletextFromService(svc, sampleRate), nil
}
