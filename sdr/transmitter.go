// Package sdr owns HackRF device setup: frequency, sample rate, and gain.
// Starting the actual transmit stream is the RF backend's job (rf.HackRFSink
// owns the StartTX callback; see rf/sink.go) so that the FIFO it drains is
// the single place this build's back-pressure rules live.
package sdr

import (
	"log"

	"github.com/samuel/go-hackrf/hackrf"
	"hacktv-go/config"
)

// Configure sets an open HackRF device's frequency, sample rate and gain
// from cfg, and disables the amplifier (this build's Bandwidth flag already
// sizes the analogue filter chain upstream; the HackRF's own amp stage is
// left off by default).
func Configure(dev *hackrf.Device, cfg *config.Config) error {
	txFrequencyHz := uint64(cfg.Frequency * 1_000_000)

	if err := dev.SetFreq(txFrequencyHz); err != nil {
		return err
	}
	if err := dev.SetSampleRate(cfg.SampleRate); err != nil {
		return err
	}
	if err := dev.SetTXVGAGain(cfg.Gain); err != nil {
		return err
	}
	if err := dev.SetAmpEnable(false); err != nil {
		return err
	}

	log.Printf("hacktv-go: transmitting on %.3f MHz, %.2f MHz bandwidth, %.3f Msps",
		float64(txFrequencyHz)/1e6, cfg.Bandwidth, cfg.SampleRate/1e6)
	return nil
}
