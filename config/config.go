// Package config parses command-line flags into the immutable engine config.
package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"hacktv-go/errs"
)

// Config holds all application configuration values. Treated as immutable
// after New returns; shared by reference across engine threads.
type Config struct {
	Frequency  float64
	Bandwidth  float64
	SampleRate float64
	Gain       int
	Device     string
	Callsign   string
	Test       bool

	// Raster family: pal, ntsc, secam.
	Mode string

	// Conditional-access selection.
	Videocrypt string // "", "free", "sky07", "sky09", "tac1", "tac2", "vc2"
	VideocryptS bool
	Syster     bool
	SysterD11  bool
	SysterCut  bool
	SysterInvertAudio bool
	Eurocrypt  string // provider id, "" disables

	// Line processors.
	Teletext   string // path to .tti, or "raw:<path>"
	WSS        string // "", "4:3", "16:9", "auto"
	ACP        bool
	VITS       bool
	VITC       bool
	CC608      bool
	SiS        bool

	// Audio.
	FMDeviation float64
	NICAM       bool
	Zweikanalton bool

	// Output.
	Output     string // "hackrf", "file:<path>", "fl2k:<path>", "-"
	OutputFormat string // uint8, int8, uint16, int16, int32, float32
	OutputComplex bool
	OutputMod  string // "am", "vsb", "fm", "none"

	// FL2KAudioResampleRate is the rate at which the fl2k-equivalent sink's
	// accumulator takes audio samples for its G/B channels (the DAC itself
	// runs at SampleRate); the original hard-wired this to 32000 Hz.
	FL2KAudioResampleRate float64

	// Channel multiplexer: comma-separated MHz offsets, one per extra channel.
	ChannelOffsets []float64

	// Diagnostics.
	ShowECM    bool
	ShowSerial bool
	MetricsAddr string

	// Push-to-talk GPIO line, empty disables.
	PTTGPIOChip string
	PTTGPIOLine int

	// Mic captures system microphone audio (PortAudio) as the audio
	// subcarrier source instead of silence.
	Mic bool
}

// New creates and returns a new Config struct populated from command-line flags.
func New() *Config {
	cfg := &Config{}
	flag.Float64Var(&cfg.Frequency, "freq", 1280, "Transmit frequency in MHz")
	flag.Float64Var(&cfg.Bandwidth, "bw", 8, "Channel bandwidth in MHz")
	flag.IntVar(&cfg.Gain, "gain", 30, "TX VGA gain (0-47)")
	flag.StringVar(&cfg.Device, "device", "", "Video device name or index (OS-dependent)")
	flag.StringVar(&cfg.Callsign, "callsign", "NOCALL", "Callsign to overlay on the video")
	flag.BoolVar(&cfg.Test, "test", false, "Show SMPTE colorbar test screen instead of webcam")
	flag.StringVar(&cfg.Mode, "mode", "pal", "Raster/colour mode: pal, ntsc, secam")

	flag.StringVar(&cfg.Videocrypt, "videocrypt", "", "Videocrypt I scramble mode: free, sky07, sky09, tac1, tac2")
	flag.BoolVar(&cfg.VideocryptS, "videocrypts", false, "Use Videocrypt II instead of Videocrypt I")
	flag.BoolVar(&cfg.Syster, "syster", false, "Enable Nagravision Syster scrambling")
	flag.BoolVar(&cfg.SysterD11, "d11", false, "Use Discret-11 delay instead of line shuffle")
	flag.BoolVar(&cfg.SysterCut, "syster-cut", false, "Use Syster cut-and-rotate instead of line shuffle")
	flag.BoolVar(&cfg.SysterInvertAudio, "syster-invert-audio", false, "Invert the audio subcarrier spectrum below 12.8kHz, as some Syster/D11 decoders require")
	flag.StringVar(&cfg.Eurocrypt, "eurocrypt", "", "Eurocrypt provider id (cplus, nrk, filmnet, tv1000, bbcprime)")

	flag.StringVar(&cfg.Teletext, "teletext", "", "Teletext TTI path, or raw:<path>")
	flag.StringVar(&cfg.WSS, "wss", "", "WSS aspect signalling: 4:3, 16:9, auto")
	flag.BoolVar(&cfg.ACP, "acp", false, "Enable Macrovision ACP pulses")
	flag.BoolVar(&cfg.VITS, "vits", false, "Enable VITS test lines")
	flag.BoolVar(&cfg.VITC, "vitc", false, "Enable VITC timecode")
	flag.BoolVar(&cfg.CC608, "cc", false, "Enable EIA-608 closed captions")
	flag.BoolVar(&cfg.SiS, "sis", false, "Enable Sound-in-Syncs")

	flag.Float64Var(&cfg.FMDeviation, "fm-deviation", 50000, "FM audio subcarrier deviation in Hz")
	flag.BoolVar(&cfg.NICAM, "nicam", false, "Enable NICAM-728 digital stereo")
	flag.BoolVar(&cfg.Zweikanalton, "a2", false, "Enable Zweikanalton/A2 dual-carrier audio")

	flag.StringVar(&cfg.Output, "output", "hackrf", "Output sink: hackrf, file:<path>, fl2k:<path>, -")
	flag.StringVar(&cfg.OutputFormat, "output-format", "int16", "File sample format: uint8,int8,uint16,int16,int32,float32")
	flag.BoolVar(&cfg.OutputComplex, "output-complex", true, "File output carries complex (I,Q) samples")
	flag.StringVar(&cfg.OutputMod, "output-mod", "am", "Output modulation before the FIFO: am, vsb, fm, none")
	flag.Float64Var(&cfg.FL2KAudioResampleRate, "fl2k-audio-rate", 32000, "Audio sample rate (Hz) for the fl2k-equivalent output sink's G/B channels")

	flag.BoolVar(&cfg.ShowECM, "showecm", false, "Log ECM contents to stderr")
	flag.BoolVar(&cfg.ShowSerial, "showserial", false, "Log card serial to stderr")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Prometheus metrics listen address, empty disables")

	flag.StringVar(&cfg.PTTGPIOChip, "ptt-gpiochip", "", "gpiochip device for PTT keying, empty disables")
	flag.IntVar(&cfg.PTTGPIOLine, "ptt-gpioline", 0, "GPIO line offset for PTT keying")

	flag.BoolVar(&cfg.Mic, "mic", false, "Capture audio subcarrier input from the default system microphone")

	var channelOffsets string
	flag.StringVar(&channelOffsets, "channel-offsets", "", "Comma-separated MHz offsets for additional multiplexed channels, e.g. -8,8")

	flag.Parse()

	cfg.SampleRate = cfg.Bandwidth * 1_000_000
	cfg.ChannelOffsets = parseChannelOffsets(channelOffsets)

	return cfg
}

// parseChannelOffsets splits a comma-separated list of MHz offsets into
// float64s, skipping anything that doesn't parse rather than failing
// startup over a malformed -channel-offsets value.
func parseChannelOffsets(s string) []float64 {
	if s == "" {
		return nil
	}
	var offsets []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			continue
		}
		offsets = append(offsets, v)
	}
	return offsets
}

// Validate checks cross-field invariants the flag package can't express.
func (c *Config) Validate() error {
	switch c.Mode {
	case "pal", "ntsc", "secam":
	default:
		return fmt.Errorf("%w: unknown mode %q", errs.ErrBadConfig, c.Mode)
	}
	if c.SysterD11 && c.SysterCut {
		return fmt.Errorf("%w: d11 and syster-cut are mutually exclusive", errs.ErrBadConfig)
	}
	if c.Syster && c.Videocrypt != "" {
		return fmt.Errorf("%w: syster and videocrypt are mutually exclusive", errs.ErrBadConfig)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive", errs.ErrBadConfig)
	}
	if c.FL2KAudioResampleRate <= 0 {
		return fmt.Errorf("%w: fl2k audio resample rate must be positive", errs.ErrBadConfig)
	}
	return nil
}
