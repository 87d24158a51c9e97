// hacktv-go generates an analogue-TV composite signal (picture, sound, VBI
// data services, optional conditional-access scrambling) from a live AV
// source and transmits it over a HackRF, or writes the IQ samples to a
// file: source -> raster -> processor stack -> audio subcarriers ->
// output modulator -> sink.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samuel/go-hackrf/hackrf"

	"hacktv-go/ca/syster"
	"hacktv-go/ca/videocrypt"
	"hacktv-go/config"
	"hacktv-go/metrics"
	"hacktv-go/mux"
	"hacktv-go/proc"
	"hacktv-go/ptt"
	"hacktv-go/rf"
	"hacktv-go/sdr"
	"hacktv-go/source"
	"hacktv-go/status"
	"hacktv-go/video"
)

func main() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("hacktv-go: %v", err)
	}

	family, colour, err := resolveRaster(cfg.Mode)
	if err != nil {
		log.Fatalf("hacktv-go: %v", err)
	}
	raster := video.NewRaster(family, colour, cfg.SampleRate)

	var ffmpegCmd interface{ Wait() error }
	if cfg.Test {
		raster.LockRaw()
		raster.FillTestPattern()
		raster.UnlockRaw()
		go testPatternLoop(raster)
	} else {
		cmd, err := source.StartFFmpegCapture(cfg, raster)
		if err != nil {
			log.Fatalf("hacktv-go: starting video source: %v", err)
		}
		ffmpegCmd = cmd
	}

	var mic *source.PortAudioInput
	if cfg.Mic {
		mic, err = source.OpenPortAudioInput(48000, 1024)
		if err != nil {
			log.Fatalf("hacktv-go: opening microphone: %v", err)
		}
		defer mic.Close()
	}

	activeStart, activeLen := raster.ActiveWindow()
	procCtx := &proc.Context{
		LineSamples:   raster.LineSamples(),
		LinesPerFrame: raster.LinesPerFrame(),
		SampleRate:    cfg.SampleRate,
		ActiveStart:   activeStart,
		ActiveLen:     activeLen,
		Now:           time.Now,
	}

	processors, euro := buildProcessors(cfg, family, raster, activeStart, activeLen)
	procStack := proc.NewStack(procCtx, processors...)

	audioMix := newAudioMixer(cfg, mic)

	modMode, err := rf.ParseOutputMod(cfg.OutputMod)
	if err != nil {
		log.Fatalf("hacktv-go: %v", err)
	}
	modulator := rf.NewModulator(modMode, 0, cfg.SampleRate)

	sink, closeSink, err := openSink(cfg)
	if err != nil {
		log.Fatalf("hacktv-go: opening output: %v", err)
	}
	defer closeSink()

	offsets := cfg.ChannelOffsets
	if len(offsets) == 0 {
		offsets = []float64{0}
	}
	channels := make([]*mux.Channel, len(offsets))
	for i, off := range offsets {
		channels[i] = mux.NewChannel(fmt.Sprintf("ch%d", i), off*1_000_000, cfg.SampleRate)
	}
	m := mux.New(sink, channels...)

	var met *metrics.Metrics
	if cfg.MetricsAddr != "" {
		met = metrics.New()
		go func() {
			if err := <-met.Serve(cfg.MetricsAddr); err != nil {
				log.Printf("hacktv-go: metrics server: %v", err)
			}
		}()
	}

	keyer, err := ptt.Open(cfg.PTTGPIOChip, cfg.PTTGPIOLine)
	if err != nil {
		log.Fatalf("hacktv-go: opening PTT GPIO: %v", err)
	}
	defer keyer.Close()
	if err := keyer.Key(); err != nil {
		log.Printf("hacktv-go: keying PTT: %v", err)
	}
	defer keyer.Unkey()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("hacktv-go: shutting down...")
		cancel()
	}()

	go m.Run(ctx)

	var frameCounter atomic.Int64
	var lastECM atomic.Pointer[string]

	go runEngine(ctx, raster, procStack, audioMix, modulator, channels, euro, cfg.ShowECM, &frameCounter, &lastECM)

	snapshots := make(chan status.Snapshot, 1)
	go statusLoop(ctx, channels, &frameCounter, &lastECM, cfg, met, snapshots)

	if cfg.ShowSerial || cfg.ShowECM {
		p := status.New(snapshots, cfg.ShowECM, cfg.ShowSerial)
		if _, err := p.Run(); err != nil {
			log.Printf("hacktv-go: status view: %v", err)
		}
		cancel()
	} else {
		log.Printf("hacktv-go: transmitting %s on %.3f MHz (%s), press Ctrl+C to stop", cfg.Mode, cfg.Frequency, cfg.Output)
		<-ctx.Done()
	}

	if ffmpegCmd != nil {
		_ = ffmpegCmd.Wait()
	}
}

// resolveRaster maps the config's pal/ntsc/secam mode onto a raster family
// and colour mode, the mapping video.Families' family-name keys don't
// carry directly.
func resolveRaster(mode string) (video.RasterFamily, video.ColourMode, error) {
	switch mode {
	case "pal":
		f, err := video.LookupFamily("625")
		return f, video.NewPALMode(), err
	case "ntsc":
		f, err := video.LookupFamily("525")
		return f, video.NewNTSCMode(), err
	case "secam":
		f, err := video.LookupFamily("625")
		return f, video.NewSECAMMode(), err
	default:
		return video.RasterFamily{}, nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// testPatternLoop regenerates the colour-bar test frame at the raster's
// own frame rate, standing in for a live AV source when -test is set.
func testPatternLoop(raster *video.Raster) {
	rate := raster.Family().FrameRate()
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()
	for range ticker.C {
		raster.LockFrame()
		raster.GenerateFullFrame()
		raster.UnlockFrame()
	}
}

// buildProcessors assembles the ordered line-processor stack from the
// configured VBI services and conditional-access mode. The CA scrambler,
// when configured, runs first since it rewrites the
// active-picture samples the VBI processors never touch; the eurocrypt
// MAC engine is returned separately since it has no per-line Process hook
// (it is ticked once per frame alongside its own ECM/EMM cadence, per the
// design note in DESIGN.md).
func buildProcessors(cfg *config.Config, family video.RasterFamily, raster *video.Raster, activeStart, activeLen int) ([]proc.LineProcessor, *eurocryptEngine) {
	var processors []proc.LineProcessor

	lineFreqHz := family.FrameRate() * float64(family.LinesPerFrame)

	switch {
	case cfg.Videocrypt != "":
		if cfg.VideocryptS {
			processors = append(processors, videocrypt.NewVC2(cfg.Videocrypt, cfg.SampleRate, activeStart, activeLen, cfg.ShowECM))
		} else {
			processors = append(processors, videocrypt.NewVC1(cfg.Videocrypt, cfg.SampleRate, activeStart, activeLen, cfg.ShowECM))
		}
	case cfg.Syster:
		const freeCW = videocrypt.FreeAccessCW
		switch {
		case cfg.SysterD11:
			processors = append(processors, syster.NewD11(freeCW, 0, 1, activeStart, activeLen, family.LevelWhite, family.LevelBlack, cfg.SampleRate, lineFreqHz))
		case cfg.SysterCut:
			processors = append(processors, syster.NewCutRotate(freeCW, activeStart, activeLen))
		default:
			processors = append(processors, syster.New(freeCW, false, 0, raster.LineSamples(), activeStart, activeLen, cfg.SampleRate, lineFreqHz))
		}
	}

	var euro *eurocryptEngine
	if cfg.Eurocrypt != "" {
		euro = newEurocryptEngine(cfg, family)
	}

	if cfg.Teletext != "" {
		if p, ok := strings.CutPrefix(cfg.Teletext, "raw:"); ok {
			if raw, err := openRawTeletext(p, cfg.SampleRate); err == nil {
				processors = append(processors, raw)
			} else {
				log.Printf("hacktv-go: raw teletext: %v", err)
			}
		} else if p, err := loadTeletextService(cfg.Teletext, cfg.SampleRate); err == nil {
			processors = append(processors, p)
		} else {
			log.Printf("hacktv-go: teletext: %v", err)
		}
	}
	if cfg.WSS != "" {
		processors = append(processors, proc.NewWSS(cfg.SampleRate, cfg.WSS, nil))
	}
	if cfg.ACP {
		processors = append(processors, proc.NewACP(raster.LinesPerFrame()))
	}
	if cfg.VITS && family.Name == "625" {
		processors = append(processors, proc.NewVITS(colourSubcarrier(family)))
	}
	if cfg.VITC {
		processors = append(processors, proc.NewVITC(raster.LinesPerFrame(), cfg.Mode == "ntsc", cfg.SampleRate))
	}
	if cfg.CC608 {
		processors = append(processors, proc.NewCC608(cfg.SampleRate))
	}
	if cfg.SiS {
		processors = append(processors, proc.NewSiS())
	}

	return processors, euro
}

// colourSubcarrier resolves the 625-line family's PAL subcarrier for VITS,
// which only ever runs on a 625-line raster (both PAL and SECAM share the
// family); SECAM's own colour encoding has no single fixed subcarrier, so
// VITS uses the PAL value as its reference multiburst/staircase subcarrier
// regardless, matching how real 625-line VITS test lines are defined.
func colourSubcarrier(family video.RasterFamily) float64 {
	return 4433618.75
}

// openSink resolves the -output flag into a concrete rf.Sink: a HackRF
// device, an arbitrary file path, or stdout.
func openSink(cfg *config.Config) (rf.Sink, func(), error) {
	format, err := rf.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case cfg.Output == "hackrf":
		if err := hackrf.Init(); err != nil {
			return nil, nil, fmt.Errorf("hackrf init: %w", err)
		}
		dev, err := hackrf.Open()
		if err != nil {
			hackrf.Exit()
			return nil, nil, fmt.Errorf("hackrf open: %w", err)
		}
		if err := sdr.Configure(dev, cfg); err != nil {
			dev.Close()
			hackrf.Exit()
			return nil, nil, err
		}
		sink, err := rf.NewHackRFSink(dev, 4, 1<<18)
		if err != nil {
			dev.Close()
			hackrf.Exit()
			return nil, nil, err
		}
		return sink, func() { sink.Close(); hackrf.Exit() }, nil

	case cfg.Output == "-":
		sink := rf.StdoutSink(format, cfg.OutputComplex)
		return sink, func() { sink.Close() }, nil

	case strings.HasPrefix(cfg.Output, "file:"):
		path := strings.TrimPrefix(cfg.Output, "file:")
		sink, err := rf.OpenFileSink(path, format, cfg.OutputComplex)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { sink.Close() }, nil

	case strings.HasPrefix(cfg.Output, "fl2k:"):
		path := strings.TrimPrefix(cfg.Output, "fl2k:")
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, err
		}
		sink := rf.NewFL2KSink(f, cfg.SampleRate, cfg.FL2KAudioResampleRate)
		return sink, func() { sink.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown output sink %q", cfg.Output)
	}
}
