// Package mux implements the channel multiplexer: it sums N independent
// video-engine outputs, each offset to its own carrier frequency, into one
// wideband complex IQ stream fed to the RF backend.
package mux

import (
	"context"
	"log"
	"sync"

	"hacktv-go/dsp"
)

// lineQueueDepth is the bounded per-channel line-queue depth.
const lineQueueDepth = 30

// Channel is one line queue multiplexed into the wideband output at its own
// frequency offset. It does not read an AV source itself: the engine
// thread pushes completed line buffers into queue (in this build runEngine
// pushes the same composite line to every channel); the mux thread drains
// them and mixes them up to offsetHz.
type Channel struct {
	Name      string
	OffsetHz  float64
	SampleRate float64

	queue chan []complex64
	nco   *dsp.NCO

	underruns int
	mu        sync.Mutex
}

// NewChannel builds a Channel with its bounded line queue and offset-NCO,
// mixing the channel through a per-channel offset-NCO into the common
// sample rate.
func NewChannel(name string, offsetHz, sampleRate float64) *Channel {
	return &Channel{
		Name:       name,
		OffsetHz:   offsetHz,
		SampleRate: sampleRate,
		queue:      make(chan []complex64, lineQueueDepth),
		nco:        dsp.NewNCO(offsetHz, sampleRate, 1<<16),
	}
}

// Push hands a completed line's complex samples to the mux, blocking the
// calling engine thread while the channel's queue is full -- the
// worker-to-mux hand-off back-pressure point. Returns false if ctx was
// cancelled first.
func (c *Channel) Push(ctx context.Context, samples []complex64) bool {
	select {
	case c.queue <- samples:
		return true
	case <-ctx.Done():
		return false
	}
}

// Underruns reports how many times the mux found this channel's queue
// empty, for the status view's per-second diagnostics.
func (c *Channel) Underruns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.underruns
}

func (c *Channel) countUnderrun() {
	c.mu.Lock()
	c.underruns++
	c.mu.Unlock()
}

// Sink is where the mux pushes completed wideband blocks; rf.FIFO
// satisfies this via its WritePtr/Write pair, wrapped by the caller.
type Sink interface {
	WriteIQ(samples []complex64) error
}

// Mux sums its registered channels into one wideband IQ stream on a
// single dedicated thread.
type Mux struct {
	channels []*Channel
	sink     Sink
}

// New builds a Mux over the given channels, draining into sink.
func New(sink Sink, channels ...*Channel) *Mux {
	return &Mux{channels: channels, sink: sink}
}

// Run drains one line from every channel per iteration, mixes each through
// its offset-NCO, sums them, and pushes the result to the sink, until ctx
// is cancelled or the sink reports an error. If the RF FIFO (the sink) is
// full, Run blocks inside WriteIQ; if a channel's queue is empty, an
// underrun is counted and logged and Run waits for that channel's next
// line. No silence is inserted in its place.
func (m *Mux) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		wideband := m.mixOneStep(ctx)
		if wideband == nil {
			continue
		}
		if err := m.sink.WriteIQ(wideband); err != nil {
			return err
		}
	}
}

// mixOneStep drains one line from every channel and sums their
// offset-mixed contributions. Returns nil if ctx was cancelled while
// waiting on a channel's queue.
func (m *Mux) mixOneStep(ctx context.Context) []complex64 {
	var wideband []complex64
	for _, ch := range m.channels {
		line := ch.drainOrSilence(ctx)
		if line == nil {
			return nil
		}
		if wideband == nil {
			wideband = make([]complex64, len(line))
		}
		mixOffset(wideband, line, ch.nco)
	}
	return wideband
}

// drainOrSilence pulls the next queued line for ch. If the queue is empty
// it counts and logs an underrun, then blocks until a line arrives or ctx
// is cancelled (returning nil); it does not synthesize a line of silence.
func (ch *Channel) drainOrSilence(ctx context.Context) []complex64 {
	select {
	case line := <-ch.queue:
		return line
	default:
	}

	ch.countUnderrun()
	log.Printf("mux: channel %q queue empty, waiting (underrun #%d)", ch.Name, ch.underruns)

	select {
	case line := <-ch.queue:
		return line
	case <-ctx.Done():
		return nil
	}
}

// mixOffset frequency-shifts line up to ch's configured offset (complex
// multiplication by the NCO's unit-magnitude carrier phasor, one step per
// sample) and adds the result into wideband in place.
func mixOffset(wideband, line []complex64, nco *dsp.NCO) {
	for i, s := range line {
		if i >= len(wideband) {
			break
		}
		carrier := nco.MixAM(1)
		wideband[i] += complex64(complex128(s) * carrier)
	}
}
