package rf

import (
	"bytes"
	"testing"
)

type bufCloser struct{ *bytes.Buffer }

func (bufCloser) Close() error { return nil }

func TestFL2KSinkWritesThreeBytesPerSample(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFL2KSink(bufCloser{&buf}, 8_000_000, 32000)

	samples := []complex64{complex(0.5, 0), complex(-0.5, 0)}
	if err := sink.WriteIQ(samples); err != nil {
		t.Fatalf("WriteIQ: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := buf.Len(); got != len(samples)*3 {
		t.Fatalf("wrote %d bytes, want %d", got, len(samples)*3)
	}
}

func TestFL2KSinkDefaultsAudioResampleRate(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFL2KSink(bufCloser{&buf}, 8_000_000, 0)
	if sink.audioResampleRate != 32000 {
		t.Fatalf("audioResampleRate = %v, want 32000", sink.audioResampleRate)
	}
}

func TestFL2KSinkConsumesAudioViaAccumulator(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFL2KSink(bufCloser{&buf}, 32000, 32000)
	if err := sink.WriteAudio([]int16{1000, -1000}); err != nil {
		t.Fatalf("WriteAudio: %v", err)
	}
	if sink.curAudio[0] == 0 && sink.curAudio[1] == 0 {
		t.Fatal("expected curAudio to be updated once interp crosses sampleRate")
	}
}
