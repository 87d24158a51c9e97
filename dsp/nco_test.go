package dsp

import (
	"math"
	"testing"
)

func TestNCOReturnsToPhaseZero(t *testing.T) {
	nco := NewNCO(4433618.75, 17_700_000, 1<<16)
	lutLen := len(nco.lut)
	if lutLen == 0 {
		t.Fatal("expected non-empty LUT")
	}
	nco.Reset(0)
	start := nco.lut[0]
	for i := 0; i < lutLen; i++ {
		nco.step()
	}
	if nco.phase != 0 {
		t.Fatalf("expected phase to wrap to 0 after lutLen steps, got %d", nco.phase)
	}
	if nco.lut[0] != start {
		t.Fatalf("LUT[0] changed unexpectedly")
	}
}

func TestMixAMScalesCarrier(t *testing.T) {
	nco := NewNCO(1000, 48000, 1024)
	out := nco.MixAM(0.5)
	mag := math.Hypot(real(out), imag(out))
	if math.Abs(mag-0.5) > 1e-9 {
		t.Fatalf("expected magnitude 0.5, got %v", mag)
	}
}

func TestLowPassFilterTapsNormalisedToUnityDC(t *testing.T) {
	taps := NewLowPassFilterTaps(65, 1.0, 8.0)
	var sum float64
	for _, v := range taps {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("expected DC gain 1.0, got %v", sum)
	}
}

func TestLimiterAttenuatesSoundOnly(t *testing.T) {
	l := NewLimiter(4, 1.0)
	for i := 0; i < 4; i++ {
		l.Process(0.9, 0.9)
	}
	_, sound := l.Process(0.9, 0.9)
	if sound >= 0.9 {
		t.Fatalf("expected sound channel to be attenuated, got %v", sound)
	}
}
