package dsp

import "testing"

func TestPolyphaseFIRPreservesRate(t *testing.T) {
	f := NewPolyphaseFIR(3, 2, 8)
	var pushed, pulled int
	for i := 0; i < 100; i++ {
		f.Push(1.0)
		pushed++
		for {
			if _, ok := f.Pull(); !ok {
				break
			}
			pulled++
		}
	}
	want := pushed * 3 / 2
	if pulled < want-1 || pulled > want+1 {
		t.Fatalf("pulled %d samples for %d pushed at L=3/M=2, want ~%d", pulled, pushed, want)
	}
}

func TestNewRationalPolyphaseFIRApproximatesRatio(t *testing.T) {
	f := NewRationalPolyphaseFIR(48_000, 8_000_000, 4, 256)
	var pushed, pulled int
	for i := 0; i < 1000; i++ {
		f.Push(1.0)
		pushed++
		for {
			if _, ok := f.Pull(); !ok {
				break
			}
			pulled++
		}
	}
	ratio := float64(pulled) / float64(pushed)
	want := 8_000_000.0 / 48_000.0
	if d := ratio - want; d > want*0.05 || d < -want*0.05 {
		t.Fatalf("resampled ratio = %v, want close to %v", ratio, want)
	}
}

func TestComplexBandpassFIRPassesCenterFrequency(t *testing.T) {
	f := NewComplexBandpassFIR(33, 1000, 2000, 48000)
	var out complex128
	for i := 0; i < 200; i++ {
		out = f.Filter(complex(1, 0))
	}
	if out == 0 {
		t.Fatal("expected a non-zero steady-state response")
	}
}
