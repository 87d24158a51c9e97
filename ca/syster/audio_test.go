package syster

import "testing"

func TestAudioInverterProducesBoundedOutput(t *testing.T) {
	inv := NewAudioInverter(48000)
	samples := make([]int16, 512)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 10000
		} else {
			samples[i] = -10000
		}
	}
	inv.InvertAudio(samples)
	for i, s := range samples {
		if s > 32767 || s < -32768 {
			t.Fatalf("sample %d out of int16 range: %d", i, s)
		}
	}
}

func TestClampInt16(t *testing.T) {
	if got := clampInt16(40000); got != 32767 {
		t.Fatalf("clampInt16(40000) = %d, want 32767", got)
	}
	if got := clampInt16(-40000); got != -32768 {
		t.Fatalf("clampInt16(-40000) = %d, want -32768", got)
	}
	if got := clampInt16(100); got != 100 {
		t.Fatalf("clampInt16(100) = %d, want 100", got)
	}
}
