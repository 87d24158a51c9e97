package rf

import (
	"math"
	"testing"
)

func TestModulateNonePassesBasebandThrough(t *testing.T) {
	m := NewModulator(ModNone, 0, 48000)
	out := m.Modulate([]float64{0.25, -0.5, 1})
	want := []float64{0.25, -0.5, 1}
	for i, w := range want {
		if float64(real(out[i])) != w || imag(out[i]) != 0 {
			t.Fatalf("sample %d: got %v, want (%v,0)", i, out[i], w)
		}
	}
}

func TestModulateAMPreservesEnvelope(t *testing.T) {
	m := NewModulator(ModAM, 1000, 48000)
	out := m.Modulate([]float64{0.5, 0.5, 0.5, 0.5})
	for i, c := range out {
		mag := math.Hypot(float64(real(c)), float64(imag(c)))
		if math.Abs(mag-0.5) > 1e-6 {
			t.Fatalf("sample %d: envelope magnitude = %v, want 0.5", i, mag)
		}
	}
}

func TestParseOutputModRejectsUnknown(t *testing.T) {
	if _, err := ParseOutputMod("bogus"); err == nil {
		t.Fatal("expected an error for an unknown output modulation")
	}
	for _, s := range []string{"none", "am", "vsb", "fm"} {
		if _, err := ParseOutputMod(s); err != nil {
			t.Fatalf("ParseOutputMod(%q): unexpected error %v", s, err)
		}
	}
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	if _, err := ParseFormat("bogus"); err == nil {
		t.Fatal("expected an error for an unknown sample format")
	}
}
