package config

import "testing"

func TestValidateRejectsUnknownMode(t *testing.T) {
	c := &Config{Mode: "bogus", SampleRate: 8_000_000}
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestValidateRejectsConflictingSysterOptions(t *testing.T) {
	c := &Config{Mode: "pal", SampleRate: 8_000_000, Syster: true, SysterD11: true, SysterCut: true}
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for d11+syster-cut")
	}
}

func TestValidateRejectsSysterWithVideocrypt(t *testing.T) {
	c := &Config{Mode: "pal", SampleRate: 8_000_000, Syster: true, Videocrypt: "free"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for syster+videocrypt")
	}
}

func TestValidateAcceptsSaneConfig(t *testing.T) {
	c := &Config{Mode: "ntsc", SampleRate: 8_000_000, FL2KAudioResampleRate: 32000}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsNonPositiveFL2KRate(t *testing.T) {
	c := &Config{Mode: "pal", SampleRate: 8_000_000}
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for a zero fl2k audio resample rate")
	}
}

func TestParseChannelOffsets(t *testing.T) {
	got := parseChannelOffsets(" -8, 8,bad, 0 ")
	want := []float64{-8, 8, 0}
	if len(got) != len(want) {
		t.Fatalf("parseChannelOffsets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("parseChannelOffsets()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseChannelOffsetsEmpty(t *testing.T) {
	if got := parseChannelOffsets(""); got != nil {
		t.Fatalf("parseChannelOffsets(\"\") = %v, want nil", got)
	}
}
