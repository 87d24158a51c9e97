package video

import "testing"

func TestPALFrameSampleCount(t *testing.T) {
	family, err := LookupFamily("625")
	if err != nil {
		t.Fatal(err)
	}
	r := NewRaster(family, NewPALMode(), 16_000_000)
	r.FillTestPattern()
	r.GenerateFullFrame()

	got := len(r.FrameBuffer())
	want := r.LineSamples() * r.LinesPerFrame()
	if got != want {
		t.Fatalf("frame buffer length = %d, want %d", got, want)
	}
}

func TestNTSCSyncPulseWidth(t *testing.T) {
	family, err := LookupFamily("525")
	if err != nil {
		t.Fatal(err)
	}
	sampleRate := 16_000_000.0
	r := NewRaster(family, NewNTSCMode(), sampleRate)

	wantSamples := int(4.7e-6 * sampleRate)
	if r.hSyncSamples != wantSamples {
		t.Fatalf("hsync samples = %d, want %d", r.hSyncSamples, wantSamples)
	}
}

func TestMidGreyLumaNearMidLevel(t *testing.T) {
	family, _ := LookupFamily("625")
	r := NewRaster(family, NewPALMode(), 16_000_000)

	buf := r.RawFrameBuffer()
	for i := range buf {
		buf[i] = 128
	}
	r.GenerateFullFrame()

	start, length := r.ActiveWindow()
	lineOffset := 100 * r.LineSamples()
	mid := (r.Family().LevelWhite + r.Family().LevelBlack) / 2
	sample := r.FrameBuffer()[lineOffset+start+length/2]
	if sample < mid-5 || sample > mid+15 {
		t.Fatalf("active luma sample = %v, want near mid-level %v", sample, mid)
	}
}
