package audio

import "testing"

func TestCompandingParityIsOdd(t *testing.T) {
	for _, s := range []int16{0, 1, -1, 1234, -1234, 32000, -32000} {
		v := companding(s)
		ones := 0
		for i := 0; i < 11; i++ {
			if v&(1<<uint(i)) != 0 {
				ones++
			}
		}
		if ones%2 != 1 {
			t.Fatalf("companding(%d) = %011b has even parity, want odd", s, v)
		}
	}
}

func TestScramblerIsSelfInverse(t *testing.T) {
	bits := make([]bool, 704)
	for i := range bits {
		bits[i] = i%3 == 0
	}
	scrambled := scramblePayload(bits)
	restored := DescrambleForTest(scrambled)
	for i := range bits {
		if bits[i] != restored[i] {
			t.Fatalf("bit %d: scramble/descramble round trip failed", i)
		}
	}
}

func TestPushEmitsFrameEveryNICAMAudioLenSamples(t *testing.T) {
	enc := NewNICAMEncoder(6_552_000, 16_000_000)
	var frame []byte
	for i := 0; i < NICAMAudioLen; i++ {
		frame = enc.Push(int16(i*10), int16(-i*10))
	}
	if frame == nil {
		t.Fatal("expected a frame after NICAMAudioLen pushes")
	}
	// header (3 bytes) + 2*32*11 payload bits = 24 + 704 = 728 bits = 91 bytes
	if len(frame) != 91 {
		t.Fatalf("expected 91-byte (728-bit) frame, got %d bytes", len(frame))
	}
	if enc.Push(0, 0) != nil {
		t.Fatal("expected nil before the next NICAMAudioLen samples accumulate")
	}
}
