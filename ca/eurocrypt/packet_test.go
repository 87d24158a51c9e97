package eurocrypt

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBuildECMIsGolayAligned(t *testing.T) {
	for id, p := range Providers {
		var ecw, ocw [8]byte
		pkt := buildECM(p, ecw, ocw, 0, fixedNow)
		if len(pkt)%3 != 0 {
			t.Fatalf("%s: ECM packet length %d not a multiple of 3 (Golay block size)", id, len(pkt))
		}
		if pkt[0] != pktECM {
			t.Fatalf("%s: PT byte = %#x, want 0x00", id, pkt[0])
		}
	}
}

func TestBuildEMMUAlternatesEveryThirdCall(t *testing.T) {
	p := Providers["cplus"]
	var ua [5]byte

	seenDate, seenKey := 0, 0
	for flag := 1; flag <= 9; flag++ {
		pkt := buildEMMU(p, ua, p.Name, flag, 0, fixedNow)
		if len(pkt)%3 != 0 {
			t.Fatalf("flag=%d: EMM-U packet length %d not a multiple of 3", flag, len(pkt))
		}
		if flag%3 == 0 {
			seenDate++
		} else {
			seenKey++
		}
	}
	if seenDate != 3 || seenKey != 6 {
		t.Fatalf("expected 3 date calls and 6 key calls over 9 ticks, got %d/%d", seenDate, seenKey)
	}
}

func TestEngineTicksOnConfiguredCadence(t *testing.T) {
	e, ok := New("bbcprime", [5]byte{1, 2, 3, 4, 5}, 25, 10, false)
	if !ok {
		t.Fatal("New returned ok=false for a known provider")
	}
	e.Clock = func() time.Time { return fixedNow }

	var ecms, emmus int
	for i := 0; i < 260; i++ {
		ecm, emmu := e.Tick()
		if ecm != nil {
			ecms++
		}
		if emmu != nil {
			emmus++
		}
	}
	if ecms < 4 {
		t.Fatalf("expected at least 4 ECMs over 260 frames at 64-frame cadence, got %d", ecms)
	}
	if emmus < 1 {
		t.Fatalf("expected at least 1 EMM-U over 260 frames at 250-frame cadence, got %d", emmus)
	}
}
