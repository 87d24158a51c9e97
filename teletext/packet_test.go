package teletext

import (
	"strings"
	"testing"
	"time"
)

func TestHamming84RoundTrip(t *testing.T) {
	for v := byte(0); v < 16; v++ {
		enc := EncodeHamming84(v)
		dec, ok := DecodeHamming84(enc)
		if !ok || dec != v {
			t.Fatalf("hamming roundtrip failed for %d: got %d ok=%v", v, dec, ok)
		}
	}
}

func TestHamming84CorrectsSingleBitError(t *testing.T) {
	enc := EncodeHamming84(5)
	flipped := enc ^ 0x01
	dec, ok := DecodeHamming84(flipped)
	if !ok || dec != 5 {
		t.Fatalf("expected single-bit error correction to recover 5, got %d ok=%v", dec, ok)
	}
}

func TestParseTTISinglePage(t *testing.T) {
	src := "PN,1F000\nPS,C000\nSC,0000\nOL,1,HELLO\n"
	pages, err := ParseTTI(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	p := pages[0]
	if p.Magazine != 1 || p.Page != 0xF0 {
		t.Fatalf("unexpected page address: mag=%d page=%02X", p.Magazine, p.Page)
	}
	if p.Rows[1] != "HELLO" {
		t.Fatalf("expected row 1 = HELLO, got %q", p.Rows[1])
	}
}

func TestBuildHeaderPacketFraming(t *testing.T) {
	p := &Page{Magazine: 1, Page: 0xF0, Subpage: 0}
	pkt := BuildHeaderPacket(p, time.Unix(0, 0).UTC())
	if pkt[0] != 0x55 || pkt[1] != 0x55 || pkt[2] != 0x27 {
		t.Fatalf("expected framing 55 55 27, got %02X %02X %02X", pkt[0], pkt[1], pkt[2])
	}
	if pkt[7] != 0xC0 {
		t.Fatalf("expected control status 0xC0, got %02X", pkt[7])
	}
}
