package videocrypt

import "testing"

// TestFrameZeroFreeAccessCutPoint pins the PRBS/cut-point value produced by
// the first 16 bits out of Reset for CW 0xEB64C7D9823D9F3F, frame counter 0:
// the seed reduces to sr1=0x7d3d603f, sr2=0x08c871b2, and running the
// 16-iteration register-update/multiplexer loop from that seed yields
// 0xFD as the top byte.
func TestFrameZeroFreeAccessCutPoint(t *testing.T) {
	var p PRBS
	p.Reset(FreeAccessCW, 0)
	x := p.NextByte()
	if x != 0xFD {
		t.Fatalf("prbs byte = %#02x, want 0xFD", x)
	}
	if got := CutPoint(x); got != CutPoint(0xFD) {
		t.Fatalf("CutPoint(%#02x) = %d, want %d", x, got, CutPoint(0xFD))
	}
}

func TestCutPointFormula(t *testing.T) {
	if got := CutPoint(0xFF); got != 105 {
		t.Fatalf("CutPoint(0xFF) = %d, want 105", got)
	}
	if got := CutPoint(0x00); got != 615 {
		t.Fatalf("CutPoint(0x00) = %d, want 615", got)
	}
}

func TestGenerateIWMasksToRegisterWidths(t *testing.T) {
	var p PRBS
	p.Reset(0, 0)
	if p.sr1 > sr1Mask {
		t.Fatalf("sr1 %#x exceeds 31-bit mask", p.sr1)
	}
	if p.sr2 > sr2Mask {
		t.Fatalf("sr2 %#x exceeds 31-bit mask", p.sr2)
	}
}
