package syster

import "testing"

// TestFieldOrderIsAPermutation checks that for every (s, r) seed pair,
// FieldOrder produces a bijection of 0..286 (each destination line used
// exactly once).
func TestFieldOrderIsAPermutation(t *testing.T) {
	seeds := [][2]uint8{{0, 0}, {1, 0}, {0, 1}, {63, 127}, {127, 255}, {42, 200}}
	for _, sr := range seeds {
		order := FieldOrder(&KeyTable1, sr[0], sr[1])
		var seen [287]bool
		for i, v := range order {
			if v < 0 || v >= 287 {
				t.Fatalf("s=%d r=%d: order[%d]=%d out of range", sr[0], sr[1], i, v)
			}
			if seen[v] {
				t.Fatalf("s=%d r=%d: value %d appears more than once in order", sr[0], sr[1], v)
			}
			seen[v] = true
		}
		for i, ok := range seen {
			if !ok {
				t.Fatalf("s=%d r=%d: line %d never appears in order", sr[0], sr[1], i)
			}
		}
	}
}

func TestPRBSRegistersStayWithinMask(t *testing.T) {
	var p PRBS
	p.Reset(0xEB64C7D9823D9F3F)
	if p.sr1 > sr1Mask {
		t.Fatalf("sr1 exceeds 31-bit mask: %#x", p.sr1)
	}
	if p.sr2 > sr2Mask {
		t.Fatalf("sr2 exceeds 29-bit mask: %#x", p.sr2)
	}
	s, r := p.Update()
	if s > 0x7F {
		t.Fatalf("s exceeds 7 bits: %#x", s)
	}
	_ = r
}

func TestCRC16MatchesKnownVector(t *testing.T) {
	if crc16(nil) != 0 {
		t.Fatalf("crc16 of empty input should be 0, got %#x", crc16(nil))
	}
}
