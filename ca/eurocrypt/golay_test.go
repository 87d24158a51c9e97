package eurocrypt

import "testing"

// TestGolayIsIdempotent checks that Golay(23,12) applied twice to any
// 30-byte MAC payload is idempotent.
func TestGolayIsIdempotent(t *testing.T) {
	var seed uint64 = 0xD1B54A32D192ED03
	next := func() byte {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		return byte(seed)
	}

	for trial := 0; trial < 8; trial++ {
		payload := make([]byte, 30)
		for i := range payload {
			payload[i] = next()
		}

		once := EncodeGolay(payload)
		twice := EncodeGolay(once)

		if len(once) != len(twice) {
			t.Fatalf("trial=%d: length changed, %d != %d", trial, len(once), len(twice))
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Fatalf("trial=%d byte=%d: re-encoding not a fixpoint, %#x != %#x", trial, i, once[i], twice[i])
			}
		}
	}
}

func TestGolayPreservesDataField(t *testing.T) {
	word := golayEncodeWord(0x0AB)
	if golayWordData(word) != 0x0AB {
		t.Fatalf("data field corrupted: got %#x want %#x", golayWordData(word), 0x0AB)
	}
}
