// Package syster implements Nagravision Syster's 287-line field-shuffle
// scrambler, its Discret-11 delay-line sibling, and the shared VBI
// activation-data packet format.
package syster

// KeyTable1 is the standard Syster substitution table.
var KeyTable1 = [256]byte{
	10, 11, 12, 13, 16, 17, 18, 19, 13, 14, 15, 16, 0, 1, 2, 3,
	21, 22, 23, 24, 18, 19, 20, 21, 23, 24, 25, 26, 26, 27, 28, 29,
	19, 20, 21, 22, 11, 12, 13, 14, 28, 29, 30, 31, 4, 5, 6, 7,
	22, 23, 24, 25, 5, 6, 7, 8, 31, 0, 1, 2, 27, 28, 29, 30,
	3, 4, 5, 6, 8, 9, 10, 11, 14, 15, 16, 17, 25, 26, 27, 28,
	15, 16, 17, 18, 7, 8, 9, 10, 17, 18, 19, 20, 29, 30, 31, 0,
	24, 25, 26, 27, 20, 21, 22, 23, 1, 2, 3, 4, 6, 7, 8, 9,
	12, 13, 14, 15, 9, 10, 11, 12, 2, 3, 4, 5, 30, 31, 0, 1,
	24, 25, 26, 27, 2, 3, 4, 5, 31, 0, 1, 2, 7, 8, 9, 10,
	13, 14, 15, 16, 26, 27, 28, 29, 14, 15, 16, 17, 18, 19, 20, 21,
	22, 23, 24, 25, 5, 6, 7, 8, 19, 20, 21, 22, 12, 13, 14, 15,
	17, 18, 19, 20, 27, 28, 29, 30, 10, 11, 12, 13, 11, 12, 13, 14,
	6, 7, 8, 9, 1, 2, 3, 4, 0, 1, 2, 3, 4, 5, 6, 7,
	3, 4, 5, 6, 8, 9, 10, 11, 15, 16, 17, 18, 23, 24, 25, 26,
	29, 30, 31, 0, 25, 26, 27, 28, 9, 10, 11, 12, 21, 22, 23, 24,
	20, 21, 22, 23, 30, 31, 0, 1, 16, 17, 18, 19, 28, 29, 30, 31,
}

// KeyTable2 is the Canal+ FR (Oct 1997) substitution table.
var KeyTable2 = [256]byte{
	10, 11, 12, 13, 16, 17, 18, 19, 12, 15, 14, 17, 0, 1, 2, 3,
	20, 23, 22, 25, 18, 19, 20, 21, 22, 25, 24, 27, 26, 27, 28, 29,
	18, 21, 20, 23, 10, 13, 12, 15, 28, 29, 30, 31, 4, 5, 6, 7,
	22, 23, 24, 25, 4, 7, 6, 9, 30, 1, 0, 3, 26, 29, 28, 31,
	2, 5, 4, 7, 8, 9, 10, 11, 14, 15, 16, 17, 24, 27, 26, 29,
	14, 17, 16, 19, 6, 9, 8, 11, 16, 19, 18, 21, 28, 31, 30, 1,
	24, 25, 26, 27, 20, 21, 22, 23, 0, 3, 2, 5, 6, 7, 8, 9,
	12, 13, 14, 15, 8, 11, 10, 13, 2, 3, 4, 5, 30, 31, 0, 1,
	24, 25, 26, 27, 2, 3, 4, 5, 30, 1, 0, 3, 6, 9, 8, 11,
	12, 15, 14, 17, 26, 27, 28, 29, 14, 15, 16, 17, 18, 19, 20, 21,
	22, 23, 24, 25, 4, 7, 6, 9, 18, 21, 20, 23, 12, 13, 14, 15,
	16, 19, 18, 21, 26, 29, 28, 31, 10, 11, 12, 13, 10, 13, 12, 15,
	6, 7, 8, 9, 0, 3, 2, 5, 0, 1, 2, 3, 4, 5, 6, 7,
	2, 5, 4, 7, 8, 9, 10, 11, 14, 17, 16, 19, 22, 25, 24, 27,
	28, 31, 30, 1, 24, 27, 26, 29, 8, 11, 10, 13, 20, 23, 22, 25,
	20, 21, 22, 23, 30, 31, 0, 1, 16, 17, 18, 19, 28, 29, 30, 31,
}

// vbiSequence is the per-line Hamming sync-sequence code identifying which
// of the 10 parts of a VBI block is on the wire.
var vbiSequence = [10]byte{
	0x73, 0x9B, 0x5E, 0xB6, 0x49, 0xA1, 0x02, 0xEA, 0x15, 0xFD,
}

// d11LookupTable maps the 3-bit D11 delay index to a delay-unit count
// (0, 1 or 2 units of the base D11 sample delay).
var d11LookupTable = [8]int{0x00, 0x01, 0x02, 0x02, 0x02, 0x00, 0x00, 0x01}

const (
	d11LinesPerField = 286
	d11Fields        = 6
)

// crc16 computes the Syster VBI CRC: poly 0xC003, LSB-first, zero initial
// value, over length bytes starting at data[0].
func crc16(data []byte) uint16 {
	var crc uint16
	const poly = 0xC003
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ poly
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
