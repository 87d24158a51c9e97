package videocrypt

// Hamming-8/4 encode table, ordered by the 4-bit nibble value. Verbatim
// from original_source/src/videocrypt.c's _hamming table.
var hammingTable = [16]byte{
	0x15, 0x02, 0x49, 0x5E, 0x64, 0x73, 0x38, 0x2F,
	0xD0, 0xC7, 0x8C, 0x9B, 0xA1, 0xB6, 0xFD, 0xEA,
}

// sequence/sequence2 are the packet-header byte sequences cycled across
// the 8-frame (VC1) / 8-step (VC2) message cadence.
var sequence = [8]byte{0x87, 0x96, 0xA5, 0xB4, 0xC3, 0xD2, 0xE1, 0x87}
var sequence2 = [8]byte{0x80, 0x91, 0xA2, 0xB3, 0xC4, 0xD5, 0xE6, 0xF7}

// Block is one Videocrypt I message/codeword pair: a control mode byte, a
// 64-bit control word, and up to 7 cycled 31-byte message payloads.
type Block struct {
	Mode     byte
	Codeword uint64
	Messages [7][31]byte
}

// Block2 is the Videocrypt II equivalent, with an 8-entry message cycle.
type Block2 struct {
	Mode     byte
	Codeword uint64
	Messages [8][31]byte
}

// FreeAccessBlocks is the single free-access VC1 message, reproduced
// verbatim including the historical zero-fill-on-every-8th-frame quirk
// (the message payload here is all-zero beyond the mode byte, so the
// "bug" manifests automatically — see SPEC_FULL.md Open Question #2).
var FreeAccessBlocks = []Block{
	{Mode: 0x05, Codeword: FreeAccessCW},
}

// FreeAccess2Blocks is the VC2 equivalent.
var FreeAccess2Blocks = []Block2{
	{Mode: 0x9C, Codeword: FreeAccessCW},
}

// reverseByte reverses the bit order of an 8-bit value.
func reverseByte(b byte) byte {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// reverseNibble swaps the two nibbles of a byte.
func reverseNibble(a byte) byte {
	return a>>4 | a<<4
}

// interleave applies the 6-group byte interleave/bit-transpose to a
// 40-byte VBI frame, per _interleave in the reference encoder.
func interleave(frame []byte) {
	offsets := [6]int{0, 6, 12, 20, 26, 32}
	var r [8]byte
	for _, off := range offsets {
		s := frame[off : off+8]
		s[0] = reverseByte(s[0])
		s[7] = reverseByte(s[7])
		for i := 0; i < 8; i++ {
			m := byte(0x80 >> uint(i))
			var v byte
			for j := 0; j < 8; j++ {
				if m&s[j] != 0 {
					v |= 1 << uint(j)
				}
			}
			r[i] = v
		}
		copy(s, r[:])
	}
}

// encodeVBI packs a 16-byte message half plus two header bytes a, b into
// the 40-byte Hamming+interleaved VBI block for one frame, which the
// engine spreads 5 bytes a line over its VBI lines, per _encode_vbi.
func encodeVBI(data [16]byte, a, b byte) [40]byte {
	var vbi [20]byte
	crc := a
	vbi[0] = a
	for x := 0; x < 8; x++ {
		vbi[1+x] = data[x]
		crc += data[x]
	}
	vbi[9] = crc

	crc = b
	vbi[10] = b
	for x := 0; x < 8; x++ {
		vbi[11+x] = data[8+x]
		crc += data[8+x]
	}
	vbi[19] = crc

	var out [40]byte
	for x := 19; x >= 0; x-- {
		out[x*2+1] = hammingTable[vbi[x]&0x0F]
		out[x*2+0] = hammingTable[vbi[x]>>4]
	}

	interleave(out[:])
	return out
}
