package audio

import "hacktv-go/dsp"

// NICAMAudioLen is the number of PCM samples buffered per channel per
// frame before a 728-bit NICAM frame is emitted.
const NICAMAudioLen = 32

// NICAMEncoder implements the NICAM-728 digital stereo subcarrier: 32
// buffered PCM samples per channel per frame, near-instantaneous
// companding to 10 bits + parity, a frame-reset scrambler, and
// differential-QPSK shaping onto the subcarrier via a complex bandpass
// filter.
type NICAMEncoder struct {
	left, right [NICAMAudioLen]int16
	fill        int
	frameToggle bool

	shaper *dsp.ComplexBandpassFIR
	nco    *dsp.NCO

	diPhase int // differential QPSK running phase index, 0-3
}

// NewNICAMEncoder builds a NICAM-728 encoder at the given subcarrier
// frequency (typically +6.552 MHz for PAL-I).
func NewNICAMEncoder(subcarrierHz, sampleRate float64) *NICAMEncoder {
	return &NICAMEncoder{
		shaper: dsp.NewComplexBandpassFIR(33, subcarrierHz, 728_000, sampleRate),
		nco:    dsp.NewNCO(subcarrierHz, sampleRate, 1<<14),
	}
}

// Push buffers one stereo PCM sample; returns a completed 728-bit frame
// (as 91 bytes) once NICAMAudioLen samples have accumulated, else nil.
func (n *NICAMEncoder) Push(left, right int16) []byte {
	n.left[n.fill] = left
	n.right[n.fill] = right
	n.fill++
	if n.fill < NICAMAudioLen {
		return nil
	}
	n.fill = 0
	frame := n.buildFrame()
	n.frameToggle = !n.frameToggle
	return frame
}

// companding maps a 14-bit linear sample to NICAM's near-instantaneous
// companded 10-bit form plus an 11th (odd) parity bit, returned as the low
// 11 bits of the result.
func companding(sample int16) uint16 {
	// Near-instantaneous companding: take the top 10 bits of the 14-bit
	// (sign+13) sample, matching NICAM's coarse quantisation.
	v := uint16(sample) >> 4 & 0x3FF
	var ones int
	for i := 0; i < 10; i++ {
		if v&(1<<uint(i)) != 0 {
			ones++
		}
	}
	parity := uint16(0)
	if ones%2 == 0 {
		parity = 1
	}
	return v | (parity << 10)
}

// buildFrame packs the header (FAW, control, additional-data bytes),
// companded/parity-coded audio, and scrambles the payload with a 9-bit
// LFSR reset each frame.
func (n *NICAMEncoder) buildFrame() []byte {
	var bits []bool

	faw := byte(0x31)
	if n.frameToggle {
		faw = 0xCE
	}
	appendByteBits(&bits, faw)
	appendByteBits(&bits, 0x00) // control byte (mode 0: stereo, no companding extension)
	appendByteBits(&bits, 0x00) // additional data byte

	payloadStart := len(bits)
	for i := 0; i < NICAMAudioLen; i++ {
		appendBits(&bits, companding(n.left[i]), 11)
	}
	for i := 0; i < NICAMAudioLen; i++ {
		appendBits(&bits, companding(n.right[i]), 11)
	}

	scrambled := scramblePayload(bits[payloadStart:])
	copy(bits[payloadStart:], scrambled)

	return packBits(bits)
}

func appendByteBits(bits *[]bool, b byte) {
	for i := 7; i >= 0; i-- {
		*bits = append(*bits, (b>>uint(i))&1 == 1)
	}
}

func appendBits(bits *[]bool, v uint16, n int) {
	for i := n - 1; i >= 0; i-- {
		*bits = append(*bits, (v>>uint(i))&1 == 1)
	}
}

func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// scramblePayload XORs payload with a 9-bit LFSR sequence (poly x^9+x^4+1)
// reset to all-ones at the start of every frame, matching NICAM's
// frame-synchronous energy-dispersal scrambler.
func scramblePayload(bits []bool) []bool {
	out := make([]bool, len(bits))
	reg := uint16(0x1FF)
	for i, b := range bits {
		fb := ((reg >> 8) ^ (reg >> 3)) & 1
		out[i] = b != (fb == 1)
		reg = ((reg << 1) | fb) & 0x1FF
	}
	return out
}

// DescrambleForTest reverses scramblePayload; exported for testing the
// round-trip property (scrambler XOR yields the unscrambled payload).
func DescrambleForTest(bits []bool) []bool {
	return scramblePayload(bits) // XOR scrambler is its own inverse
}

// Modulate runs one differentially-QPSK-coded 2-bit symbol through the
// complex bandpass shaper onto the subcarrier.
func (n *NICAMEncoder) Modulate(dibit byte) complex128 {
	n.diPhase = (n.diPhase + int(dibit&3)) % 4
	var iq complex128
	switch n.diPhase {
	case 0:
		iq = complex(1, 0)
	case 1:
		iq = complex(0, 1)
	case 2:
		iq = complex(-1, 0)
	case 3:
		iq = complex(0, -1)
	}
	return n.shaper.Filter(n.nco.MixAM(1) * iq)
}
