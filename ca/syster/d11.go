package syster

import "hacktv-go/proc"

const (
	d11FieldOneStart = 23
	d11FieldTwoStart = 335
)

// D11Engine renders Discret-11's intra-line sample-shift scramble: unlike
// Syster's whole-field line shuffle, D11 delays samples within a single
// line by a small number of units selected from a 6-field repeating table,
// per d11_render_line.
type D11Engine struct {
	delay [d11LinesPerField * d11Fields]int

	delayUnit int // samples per delay unit (ng_delay)
	maxDelay  int

	activeStart int
	activeLen   int

	whiteLevel float64
	blackLevel float64

	vbiOffset int
	vbiSeq    int
	blockSeq  uint32
	nextPPUA  int
	cw        uint64
	flags     byte
	vbi       Block
	lut       *proc.VBILut
}

// NewD11 builds a Discret-11 engine. delayUnit is the sample count of one
// delay step (ng_delay in the reference encoder, derived from its fixed
// sub-carrier geometry).
func NewD11(cw uint64, vbiOffset, delayUnit, activeStart, activeLen int, whiteLevel, blackLevel, sampleRate, lineFreqHz float64) *D11Engine {
	return &D11Engine{
		delay:       BuildD11DelayTable(),
		delayUnit:   delayUnit,
		maxDelay:    delayUnit * 2,
		activeStart: activeStart,
		activeLen:   activeLen,
		whiteLevel:  whiteLevel,
		blackLevel:  blackLevel,
		vbiOffset:   vbiOffset,
		nextPPUA:    1000,
		cw:          cw,
		flags:       1 << 5, // scrambled, scrambling type = Discret 11 (bit1 = 0)
		lut:         proc.NewVBILut(284*lineFreqHz, sampleRate, 80e-9),
	}
}

func (e *D11Engine) Name() string { return "d11" }
func (e *D11Engine) NLines() int  { return 1 }

func (e *D11Engine) vbiKeyLine(lineIdx int) (int, bool) {
	lines := [4]int{14 + e.vbiOffset, 15 + e.vbiOffset, 327 + e.vbiOffset, 328 + e.vbiOffset}
	for _, l := range lines {
		if lineIdx == l {
			return l, true
		}
	}
	return 0, false
}

func (e *D11Engine) renderVBI(line *proc.Line) {
	if e.vbiSeq == 0 {
		e.vbi = e.buildVBIBlock(line.Frame)
		e.blockSeq++
	}
	bits := e.vbi[e.vbiSeq]
	stepsPerBit := e.lut.StepsPerBit()
	for i := 0; i < 28*8; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		bit := bits[byteIdx]>>uint(bitIdx)&1 == 1
		e.lut.Render(line.Samples, 45+i*stepsPerBit, bit, 0, 100)
	}
	line.VBIAllocated = true
	e.vbiSeq++
	if e.vbiSeq == 10 {
		e.vbiSeq = 0
	}
}

func (e *D11Engine) buildVBIBlock(frame int) Block {
	var msg1, msg2 [84]byte
	msg1[0] = e.flags
	var cwBytes [8]byte
	for i := range cwBytes {
		cwBytes[i] = byte(e.cw >> (8 * (7 - i)))
	}
	copy(msg1[1:9], cwBytes[:])
	msg1[11] = 0xFF
	for x := 0; x < 11; x++ {
		msg1[11] ^= msg1[x]
	}
	msg2[0] = 0xFE
	msg2[1] = 0x28
	msg2[2] = 0xB1
	if frame > e.nextPPUA {
		msg2[3] = 0x01
		e.nextPPUA = frame + 1000
	}
	return PackVBIBlock(msg1, msg2)
}

// Process implements proc.LineProcessor: applies the per-line delay shift
// across the active video window, per d11_render_line, plus the fixed
// audience-7 sync lines 310/622.
func (e *D11Engine) Process(ctx *proc.Context, window []*proc.Line) int {
	line := window[0]

	if _, ok := e.vbiKeyLine(line.Index); ok {
		e.renderVBI(line)
	}

	f, i, ok := d11FieldIndex(line.Index)
	if ok && i > 0 {
		d11Field := 2*(line.Frame%3) + f
		next := d11Field + 1
		if d11Field == 5 {
			next = 0
		}
		mult := e.delay[next*d11LinesPerField+i]
		delay := mult * e.delayUnit

		original := append([]float64(nil), line.Samples...)
		activeEnd := e.activeStart + e.activeLen
		for x := e.activeStart + e.maxDelay; x < activeEnd+e.maxDelay; x++ {
			d := delay
			if x-e.delayUnit >= activeEnd {
				d = e.maxDelay
			}
			src, dst := x-d, x-e.maxDelay
			if src < 0 || src >= len(original) || dst < 0 || dst >= len(line.Samples) {
				continue
			}
			line.Samples[dst] = original[src]
		}
	}

	if line.Index == 622 {
		for x := e.activeStart; x < e.activeStart+e.activeLen && x < len(line.Samples); x++ {
			line.Samples[x] = e.whiteLevel
		}
	}
	if line.Index == 310 {
		level := e.blackLevel
		if line.Frame%3 == 2 {
			level = e.whiteLevel
		}
		for x := e.activeStart; x < e.activeStart+e.activeLen && x < len(line.Samples); x++ {
			line.Samples[x] = level
		}
	}

	return 1
}

func d11FieldIndex(lineIdx int) (field, i int, ok bool) {
	if lineIdx >= d11FieldOneStart && lineIdx < d11FieldOneStart+d11LinesPerField {
		return 0, lineIdx - d11FieldOneStart, true
	}
	if lineIdx >= d11FieldTwoStart && lineIdx < d11FieldTwoStart+d11LinesPerField {
		return 1, lineIdx - d11FieldTwoStart, true
	}
	return 0, 0, false
}

// BuildD11DelayTable generates the per-line delay-unit sequence for one
// 6-field Discret-11 audience-7 (free-access) cycle, per
// _create_d11_delay_table. The magic starting seed (0x672, "1337
// shifted 177 times") is the reference encoder's own fixed constant.
func BuildD11DelayTable() [d11LinesPerField * d11Fields]int {
	var delay [d11LinesPerField * d11Fields]int
	seed := 0x672
	field := -1

	for line := 0; line < d11LinesPerField*d11Fields; line++ {
		if line%d11LinesPerField == 0 {
			field++
		}

		b10 := (seed >> 10) & 1
		b8 := (seed >> 8) & 1

		idx := ((field / 3) & 1) << 2
		idx |= (seed & 1) << 1
		idx |= b10

		delay[line] = d11LookupTable[idx]

		seed <<= 1
		seed |= b10 ^ b8
		seed &= 0x7FF
	}

	return delay
}
