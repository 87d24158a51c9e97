package syster

import "hacktv-go/proc"

const (
	fieldOneStart   = 23
	fieldTwoStart   = 336
	linesPerField   = 287
	decoderDelayLines = 32
)

// Engine scrambles one Syster video channel by shuffling
// each field's 287 active lines according to a PRBS-reseeded permutation,
// reproducing the real decoder's 32-line buffering delay.
//
// This engine keeps two complete field buffers (the field currently
// being captured, and the previously captured field being read out
// permuted) rather than a long multi-line delay chain threaded through
// the raster pipeline; the two are behaviourally equivalent for the
// single-channel case this engine serves, and the buffer pair is much
// simpler to express against the proc.Window's short sliding history.
type Engine struct {
	table *[256]byte

	prbs PRBS
	cw   uint64
	s, r uint8
	order [linesPerField]int

	fieldBuf    [2][linesPerField][]float64
	activeField int

	lineSamples int
	activeStart int
	activeLen   int

	flags     byte
	vbiOffset int
	vbiSeq    int
	blockSeq  uint32
	nextPPUA  int
	vbi       Block
	lut       *proc.VBILut
}

// New builds a Syster field-shuffle engine. useTable2 selects KeyTable2
// (Canal+ FR) over the default KeyTable1. vbiOffset shifts the VBI key
// lines per provider (0 for Premiere DE's 14/15/327/328). sampleRate and
// lineFreqHz size the VBI bit-edge LUT (284*fH NRZ).
func New(cw uint64, useTable2 bool, vbiOffset int, lineSamples, activeStart, activeLen int, sampleRate, lineFreqHz float64) *Engine {
	e := &Engine{
		cw:          cw,
		lineSamples: lineSamples,
		activeStart: activeStart,
		activeLen:   activeLen,
		vbiOffset:   vbiOffset,
		nextPPUA:    1000,
		flags:       1<<5 | 1<<1, // scrambled, scrambling type = Syster
		lut:         proc.NewVBILut(284*lineFreqHz, sampleRate, 80e-9),
	}
	if useTable2 {
		e.table = &KeyTable2
		e.flags |= 1 << 3
	} else {
		e.table = &KeyTable1
	}
	for f := range e.fieldBuf {
		for i := range e.fieldBuf[f] {
			e.fieldBuf[f][i] = make([]float64, lineSamples)
		}
	}
	e.order = FieldOrder(e.table, 0, 0)
	return e
}

func (e *Engine) Name() string { return "syster" }
func (e *Engine) NLines() int  { return 1 }

// vbiKeyLine reports whether lineIdx is one of the four VBI key lines
// (14/15/327/328 + a per-provider offset covering the French/Premiere/
// Polish Canal+ variants).
func (e *Engine) vbiKeyLine(lineIdx int) (int, bool) {
	lines := [4]int{14 + e.vbiOffset, 15 + e.vbiOffset, 327 + e.vbiOffset, 328 + e.vbiOffset}
	for _, l := range lines {
		if lineIdx == l {
			return l, true
		}
	}
	return 0, false
}

// renderVBI rebuilds the 10-line activation block at the start of each
// cycle and renders the next line of it.
func (e *Engine) renderVBI(line *proc.Line, _ int) {
	if e.vbiSeq == 0 {
		e.vbi = e.buildVBIBlock(line.Frame)
		e.blockSeq++
	}

	bits := e.vbi[e.vbiSeq]
	stepsPerBit := e.lut.StepsPerBit()
	for i := 0; i < 28*8; i++ {
		byteIdx := i / 8
		bitIdx := i % 8 // LSB-first, per VBIDATA_LSB_FIRST
		bit := bits[byteIdx]>>uint(bitIdx)&1 == 1
		e.lut.Render(line.Samples, 45+i*stepsPerBit, bit, 0, 100)
	}
	line.VBIAllocated = true

	e.vbiSeq++
	if e.vbiSeq == 10 {
		e.vbiSeq = 0
	}
}

// buildVBIBlock assembles the two 84-byte control messages (decoder
// parameters, ECM control-word field and a 72-byte EMM slot each) and
// packs them into the 10-line block. EMM contents are a fixed dummy
// filler since no real smartcard EMM queue exists here.
func (e *Engine) buildVBIBlock(frame int) Block {
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
	msg2[1] = 0x28 | (e.flags>>2)&1
	msg2[2] = 0xB1

	if frame > e.nextPPUA {
		msg2[3] = 0x01
		e.nextPPUA = frame + 1000
	}

	return PackVBIBlock(msg1, msg2)
}

// fieldIndex returns the field number (1 or 2) and the 0-based line
// index within that field, or ok=false if the line is outside both
// fields.
func fieldIndex(lineIdx int) (field, i int, ok bool) {
	if lineIdx >= fieldOneStart && lineIdx < fieldOneStart+linesPerField {
		return 1, lineIdx - fieldOneStart, true
	}
	if lineIdx >= fieldTwoStart && lineIdx < fieldTwoStart+linesPerField {
		return 2, lineIdx - fieldTwoStart, true
	}
	return 0, 0, false
}

// Process implements proc.LineProcessor: captures the incoming line into
// the active field buffer, reseeds/permutes at the start of each field,
// and overwrites the active-video window with the permuted, delay-shifted
// source line.
func (e *Engine) Process(ctx *proc.Context, window []*proc.Line) int {
	line := window[0]

	if vbiLine, ok := e.vbiKeyLine(line.Index); ok {
		e.renderVBI(line, vbiLine)
	}

	field, i, ok := fieldIndex(line.Index)
	if !ok {
		return 1
	}

	capture := e.fieldBuf[e.activeField][i]
	copy(capture, line.Samples)

	delayed := i + decoderDelayLines
	readField := e.activeField
	if delayed >= linesPerField {
		delayed -= linesPerField
		readField = 1 - e.activeField
	}

	if delayed == 0 {
		sf := line.Frame % 50
		if (sf == 6 || sf == 31) && field == 1 {
			e.prbs.Reset(e.cw)
		}
		e.s, e.r = e.prbs.Update()
		e.order = FieldOrder(e.table, e.s, e.r)
	}

	src := e.order[delayed]
	source := e.fieldBuf[readField][src]

	for s := e.activeStart; s < e.activeStart+e.activeLen && s < len(line.Samples); s++ {
		if s < len(source) {
			line.Samples[s] = source[s]
		}
	}

	if i == linesPerField-1 {
		e.activeField = 1 - e.activeField
	}

	return 1
}
