package videocrypt

import (
	"hacktv-go/proc"
)

// Videocrypt geometry, used to place the VBI and scrambled-line windows
// relative to the raster's own active window (which is expressed in
// whatever sample rate the engine runs at, not Videocrypt's fixed 14 MHz
// reference).
const (
	vcWidth = 896 // 14_000_000 / 25 / 625, rounded

	vbiFieldOneStart   = 12
	vbiFieldTwoStart   = 325
	vbiLinesPerField   = 4
	vbiBytesPerLine    = 5

	vc2FieldOneStart = 12 // VC2 shares the same VBI line placement in hacktv

	fieldOneStart   = 24
	fieldTwoStart   = 336
	linesPerField   = 287

	vcLeft    = 120
	vcOverlap = 15
	vcActiveW = 710
)

// Mode selects which Videocrypt variant the engine activates.
type Mode int

const (
	ModeNone Mode = iota
	ModeVC1
	ModeVC2
)

// Engine scrambles the active picture and injects the VBI activation
// data for one Videocrypt I or II channel.
type Engine struct {
	mode Mode

	blocks  []Block
	block2s []Block2
	block   int

	counter uint8
	cw      uint64
	message [32]byte

	vbi1 [vbiLinesPerField * 2][40]byte
	vbi2 [vbiLinesPerField * 2][40]byte

	prbs PRBS

	lut          *proc.VBILut
	sampleRate   float64
	activeStart  int
	activeLen    int

	showECM bool
}

// NewVC1 builds a Videocrypt I engine in the given mode ("free" is the
// only mode with a verified-correct message table; other provider names
// route to a structurally-equivalent but not cryptographically faithful
// placeholder block, since per-provider key derivation depends on
// proprietary smartcard secrets not reproduced here -- see DESIGN.md).
func NewVC1(providerMode string, sampleRate float64, activeStart, activeLen int, showECM bool) *Engine {
	e := &Engine{
		mode:        ModeVC1,
		cw:          FreeAccessCW,
		sampleRate:  sampleRate,
		activeStart: activeStart,
		activeLen:   activeLen,
		showECM:     showECM,
		lut:         proc.NewVBILut(14_000_000.0/18, sampleRate, 375e-9),
	}
	switch providerMode {
	case "", "free":
		e.blocks = FreeAccessBlocks
	default:
		e.blocks = []Block{{Mode: 0x07, Codeword: FreeAccessCW}}
	}
	return e
}

// NewVC2 builds a Videocrypt II engine.
func NewVC2(providerMode string, sampleRate float64, activeStart, activeLen int, showECM bool) *Engine {
	e := &Engine{
		mode:        ModeVC2,
		cw:          FreeAccessCW,
		sampleRate:  sampleRate,
		activeStart: activeStart,
		activeLen:   activeLen,
		showECM:     showECM,
		lut:         proc.NewVBILut(14_000_000.0/18, sampleRate, 375e-9),
	}
	e.block2s = FreeAccess2Blocks
	return e
}

func (e *Engine) Name() string { return "videocrypt" }
func (e *Engine) NLines() int  { return 1 }

// videoScale maps a Videocrypt-space pixel coordinate (0..vcWidth-1) onto
// a sample offset in the raster's own active window. Proportional scaling
// across the active window is sufficient to preserve the cut-point
// ratios, without requiring a full per-family hsync geometry table.
func (e *Engine) videoScale(x int) int {
	return e.activeStart + x*e.activeLen/vcWidth
}

// Process implements proc.LineProcessor: VBI injection on lines 1-consumed
// header update, then line cut-and-rotate scrambling across the active
// field lines.
func (e *Engine) Process(ctx *proc.Context, window []*proc.Line) int {
	line := window[0]

	if line.Index == 1 {
		e.updateHeader()
	}

	if bline, ok := e.vbiLine(line.Index); ok {
		offset := ctx.ActiveStart
		stepsPerBit := e.lut.StepsPerBit()
		for i := 0; i < 40; i++ {
			byteIdx := i / 8
			bitIdx := 7 - i%8
			bit := bline[byteIdx]>>uint(bitIdx)&1 == 1
			e.lut.Render(line.Samples, offset+i*stepsPerBit, bit, 0, 100)
		}
		line.VBIAllocated = true
	}

	if e.isScrambledLine(line.Index) {
		e.scrambleLine(line)
		if line.Index == fieldTwoStart-1 {
			line.VBIAllocated = true
		}
	}

	return 1
}

func (e *Engine) isScrambledLine(lineIdx int) bool {
	return (lineIdx >= fieldOneStart && lineIdx < fieldOneStart+linesPerField) ||
		(lineIdx >= fieldTwoStart && lineIdx < fieldTwoStart+linesPerField)
}

func (e *Engine) vbiLine(lineIdx int) ([]byte, bool) {
	n := -1
	block := &e.vbi1[0]
	switch {
	case e.mode == ModeVC1 && lineIdx >= vbiFieldOneStart && lineIdx < vbiFieldOneStart+vbiLinesPerField:
		n = lineIdx - vbiFieldOneStart
	case e.mode == ModeVC1 && lineIdx >= vbiFieldTwoStart && lineIdx < vbiFieldTwoStart+vbiLinesPerField:
		n = lineIdx - vbiFieldTwoStart + vbiLinesPerField
	case e.mode == ModeVC2 && lineIdx >= vc2FieldOneStart && lineIdx < vc2FieldOneStart+vbiLinesPerField:
		n, block = lineIdx-vc2FieldOneStart, &e.vbi2[0]
	}
	if n < 0 {
		return nil, false
	}
	return block[n*vbiBytesPerLine : (n+1)*vbiBytesPerLine], true
}

// updateHeader rebuilds the VBI message/codeword state once per frame and
// reseeds the scrambling PRBS.
func (e *Engine) updateHeader() {
	if e.mode == ModeVC1 && len(e.blocks) > 0 {
		if e.counter&7 == 0 {
			blk := e.blocks[e.block]
			cycle := (int(e.counter>>3) & 7) % 7
			var crc byte
			for x := 0; x < 31; x++ {
				e.message[x] = blk.Messages[cycle][x]
				crc += e.message[x]
			}
			e.message[31] = ^crc + 1
		}

		if e.counter&4 == 0 {
			var half [16]byte
			copy(half[:], e.message[:16])
			e.vbi1[0] = encodeVBI(half, sequence[(e.counter>>4)&7], e.counter&0xFF)
		} else {
			var half [16]byte
			copy(half[:], e.message[16:32])
			e.vbi1[0] = encodeVBI(half, reverseNibble(sequence[(e.counter>>4)&7]), e.blocks[e.block].Mode)
		}
	}

	if e.mode == ModeVC2 && len(e.block2s) > 0 {
		blk := e.block2s[e.block]
		if e.counter&1 == 0 {
			cycle := int(e.counter>>1) & 7
			var crc byte
			for x := 0; x < 31; x++ {
				e.message[x] = blk.Messages[cycle][x]
				crc += e.message[x]
			}
			e.message[31] = ^crc + 1

			var half [16]byte
			copy(half[:], e.message[:16])
			e.vbi2[0] = encodeVBI(half, sequence2[(e.counter>>1)&7], e.counter&0xFF)
		} else {
			var half [16]byte
			copy(half[:], e.message[16:32])
			mode := blk.Mode
			if e.counter&0x08 != 0 {
				mode = 0
			}
			e.vbi2[0] = encodeVBI(half, reverseNibble(sequence2[(e.counter>>1)&7]), mode)
		}
	}

	e.prbs.Reset(e.cw, e.counter)
	e.counter++

	if e.mode == ModeVC1 && e.counter&0x3F == 0 {
		if len(e.blocks) > 0 {
			e.cw = e.blocks[e.block].Codeword
			e.block = (e.block + 1) % len(e.blocks)
		}
	}
	if e.mode == ModeVC2 && e.counter&0x0F == 0 {
		if len(e.block2s) > 0 {
			e.cw = e.block2s[e.block].Codeword
			e.block = (e.block + 1) % len(e.block2s)
		}
	}
}

// scrambleLine performs the cut-and-rotate transform: the line's original
// samples (snapshotted before mutation) are split at a PRBS-derived cut
// point and the two halves are exchanged, with an overlap window carrying
// across the boundary.
func (e *Engine) scrambleLine(line *proc.Line) {
	x := e.prbs.NextByte()
	cut := CutPoint(x)
	lshift := vcActiveW - cut

	original := make([]float64, len(line.Samples))
	copy(original, line.Samples)

	readAt := func(vcX int) float64 {
		idx := e.videoScale(vcX)
		if idx < 0 || idx >= len(original) {
			return 0
		}
		return original[idx]
	}
	writeAt := func(vcX int, v float64) {
		idx := e.videoScale(vcX)
		if idx < 0 || idx >= len(line.Samples) {
			return
		}
		line.Samples[idx] = v
	}

	y := vcLeft + lshift
	vx := vcLeft
	for ; vx < vcLeft+cut; vx, y = vx+1, y+1 {
		writeAt(vx, readAt(y))
	}
	y = vcLeft
	for ; vx < vcLeft+vcActiveW+vcOverlap; vx, y = vx+1, y+1 {
		writeAt(vx, readAt(y))
	}
}
