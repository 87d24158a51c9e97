package proc

// CC608 renders EIA-608 closed captions: two bytes per field on line 21,
// odd parity, with the standard clock-run-in + start bit preamble,
// rendered through the VBI pulse LUT.
type CC608 struct {
	lut   *VBILut
	queue [][2]byte
}

// NewCC608 builds a CC608 processor at the standard 503.5 kbit/s NRZ rate.
func NewCC608(sampleRate float64) *CC608 {
	return &CC608{lut: NewVBILut(503_500, sampleRate, 100e-9)}
}

func (c *CC608) Name() string { return "cc608" }
func (c *CC608) NLines() int  { return 1 }

// Enqueue queues one caption byte pair to be emitted on the next line 21.
func (c *CC608) Enqueue(b0, b1 byte) {
	c.queue = append(c.queue, [2]byte{oddParity(b0), oddParity(b1)})
}

// oddParity sets bit 7 so the byte has odd parity, per EIA-608.
func oddParity(b byte) byte {
	b &= 0x7F
	var ones int
	for i := 0; i < 7; i++ {
		if b&(1<<uint(i)) != 0 {
			ones++
		}
	}
	if ones%2 == 0 {
		b |= 0x80
	}
	return b
}

func (c *CC608) Process(ctx *Context, window []*Line) int {
	line := window[0]
	fieldTwoLine21 := (ctx.LinesPerFrame+1)/2 + 21
	if (line.Index != 21 && line.Index != fieldTwoLine21) || line.VBIAllocated {
		return 1
	}
	line.VBIAllocated = true
	if len(c.queue) == 0 {
		return 1
	}
	pair := c.queue[0]
	c.queue = c.queue[1:]

	offset := int(10.5e-6 * ctx.SampleRate)
	stepsPerBit := c.lut.StepsPerBit()
	pos := 0

	// Clock run-in: 7 cycles of a square wave, then two start bits (0,1).
	for i := 0; i < 14; i++ {
		c.lut.Render(line.Samples, offset+pos*stepsPerBit, i%2 == 0, 0, 100)
		pos++
	}
	c.lut.Render(line.Samples, offset+pos*stepsPerBit, false, 0, 100)
	pos++
	c.lut.Render(line.Samples, offset+pos*stepsPerBit, true, 0, 100)
	pos++

	for _, b := range pair {
		for i := 0; i < 8; i++ {
			bit := (b>>uint(i))&1 == 1
			c.lut.Render(line.Samples, offset+pos*stepsPerBit, bit, 0, 100)
			pos++
		}
	}
	return 1
}
