package proc

// WSS renders the 14-bit widescreen signalling sequence on line 23 (625
// raster) at 833 kbit/s. The bits are rendered NRZ at full (0-100) level;
// there is no run-in or start code and no biphase coding.
type WSS struct {
	lut    *VBILut
	mode   string // "4:3", "16:9", "auto"
	aspect func() float64
}

// NewWSS builds a WSS processor. aspect, when mode is "auto", supplies the
// current source pixel-aspect-ratio so 16:9 is picked once it crosses the
// 14/9 threshold.
func NewWSS(sampleRate float64, mode string, aspect func() float64) *WSS {
	return &WSS{
		lut:    NewVBILut(833_000, sampleRate, 200e-9),
		mode:   mode,
		aspect: aspect,
	}
}

func (w *WSS) Name() string  { return "wss" }
func (w *WSS) NLines() int   { return 1 }

// wssBits returns the 14-bit group-coded WSS payload for the current
// aspect selection. Groups 1 (bits 0-2) and 2 (bits 3-6) carry the aspect
// and subtitling/camera mode; groups 3/4 (bits 7-13) are left at their
// defined-but-unused default (all zero) since no subtitling/camera-mode
// feature exists in this engine.
func (w *WSS) wssBits() [14]bool {
	is169 := w.mode == "16:9"
	if w.mode == "auto" && w.aspect != nil && w.aspect() >= 14.0/9.0 {
		is169 = true
	}
	var bits [14]bool
	if is169 {
		// Group 1: 0b001 (16:9 full format), per ETS 300 294.
		bits[0] = true
	}
	return bits
}

func (w *WSS) Process(ctx *Context, window []*Line) int {
	line := window[0]
	if line.Index != 23 || line.VBIAllocated {
		return 1
	}
	line.VBIAllocated = true

	bits := w.wssBits()
	offset := ctx.ActiveStart
	stepsPerBit := w.lut.StepsPerBit()
	for i, b := range bits {
		w.lut.Render(line.Samples, offset+i*stepsPerBit, b, 0, 100)
	}
	return 1
}
