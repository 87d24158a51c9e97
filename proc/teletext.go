package proc

import (
	"time"

	"hacktv-go/teletext"
)

// Teletext is the line processor driving the ETS 300 706 service tree
// (or raw-packet passthrough) onto VBI lines 7-22/320-335, 6.9375 Mbit/s
// NRZ framed "55 55 27".
type Teletext struct {
	svc       *teletext.Service
	raw       *teletext.RawPacketReader
	lut       *VBILut
	lines     []int
	packetIdx int
	networkID uint16
	lastUTC   time.Time
}

// NewTeletextFromService builds a teletext processor driven by a parsed
// service tree (non-raw mode).
func NewTeletextFromService(svc *teletext.Service, sampleRate float64) *Teletext {
	return &Teletext{
		svc:   svc,
		lut:   NewVBILut(6_937_500, sampleRate, 50e-9),
		lines: vbiTeletextLines(),
	}
}

// NewTeletextRaw builds a teletext processor in raw-packet passthrough
// mode, bypassing the service tree entirely.
func NewTeletextRaw(raw *teletext.RawPacketReader, sampleRate float64) *Teletext {
	return &Teletext{
		raw:   raw,
		lut:   NewVBILut(6_937_500, sampleRate, 50e-9),
		lines: vbiTeletextLines(),
	}
}

func vbiTeletextLines() []int {
	lines := make([]int, 0, 16+16)
	for l := 7; l <= 22; l++ {
		lines = append(lines, l)
	}
	for l := 320; l <= 335; l++ {
		lines = append(lines, l)
	}
	return lines
}

func (t *Teletext) Name() string { return "teletext" }
func (t *Teletext) NLines() int  { return 1 }

func (t *Teletext) isTeletextLine(line int) bool {
	for _, l := range t.lines {
		if l == line {
			return true
		}
	}
	return false
}

func (t *Teletext) Process(ctx *Context, window []*Line) int {
	line := window[0]
	if !t.isTeletextLine(line.Index) || line.VBIAllocated {
		return 1
	}
	line.VBIAllocated = true

	var packet [45]byte
	now := ctx.Now()

	if t.raw != nil {
		raw, err := t.raw.Next()
		if err != nil {
			return 1
		}
		copy(packet[0:3], teletext.FramingCode[:])
		copy(packet[3:], raw[:])
	} else {
		page := t.svc.Current()
		if page == nil {
			return 1
		}
		switch t.packetIdx % 10 {
		case 0:
			packet = teletext.BuildHeaderPacket(page, now)
		case 1:
			if now.Sub(t.lastUTC) >= time.Second {
				packet = teletext.BuildUTCPacket(now, t.networkID)
				t.lastUTC = now
			} else {
				packet = teletext.BuildHeaderPacket(page, now)
			}
		default:
			packet = teletext.BuildHeaderPacket(page, now)
		}
	}
	t.packetIdx++

	offset := ctx.ActiveStart
	stepsPerBit := t.lut.StepsPerBit()
	bitPos := 0
	for _, b := range packet {
		for i := 7; i >= 0; i-- {
			bit := (b>>uint(i))&1 == 1
			t.lut.Render(line.Samples, offset+bitPos*stepsPerBit, bit, 0, 100)
			bitPos++
		}
	}
	return 1
}
