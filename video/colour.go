package video

import "math"

// ColourMode converts a source pixel into the chroma contribution added to
// the real sample lane, and reports the subcarrier behaviour for a given
// line. PAL/NTSC/SECAM/mono each implement this; the raster loop in
// Raster.GenerateFullFrame is shared across all four rather than
// duplicated per standard.
type ColourMode interface {
	// Subcarrier returns the colour subcarrier frequency in Hz (0 for mono).
	Subcarrier() float64

	// Chroma returns the value added into the active-video sample at the
	// given subcarrier phase (radians), given the pixel's R,G,B (0-255).
	Chroma(line int, phase float64, r, g, b, levelBlack, levelWhite float64) float64

	// Burst returns the colour-burst sample for the given line/phase, or 0
	// outside the burst window / for mono.
	Burst(line int, phase float64, amplitude float64) float64

	// IsMono reports whether this mode skips chroma/burst entirely.
	IsMono() bool
}

// MonoMode is plain black-and-white: no subcarrier, no burst.
type MonoMode struct{}

func (MonoMode) Subcarrier() float64 { return 0 }
func (MonoMode) Chroma(int, float64, float64, float64, float64, float64, float64) float64 {
	return 0
}
func (MonoMode) Burst(int, float64, float64) float64 { return 0 }
func (MonoMode) IsMono() bool                        { return true }

// PALMode is PAL-D colour: U/V quadrature modulation with the V component
// sign-switched every other line, and burst phase alternating ±135°.
type PALMode struct {
	fsc     float64
	vToggle float64
}

// NewPALMode builds a PAL colour mode at the standard 4433618.75 Hz PAL-D
// subcarrier.
func NewPALMode() *PALMode {
	return &PALMode{fsc: 4433618.75, vToggle: 1}
}

func (p *PALMode) Subcarrier() float64 { return p.fsc }

func (p *PALMode) Chroma(line int, phase float64, r, g, b, levelBlack, levelWhite float64) float64 {
	uVal := -0.147*r - 0.289*g + 0.436*b
	vVal := 0.615*r - 0.515*g - 0.100*b
	u := uVal / 255.0 * (levelWhite - levelBlack) * 0.493
	v := vVal / 255.0 * (levelWhite - levelBlack) * 0.877
	vToggle := 1.0
	if line%2 == 0 {
		vToggle = -1.0
	}
	return u*math.Sin(phase) + (v*vToggle)*math.Cos(phase)
}

func (p *PALMode) Burst(line int, phase float64, amplitude float64) float64 {
	offset := 135.0 * math.Pi / 180.0
	if line%2 == 0 {
		offset = -offset
	}
	return amplitude * math.Sin(phase+offset)
}

func (p *PALMode) IsMono() bool { return false }

// NTSCMode is NTSC colour: I/Q quadrature modulation, fixed 180° burst
// phase.
type NTSCMode struct {
	fsc float64
}

// NewNTSCMode builds an NTSC colour mode at the standard 3.579545...MHz
// subcarrier.
func NewNTSCMode() *NTSCMode {
	return &NTSCMode{fsc: 3579545.4545}
}

func (n *NTSCMode) Subcarrier() float64 { return n.fsc }

func (n *NTSCMode) Chroma(line int, phase float64, r, g, b, levelBlack, levelWhite float64) float64 {
	iVal := 0.596*r - 0.274*g - 0.322*b
	qVal := 0.211*r - 0.523*g + 0.312*b
	i := iVal / 255.0 * (levelWhite - levelBlack)
	q := qVal / 255.0 * (levelWhite - levelBlack)
	return i*math.Cos(phase) + q*math.Sin(phase)
}

func (n *NTSCMode) Burst(line int, phase float64, amplitude float64) float64 {
	return amplitude * math.Sin(phase+math.Pi)
}

func (n *NTSCMode) IsMono() bool { return false }

// SECAMMode alternates Db/Dr per line, each FM-modulated at a distinct rest
// carrier (4.250000 MHz for Db, 4.406250 MHz for Dr). No bell-filter
// pre-emphasis is applied.
type SECAMMode struct {
	fDb, fDr float64
	phaseDb  float64
	phaseDr  float64
}

// NewSECAMMode builds a SECAM colour mode at the standard Db/Dr rest
// frequencies.
func NewSECAMMode() *SECAMMode {
	return &SECAMMode{fDb: 4250000.0, fDr: 4406250.0}
}

// Subcarrier returns the Db rest frequency; SECAM's true per-line carrier
// alternates and is computed by RestFrequency below, which the raster loop calls
// directly rather than going through the shared Chroma/Burst contract (FM,
// not quadrature AM, so the interface is intentionally narrower here).
func (s *SECAMMode) Subcarrier() float64 { return s.fDb }

func (s *SECAMMode) Chroma(line int, phase float64, r, g, b, levelBlack, levelWhite float64) float64 {
	// SECAM modulates one colour difference signal per line via FM; a true
	// implementation integrates frequency deviation rather than adding a
	// quadrature term. See RestFrequency/ColourDifference below, used
	// directly by Raster for SECAM lines instead of this AM-shaped path.
	return 0
}

func (s *SECAMMode) Burst(line int, phase float64, amplitude float64) float64 { return 0 }
func (s *SECAMMode) IsMono() bool                                             { return false }

// RestFrequency returns the SECAM rest carrier for the given line (Db on
// even lines, Dr on odd, alternating every line).
func (s *SECAMMode) RestFrequency(line int) float64 {
	if line%2 == 0 {
		return s.fDb
	}
	return s.fDr
}

// ColourDifference computes the unitless Db or Dr colour-difference sample
// for the given line/pixel; the raster scales it by its FM deviation.
func (s *SECAMMode) ColourDifference(line int, r, g, b float64) float64 {
	db := -1.505*(b/255.0) + 0.5 // placeholder linear mapping around mid-grey
	dr := 1.902 * (r / 255.0)
	if line%2 == 0 {
		return db
	}
	return dr
}
