package video

import (
	"math"
	"sync"
)

// Raster is the single generalised line renderer driving every raster
// family + colour mode combination: one engine parameterised by data
// (RasterFamily) and strategy (ColourMode) rather than a struct per
// standard.
type Raster struct {
	family RasterFamily
	colour ColourMode

	sampleRate float64

	lineSamples       int
	hSyncSamples      int
	vSyncPulseSamples int
	eqPulseSamples    int
	burstStartSamples int
	burstEndSamples   int
	activeStartSamples int
	activeSamples     int

	rawFrameBuffer []byte
	rawFrameMutex  sync.RWMutex

	frameBuffer []float64
	frameMutex  sync.RWMutex

	secamFilterDb *secamFM
	secamFilterDr *secamFM

	frameIndex int
}

// secamFM tracks a running FM phase for one SECAM colour-difference channel.
type secamFM struct {
	phase float64
}

// NewRaster builds a Raster for the given family/colour-mode/sample rate.
func NewRaster(family RasterFamily, colour ColourMode, sampleRate float64) *Raster {
	r := &Raster{family: family, colour: colour, sampleRate: sampleRate}

	lineDuration := 1.0 / (family.FrameRate() * float64(family.LinesPerFrame))
	r.lineSamples = int(lineDuration * sampleRate)
	r.hSyncSamples = int(family.HSyncSeconds * sampleRate)
	r.vSyncPulseSamples = int(family.VSyncPulseSeconds * sampleRate)
	r.eqPulseSamples = int(family.EqPulseSeconds * sampleRate)
	r.burstStartSamples = int(family.BurstStartSeconds * sampleRate)
	r.burstEndSamples = r.burstStartSamples + int(family.BurstLenSeconds*sampleRate)
	r.activeStartSamples = int(family.ActiveStartSeconds * sampleRate)
	r.activeSamples = int(family.ActiveLenSeconds * sampleRate)

	r.rawFrameBuffer = make([]byte, FrameWidth*FrameHeight*3)
	r.frameBuffer = make([]float64, r.lineSamples*family.LinesPerFrame)

	if _, ok := colour.(*SECAMMode); ok {
		r.secamFilterDb = &secamFM{}
		r.secamFilterDr = &secamFM{}
	}

	return r
}

// GenerateFullFrame renders every line of one frame into frameBuffer,
// generalised over RasterFamily+ColourMode.
func (r *Raster) GenerateFullFrame() {
	fsc := r.colour.Subcarrier()
	var phase float64
	var phaseIncrement float64
	if fsc > 0 {
		phaseIncrement = 2.0 * math.Pi * fsc / r.sampleRate
	}

	for line := 1; line <= r.family.LinesPerFrame; line++ {
		lineBuffer := r.generateLumaLine(line)
		vbi := r.isVBI(line)

		if !vbi && !r.colour.IsMono() {
			r.rawFrameMutex.RLock()
			if _, secam := r.colour.(*SECAMMode); secam {
				r.renderSECAMChroma(lineBuffer, line)
			} else {
				for s := 0; s < r.lineSamples; s++ {
					switch {
					case s >= r.burstStartSamples && s < r.burstEndSamples:
						lineBuffer[s] += r.colour.Burst(line, phase, r.family.BurstAmplitude)
					case s >= r.activeStartSamples && s < r.activeStartSamples+r.activeSamples:
						rr, gg, bb := r.samplePixel(line, s)
						lineBuffer[s] += r.colour.Chroma(line, phase, rr, gg, bb, r.family.LevelBlack, r.family.LevelWhite)
					}
					phase += phaseIncrement
				}
			}
			r.rawFrameMutex.RUnlock()
		} else if fsc > 0 {
			phase += phaseIncrement * float64(r.lineSamples)
		}

		offset := (line - 1) * r.lineSamples
		copy(r.frameBuffer[offset:], lineBuffer)
	}
	r.frameIndex++
}

// renderSECAMChroma FM-modulates the per-line colour-difference signal onto
// its rest carrier and adds the result into the active-video window,
// alternating Db/Dr every line.
func (r *Raster) renderSECAMChroma(lineBuffer []float64, line int) {
	secam := r.colour.(*SECAMMode)
	rest := secam.RestFrequency(line)
	filt := r.secamFilterDb
	if line%2 != 0 {
		filt = r.secamFilterDr
	}
	increment := 2.0 * math.Pi * rest / r.sampleRate
	const deviation = 280000.0 * 2 * math.Pi // rad/s per unit colour-difference

	for s := r.activeStartSamples; s < r.activeStartSamples+r.activeSamples && s < len(lineBuffer); s++ {
		rr, gg, bb := r.samplePixel(line, s)
		cd := secam.ColourDifference(line, rr, gg, bb)
		filt.phase += increment + cd*deviation/r.sampleRate
		lineBuffer[s] += r.family.BurstAmplitude * math.Sin(filt.phase)
	}
}

// isVBI reports whether the given 1-based line number falls in the
// vertical-blanking interval for this raster family (both fields).
func (r *Raster) isVBI(line int) bool {
	half := r.family.LinesPerFrame / 2
	activeStart := (r.family.LinesPerFrame - r.family.ActiveLines) / 4
	inField := line
	if line > half {
		inField -= half
	}
	return inField <= activeStart
}

func (r *Raster) samplePixel(currentLine, sampleInLine int) (rr, gg, bb float64) {
	videoLine := r.videoLineFor(currentLine)
	sampleInActiveVideo := sampleInLine - r.activeStartSamples
	pixelX := int(float64(sampleInActiveVideo) / float64(r.activeSamples) * FrameWidth)
	if videoLine < 0 || videoLine >= FrameHeight || pixelX < 0 || pixelX >= FrameWidth {
		return r.family.LevelBlack, r.family.LevelBlack, r.family.LevelBlack
	}
	idx := (videoLine*FrameWidth + pixelX) * 3
	return float64(r.rawFrameBuffer[idx]), float64(r.rawFrameBuffer[idx+1]), float64(r.rawFrameBuffer[idx+2])
}

// videoLineFor maps a raster line number onto a row of the fixed-size
// source frame, interlacing odd/even fields into alternate rows.
func (r *Raster) videoLineFor(currentLine int) int {
	half := r.family.LinesPerFrame / 2
	vbiLines := (r.family.LinesPerFrame - r.family.ActiveLines) / 2

	if currentLine > vbiLines && currentLine <= half {
		line := currentLine - vbiLines - 1
		if r.family.Interlaced {
			return line * 2
		}
		return line
	}
	if currentLine > half+vbiLines && currentLine <= r.family.LinesPerFrame {
		line := currentLine - half - vbiLines - 1
		if r.family.Interlaced {
			return line*2 + 1
		}
		return line
	}
	return -1
}

// generateLumaLine renders sync pulses and, for active lines, the luma
// sample path.
func (r *Raster) generateLumaLine(currentLine int) []float64 {
	buf := make([]float64, r.lineSamples)
	for s := range buf {
		buf[s] = r.family.LevelBlanking
	}

	lineInField := currentLine
	half := r.family.LinesPerFrame / 2
	if currentLine > half {
		lineInField -= half
	}

	vbiLines := (r.family.LinesPerFrame - r.family.ActiveLines) / 2
	eqLines := 3
	vLines := 3

	halfLine := r.lineSamples / 2
	switch {
	case lineInField >= 1 && lineInField <= eqLines,
		lineInField > eqLines+vLines && lineInField <= eqLines*2+vLines:
		for s := 0; s < r.eqPulseSamples && s < halfLine; s++ {
			buf[s] = r.family.LevelSync
			buf[halfLine+s] = r.family.LevelSync
		}
		return buf
	case lineInField > eqLines && lineInField <= eqLines+vLines:
		for s := 0; s < r.vSyncPulseSamples && s < halfLine; s++ {
			buf[s] = r.family.LevelSync
			buf[halfLine+s] = r.family.LevelSync
		}
		return buf
	}

	for s := 0; s < r.hSyncSamples && s < len(buf); s++ {
		buf[s] = r.family.LevelSync
	}

	if !r.isVBI(currentLine) {
		r.rawFrameMutex.RLock()
		for s := 0; s < r.activeSamples && r.activeStartSamples+s < len(buf); s++ {
			y, _, _ := r.lumaAt(currentLine, r.activeStartSamples+s)
			buf[r.activeStartSamples+s] = y
		}
		r.rawFrameMutex.RUnlock()
	}
	_ = vbiLines
	return buf
}

func (r *Raster) lumaAt(currentLine, sampleInLine int) (y, _, _ float64) {
	rr, gg, bb := r.samplePixel(currentLine, sampleInLine)
	yVal := 0.299*rr + 0.587*gg + 0.114*bb
	return r.family.LevelBlack + yVal/255.0*(r.family.LevelWhite-r.family.LevelBlack), 0, 0
}

// IreToAmplitude maps an IRE sample to the baseband amplitude fed to the RF
// backend's output modulator: 100 IRE (white) gives 0.125 and -40 IRE
// (sync tip) gives 1.0.
func (r *Raster) IreToAmplitude(ire float64) float64 {
	return ((ire - 100.0) / -140.0) * (1.0 - 0.125) + 0.125
}

func (r *Raster) FillTestPattern() { FillColorBars(r.rawFrameBuffer) }

func (r *Raster) LockFrame()   { r.frameMutex.Lock() }
func (r *Raster) UnlockFrame() { r.frameMutex.Unlock() }
func (r *Raster) RLockFrame()  { r.frameMutex.RLock() }
func (r *Raster) RUnlockFrame() { r.frameMutex.RUnlock() }

func (r *Raster) LockRaw()   { r.rawFrameMutex.Lock() }
func (r *Raster) UnlockRaw() { r.rawFrameMutex.Unlock() }

func (r *Raster) FrameBuffer() []float64 { return r.frameBuffer }
func (r *Raster) RawFrameBuffer() []byte { return r.rawFrameBuffer }

func (r *Raster) LineSamples() int    { return r.lineSamples }
func (r *Raster) LinesPerFrame() int  { return r.family.LinesPerFrame }

// Family exposes the raster's timing table to processors that need it (VBI
// line placement, active-window geometry).
func (r *Raster) Family() RasterFamily { return r.family }

// ActiveWindow reports the active-video sample range within one line.
func (r *Raster) ActiveWindow() (start, length int) {
	return r.activeStartSamples, r.activeSamples
}

var _ Standard = (*Raster)(nil)
