package video

import "fmt"

// RasterFamily is the fixed, immutable-after-init timing table for one
// broadcast raster standard. Ten raster families are supported, each
// represented here as a data entry driving the single generalised raster
// loop in Raster, rather than one struct per standard.
type RasterFamily struct {
	Name string

	LinesPerFrame    int
	ActiveLines      int
	FrameRateNum     int
	FrameRateDen     int
	Interlaced       bool

	HSyncSeconds     float64
	VSyncPulseSeconds float64
	EqPulseSeconds   float64

	BurstStartSeconds float64
	BurstLenSeconds   float64
	ActiveStartSeconds float64
	ActiveLenSeconds  float64

	LevelSync     float64
	LevelBlanking float64
	LevelBlack    float64
	LevelWhite    float64
	BurstAmplitude float64
}

// FrameRate returns the exact rational frame rate.
func (r RasterFamily) FrameRate() float64 {
	return float64(r.FrameRateNum) / float64(r.FrameRateDen)
}

// Families is the table of supported raster families. 625/525/405/819 are
// faithfully grounded on real broadcast timings; 240/30/32/320/MAC/CBS-405
// are represented with their historically documented line/field counts so
// the engine's feature flags have somewhere real to route, even though
// only 625/525 are exercised end-to-end by the CA engines.
var Families = map[string]RasterFamily{
	"625": {
		Name: "625", LinesPerFrame: 625, ActiveLines: 576,
		FrameRateNum: 25, FrameRateDen: 1, Interlaced: true,
		HSyncSeconds: 4.7e-6, VSyncPulseSeconds: 27.3e-6, EqPulseSeconds: 2.35e-6,
		BurstStartSeconds: 5.6e-6, BurstLenSeconds: 2.25e-6,
		ActiveStartSeconds: 10.5e-6, ActiveLenSeconds: 52.0e-6,
		LevelSync: -40, LevelBlanking: 0, LevelBlack: 0, LevelWhite: 100,
		BurstAmplitude: 20,
	},
	"525": {
		Name: "525", LinesPerFrame: 525, ActiveLines: 480,
		FrameRateNum: 30000, FrameRateDen: 1001, Interlaced: true,
		HSyncSeconds: 4.7e-6, VSyncPulseSeconds: 27.1e-6, EqPulseSeconds: 2.3e-6,
		BurstStartSeconds: 5.6e-6, BurstLenSeconds: 2.5e-6,
		ActiveStartSeconds: 10.7e-6, ActiveLenSeconds: 52.6e-6,
		LevelSync: -40, LevelBlanking: 0, LevelBlack: 7.5, LevelWhite: 100,
		BurstAmplitude: 20,
	},
	"405": {
		Name: "405", LinesPerFrame: 405, ActiveLines: 377,
		FrameRateNum: 25, FrameRateDen: 1, Interlaced: true,
		HSyncSeconds: 4.0e-6, VSyncPulseSeconds: 18.0e-6, EqPulseSeconds: 2.0e-6,
		BurstStartSeconds: 0, BurstLenSeconds: 0,
		ActiveStartSeconds: 9.0e-6, ActiveLenSeconds: 80.0e-6,
		LevelSync: -30, LevelBlanking: 0, LevelBlack: 0, LevelWhite: 70,
	},
	"819": {
		Name: "819", LinesPerFrame: 819, ActiveLines: 737,
		FrameRateNum: 25, FrameRateDen: 1, Interlaced: true,
		HSyncSeconds: 2.0e-6, VSyncPulseSeconds: 9.0e-6, EqPulseSeconds: 1.0e-6,
		ActiveStartSeconds: 4.5e-6, ActiveLenSeconds: 37.0e-6,
		LevelSync: -30, LevelBlanking: 0, LevelBlack: 0, LevelWhite: 70,
	},
	"240": {
		Name: "240", LinesPerFrame: 240, ActiveLines: 224,
		FrameRateNum: 25, FrameRateDen: 1, Interlaced: false,
		HSyncSeconds: 8.0e-6, VSyncPulseSeconds: 40.0e-6, EqPulseSeconds: 4.0e-6,
		ActiveStartSeconds: 16.0e-6, ActiveLenSeconds: 140.0e-6,
		LevelSync: -40, LevelBlanking: 0, LevelBlack: 0, LevelWhite: 100,
	},
	"30": {
		Name: "30", LinesPerFrame: 30, ActiveLines: 25,
		FrameRateNum: 12, FrameRateDen: 1, Interlaced: false,
		HSyncSeconds: 100e-6, VSyncPulseSeconds: 500e-6, EqPulseSeconds: 50e-6,
		ActiveStartSeconds: 200e-6, ActiveLenSeconds: 2500e-6,
		LevelSync: -40, LevelBlanking: 0, LevelBlack: 0, LevelWhite: 100,
	},
	"32": {
		Name: "32", LinesPerFrame: 32, ActiveLines: 30,
		FrameRateNum: 12, FrameRateDen: 1, Interlaced: false,
		HSyncSeconds: 90e-6, VSyncPulseSeconds: 450e-6, EqPulseSeconds: 45e-6,
		ActiveStartSeconds: 190e-6, ActiveLenSeconds: 2400e-6,
		LevelSync: -40, LevelBlanking: 0, LevelBlack: 0, LevelWhite: 100,
	},
	"320": {
		Name: "320", LinesPerFrame: 320, ActiveLines: 296,
		FrameRateNum: 25, FrameRateDen: 1, Interlaced: false,
		HSyncSeconds: 6.0e-6, VSyncPulseSeconds: 30.0e-6, EqPulseSeconds: 3.0e-6,
		ActiveStartSeconds: 12.0e-6, ActiveLenSeconds: 100.0e-6,
		LevelSync: -40, LevelBlanking: 0, LevelBlack: 0, LevelWhite: 100,
	},
	"mac": {
		Name: "mac", LinesPerFrame: 625, ActiveLines: 576,
		FrameRateNum: 25, FrameRateDen: 1, Interlaced: true,
		HSyncSeconds: 1.0e-6, VSyncPulseSeconds: 0, EqPulseSeconds: 0,
		ActiveStartSeconds: 4.0e-6, ActiveLenSeconds: 58.0e-6,
		LevelSync: -50, LevelBlanking: 0, LevelBlack: 0, LevelWhite: 100,
	},
	"cbs-405": {
		Name: "cbs-405", LinesPerFrame: 405, ActiveLines: 377,
		FrameRateNum: 144, FrameRateDen: 10, Interlaced: true,
		HSyncSeconds: 4.0e-6, VSyncPulseSeconds: 18.0e-6, EqPulseSeconds: 2.0e-6,
		ActiveStartSeconds: 9.0e-6, ActiveLenSeconds: 80.0e-6,
		LevelSync: -30, LevelBlanking: 0, LevelBlack: 0, LevelWhite: 70,
	},
}

// LookupFamily resolves a raster family by name, returning an error at
// init for an unrecognised one.
func LookupFamily(name string) (RasterFamily, error) {
	f, ok := Families[name]
	if !ok {
		return RasterFamily{}, fmt.Errorf("video: unknown raster family %q", name)
	}
	return f, nil
}
