package eurocrypt

import (
	"crypto/rand"
	"time"
)

// Engine drives one Eurocrypt-protected channel: it rotates control
// words on a fixed cadence, builds Golay-encoded ECM/EMM-U packets, and
// hands them to a MAC framer. The EMM-U flag counter is engine-owned
// rather than a shared global, so independent channels never race each
// other.
type Engine struct {
	provider Provider
	ua       [5]byte
	channel  string

	ecw, ocw [8]byte
	toggle   byte

	ecmInterval int // frames between ECM CW regeneration (~2.5s)
	emmInterval int // frames between EMM-U emission (~10s)

	frame   int
	emmFlag int
	showECM bool
	Clock   func() time.Time
}

// New builds an Engine for the named provider, ticking ECMs every 64
// frames (~2.5s) and EMMs every emmIntervalSeconds.
func New(providerID string, ua [5]byte, frameRate float64, emmIntervalSeconds float64, showECM bool) (*Engine, bool) {
	p, ok := Providers[providerID]
	if !ok {
		return nil, false
	}
	e := &Engine{
		provider:    p,
		ua:          ua,
		channel:     p.Name,
		ecmInterval: 64,
		emmInterval: int(emmIntervalSeconds * frameRate),
		showECM:     showECM,
		Clock:       time.Now,
	}
	e.ecw = randomCW()
	e.ocw = randomCW()
	return e, true
}

func randomCW() [8]byte {
	var cw [8]byte
	_, _ = rand.Read(cw[:])
	return cw
}

// Tick advances the engine by one frame and returns any packets that fall
// due this frame (an ECM, an EMM-U, both, or neither).
func (e *Engine) Tick() (ecm, emmu []byte) {
	if e.frame%e.ecmInterval == 0 {
		e.rotateCW()
		ecm = buildECM(e.provider, e.ecw, e.ocw, e.toggle, e.Clock())
	}
	if e.emmInterval > 0 && e.frame%e.emmInterval == 0 {
		emmu = e.nextEMMU()
	}
	e.frame++
	return ecm, emmu
}

// rotateCW regenerates the inactive control word as fresh random bytes
// encrypted under the operator key -- three rounds (k1,k2,k1 EDE) for
// 3DES, one round for the other variants -- and flips the toggle bit.
func (e *Engine) rotateCW() {
	e.toggle ^= 1

	var fresh [8]byte
	_, _ = rand.Read(fresh[:])

	var encrypted [8]byte
	if e.provider.Algo == Algo3DES {
		var k2 [8]byte
		copy(k2[:], e.provider.OpKey[8:16])
		encrypted = Encrypt3DES(fresh, firstKey(e.provider.OpKey), k2)
	} else {
		encrypted = Encrypt(fresh, firstKey(e.provider.OpKey), e.provider.Algo)
	}

	if e.toggle == 1 {
		e.ocw = encrypted
	} else {
		e.ecw = encrypted
	}
}

// nextEMMU builds the next unique EMM, alternating between a date-range
// TLV and an operator-key-update TLV every third call.
func (e *Engine) nextEMMU() []byte {
	e.emmFlag++
	return buildEMMU(e.provider, e.ua, e.channel, e.emmFlag, e.toggle, e.Clock())
}

// CW returns the currently active control word (the one not scheduled
// for the next regeneration).
func (e *Engine) CW() uint64 {
	var active [8]byte
	if e.toggle == 1 {
		active = e.ocw
	} else {
		active = e.ecw
	}
	var v uint64
	for _, b := range active {
		v = v<<8 | uint64(b)
	}
	return v
}
