package proc

// SiS (Sound-in-Syncs) carries a NICAM bit-pair stream as 4-level quit
// symbols inside the sync interval, rate-limited by a cumulative 44/125
// accumulator so that on average ~46/50 bit-pairs are sent per line.
type SiS struct {
	bitPairs  []byte // each entry is a 2-bit symbol, 0-3
	accum     int
	produced  int
	consumed  int
}

// NewSiS builds a SiS processor.
func NewSiS() *SiS {
	return &SiS{}
}

func (s *SiS) Name() string { return "sis" }
func (s *SiS) NLines() int  { return 1 }

// Feed appends NICAM bit-pairs (2 bits each, value 0-3) to the pending
// queue.
func (s *SiS) Feed(pairs []byte) {
	s.bitPairs = append(s.bitPairs, pairs...)
}

// quitLevels maps a 2-bit symbol to one of the four quantised sync-interval
// levels.
var quitLevels = [4]float64{-40, -30, -20, -10}

func (s *SiS) Process(ctx *Context, window []*Line) int {
	line := window[0]

	s.accum += 44
	budget := 0
	for s.accum >= 125 {
		s.accum -= 125
		budget++
	}
	if budget == 0 || len(s.bitPairs) == 0 {
		return 1
	}

	offset := int(1.0e-6 * ctx.SampleRate)
	step := int(0.2e-6 * ctx.SampleRate)
	if step < 1 {
		step = 1
	}
	for i := 0; i < budget && len(s.bitPairs) > 0; i++ {
		sym := s.bitPairs[0]
		s.bitPairs = s.bitPairs[1:]
		level := quitLevels[sym&3]
		for j := 0; j < step && offset+i*step+j < len(line.Samples); j++ {
			line.Samples[offset+i*step+j] = level
		}
		s.produced++
	}
	return 1
}
