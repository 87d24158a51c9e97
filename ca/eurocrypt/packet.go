package eurocrypt

import (
	"fmt"
	"time"
)

// TLV tags used by the ECM/EMM-U packet layouts.
const (
	tagPPID    = 0x90
	tagCTRL    = 0xE0
	tagPPV     = 0xE4
	tagCDATE   = 0xE1
	tagECWOCW  = 0xEA
	tagHASH    = 0xF0
	tagLabel   = 0xA7
	tagDate    = 0xA8
	tagKeyExch = 0xEF
	tagPadding = 0xDF
)

const (
	pktECM  = 0x00
	pktEMMU = 0x82
)

func appendTLV(pkt []byte, tag byte, value []byte) []byte {
	pkt = append(pkt, tag, byte(len(value)))
	return append(pkt, value...)
}

func u16be(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

// getECDate packs a day/month/year date into the mode-specific 16-bit
// field the decoder expects. EC-S2 and EC-3DES share the same encoding.
func getECDate(day, mon, year int, algo Algo) uint16 {
	switch algo {
	case AlgoM:
		return uint16(year-1980)<<9 | uint16(mon)<<5 | uint16(day)
	case AlgoS:
		return uint16(year%10)<<12 | uint16(mon)<<8 | uint16(day)
	default: // AlgoS2, Algo3DES
		var y uint8
		if year > 2029 {
			y = 3<<5 | uint8(year-1990-30)
		} else {
			ydiff := uint8((year - 1990) / 10)
			y = ydiff<<5 | uint8(year-1990-10*int(ydiff))
		}
		d := uint16(y)<<12 | uint16(mon)<<8 | uint16(y&0xE0) | uint16(day)
		return d
	}
}

// resolveDate turns a Provider.Date field ("TODAY" or a literal
// DD/MM/YYYY string) into day/month/year components, using the engine's
// injected clock for "TODAY" so packet output stays deterministic under
// test.
func resolveDate(date string, now time.Time, offsetDays int) (day, mon, year int) {
	if date != "TODAY" {
		var d, m, y int
		if _, err := fmt.Sscanf(date, "%d/%d/%d", &d, &m, &y); err == nil {
			return d, m, y
		}
	}
	t := now.AddDate(0, 0, offsetDays)
	return t.Day(), int(t.Month()), t.Year()
}

// buildECMHashMsg assembles the byte range CalcHash runs over for an ECM:
// EC-M hashes bytes 8 onwards of the packet built so far (up to, not
// including, the HASH TLV); EC-S2/3DES hash PPID
// (key-index nibble masked) + the pre-HASH TLV headers + both control
// words.
func buildECMHashMsg(pkt []byte, algo Algo, ppid [3]byte, preHash []byte, ecw, ocw [8]byte) []byte {
	if algo == AlgoM {
		// pkt here is everything built so far, up to but not including
		// the HASH TLV itself.
		msg := make([]byte, 0, len(pkt)-8)
		msg = append(msg, pkt[8:]...)
		return msg
	}
	msg := make([]byte, 0, 3+5+16)
	p := ppid
	p[2] &= 0xF0
	msg = append(msg, p[:]...)
	msg = append(msg, preHash...)
	msg = append(msg, ecw[:]...)
	msg = append(msg, ocw[:]...)
	return msg
}

// buildECM assembles one ECM packet for the given provider/CW pair and
// toggle bit, Golay-encoded and ready for the MAC framer.
func buildECM(p Provider, ecw, ocw [8]byte, toggle byte, now time.Time) []byte {
	pkt := make([]byte, 0, 64)
	pkt = append(pkt, pktECM)

	ci := byte(1<<1) | toggle&1
	pkt = append(pkt, ci)
	pkt = append(pkt, 0) // CLI, patched below

	pkt = appendTLV(pkt, tagPPID, p.PPID[:])

	var preHash []byte
	if p.Algo == AlgoM {
		ctrl := []byte{0x00}
		pkt = appendTLV(pkt, tagCTRL, ctrl)
	} else {
		day, mon, year := resolveDate(p.Date, now, 0)
		d := getECDate(day, mon, year, p.Algo)
		cdate := append(u16be(d), p.Theme[:]...)
		start := len(pkt)
		pkt = appendTLV(pkt, tagCDATE, cdate)
		preHash = append([]byte(nil), pkt[start:]...)
	}

	var ecwocw []byte
	ecwocw = append(ecwocw, ecw[:]...)
	ecwocw = append(ecwocw, ocw[:]...)
	pkt = appendTLV(pkt, tagECWOCW, ecwocw)

	msg := buildECMHashMsg(pkt, p.Algo, p.PPID, preHash, ecw, ocw)
	hash := CalcHash(msg, p.Algo, p.OpKey)
	pkt = appendTLV(pkt, tagHASH, hash[:])

	pkt[2] = byte(len(pkt) - 3)

	return EncodeGolay(pad3(pkt))
}

// buildEMMU assembles one unique EMM for the given provider/unique
// address, alternating (per-instance flag counter, every third call)
// between a date-range TLV and an operator-key-update TLV. toggle selects
// which half of a 3DES operator key is due for transport this call. flag
// is owned by the caller (the Engine) so multiple channels never share a
// counter.
func buildEMMU(p Provider, ua [5]byte, channelName string, flag int, toggle byte, now time.Time) []byte {
	pkt := make([]byte, 0, 64)
	pkt = append(pkt, pktEMMU)
	pkt = append(pkt, ua[:]...)

	ci := byte(1<<1) | byte(1)
	pkt = append(pkt, ci)
	pkt = append(pkt, 0) // CLI, patched below

	pkt = appendTLV(pkt, tagPPID, p.PPID[:])

	label := make([]byte, 0x0B)
	for i := range label {
		label[i] = 0x20
	}
	copy(label, channelName)
	pkt = appendTLV(pkt, tagLabel, label)

	var tail []byte
	if flag%3 == 0 {
		d0, m0, y0 := resolveDate(p.Date, now, 1)
		d1, m1, y1 := resolveDate(p.Date, now, 31)
		data := append(u16be(getECDate(d0, m0, y0, p.Algo)), u16be(getECDate(d1, m1, y1, p.Algo))...)
		data = append(data, p.Theme[:]...)
		data = append(data, 0, 0)
		if p.Algo == Algo3DES {
			var d8 [8]byte
			copy(d8[:], data)
			var k2 [8]byte
			copy(k2[:], p.OpKey[8:16])
			enc := Encrypt3DES(d8, firstKey(p.OpKey), k2)
			data = enc[:]
		}
		pkt = appendTLV(pkt, tagDate, data[:6])
		tail = data[6:8]
	} else {
		var key [8]byte
		if p.Algo == Algo3DES && toggle != 0 {
			copy(key[:], p.OpKey[8:16])
		} else {
			copy(key[:], p.OpKey[:8])
		}
		if p.Algo != AlgoM {
			key = permuteBits(key, ipc1[:])
		}
		if p.Algo == Algo3DES {
			var k2 [8]byte
			copy(k2[:], p.OpKey[8:16])
			key = Encrypt3DES(key, firstKey(p.OpKey), k2)
		}
		pkt = appendTLV(pkt, tagKeyExch, key[:6])
		tail = key[6:8]
	}

	pkt = append(pkt, tail...)
	pkt = appendTLV(pkt, tagPadding, nil)

	msg := buildEMMUHashMsg(p, pkt)
	hash := CalcHash(msg, p.Algo, p.OpKey)
	pkt = appendTLV(pkt, tagHASH, hash[:])

	pkt[7] = byte(len(pkt) - 8)

	return EncodeGolay(pad3(pkt))
}

// buildEMMUHashMsg selects the hashed fields for an EMM-U packet (PPID,
// LABEL, a "what to do" marker byte) at this package's own packet
// offsets.
func buildEMMUHashMsg(p Provider, pkt []byte) []byte {
	msg := make([]byte, 0, 24)
	msg = append(msg, p.PPID[:]...)
	if len(pkt) >= 27 {
		msg = append(msg, pkt[15:27]...)
	}
	msg = append(msg, 0x00)
	return msg
}

// pad3 rounds pkt up to a multiple of 3 bytes, EncodeGolay's block size,
// without truncating any TLV content. A packet spanning more than one
// MAC slot is chained by the framer; Golay protection is applied to the
// whole payload here, not a fixed 30-byte slice of it.
func pad3(pkt []byte) []byte {
	if len(pkt)%3 == 0 {
		return pkt
	}
	out := make([]byte, len(pkt)+(3-len(pkt)%3))
	copy(out, pkt)
	return out
}
