package teletext

import (
	"io"
	"os"
	"time"
)

// FramingCode is the NRZ framing pattern prefixed to every teletext packet.
var FramingCode = [3]byte{0x55, 0x55, 0x27}

// BuildHeaderPacket builds packet 0: magazine/page address nibbles, control
// bits (Hamming-8/4 coded), and the header display text, sent on a
// schedule alongside the clock.
func BuildHeaderPacket(p *Page, now time.Time) [45]byte {
	var pkt [45]byte
	copy(pkt[0:3], FramingCode[:])

	magHamm := EncodeHamming84(byte(p.Magazine & 0x7))
	pageUnits := EncodeHamming84(byte(p.Page & 0xF))
	pageTens := EncodeHamming84(byte((p.Page >> 4) & 0xF))
	subUnits := EncodeHamming84(byte(p.Subpage & 0xF))

	pkt[3] = magHamm
	pkt[4] = pageUnits
	pkt[5] = pageTens
	pkt[6] = subUnits
	pkt[7] = 0xC0 // control bits: status 0xC0

	clock := now.Format("15:04:05")
	copy(pkt[8:], []byte(clock))
	if len(p.Rows[0]) > 0 {
		n := copy(pkt[20:], []byte(p.Rows[0]))
		_ = n
	}
	return pkt
}

// BuildFastextPacket builds packet 27: six page links plus a CRC-16/CCITT
// over the twelve link bytes. The page body is not part of the CRC.
func BuildFastextPacket(p *Page, links [6]int) [45]byte {
	var pkt [45]byte
	copy(pkt[0:3], FramingCode[:])
	pkt[3] = EncodeHamming84(27 & 0xF)

	var crc uint16
	for i := 0; i < 6; i++ {
		lo := byte(links[i] & 0xFF)
		hi := byte((links[i] >> 8) & 0xFF)
		pkt[4+i*2] = lo
		pkt[5+i*2] = hi
		crc = crc16CCITT(crc, lo)
		crc = crc16CCITT(crc, hi)
	}
	pkt[16] = byte(crc)
	pkt[17] = byte(crc >> 8)
	return pkt
}

// crc16CCITT runs one byte through a CRC-16/CCITT (poly 0x1021) update,
// matching the running-CRC contract packet 27 carries.
func crc16CCITT(crc uint16, b byte) uint16 {
	crc ^= uint16(b) << 8
	for i := 0; i < 8; i++ {
		if crc&0x8000 != 0 {
			crc = (crc << 1) ^ 0x1021
		} else {
			crc <<= 1
		}
	}
	return crc
}

// mjd computes the Modified Julian Date for t, as carried in packet 8/30
// alongside UTC time and the network id.
func mjd(t time.Time) int {
	y, m, d := t.Date()
	a := (14 - int(m)) / 12
	yy := y + 4800 - a
	mm := int(m) + 12*a - 3
	jdn := d + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045
	return jdn - 2400001
}

// BuildUTCPacket builds packet 8/30: UTC time, MJD, and network id, emitted
// once per second. now is supplied by the injected Clock.
func BuildUTCPacket(now time.Time, networkID uint16) [45]byte {
	var pkt [45]byte
	copy(pkt[0:3], FramingCode[:])
	pkt[3] = EncodeHamming84(30 & 0xF)

	m := mjd(now)
	pkt[4] = byte(m)
	pkt[5] = byte(m >> 8)
	pkt[6] = byte(now.Hour())
	pkt[7] = byte(now.Minute())
	pkt[8] = byte(now.Second())
	pkt[9] = byte(networkID)
	pkt[10] = byte(networkID >> 8)
	return pkt
}

// RawPacketReader implements raw-packet teletext mode: a `raw:<path>`
// prefix bypasses TTI parsing and reads 42 consecutive bytes per packet
// from the named file (or stdin with "-"), looping on EOF.
type RawPacketReader struct {
	r       io.ReadSeeker
	closeFn func() error
}

// OpenRawPackets opens the raw-packet source named by path ("-" means
// stdin, which does not support looping since it's not seekable).
func OpenRawPackets(path string) (*RawPacketReader, error) {
	if path == "-" {
		return &RawPacketReader{r: os.Stdin, closeFn: func() error { return nil }}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &RawPacketReader{r: f, closeFn: f.Close}, nil
}

// Next reads the next 42-byte packet, looping to the start of the file on
// EOF (stdin cannot loop and returns io.EOF once exhausted).
func (r *RawPacketReader) Next() ([42]byte, error) {
	var buf [42]byte
	if r.r == nil {
		return buf, io.EOF
	}
	n, err := io.ReadFull(r.r, buf[:])
	if err == io.ErrUnexpectedEOF || (err == io.EOF && n == 0) {
		if _, serr := r.r.Seek(0, io.SeekStart); serr != nil {
			return buf, err
		}
		return r.Next()
	}
	if err != nil {
		return buf, err
	}
	return buf, nil
}

// Close releases the underlying file, if any.
func (r *RawPacketReader) Close() error {
	if r.closeFn == nil {
		return nil
	}
	return r.closeFn()
}
