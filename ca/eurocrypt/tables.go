// Package eurocrypt implements the Eurocrypt M/S2/3DES conditional-access
// system used on D2-MAC: a DES-variant block cipher, a CBC-MAC hash, and
// the ECM/EMM TLV packet framer that carries control words and key
// material, Golay(23,12) protected, over the MAC data burst.
//
// The legacy Eurocrypt-S "system S" cipher and ECM layout are a
// structurally distinct, older shift-register cipher not implemented
// here -- see DESIGN.md.
package eurocrypt

// Algo identifies which of the four DES-variant constructions a provider
// uses, per the EC_M/EC_S/EC_S2/EC_3DES constants.
type Algo int

const (
	AlgoM Algo = iota
	AlgoS
	AlgoS2
	Algo3DES
)

// ip is the initial bit permutation applied before the Feistel rounds in
// EC-S2/3DES mode only (EC-M skips it), per _ip.
var ip = [64]uint8{
	58, 50, 42, 34, 26, 18, 10, 2,
	60, 52, 44, 36, 28, 20, 12, 4,
	62, 54, 46, 38, 30, 22, 14, 6,
	64, 56, 48, 40, 32, 24, 16, 8,
	57, 49, 41, 33, 25, 17, 9, 1,
	59, 51, 43, 35, 27, 19, 11, 3,
	61, 53, 45, 37, 29, 21, 13, 5,
	63, 55, 47, 39, 31, 23, 15, 7,
}

// ipp is ip's inverse, applied after the Feistel rounds, per _ipp.
var ipp = [64]uint8{
	40, 8, 48, 16, 56, 24, 64, 32,
	39, 7, 47, 15, 55, 23, 63, 31,
	38, 6, 46, 14, 54, 22, 62, 30,
	37, 5, 45, 13, 53, 21, 61, 29,
	36, 4, 44, 12, 52, 20, 60, 28,
	35, 3, 43, 11, 51, 19, 59, 27,
	34, 2, 42, 10, 50, 18, 58, 26,
	33, 1, 41, 9, 49, 17, 57, 25,
}

// expandTable grows the 32-bit right half to 48 bits for the S-box stage,
// per _exp -- the textbook DES expansion permutation.
var expandTable = [48]uint8{
	32, 1, 2, 3, 4, 5,
	4, 5, 6, 7, 8, 9,
	8, 9, 10, 11, 12, 13,
	12, 13, 14, 15, 16, 17,
	16, 17, 18, 19, 20, 21,
	20, 21, 22, 23, 24, 25,
	24, 25, 26, 27, 28, 29,
	28, 29, 30, 31, 32, 1,
}

// sBoxes are the eight standard DES 6-to-4-bit substitution tables, per
// _sb (confirmed identical to the textbook DES S-boxes).
var sBoxes = [8][64]uint8{
	{0xE, 0x0, 0x4, 0xF, 0xD, 0x7, 0x1, 0x4,
		0x2, 0xE, 0xF, 0x2, 0xB, 0xD, 0x8, 0x1,
		0x3, 0xA, 0xA, 0x6, 0x6, 0xC, 0xC, 0xB,
		0x5, 0x9, 0x9, 0x5, 0x0, 0x3, 0x7, 0x8,
		0x4, 0xF, 0x1, 0xC, 0xE, 0x8, 0x8, 0x2,
		0xD, 0x4, 0x6, 0x9, 0x2, 0x1, 0xB, 0x7,
		0xF, 0x5, 0xC, 0xB, 0x9, 0x3, 0x7, 0xE,
		0x3, 0xA, 0xA, 0x0, 0x5, 0x6, 0x0, 0xD},
	{0xF, 0x3, 0x1, 0xD, 0x8, 0x4, 0xE, 0x7,
		0x6, 0xF, 0xB, 0x2, 0x3, 0x8, 0x4, 0xE,
		0x9, 0xC, 0x7, 0x0, 0x2, 0x1, 0xD, 0xA,
		0xC, 0x6, 0x0, 0x9, 0x5, 0xB, 0xA, 0x5,
		0x0, 0xD, 0xE, 0x8, 0x7, 0xA, 0xB, 0x1,
		0xA, 0x3, 0x4, 0xF, 0xD, 0x4, 0x1, 0x2,
		0x5, 0xB, 0x8, 0x6, 0xC, 0x7, 0x6, 0xC,
		0x9, 0x0, 0x3, 0x5, 0x2, 0xE, 0xF, 0x9},
	{0xA, 0xD, 0x0, 0x7, 0x9, 0x0, 0xE, 0x9,
		0x6, 0x3, 0x3, 0x4, 0xF, 0x6, 0x5, 0xA,
		0x1, 0x2, 0xD, 0x8, 0xC, 0x5, 0x7, 0xE,
		0xB, 0xC, 0x4, 0xB, 0x2, 0xF, 0x8, 0x1,
		0xD, 0x1, 0x6, 0xA, 0x4, 0xD, 0x9, 0x0,
		0x8, 0x6, 0xF, 0x9, 0x3, 0x8, 0x0, 0x7,
		0xB, 0x4, 0x1, 0xF, 0x2, 0xE, 0xC, 0x3,
		0x5, 0xB, 0xA, 0x5, 0xE, 0x2, 0x7, 0xC},
	{0x7, 0xD, 0xD, 0x8, 0xE, 0xB, 0x3, 0x5,
		0x0, 0x6, 0x6, 0xF, 0x9, 0x0, 0xA, 0x3,
		0x1, 0x4, 0x2, 0x7, 0x8, 0x2, 0x5, 0xC,
		0xB, 0x1, 0xC, 0xA, 0x4, 0xE, 0xF, 0x9,
		0xA, 0x3, 0x6, 0xF, 0x9, 0x0, 0x0, 0x6,
		0xC, 0xA, 0xB, 0x1, 0x7, 0xD, 0xD, 0x8,
		0xF, 0x9, 0x1, 0x4, 0x3, 0x5, 0xE, 0xB,
		0x5, 0xC, 0x2, 0x7, 0x8, 0x2, 0x4, 0xE},
	{0x2, 0xE, 0xC, 0xB, 0x4, 0x2, 0x1, 0xC,
		0x7, 0x4, 0xA, 0x7, 0xB, 0xD, 0x6, 0x1,
		0x8, 0x5, 0x5, 0x0, 0x3, 0xF, 0xF, 0xA,
		0xD, 0x3, 0x0, 0x9, 0xE, 0x8, 0x9, 0x6,
		0x4, 0xB, 0x2, 0x8, 0x1, 0xC, 0xB, 0x7,
		0xA, 0x1, 0xD, 0xE, 0x7, 0x2, 0x8, 0xD,
		0xF, 0x6, 0x9, 0xF, 0xC, 0x0, 0x5, 0x9,
		0x6, 0xA, 0x3, 0x4, 0x0, 0x5, 0xE, 0x3},
	{0xC, 0xA, 0x1, 0xF, 0xA, 0x4, 0xF, 0x2,
		0x9, 0x7, 0x2, 0xC, 0x6, 0x9, 0x8, 0x5,
		0x0, 0x6, 0xD, 0x1, 0x3, 0xD, 0x4, 0xE,
		0xE, 0x0, 0x7, 0xB, 0x5, 0x3, 0xB, 0x8,
		0x9, 0x4, 0xE, 0x3, 0xF, 0x2, 0x5, 0xC,
		0x2, 0x9, 0x8, 0x5, 0xC, 0xF, 0x3, 0xA,
		0x7, 0xB, 0x0, 0xE, 0x4, 0x1, 0xA, 0x7,
		0x1, 0x6, 0xD, 0x0, 0xB, 0x8, 0x6, 0xD},
	{0x4, 0xD, 0xB, 0x0, 0x2, 0xB, 0xE, 0x7,
		0xF, 0x4, 0x0, 0x9, 0x8, 0x1, 0xD, 0xA,
		0x3, 0xE, 0xC, 0x3, 0x9, 0x5, 0x7, 0xC,
		0x5, 0x2, 0xA, 0xF, 0x6, 0x8, 0x1, 0x6,
		0x1, 0x6, 0x4, 0xB, 0xB, 0xD, 0xD, 0x8,
		0xC, 0x1, 0x3, 0x4, 0x7, 0xA, 0xE, 0x7,
		0xA, 0x9, 0xF, 0x5, 0x6, 0x0, 0x8, 0xF,
		0x0, 0xE, 0x5, 0x2, 0x9, 0x3, 0x2, 0xC},
	{0xD, 0x1, 0x2, 0xF, 0x8, 0xD, 0x4, 0x8,
		0x6, 0xA, 0xF, 0x3, 0xB, 0x7, 0x1, 0x4,
		0xA, 0xC, 0x9, 0x5, 0x3, 0x6, 0xE, 0xB,
		0x5, 0x0, 0x0, 0xE, 0xC, 0x9, 0x7, 0x2,
		0x7, 0x2, 0xB, 0x1, 0x4, 0xE, 0x1, 0x7,
		0x9, 0x4, 0xC, 0xA, 0xE, 0x8, 0x2, 0xD,
		0x0, 0xF, 0x6, 0xC, 0xA, 0x9, 0xD, 0x0,
		0xF, 0x3, 0x3, 0x5, 0x5, 0x6, 0x8, 0xB},
}

// perm is the DES P-permutation applied to the S-box output, per _perm.
var perm = [32]uint8{
	16, 7, 20, 21,
	29, 12, 28, 17,
	1, 15, 23, 26,
	5, 18, 31, 10,
	2, 8, 24, 14,
	32, 27, 3, 9,
	19, 13, 30, 6,
	22, 11, 4, 25,
}

// ipc1 is the inverse of PC1, used to prepare an operator key for
// transport inside a unique EMM's key-update TLV, per _ipc1.
var ipc1 = [64]uint8{
	8, 16, 24, 56, 52, 44, 36, 57,
	7, 15, 23, 55, 51, 43, 35, 58,
	6, 14, 22, 54, 50, 42, 34, 59,
	5, 13, 21, 53, 49, 41, 33, 60,
	4, 12, 20, 28, 48, 40, 32, 61,
	3, 11, 19, 27, 47, 39, 31, 62,
	2, 10, 18, 26, 46, 38, 30, 63,
	1, 9, 17, 25, 45, 37, 29, 64,
}

// pc2 picks the 48-bit round key out of the rotated 28+28-bit C/D key
// halves, per _pc2.
var pc2 = [48]uint8{
	14, 17, 11, 24, 1, 5,
	3, 28, 15, 6, 21, 10,
	23, 19, 12, 4, 26, 8,
	16, 7, 27, 20, 13, 2,
	41, 52, 31, 37, 47, 55,
	30, 40, 51, 45, 33, 48,
	44, 49, 39, 56, 34, 53,
	46, 42, 50, 36, 29, 32,
}

// lshift is the per-round left-rotation count for the C/D key halves, per
// _lshift (the standard DES key schedule rotation counts).
var lshift = [16]uint8{
	1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1,
}

// Provider describes one Eurocrypt-protected channel's fixed key material,
// per the _ec_modes table.
type Provider struct {
	ID      string
	Algo    Algo
	OpKey   [16]byte // 8 bytes, or 16 for 3DES's two keys
	PPID    [3]byte
	Date    string
	Theme   [2]byte
	Name    string
}

// Providers is a representative subset of original_source's _ec_modes
// table: EC-M, EC-S2 and EC-3DES entries; no entry uses AlgoS.
var Providers = map[string]Provider{
	"bbcprime": {
		ID: "bbcprime", Algo: AlgoM,
		OpKey: [16]byte{0x99, 0x01, 0x00, 0x5C, 0x63, 0xF8, 0x50, 0x00},
		PPID:  [3]byte{0x00, 0x28, 0x18},
		Date:  "TODAY", Theme: [2]byte{0x04, 0x00},
		Name: "BBC Prime (M)",
	},
	"filmnet": {
		ID: "filmnet", Algo: AlgoM,
		OpKey: [16]byte{0x21, 0x12, 0x31, 0x35, 0x8A, 0xC3, 0x4F, 0x00},
		PPID:  [3]byte{0x00, 0x28, 0x08},
		Date:  "TODAY", Theme: [2]byte{0x00, 0x00},
		Name: "FilmNet (M)",
	},
	"tv1000": {
		ID: "tv1000", Algo: AlgoM,
		OpKey: [16]byte{0x48, 0x63, 0xC5, 0xB3, 0xDA, 0xE3, 0x29, 0x00},
		PPID:  [3]byte{0x00, 0x04, 0x18},
		Date:  "TODAY", Theme: [2]byte{0x00, 0x00},
		Name: "TV 1000 (M)",
	},
	"nrk": {
		ID: "nrk", Algo: AlgoS2,
		OpKey: [16]byte{0xE7, 0x19, 0x5B, 0x7C, 0x47, 0xF4, 0x66, 0x00},
		PPID:  [3]byte{0x47, 0x52, 0x00},
		Date:  "06/02/1999", Theme: [2]byte{0x00, 0x00},
		Name: "NRK (S2)",
	},
	"cplus": {
		ID: "cplus", Algo: Algo3DES,
		OpKey: [16]byte{
			0x62, 0xA7, 0x01, 0xA0, 0x5E, 0x8B, 0xB9, 0x00,
			0xCB, 0x86, 0x67, 0x27, 0x5C, 0x53, 0x17, 0x00,
		},
		PPID: [3]byte{0x00, 0x2B, 0x1C},
		Date: "19/11/1998", Theme: [2]byte{0x00, 0x00},
		Name: "Canal+ DK (3DES)",
	},
}
