package i2c

import "github.com/sigurn/crc8"

// Sensirion CRC-8: polynomial 0x31 (x8 + x5 + x4 + 1), init 0xFF, no reflection.
var sensirionTable = crc8.MakeTable(crc8.Params{
	Poly:   0x31,
	Init:   0xFF,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x00,
	Check:  0xF7,
	Name:   "CRC-8/SENSIRION",
})

// Checksum returns the Sensirion CRC-8 of data.
func Checksum(data []byte) byte {
	return crc8.Checksum(data, sensirionTable)
}

// CheckWord reports whether crc matches the checksum of a two byte word.
func CheckWord(word []byte, crc byte) bool {
	return Checksum(word) == crc
}
