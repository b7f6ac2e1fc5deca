package air

import "encoding/binary"

// Big-endian field extraction. Offsets are fixed per response layout and
// an offset outside the buffer is a programming error.

func getBool(buf []byte, offset int) bool {
	return buf[offset] != 0
}

func getU8(buf []byte, offset int) uint8 {
	return buf[offset]
}

func getU16(buf []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(buf[offset : offset+2])
}

func getI16(buf []byte, offset int) int16 {
	return int16(getU16(buf, offset))
}

func getU32(buf []byte, offset int) uint32 {
	return binary.BigEndian.Uint32(buf[offset : offset+4])
}

func getU64(buf []byte, offset int) uint64 {
	return binary.BigEndian.Uint64(buf[offset : offset+8])
}
