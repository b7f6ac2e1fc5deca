package air

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuf_Fixed(t *testing.T) {
	buf := []byte{0x00, 0xBE, 0xEF, 0xFF, 0x38, 0x01, 0x02, 0x03, 0x04}

	assert.Equal(t, false, getBool(buf, 0))
	assert.Equal(t, true, getBool(buf, 1))
	assert.Equal(t, uint8(0xBE), getU8(buf, 1))
	assert.Equal(t, uint16(0xBEEF), getU16(buf, 1))
	assert.Equal(t, int16(-200), getI16(buf, 3))
	assert.Equal(t, uint32(0xBEEFFF38), getU32(buf, 1))
	assert.Equal(t, uint64(0xBEEFFF3801020304), getU64(buf, 1))
}

func TestBuf_Compose(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	buf := make([]byte, 32)
	for n := 0; n < 100; n++ {
		r.Read(buf)
		for i := 0; i+8 <= len(buf); i++ {
			u16 := uint16(buf[i])<<8 | uint16(buf[i+1])
			assert.Equal(t, u16, getU16(buf, i))
			assert.Equal(t, int16(u16), getI16(buf, i))
			u32 := uint32(buf[i])<<24 | uint32(buf[i+1])<<16 | uint32(buf[i+2])<<8 | uint32(buf[i+3])
			assert.Equal(t, u32, getU32(buf, i))
			var u64 uint64
			for k := 0; k < 8; k++ {
				u64 = u64<<8 | uint64(buf[i+k])
			}
			assert.Equal(t, u64, getU64(buf, i))
			assert.Equal(t, buf[i], getU8(buf, i))
			assert.Equal(t, buf[i] != 0, getBool(buf, i))
		}
	}
}

func TestBuf_OutOfRange(t *testing.T) {
	buf := make([]byte, 4)
	assert.Panics(t, func() { getU16(buf, 3) })
	assert.Panics(t, func() { getU64(buf, 0) })
}
