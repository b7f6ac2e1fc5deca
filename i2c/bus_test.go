package i2c

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestGenericBus_Playback(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x69, W: []byte{0xD0, 0x33}},
			{Addr: 0x69, R: []byte{0xBE, 0xEF, 0x92}},
		},
	}
	bus := NewBus(pb)
	ctx := context.Background()

	require.NoError(t, WriteCommand(ctx, bus, 0x69, 0xD033))
	buf := make([]byte, 3)
	require.NoError(t, ReadWordsWithCRC(ctx, bus, 0x69, buf))
	assert.Equal(t, []byte{0xBE, 0xEF}, StripCRC(buf))
	assert.NoError(t, pb.Close())
	assert.NoError(t, bus.Close())
}

func TestGenericBus_CancelledContext(t *testing.T) {
	pb := &i2ctest.Playback{}
	bus := NewBus(pb)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, bus.WriteToAddr(ctx, 0x69, []byte{0x00, 0x21}), context.Canceled)
	assert.ErrorIs(t, bus.ReadFromAddr(ctx, 0x69, make([]byte, 3)), context.Canceled)
	assert.NoError(t, pb.Close())
}

func TestGenericBus_TxError(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x69, W: []byte{0x00, 0x21}}},
		DontPanic: true,
	}
	bus := NewBus(pb)
	err := bus.WriteToAddr(context.Background(), 0x69, []byte{0x01, 0x04})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "could not write to i2c bus 69")
}
