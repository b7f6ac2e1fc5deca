package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBus struct {
	mock.Mock
}

func (m *mockBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *mockBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *mockBus) Release(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestWriteCommand(t *testing.T) {
	bus := new(mockBus)
	bus.On("WriteToAddr", mock.Anything, byte(0x69), []byte{0xD3, 0x04}).Return(nil).Once()
	require.NoError(t, WriteCommand(context.Background(), bus, 0x69, 0xD304))
	bus.AssertExpectations(t)
}

func TestCommandFrame(t *testing.T) {
	tests := []struct {
		name     string
		cmd      uint16
		words    []uint16
		expected []byte
	}{
		{"no arguments", 0x0021, nil, []byte{0x00, 0x21}},
		{"one word", 0x60C6, []uint16{0x1234}, []byte{0x60, 0xC6, 0x12, 0x34, Checksum([]byte{0x12, 0x34})}},
		{"two words", 0x60B2, []uint16{0xBEEF, 0x0000}, []byte{0x60, 0xB2, 0xBE, 0xEF, 0x92, 0x00, 0x00, 0x81}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CommandFrame(tt.cmd, tt.words...))
		})
	}
}

func TestWriteCommandWithWords(t *testing.T) {
	bus := new(mockBus)
	bus.On("WriteToAddr", mock.Anything, byte(0x69), []byte{0x60, 0xC6, 0xBE, 0xEF, 0x92}).Return(nil).Once()
	require.NoError(t, WriteCommandWithWords(context.Background(), bus, 0x69, 0x60C6, 0xBEEF))
	bus.AssertExpectations(t)
}

func TestReadWordsWithCRC(t *testing.T) {
	tests := []struct {
		name          string
		response      []byte
		readErr       error
		expectedError error
		expectedCRC   *CRCError
	}{
		{
			name:     "valid words",
			response: []byte{0xBE, 0xEF, 0x92, 0x00, 0x00, 0x81},
		},
		{
			name:          "bad second word",
			response:      []byte{0xBE, 0xEF, 0x92, 0x00, 0x00, 0x80},
			expectedError: ErrCRC,
			expectedCRC:   &CRCError{Offset: 3, Expected: 0x81, Actual: 0x80},
		},
		{
			name:          "read error",
			readErr:       errors.New("i2c read failed"),
			expectedError: errors.New("i2c read failed"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(mockBus)
			bus.On("ReadFromAddr", mock.Anything, byte(0x69), mock.Anything).Return(tt.response, tt.readErr).Once()
			buf := make([]byte, 6)
			err := ReadWordsWithCRC(context.Background(), bus, 0x69, buf)
			switch {
			case tt.expectedCRC != nil:
				assert.ErrorIs(t, err, ErrCRC)
				var crcErr *CRCError
				require.ErrorAs(t, err, &crcErr)
				assert.Equal(t, tt.expectedCRC, crcErr)
			case tt.expectedError != nil:
				assert.EqualError(t, err, tt.expectedError.Error())
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.response, buf)
			}
			bus.AssertExpectations(t)
		})
	}
}

func TestValidateWords_ReportsComputedChecksum(t *testing.T) {
	err := ValidateWords([]byte{0xBE, 0xEF, 0x00})
	var crcErr *CRCError
	require.ErrorAs(t, err, &crcErr)
	assert.Equal(t, byte(0x92), crcErr.Expected)
	assert.Equal(t, byte(0x00), crcErr.Actual)
	assert.EqualError(t, err, "crc mismatch at offset 0: expected 0x92, got 0x0")
}

func TestReadWordsWithCRC_InvalidLength(t *testing.T) {
	bus := new(mockBus)
	assert.Panics(t, func() {
		_ = ReadWordsWithCRC(context.Background(), bus, 0x69, make([]byte, 4))
	})
	bus.AssertNotCalled(t, "ReadFromAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestStripCRC(t *testing.T) {
	raw := []byte{0xBE, 0xEF, 0x92, 0xBE, 0xEF, 0x92, 0xBE, 0xEF, 0x92}
	assert.Equal(t, []byte{0xBE, 0xEF, 0xBE, 0xEF, 0xBE, 0xEF}, StripCRC(raw))
	assert.Empty(t, StripCRC(nil))
}
