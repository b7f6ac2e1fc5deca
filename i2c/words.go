package i2c

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mklimuk/sen5x"
)

const (
	wordLength = 2
	crcLength  = 1
	// WordSize is the on-wire size of a data word followed by its checksum.
	WordSize = wordLength + crcLength
)

var ErrCRC = errors.New("crc mismatch")

// CRCError identifies the first word of a response whose checksum byte did not match.
type CRCError struct {
	Offset   int
	Expected byte
	Actual   byte
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("crc mismatch at offset %d: expected %#x, got %#x", e.Offset, e.Expected, e.Actual)
}

func (e *CRCError) Is(target error) bool {
	return target == ErrCRC
}

// WriteCommand writes a 16-bit command as two big-endian bytes.
func WriteCommand(ctx context.Context, bus sen5x.AddressableWriter, address byte, cmd uint16) error {
	var out [wordLength]byte
	binary.BigEndian.PutUint16(out[:], cmd)
	return bus.WriteToAddr(ctx, address, out[:])
}

// CommandFrame builds a command followed by [msb lsb crc] for every argument word.
func CommandFrame(cmd uint16, words ...uint16) []byte {
	frame := make([]byte, wordLength+len(words)*WordSize)
	binary.BigEndian.PutUint16(frame[0:2], cmd)
	for i, w := range words {
		off := wordLength + i*WordSize
		binary.BigEndian.PutUint16(frame[off:off+2], w)
		frame[off+2] = Checksum(frame[off : off+2])
	}
	return frame
}

// WriteCommandWithWords writes a command together with its checksummed arguments.
func WriteCommandWithWords(ctx context.Context, bus sen5x.AddressableWriter, address byte, cmd uint16, words ...uint16) error {
	return bus.WriteToAddr(ctx, address, CommandFrame(cmd, words...))
}

// ReadWordsWithCRC fills buf from the device and validates every
// [msb lsb crc] triplet in place. The length of buf must be a multiple of 3.
// Checksum bytes are left in buf; use StripCRC to obtain the data bytes.
func ReadWordsWithCRC(ctx context.Context, bus sen5x.AddressableReader, address byte, buf []byte) error {
	if len(buf)%WordSize != 0 {
		panic(fmt.Sprintf("i2c: read buffer length %d is not a multiple of %d", len(buf), WordSize))
	}
	if err := bus.ReadFromAddr(ctx, address, buf); err != nil {
		return err
	}
	return ValidateWords(buf)
}

// ValidateWords checks the checksum of every word in a raw response.
func ValidateWords(buf []byte) error {
	for off := 0; off+WordSize <= len(buf); off += WordSize {
		word, got := buf[off:off+wordLength], buf[off+wordLength]
		if !CheckWord(word, got) {
			return &CRCError{Offset: off, Expected: Checksum(word), Actual: got}
		}
	}
	return nil
}

// StripCRC returns the data bytes of a validated raw response.
func StripCRC(buf []byte) []byte {
	out := make([]byte, 0, len(buf)/WordSize*wordLength)
	for off := 0; off+WordSize <= len(buf); off += WordSize {
		out = append(out, buf[off:off+wordLength]...)
	}
	return out
}
