package air

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/mklimuk/sen5x"
	"github.com/mklimuk/sen5x/i2c"
	"github.com/mklimuk/sen5x/snsctx"
)

// SEN5x default 7-bit I2C address. The address is fixed for the whole family.
const sen5xAddress = 0x69

// Raw response sizes; every 2 data bytes are followed by 1 CRC byte.
const (
	serialNumberSize   = 9
	versionSize        = 12
	productNameSize    = 48
	deviceStatusSize   = 6
	warmStartSize      = 3
	measuredValuesSize = 24
	rawValuesSize      = 12
)

// SEN5x represents Sensirion SEN50/SEN54/SEN55 environmental sensor node.
// Typical usage:
//
//	s := NewSEN5x(bus, sen5x.Sleep)
//	err := s.StartMeasurement(ctx)
//	data, err := s.ReadMeasuredValues(ctx)
//
// SEN5x does not synchronize access. Callers sharing a bus must serialize.
type SEN5x struct {
	transport sen5x.I2CBus
	delay     sen5x.Delayer
	addr      byte
}

// NewSEN5x takes ownership of the bus and the delay provider. A nil delay
// provider falls back to sen5x.Sleep.
func NewSEN5x(transport sen5x.I2CBus, delay sen5x.Delayer) *SEN5x {
	if delay == nil {
		delay = sen5x.Sleep
	}
	return &SEN5x{
		transport: transport,
		delay:     delay,
		addr:      sen5xAddress,
	}
}

// Close releases the bus.
func (s *SEN5x) Close(ctx context.Context) error {
	return s.transport.Release(ctx)
}

// DeviceReset resets the sensor. Measurement stops and all volatile
// parameters return to their defaults.
func (s *SEN5x) DeviceReset(ctx context.Context) error {
	return s.writeCommand(ctx, DeviceReset)
}

// SerialNumber returns the 48-bit serial number.
func (s *SEN5x) SerialNumber(ctx context.Context) (uint64, error) {
	raw, err := s.readResponse(ctx, GetSerialNumber, serialNumberSize)
	if err != nil {
		return 0, err
	}
	var buf [8]byte
	data := i2c.StripCRC(raw)
	copy(buf[len(buf)-len(data):], data)
	return getU64(buf[:], 0), nil
}

func (s *SEN5x) VersionInfo(ctx context.Context) (VersionInfo, error) {
	raw, err := s.readResponse(ctx, GetVersion, versionSize)
	if err != nil {
		return VersionInfo{}, err
	}
	buf := i2c.StripCRC(raw)
	return VersionInfo{
		FirmwareMajor: getU8(buf, 0),
		FirmwareMinor: getU8(buf, 1),
		FirmwareDebug: getBool(buf, 2),
		HardwareMajor: getU8(buf, 3),
		HardwareMinor: getU8(buf, 4),
		ProtocolMajor: getU8(buf, 5),
		ProtocolMinor: getU8(buf, 6),
	}, nil
}

// ProductName returns the product name, e.g. "SEN55".
func (s *SEN5x) ProductName(ctx context.Context) (string, error) {
	raw, err := s.readResponse(ctx, GetProductName, productNameSize)
	if err != nil {
		return "", err
	}
	buf := i2c.StripCRC(raw)
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}

func (s *SEN5x) ReadDeviceStatus(ctx context.Context) (DeviceStatus, error) {
	raw, err := s.readResponse(ctx, ReadDeviceStatus, deviceStatusSize)
	if err != nil {
		return 0, err
	}
	return DeviceStatus(getU32(i2c.StripCRC(raw), 0)), nil
}

// StartMeasurement starts periodic measurement of all values.
func (s *SEN5x) StartMeasurement(ctx context.Context) error {
	return s.writeCommand(ctx, StartMeasurement)
}

// StartMeasurementWithoutPM starts periodic measurement with the PM sensor
// (laser and fan) off.
func (s *SEN5x) StartMeasurementWithoutPM(ctx context.Context) error {
	return s.writeCommand(ctx, StartMeasurementWithoutPm)
}

func (s *SEN5x) StopMeasurement(ctx context.Context) error {
	return s.writeCommand(ctx, StopMeasurement)
}

// StartFanCleaning runs the fan at maximum speed for 10 seconds. It is only
// accepted while measuring.
func (s *SEN5x) StartFanCleaning(ctx context.Context) error {
	return s.writeCommand(ctx, StartFanCleaning)
}

func (s *SEN5x) GetWarmStartParameter(ctx context.Context) (uint16, error) {
	raw, err := s.readResponse(ctx, GetWarmStartParameter, warmStartSize)
	if err != nil {
		return 0, err
	}
	return getU16(i2c.StripCRC(raw), 0), nil
}

// SetWarmStartParameter sets the warm start behaviour of the NOx/VOC
// algorithms; 0 is a cold start, 65535 the warmest start.
func (s *SEN5x) SetWarmStartParameter(ctx context.Context, value uint16) error {
	return s.writeCommandWithWords(ctx, SetWarmStartParameter, value)
}

// SetTemperatureOffsetParameters fails with ErrInternal wrapping ErrOutOfRange
// when a parameter does not fit its device word. Nothing is written then.
func (s *SEN5x) SetTemperatureOffsetParameters(ctx context.Context, params TemperatureOffsetParameters) error {
	words, err := params.words()
	if err != nil {
		return &Error{Kind: KindInternal, Command: SetTemperatureOffsetParameters, Err: err}
	}
	return s.writeCommandWithWords(ctx, SetTemperatureOffsetParameters, words...)
}

// ReadMeasuredValues returns the latest measurement in physical units.
func (s *SEN5x) ReadMeasuredValues(ctx context.Context) (SensorData, error) {
	data, err := s.ReadMeasuredValuesAsIntegers(ctx)
	if err != nil {
		return SensorData{}, err
	}
	return data.Scale(), nil
}

// ReadMeasuredValuesAsIntegers returns the latest measurement as reported by
// the device. Fields are indexed in the validated raw response, one word
// every 3 bytes.
func (s *SEN5x) ReadMeasuredValuesAsIntegers(ctx context.Context) (SensorDataInt, error) {
	buf, err := s.readResponse(ctx, ReadMeasuredValuesAsIntegers, measuredValuesSize)
	if err != nil {
		return SensorDataInt{}, err
	}
	return SensorDataInt{
		MassConcentrationPm1p0:  getU16(buf, 0),
		MassConcentrationPm2p5:  getU16(buf, 3),
		MassConcentrationPm4p0:  getU16(buf, 6),
		MassConcentrationPm10p0: getU16(buf, 9),
		AmbientHumidity:         getI16(buf, 12),
		AmbientTemperature:      getI16(buf, 15),
		VocIndex:                getI16(buf, 18),
		NoxIndex:                getI16(buf, 21),
	}, nil
}

// ReadMeasuredRawValues returns the uncompensated humidity and temperature
// and the raw VOC and NOx ticks. Fields are indexed in the checksum-stripped
// data, one word every 2 bytes.
func (s *SEN5x) ReadMeasuredRawValues(ctx context.Context) (SensorDataRaw, error) {
	raw, err := s.readResponse(ctx, ReadMeasuredRawValues, rawValuesSize)
	if err != nil {
		return SensorDataRaw{}, err
	}
	buf := i2c.StripCRC(raw)
	return SensorDataRaw{
		RawHumidity:    getI16(buf, 0),
		RawTemperature: getI16(buf, 2),
		RawVoc:         getU16(buf, 4),
		RawNox:         getU16(buf, 6),
	}, nil
}

// readResponse writes cmd, waits its settle delay and reads size bytes of
// checksummed words. The returned buffer still contains the CRC bytes.
func (s *SEN5x) readResponse(ctx context.Context, cmd Command, size int) ([]byte, error) {
	if err := s.writeCommand(ctx, cmd); err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if err := i2c.ReadWordsWithCRC(ctx, s.transport, s.addr, buf); err != nil {
		return nil, readError(cmd, err)
	}
	if snsctx.IsVerbose(ctx) {
		snsctx.Logger(ctx).DebugContext(ctx, "sen5x response", "cmd", cmd, "data", hex.EncodeToString(buf))
	}
	return buf, nil
}

func (s *SEN5x) writeCommand(ctx context.Context, cmd Command) error {
	op, delay := cmd.Lookup()
	snsctx.Logger(ctx).DebugContext(ctx, "sen5x command", "cmd", cmd, "opcode", op, "delay", delay)
	if err := i2c.WriteCommand(ctx, s.transport, s.addr, op); err != nil {
		return busError(cmd, err)
	}
	s.delay.Delay(delay)
	return nil
}

func (s *SEN5x) writeCommandWithWords(ctx context.Context, cmd Command, words ...uint16) error {
	op, delay := cmd.Lookup()
	snsctx.Logger(ctx).DebugContext(ctx, "sen5x command", "cmd", cmd, "opcode", op, "delay", delay)
	if snsctx.IsVerbose(ctx) {
		frame := i2c.CommandFrame(op, words...)
		snsctx.Logger(ctx).DebugContext(ctx, "sen5x frame", "cmd", cmd, "data", hex.EncodeToString(frame))
	}
	if err := i2c.WriteCommandWithWords(ctx, s.transport, s.addr, op, words...); err != nil {
		return busError(cmd, err)
	}
	s.delay.Delay(delay)
	return nil
}
