package air

import (
	"fmt"
	"time"
)

// Command is one of the SEN5x I2C commands.
type Command uint8

const (
	DeviceReset Command = iota
	GetSerialNumber
	GetVersion
	GetProductName
	ReadDeviceStatus
	SetTemperatureOffsetParameters
	StartMeasurement
	StartMeasurementWithoutPm
	StopMeasurement
	ReadMeasuredValuesAsIntegers
	ReadMeasuredRawValues
	StartFanCleaning
	// GetWarmStartParameter and SetWarmStartParameter address the same register.
	GetWarmStartParameter
	SetWarmStartParameter
)

// Commands lists every command in declaration order.
var Commands = []Command{
	DeviceReset,
	GetSerialNumber,
	GetVersion,
	GetProductName,
	ReadDeviceStatus,
	SetTemperatureOffsetParameters,
	StartMeasurement,
	StartMeasurementWithoutPm,
	StopMeasurement,
	ReadMeasuredValuesAsIntegers,
	ReadMeasuredRawValues,
	StartFanCleaning,
	GetWarmStartParameter,
	SetWarmStartParameter,
}

// Lookup returns the wire opcode and the time the device needs after the
// command is written before it accepts a read or the next command.
func (c Command) Lookup() (uint16, time.Duration) {
	switch c {
	case DeviceReset:
		return 0xD304, 200 * time.Millisecond
	case GetSerialNumber:
		return 0xD033, 50 * time.Millisecond
	case GetVersion:
		return 0xD100, 20 * time.Millisecond
	case GetProductName:
		return 0xD014, 50 * time.Millisecond
	case ReadDeviceStatus:
		return 0xD206, 20 * time.Millisecond
	case SetTemperatureOffsetParameters:
		return 0x60B2, 20 * time.Millisecond
	case StartMeasurement:
		return 0x0021, 50 * time.Millisecond
	case StartMeasurementWithoutPm:
		return 0x0037, 50 * time.Millisecond
	case StopMeasurement:
		return 0x0104, 50 * time.Millisecond
	case ReadMeasuredValuesAsIntegers:
		return 0x03C4, 20 * time.Millisecond
	case ReadMeasuredRawValues:
		return 0x03D2, 20 * time.Millisecond
	case StartFanCleaning:
		return 0x5607, 20 * time.Millisecond
	case GetWarmStartParameter, SetWarmStartParameter:
		return 0x60C6, 20 * time.Millisecond
	}
	panic(fmt.Sprintf("sen5x: unknown command %d", uint8(c)))
}

// Opcode returns the 16-bit command word.
func (c Command) Opcode() uint16 {
	op, _ := c.Lookup()
	return op
}

// Delay returns the settle delay of the command.
func (c Command) Delay() time.Duration {
	_, d := c.Lookup()
	return d
}

func (c Command) String() string {
	switch c {
	case DeviceReset:
		return "device reset"
	case GetSerialNumber:
		return "get serial number"
	case GetVersion:
		return "get version"
	case GetProductName:
		return "get product name"
	case ReadDeviceStatus:
		return "read device status"
	case SetTemperatureOffsetParameters:
		return "set temperature offset parameters"
	case StartMeasurement:
		return "start measurement"
	case StartMeasurementWithoutPm:
		return "start measurement without pm"
	case StopMeasurement:
		return "stop measurement"
	case ReadMeasuredValuesAsIntegers:
		return "read measured values"
	case ReadMeasuredRawValues:
		return "read measured raw values"
	case StartFanCleaning:
		return "start fan cleaning"
	case GetWarmStartParameter:
		return "get warm start parameter"
	case SetWarmStartParameter:
		return "set warm start parameter"
	}
	return fmt.Sprintf("command(%d)", uint8(c))
}
