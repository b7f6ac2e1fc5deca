package air

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Fixed divisors between device integers and physical units.
const (
	pmScale          = 10.0
	humidityScale    = 100.0
	temperatureScale = 200.0
	vocScale         = 10.0
	noxScale         = 10.0

	offsetScale = 200.0
	slopeScale  = 10000.0
)

// Values reported in place of a reading that is not available, e.g. PM
// while measuring without the PM sensor or gas indices during warm up.
const (
	UnavailableUint16 uint16 = 0xFFFF
	UnavailableInt16  int16  = 0x7FFF
)

func ValidUint16(v uint16) bool {
	return v != UnavailableUint16
}

func ValidInt16(v int16) bool {
	return v != UnavailableInt16
}

// SensorDataInt holds measured values exactly as the device reports them.
// Scale does not interpret the unavailable markers; check them with
// ValidUint16 and ValidInt16 first.
type SensorDataInt struct {
	MassConcentrationPm1p0  uint16
	MassConcentrationPm2p5  uint16
	MassConcentrationPm4p0  uint16
	MassConcentrationPm10p0 uint16
	AmbientHumidity         int16
	AmbientTemperature      int16
	VocIndex                int16
	NoxIndex                int16
}

// SensorData holds measured values in physical units.
type SensorData struct {
	// Mass concentration PM1.0 in µg/m³
	MassConcentrationPm1p0 float32
	// Mass concentration PM2.5 in µg/m³
	MassConcentrationPm2p5 float32
	// Mass concentration PM4.0 in µg/m³
	MassConcentrationPm4p0 float32
	// Mass concentration PM10.0 in µg/m³
	MassConcentrationPm10p0 float32
	// Relative humidity in %
	AmbientHumidity float32
	// Temperature in °C
	AmbientTemperature float32
	VocIndex           float32
	NoxIndex           float32
}

// Scale converts device integers to physical units.
func (d SensorDataInt) Scale() SensorData {
	return SensorData{
		MassConcentrationPm1p0:  float32(d.MassConcentrationPm1p0) / pmScale,
		MassConcentrationPm2p5:  float32(d.MassConcentrationPm2p5) / pmScale,
		MassConcentrationPm4p0:  float32(d.MassConcentrationPm4p0) / pmScale,
		MassConcentrationPm10p0: float32(d.MassConcentrationPm10p0) / pmScale,
		AmbientHumidity:         float32(d.AmbientHumidity) / humidityScale,
		AmbientTemperature:      float32(d.AmbientTemperature) / temperatureScale,
		VocIndex:                float32(d.VocIndex) / vocScale,
		NoxIndex:                float32(d.NoxIndex) / noxScale,
	}
}

// Env returns temperature and humidity as periph.io physical values.
// Pressure is not measured by the device.
func (d SensorData) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(float64(physic.Celsius)*float64(d.AmbientTemperature)),
		Humidity:    physic.RelativeHumidity(float64(d.AmbientHumidity) * float64(physic.PercentRH)),
	}
}

func (d SensorData) String() string {
	return fmt.Sprintf("PM1.0 %.1f µg/m³, PM2.5 %.1f µg/m³, PM4.0 %.1f µg/m³, PM10 %.1f µg/m³, RH %.2f%%, T %.2f°C, VOC %.1f, NOx %.1f",
		d.MassConcentrationPm1p0, d.MassConcentrationPm2p5, d.MassConcentrationPm4p0, d.MassConcentrationPm10p0,
		d.AmbientHumidity, d.AmbientTemperature, d.VocIndex, d.NoxIndex)
}

// SensorDataRaw holds the raw (uncompensated) humidity, temperature and gas
// sensor ticks.
type SensorDataRaw struct {
	RawHumidity    int16
	RawTemperature int16
	RawVoc         uint16
	RawNox         uint16
}

type VersionInfo struct {
	FirmwareMajor uint8
	FirmwareMinor uint8
	FirmwareDebug bool
	HardwareMajor uint8
	HardwareMinor uint8
	ProtocolMajor uint8
	ProtocolMinor uint8
}

func (v VersionInfo) String() string {
	fw := fmt.Sprintf("%d.%d", v.FirmwareMajor, v.FirmwareMinor)
	if v.FirmwareDebug {
		fw += "-debug"
	}
	return fmt.Sprintf("firmware %s, hardware %d.%d, protocol %d.%d",
		fw, v.HardwareMajor, v.HardwareMinor, v.ProtocolMajor, v.ProtocolMinor)
}

// DeviceStatus is the device status register.
type DeviceStatus uint32

const (
	StatusFanSpeedWarning DeviceStatus = 1 << 21
	StatusFanCleaning     DeviceStatus = 1 << 19
	StatusGasSensorError  DeviceStatus = 1 << 7
	StatusRHTError        DeviceStatus = 1 << 6
	StatusLaserFailure    DeviceStatus = 1 << 5
	StatusFanFailure      DeviceStatus = 1 << 4
)

var statusNames = []struct {
	flag DeviceStatus
	name string
}{
	{StatusFanSpeedWarning, "fan speed warning"},
	{StatusFanCleaning, "fan cleaning"},
	{StatusGasSensorError, "gas sensor error"},
	{StatusRHTError, "rht error"},
	{StatusLaserFailure, "laser failure"},
	{StatusFanFailure, "fan failure"},
}

func (s DeviceStatus) Has(flag DeviceStatus) bool {
	return s&flag != 0
}

// Errors reports whether any error flag is set. Fan speed warning and fan
// cleaning are informational.
func (s DeviceStatus) Errors() bool {
	return s.Has(StatusGasSensorError | StatusRHTError | StatusLaserFailure | StatusFanFailure)
}

func (s DeviceStatus) String() string {
	if s == 0 {
		return "ok"
	}
	var flags []string
	for _, n := range statusNames {
		if s.Has(n.flag) {
			flags = append(flags, n.name)
		}
	}
	if len(flags) == 0 {
		return fmt.Sprintf("%#08x", uint32(s))
	}
	return strings.Join(flags, ", ")
}

// TemperatureOffsetParameters compensate the temperature reading for heat
// coming from the device housing.
type TemperatureOffsetParameters struct {
	// Offset in °C
	Offset float32
	// Slope is the offset change per °C of the ambient temperature.
	Slope float32
	// TimeConstant of the compensation; 0 applies changes immediately.
	TimeConstant time.Duration
}

// ErrOutOfRange is returned for parameters that do not fit their device word.
var ErrOutOfRange = errors.New("value out of range")

// words encodes the parameters as device words. Offset and slope must fit
// a signed word once scaled, the time constant must be 0 to 65535 s.
func (p TemperatureOffsetParameters) words() ([]uint16, error) {
	offset, err := signedWord(float64(p.Offset) * offsetScale)
	if err != nil {
		return nil, fmt.Errorf("offset %v °C: %w", p.Offset, err)
	}
	slope, err := signedWord(float64(p.Slope) * slopeScale)
	if err != nil {
		return nil, fmt.Errorf("slope %v: %w", p.Slope, err)
	}
	seconds := p.TimeConstant / time.Second
	if seconds < 0 || seconds > math.MaxUint16 {
		return nil, fmt.Errorf("time constant %s: %w", p.TimeConstant, ErrOutOfRange)
	}
	return []uint16{uint16(offset), uint16(slope), uint16(seconds)}, nil
}

func signedWord(v float64) (int16, error) {
	v = math.Round(v)
	// also rejects NaN
	if !(v >= math.MinInt16 && v <= math.MaxInt16) {
		return 0, ErrOutOfRange
	}
	return int16(v), nil
}
