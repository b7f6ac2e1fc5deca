package air

import "context"

// Sensor is the measurement subset of SEN5x, implemented by the driver and
// by MockSEN5x.
type Sensor interface {
	StartMeasurement(ctx context.Context) error
	StopMeasurement(ctx context.Context) error
	ReadMeasuredValues(ctx context.Context) (SensorData, error)
	ReadMeasuredValuesAsIntegers(ctx context.Context) (SensorDataInt, error)
}

var (
	_ Sensor = &SEN5x{}
	_ Sensor = &MockSEN5x{}
)
