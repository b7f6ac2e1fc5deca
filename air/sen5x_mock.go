package air

import (
	"context"
	"sync"
)

// MeasurementBehaviorFunc defines the function signature for measurement behavior.
// It returns values in device integer units or an error.
type MeasurementBehaviorFunc func(ctx context.Context) (SensorDataInt, error)

// MockSEN5x is a mock implementation of the SEN5x measurement interface
// that uses a behavior function to produce readings without requiring hardware.
type MockSEN5x struct {
	mx       sync.Mutex
	behavior MeasurementBehaviorFunc
	running  bool
}

// NewMockSEN5x creates a new mock sensor with the given behavior function.
// The behavior function is called whenever measured values are read.
//
// Example usage:
//
//	sensor := NewMockSEN5x(func(ctx context.Context) (SensorDataInt, error) {
//		return SensorDataInt{MassConcentrationPm2p5: 123, AmbientTemperature: 4500}, nil
//	})
func NewMockSEN5x(behavior MeasurementBehaviorFunc) *MockSEN5x {
	return &MockSEN5x{behavior: behavior}
}

// StaticMeasurement returns a behavior that always reports data.
func StaticMeasurement(data SensorDataInt) MeasurementBehaviorFunc {
	return func(ctx context.Context) (SensorDataInt, error) {
		return data, nil
	}
}

func (m *MockSEN5x) StartMeasurement(ctx context.Context) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.running = true
	return nil
}

func (m *MockSEN5x) StopMeasurement(ctx context.Context) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.running = false
	return nil
}

// Running reports whether StartMeasurement was called without a later StopMeasurement.
func (m *MockSEN5x) Running() bool {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.running
}

// ReadMeasuredValuesAsIntegers returns the reading by calling the behavior function.
func (m *MockSEN5x) ReadMeasuredValuesAsIntegers(ctx context.Context) (SensorDataInt, error) {
	return m.behavior(ctx)
}

// ReadMeasuredValues returns the scaled reading of the behavior function.
func (m *MockSEN5x) ReadMeasuredValues(ctx context.Context) (SensorData, error) {
	data, err := m.behavior(ctx)
	if err != nil {
		return SensorData{}, err
	}
	return data.Scale(), nil
}
