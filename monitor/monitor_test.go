package monitor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/sen5x/air"
)

var reading = air.SensorDataInt{
	MassConcentrationPm1p0:  12,
	MassConcentrationPm2p5:  25,
	MassConcentrationPm4p0:  31,
	MassConcentrationPm10p0: 40,
	AmbientHumidity:         4550,
	AmbientTemperature:      4500,
	VocIndex:                1000,
	NoxIndex:                10,
}

func TestObserve(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.Observe(reading)
	assert.InDelta(t, 2.5, testutil.ToFloat64(m.MassConcentration.WithLabelValues("pm2.5")), 0.001)
	assert.InDelta(t, 4.0, testutil.ToFloat64(m.MassConcentration.WithLabelValues("pm10")), 0.001)
	assert.InDelta(t, 45.5, testutil.ToFloat64(m.Humidity), 0.001)
	assert.InDelta(t, 22.5, testutil.ToFloat64(m.Temperature), 0.001)
	assert.InDelta(t, 100, testutil.ToFloat64(m.VocIndex), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.NoxIndex), 0.001)
}

func TestObserveUnavailable(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.Observe(reading)
	withoutPM := reading
	withoutPM.MassConcentrationPm1p0 = air.UnavailableUint16
	withoutPM.MassConcentrationPm2p5 = air.UnavailableUint16
	withoutPM.MassConcentrationPm4p0 = air.UnavailableUint16
	withoutPM.MassConcentrationPm10p0 = air.UnavailableUint16
	withoutPM.NoxIndex = air.UnavailableInt16
	m.Observe(withoutPM)

	assert.Equal(t, 0, testutil.CollectAndCount(m.MassConcentration))
	assert.Equal(t, 0, testutil.CollectAndCount(m.NoxIndex))
	assert.InDelta(t, 22.5, testutil.ToFloat64(m.Temperature), 0.001)
	assert.InDelta(t, 100, testutil.ToFloat64(m.VocIndex), 0.001)

	m.Observe(reading)
	assert.Equal(t, 4, testutil.CollectAndCount(m.MassConcentration))
	assert.InDelta(t, 1, testutil.ToFloat64(m.NoxIndex), 0.001)
}

func TestPollUnavailable(t *testing.T) {
	withoutPM := reading
	withoutPM.MassConcentrationPm2p5 = air.UnavailableUint16
	withoutPM.NoxIndex = air.UnavailableInt16
	mon := New(air.NewMockSEN5x(air.StaticMeasurement(withoutPM)), time.Second)
	require.NoError(t, mon.Poll(context.Background()))
	srv := httptest.NewServer(mon.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `size="pm2.5"`)
	assert.NotContains(t, string(body), "\nsen5x_nox_index ")
	assert.Contains(t, string(body), `sen5x_mass_concentration_ugm3{size="pm1.0"} 1.2`)
}

func TestPoll(t *testing.T) {
	mon := New(air.NewMockSEN5x(air.StaticMeasurement(reading)), time.Second)
	mon.now = func() time.Time { return time.Unix(1700000000, 0) }
	require.NoError(t, mon.Poll(context.Background()))
	assert.InDelta(t, 22.5, testutil.ToFloat64(mon.Metrics().Temperature), 0.001)
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(mon.Metrics().LastRead))
	assert.Equal(t, float64(0), testutil.ToFloat64(mon.Metrics().ReadErrors))
}

func TestPollError(t *testing.T) {
	readErr := errors.New("i2c down")
	mon := New(air.NewMockSEN5x(func(ctx context.Context) (air.SensorDataInt, error) {
		return air.SensorDataInt{}, readErr
	}), time.Second)
	err := mon.Poll(context.Background())
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, float64(1), testutil.ToFloat64(mon.Metrics().ReadErrors))
}

func TestRun(t *testing.T) {
	reads := make(chan struct{}, 10)
	sensor := air.NewMockSEN5x(func(ctx context.Context) (air.SensorDataInt, error) {
		select {
		case reads <- struct{}{}:
		default:
		}
		return reading, nil
	})
	mon := New(sensor, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- mon.Run(ctx)
	}()
	select {
	case <-reads:
	case <-time.After(2 * time.Second):
		t.Fatal("no measurement read")
	}
	assert.True(t, sensor.Running())
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}
	assert.False(t, sensor.Running())
}

func TestHandler(t *testing.T) {
	mon := New(air.NewMockSEN5x(air.StaticMeasurement(reading)), time.Second)
	require.NoError(t, mon.Poll(context.Background()))
	srv := httptest.NewServer(mon.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `sen5x_mass_concentration_ugm3{size="pm2.5"} 2.5`)
	assert.Contains(t, string(body), "sen5x_ambient_temperature_celsius 22.5")

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
