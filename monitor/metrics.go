package monitor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mklimuk/sen5x/air"
)

const namespace = "sen5x"

// Metrics holds the gauges exported for a single sensor.
type Metrics struct {
	MassConcentration *prometheus.GaugeVec
	// label-less vectors so that unavailable values can be removed
	Humidity          *prometheus.GaugeVec
	Temperature       *prometheus.GaugeVec
	VocIndex          *prometheus.GaugeVec
	NoxIndex          *prometheus.GaugeVec
	ReadErrors        prometheus.Counter
	LastRead          prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MassConcentration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mass_concentration_ugm3",
			Help:      "Particulate matter mass concentration in µg/m³.",
		}, []string{"size"}),
		Humidity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ambient_humidity_percent",
			Help:      "Compensated ambient relative humidity.",
		}, nil),
		Temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ambient_temperature_celsius",
			Help:      "Compensated ambient temperature.",
		}, nil),
		VocIndex: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "voc_index",
			Help:      "VOC index, 1 to 500.",
		}, nil),
		NoxIndex: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nox_index",
			Help:      "NOx index, 1 to 500.",
		}, nil),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Number of failed measurement reads.",
		}),
		LastRead: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_read_timestamp_seconds",
			Help:      "Unix time of the last successful read.",
		}),
	}
	reg.MustRegister(
		m.MassConcentration,
		m.Humidity,
		m.Temperature,
		m.VocIndex,
		m.NoxIndex,
		m.ReadErrors,
		m.LastRead,
	)
	return m
}

// Observe updates the gauges from a single reading. Gauges of values the
// device reports as unavailable are removed until a valid value arrives.
func (m *Metrics) Observe(data air.SensorDataInt) {
	scaled := data.Scale()
	setGauge(m.MassConcentration, air.ValidUint16(data.MassConcentrationPm1p0), scaled.MassConcentrationPm1p0, "pm1.0")
	setGauge(m.MassConcentration, air.ValidUint16(data.MassConcentrationPm2p5), scaled.MassConcentrationPm2p5, "pm2.5")
	setGauge(m.MassConcentration, air.ValidUint16(data.MassConcentrationPm4p0), scaled.MassConcentrationPm4p0, "pm4.0")
	setGauge(m.MassConcentration, air.ValidUint16(data.MassConcentrationPm10p0), scaled.MassConcentrationPm10p0, "pm10")
	setGauge(m.Humidity, air.ValidInt16(data.AmbientHumidity), scaled.AmbientHumidity)
	setGauge(m.Temperature, air.ValidInt16(data.AmbientTemperature), scaled.AmbientTemperature)
	setGauge(m.VocIndex, air.ValidInt16(data.VocIndex), scaled.VocIndex)
	setGauge(m.NoxIndex, air.ValidInt16(data.NoxIndex), scaled.NoxIndex)
}

func setGauge(vec *prometheus.GaugeVec, valid bool, value float32, labels ...string) {
	if !valid {
		vec.DeleteLabelValues(labels...)
		return
	}
	vec.WithLabelValues(labels...).Set(float64(value))
}
