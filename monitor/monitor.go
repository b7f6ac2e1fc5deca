package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mklimuk/sen5x/air"
	"github.com/mklimuk/sen5x/snsctx"
)

// Monitor polls a measuring sensor and exports the readings.
type Monitor struct {
	sensor   air.Sensor
	interval time.Duration
	registry *prometheus.Registry
	metrics  *Metrics
	now      func() time.Time
}

func New(sensor air.Sensor, interval time.Duration) *Monitor {
	reg := prometheus.NewRegistry()
	return &Monitor{
		sensor:   sensor,
		interval: interval,
		registry: reg,
		metrics:  NewMetrics(reg),
		now:      time.Now,
	}
}

func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Monitor) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Poll performs a single read and updates the metrics.
func (m *Monitor) Poll(ctx context.Context) error {
	data, err := m.sensor.ReadMeasuredValuesAsIntegers(ctx)
	if err != nil {
		m.metrics.ReadErrors.Inc()
		return err
	}
	m.metrics.Observe(data)
	m.metrics.LastRead.Set(float64(m.now().Unix()))
	snsctx.Logger(ctx).DebugContext(ctx, "measurement", "data", data)
	return nil
}

// Run starts measurement and polls until ctx is done. Measurement is stopped
// on return. Read errors are logged and do not end the loop.
func (m *Monitor) Run(ctx context.Context) error {
	log := snsctx.Logger(ctx)
	if err := m.sensor.StartMeasurement(ctx); err != nil {
		return fmt.Errorf("could not start measurement: %w", err)
	}
	defer func() {
		// ctx is already cancelled at this point
		if err := m.sensor.StopMeasurement(context.WithoutCancel(ctx)); err != nil {
			log.Error("could not stop measurement", "error", err)
		}
	}()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.Poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WarnContext(ctx, "measurement read failed", "error", err)
			}
		}
	}
}

// ListenAndServe serves Handler on addr until ctx is done.
func (m *Monitor) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	snsctx.Logger(ctx).InfoContext(ctx, "metrics server started", "addr", addr)
	select {
	case err := <-errs:
		return fmt.Errorf("metrics server error: %w", err)
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}
