package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles Prometheus metrics for the simulation engine.
// It implements core.MetricsRecorder so it can be wired straight into
// the engine's tick path.
type SimCollector struct {
	gatherer prometheus.Gatherer

	TickDuration prometheus.Histogram

	Satellites    prometheus.Gauge
	Stations      prometheus.Gauge
	Transmissions prometheus.Gauge
	Interference  prometheus.Gauge

	SatellitesExpired  prometheus.Counter
	InterferenceTotal  prometheus.Counter
	TransmissionsTotal prometheus.Counter
}

// NewSimCollector registers simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	tickDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "satsim_tick_duration_seconds",
		Help:    "Wall-clock time spent inside Engine.Tick.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "satsim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	satellites, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satsim_satellites",
		Help: "Current number of satellites in the simulation.",
	}), "satsim_satellites")
	if err != nil {
		return nil, err
	}
	stations, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satsim_ground_stations",
		Help: "Current number of ground stations in the simulation.",
	}), "satsim_ground_stations")
	if err != nil {
		return nil, err
	}
	transmissions, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satsim_transmissions",
		Help: "Current number of in-flight signal transmissions.",
	}), "satsim_transmissions")
	if err != nil {
		return nil, err
	}
	interference, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satsim_interference_zones",
		Help: "Current number of active interference zones.",
	}), "satsim_interference_zones")
	if err != nil {
		return nil, err
	}

	expired, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "satsim_satellites_expired_total",
		Help: "Satellites removed after exceeding their TTL.",
	}), "satsim_satellites_expired_total")
	if err != nil {
		return nil, err
	}
	spawned, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "satsim_interference_spawned_total",
		Help: "Interference zones spawned stochastically by ticks.",
	}), "satsim_interference_spawned_total")
	if err != nil {
		return nil, err
	}
	txTotal, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "satsim_transmissions_total",
		Help: "Signal transmissions created, explicit and opportunistic.",
	}), "satsim_transmissions_total")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:           gatherer,
		TickDuration:       tickDuration,
		Satellites:         satellites,
		Stations:           stations,
		Transmissions:      transmissions,
		Interference:       interference,
		SatellitesExpired:  expired,
		InterferenceTotal:  spawned,
		TransmissionsTotal: txTotal,
	}, nil
}

// ObserveTick satisfies core.MetricsRecorder.
func (c *SimCollector) ObserveTick(d time.Duration) {
	if c == nil || c.TickDuration == nil {
		return
	}
	c.TickDuration.Observe(d.Seconds())
}

// SetEntityCounts satisfies core.MetricsRecorder.
func (c *SimCollector) SetEntityCounts(satellites, stations, transmissions, interference int) {
	if c == nil {
		return
	}
	c.Satellites.Set(float64(satellites))
	c.Stations.Set(float64(stations))
	c.Transmissions.Set(float64(transmissions))
	c.Interference.Set(float64(interference))
}

// SatelliteExpired satisfies core.MetricsRecorder.
func (c *SimCollector) SatelliteExpired() {
	if c != nil {
		c.SatellitesExpired.Inc()
	}
}

// InterferenceSpawned satisfies core.MetricsRecorder.
func (c *SimCollector) InterferenceSpawned() {
	if c != nil {
		c.InterferenceTotal.Inc()
	}
}

// TransmissionStarted satisfies core.MetricsRecorder.
func (c *SimCollector) TransmissionStarted() {
	if c != nil {
		c.TransmissionsTotal.Inc()
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
