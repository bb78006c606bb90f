package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "river_monitor"

// Metrics holds the Prometheus counters and gauges for the monitoring node.
type Metrics struct {
	ReportsGenerated *prometheus.CounterVec // labels: trigger={periodic,button,web}
	RiskLevel        prometheus.Gauge       // 0 safe .. 3 danger
	RiverLevel       prometheus.Gauge
	RainIntensity    prometheus.Gauge
	LevelOutOfRange  prometheus.Gauge
	LoopRunning      prometheus.Gauge

	// Button debounce.
	ButtonEdges *prometheus.CounterVec // labels: result={accepted,ignored}

	// Report listener.
	WebRequests         *prometheus.CounterVec // labels: path
	RejectedConnections prometheus.Counter

	// Connectivity.
	ConnectAttempts prometheus.Counter
	NetworkUp       prometheus.Gauge

	// Report sinks.
	SinkDeliveries *prometheus.CounterVec // labels: sink, outcome={success,error}
	SinkDrops      prometheus.Counter
}

// NewMetrics creates and registers all node metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_generated_total",
			Help:      "Reports generated, by trigger source.",
		}, []string{"trigger"}),
		RiskLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "risk_level",
			Help:      "Risk level of the latest classification (0 safe, 1 attention, 2 alert, 3 danger).",
		}),
		RiverLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "river_level_meters",
			Help:      "Latest derived river level.",
		}),
		RainIntensity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rain_intensity_percent",
			Help:      "Latest derived rain intensity.",
		}),
		LevelOutOfRange: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "level_out_of_range",
			Help:      "1 when the latest river level left the expected [0, 2*baseline] band.",
		}),
		LoopRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loop_running",
			Help:      "1 when the main loop is active, 0 when shut down.",
		}),
		ButtonEdges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "button_edges_total",
			Help:      "Button edges seen, by debounce result.",
		}, []string{"result"}),
		WebRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "web_requests_total",
			Help:      "Requests served by the report listener, by path.",
		}, []string{"path"}),
		RejectedConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "web_rejected_connections_total",
			Help:      "Connections closed without a response after a read or parse failure.",
		}),
		ConnectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Network bring-up attempts.",
		}),
		NetworkUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_up",
			Help:      "1 when the report listener is bound and serving.",
		}),
		SinkDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_deliveries_total",
			Help:      "Report deliveries to external sinks, by sink and outcome.",
		}, []string{"sink", "outcome"}),
		SinkDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_drops_total",
			Help:      "Reports dropped because the sink queue was full.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ReportsGenerated,
		m.RiskLevel,
		m.RiverLevel,
		m.RainIntensity,
		m.LevelOutOfRange,
		m.LoopRunning,
		m.ButtonEdges,
		m.WebRequests,
		m.RejectedConnections,
		m.ConnectAttempts,
		m.NetworkUp,
		m.SinkDeliveries,
		m.SinkDrops,
	}
}
