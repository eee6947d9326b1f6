package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the engine's Prometheus collectors.
type Metrics struct {
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	QuotesCreated  prometheus.Counter
	SoloRejections prometheus.Counter
	Confirmations  *prometheus.CounterVec
	SlotsComputed  prometheus.Counter
}

// NewMetrics registers the engine collectors on reg (the default registerer
// when nil). Already-registered collectors are reused so tests can build
// multiple instances.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by path and status",
		}, []string{"path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "End-to-end HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		QuotesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotes_created_total",
			Help: "Quotes locked",
		}),
		SoloRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quote_solo_rejections_total",
			Help: "Quote attempts rejected by the solo-minimum rule",
		}),
		Confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_confirmations_total",
			Help: "Webhook confirmations by outcome",
		}, []string{"outcome"}),
		SlotsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slot_listings_total",
			Help: "Slot listing computations",
		}),
	}

	collectors := []prometheus.Collector{
		m.HTTPRequests, m.HTTPDuration, m.QuotesCreated,
		m.SoloRejections, m.Confirmations, m.SlotsComputed,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				m.HTTPRequests = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				m.HTTPDuration = are.ExistingCollector.(*prometheus.HistogramVec)
			case 2:
				m.QuotesCreated = are.ExistingCollector.(prometheus.Counter)
			case 3:
				m.SoloRejections = are.ExistingCollector.(prometheus.Counter)
			case 4:
				m.Confirmations = are.ExistingCollector.(*prometheus.CounterVec)
			case 5:
				m.SlotsComputed = are.ExistingCollector.(prometheus.Counter)
			}
		}
	}

	return m, nil
}
