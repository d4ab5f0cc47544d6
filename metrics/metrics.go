package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine level counters. Registered on the default registerer, exposed
// through Handler.
var (
	MakerRegistrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lumen",
		Subsystem: "registry",
		Name:      "maker_registrations_total",
		Help:      "Total number of market maker registrations",
	})

	QuotesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lumen",
		Subsystem: "registry",
		Name:      "quotes_posted_total",
		Help:      "Total number of quotes posted",
	})

	QuotesCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lumen",
		Subsystem: "registry",
		Name:      "quotes_cancelled_total",
		Help:      "Total number of quotes cancelled",
	})

	FillsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lumen",
		Subsystem: "registry",
		Name:      "fills_total",
		Help:      "Total number of fills matched against resting quotes",
	})

	FillVolume = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lumen",
		Subsystem: "registry",
		Name:      "fill_volume",
		Help:      "Cumulative filled notional at the fixed point scale",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
