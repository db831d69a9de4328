package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking and import counters. Registered on the default registry; the
// /metrics endpoint serves them when enabled in config.
var (
	BookingsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voorraad_bookings_committed_total",
		Help: "Bookings that passed validation and committed.",
	})
	BookingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voorraad_bookings_rejected_total",
		Help: "Bookings rejected before commit, by reason.",
	}, []string{"reason"})
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voorraad_import_rows_total",
		Help: "Bulk import rows, by outcome.",
	}, []string{"outcome"})
)

// Handler serves the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
