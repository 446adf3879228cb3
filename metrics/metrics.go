// Package metrics exposes Prometheus collectors for the admission engine
// and the search API.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	admissions *prometheus.CounterVec
	searches   *prometheus.CounterVec
}

// New registers the service collectors on reg. The sizeFn gauge reports the
// limiter store's tracked-client count at scrape time.
func New(reg prometheus.Registerer, sizeFn func() int) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		admissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterd_admissions_total",
			Help: "Admission verdicts issued by the rate limiter.",
		}, []string{"outcome"}),
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterd_search_requests_total",
			Help: "Employee search requests by HTTP status.",
		}, []string{"status"}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rosterd_tracked_clients",
		Help: "Clients currently tracked by the limiter store.",
	}, func() float64 { return float64(sizeFn()) })

	return m
}

// RecordAdmission implements ratelimit.Recorder.
func (m *Metrics) RecordAdmission(admitted bool) {
	outcome := "denied"
	if admitted {
		outcome = "admitted"
	}
	m.admissions.WithLabelValues(outcome).Inc()
}

// RecordSearch counts one search request by response status.
func (m *Metrics) RecordSearch(status int) {
	m.searches.WithLabelValues(strconv.Itoa(status)).Inc()
}
