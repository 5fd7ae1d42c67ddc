// Package metrics exports dashboard fetch and mutation counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/listctl"
)

const namespace = "hrdash"

// Observer implements listctl.Observer with Prometheus counters.
type Observer struct {
	fetchTotal    *prometheus.CounterVec
	mutationTotal *prometheus.CounterVec
	apiRequests   *prometheus.CounterVec
}

var _ listctl.Observer = (*Observer)(nil)

// NewObserver registers the dashboard collectors on reg. A nil reg uses the
// default registry.
func NewObserver(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Observer{
		fetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_fetch_total",
			Help:      "Listing requests by screen and outcome (ready, failed, stale).",
		}, []string{"screen", "outcome"}),
		mutationTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutation_total",
			Help:      "Create, update, delete and custom actions by screen, action and result.",
		}, []string{"screen", "action", "result"}),
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_client_requests_total",
			Help:      "Outbound HR API requests by method and result.",
		}, []string{"method", "result"}),
	}
}

// FetchDone counts a finished listing request.
func (o *Observer) FetchDone(screen string, outcome listctl.FetchOutcome) {
	o.fetchTotal.WithLabelValues(screen, string(outcome)).Inc()
}

// MutationDone counts a finished mutation.
func (o *Observer) MutationDone(screen string, action listctl.Action, err error) {
	o.mutationTotal.WithLabelValues(screen, string(action), Result(err)).Inc()
}

// APIRequest counts one outbound HR API request.
func (o *Observer) APIRequest(method string, err error) {
	o.apiRequests.WithLabelValues(method, Result(err)).Inc()
}

// Result maps an error to a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err):
		return "invalid"
	case domain.IsBusy(err):
		return "busy"
	case domain.IsNetworkError(err):
		return "network_error"
	default:
		return "error"
	}
}

// Handler serves the metrics of g. A nil g serves the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
