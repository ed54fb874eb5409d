// SPDX-License-Identifier: MIT

package mixture

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by EM and the structural
// operators. A nil *Metrics is valid and records nothing.
type Metrics struct {
	iterations    prometheus.Counter
	messageLength *prometheus.GaugeVec
	operations    *prometheus.CounterVec
	failures      *prometheus.CounterVec
	components    prometheus.Histogram
}

// NewMetrics registers the collectors on reg. A nil reg returns nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)

	return &Metrics{
		iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "kentmix",
			Name:      "em_iterations_total",
			Help:      "Total number of EM iterations run",
		}),
		messageLength: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "kentmix",
			Name:      "message_length_bits",
			Help:      "Message length of the last converged mixture, by number of components",
		}, []string{"components"}),
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kentmix",
			Name:      "structural_operations_total",
			Help:      "Split, kill and join operations run",
		}, []string{"op"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kentmix",
			Name:      "em_failures_total",
			Help:      "EM runs aborted, by reason",
		}, []string{"reason"}),
		components: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kentmix",
			Name:      "components_fitted",
			Help:      "Number of components of each converged mixture",
			Buckets:   prometheus.LinearBuckets(1, 1, 20),
		}),
	}
}

func (m *Metrics) iteration() {
	if m == nil {
		return
	}
	m.iterations.Inc()
}

func (m *Metrics) converged(k int, msglen float64) {
	if m == nil {
		return
	}
	m.messageLength.WithLabelValues(strconv.Itoa(k)).Set(msglen)
	m.components.Observe(float64(k))
}

func (m *Metrics) operation(op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

func (m *Metrics) failure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}
