// Package metrics records billing operation counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Recorder struct {
	upgrades           *prometheus.CounterVec
	downgrades         prometheus.Counter
	sourceReplacements prometheus.Counter
	billingErrors      *prometheus.CounterVec
}

func NewRecorder(reg *prometheus.Registry) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		upgrades: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "seatwise_upgrades_total",
			Help: "Completed plan upgrades by billing schedule.",
		}, []string{"schedule"}),
		downgrades: factory.NewCounter(prometheus.CounterOpts{
			Name: "seatwise_downgrades_total",
			Help: "Completed downgrades to the free plan.",
		}),
		sourceReplacements: factory.NewCounter(prometheus.CounterOpts{
			Name: "seatwise_payment_source_replacements_total",
			Help: "Successful default payment source replacements.",
		}),
		billingErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "seatwise_billing_errors_total",
			Help: "Classified billing errors by stable code.",
		}, []string{"code"}),
	}
}

func (r *Recorder) RecordUpgrade(schedule string) {
	r.upgrades.WithLabelValues(schedule).Inc()
}

func (r *Recorder) RecordDowngrade() {
	r.downgrades.Inc()
}

func (r *Recorder) RecordSourceReplacement() {
	r.sourceReplacements.Inc()
}

func (r *Recorder) RecordBillingError(code string) {
	r.billingErrors.WithLabelValues(code).Inc()
}
