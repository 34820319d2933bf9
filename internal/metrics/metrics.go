// Package metrics collects Prometheus counters for the payment workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records payment and membership workflow events.
type Collector struct {
	paymentsInitiated prometheus.Counter
	reconciliations   *prometheus.CounterVec
	webhooksReceived  prometheus.Counter
	promotions        *prometheus.CounterVec
}

// NewCollector registers the workflow metrics on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		paymentsInitiated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "biotec_payments_initiated_total",
			Help: "Total number of onboarding payments opened with the gateway.",
		}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biotec_payment_reconciliations_total",
			Help: "Payment status reconciliations by resulting status.",
		}, []string{"status"}),
		webhooksReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "biotec_gateway_webhooks_total",
			Help: "Total number of gateway webhook notifications received.",
		}),
		promotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biotec_member_promotions_total",
			Help: "Applicant promotions by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.paymentsInitiated,
		c.reconciliations,
		c.webhooksReceived,
		c.promotions,
	)

	return c
}

// RecordPaymentInitiated counts a payment opened with the gateway.
func (c *Collector) RecordPaymentInitiated() {
	if c == nil {
		return
	}
	c.paymentsInitiated.Inc()
}

// RecordReconciliation counts a reconcile by the status it resolved to.
func (c *Collector) RecordReconciliation(status string) {
	if c == nil {
		return
	}
	c.reconciliations.WithLabelValues(status).Inc()
}

// RecordWebhook counts an inbound gateway webhook.
func (c *Collector) RecordWebhook() {
	if c == nil {
		return
	}
	c.webhooksReceived.Inc()
}

// RecordPromotion counts a promotion attempt by outcome.
func (c *Collector) RecordPromotion(outcome string) {
	if c == nil {
		return
	}
	c.promotions.WithLabelValues(outcome).Inc()
}

// Handler returns the scrape handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
