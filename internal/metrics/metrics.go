// Package metrics counts the client core's coordination events. A nil
// *Recorder is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront_client"

type Recorder struct {
	Refreshes     *prometheus.CounterVec
	QueuedRetries prometheus.Counter
	Logouts       prometheus.Counter
	CartAdds      *prometheus.CounterVec
	CartRollbacks prometheus.Counter
	Checkouts     *prometheus.CounterVec
}

// New builds the collectors and registers them on reg when reg is not nil.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "token_refreshes_total",
			Help:      "Access token refresh calls by result.",
		}, []string{"result"}),
		QueuedRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "queued_requests_total",
			Help:      "Requests parked while another request refreshed the token.",
		}),
		Logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "forced_logouts_total",
			Help:      "Sessions terminated because the token could not be refreshed.",
		}),
		CartAdds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "add_operations_total",
			Help:      "Add-to-cart calls by outcome.",
		}, []string{"outcome"}),
		CartRollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "rollbacks_total",
			Help:      "Optimistic cart patches discarded after a failed mutation.",
		}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "orders_total",
			Help:      "Checkout attempts by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(r.Refreshes, r.QueuedRetries, r.Logouts, r.CartAdds, r.CartRollbacks, r.Checkouts)
	}

	return r
}

func (r *Recorder) Refresh(result string) {
	if r == nil {
		return
	}
	r.Refreshes.WithLabelValues(result).Inc()
}

func (r *Recorder) Queued() {
	if r == nil {
		return
	}
	r.QueuedRetries.Inc()
}

func (r *Recorder) Logout() {
	if r == nil {
		return
	}
	r.Logouts.Inc()
}

func (r *Recorder) CartAdd(outcome string) {
	if r == nil {
		return
	}
	r.CartAdds.WithLabelValues(outcome).Inc()
}

func (r *Recorder) CartRollback() {
	if r == nil {
		return
	}
	r.CartRollbacks.Inc()
}

func (r *Recorder) Checkout(result string) {
	if r == nil {
		return
	}
	r.Checkouts.WithLabelValues(result).Inc()
}
