package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderFlowMetrics counts the business events of the checkout pipeline.
type OrderFlowMetrics struct {
	ordersPlaced      prometheus.Counter
	paymentsRecorded  *prometheus.CounterVec
	insufficientStock prometheus.Counter
}

// NewOrderFlowMetrics registers the order-flow counters on the provided registerer.
func NewOrderFlowMetrics(reg prometheus.Registerer) *OrderFlowMetrics {
	if reg == nil {
		return &OrderFlowMetrics{}
	}
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed at checkout.",
	})
	paymentsRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_recorded_total",
		Help: "Payments recorded, by method.",
	}, []string{"method"})
	insufficientStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_insufficient_stock_total",
		Help: "Checkout attempts rejected for insufficient stock.",
	})
	reg.MustRegister(ordersPlaced, paymentsRecorded, insufficientStock)
	return &OrderFlowMetrics{
		ordersPlaced:      ordersPlaced,
		paymentsRecorded:  paymentsRecorded,
		insufficientStock: insufficientStock,
	}
}

// IncOrderPlaced increments the placed-orders counter.
func (o *OrderFlowMetrics) IncOrderPlaced() {
	if o == nil || o.ordersPlaced == nil {
		return
	}
	o.ordersPlaced.Inc()
}

// IncPaymentRecorded increments the payments counter for the given method.
func (o *OrderFlowMetrics) IncPaymentRecorded(method string) {
	if o == nil || o.paymentsRecorded == nil {
		return
	}
	o.paymentsRecorded.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncInsufficientStock increments the rejected-checkout counter.
func (o *OrderFlowMetrics) IncInsufficientStock() {
	if o == nil || o.insufficientStock == nil {
		return
	}
	o.insufficientStock.Inc()
}
