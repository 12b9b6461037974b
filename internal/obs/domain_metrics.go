package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const domainNamespace = "shopfront"

var (
	domainOnce sync.Once

	// OrdersPlacedTotal counts successfully placed orders.
	OrdersPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: domainNamespace,
		Name:      "orders_placed_total",
		Help:      "Number of orders successfully placed.",
	})
	// OrderValueCents records totals of placed orders in cents.
	OrderValueCents = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: domainNamespace,
		Name:      "order_value_cents",
		Help:      "Distribution of placed order totals in cents.",
		Buckets:   []float64{500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
	})
	// PromoAppliedTotal counts promo application outcomes by result
	// (success, invalid, min_subtotal).
	PromoAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: domainNamespace,
		Name:      "promo_applied_total",
		Help:      "Promo code application outcomes.",
	}, []string{"result"})
	// CheckoutRejectedTotal counts rejected checkouts by reason.
	CheckoutRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: domainNamespace,
		Name:      "checkout_rejected_total",
		Help:      "Checkout rejections by reason code.",
	}, []string{"reason"})
)

// MustRegisterDomainMetrics registers the storefront collectors. The
// collectors themselves exist from package init, so recording works even
// before (or without) registration.
func MustRegisterDomainMetrics(reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		for _, c := range []prometheus.Collector{
			OrdersPlacedTotal, OrderValueCents, PromoAppliedTotal, CheckoutRejectedTotal,
		} {
			if err := reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
					continue
				}
				panic(err)
			}
		}
	})
}
