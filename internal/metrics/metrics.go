package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration records request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "svge_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// OrdersPlaced counts committed orders.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "svge_orders_placed_total",
		Help: "Total number of orders placed",
	})

	// CartMutations counts successful cart changes by operation.
	CartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "svge_cart_mutations_total",
		Help: "Total number of cart mutations by operation",
	}, []string{"operation"})

	// VersionConflicts counts optimistic-concurrency conflicts by entity.
	VersionConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "svge_version_conflicts_total",
		Help: "Total number of conditional writes that lost a race",
	}, []string{"entity"})

	// Rejections counts business-rule rejections by route.
	Rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "svge_rejections_total",
		Help: "Total number of rejected operations",
	}, []string{"route"})
)

// Middleware records HTTPRequestDuration for every request.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
