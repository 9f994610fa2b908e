// Package metrics collects Prometheus metrics for the API and serves them.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopapi/internal/domain"
)

// Outcome labels for auth attempts.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalid            = "invalid"
	OutcomeDuplicate          = "duplicate"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeError              = "error"
)

// Recorder is what handlers report auth attempts to.
type Recorder interface {
	RecordSignup(err error)
	RecordLogin(err error)
}

type Collector struct {
	signups  *prometheus.CounterVec
	logins   *prometheus.CounterVec
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewCollector registers the collector's metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopapi_signups_total",
			Help: "Signup attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopapi_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopapi_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopapi_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(c.signups, c.logins, c.requests, c.latency)
	return c
}

func (c *Collector) RecordSignup(err error) {
	c.signups.WithLabelValues(Outcome(err)).Inc()
}

func (c *Collector) RecordLogin(err error) {
	c.logins.WithLabelValues(Outcome(err)).Inc()
}

func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Outcome buckets an operation result into a low-cardinality label.
func Outcome(err error) string {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &verr):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrDuplicateEmail):
		return OutcomeDuplicate
	case errors.Is(err, domain.ErrInvalidCredentials):
		return OutcomeInvalidCredentials
	default:
		return OutcomeError
	}
}

// Middleware records every request under its route pattern, not the raw path,
// so ids do not explode the label space.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		if err := ctx.Next(); err != nil {
			if herr := ctx.App().ErrorHandler(ctx, err); herr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}
		route := "unmatched"
		if r := ctx.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		c.RecordRequest(ctx.Method(), route, ctx.Response().StatusCode(), time.Since(start))
		return nil
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
