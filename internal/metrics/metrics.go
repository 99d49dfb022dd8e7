package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics — счетчики и гистограммы сервиса.
// Нулевой указатель безопасен: все методы превращаются в no-op.
type Metrics struct {
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	tasksCompleted    prometheus.Counter
	energyLogs        prometheus.Counter
	suggestionsServed prometheus.Counter
	providerDuration  *prometheus.HistogramVec
	providerErrors    *prometheus.CounterVec
	sseSubscribers    prometheus.Gauge
}

// NewMetrics регистрирует метрики в реестре по умолчанию.
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_completed_total",
			Help: "Total tasks marked completed.",
		}),
		energyLogs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_logs_total",
			Help: "Total energy log entries recorded.",
		}),
		suggestionsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "suggestions_served_total",
			Help: "Total suggestion responses served.",
		}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Histogram of context provider call durations by provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_errors_total",
			Help: "Total context provider call failures by provider.",
		}, []string{"provider"}),
		sseSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sse_subscribers",
			Help: "Current number of open SSE subscriptions.",
		}),
	}

	prometheus.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.tasksCompleted,
		m.energyLogs,
		m.suggestionsServed,
		m.providerDuration,
		m.providerErrors,
		m.sseSubscribers,
	)

	return m
}

// Middleware собирает счетчики и длительности запросов по маршрутам echo.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}

			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler возвращает эндпоинт экспорта в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// TaskCompleted учитывает завершение задачи.
func (m *Metrics) TaskCompleted() {
	if m == nil {
		return
	}
	m.tasksCompleted.Inc()
}

// EnergyLogged учитывает запись уровня энергии.
func (m *Metrics) EnergyLogged() {
	if m == nil {
		return
	}
	m.energyLogs.Inc()
}

// SuggestionsServed учитывает отданный список предложений.
func (m *Metrics) SuggestionsServed() {
	if m == nil {
		return
	}
	m.suggestionsServed.Inc()
}

// ProviderRequest учитывает обращение к провайдеру контекста.
func (m *Metrics) ProviderRequest(provider string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		m.providerErrors.WithLabelValues(provider).Inc()
	}
}

// SSESubscribed учитывает открытие и закрытие SSE-подписки.
func (m *Metrics) SSESubscribed(delta float64) {
	if m == nil {
		return
	}
	m.sseSubscribers.Add(delta)
}
