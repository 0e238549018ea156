package metricsvc

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/madrasa/core/homepage"
	"github.com/trezcool/madrasa/core/newsletter"
)

// Prometheus records newsletter & homepage counters on its own registry.
type Prometheus struct {
	registry   *prometheus.Registry
	dispatches *prometheus.CounterVec
	emails     *prometheus.CounterVec
	resolves   *prometheus.CounterVec
}

var (
	_ newsletter.Metrics = (*Prometheus)(nil)
	_ homepage.Metrics   = (*Prometheus)(nil)
)

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_dispatches_total",
			Help: "Newsletter dispatches by mode and status.",
		}, []string{"mode", "status"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_emails_total",
			Help: "Newsletter emails by delivery result.",
		}, []string{"result"}),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homepage_resolves_total",
			Help: "Homepage section resolutions by kind and mode (custom or fallback).",
		}, []string{"kind", "mode"}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.dispatches,
		p.emails,
		p.resolves,
	)
	return p
}

func (p *Prometheus) ObserveDispatch(mode, status string) {
	p.dispatches.WithLabelValues(mode, status).Inc()
}

func (p *Prometheus) ObserveEmail(ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	p.emails.WithLabelValues(result).Inc()
}

func (p *Prometheus) ObserveResolve(kind homepage.Kind, custom bool) {
	mode := "fallback"
	if custom {
		mode = "custom"
	}
	p.resolves.WithLabelValues(string(kind), mode).Inc()
}

// Registry is exposed for tests.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
