package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"order-compat/internal/compat/audit"
	"order-compat/internal/compat/responses"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type Registry struct {
	reg             *prometheus.Registry
	Transformations *prometheus.CounterVec
	Warnings        prometheus.Counter
	PriceRepairs    prometheus.Counter
	Classifications *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	transformations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "compat_transformations_total",
		Help: "Payloads transformed to the legacy shape.",
	}, []string{"version", "outcome"})
	warnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "compat_audit_warnings_total",
		Help: "Data-quality warnings recorded while transforming.",
	})
	repairs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "compat_price_repairs_total",
		Help: "Declared totals replaced by the line-item total.",
	})
	classifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "compat_classifications_total",
		Help: "Upstream responses by class.",
	}, []string{"class"})

	r.MustRegister(transformations, warnings, repairs, classifications)
	return &Registry{
		reg:             r,
		Transformations: transformations,
		Warnings:        warnings,
		PriceRepairs:    repairs,
		Classifications: classifications,
	}
}

// ObserveTrail counts one transformation. The version is read from the
// trail, so failed detections are reported as "unknown".
func (r *Registry) ObserveTrail(trail audit.Trail, err error) {
	version := "unknown"
	if d, ok := trail.Find(audit.KeyVersionDetection); ok {
		if v, ok := d.Value.(string); ok {
			version = v
		}
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.Transformations.WithLabelValues(version, outcome).Inc()
	r.Warnings.Add(float64(len(trail.Warnings)))
	if _, ok := trail.Find(audit.KeyPriceCorrection); ok {
		r.PriceRepairs.Inc()
	}
}

func (r *Registry) ObserveClass(class responses.Class) {
	r.Classifications.WithLabelValues(string(class)).Inc()
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
