// Package metrics exposes Prometheus instrumentation for ration runs.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/iwvelando/feed-ration/internal/ration"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// StatusRejected labels runs whose model could not be built.
	StatusRejected = "rejected"

	// MaxAnimalTypes bounds the distinct animal_type label values. Run files
	// define their own animal types, so later ones share OtherAnimalType.
	MaxAnimalTypes = 32
	// OtherAnimalType labels every animal type past MaxAnimalTypes.
	OtherAnimalType = "other"
)

// Recorder receives the outcome of every optimization.
type Recorder interface {
	RecordOptimization(animalType string, sol ration.Solution, elapsed time.Duration)
	RecordRejection(animalType string, elapsed time.Duration)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordOptimization(string, ration.Solution, time.Duration) {}
func (Nop) RecordRejection(string, time.Duration)                     {}

// Metrics is a Recorder backed by its own Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	Optimizations *prometheus.CounterVec
	Duration      prometheus.Histogram
	Shortfalls    *prometheus.CounterVec
	Cost          *prometheus.GaugeVec
	BuildInfo     *prometheus.GaugeVec

	mu          sync.Mutex
	animalTypes map[string]struct{}
}

// New creates the registry, including Go runtime and process collectors.
func New(version string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg, animalTypes: make(map[string]struct{})}

	m.Optimizations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ration_optimizations_total",
		Help: "Ration optimizations by outcome status",
	}, []string{"status"})

	m.Duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ration_optimization_duration_seconds",
		Help:    "Time spent building, solving and interpreting one ration",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	m.Shortfalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ration_nutrient_shortfalls_total",
		Help: "Optimal rations that fell short of a nutrient target",
	}, []string{"nutrient"})

	m.Cost = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ration_cost",
		Help: "Cost of the last optimal ration per animal type",
	}, []string{"animal_type"})

	m.BuildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ration_build_info",
		Help: "Build information for the service",
	}, []string{"version"})

	reg.MustRegister(m.Optimizations, m.Duration, m.Shortfalls, m.Cost, m.BuildInfo)

	if version == "" {
		version = "unknown"
	}
	m.BuildInfo.WithLabelValues(version).Set(1)

	return m
}

// RecordOptimization implements Recorder.
func (m *Metrics) RecordOptimization(animalType string, sol ration.Solution, elapsed time.Duration) {
	m.Optimizations.WithLabelValues(sol.Status.String()).Inc()
	m.Duration.Observe(elapsed.Seconds())
	if !sol.Optimal() {
		return
	}
	for _, n := range sol.ShortNutrients() {
		m.Shortfalls.WithLabelValues(string(n)).Inc()
	}
	m.Cost.WithLabelValues(m.animalTypeLabel(animalType)).Set(sol.TotalCost)
}

func (m *Metrics) animalTypeLabel(animalType string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.animalTypes[animalType]; ok {
		return animalType
	}
	if len(m.animalTypes) >= MaxAnimalTypes {
		return OtherAnimalType
	}
	m.animalTypes[animalType] = struct{}{}
	return animalType
}

// RecordRejection implements Recorder.
func (m *Metrics) RecordRejection(_ string, elapsed time.Duration) {
	m.Optimizations.WithLabelValues(StatusRejected).Inc()
	m.Duration.Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
