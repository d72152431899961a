// Package metrics exposes simulation progress as Prometheus metrics fed by
// engine events.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoSim-25-26J-441/genetic-core/internal/engine"
)

const namespace = "gasim"

// Collector is an engine.Observer backed by its own registry
type Collector struct {
	registry *prometheus.Registry

	runsCompleted        prometheus.Counter
	generations          prometheus.Counter
	knownSolutionStops   prometheus.Counter
	mutations            *prometheus.CounterVec
	clones               *prometheus.CounterVec
	matings              prometheus.Counter
	runDuration          prometheus.Histogram
	bestGeneration       prometheus.Histogram
	bestFitness          prometheus.Gauge
	simulationsCompleted prometheus.Counter
	simulationsActive    prometheus.Gauge
	simulationsFinished  *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_completed_total",
			Help: "Runs that finished evolving.",
		}),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "generations_total",
			Help: "Generations evolved across all runs.",
		}),
		knownSolutionStops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "known_solution_stops_total",
			Help: "Runs stopped early because the known maximum was reached.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "mutations_total",
			Help: "Attempted bit flips by outcome.",
		}, []string{"outcome"}),
		clones: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "clones_total",
			Help: "Chromosomes copied into the next generation instead of mated.",
		}, []string{"reason"}),
		matings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "matings_total",
			Help: "Successful crossovers.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "run_duration_seconds",
			Help:    "Wall time of one run.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		bestGeneration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "best_generation",
			Help:    "Generation at which a run last improved.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_best_fitness",
			Help: "Best fitness of the most recently completed run.",
		}),
		simulationsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "simulations_completed_total",
			Help: "Simulations whose runs all completed.",
		}),
		simulationsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "simulations_active",
			Help: "Simulations currently executing.",
		}),
		simulationsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "simulations_finished_total",
			Help: "Simulations that left the running state, by final status.",
		}, []string{"status"}),
	}

	c.registry.MustRegister(
		c.runsCompleted, c.generations, c.knownSolutionStops,
		c.mutations, c.clones, c.matings,
		c.runDuration, c.bestGeneration, c.bestFitness,
		c.simulationsCompleted, c.simulationsActive, c.simulationsFinished,
	)
	return c
}

// Registry returns the registry holding the collector's metrics
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Observe implements engine.Observer
func (c *Collector) Observe(e engine.Event) {
	switch e.Type {
	case engine.EventTypeGenerationCompleted:
		c.generations.Inc()
	case engine.EventTypeChromosomeMutated:
		if e.Kept {
			c.mutations.WithLabelValues("kept").Inc()
		} else {
			c.mutations.WithLabelValues("reverted").Inc()
		}
	case engine.EventTypeParentsCloned:
		c.clones.WithLabelValues(e.Reason).Inc()
	case engine.EventTypeParentsMated:
		c.matings.Inc()
	case engine.EventTypeRunCompleted:
		c.runsCompleted.Inc()
		c.runDuration.Observe(e.Duration.Seconds())
		c.bestGeneration.Observe(float64(e.BestGeneration))
		if e.SolutionFound {
			c.knownSolutionStops.Inc()
		}
		if e.RunResult != nil {
			c.bestFitness.Set(e.RunResult.BestFitness)
		}
	case engine.EventTypeSimulationCompleted:
		c.simulationsCompleted.Inc()
	}
}

// SimulationStarted marks a simulation as executing
func (c *Collector) SimulationStarted() {
	c.simulationsActive.Inc()
}

// SimulationFinished marks a simulation as no longer executing
func (c *Collector) SimulationFinished(status string) {
	c.simulationsActive.Dec()
	c.simulationsFinished.WithLabelValues(status).Inc()
}
