package simd

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/GoSim-25-26J-441/genetic-core/internal/engine"
	"github.com/GoSim-25-26J-441/genetic-core/internal/metrics"
	"github.com/GoSim-25-26J-441/genetic-core/internal/orchestrator"
	"github.com/GoSim-25-26J-441/genetic-core/internal/report"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/config"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/logger"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/models"
)

var (
	ErrInvalidRequest = errors.New("invalid simulation request")
)

// Executor validates submitted configurations and runs them in the
// background, one goroutine per simulation.
type Executor struct {
	store    *SimulationStore
	notifier *Notifier
	metrics  *metrics.Collector

	wg sync.WaitGroup
}

// NewExecutor creates an executor. notifier and collector may be nil.
func NewExecutor(store *SimulationStore, notifier *Notifier, collector *metrics.Collector) *Executor {
	return &Executor{
		store:    store,
		notifier: notifier,
		metrics:  collector,
	}
}

// Store returns the backing store
func (e *Executor) Store() *SimulationStore { return e.store }

// Submit validates configYAML, records a pending simulation and starts it.
// Configuration problems are reported here and nothing is stored.
func (e *Executor) Submit(configYAML, callbackURL string) (SimulationRecord, error) {
	cfg, err := config.ParseConfigYAMLString(configYAML)
	if err != nil {
		return SimulationRecord{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if _, _, err := orchestrator.Prepare(cfg); err != nil {
		return SimulationRecord{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	effective, err := config.MarshalConfigYAML(cfg)
	if err != nil {
		return SimulationRecord{}, err
	}

	rec, err := e.store.Create("", effective, callbackURL)
	if err != nil {
		return SimulationRecord{}, err
	}
	logger.Info("simulation created", "simulation_id", rec.Simulation.ID)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.execute(rec.Simulation.ID, cfg)
	}()
	return rec, nil
}

// Wait blocks until every started simulation and its notification finish
func (e *Executor) Wait() {
	e.wg.Wait()
	if e.notifier != nil {
		e.notifier.Wait()
	}
}

func (e *Executor) execute(id string, cfg *config.Config) {
	log := logger.Default.With("simulation_id", id)

	if _, err := e.store.SetStatus(id, models.SimulationStatusRunning, ""); err != nil {
		log.Error("failed to set running status", "error", err)
		return
	}
	if e.metrics != nil {
		e.metrics.SimulationStarted()
	}

	var out bytes.Buffer
	observers := engine.Observers{report.New(report.VerbosityFromOutput(cfg.Output), report.NewWriterSink(&out))}
	if e.metrics != nil {
		observers = append(observers, e.metrics)
	}

	summary, err := e.simulate(id, cfg, observers)
	status := models.SimulationStatusCompleted
	errMsg := ""
	if err != nil {
		status = models.SimulationStatusFailed
		errMsg = err.Error()
		log.Error("simulation failed", "error", err)
	} else if setErr := e.store.SetResult(id, resultFromSummary(summary), out.String()); setErr != nil {
		log.Error("failed to store result", "error", setErr)
	}

	rec, setErr := e.store.SetStatus(id, status, errMsg)
	if e.metrics != nil {
		e.metrics.SimulationFinished(string(status))
	}
	if setErr != nil {
		log.Error("failed to set final status", "status", status, "error", setErr)
		return
	}
	log.Info("simulation finished", "status", status)

	if e.notifier != nil && rec.Simulation.CallbackURL != "" {
		e.notifier.Notify(rec.Simulation.CallbackURL, rec.Simulation)
	}
}

func (e *Executor) simulate(id string, cfg *config.Config, observer engine.Observer) (*engine.Summary, error) {
	orc, err := orchestrator.New(cfg,
		orchestrator.WithObserver(observer),
		orchestrator.WithSimulationID(id))
	if err != nil {
		return nil, err
	}
	return orc.Simulate()
}

// resultFromSummary flattens a summary, keeping the fittest final
// chromosome across runs
func resultFromSummary(s *engine.Summary) *models.SimulationResult {
	res := &models.SimulationResult{
		Runs:                  s.Runs,
		Threads:               s.Threads,
		ElapsedMs:             s.Elapsed.Milliseconds(),
		BestGenerations:       s.BestGenerations,
		AverageBestGeneration: s.AverageBestGeneration,
		MaxBestGeneration:     s.MaxBestGeneration,
		SolvedRuns:            s.SolvedRuns,
	}
	for i, r := range s.Results {
		if i == 0 || r.Final.Fitness > res.BestFitness {
			res.BestFitness = r.Final.Fitness
			res.BestValue = r.Final.Value
			res.BestGenes = r.Final.Genes
		}
	}
	return res
}
