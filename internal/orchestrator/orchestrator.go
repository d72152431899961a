// Package orchestrator executes the independent runs of a simulation on a
// fixed number of workers and aggregates their outcomes.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/genetic-core/internal/engine"
	"github.com/GoSim-25-26J-441/genetic-core/internal/fitness"
	"github.com/GoSim-25-26J-441/genetic-core/internal/genome"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/config"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/logger"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/utils"
)

// Orchestrator owns a validated simulation configuration
type Orchestrator struct {
	cfg        *config.Config
	engineCfg  engine.Config
	expression *fitness.Expression
	observer   engine.Observer
	log        *slog.Logger
	seed       int64
	id         string
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithObserver attaches an observer. It is called from every worker
// goroutine and must be safe for concurrent use.
func WithObserver(o engine.Observer) Option {
	return func(orc *Orchestrator) { orc.observer = o }
}

// WithLogger replaces the package default logger
func WithLogger(l *slog.Logger) Option {
	return func(orc *Orchestrator) { orc.log = l }
}

// WithSimulationID labels log records with the owning simulation
func WithSimulationID(id string) Option {
	return func(orc *Orchestrator) { orc.id = id }
}

// Prepare validates cfg and compiles its fitness expression into an
// engine configuration. Every configuration error surfaces here, before
// any run starts.
func Prepare(cfg *config.Config) (engine.Config, *fitness.Expression, error) {
	if err := config.Validate(cfg); err != nil {
		return engine.Config{}, nil, err
	}

	codec, err := genome.NewCodec(cfg.Range.Min, cfg.Range.Max)
	if err != nil {
		return engine.Config{}, nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	expression, err := fitness.Compile(cfg.Fitness.Expression, cfg.Fitness.KnownMin)
	if err != nil {
		return engine.Config{}, nil, err
	}
	if err := expression.Validate(cfg.Range.Min, cfg.Range.Max); err != nil {
		return engine.Config{}, nil, err
	}

	ec := engine.Config{
		Codec:               codec,
		PopulationSize:      cfg.Population.Size,
		MaxGenerations:      cfg.Population.MaxGenerations,
		Elitism:             cfg.Population.Elitism,
		MutationProbability: cfg.Population.MutationProbability,
		SigmaScaling:        cfg.Population.SigmaScaling,
		AllowKnownSolution:  cfg.Fitness.AllowKnownSolution,
		KnownMax:            cfg.Fitness.KnownMax,
		Fitness:             expression.Func(),
	}
	if err := ec.Validate(); err != nil {
		return engine.Config{}, nil, err
	}
	return ec, expression, nil
}

// New prepares cfg and returns an orchestrator ready to Simulate
func New(cfg *config.Config, opts ...Option) (*Orchestrator, error) {
	ec, expression, err := Prepare(cfg)
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		cfg:        cfg,
		engineCfg:  ec,
		expression: expression,
		log:        logger.Default,
		seed:       cfg.Simulation.Seed,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.id != "" {
		o.log = o.log.With("simulation_id", o.id)
	}
	return o, nil
}

// EngineConfig returns the per-run engine configuration
func (o *Orchestrator) EngineConfig() engine.Config { return o.engineCfg }

// Expression returns the compiled fitness expression
func (o *Orchestrator) Expression() *fitness.Expression { return o.expression }

// Simulate executes RunCount runs on ThreadCount workers. Each worker
// claims the next run number until none are left; results are stored by
// run number so the summary order never depends on scheduling. The first
// failing run stops further claims and its error is returned.
func (o *Orchestrator) Simulate() (*engine.Summary, error) {
	runCount := o.cfg.Simulation.RunCount
	threads := o.cfg.Simulation.ThreadCount
	if threads > runCount {
		threads = runCount
	}

	base := o.seed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	o.log.Info("simulation started",
		"runs", runCount,
		"threads", threads,
		"expression", o.expression.Source(),
		"range_min", o.cfg.Range.Min,
		"range_max", o.cfg.Range.Max)

	start := time.Now()
	results := make([]engine.RunResult, runCount)
	var next atomic.Int64

	g, gctx := errgroup.WithContext(context.Background())
	for w := 0; w < threads; w++ {
		g.Go(func() error {
			for gctx.Err() == nil {
				n := int(next.Add(1))
				if n > runCount {
					return nil
				}
				res, err := o.executeRun(n, base+int64(n))
				if err != nil {
					return err
				}
				results[n-1] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		o.log.Error("simulation failed", "error", err)
		return nil, err
	}

	summary := engine.NewSummary(results, threads, time.Since(start))
	if o.observer != nil {
		o.observer.Observe(engine.Event{
			Type:     engine.EventTypeSimulationCompleted,
			Time:     time.Now(),
			Duration: summary.Elapsed,
			Summary:  summary,
		})
	}

	o.log.Info("simulation completed",
		"runs", summary.Runs,
		"elapsed_ms", summary.Elapsed.Milliseconds(),
		"average_best_generation", summary.AverageBestGeneration,
		"max_best_generation", summary.MaxBestGeneration,
		"solved_runs", summary.SolvedRuns)
	return summary, nil
}

func (o *Orchestrator) executeRun(n int, seed int64) (engine.RunResult, error) {
	rng := utils.NewRandSource(seed)
	run, err := engine.NewRun(n, o.engineCfg, rng, o.observer)
	if err != nil {
		return engine.RunResult{}, err
	}
	res, err := run.Execute()
	if err != nil {
		o.log.Error("run failed", "run", utils.RunLabel(o.id, n), "error", err)
		return engine.RunResult{}, err
	}
	o.log.Debug("run completed",
		"run", utils.RunLabel(o.id, n),
		"seed", rng.Seed(),
		"best_generation", res.BestGeneration,
		"best_fitness", res.BestFitness,
		"solution_found", res.SolutionFound)
	return res, nil
}
