package engine

import (
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/genetic-core/internal/genome"
	"github.com/GoSim-25-26J-441/genetic-core/internal/population"
)

// RunState is the lifecycle state of a Run
type RunState int

const (
	RunStateInitial RunState = iota
	RunStateEvolving
	RunStateDone
)

func (s RunState) String() string {
	switch s {
	case RunStateInitial:
		return "initial"
	case RunStateEvolving:
		return "evolving"
	case RunStateDone:
		return "done"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// RunResult is the outcome of one independent run
type RunResult struct {
	Run int `json:"run"`
	// BestGeneration is the generation at which the best fitness last
	// improved; 0 if the initial population was never beaten.
	BestGeneration int            `json:"best_generation"`
	BestFitness    float64        `json:"best_fitness"`
	Generations    int            `json:"generations"`
	SolutionFound  bool           `json:"solution_found"`
	Final          ChromosomeView `json:"final"`
	Duration       time.Duration  `json:"duration"`
}

// Run drives the generation loop of a single simulation. A Run is used by
// one goroutine and executed once.
type Run struct {
	number   int
	cfg      Config
	rng      genome.Rand
	observer Observer
	evolver  *Evolver
	state    RunState
}

// NewRun creates run number (1-based) with its own random source
func NewRun(number int, cfg Config, rng genome.Rand, observer Observer) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Run{
		number:   number,
		cfg:      cfg,
		rng:      rng,
		observer: observer,
		evolver:  NewEvolver(cfg, rng, observer, number),
		state:    RunStateInitial,
	}, nil
}

// Number returns the run number
func (r *Run) Number() int { return r.number }

// State returns the current lifecycle state
func (r *Run) State() RunState { return r.state }

// Execute seeds a random population and evolves it until MaxGenerations is
// reached or, when enabled, the known optimum appears.
func (r *Run) Execute() (RunResult, error) {
	if r.state != RunStateInitial {
		return RunResult{}, fmt.Errorf("run %d already executed", r.number)
	}
	start := time.Now()
	fn := r.cfg.Fitness

	pop := population.NewRandom(r.cfg.PopulationSize, r.cfg.Codec, r.rng)
	bestFitness := pop.MostFit(fn).Fitness(fn)
	bestGeneration := 0
	r.emitGeneration(EventTypeRunStarted, pop, 0, false, bestGeneration)

	r.state = RunStateEvolving
	generations := 0
	solved := false
	for i := 1; i <= r.cfg.MaxGenerations; i++ {
		next, err := r.evolver.Next(pop, i)
		if err != nil {
			r.state = RunStateDone
			return RunResult{}, fmt.Errorf("run %d: %w", r.number, err)
		}
		pop = next
		generations = i

		current := pop.MostFit(fn).Fitness(fn)
		improved := current > bestFitness
		if improved {
			bestFitness = current
			bestGeneration = i
		}
		r.emitGeneration(EventTypeGenerationCompleted, pop, i, improved, bestGeneration)

		if r.cfg.IsKnownSolution(current) {
			solved = true
			break
		}
	}
	r.state = RunStateDone

	result := RunResult{
		Run:            r.number,
		BestGeneration: bestGeneration,
		BestFitness:    bestFitness,
		Generations:    generations,
		SolutionFound:  solved,
		Final:          View(pop.MostFit(fn), fn),
		Duration:       time.Since(start),
	}
	if r.observer != nil {
		res := result
		r.observer.Observe(Event{
			Type:           EventTypeRunCompleted,
			Time:           time.Now(),
			Run:            r.number,
			Generation:     generations,
			Best:           &res.Final,
			BestGeneration: bestGeneration,
			SolutionFound:  solved,
			Duration:       result.Duration,
			RunResult:      &res,
		})
	}
	return result, nil
}

func (r *Run) emitGeneration(t EventType, pop *population.Population, generation int, improved bool, bestGeneration int) {
	if r.observer == nil {
		return
	}
	fn := r.cfg.Fitness
	best := View(pop.MostFit(fn), fn)
	total := pop.TotalFitness(fn, false)
	r.observer.Observe(Event{
		Type:       t,
		Time:       time.Now(),
		Run:        r.number,
		Generation: generation,
		Population: snapshot(pop, fn),
		Stats: &FitnessStats{
			Total:   total,
			Average: total / float64(pop.Len()),
		},
		Best:                &best,
		Improved:            improved,
		BestGeneration:      bestGeneration,
		MutationProbability: r.cfg.MutationProbability,
	})
}
