package engine

import (
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/genetic-core/internal/genome"
)

// EventType represents the type of GA event
type EventType string

const (
	// EventTypeRunStarted carries the random initial population (generation 0)
	EventTypeRunStarted EventType = "run_started"

	// EventTypeSelection carries the selection fitness and proportions
	EventTypeSelection EventType = "selection"

	// EventTypeElitePreserved is emitted per elite carried over unchanged
	EventTypeElitePreserved EventType = "elite_preserved"

	// EventTypeParentsMated is emitted per crossover
	EventTypeParentsMated EventType = "parents_mated"

	// EventTypeParentsCloned is emitted per pool member copied without crossover
	EventTypeParentsCloned EventType = "parents_cloned"

	// EventTypeChromosomeMutated is emitted per attempted bit flip
	EventTypeChromosomeMutated EventType = "chromosome_mutated"

	// EventTypeGenerationCompleted carries the new population and best-so-far
	EventTypeGenerationCompleted EventType = "generation_completed"

	// EventTypeRunCompleted carries the run result
	EventTypeRunCompleted EventType = "run_completed"

	// EventTypeSimulationCompleted carries the aggregate summary
	EventTypeSimulationCompleted EventType = "simulation_completed"
)

// Clone reasons
const (
	CloneReasonNoViableMate       = "no_viable_mate"
	CloneReasonCrossoverExhausted = "crossover_exhausted"
)

// ChromosomeView is a detached snapshot of a chromosome
type ChromosomeView struct {
	Genes   string  `json:"genes"`
	Value   int64   `json:"value"`
	Fitness float64 `json:"fitness"`
}

// View snapshots ch, evaluating fitness if needed
func View(ch *genome.Chromosome, fn genome.FitnessFunc) ChromosomeView {
	return ChromosomeView{Genes: ch.GeneString(), Value: ch.Value(), Fitness: ch.Fitness(fn)}
}

// genesView snapshots ch without touching fitness
func genesView(ch *genome.Chromosome) ChromosomeView {
	return ChromosomeView{Genes: ch.GeneString(), Value: ch.Value()}
}

// FitnessStats are raw fitness aggregates of one population
type FitnessStats struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

// Event is a discrete observation emitted by a run or the orchestrator.
// Only the fields relevant to Type are set.
type Event struct {
	Type       EventType `json:"type"`
	Time       time.Time `json:"time"`
	Run        int       `json:"run,omitempty"`
	Generation int       `json:"generation"`

	Population []ChromosomeView `json:"population,omitempty"`
	Stats      *FitnessStats    `json:"stats,omitempty"`
	Best       *ChromosomeView  `json:"best,omitempty"`

	// Selection
	Fitness     []float64 `json:"fitness,omitempty"`
	Proportions []float64 `json:"proportions,omitempty"`

	// Elitism, mating, cloning and mutation. Mutation views carry no fitness.
	Subject  *ChromosomeView  `json:"subject,omitempty"`
	Partner  *ChromosomeView  `json:"partner,omitempty"`
	Children []ChromosomeView `json:"children,omitempty"`
	Mutated  *ChromosomeView  `json:"mutated,omitempty"`
	Bit      int              `json:"bit,omitempty"`
	Kept     bool             `json:"kept,omitempty"`
	Reason   string           `json:"reason,omitempty"`

	// Generation and run progress
	Improved            bool          `json:"improved,omitempty"`
	BestGeneration      int           `json:"best_generation"`
	SolutionFound       bool          `json:"solution_found,omitempty"`
	MutationProbability float64       `json:"mutation_probability,omitempty"`
	Duration            time.Duration `json:"duration,omitempty"`
	RunResult           *RunResult    `json:"run_result,omitempty"`

	Summary *Summary `json:"summary,omitempty"`
}

// Observer receives events. Implementations must be safe for concurrent
// use: every worker of a simulation shares one observer.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

// Observe calls f(e)
func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers fans an event out to every non-nil observer in order
type Observers []Observer

// Observe forwards e
func (o Observers) Observe(e Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(e)
		}
	}
}

// Recorder keeps every observed event in arrival order
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{events: make([]Event, 0)}
}

// Observe appends e
func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events of type t
func (r *Recorder) OfType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
