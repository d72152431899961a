package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/genetic-core/internal/genome"
	"github.com/GoSim-25-26J-441/genetic-core/internal/population"
)

// Evolver turns one generation into the next: elitism, fitness
// proportional selection, pairwise crossover and per-bit mutation.
type Evolver struct {
	cfg      Config
	rng      genome.Rand
	observer Observer
	run      int
}

// NewEvolver creates an evolver for run number run. observer may be nil.
func NewEvolver(cfg Config, rng genome.Rand, observer Observer, run int) *Evolver {
	return &Evolver{cfg: cfg, rng: rng, observer: observer, run: run}
}

// Next produces generation number generation from current. The result has
// the same size as current; the first Elitism members are the unchanged
// elites.
func (e *Evolver) Next(current *population.Population, generation int) (*population.Population, error) {
	size := current.Len()
	offspring := make([]*genome.Chromosome, 0, size)

	elites := e.elites(current, generation)
	offspring = append(offspring, elites...)

	pool, err := e.matingPool(current, size-len(elites), generation)
	if err != nil {
		return nil, err
	}

	children, err := e.mate(pool, generation)
	if err != nil {
		return nil, err
	}
	offspring = append(offspring, children...)

	if len(offspring) != size {
		return nil, fmt.Errorf("generation %d: produced %d chromosomes, want %d", generation, len(offspring), size)
	}

	if e.cfg.MutationProbability > 0 {
		e.mutate(offspring[len(elites):], generation)
	}

	return population.New(offspring), nil
}

func (e *Evolver) elites(current *population.Population, generation int) []*genome.Chromosome {
	k := e.cfg.Elitism
	if k <= 0 {
		return nil
	}
	if k > current.Len() {
		k = current.Len()
	}
	elites := current.FittestOrder(e.cfg.Fitness)[:k]

	if e.observer != nil {
		for _, ch := range elites {
			v := View(ch, e.cfg.Fitness)
			e.emit(Event{Type: EventTypeElitePreserved, Generation: generation, Subject: &v})
		}
	}
	return elites
}

// matingPool draws n members of current by roulette over the whole
// population, elites included.
func (e *Evolver) matingPool(current *population.Population, n int, generation int) ([]*genome.Chromosome, error) {
	if n <= 0 {
		return nil, nil
	}

	fitness := current.FitnessArray(e.cfg.Fitness, e.cfg.SigmaScaling)
	probs, err := population.MatingProbabilities(fitness)
	if err != nil {
		return nil, fmt.Errorf("generation %d: %w", generation, err)
	}

	if e.observer != nil {
		e.emit(Event{
			Type:        EventTypeSelection,
			Generation:  generation,
			Population:  snapshot(current, e.cfg.Fitness),
			Fitness:     fitness,
			Proportions: probs,
		})
	}

	picks, err := population.Roulette(probs, n, e.rng)
	if err != nil {
		return nil, fmt.Errorf("generation %d: %w", generation, err)
	}

	pool := make([]*genome.Chromosome, n)
	for i, idx := range picks {
		pool[i] = current.At(idx)
	}
	return pool, nil
}

// mate consumes the pool in pairs. A parent with no genetically distinct
// partner left ends mating: it and every remaining member are cloned.
func (e *Evolver) mate(pool []*genome.Chromosome, generation int) ([]*genome.Chromosome, error) {
	remaining := make([]*genome.Chromosome, len(pool))
	copy(remaining, pool)
	children := make([]*genome.Chromosome, 0, len(pool))

	for len(remaining) > 0 {
		r1 := e.rng.Intn(len(remaining))
		p1 := remaining[r1]
		remaining = removeAt(remaining, r1)

		options := make([]int, 0, len(remaining))
		for i, ch := range remaining {
			if !ch.SameGenes(p1) {
				options = append(options, i)
			}
		}

		if len(options) == 0 {
			for _, ch := range append([]*genome.Chromosome{p1}, remaining...) {
				children = append(children, e.clone(ch, CloneReasonNoViableMate, generation))
			}
			break
		}

		r2 := options[e.rng.Intn(len(options))]
		p2 := remaining[r2]
		remaining = removeAt(remaining, r2)

		c1, c2, err := genome.Mate(p1, p2, e.rng)
		if err != nil {
			if !errors.Is(err, genome.ErrCrossoverExhausted) {
				return nil, err
			}
			children = append(children,
				e.clone(p1, CloneReasonCrossoverExhausted, generation),
				e.clone(p2, CloneReasonCrossoverExhausted, generation))
			continue
		}

		children = append(children, c1, c2)
		if e.observer != nil {
			s, p := View(p1, e.cfg.Fitness), View(p2, e.cfg.Fitness)
			e.emit(Event{
				Type:       EventTypeParentsMated,
				Generation: generation,
				Subject:    &s,
				Partner:    &p,
				Children:   []ChromosomeView{genesView(c1), genesView(c2)},
			})
		}
	}

	return children, nil
}

func (e *Evolver) clone(ch *genome.Chromosome, reason string, generation int) *genome.Chromosome {
	if e.observer != nil {
		v := View(ch, e.cfg.Fitness)
		e.emit(Event{Type: EventTypeParentsCloned, Generation: generation, Subject: &v, Reason: reason})
	}
	return ch.Clone()
}

// mutate flips every bit of every chromosome with the configured
// probability. Flips apply immediately, so later bits see earlier ones.
func (e *Evolver) mutate(chromosomes []*genome.Chromosome, generation int) {
	p := e.cfg.MutationProbability
	width := e.cfg.Codec.Width()
	for _, ch := range chromosomes {
		for bit := 0; bit < width; bit++ {
			if e.rng.Float64() >= p {
				continue
			}
			before := genesView(ch)
			kept := ch.Mutate(bit)
			if e.observer != nil {
				after := genesView(ch)
				e.emit(Event{
					Type:       EventTypeChromosomeMutated,
					Generation: generation,
					Subject:    &before,
					Mutated:    &after,
					Bit:        bit,
					Kept:       kept,
				})
			}
		}
	}
}

func (e *Evolver) emit(ev Event) {
	if e.observer == nil {
		return
	}
	ev.Run = e.run
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	e.observer.Observe(ev)
}

func snapshot(p *population.Population, fn genome.FitnessFunc) []ChromosomeView {
	out := make([]ChromosomeView, p.Len())
	for i := range out {
		out[i] = View(p.At(i), fn)
	}
	return out
}

func removeAt(s []*genome.Chromosome, i int) []*genome.Chromosome {
	return append(s[:i], s[i+1:]...)
}
