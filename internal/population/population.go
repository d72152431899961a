// Package population holds one generation of chromosomes and the fitness
// statistics that drive selection.
package population

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/GoSim-25-26J-441/genetic-core/internal/genome"
)

// Population is an ordered, fixed-size generation. It is never modified
// after construction; evolution builds a new one.
type Population struct {
	members []*genome.Chromosome
}

// New wraps members. The slice is copied.
func New(members []*genome.Chromosome) *Population {
	out := make([]*genome.Chromosome, len(members))
	copy(out, members)
	return &Population{members: out}
}

// NewRandom builds size random chromosomes over codec
func NewRandom(size int, codec genome.Codec, rng genome.Rand) *Population {
	members := make([]*genome.Chromosome, size)
	for i := range members {
		members[i] = genome.NewRandom(codec, rng)
	}
	return &Population{members: members}
}

// Len returns the population size
func (p *Population) Len() int {
	return len(p.members)
}

// At returns member i
func (p *Population) At(i int) *genome.Chromosome {
	return p.members[i]
}

// Members returns a copy of the member slice in population order
func (p *Population) Members() []*genome.Chromosome {
	out := make([]*genome.Chromosome, len(p.members))
	copy(out, p.members)
	return out
}

// RawFitness returns the unscaled fitness of every member
func (p *Population) RawFitness(fn genome.FitnessFunc) []float64 {
	out := make([]float64, len(p.members))
	for i, ch := range p.members {
		out[i] = ch.Fitness(fn)
	}
	return out
}

// FitnessArray returns one fitness per member in population order, sigma
// scaled against this population's mean and standard deviation when
// sigmaScaling is set.
func (p *Population) FitnessArray(fn genome.FitnessFunc, sigmaScaling bool) []float64 {
	fitness := p.RawFitness(fn)
	if sigmaScaling {
		SigmaScale(fitness)
	}
	return fitness
}

// SigmaScale rewrites fitness in place: 1 + (f-mean)/(2*stddev), or leaves
// it untouched when the standard deviation is zero.
func SigmaScale(fitness []float64) {
	if len(fitness) == 0 {
		return
	}
	mean, std := stat.PopMeanStdDev(fitness, nil)
	if std == 0 {
		return
	}
	for i, f := range fitness {
		fitness[i] = 1 + (f-mean)/(2*std)
	}
}

// TotalFitness is the sum of FitnessArray
func (p *Population) TotalFitness(fn genome.FitnessFunc, sigmaScaling bool) float64 {
	return sum(p.FitnessArray(fn, sigmaScaling))
}

// AverageFitness is the mean of FitnessArray
func (p *Population) AverageFitness(fn genome.FitnessFunc, sigmaScaling bool) float64 {
	if len(p.members) == 0 {
		return 0
	}
	return stat.Mean(p.FitnessArray(fn, sigmaScaling), nil)
}

// MostFit returns the member with the highest raw fitness. Ties go to the
// earliest member.
func (p *Population) MostFit(fn genome.FitnessFunc) *genome.Chromosome {
	var best *genome.Chromosome
	var bestFitness float64
	for _, ch := range p.members {
		f := ch.Fitness(fn)
		if best == nil || f > bestFitness {
			best, bestFitness = ch, f
		}
	}
	return best
}

// FittestOrder returns the members sorted by descending raw fitness
func (p *Population) FittestOrder(fn genome.FitnessFunc) []*genome.Chromosome {
	out := p.Members()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Fitness(fn) > out[j].Fitness(fn)
	})
	return out
}

// String lists the gene strings separated by spaces
func (p *Population) String() string {
	parts := make([]string, len(p.members))
	for i, ch := range p.members {
		parts[i] = ch.GeneString()
	}
	return strings.Join(parts, " ")
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
