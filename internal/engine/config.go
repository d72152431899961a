package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/genetic-core/internal/genome"
)

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid engine config")

// Config is the immutable parameter set of a single run
type Config struct {
	Codec               genome.Codec
	PopulationSize      int
	MaxGenerations      int
	Elitism             int
	MutationProbability float64
	SigmaScaling        bool
	AllowKnownSolution  bool
	KnownMax            float64
	Fitness             genome.FitnessFunc
}

// Validate rejects configurations a run cannot execute
func (c Config) Validate() error {
	switch {
	case c.Fitness == nil:
		return fmt.Errorf("%w: fitness function is required", ErrInvalidConfig)
	case c.Codec.Width() == 0:
		return fmt.Errorf("%w: codec is not initialized", ErrInvalidConfig)
	case c.PopulationSize <= 0:
		return fmt.Errorf("%w: population size must be positive, got %d", ErrInvalidConfig, c.PopulationSize)
	case c.MaxGenerations <= 0:
		return fmt.Errorf("%w: max generations must be positive, got %d", ErrInvalidConfig, c.MaxGenerations)
	case c.Elitism < 0 || c.Elitism > c.PopulationSize:
		return fmt.Errorf("%w: elitism %d outside [0, %d]", ErrInvalidConfig, c.Elitism, c.PopulationSize)
	case math.IsNaN(c.MutationProbability) || c.MutationProbability < 0 || c.MutationProbability > 1:
		return fmt.Errorf("%w: mutation probability %v outside [0, 1]", ErrInvalidConfig, c.MutationProbability)
	}
	return nil
}

// IsKnownSolution reports whether fitness equals the configured optimum
func (c Config) IsKnownSolution(fitness float64) bool {
	return c.AllowKnownSolution && fitness == c.KnownMax
}
