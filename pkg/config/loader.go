package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// maxSpan keeps max-min within 62 bits
const maxSpan = int64(1) << 62

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field of the configuration. Errors wrap ErrInvalidConfig.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if err := validateSimulation(&cfg.Simulation); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := validateRange(&cfg.Range); err != nil {
		return fmt.Errorf("range: %w", err)
	}
	if err := validatePopulation(&cfg.Population); err != nil {
		return fmt.Errorf("population: %w", err)
	}
	if err := validateFitness(&cfg.Fitness); err != nil {
		return fmt.Errorf("fitness: %w", err)
	}

	return nil
}

func validateSimulation(s *Simulation) error {
	if s.RunCount <= 0 {
		return fmt.Errorf("run_count must be positive, got %d", s.RunCount)
	}
	if s.ThreadCount <= 0 {
		return fmt.Errorf("thread_count must be positive, got %d", s.ThreadCount)
	}
	return nil
}

func validateRange(r *Range) error {
	if r.Min > r.Max {
		return fmt.Errorf("min %d exceeds max %d", r.Min, r.Max)
	}
	// Overflow-safe span check
	if r.Min < 0 && r.Max > math.MaxInt64+r.Min {
		return fmt.Errorf("span of [%d, %d] is too large", r.Min, r.Max)
	}
	if r.Max-r.Min >= maxSpan {
		return fmt.Errorf("span of [%d, %d] needs more than 62 bits", r.Min, r.Max)
	}
	return nil
}

func validatePopulation(p *Population) error {
	if p.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", p.Size)
	}
	if p.MaxGenerations <= 0 {
		return fmt.Errorf("max_generations must be positive, got %d", p.MaxGenerations)
	}
	if p.Elitism < 0 {
		return fmt.Errorf("elitism cannot be negative, got %d", p.Elitism)
	}
	if p.Elitism > p.Size {
		return fmt.Errorf("elitism %d exceeds population size %d", p.Elitism, p.Size)
	}
	if math.IsNaN(p.MutationProbability) || p.MutationProbability < 0 || p.MutationProbability > 1 {
		return fmt.Errorf("mutation_probability must be between 0 and 1, got %f", p.MutationProbability)
	}
	return nil
}

func validateFitness(f *Fitness) error {
	if strings.TrimSpace(f.Expression) == "" {
		return fmt.Errorf("expression cannot be empty")
	}
	if math.IsNaN(f.KnownMin) || math.IsInf(f.KnownMin, 0) {
		return fmt.Errorf("known_min must be finite")
	}
	if f.AllowKnownSolution && (math.IsNaN(f.KnownMax) || math.IsInf(f.KnownMax, 0)) {
		return fmt.Errorf("known_max must be finite when allow_known_solution is set")
	}
	return nil
}
