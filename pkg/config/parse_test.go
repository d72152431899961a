package config

import (
	"errors"
	"strings"
	"testing"
)

const validYAML = `
log_level: debug
simulation:
  run_count: 20
  thread_count: 3
  seed: 11
range:
  min: -8
  max: 23
population:
  size: 10
  max_generations: 50
  elitism: 2
  mutation_probability: 0.01
  sigma_scaling: true
fitness:
  expression: "x^2 - 3*x"
  allow_known_solution: true
  known_max: 460
  known_min: 10
output:
  gen_summary: true
  run_summary: false
`

func TestParseConfigYAMLValid(t *testing.T) {
	cfg, err := ParseConfigYAMLString(validYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Simulation.RunCount != 20 || cfg.Simulation.ThreadCount != 3 || cfg.Simulation.Seed != 11 {
		t.Fatalf("unexpected simulation block: %+v", cfg.Simulation)
	}
	if cfg.Range.Min != -8 || cfg.Range.Max != 23 {
		t.Fatalf("unexpected range: %+v", cfg.Range)
	}
	if cfg.Population.Elitism != 2 || !cfg.Population.SigmaScaling {
		t.Fatalf("unexpected population: %+v", cfg.Population)
	}
	if cfg.Fitness.KnownMin != 10 || !cfg.Fitness.AllowKnownSolution {
		t.Fatalf("unexpected fitness: %+v", cfg.Fitness)
	}
	if !cfg.Output.GenSummary || cfg.Output.RunSummary {
		t.Fatalf("unexpected output: %+v", cfg.Output)
	}
}

func TestParseConfigYAMLAppliesDefaults(t *testing.T) {
	cfg, err := ParseConfigYAMLString("simulation:\n  run_count: 5\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Simulation.RunCount != 5 {
		t.Fatalf("expected run_count 5, got %d", cfg.Simulation.RunCount)
	}
	if cfg.Simulation.ThreadCount != 4 || cfg.Population.Size != 4 || cfg.Fitness.Expression != "x*x" {
		t.Fatalf("expected defaults to fill the rest: %+v", cfg)
	}
}

func TestParseConfigYAMLMalformed(t *testing.T) {
	_, err := ParseConfigYAMLString("simulation: [unterminated")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse config yaml") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseConfigYAMLInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad log level", "log_level: loud", "invalid log_level"},
		{"zero runs", "simulation: {run_count: 0, thread_count: 1}", "run_count must be positive"},
		{"zero threads", "simulation: {run_count: 1, thread_count: 0}", "thread_count must be positive"},
		{"inverted range", "range: {min: 9, max: 1}", "exceeds max"},
		{"huge range", "range: {min: -9223372036854775808, max: 9223372036854775807}", "too large"},
		{"zero population", "population: {size: 0, max_generations: 1}", "size must be positive"},
		{"zero generations", "population: {size: 4, max_generations: 0}", "max_generations must be positive"},
		{"elitism too big", "population: {size: 4, max_generations: 1, elitism: 5}", "exceeds population size"},
		{"negative elitism", "population: {size: 4, max_generations: 1, elitism: -1}", "cannot be negative"},
		{"mutation above one", "population: {size: 4, max_generations: 1, mutation_probability: 1.5}", "mutation_probability"},
		{"empty expression", "fitness: {expression: '  '}", "expression cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfigYAMLString(tt.yaml)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMarshalConfigYAMLRoundTrip(t *testing.T) {
	cfg, err := ParseConfigYAMLString(validYAML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := MarshalConfigYAML(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := ParseConfigYAMLString(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if *again != *cfg {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", cfg, again)
	}

	if _, err := MarshalConfigYAML(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
