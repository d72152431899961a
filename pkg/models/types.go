package models

import "time"

// SimulationStatus represents the status of a submitted simulation
type SimulationStatus string

const (
	SimulationStatusPending   SimulationStatus = "pending"
	SimulationStatusRunning   SimulationStatus = "running"
	SimulationStatusCompleted SimulationStatus = "completed"
	SimulationStatusFailed    SimulationStatus = "failed"
)

// Terminal reports whether no further transitions can happen
func (s SimulationStatus) Terminal() bool {
	return s == SimulationStatusCompleted || s == SimulationStatusFailed
}

// Valid reports whether s is one of the known statuses
func (s SimulationStatus) Valid() bool {
	switch s {
	case SimulationStatusPending, SimulationStatusRunning, SimulationStatusCompleted, SimulationStatusFailed:
		return true
	}
	return false
}

// Simulation represents a simulation submitted to the daemon
type Simulation struct {
	ID              string            `json:"id"`
	Status          SimulationStatus  `json:"status"`
	CreatedAtUnixMs int64             `json:"created_at_unix_ms"`
	StartedAtUnixMs int64             `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64             `json:"ended_at_unix_ms,omitempty"`
	Error           string            `json:"error,omitempty"`
	CallbackURL     string            `json:"callback_url,omitempty"`
	Result          *SimulationResult `json:"result,omitempty"`
}

// SimulationResult summarizes every run of a completed simulation
type SimulationResult struct {
	Runs                  int     `json:"runs"`
	Threads               int     `json:"threads"`
	ElapsedMs             int64   `json:"elapsed_ms"`
	BestGenerations       []int   `json:"best_generations"`
	AverageBestGeneration int     `json:"average_best_generation"`
	MaxBestGeneration     int     `json:"max_best_generation"`
	SolvedRuns            int     `json:"solved_runs"`
	BestFitness           float64 `json:"best_fitness"`
	BestValue             int64   `json:"best_value"`
	BestGenes             string  `json:"best_genes"`
}

// Duration returns the wall time between start and end, or zero while the
// simulation has not ended
func (s *Simulation) Duration() time.Duration {
	if s.StartedAtUnixMs == 0 || s.EndedAtUnixMs == 0 {
		return 0
	}
	return time.Duration(s.EndedAtUnixMs-s.StartedAtUnixMs) * time.Millisecond
}
