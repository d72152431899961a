package engine

import "time"

// Summary aggregates the results of every run of a simulation
type Summary struct {
	Runs    int           `json:"runs"`
	Threads int           `json:"threads"`
	Elapsed time.Duration `json:"elapsed"`
	// Results and BestGenerations are indexed by run number - 1
	Results               []RunResult `json:"results"`
	BestGenerations       []int       `json:"best_generations"`
	AverageBestGeneration int         `json:"average_best_generation"`
	MaxBestGeneration     int         `json:"max_best_generation"`
	SolvedRuns            int         `json:"solved_runs"`
}

// NewSummary computes the floor of the mean and the maximum best generation
func NewSummary(results []RunResult, threads int, elapsed time.Duration) *Summary {
	s := &Summary{
		Runs:            len(results),
		Threads:         threads,
		Elapsed:         elapsed,
		Results:         results,
		BestGenerations: make([]int, len(results)),
	}
	total := 0
	for i, r := range results {
		s.BestGenerations[i] = r.BestGeneration
		total += r.BestGeneration
		if r.BestGeneration > s.MaxBestGeneration {
			s.MaxBestGeneration = r.BestGeneration
		}
		if r.SolutionFound {
			s.SolvedRuns++
		}
	}
	if len(results) > 0 {
		s.AverageBestGeneration = total / len(results)
	}
	return s
}
