package simd

import (
	"testing"
	"time"
)

const testConfigYAML = `
simulation: {run_count: 5, thread_count: 2, seed: 7}
range: {min: 0, max: 7}
population: {size: 4, max_generations: 10}
fitness: {expression: "x*x"}
output: {run_summary: true}
`

// failingConfigYAML passes validation but its total fitness is negative,
// which selection rejects
const failingConfigYAML = `
simulation: {run_count: 50, thread_count: 2, seed: 7}
range: {min: 0, max: 7}
population: {size: 4, max_generations: 10}
fitness: {expression: "-1 - x"}
`

func waitForTerminal(t *testing.T, store *SimulationStore, id string) SimulationRecord {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		rec, ok := store.Get(id)
		if !ok {
			t.Fatalf("simulation %s not found", id)
		}
		if rec.Simulation.Status.Terminal() {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("simulation %s did not finish", id)
	return SimulationRecord{}
}

func newTestExecutor() *Executor {
	return NewExecutor(NewSimulationStore(), nil, nil)
}

