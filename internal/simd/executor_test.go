package simd

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/GoSim-25-26J-441/genetic-core/internal/metrics"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/models"
)

func TestExecutorCompletesSimulation(t *testing.T) {
	e := newTestExecutor()
	rec, err := e.Submit(testConfigYAML, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if !strings.HasPrefix(rec.Simulation.ID, "sim-") {
		t.Fatalf("unexpected id %q", rec.Simulation.ID)
	}
	if !strings.Contains(rec.ConfigYAML, "run_count: 5") {
		t.Fatalf("expected effective config, got:\n%s", rec.ConfigYAML)
	}

	e.Wait()
	done := waitForTerminal(t, e.Store(), rec.Simulation.ID)
	if done.Simulation.Status != models.SimulationStatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", done.Simulation.Status, done.Simulation.Error)
	}

	res := done.Simulation.Result
	if res == nil {
		t.Fatalf("expected result")
	}
	if res.Runs != 5 || len(res.BestGenerations) != 5 || res.Threads != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.BestFitness < 0 || res.BestFitness > 49 {
		t.Fatalf("best fitness out of range: %v", res.BestFitness)
	}
	if len(res.BestGenes) != 3 {
		t.Fatalf("expected 3 bit genes, got %q", res.BestGenes)
	}

	if !strings.Contains(done.Report, "5 Simulations completed in") {
		t.Fatalf("report missing summary:\n%s", done.Report)
	}
	if strings.Count(done.Report, "complete, best generation") != 5 {
		t.Fatalf("expected one block per run:\n%s", done.Report)
	}
}

func TestExecutorRejectsInvalidConfig(t *testing.T) {
	tests := []string{
		"population: [",
		"population: {size: 4, elitism: 5}",
		"fitness: {expression: \"x +\"}",
		"range: {min: 0, max: 7}\nfitness: {expression: \"1/x\"}",
	}
	for _, yamlText := range tests {
		e := newTestExecutor()
		_, err := e.Submit(yamlText, "")
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%q: expected ErrInvalidRequest, got %v", yamlText, err)
		}
		if e.Store().Len() != 0 {
			t.Errorf("%q: invalid submission was stored", yamlText)
		}
	}
}

func TestExecutorRecordsFailure(t *testing.T) {
	collector := metrics.NewCollector()
	e := NewExecutor(NewSimulationStore(), nil, collector)

	rec, err := e.Submit(failingConfigYAML, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	e.Wait()

	done := waitForTerminal(t, e.Store(), rec.Simulation.ID)
	if done.Simulation.Status != models.SimulationStatusFailed {
		t.Fatalf("expected failed, got %s", done.Simulation.Status)
	}
	if !strings.Contains(done.Simulation.Error, "selection failed") {
		t.Fatalf("unexpected error %q", done.Simulation.Error)
	}
	if done.Simulation.Result != nil {
		t.Fatalf("failed simulation should have no result")
	}
	if v := metricValue(t, collector, "gasim_simulations_finished_total", "failed"); v != 1 {
		t.Fatalf("expected 1 failed simulation, got %v", v)
	}
}

func TestExecutorNotifiesCallback(t *testing.T) {
	var mu sync.Mutex
	var payloads []NotificationPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p NotificationPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
		}
		mu.Lock()
		payloads = append(payloads, p)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewExecutor(NewSimulationStore(), newFastNotifier(), nil)
	rec, err := e.Submit(testConfigYAML, srv.URL)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	e.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(payloads) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(payloads))
	}
	p := payloads[0]
	if p.Simulation.ID != rec.Simulation.ID || p.Simulation.Status != models.SimulationStatusCompleted {
		t.Fatalf("unexpected payload: %+v", p.Simulation)
	}
	if p.Simulation.Result == nil || p.Simulation.Result.Runs != 5 {
		t.Fatalf("expected result in payload")
	}
}

func TestExecutorFeedsMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	e := NewExecutor(NewSimulationStore(), nil, collector)

	rec, err := e.Submit(testConfigYAML, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	e.Wait()
	waitForTerminal(t, e.Store(), rec.Simulation.ID)

	count, err := testutil.GatherAndCount(collector.Registry(), "gasim_runs_completed_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected runs_completed series, got %d", count)
	}
	if v := metricValue(t, collector, "gasim_runs_completed_total", ""); v != 5 {
		t.Fatalf("expected 5 completed runs, got %v", v)
	}
	if v := metricValue(t, collector, "gasim_simulations_active", ""); v != 0 {
		t.Fatalf("expected no active simulations, got %v", v)
	}
	if v := metricValue(t, collector, "gasim_simulations_finished_total", "completed"); v != 1 {
		t.Fatalf("expected 1 completed simulation, got %v", v)
	}
}

// metricValue returns the counter or gauge value of name, optionally
// restricted to the series whose first label equals label
func metricValue(t *testing.T, c *metrics.Collector, name, label string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label != "" && (len(m.GetLabel()) == 0 || m.GetLabel()[0].GetValue() != label) {
				continue
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s{%s} not found", name, label)
	return 0
}

func TestResultFromSummaryPicksFittest(t *testing.T) {
	e := newTestExecutor()
	rec, err := e.Submit(testConfigYAML, "")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	e.Wait()
	done := waitForTerminal(t, e.Store(), rec.Simulation.ID)
	if done.Simulation.Result.BestValue*done.Simulation.Result.BestValue != int64(done.Simulation.Result.BestFitness) {
		t.Fatalf("best value and fitness disagree: %+v", done.Simulation.Result)
	}
}
