package simd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/genetic-core/pkg/models"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/utils"
)

var (
	ErrSimulationNotFound = errors.New("simulation not found")
	ErrSimulationExists   = errors.New("simulation already exists")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

const defaultListLimit = 50

// SimulationRecord is a snapshot of one stored simulation
type SimulationRecord struct {
	Simulation models.Simulation
	// ConfigYAML is the effective configuration, defaults filled in
	ConfigYAML string
	// Report is the text report captured while the simulation ran
	Report string
}

// SimulationStore keeps simulations in memory. Returned records are copies
// and may be used without locking.
type SimulationStore struct {
	mu    sync.RWMutex
	sims  map[string]*SimulationRecord
	order []string
}

func NewSimulationStore() *SimulationStore {
	return &SimulationStore{
		sims: make(map[string]*SimulationRecord),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

// Create stores a pending simulation. An empty id is generated.
func (s *SimulationStore) Create(id, configYAML, callbackURL string) (SimulationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = utils.GenerateSimulationID()
	}
	if _, exists := s.sims[id]; exists {
		return SimulationRecord{}, fmt.Errorf("%w: %s", ErrSimulationExists, id)
	}

	rec := &SimulationRecord{
		Simulation: models.Simulation{
			ID:              id,
			Status:          models.SimulationStatusPending,
			CreatedAtUnixMs: nowUnixMs(),
			CallbackURL:     callbackURL,
		},
		ConfigYAML: configYAML,
	}
	s.sims[id] = rec
	s.order = append(s.order, id)
	return *rec, nil
}

func (s *SimulationStore) Get(id string) (SimulationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sims[id]
	if !ok {
		return SimulationRecord{}, false
	}
	return *rec, true
}

// List returns simulations in creation order. A zero status matches all.
func (s *SimulationStore) List(limit, offset int, status models.SimulationStatus) []SimulationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	out := make([]SimulationRecord, 0, min(limit, len(s.order)))
	skipped := 0
	for _, id := range s.order {
		rec := s.sims[id]
		if status != "" && rec.Simulation.Status != status {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, *rec)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Len returns the number of stored simulations
func (s *SimulationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sims)
}

// SetStatus moves a simulation forward. Terminal simulations never change.
func (s *SimulationStore) SetStatus(id string, status models.SimulationStatus, errMsg string) (SimulationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sims[id]
	if !ok {
		return SimulationRecord{}, fmt.Errorf("%w: %s", ErrSimulationNotFound, id)
	}
	if rec.Simulation.Status.Terminal() {
		return SimulationRecord{}, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, id, rec.Simulation.Status)
	}

	rec.Simulation.Status = status
	if errMsg != "" {
		rec.Simulation.Error = errMsg
	}

	switch status {
	case models.SimulationStatusRunning:
		if rec.Simulation.StartedAtUnixMs == 0 {
			rec.Simulation.StartedAtUnixMs = nowUnixMs()
		}
	case models.SimulationStatusCompleted, models.SimulationStatusFailed:
		rec.Simulation.EndedAtUnixMs = nowUnixMs()
	}

	return *rec, nil
}

// SetResult attaches the outcome and captured report
func (s *SimulationStore) SetResult(id string, result *models.SimulationResult, report string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sims[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSimulationNotFound, id)
	}
	rec.Simulation.Result = result
	rec.Report = report
	return nil
}
