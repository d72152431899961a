package simd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/genetic-core/internal/metrics"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/logger"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/models"
)

const maxRequestBytes = 1 << 20

type HTTPServer struct {
	mux      *http.ServeMux
	store    *SimulationStore
	Executor *Executor
}

// NewHTTPServer wires the REST API. collector may be nil, in which case
// /metrics is not served.
func NewHTTPServer(executor *Executor, collector *metrics.Collector) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    executor.Store(),
		Executor: executor,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/simulations", s.handleSimulations)
	s.mux.HandleFunc("/v1/simulations/", s.handleSimulationByID)
	if collector != nil {
		s.mux.Handle("/metrics", collector.Handler())
	}

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"simulations": s.store.Len(),
	})
}

// handleSimulations handles /v1/simulations
func (s *HTTPServer) handleSimulations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSimulation(w, r)
	case http.MethodGet:
		s.handleListSimulations(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSimulationByID handles /v1/simulations/{id} and /v1/simulations/{id}/report
func (s *HTTPServer) handleSimulationByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/simulations/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "simulation ID is required")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if strings.HasSuffix(path, "/report") {
		s.handleGetReport(w, strings.TrimSuffix(path, "/report"))
		return
	}
	if strings.Contains(path, "/") {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.handleGetSimulation(w, path)
}

// handleCreateSimulation handles POST /v1/simulations
func (s *HTTPServer) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigYAML  string `json:"config_yaml"`
		CallbackURL string `json:"callback_url,omitempty"`
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.ConfigYAML) == "" {
		s.writeError(w, http.StatusBadRequest, "config_yaml is required")
		return
	}

	rec, err := s.Executor.Submit(req.ConfigYAML, req.CallbackURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrSimulationExists):
			s.writeError(w, http.StatusConflict, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Info("simulation created (HTTP)", "simulation_id", rec.Simulation.ID)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"simulation": rec.Simulation,
	})
}

// handleListSimulations handles GET /v1/simulations with pagination and filtering
func (s *HTTPServer) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = min(parsed, 1000)
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	var status models.SimulationStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status = models.SimulationStatus(strings.ToLower(statusStr))
		if !status.Valid() {
			s.writeError(w, http.StatusBadRequest, "unknown status: "+statusStr)
			return
		}
	}

	recs := s.store.List(limit, offset, status)
	sims := make([]models.Simulation, 0, len(recs))
	for _, rec := range recs {
		sims = append(sims, rec.Simulation)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"simulations": sims,
		"limit":       limit,
		"offset":      offset,
	})
}

// handleGetSimulation handles GET /v1/simulations/{id}
func (s *HTTPServer) handleGetSimulation(w http.ResponseWriter, id string) {
	rec, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "simulation not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"simulation":  rec.Simulation,
		"config_yaml": rec.ConfigYAML,
	})
}

// handleGetReport handles GET /v1/simulations/{id}/report
func (s *HTTPServer) handleGetReport(w http.ResponseWriter, id string) {
	rec, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "simulation not found")
		return
	}
	if rec.Simulation.Status != models.SimulationStatusCompleted {
		s.writeError(w, http.StatusConflict, "report not available: simulation is "+string(rec.Simulation.Status))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(rec.Report)); err != nil {
		logger.Error("failed to write report", "simulation_id", id, "error", err)
	}
}

// Helper functions

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}
