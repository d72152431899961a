package simd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/GoSim-25-26J-441/genetic-core/pkg/logger"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/models"
)

// SimulationGRPCServer implements SimulationServiceServer on top of an Executor
type SimulationGRPCServer struct {
	store        *SimulationStore
	Executor     *Executor
	pollInterval time.Duration
}

// NewSimulationGRPCServer creates a new SimulationGRPCServer
func NewSimulationGRPCServer(executor *Executor) *SimulationGRPCServer {
	return &SimulationGRPCServer{
		store:        executor.Store(),
		Executor:     executor,
		pollInterval: 500 * time.Millisecond,
	}
}

func (s *SimulationGRPCServer) CreateSimulation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	configYAML := fields["config_yaml"].GetStringValue()
	if configYAML == "" {
		return nil, status.Error(codes.InvalidArgument, "config_yaml is required")
	}
	callbackURL := fields["callback_url"].GetStringValue()

	rec, err := s.Executor.Submit(configYAML, callbackURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, ErrSimulationExists):
			return nil, status.Error(codes.AlreadyExists, err.Error())
		default:
			return nil, status.Error(codes.Internal, err.Error())
		}
	}

	logger.Info("simulation created (gRPC)", "simulation_id", rec.Simulation.ID)
	return simulationToStruct(rec.Simulation)
}

func (s *SimulationGRPCServer) GetSimulation(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "simulation id is required")
	}
	rec, ok := s.store.Get(req.GetValue())
	if !ok {
		return nil, status.Error(codes.NotFound, "simulation not found")
	}
	return simulationToStruct(rec.Simulation)
}

func (s *SimulationGRPCServer) ListSimulations(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	recs := s.store.List(defaultListLimit, 0, "")
	values := make([]*structpb.Value, 0, len(recs))
	for _, rec := range recs {
		st, err := simulationToStruct(rec.Simulation)
		if err != nil {
			return nil, err
		}
		values = append(values, structpb.NewStructValue(st))
	}
	return &structpb.ListValue{Values: values}, nil
}

// StreamEvents sends the current status, then every status change, and
// returns once the simulation is terminal.
func (s *SimulationGRPCServer) StreamEvents(req *wrapperspb.StringValue, stream SimulationService_StreamEventsServer) error {
	id := req.GetValue()
	if id == "" {
		return status.Error(codes.InvalidArgument, "simulation id is required")
	}

	rec, ok := s.store.Get(id)
	if !ok {
		return status.Error(codes.NotFound, "simulation not found")
	}

	previous := models.SimulationStatus("")
	if err := s.sendStatusChanged(stream, rec.Simulation, previous); err != nil {
		return err
	}
	previous = rec.Simulation.Status
	if previous.Terminal() {
		return nil
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		case <-ticker.C:
			rec, ok := s.store.Get(id)
			if !ok {
				return status.Error(codes.NotFound, "simulation not found")
			}
			if rec.Simulation.Status == previous {
				continue
			}
			if err := s.sendStatusChanged(stream, rec.Simulation, previous); err != nil {
				return err
			}
			previous = rec.Simulation.Status
			if previous.Terminal() {
				return nil
			}
		}
	}
}

func (s *SimulationGRPCServer) sendStatusChanged(stream SimulationService_StreamEventsServer, sim models.Simulation, previous models.SimulationStatus) error {
	simStruct, err := simulationToStruct(sim)
	if err != nil {
		return err
	}
	return stream.Send(&structpb.Struct{Fields: map[string]*structpb.Value{
		"type":          structpb.NewStringValue("status_changed"),
		"simulation_id": structpb.NewStringValue(sim.ID),
		"previous":      structpb.NewStringValue(string(previous)),
		"current":       structpb.NewStringValue(string(sim.Status)),
		"at_unix_ms":    structpb.NewNumberValue(float64(time.Now().UTC().UnixMilli())),
		"simulation":    structpb.NewStructValue(simStruct),
	}})
}

// simulationToStruct converts through the JSON form so both APIs share
// field names
func simulationToStruct(sim models.Simulation) (*structpb.Struct, error) {
	data, err := json.Marshal(sim)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode simulation: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode simulation: %v", err))
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode simulation: %v", err))
	}
	return st, nil
}
