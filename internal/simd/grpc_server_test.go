package simd

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/GoSim-25-26J-441/genetic-core/pkg/models"
)

// startGRPC serves srv over an in-memory listener and returns a client
func startGRPC(t *testing.T, srv *SimulationGRPCServer) SimulationServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterSimulationServiceServer(s, srv)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewSimulationServiceClient(conn)
}

func newTestGRPCServer() *SimulationGRPCServer {
	srv := NewSimulationGRPCServer(newTestExecutor())
	srv.pollInterval = 5 * time.Millisecond
	return srv
}

func createRequest(t *testing.T, configYAML string) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(map[string]any{"config_yaml": configYAML})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return req
}

func TestGRPCServerLifecycle(t *testing.T) {
	srv := newTestGRPCServer()
	client := startGRPC(t, srv)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := client.CreateSimulation(ctx, createRequest(t, testConfigYAML))
	if err != nil {
		t.Fatalf("CreateSimulation error: %v", err)
	}
	id := created.GetFields()["id"].GetStringValue()
	if id == "" {
		t.Fatalf("expected simulation id")
	}

	stream, err := client.StreamEvents(ctx, wrapperspb.String(id))
	if err != nil {
		t.Fatalf("StreamEvents error: %v", err)
	}
	var events []*structpb.Struct
	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Recv error: %v", err)
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		t.Fatalf("expected at least one event")
	}
	first := events[0].GetFields()
	if first["previous"].GetStringValue() != "" || first["simulation_id"].GetStringValue() != id {
		t.Fatalf("unexpected first event: %v", events[0])
	}
	last := events[len(events)-1].GetFields()
	if last["current"].GetStringValue() != string(models.SimulationStatusCompleted) {
		t.Fatalf("expected stream to end on completed, got %v", last["current"])
	}
	for i := 1; i < len(events); i++ {
		prev := events[i-1].GetFields()["current"].GetStringValue()
		if events[i].GetFields()["previous"].GetStringValue() != prev {
			t.Fatalf("events are not chained: %v", events)
		}
	}

	got, err := client.GetSimulation(ctx, wrapperspb.String(id))
	if err != nil {
		t.Fatalf("GetSimulation error: %v", err)
	}
	result := got.GetFields()["result"].GetStructValue()
	if result == nil {
		t.Fatalf("expected result")
	}
	if runs := result.GetFields()["runs"].GetNumberValue(); runs != 5 {
		t.Fatalf("expected 5 runs, got %v", runs)
	}
	if gens := result.GetFields()["best_generations"].GetListValue().GetValues(); len(gens) != 5 {
		t.Fatalf("expected 5 best generations, got %d", len(gens))
	}

	list, err := client.ListSimulations(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("ListSimulations error: %v", err)
	}
	if len(list.GetValues()) != 1 {
		t.Fatalf("expected 1 simulation, got %d", len(list.GetValues()))
	}
	srv.Executor.Wait()
}

func TestGRPCServerErrors(t *testing.T) {
	srv := newTestGRPCServer()
	client := startGRPC(t, srv)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		code codes.Code
	}{
		{"create without config", func() error {
			_, err := client.CreateSimulation(ctx, &structpb.Struct{})
			return err
		}, codes.InvalidArgument},
		{"create invalid config", func() error {
			_, err := client.CreateSimulation(ctx, createRequest(t, "population: {size: -1}"))
			return err
		}, codes.InvalidArgument},
		{"get without id", func() error {
			_, err := client.GetSimulation(ctx, wrapperspb.String(""))
			return err
		}, codes.InvalidArgument},
		{"get missing", func() error {
			_, err := client.GetSimulation(ctx, wrapperspb.String("missing"))
			return err
		}, codes.NotFound},
		{"stream missing", func() error {
			stream, err := client.StreamEvents(ctx, wrapperspb.String("missing"))
			if err != nil {
				return err
			}
			_, err = stream.Recv()
			return err
		}, codes.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if status.Code(err) != tt.code {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestGRPCStreamEndsImmediatelyForTerminal(t *testing.T) {
	srv := newTestGRPCServer()
	store := srv.Executor.Store()
	_, _ = store.Create("sim-done", "", "")
	_, _ = store.SetStatus("sim-done", models.SimulationStatusFailed, "boom")
	client := startGRPC(t, srv)

	stream, err := client.StreamEvents(context.Background(), wrapperspb.String("sim-done"))
	if err != nil {
		t.Fatalf("StreamEvents error: %v", err)
	}
	ev, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv error: %v", err)
	}
	if ev.GetFields()["current"].GetStringValue() != "failed" {
		t.Fatalf("unexpected event: %v", ev)
	}
	if _, err := stream.Recv(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}
