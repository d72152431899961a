package simd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/genetic-core/pkg/models"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/utils"
)

func newFastNotifier() *Notifier {
	n := NewNotifier()
	n.backoff = utils.NewConstantBackoff(time.Millisecond)
	n.httpClient.Timeout = 2 * time.Second
	return n
}

func TestNotifierSendSuccess(t *testing.T) {
	var got NotificationPayload
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := newFastNotifier()
	payload := NotificationPayload{
		Simulation: models.Simulation{ID: "sim-1", Status: models.SimulationStatusCompleted},
		Timestamp:  1,
	}
	if err := n.Send(context.Background(), srv.URL, payload); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
	if got.Simulation.ID != "sim-1" || got.Simulation.Status != models.SimulationStatusCompleted {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestNotifierRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newFastNotifier()
	if err := n.Send(context.Background(), srv.URL, NotificationPayload{}); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestNotifierGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newFastNotifier()
	err := n.Send(context.Background(), srv.URL, NotificationPayload{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := int32(n.maxRetries + 1); calls.Load() != want {
		t.Fatalf("expected %d calls, got %d", want, calls.Load())
	}
}

func TestNotifierStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier() // one second base delay
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := n.Send(ctx, srv.URL, NotificationPayload{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if time.Since(start) > 900*time.Millisecond {
		t.Fatalf("Send ignored cancellation")
	}
}

func TestNotifierNotifyReplacesPlaceholder(t *testing.T) {
	var mu sync.Mutex
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		path = r.URL.Path
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newFastNotifier()
	n.Notify(srv.URL+"/hooks/{simulation_id}", models.Simulation{ID: "sim-42"})
	n.Notify("", models.Simulation{ID: "ignored"})
	n.Wait()

	mu.Lock()
	defer mu.Unlock()
	if path != "/hooks/sim-42" {
		t.Fatalf("expected /hooks/sim-42, got %q", path)
	}
}
