package utils

import (
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/uuid/v5"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID()
	id2 := GenerateID()

	if id1 == "" {
		t.Error("GenerateID returned empty string")
	}
	if id1 == id2 {
		t.Error("GenerateID should return unique IDs")
	}
	if !strings.Contains(id1, "-") {
		t.Errorf("GenerateID should contain hyphen: %s", id1)
	}
}

func TestGenerateSimulationID(t *testing.T) {
	id := GenerateSimulationID()
	if !strings.HasPrefix(id, "sim-") {
		t.Fatalf("expected sim- prefix, got %s", id)
	}
	parsed, err := uuid.FromString(strings.TrimPrefix(id, "sim-"))
	if err != nil {
		t.Fatalf("expected uuid suffix: %v", err)
	}
	if parsed.Version() != uuid.V7 {
		t.Errorf("expected version 7 uuid, got %d", parsed.Version())
	}
}

func TestGenerateSimulationIDConcurrentUnique(t *testing.T) {
	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- GenerateSimulationID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestRunLabel(t *testing.T) {
	if got := RunLabel("", 3); got != "run-3" {
		t.Errorf("RunLabel = %s", got)
	}
	if got := RunLabel("sim-1", 12); got != "sim-1/run-12" {
		t.Errorf("RunLabel = %s", got)
	}
}
