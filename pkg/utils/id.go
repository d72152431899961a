package utils

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid/v5"
)

var (
	// Counter for sequential IDs
	idCounter uint64
)

// GenerateID generates a unique process-local ID
func GenerateID() string {
	count := atomic.AddUint64(&idCounter, 1)
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("%x-%x", timestamp, count)
}

// GenerateSimulationID generates a simulation ID of the form sim-<uuid>.
// Time-ordered UUIDs are used so IDs sort by creation time.
func GenerateSimulationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "sim-" + GenerateID()
	}
	return "sim-" + id.String()
}

// RunLabel formats a 1-based run number for logs and reports
func RunLabel(simulationID string, run int) string {
	if simulationID == "" {
		return fmt.Sprintf("run-%d", run)
	}
	return fmt.Sprintf("%s/run-%d", simulationID, run)
}
