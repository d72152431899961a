package simd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/genetic-core/pkg/logger"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/models"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/utils"
)

// NotificationPayload represents the JSON payload sent to the callback URL
type NotificationPayload struct {
	Simulation models.Simulation `json:"simulation"`
	Timestamp  int64             `json:"timestamp"` // When notification was sent
}

// Notifier posts terminal simulation states to callback URLs
type Notifier struct {
	httpClient *http.Client
	maxRetries int
	backoff    utils.BackoffStrategy
	wg         sync.WaitGroup
}

// NewNotifier creates a notifier retrying with exponential backoff
func NewNotifier() *Notifier {
	return &Notifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxRetries: 3,
		backoff:    utils.NewExponentialBackoff(time.Second, 30*time.Second, 2, true),
	}
}

// Notify sends sim to callbackURL in the background. A {simulation_id}
// placeholder in the URL is replaced with the simulation ID.
func (n *Notifier) Notify(callbackURL string, sim models.Simulation) {
	if callbackURL == "" {
		return
	}
	finalURL := strings.ReplaceAll(callbackURL, "{simulation_id}", sim.ID)
	payload := NotificationPayload{
		Simulation: sim,
		Timestamp:  time.Now().UTC().UnixMilli(),
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.Send(context.Background(), finalURL, payload); err != nil {
			logger.Error("failed to send notification after retries",
				"callback_url", finalURL,
				"simulation_id", sim.ID,
				"status", sim.Status,
				"max_retries", n.maxRetries,
				"last_error", err)
		}
	}()
}

// Wait blocks until background notifications finish
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// Send performs the HTTP POST with retries and returns the last error
func (n *Notifier) Send(ctx context.Context, callbackURL string, payload NotificationPayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			delay := n.backoff.NextDelay(attempt - 1)
			logger.Debug("retrying notification",
				"callback_url", callbackURL,
				"simulation_id", payload.Simulation.ID,
				"attempt", attempt,
				"delay", delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(payloadJSON))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "genetic-core/1.0")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			logger.Warn("notification attempt failed",
				"callback_url", callbackURL,
				"simulation_id", payload.Simulation.ID,
				"attempt", attempt+1,
				"error", err)
			continue
		}

		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		responseBody := string(bodyBytes)
		if len(responseBody) > 200 {
			responseBody = responseBody[:200] + "..."
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logger.Info("notification sent successfully",
				"simulation_id", payload.Simulation.ID,
				"status", payload.Simulation.Status,
				"status_code", resp.StatusCode)
			return nil
		}

		lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		logger.Warn("notification returned non-2xx status",
			"callback_url", callbackURL,
			"simulation_id", payload.Simulation.ID,
			"status_code", resp.StatusCode,
			"response_body", responseBody,
			"attempt", attempt+1)
	}
	return lastErr
}
