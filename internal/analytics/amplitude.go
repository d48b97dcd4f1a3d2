package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AmplitudeSender delivers events to the Amplitude HTTP v2 API.
type AmplitudeSender struct {
	endpoint   string
	apiKey     string
	userID     string
	httpClient *http.Client
}

// NewAmplitudeSender creates a sender. An empty apiKey produces a disabled
// sender; callers should check Enabled before dispatching.
func NewAmplitudeSender(endpoint, apiKey, userID string, timeout time.Duration) *AmplitudeSender {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AmplitudeSender{
		endpoint:   endpoint,
		apiKey:     apiKey,
		userID:     userID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether an API key is configured.
func (s *AmplitudeSender) Enabled() bool {
	return s.apiKey != ""
}

type amplitudeEvent struct {
	EventType       string         `json:"event_type"`
	UserID          string         `json:"user_id"`
	EventProperties map[string]any `json:"event_properties,omitempty"`
	Time            int64          `json:"time"`
}

type amplitudeRequest struct {
	APIKey string           `json:"api_key"`
	Events []amplitudeEvent `json:"events"`
}

// Send posts a single event. It returns an error on any transport or
// non-2xx failure; the caller decides whether that failure matters.
func (s *AmplitudeSender) Send(ctx context.Context, eventType string, props map[string]any) error {
	payload := amplitudeRequest{
		APIKey: s.apiKey,
		Events: []amplitudeEvent{{
			EventType:       eventType,
			UserID:          s.userID,
			EventProperties: props,
			Time:            time.Now().UnixMilli(),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analytics: marshal amplitude payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: build amplitude request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: post to amplitude: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("analytics: amplitude returned status %d", resp.StatusCode)
	}
	return nil
}
