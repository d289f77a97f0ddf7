package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// FetchJSON pulls a vendor export feed with the configured bearer token,
// retrying transient failures. Every vendor adapter fetches through here so
// retry and auth behavior never drifts between vendors.
func FetchJSON(ctx context.Context, client *http.Client, feedURL, authToken string, retries int, logger *logrus.Logger) (json.RawMessage, error) {
	if feedURL == "" {
		return nil, fmt.Errorf("export url not configured")
	}
	if retries < 0 {
		retries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
			logger.WithFields(logrus.Fields{"url": feedURL, "attempt": attempt}).Warn("retrying vendor feed fetch")
		}

		payload, err := fetchOnce(ctx, client, feedURL, authToken)
		if err != nil {
			lastErr = err
			continue
		}
		return payload, nil
	}
	return nil, fmt.Errorf("fetching %s after %d attempts: %w", feedURL, retries+1, lastErr)
}

func fetchOnce(ctx context.Context, client *http.Client, feedURL, authToken string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("response is not valid json")
	}
	return body, nil
}
