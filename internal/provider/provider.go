// Package provider implements the upstream exchange rate sources and normalizes
// their responses into rate snapshots.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"currencyconverter/internal/rates"
)

// RatesProvider fetches the full rate table for a base currency from an upstream source.
type RatesProvider interface {
	Latest(ctx context.Context, base string) (*rates.Snapshot, error)
}

const maxBodyBytes = 256 << 10

func newHTTPClient(timeoutSec int) *http.Client {
	if timeoutSec <= 0 {
		timeoutSec = 5
	}
	return &http.Client{Timeout: time.Duration(timeoutSec) * time.Second}
}

// getBody issues a GET and returns the body of a 2xx response.
func getBody(ctx context.Context, client *http.Client, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// fetchSnapshot is the shared request -> normalize path of every HTTP source.
func fetchSnapshot(ctx context.Context, client *http.Client, source, reqURL, base string) (*rates.Snapshot, error) {
	body, err := getBody(ctx, client, reqURL)
	if err != nil {
		return nil, &rates.FetchError{Source: source, Base: base, Err: err}
	}
	snap, err := decodeSnapshot(body, base, time.Now().UTC())
	if err != nil {
		return nil, &rates.FetchError{Source: source, Base: base, Err: err}
	}
	return snap, nil
}
