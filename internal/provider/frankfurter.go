package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"currencyconverter/internal/rates"
)

var _ RatesProvider = (*FrankfurterProvider)(nil)

// FrankfurterProvider fetches rates from the Frankfurter API.
type FrankfurterProvider struct {
	baseURL string
	client  *http.Client
}

// NewFrankfurterProvider creates a new FrankfurterProvider.
func NewFrankfurterProvider(baseURL string, timeoutSec int) *FrankfurterProvider {
	if baseURL == "" {
		baseURL = "https://api.frankfurter.dev/v1"
	}
	return &FrankfurterProvider{
		baseURL: baseURL,
		client:  newHTTPClient(timeoutSec),
	}
}

// Latest retrieves every rate Frankfurter publishes for base. The date comes from
// the ECB reference date in the response.
func (p *FrankfurterProvider) Latest(ctx context.Context, base string) (*rates.Snapshot, error) {
	reqURL := fmt.Sprintf("%s/latest?base=%s", p.baseURL, url.QueryEscape(base))
	return fetchSnapshot(ctx, p.client, "frankfurter", reqURL, base)
}
