package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"currencyconverter/internal/rates"
)

var _ RatesProvider = (*ExchangeRateHostProvider)(nil)

// ExchangeRateHostProvider fetches rates from the exchangerate.host API.
type ExchangeRateHostProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewExchangeRateHostProvider creates a new ExchangeRateHostProvider with the given configuration.
// apiKey may be empty for deployments that do not require one.
func NewExchangeRateHostProvider(baseURL, apiKey string, timeoutSec int) *ExchangeRateHostProvider {
	if baseURL == "" {
		baseURL = "https://api.exchangerate.host"
	}
	return &ExchangeRateHostProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  newHTTPClient(timeoutSec),
	}
}

// getLatestURL forms the API URL for fetching the full table of a base.
func (p *ExchangeRateHostProvider) getLatestURL(base string) string {
	q := url.Values{}
	q.Set("base", base)
	if p.apiKey != "" {
		q.Set("access_key", p.apiKey)
	}
	return fmt.Sprintf("%s/latest?%s", p.baseURL, q.Encode())
}

// Latest fetches all rates relative to base.
func (p *ExchangeRateHostProvider) Latest(ctx context.Context, base string) (*rates.Snapshot, error) {
	return fetchSnapshot(ctx, p.client, "exchangerate_host", p.getLatestURL(base), base)
}
