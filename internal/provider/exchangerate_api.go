package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"currencyconverter/internal/rates"
)

var _ RatesProvider = (*ExchangeRateAPIProvider)(nil)

const (
	exchangeRateAPIKeyedURL = "https://v6.exchangerate-api.com/v6"
	exchangeRateAPIOpenURL  = "https://open.er-api.com/v6"
)

// ExchangeRateAPIProvider fetches rates from ExchangeRate-API. Without a key it
// talks to the open access endpoint.
type ExchangeRateAPIProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewExchangeRateAPIProvider creates a new ExchangeRateAPIProvider.
func NewExchangeRateAPIProvider(baseURL, apiKey string, timeoutSec int) *ExchangeRateAPIProvider {
	if baseURL == "" {
		baseURL = exchangeRateAPIOpenURL
		if apiKey != "" {
			baseURL = exchangeRateAPIKeyedURL
		}
	}
	return &ExchangeRateAPIProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  newHTTPClient(timeoutSec),
	}
}

func (p *ExchangeRateAPIProvider) getLatestURL(base string) string {
	if p.apiKey == "" {
		return fmt.Sprintf("%s/latest/%s", p.baseURL, url.PathEscape(base))
	}
	return fmt.Sprintf("%s/%s/latest/%s", p.baseURL, url.PathEscape(p.apiKey), url.PathEscape(base))
}

// Latest fetches all rates relative to base.
func (p *ExchangeRateAPIProvider) Latest(ctx context.Context, base string) (*rates.Snapshot, error) {
	return fetchSnapshot(ctx, p.client, "exchangerate_api", p.getLatestURL(base), base)
}
