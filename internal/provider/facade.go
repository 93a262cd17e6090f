package provider

import (
	"context"
	"errors"
	"fmt"

	"currencyconverter/internal/rates"
)

var _ RatesProvider = (*ExchangeProviderFacade)(nil)

// ExchangeProviderFacade is an abstraction that calls providers sequentially.
type ExchangeProviderFacade struct {
	providers []RatesProvider
}

// NewExchangeProviderFacade creates a new ExchangeProviderFacade with the given list of providers.
func NewExchangeProviderFacade(providers ...RatesProvider) *ExchangeProviderFacade {
	return &ExchangeProviderFacade{
		providers: providers,
	}
}

// ErrNoProviders is returned by a facade built without any providers.
var ErrNoProviders = errors.New("no providers configured")

// Latest calls providers in order until one succeeds.
func (p *ExchangeProviderFacade) Latest(ctx context.Context, base string) (*rates.Snapshot, error) {
	if len(p.providers) == 0 {
		return nil, &rates.FetchError{Base: base, Err: ErrNoProviders}
	}

	var errs []error
	for _, prov := range p.providers {
		snap, err := prov.Latest(ctx, base)
		if err == nil {
			return snap, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}

	return nil, &rates.FetchError{Base: base, Err: fmt.Errorf("all providers failed: %w", errors.Join(errs...))}
}
