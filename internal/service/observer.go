package service

import "currencyconverter/internal/rates"

// Observer is notified of every rate lookup outcome. Calls happen synchronously on
// the caller's goroutine, so implementations must not block.
type Observer interface {
	// CacheHit is called when a fresh stored snapshot was served without a fetch.
	CacheHit(base string, snap *rates.Snapshot)
	// Fetched is called after a successful upstream fetch.
	Fetched(base string, snap *rates.Snapshot)
	// FetchFailed is called after a failed fetch. fallback is the stored snapshot
	// served instead, or nil when none existed.
	FetchFailed(base string, err error, fallback *rates.Snapshot)
}

func (s *RateService) notifyCacheHit(base string, snap *rates.Snapshot) {
	for _, o := range s.observers {
		o.CacheHit(base, snap)
	}
}

func (s *RateService) notifyFetched(base string, snap *rates.Snapshot) {
	for _, o := range s.observers {
		o.Fetched(base, snap)
	}
}

func (s *RateService) notifyFetchFailed(base string, err error, fallback *rates.Snapshot) {
	for _, o := range s.observers {
		o.FetchFailed(base, err, fallback)
	}
}
