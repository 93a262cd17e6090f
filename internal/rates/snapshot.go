// Package rates holds the rate snapshot model and the pure conversion math.
package rates

import "time"

// StalenessThreshold is the maximum age of a snapshot that may be served without
// a refresh attempt.
const StalenessThreshold = 24 * time.Hour

// Table maps a currency code to the number of units of that currency equal to one
// unit of the snapshot base.
type Table map[string]float64

// Snapshot is one fetched set of exchange rates. It is never mutated after creation;
// a refresh produces a new Snapshot.
type Snapshot struct {
	Base      string `json:"base"`
	Date      string `json:"date"`
	Rates     Table  `json:"rates"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds of the fetch
}

// NewSnapshot copies rates into a fresh Snapshot stamped with fetchedAt.
func NewSnapshot(base, date string, rates Table, fetchedAt time.Time) *Snapshot {
	table := make(Table, len(rates))
	for code, r := range rates {
		table[code] = r
	}
	return &Snapshot{
		Base:      base,
		Date:      date,
		Rates:     table,
		Timestamp: fetchedAt.UnixMilli(),
	}
}

// FetchedAt returns the fetch instant.
func (s *Snapshot) FetchedAt() time.Time {
	return time.UnixMilli(s.Timestamp).UTC()
}

// Age reports how old the snapshot is at now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(s.Timestamp))
}

// IsFresh reports whether the snapshot is within StalenessThreshold at now.
func (s *Snapshot) IsFresh(now time.Time) bool {
	return s.Age(now) <= StalenessThreshold
}

// FetchedBefore reports whether the snapshot was fetched before t, at millisecond
// precision. A refresh that returns a snapshot fetched before it started was served
// from the store.
func (s *Snapshot) FetchedBefore(t time.Time) bool {
	return s.Timestamp < t.UnixMilli()
}

// Convert converts amount using this snapshot's table.
func (s *Snapshot) Convert(amount float64, from, to string) (float64, error) {
	return Convert(amount, from, to, s.Rates, s.Base)
}

// PairwiseRate returns the unit rate from -> to using this snapshot's table.
func (s *Snapshot) PairwiseRate(from, to string) (float64, error) {
	return PairwiseRate(from, to, s.Rates, s.Base)
}
