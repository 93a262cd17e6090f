// Package status tracks connectivity to the rate upstreams and whether a newer
// configuration is waiting to be applied, and fans changes out to subscribers.
package status

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"currencyconverter/internal/rates"
)

const (
	OfflineBanner = "You are currently offline. Using last known exchange rates."
	UpdateBanner  = "A new version is available. Please refresh the page to update."
)

type Kind string

const (
	KindOnline          Kind = "online"
	KindOffline         Kind = "offline"
	KindUpdateAvailable Kind = "update_available"
)

// Event is delivered to subscribers whenever the tracked status changes.
type Event struct {
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`
}

// Status is a point-in-time copy of the tracker.
type Status struct {
	Online          bool      `json:"online"`
	UpdateAvailable bool      `json:"update_available"`
	LastFetchAt     time.Time `json:"last_fetch_at,omitzero"`
	LastError       string    `json:"last_error,omitempty"`
	Banners         []string  `json:"banners"`
}

// Tracker derives online/offline from rate lookup outcomes. It starts online and
// flips only on transitions, so repeated failures publish a single Offline event.
type Tracker struct {
	mu              sync.RWMutex
	online          bool
	updateAvailable bool
	lastFetchAt     time.Time
	lastError       string

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int

	log *zap.SugaredLogger
	now func() time.Time
}

func NewTracker(logger *zap.SugaredLogger) *Tracker {
	return &Tracker{
		online: true,
		subs:   make(map[int]func(Event)),
		log:    logger,
		now:    time.Now,
	}
}

// Subscribe registers fn for future events and returns a function that removes it.
// fn is called synchronously and must not call back into the tracker's Subscribe.
func (t *Tracker) Subscribe(fn func(Event)) (unsubscribe func()) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	return func() {
		t.subMu.Lock()
		delete(t.subs, id)
		t.subMu.Unlock()
	}
}

func (t *Tracker) publish(kind Kind) {
	ev := Event{Kind: kind, At: t.now()}
	t.log.Infow("Status changed", "kind", string(kind))

	t.subMu.Lock()
	fns := make([]func(Event), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// CacheHit says nothing about the upstream, so it leaves the status untouched.
func (t *Tracker) CacheHit(string, *rates.Snapshot) {}

func (t *Tracker) Fetched(_ string, snap *rates.Snapshot) {
	t.mu.Lock()
	changed := !t.online
	t.online = true
	t.lastError = ""
	if snap != nil {
		t.lastFetchAt = snap.FetchedAt()
	}
	t.mu.Unlock()

	if changed {
		t.publish(KindOnline)
	}
}

func (t *Tracker) FetchFailed(_ string, err error, _ *rates.Snapshot) {
	t.mu.Lock()
	changed := t.online
	t.online = false
	if err != nil {
		t.lastError = err.Error()
	}
	t.mu.Unlock()

	if changed {
		t.publish(KindOffline)
	}
}

// NotifyUpdateAvailable marks that a newer configuration is on disk. It is
// published once; later calls are no-ops.
func (t *Tracker) NotifyUpdateAvailable() {
	t.mu.Lock()
	changed := !t.updateAvailable
	t.updateAvailable = true
	t.mu.Unlock()

	if changed {
		t.publish(KindUpdateAvailable)
	}
}

func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	st := Status{
		Online:          t.online,
		UpdateAvailable: t.updateAvailable,
		LastFetchAt:     t.lastFetchAt,
		LastError:       t.lastError,
		Banners:         []string{},
	}
	if !t.online {
		st.Banners = append(st.Banners, OfflineBanner)
	}
	if t.updateAvailable {
		st.Banners = append(st.Banners, UpdateBanner)
	}
	return st
}
