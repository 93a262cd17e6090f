package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"currencyconverter/internal/rates"
)

// fakeStore is an in-memory RateStore with error injection.
type fakeStore struct {
	mu     sync.Mutex
	snaps  map[string]*rates.Snapshot
	getErr error
	putErr error
	puts   int
}

func newFakeStore(snaps ...*rates.Snapshot) *fakeStore {
	s := &fakeStore{snaps: map[string]*rates.Snapshot{}}
	for _, snap := range snaps {
		s.snaps[snap.Base] = snap
	}
	return s
}

func (s *fakeStore) Get(_ context.Context, base string) (*rates.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.snaps[base], nil
}

func (s *fakeStore) Put(_ context.Context, snap *rates.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.snaps[snap.Base] = snap
	return nil
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Latest(ctx context.Context, base string) (*rates.Snapshot, error) {
	args := m.Called(ctx, base)
	snap, _ := args.Get(0).(*rates.Snapshot)
	return snap, args.Error(1)
}

type recordingObserver struct {
	hits, fetched, failed, fallbacks int
}

func (o *recordingObserver) CacheHit(string, *rates.Snapshot) { o.hits++ }
func (o *recordingObserver) Fetched(string, *rates.Snapshot)  { o.fetched++ }
func (o *recordingObserver) FetchFailed(_ string, _ error, fb *rates.Snapshot) {
	o.failed++
	if fb != nil {
		o.fallbacks++
	}
}

var (
	testNow  = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	eurTable = rates.Table{"USD": 1.1, "COP": 4000, "EUR": 1}
)

func newTestService(st *fakeStore, prov *mockProvider, obs ...Observer) *RateService {
	svc := NewRateService(st, prov, zap.NewNop().Sugar(), obs...)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestGetRates_FreshCacheSkipsFetch(t *testing.T) {
	for _, age := range []time.Duration{0, time.Hour, 23 * time.Hour, rates.StalenessThreshold} {
		t.Run(age.String(), func(t *testing.T) {
			cached := rates.NewSnapshot("EUR", "2025-06-01", eurTable, testNow.Add(-age))
			st := newFakeStore(cached)
			prov := new(mockProvider)
			obs := &recordingObserver{}

			got, err := newTestService(st, prov, obs).GetRates(context.Background(), "EUR")

			require.NoError(t, err)
			assert.Same(t, cached, got)
			prov.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
			assert.Equal(t, 1, obs.hits)
		})
	}
}

func TestGetRates_StaleCacheFetchesOnce(t *testing.T) {
	old := rates.NewSnapshot("EUR", "2025-06-01", eurTable, testNow.Add(-25*time.Hour))
	fresh := rates.NewSnapshot("EUR", "2025-06-02", rates.Table{"USD": 1.12}, testNow)
	st := newFakeStore(old)
	prov := new(mockProvider)
	prov.On("Latest", mock.Anything, "EUR").Return(fresh, nil).Once()

	got, err := newTestService(st, prov).GetRates(context.Background(), "EUR")

	require.NoError(t, err)
	assert.Greater(t, got.Timestamp, old.Timestamp)
	assert.Equal(t, 1.12, got.Rates["USD"])
	prov.AssertNumberOfCalls(t, "Latest", 1)

	stored, _ := st.Get(context.Background(), "EUR")
	assert.Same(t, fresh, stored)
}

func TestGetRates_AbsentFetchesOnce(t *testing.T) {
	fresh := rates.NewSnapshot("USD", "2025-06-02", rates.Table{"EUR": 0.9}, testNow)
	st := newFakeStore()
	prov := new(mockProvider)
	prov.On("Latest", mock.Anything, "USD").Return(fresh, nil).Once()

	got, err := newTestService(st, prov).GetRates(context.Background(), "usd")

	require.NoError(t, err)
	assert.Same(t, fresh, got)
	prov.AssertNumberOfCalls(t, "Latest", 1)
	assert.Equal(t, 1, st.puts)
}

func TestGetRates_StoreReadFailureFetches(t *testing.T) {
	fresh := rates.NewSnapshot("EUR", "2025-06-02", eurTable, testNow)
	st := newFakeStore()
	st.getErr = errors.New("disk unavailable")
	prov := new(mockProvider)
	prov.On("Latest", mock.Anything, "EUR").Return(fresh, nil).Once()

	got, err := newTestService(st, prov).GetRates(context.Background(), "EUR")

	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

func TestGetRates_InvalidCode(t *testing.T) {
	prov := new(mockProvider)

	_, err := newTestService(newFakeStore(), prov).GetRates(context.Background(), "EURO")

	assert.ErrorIs(t, err, rates.ErrInvalidCurrencyCode)
	prov.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
}

func TestFetchRates_FallbackToStaleCache(t *testing.T) {
	old := rates.NewSnapshot("EUR", "2025-05-20", eurTable, testNow.Add(-13*24*time.Hour))
	st := newFakeStore(old)
	prov := new(mockProvider)
	prov.On("Latest", mock.Anything, "EUR").Return(nil, &rates.FetchError{Base: "EUR", Err: errors.New("dial tcp: no route to host")})
	obs := &recordingObserver{}

	svc := newTestService(st, prov, obs)

	got, err := svc.FetchRates(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Same(t, old, got)

	got, err = svc.GetRates(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Same(t, old, got)

	assert.Equal(t, 0, st.puts, "nothing is written on failure")
	assert.Equal(t, 2, obs.fallbacks)
}

func TestFetchRates_FallbackIgnoresCancelledContext(t *testing.T) {
	old := rates.NewSnapshot("EUR", "2025-05-20", eurTable, testNow.Add(-48*time.Hour))
	st := newFakeStore(old)
	prov := new(mockProvider)
	prov.On("Latest", mock.Anything, "EUR").Return(nil, context.DeadlineExceeded)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := newTestService(st, prov).FetchRates(ctx, "EUR")
	require.NoError(t, err)
	assert.Same(t, old, got)
}

func TestFetchRates_NoRatesAvailable(t *testing.T) {
	fetchErr := &rates.FetchError{Source: "frankfurter", Base: "EUR", Err: errors.New("returned status 503")}
	prov := new(mockProvider)
	prov.On("Latest", mock.Anything, "EUR").Return(nil, fetchErr)
	obs := &recordingObserver{}

	_, err := newTestService(newFakeStore(), prov, obs).GetRates(context.Background(), "EUR")

	require.Error(t, err)
	assert.ErrorIs(t, err, rates.ErrNoRatesAvailable)
	var fe *rates.FetchError
	assert.ErrorAs(t, err, &fe, "the fetch cause stays inspectable")
	assert.Equal(t, 1, obs.failed)
	assert.Equal(t, 0, obs.fallbacks)
}

func TestFetchRates_StoreUnavailableEverywhere(t *testing.T) {
	st := newFakeStore()
	st.getErr = errors.New("store down")
	prov := new(mockProvider)
	prov.On("Latest", mock.Anything, "EUR").Return(nil, errors.New("offline"))

	_, err := newTestService(st, prov).GetRates(context.Background(), "EUR")

	assert.ErrorIs(t, err, rates.ErrNoRatesAvailable)
}

func TestFetchRates_PersistFailureIsSwallowed(t *testing.T) {
	fresh := rates.NewSnapshot("EUR", "2025-06-02", eurTable, testNow)
	st := newFakeStore()
	st.putErr = errors.New("read-only filesystem")
	prov := new(mockProvider)
	prov.On("Latest", mock.Anything, "EUR").Return(fresh, nil)

	got, err := newTestService(st, prov).FetchRates(context.Background(), "EUR")

	require.NoError(t, err)
	assert.Same(t, fresh, got)
	assert.Equal(t, 1, st.puts)
}

func TestFetchRates_AlwaysFetchesEvenWhenFresh(t *testing.T) {
	cached := rates.NewSnapshot("EUR", "2025-06-02", eurTable, testNow.Add(-time.Minute))
	fresh := rates.NewSnapshot("EUR", "2025-06-02", eurTable, testNow)
	prov := new(mockProvider)
	prov.On("Latest", mock.Anything, "EUR").Return(fresh, nil).Once()

	got, err := newTestService(newFakeStore(cached), prov).FetchRates(context.Background(), "EUR")

	require.NoError(t, err)
	assert.Same(t, fresh, got)
	prov.AssertExpectations(t)
}

func TestGetRates_ConvertScenario(t *testing.T) {
	cached := rates.NewSnapshot("EUR", "2025-06-02", eurTable, testNow)
	snap, err := newTestService(newFakeStore(cached), new(mockProvider)).GetRates(context.Background(), "EUR")
	require.NoError(t, err)

	got, err := snap.Convert(10, "EUR", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 11.0, got, 1e-9)

	got, err = snap.Convert(10, "USD", "COP")
	require.NoError(t, err)
	assert.InDelta(t, 36363.636363, got, 1e-5)
}
