package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"currencyconverter/internal/rates"
	"currencyconverter/internal/service"
)

// RatesResponse represents a rate snapshot
type RatesResponse struct {
	Base      string             `json:"base" example:"EUR"`
	Date      string             `json:"date" example:"2025-06-02"`
	Timestamp int64              `json:"timestamp" example:"1748856600000"`
	FetchedAt string             `json:"fetched_at" example:"2025-06-02T09:30:00Z"`
	Stale     bool               `json:"stale" example:"false"`
	Rates     map[string]float64 `json:"rates"`
}

// WarmResponse represents an accepted background refresh
type WarmResponse struct {
	TaskID string `json:"task_id" example:"3f0c1a2e-1b7d-4c1e-9a55-0d4b5f1e2a10"`
	Base   string `json:"base" example:"EUR"`
}

// RefreshEnqueuer schedules an asynchronous rate refresh.
type RefreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context, base string) (string, error)
}

func newRatesResponse(snap *rates.Snapshot, now time.Time) RatesResponse {
	return RatesResponse{
		Base:      snap.Base,
		Date:      snap.Date,
		Timestamp: snap.Timestamp,
		FetchedAt: snap.FetchedAt().Format(time.RFC3339),
		Stale:     !snap.IsFresh(now),
		Rates:     snap.Rates,
	}
}

// HandleGetRates godoc
// @Summary Get exchange rates for a base currency
// @Description Returns the stored snapshot while it is at most 24 hours old, otherwise fetches a fresh one. When the upstream is unreachable the last stored snapshot is returned with stale=true.
// @Tags rates
// @Produce json
// @Param base path string true "Base currency code (3 letters)" minlength(3) maxlength(3)
// @Success 200 {object} RatesResponse "Rate snapshot"
// @Failure 400 {object} ErrorResponse "Invalid currency code format"
// @Failure 503 {object} ErrorResponse "No rates available"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /rates/{base} [get]
func HandleGetRates(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.GetRates(r.Context(), chi.URLParam(r, "base"))
		if err != nil {
			writeRateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newRatesResponse(snap, time.Now()))
	}
}

// HandleRefreshRates godoc
// @Summary Refresh exchange rates now
// @Description Fetches fresh rates for the base regardless of the stored snapshot's age. When the upstream is unreachable the stored snapshot is returned with stale=true, whatever its age.
// @Tags rates
// @Produce json
// @Param base path string true "Base currency code (3 letters)" minlength(3) maxlength(3)
// @Success 200 {object} RatesResponse "Rate snapshot"
// @Failure 400 {object} ErrorResponse "Invalid currency code format"
// @Failure 503 {object} ErrorResponse "No rates available"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /rates/{base}/refresh [post]
func HandleRefreshRates(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		snap, err := svc.FetchRates(r.Context(), chi.URLParam(r, "base"))
		if err != nil {
			writeRateError(w, err)
			return
		}
		resp := newRatesResponse(snap, time.Now())
		resp.Stale = resp.Stale || snap.FetchedBefore(start)
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleWarmRates godoc
// @Summary Schedule a background rate refresh
// @Description Enqueues an asynchronous refresh of the base and returns immediately. Only available when the background worker is enabled.
// @Tags rates
// @Produce json
// @Param base path string true "Base currency code (3 letters)" minlength(3) maxlength(3)
// @Success 202 {object} WarmResponse "Refresh scheduled"
// @Failure 400 {object} ErrorResponse "Invalid currency code format"
// @Failure 503 {object} ErrorResponse "Background refresh disabled"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /rates/{base}/warm [post]
func HandleWarmRates(enq RefreshEnqueuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base, err := rates.NormalizeCode(chi.URLParam(r, "base"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		if enq == nil {
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Background refresh disabled"})
			return
		}

		taskID, err := enq.EnqueueRefresh(r.Context(), base)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			return
		}
		writeJSON(w, http.StatusAccepted, WarmResponse{TaskID: taskID, Base: base})
	}
}

// HandleListCurrencies godoc
// @Summary List selectable currencies
// @Tags currencies
// @Produce json
// @Success 200 {array} rates.Currency "Currencies in display order"
// @Router /currencies [get]
func HandleListCurrencies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rates.CommonCurrencies)
	}
}

// writeRateError maps rate lookup errors to HTTP responses.
func writeRateError(w http.ResponseWriter, err error) {
	var unknown *rates.UnknownCurrencyError
	switch {
	case errors.Is(err, rates.ErrInvalidCurrencyCode):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &unknown):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: unknown.Error()})
	case errors.Is(err, rates.ErrNoRatesAvailable):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "No rates available"})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
	}
}
