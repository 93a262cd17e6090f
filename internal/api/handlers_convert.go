package api

import (
	"net/http"
	"strconv"
	"time"

	"currencyconverter/internal/rates"
	"currencyconverter/internal/service"
	"currencyconverter/internal/session"
)

// ConvertResponse represents a rendered conversion
type ConvertResponse struct {
	session.View
	Base  string `json:"base" example:"EUR"`
	Stale bool   `json:"stale" example:"false"`
}

// ConvertDefaults holds the base used for lookups and the initial currency pair.
type ConvertDefaults struct {
	Base string
	From string
	To   string
}

// HandleConvert godoc
// @Summary Convert an amount between two currencies
// @Description Converts using the snapshot for the configured base currency. The converted amount is rounded to 2 decimals and the unit rate to 4. An empty amount converts as 0.
// @Tags convert
// @Produce json
// @Param amount query string false "Amount, digits with an optional decimal point" default(1)
// @Param from query string false "Source currency code" default(EUR)
// @Param to query string false "Target currency code" default(COP)
// @Param swap query bool false "Swap source and target before converting"
// @Success 200 {object} ConvertResponse "Conversion result"
// @Failure 400 {object} ErrorResponse "Invalid amount, amount too large, or invalid currency code"
// @Failure 422 {object} ErrorResponse "Currency not in the rate table"
// @Failure 503 {object} ErrorResponse "No rates available"
// @Router /convert [get]
func HandleConvert(svc service.RateServiceInterface, defaults ConvertDefaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		state := session.New(defaults.From, defaults.To)

		if q.Has("amount") {
			amount := q.Get("amount")
			if !session.ValidAmount(amount) {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
				return
			}
			state = session.Update(state, session.SetAmount{Value: amount})
		}

		if from := q.Get("from"); from != "" {
			if _, err := rates.NormalizeCode(from); err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
				return
			}
			state = session.Update(state, session.SetFrom{Code: from})
		}
		if to := q.Get("to"); to != "" {
			if _, err := rates.NormalizeCode(to); err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
				return
			}
			state = session.Update(state, session.SetTo{Code: to})
		}

		if swap, _ := strconv.ParseBool(q.Get("swap")); swap {
			state = session.Update(state, session.Swap{})
		}

		snap, err := svc.GetRates(r.Context(), defaults.Base)
		if err != nil {
			writeRateError(w, err)
			return
		}
		if _, err := snap.PairwiseRate(state.From, state.To); err != nil {
			writeRateError(w, err)
			return
		}

		state = session.Update(state, session.RatesLoaded{Snapshot: snap})
		view := session.Render(state)
		if view.ConversionFailed() {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "amount too large to convert"})
			return
		}
		writeJSON(w, http.StatusOK, ConvertResponse{
			View:  view,
			Base:  snap.Base,
			Stale: !snap.IsFresh(time.Now()),
		})
	}
}
