package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"currencyconverter/internal/rates"
)

const dateLayout = "2006-01-02"

type envelopeKind int

const (
	kindUnknown envelopeKind = iota
	// base / date / rates, with an optional success flag (exchangerate.host, Frankfurter).
	kindDated
	// base_code / time_last_update_unix / conversion_rates with a result field (ExchangeRate-API).
	kindLastUpdate
)

func (k envelopeKind) String() string {
	switch k {
	case kindDated:
		return "dated"
	case kindLastUpdate:
		return "last-update"
	default:
		return "unknown"
	}
}

type envelopeError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

// envelope is the union of every accepted upstream response shape.
type envelope struct {
	Success *bool              `json:"success"`
	Base    string             `json:"base"`
	Date    string             `json:"date"`
	Rates   map[string]float64 `json:"rates"`
	Error   *envelopeError     `json:"error"`

	Result             string             `json:"result"`
	ErrorType          string             `json:"error-type"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
}

func (e *envelope) kind() envelopeKind {
	switch {
	case e.BaseCode != "" || e.ConversionRates != nil || e.Result != "" || e.TimeLastUpdateUnix != 0:
		return kindLastUpdate
	case e.Base != "" || e.Rates != nil || e.Success != nil || e.Error != nil:
		return kindDated
	default:
		return kindUnknown
	}
}

// quote is the canonical shape every envelope kind is parsed into.
type quote struct {
	base  string
	date  string
	table rates.Table
}

func (e *envelope) parse(now time.Time) (*quote, error) {
	switch e.kind() {
	case kindDated:
		if e.Success != nil && !*e.Success {
			return nil, fmt.Errorf("provider reported failure: %s", e.errorInfo())
		}
		if e.Error != nil {
			return nil, fmt.Errorf("provider reported failure: %s", e.errorInfo())
		}
		date := e.Date
		if date == "" {
			date = now.Format(dateLayout)
		}
		return &quote{base: e.Base, date: date, table: e.Rates}, nil

	case kindLastUpdate:
		if e.Result != "" && e.Result != "success" {
			return nil, fmt.Errorf("provider reported result=%s: %s", e.Result, e.ErrorType)
		}
		table := e.ConversionRates
		if table == nil {
			table = e.Rates
		}
		date := now.Format(dateLayout)
		if e.TimeLastUpdateUnix > 0 {
			date = time.Unix(e.TimeLastUpdateUnix, 0).UTC().Format(dateLayout)
		}
		return &quote{base: e.BaseCode, date: date, table: table}, nil

	default:
		return nil, errors.New("unrecognized response shape")
	}
}

func (e *envelope) errorInfo() string {
	if e.Error == nil {
		return "success=false"
	}
	if e.Error.Info != "" {
		return e.Error.Info
	}
	return e.Error.Type
}

// decodeSnapshot parses an upstream body of any accepted shape into a snapshot whose
// rates are relative to the requested base.
func decodeSnapshot(body []byte, requested string, now time.Time) (*rates.Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	q, err := env.parse(now)
	if err != nil {
		return nil, err
	}

	table := cleanTable(q.table)
	if len(table) == 0 {
		return nil, fmt.Errorf("empty rate table in %s response", env.kind())
	}

	respBase := strings.ToUpper(strings.TrimSpace(q.base))
	if respBase == "" {
		respBase = requested
	}
	if respBase != requested {
		table, err = rebase(table, respBase, requested)
		if err != nil {
			return nil, err
		}
	}

	return rates.NewSnapshot(requested, q.date, table, now), nil
}

// cleanTable upper-cases codes and drops entries that can never be used in a conversion.
func cleanTable(in map[string]float64) rates.Table {
	out := make(rates.Table, len(in))
	for code, r := range in {
		code = strings.ToUpper(code)
		if r <= 0 || !rates.IsValidCurrencyCode(code) {
			continue
		}
		out[code] = r
	}
	return out
}

// rebase re-expresses a table quoted against from as one quoted against to.
func rebase(table rates.Table, from, to string) (rates.Table, error) {
	pivot, ok := table[to]
	if !ok {
		return nil, fmt.Errorf("response is relative to %s and carries no %s rate", from, to)
	}

	out := make(rates.Table, len(table)+1)
	for code, r := range table {
		out[code] = r / pivot
	}
	out[from] = 1 / pivot
	out[to] = 1
	return out, nil
}
