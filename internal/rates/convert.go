package rates

// Convert converts amount from one currency to another given a table anchored at base.
//
// The identity case returns amount untouched, even when the code is not in the table.
// Otherwise the conversion is direct (from == base), inverse (to == base) or routed
// through base (cross). A code missing from the table yields *UnknownCurrencyError.
func Convert(amount float64, from, to string, table Table, base string) (float64, error) {
	if from == to {
		return amount, nil
	}

	switch {
	case from == base:
		toRate, err := lookup(table, to)
		if err != nil {
			return 0, err
		}
		return amount * toRate, nil
	case to == base:
		fromRate, err := lookup(table, from)
		if err != nil {
			return 0, err
		}
		return amount / fromRate, nil
	default:
		fromRate, err := lookup(table, from)
		if err != nil {
			return 0, err
		}
		toRate, err := lookup(table, to)
		if err != nil {
			return 0, err
		}
		return (amount / fromRate) * toRate, nil
	}
}

// PairwiseRate returns how many units of to equal one unit of from.
func PairwiseRate(from, to string, table Table, base string) (float64, error) {
	return Convert(1, from, to, table, base)
}

// lookup rejects missing and non-positive entries so a broken table never produces
// Inf or NaN.
func lookup(table Table, code string) (float64, error) {
	r, ok := table[code]
	if !ok || r <= 0 {
		return 0, &UnknownCurrencyError{Code: code}
	}
	return r, nil
}
