package core

import "math"

// Convert expresses amount (denominated in currency) in the main/reference
// currency of the rate table.
//
// A currency with no table entry is treated as already being the reference
// currency: the rate defaults to 1 and no error is raised. The same policy
// applies to zero or negative rates, so a bad row can never produce Inf or
// a division by zero. The table itself is never mutated.
func Convert(amount float64, currency string, rates RateTable) float64 {
	return amount / rateOrOne(rates, currency)
}

// ConvertBetween expresses amount (denominated in from) in the to currency,
// hopping through the reference currency: (amount / rates[from]) * rates[to].
// Both lookups follow the same default-to-1 policy as Convert. A
// same-currency conversion returns amount unchanged rather than picking up
// float drift from the two hops.
func ConvertBetween(amount float64, from, to string, rates RateTable) float64 {
	if from == to {
		return amount
	}
	return amount / rateOrOne(rates, from) * rateOrOne(rates, to)
}

func rateOrOne(rates RateTable, currency string) float64 {
	if r, ok := rates[currency]; ok && r > 0 {
		return r
	}
	return 1
}

// RoundHalfAway rounds to the nearest integer, halves away from zero.
// All integer projections of monetary sums go through here so reports
// reproduce bit for bit.
func RoundHalfAway(v float64) int64 {
	return int64(math.Round(v))
}
