// Package pricing evaluates per-model pricing rules into deterministic
// (min, avg, max) unit-price quotes. All arithmetic is decimal; float64
// never touches a price.
package pricing

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// Range is a provider price band. Average is optional: when the service
// reports an explicit average it is kept, otherwise the midpoint is derived.
type Range struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	Average *decimal.Decimal
}

// FixedRange builds a degenerate range where min == max.
func FixedRange(price decimal.Decimal) Range {
	return Range{Min: price, Max: price}
}

// Quote is an evaluated unit price. Invariant: 0 <= Min <= Avg <= Max.
type Quote struct {
	Min decimal.Decimal `json:"min"`
	Avg decimal.Decimal `json:"avg"`
	Max decimal.Decimal `json:"max"`
}

// Quote evaluates the range, deriving the midpoint average when the
// provider did not report one.
func (r Range) Quote() Quote {
	avg := r.Min.Add(r.Max).Div(two)
	if r.Average != nil {
		avg = *r.Average
	}
	return Quote{Min: r.Min, Avg: avg, Max: r.Max}
}

// MulInt scales all three prices by n.
func (q Quote) MulInt(n int64) Quote {
	f := decimal.NewFromInt(n)
	return Quote{Min: q.Min.Mul(f), Avg: q.Avg.Mul(f), Max: q.Max.Mul(f)}
}
