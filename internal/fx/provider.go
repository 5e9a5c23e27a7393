// Package fx defines the seam to the external currency-rate provider.
//
// The settlement engine never talks to this provider: rates are fetched once
// at expense-creation time, written onto the expense as a snapshot, and never
// recomputed afterward. That keeps historical settlement figures stable even
// when the provider's rates change later.
package fx

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Provider supplies a conversion rate from one currency to another for a
// given date. The boolean is false when no rate is available for that pair
// and date; the caller then stores the expense with a null snapshot.
type Provider interface {
	Rate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, bool, error)
}

// Pair identifies a directed currency conversion.
type Pair struct {
	From string
	To   string
}

// StaticProvider serves rates from a fixed in-memory table. Used in
// development and tests; a real provider (HTTP rate API) plugs in behind the
// same interface.
type StaticProvider struct {
	rates map[Pair]decimal.Decimal
}

// NewStaticProvider creates a provider backed by the given rate table.
func NewStaticProvider(rates map[Pair]decimal.Decimal) *StaticProvider {
	if rates == nil {
		rates = make(map[Pair]decimal.Decimal)
	}
	return &StaticProvider{rates: rates}
}

// Rate returns the fixed rate for the pair, ignoring the date.
func (p *StaticProvider) Rate(_ context.Context, _ time.Time, from, to string) (decimal.Decimal, bool, error) {
	if from == to {
		return decimal.NewFromInt(1), true, nil
	}
	rate, ok := p.rates[Pair{From: from, To: to}]
	return rate, ok, nil
}
