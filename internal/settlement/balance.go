package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yalshehri/tripsplit/internal/expense"
)

// BalanceSheet is the result of running the balance calculator over a trip's
// expenses. Balances are integer minor units in the trip's base currency.
type BalanceSheet struct {
	// Balances maps participant ID to net balance. The sum over all values
	// is always exactly zero.
	Balances map[int64]int64

	// ExcludedExpenseIDs lists expenses skipped entirely because their
	// currency differs from the base currency and no FX snapshot was stored.
	ExcludedExpenseIDs []int64

	// TotalSpent is the converted total of all non-excluded expenses.
	TotalSpent int64
}

// convertMinor converts an amount of minor units with round-half-up.
func convertMinor(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// CalculateBalances turns a trip's expenses into one net balance per
// participant, in the base currency. Pure: no I/O, safe for concurrent use.
//
// Per expense: the payer is credited the converted amount and every
// participant (payer included) is debited their converted share. Same-currency
// expenses convert at exactly 1. Foreign-currency expenses convert through
// the stored FX snapshot, rounding half-up on the whole amount and on each
// share; expenses without a snapshot are excluded and reported, never
// guessed at.
//
// Rounding each share independently can drift the column sum off zero by a
// few minor units. The drift is charged to the participant with the largest
// absolute balance (ties: lowest participant ID), so sum(balances) == 0
// holds exactly on every return.
func CalculateBalances(baseCurrency string, expenses []*expense.ExpenseWithShares) (*BalanceSheet, error) {
	sheet := &BalanceSheet{
		Balances:           make(map[int64]int64),
		ExcludedExpenseIDs: []int64{},
	}

	for _, ews := range expenses {
		e := ews.Expense

		var shareSum int64
		for _, share := range ews.Shares {
			shareSum += share.Amount
		}
		if shareSum != e.Amount {
			return nil, fmt.Errorf("expense %d: shares sum to %d, amount is %d: %w",
				e.ID, shareSum, e.Amount, ErrSharesMismatch)
		}

		sameCurrency := e.Currency == baseCurrency
		if !sameCurrency && !e.FXRate.Valid {
			sheet.ExcludedExpenseIDs = append(sheet.ExcludedExpenseIDs, e.ID)
			continue
		}

		var convertedAmount int64
		if sameCurrency {
			convertedAmount = e.Amount
		} else {
			convertedAmount = convertMinor(e.Amount, e.FXRate.Decimal)
		}

		sheet.Balances[e.PayerID] += convertedAmount
		sheet.TotalSpent += convertedAmount

		for _, share := range ews.Shares {
			var convertedShare int64
			if sameCurrency {
				convertedShare = share.Amount
			} else {
				convertedShare = convertMinor(share.Amount, e.FXRate.Decimal)
			}
			sheet.Balances[share.ParticipantID] -= convertedShare
		}
	}

	correctDrift(sheet.Balances)

	return sheet, nil
}

// correctDrift zeroes any accumulated rounding drift by debiting it from the
// participant with the largest absolute balance, lowest ID on ties.
func correctDrift(balances map[int64]int64) {
	var drift int64
	for _, amount := range balances {
		drift += amount
	}
	if drift == 0 || len(balances) == 0 {
		return
	}

	var target int64
	var targetAbs int64 = -1
	for id, amount := range balances {
		abs := amount
		if abs < 0 {
			abs = -abs
		}
		if abs > targetAbs || (abs == targetAbs && id < target) {
			target = id
			targetAbs = abs
		}
	}

	balances[target] -= drift
}
