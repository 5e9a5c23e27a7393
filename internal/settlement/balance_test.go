package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yalshehri/tripsplit/internal/expense"
)

// makeExpense builds an expense with shares; rate == "" means no FX snapshot.
func makeExpense(id, payerID int64, amount int64, currency, rate string, shares map[int64]int64) *expense.ExpenseWithShares {
	e := &expense.Expense{
		ID:       id,
		TripID:   1,
		PayerID:  payerID,
		Amount:   amount,
		Currency: currency,
	}
	if rate != "" {
		e.FXRate.Decimal = decimal.RequireFromString(rate)
		e.FXRate.Valid = true
	}

	ews := &expense.ExpenseWithShares{Expense: e}
	for participantID, shareAmount := range shares {
		ews.Shares = append(ews.Shares, &expense.Share{
			ExpenseID:     id,
			ParticipantID: participantID,
			Amount:        shareAmount,
		})
	}
	return ews
}

func balanceSum(balances map[int64]int64) int64 {
	var sum int64
	for _, amount := range balances {
		sum += amount
	}
	return sum
}

func TestCalculateBalances_ThreeWayEqualSplit(t *testing.T) {
	// A pays 6000, split equally among A, B, C.
	expenses := []*expense.ExpenseWithShares{
		makeExpense(1, 1, 6000, "SAR", "", map[int64]int64{1: 2000, 2: 2000, 3: 2000}),
	}

	sheet, err := CalculateBalances("SAR", expenses)
	require.NoError(t, err)

	assert.Equal(t, map[int64]int64{1: 4000, 2: -2000, 3: -2000}, sheet.Balances)
	assert.Empty(t, sheet.ExcludedExpenseIDs)
	assert.Equal(t, int64(6000), sheet.TotalSpent)
}

func TestCalculateBalances_CrossDebts(t *testing.T) {
	// A pays 6000 split with B, then B pays 4000 split with A.
	expenses := []*expense.ExpenseWithShares{
		makeExpense(1, 1, 6000, "SAR", "", map[int64]int64{1: 3000, 2: 3000}),
		makeExpense(2, 2, 4000, "SAR", "", map[int64]int64{1: 2000, 2: 2000}),
	}

	sheet, err := CalculateBalances("SAR", expenses)
	require.NoError(t, err)

	assert.Equal(t, map[int64]int64{1: 1000, 2: -1000}, sheet.Balances)
	assert.Equal(t, int64(10000), sheet.TotalSpent)
}

func TestCalculateBalances_FXConversionRoundsHalfUp(t *testing.T) {
	// 1000 USD at 3.75 -> 3750 base units. Shares 334/333/333 convert to
	// 1253 (1252.5 rounds up) and 1249 (1248.75 rounds up) which oversubscribe
	// the expense by one unit; the drift lands on the largest balance.
	expenses := []*expense.ExpenseWithShares{
		makeExpense(1, 1, 1000, "USD", "3.75", map[int64]int64{1: 334, 2: 333, 3: 333}),
	}

	sheet, err := CalculateBalances("SAR", expenses)
	require.NoError(t, err)

	assert.Equal(t, int64(0), balanceSum(sheet.Balances))
	assert.Equal(t, map[int64]int64{1: 2498, 2: -1249, 3: -1249}, sheet.Balances)
	assert.Equal(t, int64(3750), sheet.TotalSpent)
}

func TestCalculateBalances_MissingSnapshotExcludes(t *testing.T) {
	expenses := []*expense.ExpenseWithShares{
		makeExpense(1, 1, 6000, "SAR", "", map[int64]int64{1: 3000, 2: 3000}),
		makeExpense(2, 2, 5000, "EUR", "", map[int64]int64{1: 2500, 2: 2500}),
	}

	sheet, err := CalculateBalances("SAR", expenses)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, sheet.ExcludedExpenseIDs)
	// The EUR expense contributes nothing.
	assert.Equal(t, map[int64]int64{1: 3000, 2: -3000}, sheet.Balances)
	assert.Equal(t, int64(6000), sheet.TotalSpent)
}

func TestCalculateBalances_SameCurrencyIgnoresSnapshot(t *testing.T) {
	// A stored rate on a base-currency expense is ignored: conversion is
	// exactly 1.
	expenses := []*expense.ExpenseWithShares{
		makeExpense(1, 1, 1000, "SAR", "3.75", map[int64]int64{1: 500, 2: 500}),
	}

	sheet, err := CalculateBalances("SAR", expenses)
	require.NoError(t, err)

	assert.Equal(t, map[int64]int64{1: 500, 2: -500}, sheet.Balances)
}

func TestCalculateBalances_SharesMismatchFails(t *testing.T) {
	expenses := []*expense.ExpenseWithShares{
		makeExpense(1, 1, 6000, "SAR", "", map[int64]int64{1: 3000, 2: 2999}),
	}

	_, err := CalculateBalances("SAR", expenses)
	require.ErrorIs(t, err, ErrSharesMismatch)
}

func TestCalculateBalances_ZeroSumProperty(t *testing.T) {
	// Mixed currencies, awkward rates and uneven shares: the zero-sum
	// invariant must hold regardless.
	expenses := []*expense.ExpenseWithShares{
		makeExpense(1, 1, 7001, "SAR", "", map[int64]int64{1: 2334, 2: 2334, 3: 2333}),
		makeExpense(2, 2, 999, "USD", "3.7501", map[int64]int64{1: 333, 2: 333, 3: 333}),
		makeExpense(3, 3, 12345, "EUR", "4.0839", map[int64]int64{1: 6172, 3: 6173}),
		makeExpense(4, 2, 50, "JPY", "0.0251", map[int64]int64{2: 25, 3: 25}),
	}

	sheet, err := CalculateBalances("SAR", expenses)
	require.NoError(t, err)

	assert.Equal(t, int64(0), balanceSum(sheet.Balances))
	assert.Empty(t, sheet.ExcludedExpenseIDs)
}

func TestCalculateBalances_NoExpenses(t *testing.T) {
	sheet, err := CalculateBalances("SAR", nil)
	require.NoError(t, err)

	assert.Empty(t, sheet.Balances)
	assert.Empty(t, sheet.ExcludedExpenseIDs)
	assert.Zero(t, sheet.TotalSpent)
}
