package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimizeTransfers_SinglePair(t *testing.T) {
	transfers, err := MinimizeTransfers(map[int64]int64{1: 1000, 2: -1000})
	require.NoError(t, err)

	assert.Equal(t, []Transfer{{FromID: 2, ToID: 1, Amount: 1000}}, transfers)
}

func TestMinimizeTransfers_ThreeWay(t *testing.T) {
	// Equal debts tie-break on the lower participant ID.
	transfers, err := MinimizeTransfers(map[int64]int64{1: 4000, 2: -2000, 3: -2000})
	require.NoError(t, err)

	assert.Equal(t, []Transfer{
		{FromID: 2, ToID: 1, Amount: 2000},
		{FromID: 3, ToID: 1, Amount: 2000},
	}, transfers)
}

func TestMinimizeTransfers_LargestFirst(t *testing.T) {
	transfers, err := MinimizeTransfers(map[int64]int64{1: 5000, 2: 1000, 3: -4500, 4: -1500})
	require.NoError(t, err)

	assert.Equal(t, []Transfer{
		{FromID: 3, ToID: 1, Amount: 4500},
		{FromID: 4, ToID: 2, Amount: 1000},
		{FromID: 4, ToID: 1, Amount: 500},
	}, transfers)
}

func TestMinimizeTransfers_IgnoresZeroBalances(t *testing.T) {
	transfers, err := MinimizeTransfers(map[int64]int64{1: 300, 2: -300, 3: 0, 4: 0})
	require.NoError(t, err)

	assert.Equal(t, []Transfer{{FromID: 2, ToID: 1, Amount: 300}}, transfers)
}

func TestMinimizeTransfers_Empty(t *testing.T) {
	transfers, err := MinimizeTransfers(map[int64]int64{})
	require.NoError(t, err)
	assert.Empty(t, transfers)

	transfers, err = MinimizeTransfers(map[int64]int64{1: 0, 2: 0})
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestMinimizeTransfers_UnbalancedFailsFast(t *testing.T) {
	_, err := MinimizeTransfers(map[int64]int64{1: 1000, 2: -999})
	require.ErrorIs(t, err, ErrUnbalancedLedger)
}

func TestMinimizeTransfers_Properties(t *testing.T) {
	balances := map[int64]int64{
		1: 12345, 2: -5000, 3: -2345, 4: 700, 5: -5700, 6: 0,
	}

	transfers, err := MinimizeTransfers(balances)
	require.NoError(t, err)

	// At most N-1 transfers for N non-zero balances.
	assert.LessOrEqual(t, len(transfers), 4)

	// Total transferred equals the sum of positive balances.
	var transferred, positive int64
	for _, tr := range transfers {
		require.Positive(t, tr.Amount)
		transferred += tr.Amount
	}
	for _, amount := range balances {
		if amount > 0 {
			positive += amount
		}
	}
	assert.Equal(t, positive, transferred)

	// Applying all transfers zeroes every balance.
	applied := make(map[int64]int64, len(balances))
	for id, amount := range balances {
		applied[id] = amount
	}
	for _, tr := range transfers {
		applied[tr.FromID] += tr.Amount
		applied[tr.ToID] -= tr.Amount
	}
	for id, amount := range applied {
		assert.Zerof(t, amount, "participant %d not settled", id)
	}
}

func TestMinimizeTransfers_Deterministic(t *testing.T) {
	balances := map[int64]int64{
		1: 4000, 2: -2000, 3: -2000, 4: 1500, 5: -1500,
	}

	first, err := MinimizeTransfers(balances)
	require.NoError(t, err)

	// Map iteration order varies; the output must not.
	for i := 0; i < 50; i++ {
		again, err := MinimizeTransfers(balances)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}
