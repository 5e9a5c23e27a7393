package settlement

import "fmt"

// MinimizeTransfers turns a balance map into the minimal ordered list of
// debtor-to-creditor transfers that zero every balance. Pure and
// deterministic: the same balance map always yields the same transfer list,
// which the reconciler relies on for idempotent re-runs.
//
// Greedy minimum cash flow: repeatedly match the debtor with the largest
// absolute debt against the creditor with the largest credit (ties broken by
// lower participant ID) and transfer the smaller of the two amounts. Produces
// at most N-1 transfers for N non-zero balances.
//
// A balance map that does not sum to zero is an upstream invariant violation;
// it fails fast rather than emitting an incomplete settlement set.
func MinimizeTransfers(balances map[int64]int64) ([]Transfer, error) {
	type party struct {
		id     int64
		amount int64 // always positive: debt for debtors, credit for creditors
	}

	var sum int64
	var debtors, creditors []party
	for id, amount := range balances {
		sum += amount
		switch {
		case amount < 0:
			debtors = append(debtors, party{id: id, amount: -amount})
		case amount > 0:
			creditors = append(creditors, party{id: id, amount: amount})
		}
	}
	if sum != 0 {
		return nil, fmt.Errorf("balances sum to %d: %w", sum, ErrUnbalancedLedger)
	}

	// Index of the party with the largest amount, lowest ID on ties.
	largest := func(parties []party) int {
		best := 0
		for i := 1; i < len(parties); i++ {
			if parties[i].amount > parties[best].amount ||
				(parties[i].amount == parties[best].amount && parties[i].id < parties[best].id) {
				best = i
			}
		}
		return best
	}

	transfers := []Transfer{}
	for len(debtors) > 0 && len(creditors) > 0 {
		d := largest(debtors)
		c := largest(creditors)

		amount := debtors[d].amount
		if creditors[c].amount < amount {
			amount = creditors[c].amount
		}

		transfers = append(transfers, Transfer{
			FromID: debtors[d].id,
			ToID:   creditors[c].id,
			Amount: amount,
		})

		debtors[d].amount -= amount
		creditors[c].amount -= amount
		if debtors[d].amount == 0 {
			debtors = append(debtors[:d], debtors[d+1:]...)
		}
		if creditors[c].amount == 0 {
			creditors = append(creditors[:c], creditors[c+1:]...)
		}
	}

	return transfers, nil
}
