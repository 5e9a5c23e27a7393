package split

import "sort"

// SharesStrategy splits the expense proportionally to integer weights
// (e.g. a couple counts as 2 shares, a solo traveller as 1).
type SharesStrategy struct{}

// Type returns the split type identifier
func (s *SharesStrategy) Type() SplitType {
	return SplitTypeShares
}

// Validate checks if the inputs are valid for a shares split
func (s *SharesStrategy) Validate(totalAmount int64, participants []SplitInput) error {
	if err := checkParticipants(totalAmount, participants); err != nil {
		return err
	}

	for _, p := range participants {
		if p.Weight == nil {
			return ErrMissingWeight
		}
		if *p.Weight <= 0 {
			return ErrInvalidWeight
		}
	}

	return nil
}

// Calculate splits the total proportionally to each participant's weight
// using largest-remainder apportionment: each share is floored, then the
// leftover minor units go to the participants with the largest truncated
// remainders (ties broken by input order). The shares always sum exactly to
// the total.
func (s *SharesStrategy) Calculate(totalAmount int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	var totalWeight int64
	for _, p := range participants {
		totalWeight += *p.Weight
	}

	type apportioned struct {
		index     int
		remainder int64
	}

	outputs := make([]SplitOutput, len(participants))
	remainders := make([]apportioned, len(participants))
	var distributed int64

	for i, p := range participants {
		exact := totalAmount * *p.Weight
		amount := exact / totalWeight
		outputs[i] = SplitOutput{
			ParticipantID: p.ParticipantID,
			Amount:        amount,
		}
		remainders[i] = apportioned{index: i, remainder: exact % totalWeight}
		distributed += amount
	}

	sort.SliceStable(remainders, func(a, b int) bool {
		return remainders[a].remainder > remainders[b].remainder
	})

	leftover := totalAmount - distributed
	for i := int64(0); i < leftover; i++ {
		outputs[remainders[i].index].Amount++
	}

	return outputs, nil
}
