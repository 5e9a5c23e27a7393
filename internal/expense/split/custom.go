package split

// CustomStrategy lets each participant owe an explicit amount. The amounts
// must sum exactly to the expense total; integer minor units make this an
// equality check, not a tolerance check.
type CustomStrategy struct{}

// Type returns the split type identifier
func (s *CustomStrategy) Type() SplitType {
	return SplitTypeCustom
}

// Validate checks if the inputs are valid for a custom split
func (s *CustomStrategy) Validate(totalAmount int64, participants []SplitInput) error {
	if err := checkParticipants(totalAmount, participants); err != nil {
		return err
	}

	var sum int64
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingCustomAmount
		}
		if *p.Amount < 0 {
			return ErrNegativeAmount
		}
		sum += *p.Amount
	}

	if sum != totalAmount {
		return ErrCustomSumMismatch
	}

	return nil
}

// Calculate returns the exact amounts specified for each participant
func (s *CustomStrategy) Calculate(totalAmount int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		outputs[i] = SplitOutput{
			ParticipantID: p.ParticipantID,
			Amount:        *p.Amount,
		}
	}

	return outputs, nil
}
