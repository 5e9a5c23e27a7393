package split

// EqualStrategy divides the expense equally among all participants.
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() SplitType {
	return SplitTypeEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(totalAmount int64, participants []SplitInput) error {
	return checkParticipants(totalAmount, participants)
}

// Calculate divides the total amount evenly among all participants.
// Integer division leaves a remainder of up to n-1 minor units; those are
// distributed one unit each to the first participants in input order, so the
// shares always sum exactly to the total.
func (s *EqualStrategy) Calculate(totalAmount int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(totalAmount, participants); err != nil {
		return nil, err
	}

	n := int64(len(participants))
	base := totalAmount / n
	remainder := totalAmount % n

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		outputs[i] = SplitOutput{
			ParticipantID: p.ParticipantID,
			Amount:        amount,
		}
	}

	return outputs, nil
}
