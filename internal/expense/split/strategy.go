package split

import (
	"errors"
	"fmt"
)

// SplitType defines the type of split strategy
type SplitType string

const (
	SplitTypeEqual  SplitType = "EQUAL"
	SplitTypeCustom SplitType = "CUSTOM"
	SplitTypeShares SplitType = "SHARES"
)

// SplitInput represents a participant in a split with optional values.
// Amounts are integer minor units (e.g. cents) in the expense's currency.
type SplitInput struct {
	ParticipantID int64  `json:"participant_id"`
	Amount        *int64 `json:"amount,omitempty"` // For CUSTOM split
	Weight        *int64 `json:"weight,omitempty"` // For SHARES split
}

// SplitOutput is the calculated share for a single participant. Every
// participant appears here, the payer included: the payer carries their own
// share so the shares of an expense always sum exactly to its amount.
type SplitOutput struct {
	ParticipantID int64 `json:"participant_id"`
	Amount        int64 `json:"amount"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Calculate computes the share amounts for all participants.
	// The returned shares sum exactly to totalAmount.
	Calculate(totalAmount int64, participants []SplitInput) ([]SplitOutput, error)

	// Type returns the type identifier for this strategy
	Type() SplitType

	// Validate checks if the inputs are valid for this strategy
	Validate(totalAmount int64, participants []SplitInput) error
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(splitType SplitType) (Strategy, error) {
	switch splitType {
	case SplitTypeEqual:
		return &EqualStrategy{}, nil
	case SplitTypeCustom:
		return &CustomStrategy{}, nil
	case SplitTypeShares:
		return &SharesStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split type: %s", splitType)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(splitType string) (Strategy, error) {
	return f.Create(SplitType(splitType))
}

var (
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrMissingCustomAmount  = errors.New("amount required for all participants")
	ErrCustomSumMismatch    = errors.New("custom amounts must sum to the total amount")
	ErrMissingWeight        = errors.New("weight required for all participants")
	ErrInvalidWeight        = errors.New("weights must be positive")
)

// checkParticipants enforces the constraints shared by every strategy.
func checkParticipants(totalAmount int64, participants []SplitInput) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalAmount < 0 {
		return ErrNegativeAmount
	}
	seen := make(map[int64]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.ParticipantID]; dup {
			return ErrDuplicateParticipant
		}
		seen[p.ParticipantID] = struct{}{}
	}
	return nil
}
