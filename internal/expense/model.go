package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yalshehri/tripsplit/internal/expense/split"
)

// Expense represents a shared expense within a trip. Amounts are integer
// minor units (e.g. cents) in the expense's own currency.
type Expense struct {
	ID          int64     `json:"id"`
	TripID      int64     `json:"trip_id"`
	PayerID     int64     `json:"payer_id"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	SplitType   string    `json:"split_type"` // EQUAL, CUSTOM, SHARES
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// FXRate is the conversion rate from the expense currency to the trip's
	// base currency, captured once at creation time and never recomputed.
	// Invalid (null) when the provider had no rate for the pair and date;
	// such expenses are excluded from balance calculations.
	FXRate decimal.NullDecimal `json:"fx_rate"`
}

// Share is one participant's slice of an expense, in the expense's currency.
// The payer carries their own share, so the shares of an expense sum exactly
// to its amount.
type Share struct {
	ID            int64 `json:"id"`
	ExpenseID     int64 `json:"expense_id"`
	ParticipantID int64 `json:"participant_id"`
	Amount        int64 `json:"amount"`
}

// ExpenseWithShares combines an expense with its shares
type ExpenseWithShares struct {
	Expense *Expense
	Shares  []*Share
}

// ShareParticipant is used when creating an expense with shares
type ShareParticipant struct {
	ParticipantID int64  `json:"participant_id" validate:"required,gt=0"`
	Amount        *int64 `json:"amount,omitempty"` // For CUSTOM split
	Weight        *int64 `json:"weight,omitempty"` // For SHARES split
}

// ToSplitInput converts to the split package's input type
func (p *ShareParticipant) ToSplitInput() split.SplitInput {
	return split.SplitInput{
		ParticipantID: p.ParticipantID,
		Amount:        p.Amount,
		Weight:        p.Weight,
	}
}
