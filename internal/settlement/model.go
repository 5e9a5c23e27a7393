package settlement

import "time"

// Status represents the status of a settlement. The transition is one-way:
// PENDING -> SETTLED, and SETTLED is terminal. A settled record is immutable;
// recomputation never updates, replaces or deletes it.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSettled Status = "SETTLED"
)

// Settlement is a directed payment instruction from one trip participant to
// another, in the trip's base currency (integer minor units). While pending
// it is uniquely addressed per trip by the (from, to) pair.
type Settlement struct {
	ID        int64      `json:"id"`
	TripID    int64      `json:"trip_id"`
	FromID    int64      `json:"from_participant"`
	ToID      int64      `json:"to_participant"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	Status    Status     `json:"status"`
	Note      *string    `json:"note,omitempty"`
	SettledBy *int64     `json:"settled_by,omitempty"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Balance is a participant's net position in the trip's base currency.
// Positive means owed money, negative means owes money. Derived, never
// persisted.
type Balance struct {
	ParticipantID int64 `json:"participant_id"`
	Amount        int64 `json:"amount"`
}

// Transfer is one debtor-to-creditor payment produced by the optimizer.
type Transfer struct {
	FromID int64
	ToID   int64
	Amount int64
}
