package trip

import "time"

// Trip represents a trip whose participants share expenses. All balances and
// settlements for a trip are expressed in its base currency.
type Trip struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	BaseCurrency string    `json:"base_currency"`
	CreatedAt    time.Time `json:"created_at"`
}

// Participant represents a person taking part in a trip. Participant IDs are
// opaque references into the external user system; this service never reads
// user profiles.
type Participant struct {
	ID            int64     `json:"id"`
	TripID        int64     `json:"trip_id"`
	ParticipantID int64     `json:"participant_id"`
	DisplayName   string    `json:"display_name"`
	JoinedAt      time.Time `json:"joined_at"`
}
