package trip

// CreateTripRequest represents the request to create a new trip
type CreateTripRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	Description  *string `json:"description,omitempty"`
	BaseCurrency string  `json:"base_currency" validate:"required,iso4217"`
}

// AddParticipantRequest represents the request to add a participant to a trip
type AddParticipantRequest struct {
	ParticipantID int64  `json:"participant_id" validate:"required,gt=0"`
	DisplayName   string `json:"display_name" validate:"required,min=1,max=100"`
}

// TripResponse represents the response for a trip
type TripResponse struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Description  *string                `json:"description,omitempty"`
	BaseCurrency string                 `json:"base_currency"`
	CreatedAt    string                 `json:"created_at"`
	Participants []*ParticipantResponse `json:"participants,omitempty"`
}

// ParticipantResponse represents a participant in a trip response
type ParticipantResponse struct {
	ID            int64  `json:"id"`
	ParticipantID int64  `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	JoinedAt      string `json:"joined_at"`
}

// ToResponse converts a Trip model to a TripResponse DTO
func (t *Trip) ToResponse() *TripResponse {
	return &TripResponse{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		BaseCurrency: t.BaseCurrency,
		CreatedAt:    t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Participant model to a ParticipantResponse DTO
func (p *Participant) ToResponse() *ParticipantResponse {
	return &ParticipantResponse{
		ID:            p.ID,
		ParticipantID: p.ParticipantID,
		DisplayName:   p.DisplayName,
		JoinedAt:      p.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}
