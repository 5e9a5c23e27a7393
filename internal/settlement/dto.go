package settlement

// MarkPaidRequest represents the request to mark a settlement as paid
type MarkPaidRequest struct {
	Note *string `json:"note,omitempty" validate:"omitempty,min=1,max=500"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID        int64   `json:"id"`
	TripID    int64   `json:"trip_id"`
	FromID    int64   `json:"from_participant"`
	ToID      int64   `json:"to_participant"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	Status    Status  `json:"status"`
	Note      *string `json:"note,omitempty"`
	SettledBy *int64  `json:"settled_by,omitempty"`
	SettledAt *string `json:"settled_at,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// SummaryResponse represents the settlement summary of a trip
type SummaryResponse struct {
	Balances           []Balance             `json:"balances"`
	PendingSettlements []*SettlementResponse `json:"pending_settlements"`
	SettledSettlements []*SettlementResponse `json:"settled_settlements"`
	TotalExpenses      int64                 `json:"total_expenses"`
	ExcludedExpenses   []int64               `json:"excluded_expenses"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	resp := &SettlementResponse{
		ID:        s.ID,
		TripID:    s.TripID,
		FromID:    s.FromID,
		ToID:      s.ToID,
		Amount:    s.Amount,
		Currency:  s.Currency,
		Status:    s.Status,
		Note:      s.Note,
		SettledBy: s.SettledBy,
		CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: s.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if s.SettledAt != nil {
		settledAt := s.SettledAt.Format("2006-01-02T15:04:05Z")
		resp.SettledAt = &settledAt
	}
	return resp
}

// ToResponse converts a Summary to a SummaryResponse DTO
func (s *Summary) ToResponse() *SummaryResponse {
	pending := make([]*SettlementResponse, len(s.Pending))
	for i, rec := range s.Pending {
		pending[i] = rec.ToResponse()
	}
	settled := make([]*SettlementResponse, len(s.Settled))
	for i, rec := range s.Settled {
		settled[i] = rec.ToResponse()
	}
	return &SummaryResponse{
		Balances:           s.Balances,
		PendingSettlements: pending,
		SettledSettlements: settled,
		TotalExpenses:      s.TotalSpent,
		ExcludedExpenses:   s.ExcludedExpenseIDs,
	}
}
