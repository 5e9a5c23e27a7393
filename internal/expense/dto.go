package expense

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	TripID       int64               `json:"trip_id" validate:"required,gt=0"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       int64               `json:"amount" validate:"required,gt=0"`
	Currency     string              `json:"currency" validate:"required,iso4217"`
	Date         string              `json:"date" validate:"required,datetime=2006-01-02"`
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL CUSTOM SHARES"`
	Participants []*ShareParticipant `json:"participants" validate:"required,min=1,dive"`
}

// UpdateExpenseRequest represents the request to update an expense.
// Amount, currency and the FX snapshot are immutable after creation.
type UpdateExpenseRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	Date        *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          int64            `json:"id"`
	TripID      int64            `json:"trip_id"`
	PayerID     int64            `json:"payer_id"`
	Description string           `json:"description"`
	Amount      int64            `json:"amount"`
	Currency    string           `json:"currency"`
	SplitType   string           `json:"split_type"`
	Date        string           `json:"date"`
	FXRate      *string          `json:"fx_rate,omitempty"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Shares      []*ShareResponse `json:"shares,omitempty"`
}

// ShareResponse represents the response for a share
type ShareResponse struct {
	ID            int64 `json:"id"`
	ExpenseID     int64 `json:"expense_id"`
	ParticipantID int64 `json:"participant_id"`
	Amount        int64 `json:"amount"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		PayerID:     e.PayerID,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		SplitType:   e.SplitType,
		Date:        e.Date.Format("2006-01-02"),
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if e.FXRate.Valid {
		rate := e.FXRate.Decimal.String()
		resp.FXRate = &rate
	}
	return resp
}

// ToResponse converts a Share model to a ShareResponse DTO
func (s *Share) ToResponse() *ShareResponse {
	return &ShareResponse{
		ID:            s.ID,
		ExpenseID:     s.ExpenseID,
		ParticipantID: s.ParticipantID,
		Amount:        s.Amount,
	}
}
