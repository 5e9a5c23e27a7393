package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/yalshehri/tripsplit/internal/expense/split"
	"github.com/yalshehri/tripsplit/internal/fx"
	"github.com/yalshehri/tripsplit/internal/trip"
)

// Common errors
var (
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrTripNotFound       = errors.New("trip not found")
	ErrNotTripParticipant = errors.New("payer is not a participant of the trip")
	ErrNotPayer           = errors.New("only the payer can modify an expense")
)

// TripStore is the slice of the trip repository this service needs.
type TripStore interface {
	GetTripByID(ctx context.Context, id int64) (*trip.Trip, error)
	IsParticipant(ctx context.Context, tripID, participantID int64) (bool, error)
}

// Service handles expense business logic
type Service struct {
	repo         Repository
	trips        TripStore
	rates        fx.Provider
	splitFactory *split.Factory
}

// NewService creates a new expense service with dependencies injected
func NewService(repo Repository, trips TripStore, rates fx.Provider, splitFactory *split.Factory) *Service {
	return &Service{
		repo:         repo,
		trips:        trips,
		rates:        rates,
		splitFactory: splitFactory,
	}
}

// CreateExpense creates a new expense, calculates its shares using the
// requested strategy and captures the FX snapshot. The snapshot is written
// exactly once here; it is never re-fetched, so historical settlement figures
// stay stable even when the provider's rates change later. A missing rate is
// not an error: the expense is stored with a null snapshot and the balance
// calculator reports it as excluded.
func (s *Service) CreateExpense(ctx context.Context, payerID int64, req *CreateExpenseRequest) (*ExpenseWithShares, error) {
	t, err := s.trips.GetTripByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTripNotFound
	}

	isMember, err := s.trips.IsParticipant(ctx, req.TripID, payerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotTripParticipant
	}

	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}

	inputs := make([]split.SplitInput, len(req.Participants))
	for i, p := range req.Participants {
		inputs[i] = p.ToSplitInput()
	}

	outputs, err := strategy.Calculate(req.Amount, inputs)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	e := &Expense{
		TripID:      req.TripID,
		PayerID:     payerID,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		SplitType:   req.SplitType,
		Date:        date,
	}

	if req.Currency != t.BaseCurrency {
		rate, ok, err := s.rates.Rate(ctx, date, req.Currency, t.BaseCurrency)
		if err != nil {
			// Degrade to a null snapshot; the expense will surface as
			// excluded in the settlement summary until a rate exists.
			slog.Warn("FX rate lookup failed, storing null snapshot",
				"trip_id", req.TripID, "currency", req.Currency, "base", t.BaseCurrency, "error", err)
		} else if ok {
			e.FXRate.Decimal = rate
			e.FXRate.Valid = true
		}
	}

	shares := make([]*Share, len(outputs))
	for i, out := range outputs {
		shares[i] = &Share{
			ParticipantID: out.ParticipantID,
			Amount:        out.Amount,
		}
	}

	if err := s.repo.CreateExpense(ctx, e, shares); err != nil {
		return nil, err
	}

	return &ExpenseWithShares{Expense: e, Shares: shares}, nil
}

// GetExpenseByID retrieves an expense with its shares
func (s *Service) GetExpenseByID(ctx context.Context, id int64) (*ExpenseWithShares, error) {
	e, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	shares, err := s.repo.GetSharesByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithShares{Expense: e, Shares: shares}, nil
}

// ListExpensesByTripID retrieves expenses for a trip
func (s *Service) ListExpensesByTripID(ctx context.Context, tripID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListExpensesByTripID(ctx, tripID, perPage, offset)
}

// UpdateExpense updates the description or date of an expense. Amount,
// currency and the FX snapshot are immutable; changing them would rewrite
// settlement history.
func (s *Service) UpdateExpense(ctx context.Context, id, actorID int64, req *UpdateExpenseRequest) (*Expense, error) {
	e, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	if e.PayerID != actorID {
		return nil, ErrNotPayer
	}

	updated, err := s.repo.UpdateExpense(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrExpenseNotFound
	}

	return updated, nil
}

// DeleteExpense deletes an expense and its shares
func (s *Service) DeleteExpense(ctx context.Context, id, actorID int64) error {
	e, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrExpenseNotFound
	}

	if e.PayerID != actorID {
		return ErrNotPayer
	}

	return s.repo.DeleteExpense(ctx, id)
}
