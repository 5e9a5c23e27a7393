package expense

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yalshehri/tripsplit/internal/expense/split"
	"github.com/yalshehri/tripsplit/internal/fx"
	"github.com/yalshehri/tripsplit/internal/trip"
)

type fakeRepo struct {
	nextID   int64
	expenses map[int64]*Expense
	shares   map[int64][]*Share
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, expenses: make(map[int64]*Expense), shares: make(map[int64][]*Share)}
}

func (r *fakeRepo) CreateExpense(_ context.Context, e *Expense, shares []*Share) error {
	e.ID = r.nextID
	r.nextID++
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	for _, s := range shares {
		s.ID = r.nextID
		r.nextID++
		s.ExpenseID = e.ID
	}
	r.expenses[e.ID] = e
	r.shares[e.ID] = shares
	return nil
}

func (r *fakeRepo) GetExpenseByID(_ context.Context, id int64) (*Expense, error) {
	return r.expenses[id], nil
}

func (r *fakeRepo) GetSharesByExpenseID(_ context.Context, expenseID int64) ([]*Share, error) {
	return r.shares[expenseID], nil
}

func (r *fakeRepo) ListExpensesByTripID(_ context.Context, tripID int64, limit, offset int) ([]*Expense, int, error) {
	var out []*Expense
	for _, e := range r.expenses {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListByTripWithShares(_ context.Context, tripID int64) ([]*ExpenseWithShares, error) {
	var out []*ExpenseWithShares
	for id, e := range r.expenses {
		if e.TripID == tripID {
			out = append(out, &ExpenseWithShares{Expense: e, Shares: r.shares[id]})
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateExpense(_ context.Context, id int64, req *UpdateExpenseRequest) (*Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return nil, nil
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, err
		}
		e.Date = date
	}
	e.UpdatedAt = time.Now()
	return e, nil
}

func (r *fakeRepo) DeleteExpense(_ context.Context, id int64) error {
	delete(r.expenses, id)
	delete(r.shares, id)
	return nil
}

type fakeTrips struct {
	trip    *trip.Trip
	members map[int64]bool
}

func (f *fakeTrips) GetTripByID(_ context.Context, id int64) (*trip.Trip, error) {
	if f.trip != nil && f.trip.ID == id {
		return f.trip, nil
	}
	return nil, nil
}

func (f *fakeTrips) IsParticipant(_ context.Context, _, participantID int64) (bool, error) {
	return f.members[participantID], nil
}

func newTestService(rates map[fx.Pair]decimal.Decimal) (*Service, *fakeRepo) {
	repo := newFakeRepo()
	trips := &fakeTrips{
		trip:    &trip.Trip{ID: 1, Name: "Riyadh", BaseCurrency: "SAR"},
		members: map[int64]bool{1: true, 2: true, 3: true},
	}
	return NewService(repo, trips, fx.NewStaticProvider(rates), split.NewFactory()), repo
}

func equalRequest(currency string, amount int64, participantIDs ...int64) *CreateExpenseRequest {
	participants := make([]*ShareParticipant, len(participantIDs))
	for i, id := range participantIDs {
		participants[i] = &ShareParticipant{ParticipantID: id}
	}
	return &CreateExpenseRequest{
		TripID:       1,
		Description:  "dinner",
		Amount:       amount,
		Currency:     currency,
		Date:         "2026-03-14",
		SplitType:    "EQUAL",
		Participants: participants,
	}
}

func TestCreateExpense_CapturesSnapshot(t *testing.T) {
	svc, repo := newTestService(map[fx.Pair]decimal.Decimal{
		{From: "USD", To: "SAR"}: decimal.RequireFromString("3.75"),
	})

	result, err := svc.CreateExpense(context.Background(), 1, equalRequest("USD", 3000, 1, 2, 3))
	require.NoError(t, err)

	require.True(t, result.Expense.FXRate.Valid)
	assert.True(t, result.Expense.FXRate.Decimal.Equal(decimal.RequireFromString("3.75")))

	// The snapshot is stored as-is; the amount stays in the original currency.
	stored := repo.expenses[result.Expense.ID]
	assert.Equal(t, int64(3000), stored.Amount)
	assert.Equal(t, "USD", stored.Currency)
}

func TestCreateExpense_MissingRateStoresNullSnapshot(t *testing.T) {
	svc, _ := newTestService(nil)

	result, err := svc.CreateExpense(context.Background(), 1, equalRequest("JPY", 3000, 1, 2))
	require.NoError(t, err)

	assert.False(t, result.Expense.FXRate.Valid)
}

func TestCreateExpense_BaseCurrencySkipsLookup(t *testing.T) {
	svc, _ := newTestService(nil)

	result, err := svc.CreateExpense(context.Background(), 1, equalRequest("SAR", 3000, 1, 2, 3))
	require.NoError(t, err)

	assert.False(t, result.Expense.FXRate.Valid)
}

func TestCreateExpense_PersistsShares(t *testing.T) {
	svc, repo := newTestService(nil)

	result, err := svc.CreateExpense(context.Background(), 1, equalRequest("SAR", 1000, 1, 2, 3))
	require.NoError(t, err)

	require.Len(t, result.Shares, 3)
	var total int64
	for _, s := range result.Shares {
		assert.Equal(t, result.Expense.ID, s.ExpenseID)
		assert.NotZero(t, s.ID)
		total += s.Amount
	}
	assert.Equal(t, int64(1000), total)
	assert.Len(t, repo.shares[result.Expense.ID], 3)
}

func TestCreateExpense_PayerNotParticipant(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.CreateExpense(context.Background(), 9, equalRequest("SAR", 1000, 1, 2))
	require.ErrorIs(t, err, ErrNotTripParticipant)
}

func TestCreateExpense_TripNotFound(t *testing.T) {
	svc, _ := newTestService(nil)

	req := equalRequest("SAR", 1000, 1, 2)
	req.TripID = 99
	_, err := svc.CreateExpense(context.Background(), 1, req)
	require.ErrorIs(t, err, ErrTripNotFound)
}

func TestCreateExpense_CustomSumMismatch(t *testing.T) {
	svc, _ := newTestService(nil)

	a1, a2 := int64(600), int64(300)
	req := &CreateExpenseRequest{
		TripID:      1,
		Description: "taxi",
		Amount:      1000,
		Currency:    "SAR",
		Date:        "2026-03-14",
		SplitType:   "CUSTOM",
		Participants: []*ShareParticipant{
			{ParticipantID: 1, Amount: &a1},
			{ParticipantID: 2, Amount: &a2},
		},
	}

	_, err := svc.CreateExpense(context.Background(), 1, req)
	require.ErrorIs(t, err, split.ErrCustomSumMismatch)
}

func TestUpdateExpense_PayerOnly(t *testing.T) {
	svc, _ := newTestService(nil)

	created, err := svc.CreateExpense(context.Background(), 1, equalRequest("SAR", 1000, 1, 2))
	require.NoError(t, err)

	desc := "hotel"
	_, err = svc.UpdateExpense(context.Background(), created.Expense.ID, 2, &UpdateExpenseRequest{Description: &desc})
	require.ErrorIs(t, err, ErrNotPayer)

	updated, err := svc.UpdateExpense(context.Background(), created.Expense.ID, 1, &UpdateExpenseRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "hotel", updated.Description)
}

func TestDeleteExpense_PayerOnly(t *testing.T) {
	svc, repo := newTestService(nil)

	created, err := svc.CreateExpense(context.Background(), 1, equalRequest("SAR", 1000, 1, 2))
	require.NoError(t, err)

	err = svc.DeleteExpense(context.Background(), created.Expense.ID, 2)
	require.ErrorIs(t, err, ErrNotPayer)

	err = svc.DeleteExpense(context.Background(), created.Expense.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, repo.expenses)

	err = svc.DeleteExpense(context.Background(), created.Expense.ID, 1)
	require.ErrorIs(t, err, ErrExpenseNotFound)
}
