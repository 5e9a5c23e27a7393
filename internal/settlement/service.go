package settlement

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/yalshehri/tripsplit/internal/expense"
	"github.com/yalshehri/tripsplit/internal/trip"
)

// Common errors
var (
	ErrTripNotFound       = errors.New("trip not found")
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrSharesMismatch     = errors.New("expense shares do not sum to the expense amount")
	ErrUnbalancedLedger   = errors.New("participant balances do not sum to zero")
	ErrNotParticipant     = errors.New("only a party to the settlement can mark it as paid")
	ErrAlreadySettled     = errors.New("settlement is already settled")
)

// ExpenseStore is the slice of the expense repository this service needs.
// The caller's data-access policy layer has already applied read
// authorization by the time expenses reach this engine.
type ExpenseStore interface {
	ListByTripWithShares(ctx context.Context, tripID int64) ([]*expense.ExpenseWithShares, error)
}

// TripStore is the slice of the trip repository this service needs.
type TripStore interface {
	GetTripByID(ctx context.Context, id int64) (*trip.Trip, error)
}

// Service runs the settlement pipeline: balance calculation, transfer
// optimization and ledger reconciliation.
type Service struct {
	repo     Repository
	expenses ExpenseStore
	trips    TripStore
	locks    *tripLocker
}

// NewService creates a new settlement service with dependencies injected
func NewService(repo Repository, expenses ExpenseStore, trips TripStore) *Service {
	return &Service{
		repo:     repo,
		expenses: expenses,
		trips:    trips,
		locks:    newTripLocker(),
	}
}

// Summary is the full settlement picture of a trip.
type Summary struct {
	Balances           []Balance
	Pending            []*Settlement
	Settled            []*Settlement
	TotalSpent         int64
	ExcludedExpenseIDs []int64
}

// GetSummary computes the trip's balances, derives the minimal pending
// transfers and reconciles them into the ledger.
//
// Settled records are read-only inputs: their amounts are treated as already
// paid and applied to the balances before optimization, and reconciliation
// never touches them. Desired transfers overwrite existing pending records
// with the same (from, to) pair in place, keeping their IDs; pending records
// whose pair is no longer desired are deleted. Re-running with unchanged
// inputs reuses the same IDs and amounts and writes nothing.
//
// The ledger read, optimization and writes run under a per-trip lock so
// concurrent summary requests cannot interleave. The balance calculation
// only reads expenses and runs before the lock.
func (s *Service) GetSummary(ctx context.Context, tripID int64) (*Summary, error) {
	t, err := s.trips.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTripNotFound
	}

	expenses, err := s.expenses.ListByTripWithShares(ctx, tripID)
	if err != nil {
		return nil, err
	}

	sheet, err := CalculateBalances(t.BaseCurrency, expenses)
	if err != nil {
		return nil, err
	}
	if len(sheet.ExcludedExpenseIDs) > 0 {
		slog.Warn("expenses excluded from balances, missing FX snapshot",
			"trip_id", tripID, "expense_ids", sheet.ExcludedExpenseIDs)
	}

	unlock := s.locks.Lock(tripID)
	defer unlock()

	existing, err := s.repo.GetByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	type pair struct{ from, to int64 }
	pendingByPair := make(map[pair]*Settlement)
	var settled []*Settlement

	balances := make(map[int64]int64, len(sheet.Balances))
	for id, amount := range sheet.Balances {
		balances[id] = amount
	}

	for _, rec := range existing {
		switch rec.Status {
		case StatusSettled:
			// A settled amount has changed hands: the payer's debt shrinks
			// and the receiver's credit shrinks by the same amount.
			balances[rec.FromID] += rec.Amount
			balances[rec.ToID] -= rec.Amount
			settled = append(settled, rec)
		case StatusPending:
			pendingByPair[pair{from: rec.FromID, to: rec.ToID}] = rec
		}
	}

	transfers, err := MinimizeTransfers(balances)
	if err != nil {
		return nil, err
	}

	var pending []*Settlement
	var upserts []*Settlement
	desired := make(map[pair]bool, len(transfers))

	for _, tr := range transfers {
		p := pair{from: tr.FromID, to: tr.ToID}
		desired[p] = true

		if rec, ok := pendingByPair[p]; ok {
			if rec.Amount != tr.Amount || rec.Currency != t.BaseCurrency {
				rec.Amount = tr.Amount
				rec.Currency = t.BaseCurrency
				upserts = append(upserts, rec)
			}
			pending = append(pending, rec)
			continue
		}

		rec := &Settlement{
			TripID:   tripID,
			FromID:   tr.FromID,
			ToID:     tr.ToID,
			Amount:   tr.Amount,
			Currency: t.BaseCurrency,
			Status:   StatusPending,
		}
		upserts = append(upserts, rec)
		pending = append(pending, rec)
	}

	var stale []int64
	for p, rec := range pendingByPair {
		if !desired[p] {
			stale = append(stale, rec.ID)
		}
	}

	if len(upserts) > 0 {
		if err := s.repo.UpsertPending(ctx, tripID, upserts); err != nil {
			return nil, err
		}
	}
	if len(stale) > 0 {
		if err := s.repo.DeletePending(ctx, tripID, stale); err != nil {
			return nil, err
		}
	}

	balanceList := make([]Balance, 0, len(balances))
	for id, amount := range balances {
		balanceList = append(balanceList, Balance{ParticipantID: id, Amount: amount})
	}
	sort.Slice(balanceList, func(i, j int) bool {
		return balanceList[i].ParticipantID < balanceList[j].ParticipantID
	})

	return &Summary{
		Balances:           balanceList,
		Pending:            pending,
		Settled:            settled,
		TotalSpent:         sheet.TotalSpent,
		ExcludedExpenseIDs: sheet.ExcludedExpenseIDs,
	}, nil
}

// MarkAsPaid transitions a pending settlement to settled. Only the from or
// to participant may do so. Marking an already-settled settlement is an
// error, not a silent no-op, so callers can detect double submission.
func (s *Service) MarkAsPaid(ctx context.Context, settlementID, actorID int64, note *string) (*Settlement, error) {
	rec, err := s.repo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrSettlementNotFound
	}

	if actorID != rec.FromID && actorID != rec.ToID {
		return nil, ErrNotParticipant
	}

	if rec.Status != StatusPending {
		return nil, ErrAlreadySettled
	}

	updated, err := s.repo.MarkSettled(ctx, settlementID, actorID, note)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Lost the race against a concurrent mark-as-paid.
		return nil, ErrAlreadySettled
	}

	return updated, nil
}

// GetByID retrieves a settlement by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrSettlementNotFound
	}
	return rec, nil
}

// ListByTrip retrieves all settlements of a trip, pending and settled
func (s *Service) ListByTrip(ctx context.Context, tripID int64) ([]*Settlement, error) {
	t, err := s.trips.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTripNotFound
	}

	return s.repo.GetByTrip(ctx, tripID)
}
