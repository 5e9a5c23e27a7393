package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository defines the settlement ledger store. The service depends on this
// interface so tests can substitute an in-memory fake.
type Repository interface {
	GetByTrip(ctx context.Context, tripID int64) ([]*Settlement, error)
	GetByID(ctx context.Context, id int64) (*Settlement, error)
	// UpsertPending inserts new pending records (ID zero) and overwrites the
	// amount and currency of existing ones (ID set), populating the IDs of
	// inserted records. Settled records are never touched.
	UpsertPending(ctx context.Context, tripID int64, settlements []*Settlement) error
	// DeletePending removes the given pending records. Rows that have been
	// settled in the meantime are left alone.
	DeletePending(ctx context.Context, tripID int64, ids []int64) error
	// MarkSettled transitions a pending settlement to settled. Returns nil
	// without error when the row is no longer pending, so concurrent
	// attempts resolve to exactly one winner.
	MarkSettled(ctx context.Context, id, actorID int64, note *string) (*Settlement, error)
}

// PostgresRepository handles settlement data persistence
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const settlementColumns = `id, trip_id, from_participant, to_participant, amount, currency, status, note, settled_by, settled_at, created_at, updated_at`

func scanSettlement(row interface{ Scan(...any) error }) (*Settlement, error) {
	s := &Settlement{}
	err := row.Scan(
		&s.ID,
		&s.TripID,
		&s.FromID,
		&s.ToID,
		&s.Amount,
		&s.Currency,
		&s.Status,
		&s.Note,
		&s.SettledBy,
		&s.SettledAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByTrip retrieves all settlements of a trip, pending and settled
func (r *PostgresRepository) GetByTrip(ctx context.Context, tripID int64) ([]*Settlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM settlements
		WHERE trip_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}

	return settlements, rows.Err()
}

// GetByID retrieves a settlement by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE id = $1`

	s, err := scanSettlement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return s, nil
}

// UpsertPending applies the reconciler's pending-record changes in one
// transaction: inserts for records without an ID, in-place amount/currency
// overwrites for the rest
func (r *PostgresRepository) UpsertPending(ctx context.Context, tripID int64, settlements []*Settlement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO settlements (trip_id, from_participant, to_participant, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	updateQuery := `
		UPDATE settlements
		SET amount = $2, currency = $3, updated_at = now()
		WHERE id = $1 AND status = $4
		RETURNING updated_at
	`

	for _, s := range settlements {
		if s.ID == 0 {
			err = tx.QueryRowContext(ctx, insertQuery,
				tripID, s.FromID, s.ToID, s.Amount, s.Currency, StatusPending,
			).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert pending settlement: %w", err)
			}
			s.TripID = tripID
			s.Status = StatusPending
		} else {
			err = tx.QueryRowContext(ctx, updateQuery,
				s.ID, s.Amount, s.Currency, StatusPending,
			).Scan(&s.UpdatedAt)
			if err == sql.ErrNoRows {
				// The row was settled between the ledger read and this
				// write; settled records are immutable, leave it alone.
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to update pending settlement %d: %w", s.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlements: %w", err)
	}

	return nil
}

// DeletePending removes pending settlements whose (from, to) pair no longer
// appears in the desired set
func (r *PostgresRepository) DeletePending(ctx context.Context, tripID int64, ids []int64) error {
	query := `
		DELETE FROM settlements
		WHERE trip_id = $1 AND id = ANY($2) AND status = $3
	`

	if _, err := r.db.ExecContext(ctx, query, tripID, pq.Array(ids), StatusPending); err != nil {
		return fmt.Errorf("failed to delete pending settlements: %w", err)
	}

	return nil
}

// MarkSettled transitions a settlement to SETTLED with a single conditional
// update. The status guard makes concurrent attempts race-safe: the loser
// matches zero rows and gets nil back.
func (r *PostgresRepository) MarkSettled(ctx context.Context, id, actorID int64, note *string) (*Settlement, error) {
	query := `
		UPDATE settlements
		SET status = $2, settled_by = $3, settled_at = now(), note = COALESCE($4, note), updated_at = now()
		WHERE id = $1 AND status = $5
		RETURNING ` + settlementColumns

	s, err := scanSettlement(r.db.QueryRowContext(ctx, query, id, StatusSettled, actorID, note, StatusPending))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark settlement settled: %w", err)
	}

	return s, nil
}
