package expense

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository defines expense data access. The service and the settlement
// engine depend on this interface so tests can substitute in-memory fakes.
type Repository interface {
	// CreateExpense persists an expense and its shares in one transaction,
	// populating the IDs on the passed records.
	CreateExpense(ctx context.Context, e *Expense, shares []*Share) error
	GetExpenseByID(ctx context.Context, id int64) (*Expense, error)
	GetSharesByExpenseID(ctx context.Context, expenseID int64) ([]*Share, error)
	ListExpensesByTripID(ctx context.Context, tripID int64, limit, offset int) ([]*Expense, int, error)
	// ListByTripWithShares returns every expense of a trip with shares
	// embedded, ordered by date then ID. This is the settlement engine's
	// read path.
	ListByTripWithShares(ctx context.Context, tripID int64) ([]*ExpenseWithShares, error)
	UpdateExpense(ctx context.Context, id int64, req *UpdateExpenseRequest) (*Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

// PostgresRepository handles expense and share data persistence
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const expenseColumns = `id, trip_id, payer_id, description, amount, currency, split_type, date, fx_rate, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.TripID,
		&e.PayerID,
		&e.Description,
		&e.Amount,
		&e.Currency,
		&e.SplitType,
		&e.Date,
		&e.FXRate,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateExpense inserts an expense and its shares in a single transaction
func (r *PostgresRepository) CreateExpense(ctx context.Context, e *Expense, shares []*Share) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	expenseQuery := `
		INSERT INTO expenses (trip_id, payer_id, description, amount, currency, split_type, date, fx_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, expenseQuery,
		e.TripID,
		e.PayerID,
		e.Description,
		e.Amount,
		e.Currency,
		e.SplitType,
		e.Date,
		e.FXRate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	shareQuery := `
		INSERT INTO expense_shares (expense_id, participant_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	for _, share := range shares {
		share.ExpenseID = e.ID
		if err := tx.QueryRowContext(ctx, shareQuery, share.ExpenseID, share.ParticipantID, share.Amount).Scan(&share.ID); err != nil {
			return fmt.Errorf("failed to create share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense: %w", err)
	}

	return nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *PostgresRepository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// GetSharesByExpenseID retrieves all shares of an expense
func (r *PostgresRepository) GetSharesByExpenseID(ctx context.Context, expenseID int64) ([]*Share, error) {
	query := `
		SELECT id, expense_id, participant_id, amount
		FROM expense_shares
		WHERE expense_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []*Share
	for rows.Next() {
		share := &Share{}
		if err := rows.Scan(&share.ID, &share.ExpenseID, &share.ParticipantID, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}

	return shares, rows.Err()
}

// ListExpensesByTripID retrieves a page of expenses for a trip
func (r *PostgresRepository) ListExpensesByTripID(ctx context.Context, tripID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE trip_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, tripID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, tripID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, total, rows.Err()
}

// ListByTripWithShares retrieves all expenses of a trip with their shares
func (r *PostgresRepository) ListByTripWithShares(ctx context.Context, tripID int64) ([]*ExpenseWithShares, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = $1
		ORDER BY date, id
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var result []*ExpenseWithShares
	byID := make(map[int64]*ExpenseWithShares)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		ews := &ExpenseWithShares{Expense: e}
		byID[e.ID] = ews
		result = append(result, ews)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return result, nil
	}

	shareQuery := `
		SELECT s.id, s.expense_id, s.participant_id, s.amount
		FROM expense_shares s
		JOIN expenses e ON s.expense_id = e.id
		WHERE e.trip_id = $1
		ORDER BY s.id
	`
	shareRows, err := r.db.QueryContext(ctx, shareQuery, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		share := &Share{}
		if err := shareRows.Scan(&share.ID, &share.ExpenseID, &share.ParticipantID, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if ews, ok := byID[share.ExpenseID]; ok {
			ews.Shares = append(ews.Shares, share)
		}
	}

	return result, shareRows.Err()
}

// UpdateExpense updates the mutable fields of an expense
func (r *PostgresRepository) UpdateExpense(ctx context.Context, id int64, req *UpdateExpenseRequest) (*Expense, error) {
	query := `
		UPDATE expenses
		SET description = COALESCE($2, description),
		    date = COALESCE($3::date, date),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + expenseColumns

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id, req.Description, req.Date))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return e, nil
}

// DeleteExpense deletes an expense and its shares (cascade)
func (r *PostgresRepository) DeleteExpense(ctx context.Context, id int64) error {
	query := `DELETE FROM expenses WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return nil
}
