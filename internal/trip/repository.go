package trip

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository defines trip data access. The service depends on this interface
// so tests can substitute an in-memory fake.
type Repository interface {
	CreateTrip(ctx context.Context, req *CreateTripRequest) (*Trip, error)
	GetTripByID(ctx context.Context, id int64) (*Trip, error)
	AddParticipant(ctx context.Context, tripID int64, req *AddParticipantRequest) (*Participant, error)
	ListParticipants(ctx context.Context, tripID int64) ([]*Participant, error)
	IsParticipant(ctx context.Context, tripID, participantID int64) (bool, error)
}

// PostgresRepository handles trip data persistence
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a new trip repository
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateTrip inserts a new trip into the database
func (r *PostgresRepository) CreateTrip(ctx context.Context, req *CreateTripRequest) (*Trip, error) {
	query := `
		INSERT INTO trips (name, description, base_currency)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, base_currency, created_at
	`

	trip := &Trip{}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Description, req.BaseCurrency).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Description,
		&trip.BaseCurrency,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return trip, nil
}

// GetTripByID retrieves a trip by its ID
func (r *PostgresRepository) GetTripByID(ctx context.Context, id int64) (*Trip, error) {
	query := `
		SELECT id, name, description, base_currency, created_at
		FROM trips
		WHERE id = $1
	`

	trip := &Trip{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Description,
		&trip.BaseCurrency,
		&trip.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// AddParticipant inserts a new trip participant
func (r *PostgresRepository) AddParticipant(ctx context.Context, tripID int64, req *AddParticipantRequest) (*Participant, error) {
	query := `
		INSERT INTO trip_participants (trip_id, participant_id, display_name)
		VALUES ($1, $2, $3)
		RETURNING id, trip_id, participant_id, display_name, joined_at
	`

	participant := &Participant{}
	err := r.db.QueryRowContext(ctx, query, tripID, req.ParticipantID, req.DisplayName).Scan(
		&participant.ID,
		&participant.TripID,
		&participant.ParticipantID,
		&participant.DisplayName,
		&participant.JoinedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrParticipantExists
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	return participant, nil
}

// ListParticipants retrieves all participants of a trip
func (r *PostgresRepository) ListParticipants(ctx context.Context, tripID int64) ([]*Participant, error) {
	query := `
		SELECT id, trip_id, participant_id, display_name, joined_at
		FROM trip_participants
		WHERE trip_id = $1
		ORDER BY joined_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		participant := &Participant{}
		if err := rows.Scan(
			&participant.ID,
			&participant.TripID,
			&participant.ParticipantID,
			&participant.DisplayName,
			&participant.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, participant)
	}

	return participants, rows.Err()
}

// IsParticipant reports whether the given participant belongs to the trip
func (r *PostgresRepository) IsParticipant(ctx context.Context, tripID, participantID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM trip_participants
			WHERE trip_id = $1 AND participant_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tripID, participantID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}

	return exists, nil
}
